package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricReadingsProcessedTotal = "meterledger.analysis.readings_processed.total"
	metricFramesComputedTotal    = "meterledger.analysis.frames_computed.total"
	metricInvoiceAmountTotal     = "meterledger.invoice.amount.total"

	attrKind = "kind"
)

// AnalysisMetrics holds OTel instruments for reading-analysis and
// invoice-amount metrics, complementing the generic RED instruments in
// REDMetrics with domain-specific counters.
type AnalysisMetrics struct {
	readingsProcessed metric.Int64Counter
	framesComputed    metric.Int64Counter
	invoiceAmount     metric.Float64Counter
}

// AnalysisStats holds the statistics for a single analyzer run (monthly,
// yearly, or complete).
type AnalysisStats struct {
	Kind           string // "monthly", "yearly", or "complete".
	ReadingsCount  int
	FramesProduced int
}

// NewAnalysisMetrics creates analysis metric instruments from the given meter.
func NewAnalysisMetrics(mt metric.Meter) (*AnalysisMetrics, error) {
	readings, err := mt.Int64Counter(metricReadingsProcessedTotal,
		metric.WithDescription("Total readings consumed by analyzer runs"),
		metric.WithUnit("{reading}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricReadingsProcessedTotal, err)
	}

	frames, err := mt.Int64Counter(metricFramesComputedTotal,
		metric.WithDescription("Total statistics frames computed by analyzer runs"),
		metric.WithUnit("{frame}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricFramesComputedTotal, err)
	}

	amount, err := mt.Float64Counter(metricInvoiceAmountTotal,
		metric.WithDescription("Total monetary amount distributed across computed invoices"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricInvoiceAmountTotal, err)
	}

	return &AnalysisMetrics{
		readingsProcessed: readings,
		framesComputed:    frames,
		invoiceAmount:     amount,
	}, nil
}

// RecordRun records analyzer statistics for a completed Monthly/Yearly/
// Completely call. Safe to call on a nil receiver (no-op).
func (am *AnalysisMetrics) RecordRun(ctx context.Context, stats AnalysisStats) {
	if am == nil {
		return
	}

	attrs := metric.WithAttributes(attribute.String(attrKind, stats.Kind))

	am.readingsProcessed.Add(ctx, int64(stats.ReadingsCount), attrs)
	am.framesComputed.Add(ctx, int64(stats.FramesProduced), attrs)
}

// RecordInvoiceAmount records the total amount distributed by a single
// GetInvoice call. Safe to call on a nil receiver (no-op).
func (am *AnalysisMetrics) RecordInvoiceAmount(ctx context.Context, amount float64) {
	if am == nil {
		return
	}

	am.invoiceAmount.Add(ctx, amount)
}

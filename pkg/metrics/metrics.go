// Package metrics exposes the process-wide Prometheus counters and
// histograms for meterledger's core operations, registered against a
// dedicated registry rather than the default global one. cmd/meterledger
// creates that registry per invocation and does not serve it; serve-metrics
// serves the OpenTelemetry meter provider's registry instead.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the counters and histograms recorded by CLI commands.
type Metrics struct {
	InvoicesTotal          prometheus.Counter
	AnalysesTotal          *prometheus.CounterVec
	InvoiceDurationSeconds prometheus.Histogram
}

// analysisKindLabel names the label distinguishing monthly/yearly/complete
// analyses on AnalysesTotal.
const analysisKindLabel = "kind"

// New creates the metric instruments and registers them against reg.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		InvoicesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "meterledger_invoices_total",
			Help: "Total number of invoices computed.",
		}),
		AnalysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "meterledger_analyses_total",
			Help: "Total number of reading analyses run, by kind.",
		}, []string{analysisKindLabel}),
		InvoiceDurationSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "meterledger_invoice_duration_seconds",
			Help:    "Duration of invoice computation in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(m.InvoicesTotal, m.AnalysesTotal, m.InvoiceDurationSeconds)

	return m
}

// RecordAnalysis increments the analyses counter for the given kind
// ("monthly", "yearly", "complete").
func (m *Metrics) RecordAnalysis(kind string) {
	m.AnalysesTotal.WithLabelValues(kind).Inc()
}

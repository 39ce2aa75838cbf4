package observability

import (
	"context"
	"log/slog"
	"os"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// logSpanExporter writes finished spans to stderr as structured log lines.
// It exists because meterledger has no long-lived OTel collector to export
// to; with Config.DebugTrace set, an operator sees span timing locally instead.
type logSpanExporter struct {
	logger *slog.Logger
}

func newLogSpanExporter() *logSpanExporter {
	return &logSpanExporter{
		logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})),
	}
}

// ExportSpans implements sdktrace.SpanExporter.
func (e *logSpanExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, s := range spans {
		e.logger.DebugContext(ctx, "span",
			"name", s.Name(),
			"trace_id", s.SpanContext().TraceID().String(),
			"span_id", s.SpanContext().SpanID().String(),
			"duration", s.EndTime().Sub(s.StartTime()).String(),
		)
	}

	return nil
}

// Shutdown implements sdktrace.SpanExporter.
func (e *logSpanExporter) Shutdown(_ context.Context) error {
	return nil
}

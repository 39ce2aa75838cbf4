// Package commands implements meterledger's CLI subcommands: reading and
// person data entry, statistical analysis, and invoice computation.
package commands

import (
	"context"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/trace"

	"github.com/nls04/meterledger/internal/repository/sqlite"
	"github.com/nls04/meterledger/pkg/config"
	"github.com/nls04/meterledger/pkg/metrics"
	"github.com/nls04/meterledger/pkg/observability"
)

// App carries the dependencies shared by every subcommand. A single
// instance is allocated in main and populated by the root command's
// PersistentPreRunE before any subcommand's RunE runs.
type App struct {
	Config         *config.Config
	Repo           *sqlite.Repository
	Logger         *slog.Logger
	Tracer         trace.Tracer
	Metrics        *metrics.Metrics
	MetricsHandler http.Handler
}

// recordCommandError classifies a RunE failure onto the span active in ctx
// (via [observability.RecordSpanError]) and returns err unchanged, so every
// subcommand's error path leaves a queryable error.type/error.source on its
// trace instead of a bare log line.
func recordCommandError(ctx context.Context, err error, errType, errSource string) error {
	observability.RecordSpanError(trace.SpanFromContext(ctx), err, errType, errSource)

	return err
}

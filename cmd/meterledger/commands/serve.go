package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/nls04/meterledger/pkg/observability"
)

const serveShutdownGrace = 5 * time.Second

// NewServeMetricsCommand exposes the Prometheus scrape endpoint over HTTP,
// wrapped in request tracing/logging, until interrupted.
func NewServeMetricsCommand(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve-metrics",
		Short: "Serve the Prometheus /metrics endpoint",
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			mux := http.NewServeMux()
			mux.Handle("/metrics", app.MetricsHandler)

			handler := observability.HTTPMiddleware(app.Tracer, app.Logger, mux)

			server := &http.Server{
				Addr:              addr,
				Handler:           handler,
				ReadHeaderTimeout: serveShutdownGrace,
			}

			app.Logger.InfoContext(cobraCmd.Context(), "serve.metrics.listening", "addr", addr)

			errCh := make(chan error, 1)

			go func() { errCh <- server.ListenAndServe() }()

			select {
			case <-cobraCmd.Context().Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), serveShutdownGrace)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return fmt.Errorf("shut down metrics server: %w", err)
				}

				return nil
			case err := <-errCh:
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("serve metrics: %w", err)
				}

				return nil
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":9090", "address to serve /metrics on")

	return cmd
}

// Command meterledger analyzes utility-meter readings and splits a utility
// bill fairly across occupants based on their overlapping tenancy.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/nls04/meterledger/cmd/meterledger/commands"
	"github.com/nls04/meterledger/internal/repository/sqlite"
	"github.com/nls04/meterledger/pkg/config"
	"github.com/nls04/meterledger/pkg/metrics"
	"github.com/nls04/meterledger/pkg/observability"
	"github.com/nls04/meterledger/pkg/version"
)

const defaultShutdownTimeout = 5 * time.Second

func main() {
	var (
		configPath string
		dbPath     string
		verbose    bool
		quiet      bool
	)

	app := &commands.App{}

	var shutdown func(ctx context.Context) error

	rootCmd := &cobra.Command{
		Use:   "meterledger",
		Short: "Meter-reading analysis and fair-cost invoice distribution",
		Long: `meterledger tracks utility-meter readings and occupant tenancy, then
distributes a utility bill across occupants by the date sections each one
was responsible for, sections shared by overlapping occupants being split
between them.

Commands:
  reading        Manage meter readings
  person         Manage occupants
  analyze        Run statistical analysis over stored readings
  invoice        Compute a fair-cost invoice for a date range
  render         Render diagnostic visualizations
  serve-metrics  Serve the Prometheus /metrics endpoint`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cobraCmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}

			if dbPath != "" {
				cfg.Database.Path = dbPath
			}

			mode := observability.ModeCLI
			if cobraCmd.Name() == "serve-metrics" {
				mode = observability.ModeServe
			}

			obsCfg := observability.DefaultConfig()
			obsCfg.ServiceName = cfg.Observability.ServiceName
			obsCfg.Environment = cfg.Observability.Environment
			obsCfg.Mode = mode
			obsCfg.SampleRatio = cfg.Observability.SampleRatio
			obsCfg.ShutdownTimeoutSec = cfg.Observability.ShutdownTimeoutSec
			obsCfg.PrometheusAddr = cfg.Observability.PrometheusAddr
			obsCfg.LogLevel = logLevelFromConfig(cfg.Logging.Level, verbose, quiet)
			obsCfg.LogJSON = cfg.Logging.Format == "json"
			obsCfg.ServiceVersion = version.Version

			providers, err := observability.Init(obsCfg)
			if err != nil {
				return fmt.Errorf("initialize observability: %w", err)
			}

			repo, err := sqlite.Open(cfg.Database.Path)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}

			registry := prometheus.NewRegistry()

			app.Config = cfg
			app.Repo = repo
			app.Logger = providers.Logger
			app.Tracer = providers.Tracer
			app.Metrics = metrics.New(registry)
			app.MetricsHandler = providers.MetricsHandler
			shutdown = providers.Shutdown

			return nil
		},
		PersistentPostRunE: func(cobraCmd *cobra.Command, _ []string) error {
			var closeErr error
			if app.Repo != nil {
				closeErr = app.Repo.Close()
			}

			if shutdown != nil {
				ctx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
				defer cancel()

				if err := shutdown(ctx); err != nil {
					return fmt.Errorf("shut down observability: %w", err)
				}
			}

			if closeErr != nil {
				return fmt.Errorf("close database: %w", closeErr)
			}

			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a config file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to the SQLite database (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "log errors only")

	rootCmd.AddCommand(commands.NewReadingCommand(app))
	rootCmd.AddCommand(commands.NewPersonCommand(app))
	rootCmd.AddCommand(commands.NewAnalyzeCommand(app))
	rootCmd.AddCommand(commands.NewInvoiceCommand(app))
	rootCmd.AddCommand(commands.NewRenderCommand(app))
	rootCmd.AddCommand(commands.NewServeMetricsCommand(app))
	rootCmd.AddCommand(versionCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func logLevelFromConfig(level string, verbose, quiet bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}

	if quiet {
		return slog.LevelError
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "meterledger %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}

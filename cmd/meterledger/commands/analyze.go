package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nls04/meterledger/internal/core/analyzer"
	"github.com/nls04/meterledger/internal/render/table"
	"github.com/nls04/meterledger/pkg/observability"
)

// NewAnalyzeCommand builds the "analyze" command group: monthly, yearly, complete.
func NewAnalyzeCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run statistical analysis over stored readings",
	}

	cmd.AddCommand(newAnalyzeMonthlyCommand(app))
	cmd.AddCommand(newAnalyzeYearlyCommand(app))
	cmd.AddCommand(newAnalyzeCompleteCommand(app))

	return cmd
}

func newAnalyzeMonthlyCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "monthly",
		Short: "Break down statistics by calendar month",
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			ctx, span := app.Tracer.Start(cobraCmd.Context(), "meterledger.analyze.monthly")
			defer span.End()

			readings, err := app.Repo.AllReadings(ctx)
			if err != nil {
				return recordCommandError(ctx, fmt.Errorf("load readings: %w", err),
					observability.ErrTypeDependencyUnavailable, observability.ErrSourceDependency)
			}

			out := cobraCmd.OutOrStdout()

			for _, year := range analyzer.New(readings).Monthly() {
				for _, month := range year.Months {
					fmt.Fprintf(out, "%s %d\n", month.Month, year.Year)
					table.FrameStatistics(out, month.Points)
				}
			}

			app.Metrics.RecordAnalysis("monthly")
			app.Logger.InfoContext(ctx, "analyze.monthly.done", "readings", len(readings))

			return nil
		},
	}
}

func newAnalyzeYearlyCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "yearly",
		Short: "Break down statistics by calendar year",
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			ctx, span := app.Tracer.Start(cobraCmd.Context(), "meterledger.analyze.yearly")
			defer span.End()

			readings, err := app.Repo.AllReadings(ctx)
			if err != nil {
				return recordCommandError(ctx, fmt.Errorf("load readings: %w", err),
					observability.ErrTypeDependencyUnavailable, observability.ErrSourceDependency)
			}

			out := cobraCmd.OutOrStdout()

			for _, year := range analyzer.New(readings).Yearly() {
				fmt.Fprintf(out, "%d\n", year.Year)
				table.FrameStatistics(out, year.Points)
			}

			app.Metrics.RecordAnalysis("yearly")
			app.Logger.InfoContext(ctx, "analyze.yearly.done", "readings", len(readings))

			return nil
		},
	}
}

func newAnalyzeCompleteCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "complete",
		Short: "Compute statistics over the full reading history",
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			ctx, span := app.Tracer.Start(cobraCmd.Context(), "meterledger.analyze.complete")
			defer span.End()

			readings, err := app.Repo.AllReadings(ctx)
			if err != nil {
				return recordCommandError(ctx, fmt.Errorf("load readings: %w", err),
					observability.ErrTypeDependencyUnavailable, observability.ErrSourceDependency)
			}

			stats := analyzer.New(readings).Completely()
			table.FrameStatistics(cobraCmd.OutOrStdout(), stats)

			app.Metrics.RecordAnalysis("complete")
			app.Logger.InfoContext(ctx, "analyze.complete.done", "readings", len(readings))

			return nil
		},
	}
}

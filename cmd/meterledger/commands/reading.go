package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nls04/meterledger/internal/core/model"
	"github.com/nls04/meterledger/internal/render/table"
	"github.com/nls04/meterledger/pkg/observability"
)

const readingDateLayout = "2006-01-02"

// NewReadingCommand builds the "reading" command group: add, list, rm.
func NewReadingCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reading",
		Short: "Manage meter readings",
	}

	cmd.AddCommand(newReadingAddCommand(app))
	cmd.AddCommand(newReadingListCommand(app))
	cmd.AddCommand(newReadingRemoveCommand(app))

	return cmd
}

func newReadingAddCommand(app *App) *cobra.Command {
	var (
		date        string
		electricity float64
		gas         float64
		water       float64
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add or replace a meter reading",
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			ctx, span := app.Tracer.Start(cobraCmd.Context(), "meterledger.reading.add")
			defer span.End()

			parsed, err := time.Parse(readingDateLayout, date)
			if err != nil {
				return recordCommandError(ctx, fmt.Errorf("parse --date: %w", err),
					observability.ErrTypeValidation, observability.ErrSourceClient)
			}

			reading := model.Reading{Date: parsed}

			flags := cobraCmd.Flags()
			if flags.Changed("electricity") {
				reading.Attributes[model.AttrElectricity] = &electricity
			}

			if flags.Changed("gas") {
				reading.Attributes[model.AttrGas] = &gas
			}

			if flags.Changed("water") {
				reading.Attributes[model.AttrWater] = &water
			}

			if err := app.Repo.AddReading(ctx, reading); err != nil {
				return recordCommandError(ctx, fmt.Errorf("add reading: %w", err),
					observability.ErrTypeDependencyUnavailable, observability.ErrSourceDependency)
			}

			app.Logger.InfoContext(ctx, "reading.added", "date", date)

			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "reading date, YYYY-MM-DD (required)")
	cmd.Flags().Float64Var(&electricity, "electricity", 0, "electricity meter value")
	cmd.Flags().Float64Var(&gas, "gas", 0, "gas meter value")
	cmd.Flags().Float64Var(&water, "water", 0, "water meter value")

	if err := cmd.MarkFlagRequired("date"); err != nil {
		panic(err)
	}

	return cmd
}

func newReadingListCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all stored readings",
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			ctx, span := app.Tracer.Start(cobraCmd.Context(), "meterledger.reading.list")
			defer span.End()

			readings, err := app.Repo.AllReadings(ctx)
			if err != nil {
				return recordCommandError(ctx, fmt.Errorf("list readings: %w", err),
					observability.ErrTypeDependencyUnavailable, observability.ErrSourceDependency)
			}

			table.Readings(cobraCmd.OutOrStdout(), readings)

			return nil
		},
	}
}

func newReadingRemoveCommand(app *App) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "rm",
		Short: "Remove a reading by date",
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			ctx, span := app.Tracer.Start(cobraCmd.Context(), "meterledger.reading.rm")
			defer span.End()

			parsed, err := time.Parse(readingDateLayout, date)
			if err != nil {
				return recordCommandError(ctx, fmt.Errorf("parse --date: %w", err),
					observability.ErrTypeValidation, observability.ErrSourceClient)
			}

			if err := app.Repo.RemoveReading(ctx, parsed); err != nil {
				return recordCommandError(ctx, fmt.Errorf("remove reading: %w", err),
					observability.ErrTypeDependencyUnavailable, observability.ErrSourceDependency)
			}

			app.Logger.InfoContext(ctx, "reading.removed", "date", date)

			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "reading date, YYYY-MM-DD (required)")

	if err := cmd.MarkFlagRequired("date"); err != nil {
		panic(err)
	}

	return cmd
}

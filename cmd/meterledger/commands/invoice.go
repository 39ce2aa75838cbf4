package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nls04/meterledger/internal/core/invoice"
	"github.com/nls04/meterledger/internal/render/table"
	"github.com/nls04/meterledger/pkg/observability"
)

// NewInvoiceCommand computes a fair-cost invoice over a date range.
func NewInvoiceCommand(app *App) *cobra.Command {
	var (
		from         string
		to           string
		amount       float64
		exclude      []string
		noNormalize  bool
		chartOutPath string
	)

	cmd := &cobra.Command{
		Use:   "invoice",
		Short: "Compute a fair-cost invoice split across occupants for a date range",
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			ctx, span := app.Tracer.Start(cobraCmd.Context(), "meterledger.invoice")
			defer span.End()

			dateStart, err := time.Parse(readingDateLayout, from)
			if err != nil {
				return recordCommandError(ctx, fmt.Errorf("parse --from: %w", err),
					observability.ErrTypeValidation, observability.ErrSourceClient)
			}

			dateEnd, err := time.Parse(readingDateLayout, to)
			if err != nil {
				return recordCommandError(ctx, fmt.Errorf("parse --to: %w", err),
					observability.ErrTypeValidation, observability.ErrSourceClient)
			}

			start := time.Now()

			normalize := !noNormalize
			req := invoice.Request{
				DateStart:    dateStart,
				DateEnd:      dateEnd,
				Amount:       amount,
				ExcludeNames: exclude,
				Normalize:    &normalize,
			}

			entries, err := invoice.GetInvoice(ctx, app.Repo, req)
			if err != nil {
				errType, errSource := observability.ErrTypeInternal, observability.ErrSourceServer
				if errors.Is(err, invoice.ErrInvalidDateRange) {
					errType, errSource = observability.ErrTypeValidation, observability.ErrSourceClient
				}

				return recordCommandError(ctx, fmt.Errorf("compute invoice: %w", err), errType, errSource)
			}

			app.Metrics.InvoiceDurationSeconds.Observe(time.Since(start).Seconds())
			app.Metrics.InvoicesTotal.Inc()

			table.Invoice(cobraCmd.OutOrStdout(), entries)

			app.Logger.InfoContext(ctx, "invoice.computed",
				"from", from, "to", to, "amount", amount, "entries", len(entries))

			if chartOutPath == "" {
				return nil
			}

			return renderInvoiceChart(ctx, app, dateStart, dateEnd, exclude, chartOutPath)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "invoice period start, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&to, "to", "", "invoice period end, YYYY-MM-DD (required)")
	cmd.Flags().Float64Var(&amount, "amount", 0, "total amount to distribute (required)")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "occupant names to exclude from the split")
	cmd.Flags().BoolVar(&noNormalize, "no-normalize", false, "skip normalizing shares to sum to 1 before scaling")
	cmd.Flags().StringVar(&chartOutPath, "chart", "", "write an HTML section-responsibility chart to this path")

	for _, name := range []string{"from", "to", "amount"} {
		if err := cmd.MarkFlagRequired(name); err != nil {
			panic(err)
		}
	}

	return cmd
}

// renderInvoiceChart rebuilds the section tree for the same request
// parameters purely to visualize it, since GetInvoice does not expose its
// intermediate tree.
func renderInvoiceChart(
	ctx context.Context, app *App, dateStart, dateEnd time.Time, exclude []string, path string,
) error {
	return buildAndRenderSectionTree(ctx, app, dateStart, dateEnd, exclude, path)
}

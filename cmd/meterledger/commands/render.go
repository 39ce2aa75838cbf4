package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/nls04/meterledger/internal/core/dateinterval"
	"github.com/nls04/meterledger/internal/core/invoice/section"
	"github.com/nls04/meterledger/internal/core/model"
	"github.com/nls04/meterledger/internal/render/chart"
	"github.com/nls04/meterledger/pkg/observability"
)

// NewRenderCommand builds the "render" command group: diagnostic
// visualizations that do not solve contributions, only the section tree.
func NewRenderCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render diagnostic visualizations",
	}

	cmd.AddCommand(newRenderSectionsCommand(app))

	return cmd
}

func newRenderSectionsCommand(app *App) *cobra.Command {
	var (
		from    string
		to      string
		exclude []string
		outPath string
	)

	cmd := &cobra.Command{
		Use:   "sections",
		Short: "Render the simplified section tree for a date range as an HTML chart",
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			ctx, span := app.Tracer.Start(cobraCmd.Context(), "meterledger.render.sections")
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

			return buildAndRenderSectionTree(ctx, app, dateStart, dateEnd, exclude, outPath)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "period start, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&to, "to", "", "period end, YYYY-MM-DD (required)")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "occupant names to exclude")
	cmd.Flags().StringVar(&outPath, "out", "sections.html", "chart output path")

	for _, name := range []string{"from", "to"} {
		if err := cmd.MarkFlagRequired(name); err != nil {
			panic(err)
		}
	}

	return cmd
}

// buildAndRenderSectionTree filters occupants for [dateStart, dateEnd],
// builds and simplifies the section tree (C2), and writes it as an HTML
// bar chart to path. Shared by "render sections" and "invoice --chart".
func buildAndRenderSectionTree(
	ctx context.Context, app *App, dateStart, dateEnd time.Time, exclude []string, path string,
) error {
	_, persons, err := app.Repo.GetDataBetween(ctx, dateStart, dateEnd)
	if err != nil {
		return recordCommandError(ctx, fmt.Errorf("load persons: %w", err),
			observability.ErrTypeDependencyUnavailable, observability.ErrSourceDependency)
	}

	excluded := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		excluded[name] = true
	}

	today := time.Now()

	accountable := make([]*model.Person, 0, len(persons))

	for i := range persons {
		p := persons[i]

		if p.MoveIn.IsZero() || excluded[p.Name] {
			continue
		}

		if p.MoveOut == nil {
			t := today
			p.MoveOut = &t
		}

		accountable = append(accountable, &p)
	}

	root := &section.SectionNode{DateRange: dateinterval.New(dateStart, dateEnd)}
	simplified := section.Simplify(section.Solve(root, accountable))

	if err := section.AssertValidTree(simplified); err != nil {
		return recordCommandError(ctx, fmt.Errorf("building section tree: %w", err),
			observability.ErrTypeInternal, observability.ErrSourceServer)
	}

	out, err := os.Create(path) //nolint:gosec // CLI-provided output path, trusted like any other CLI arg
	if err != nil {
		return recordCommandError(ctx, fmt.Errorf("create chart output file: %w", err),
			observability.ErrTypeInternal, observability.ErrSourceServer)
	}
	defer out.Close()

	if err := chart.RenderSectionTree(simplified, out); err != nil {
		return recordCommandError(ctx, fmt.Errorf("render chart: %w", err),
			observability.ErrTypeInternal, observability.ErrSourceServer)
	}

	app.Logger.InfoContext(ctx, "render.sections.done", "from", dateStart, "to", dateEnd, "path", path)

	return nil
}

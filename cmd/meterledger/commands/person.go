package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nls04/meterledger/internal/core/model"
	"github.com/nls04/meterledger/internal/render/table"
	"github.com/nls04/meterledger/pkg/observability"
)

// NewPersonCommand builds the "person" command group: add, list, rm.
func NewPersonCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "person",
		Short: "Manage occupants",
	}

	cmd.AddCommand(newPersonAddCommand(app))
	cmd.AddCommand(newPersonListCommand(app))
	cmd.AddCommand(newPersonRemoveCommand(app))

	return cmd
}

func newPersonAddCommand(app *App) *cobra.Command {
	var (
		name    string
		moveIn  string
		moveOut string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add or replace an occupant",
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			ctx, span := app.Tracer.Start(cobraCmd.Context(), "meterledger.person.add")
			defer span.End()

			parsedIn, err := time.Parse(readingDateLayout, moveIn)
			if err != nil {
				return recordCommandError(ctx, fmt.Errorf("parse --move-in: %w", err),
					observability.ErrTypeValidation, observability.ErrSourceClient)
			}

			person := model.Person{Name: name, MoveIn: parsedIn}

			if moveOut != "" {
				parsedOut, err := time.Parse(readingDateLayout, moveOut)
				if err != nil {
					return recordCommandError(ctx, fmt.Errorf("parse --move-out: %w", err),
						observability.ErrTypeValidation, observability.ErrSourceClient)
				}

				person.MoveOut = &parsedOut
			}

			if err := app.Repo.AddPerson(ctx, person); err != nil {
				return recordCommandError(ctx, fmt.Errorf("add person: %w", err),
					observability.ErrTypeDependencyUnavailable, observability.ErrSourceDependency)
			}

			app.Logger.InfoContext(ctx, "person.added", "name", name)

			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "occupant name (required)")
	cmd.Flags().StringVar(&moveIn, "move-in", "", "move-in date, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&moveOut, "move-out", "", "move-out date, YYYY-MM-DD (omit for open-ended)")

	if err := cmd.MarkFlagRequired("name"); err != nil {
		panic(err)
	}

	if err := cmd.MarkFlagRequired("move-in"); err != nil {
		panic(err)
	}

	return cmd
}

func newPersonListCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all occupants",
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			ctx, span := app.Tracer.Start(cobraCmd.Context(), "meterledger.person.list")
			defer span.End()

			persons, err := app.Repo.AllPersons(ctx)
			if err != nil {
				return recordCommandError(ctx, fmt.Errorf("list persons: %w", err),
					observability.ErrTypeDependencyUnavailable, observability.ErrSourceDependency)
			}

			table.Persons(cobraCmd.OutOrStdout(), persons)

			return nil
		},
	}
}

func newPersonRemoveCommand(app *App) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "rm",
		Short: "Remove an occupant by name",
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			ctx, span := app.Tracer.Start(cobraCmd.Context(), "meterledger.person.rm")
			defer span.End()

			if err := app.Repo.RemovePerson(ctx, name); err != nil {
				return recordCommandError(ctx, fmt.Errorf("remove person: %w", err),
					observability.ErrTypeDependencyUnavailable, observability.ErrSourceDependency)
			}

			app.Logger.InfoContext(ctx, "person.removed", "name", name)

			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "occupant name (required)")

	if err := cmd.MarkFlagRequired("name"); err != nil {
		panic(err)
	}

	return cmd
}

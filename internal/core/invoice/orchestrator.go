// Package invoice implements the Invoice Orchestrator (C4): composing the
// Section Tree Builder and Contribution Solver into the end-to-end
// date-range -> payment-list computation.
package invoice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nls04/meterledger/internal/core/dateinterval"
	"github.com/nls04/meterledger/internal/core/invoice/contribution"
	"github.com/nls04/meterledger/internal/core/invoice/section"
	"github.com/nls04/meterledger/internal/core/model"
)

// ErrInvalidDateRange signals date_start >= date_end.
var ErrInvalidDateRange = errors.New("invalid invoice date range")

// Repository is the data-access contract consumed by the orchestrator
// (§6's get_data_between). The core never writes through it.
type Repository interface {
	GetDataBetween(ctx context.Context, lo, hi time.Time) ([]model.Reading, []model.Person, error)
}

// Request parameterizes GetInvoice.
type Request struct {
	DateStart    time.Time
	DateEnd      time.Time
	Amount       float64
	ExcludeNames []string
	Normalize    *bool // nil defaults to true.
}

func (r Request) normalize() bool {
	if r.Normalize == nil {
		return true
	}

	return *r.Normalize
}

func (r Request) excludes(name string) bool {
	for _, n := range r.ExcludeNames {
		if n == name {
			return true
		}
	}

	return false
}

// GetInvoice runs the full C4 algorithm: filter persons, build and simplify
// the section tree, solve contributions, normalize, scale by amount, and
// return entries sorted by person name.
func GetInvoice(ctx context.Context, repo Repository, req Request) ([]model.Entry, error) {
	if !req.DateStart.Before(req.DateEnd) {
		return nil, fmt.Errorf("%w: date_start must be before date_end", ErrInvalidDateRange)
	}

	_, persons, err := repo.GetDataBetween(ctx, req.DateStart, req.DateEnd)
	if err != nil {
		return nil, fmt.Errorf("querying repository: %w", err)
	}

	today := time.Now()

	accountable := make([]*model.Person, 0, len(persons))

	for i := range persons {
		p := persons[i]

		if p.MoveIn.IsZero() {
			continue
		}

		if req.excludes(p.Name) {
			continue
		}

		if p.MoveOut == nil {
			t := today
			p.MoveOut = &t
		}

		accountable = append(accountable, &p)
	}

	if len(accountable) == 0 {
		return []model.Entry{}, nil
	}

	root := &section.SectionNode{DateRange: dateinterval.New(req.DateStart, req.DateEnd)}

	solved := section.Solve(root, accountable)
	simplified := section.Simplify(solved)

	if err := section.AssertValidTree(simplified); err != nil {
		return nil, fmt.Errorf("building section tree: %w", err)
	}

	contrib := contribution.Solve(simplified)

	if req.normalize() {
		contrib = contrib.Normalize()
	}

	contrib = contrib.Scale(req.Amount)

	return contrib.Sorted(), nil
}

// Package contribution implements the Contribution Solver (C3): a weighted
// fixed-point-like evaluation over a simplified section tree, yielding an
// un-normalized Person->real contribution vector.
package contribution

import (
	"github.com/nls04/meterledger/internal/core/invoice/section"
	"github.com/nls04/meterledger/internal/core/model"
)

// Solve evaluates the recursive weighted equation over a valid simplified
// tree (§4.3), returning an un-normalized Contribution. The recursion is:
//
//	X[N] = 0.5 * ( X0[N] + Σ w_i * X[C_i] )
//
// where w_i is child i's share of N's days and X0[N] is the unit vector on
// N's managed person P, augmented by (1 - coverage) on P, coverage being
// Σ w_i. The children's ranges need not cover every day of the parent (a
// split leaves the boundary days out), and whatever part is uncovered falls
// on P. A leaf has coverage 0 and so yields 1.0 * e_P. The result's mass is
// not 1 in general, so callers must Normalize() it.
func Solve(node *section.SectionNode) model.Contribution {
	contrib := model.NewContribution()
	coverage := 0.0

	for _, child := range node.Children {
		weight := float64(child.DateRange.Days()) / float64(node.DateRange.Days())
		coverage += weight
		contrib = contrib.Merge(Solve(child), weight)
	}

	contrib = contrib.Add(node.ManagedPerson, 1+(1-coverage))

	return contrib.Scale(0.5)
}

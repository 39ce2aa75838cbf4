package section_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nls04/meterledger/internal/core/dateinterval"
	"github.com/nls04/meterledger/internal/core/invoice/section"
	"github.com/nls04/meterledger/internal/core/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func person(name string, moveIn time.Time, moveOut *time.Time) *model.Person {
	return &model.Person{Name: name, MoveIn: moveIn, MoveOut: moveOut}
}

func ptr(t time.Time) *time.Time { return &t }

func root(lo, hi time.Time) *section.SectionNode {
	return &section.SectionNode{DateRange: dateinterval.New(lo, hi)}
}

// A single person covering the whole range is assigned as manager directly.
func TestSolve_SinglePersonFullCoverage(t *testing.T) {
	p := person("A", day(2023, 1, 1), ptr(day(2023, 12, 31)))
	n := root(day(2023, 1, 1), day(2023, 12, 31))

	solved := section.Solve(n, []*model.Person{p})
	simplified := section.Simplify(solved)

	require.NotNil(t, simplified)
	require.NoError(t, section.AssertValidTree(simplified))
	assert.Equal(t, "A", simplified.ManagedPerson.Name)
}

// A person strictly inside the range splits the section into three.
func TestSolve_PersonInsideRangeSplitsThree(t *testing.T) {
	outer := person("Landlord", day(2023, 1, 1), ptr(day(2023, 12, 31)))
	inner := person("Tenant", day(2023, 3, 1), ptr(day(2023, 6, 1)))

	n := root(day(2023, 1, 1), day(2023, 12, 31))

	solved := section.Solve(n, []*model.Person{outer, inner})
	simplified := section.Simplify(solved)

	require.NoError(t, section.AssertValidTree(simplified))

	names := map[string]bool{}

	var walk func(*section.SectionNode)

	walk = func(node *section.SectionNode) {
		if node.ManagedPerson != nil {
			names[node.ManagedPerson.Name] = true
		}

		for _, c := range node.Children {
			walk(c)
		}
	}

	walk(simplified)

	assert.True(t, names["Landlord"])
	assert.True(t, names["Tenant"])
}

// No accountable persons overlapping the section yields an unmanaged node,
// which Simplify drops (returns nil).
func TestSimplify_DropsUnmanagedLeaf(t *testing.T) {
	n := root(day(2023, 1, 1), day(2023, 12, 31))

	solved := section.Solve(n, nil)
	simplified := section.Simplify(solved)

	assert.Nil(t, simplified)
}

// AssertValidTree rejects a node whose child is not EQUAL/SUPER_SET of parent.
func TestAssertValidTree_RejectsBadChild(t *testing.T) {
	p := person("A", day(2023, 1, 1), ptr(day(2023, 12, 31)))

	n := root(day(2023, 1, 1), day(2023, 12, 31))
	n.ManagedPerson = p
	n.Children = []*section.SectionNode{
		{DateRange: dateinterval.New(day(2022, 1, 1), day(2022, 6, 1)), ManagedPerson: p},
	}

	err := section.AssertValidTree(n)
	assert.ErrorIs(t, err, section.ErrInvalidTreeStructure)
}

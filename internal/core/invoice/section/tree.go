// Package section implements the Section Tree Builder (C2): turning a date
// range plus a set of occupancy intervals into a simplified tree of
// responsibility sections.
package section

import (
	"errors"
	"fmt"
	"sort"

	"github.com/nls04/meterledger/internal/core/dateinterval"
	"github.com/nls04/meterledger/internal/core/model"
)

// ErrInvalidTreeStructure signals a bug in tree construction: a node that
// fails assertValidTree after simplification. This is a fatal internal
// invariant violation, not a user error.
var ErrInvalidTreeStructure = errors.New("invalid section tree structure")

// SectionNode is a node of the section tree: a date range with an optional
// responsible person and child sections.
type SectionNode struct {
	DateRange     dateinterval.Interval
	ManagedPerson *model.Person
	Children      []*SectionNode
}

func newNode(rng dateinterval.Interval) *SectionNode {
	return &SectionNode{DateRange: rng}
}

// personInterval returns P's occupancy interval.
func personInterval(p *model.Person) dateinterval.Interval {
	return dateinterval.New(p.MoveIn, p.MoveOutOr(p.MoveIn))
}

// sortedByDuration sorts persons by occupancy length descending, breaking
// ties deterministically on name (spec §4.2 step 2).
func sortedByDuration(persons []*model.Person) []*model.Person {
	out := make([]*model.Person, len(persons))
	copy(out, persons)

	sort.SliceStable(out, func(i, j int) bool {
		di := personInterval(out[i]).Days()
		dj := personInterval(out[j]).Days()
		if di != dj {
			return di > dj
		}

		return out[i].Name < out[j].Name
	})

	return out
}

// Solve recursively subdivides node according to the occupancy of
// remaining, which it sorts by duration, descending. Grounded on spec
// §4.2's `solve` algorithm.
func Solve(node *SectionNode, remaining []*model.Person) *SectionNode {
	if node.DateRange.Days() <= 0 {
		return node
	}

	sorted := sortedByDuration(remaining)

	idx, person := firstOverlapping(node.DateRange, sorted)
	if person == nil {
		return node
	}

	rest := sorted[idx+1:]

	pRange := personInterval(person)

	switch node.DateRange.Intersect(pRange) {
	case dateinterval.Equal, dateinterval.SubSet:
		applyCoveringPerson(node, person)
	case dateinterval.SuperSet:
		splitSuperSet(node, person, pRange)
	case dateinterval.PartialOverlapLeft:
		splitPartialLeft(node, person, pRange)
	case dateinterval.PartialOverlapRight:
		splitPartialRight(node, person, pRange)
	case dateinterval.Disjoint:
		// unreachable: firstOverlapping already filtered out disjoint persons.
	}

	for _, child := range node.Children {
		Solve(child, rest)
	}

	return node
}

func firstOverlapping(rng dateinterval.Interval, sorted []*model.Person) (int, *model.Person) {
	for i, p := range sorted {
		if rng.Intersect(personInterval(p)) != dateinterval.Disjoint {
			return i, p
		}
	}

	return -1, nil
}

// applyCoveringPerson handles the EQUAL/SUB_SET case: P covers the whole
// section. If node has no manager yet, P is assigned and a placeholder
// child is created for further subdivision; otherwise P "shares" via a new
// child.
func applyCoveringPerson(node *SectionNode, person *model.Person) {
	if node.ManagedPerson == nil {
		node.ManagedPerson = person
		node.Children = append(node.Children, newNode(node.DateRange))

		return
	}

	child := newNode(node.DateRange)
	child.ManagedPerson = person
	node.Children = append(node.Children, child)
}

// splitSuperSet handles P strictly inside the section: three children,
// before/P/after.
func splitSuperSet(node *SectionNode, person *model.Person, pRange dateinterval.Interval) {
	before := newNode(dateinterval.New(node.DateRange.Low, dateinterval.AddDays(pRange.Low, -1)))
	managed := newNode(pRange)
	managed.ManagedPerson = person
	after := newNode(dateinterval.New(dateinterval.AddDays(pRange.High, 1), node.DateRange.High))

	node.Children = append(node.Children, before, managed, after)
}

// splitPartialLeft handles P extending before the section: two children.
func splitPartialLeft(node *SectionNode, person *model.Person, pRange dateinterval.Interval) {
	managed := newNode(dateinterval.New(node.DateRange.Low, pRange.High))
	managed.ManagedPerson = person
	after := newNode(dateinterval.New(dateinterval.AddDays(pRange.High, 1), node.DateRange.High))

	node.Children = append(node.Children, managed, after)
}

// splitPartialRight handles P extending past the section: two children.
func splitPartialRight(node *SectionNode, person *model.Person, pRange dateinterval.Interval) {
	before := newNode(dateinterval.New(node.DateRange.Low, dateinterval.AddDays(pRange.Low, -1)))
	managed := newNode(dateinterval.New(pRange.Low, node.DateRange.High))
	managed.ManagedPerson = person

	node.Children = append(node.Children, before, managed)
}

// Simplify drops empty nodes, inlines single-child unmanaged nodes, and
// assigns the sibling rule so every surviving node ends up with a manager.
// Returns nil to signal "drop me" to the parent.
func Simplify(node *SectionNode) *SectionNode {
	if node == nil || node.DateRange.Days() <= 0 {
		return nil
	}

	children := make([]*SectionNode, 0, len(node.Children))

	for _, child := range node.Children {
		if simplified := Simplify(child); simplified != nil {
			children = append(children, simplified)
		}
	}

	node.Children = children

	if node.ManagedPerson == nil {
		switch len(node.Children) {
		case 0:
			return nil
		case 1:
			return node.Children[0]
		}
	}

	applySiblingRule(node)

	return node
}

// applySiblingRule implements §4.2's per-child inheritance: a manager-less
// child with no grandchildren inherits this node's manager; a manager-less
// child with grandchildren is inlined (replaced by its own children).
func applySiblingRule(node *SectionNode) {
	resolved := make([]*SectionNode, 0, len(node.Children))

	for _, child := range node.Children {
		switch {
		case child.ManagedPerson != nil:
			resolved = append(resolved, child)
		case len(child.Children) == 0:
			child.ManagedPerson = node.ManagedPerson
			resolved = append(resolved, child)
		default:
			resolved = append(resolved, child.Children...)
		}
	}

	node.Children = resolved
}

// AssertValidTree validates the simplified-tree invariant: every node has a
// manager, positive days, and every child is EQUAL to or a SUPER_SET of its
// parent.
func AssertValidTree(node *SectionNode) error {
	if node.DateRange.Days() <= 0 {
		return fmt.Errorf("%w: non-positive date range", ErrInvalidTreeStructure)
	}

	if node.ManagedPerson == nil {
		return fmt.Errorf("%w: unmanaged node", ErrInvalidTreeStructure)
	}

	for _, child := range node.Children {
		cls := node.DateRange.Intersect(child.DateRange)
		if cls != dateinterval.Equal && cls != dateinterval.SuperSet {
			return fmt.Errorf("%w: child %v is not EQUAL/SUPER_SET of parent (got %v)",
				ErrInvalidTreeStructure, child.DateRange, cls)
		}

		if err := AssertValidTree(child); err != nil {
			return err
		}
	}

	return nil
}

// Package model defines the data types shared by the Reading Analyzer and the
// Invoice Distributor: dated meter readings, occupancy records, statistical
// measurements, and the Contribution value type used by the solver.
package model

import (
	"sort"
	"time"
)

// AttributeCount is K, the compile-time-constant number of numeric attributes
// tracked per Reading (electricity, gas, water).
const AttributeCount = 3

// Attribute indices, named after the channels tracked by the source.
const (
	AttrElectricity = iota
	AttrGas
	AttrWater
)

// AttributeNames gives the display name for each attribute index.
var AttributeNames = [AttributeCount]string{"electricity", "gas", "water"}

// Reading is a dated meter snapshot. Attributes holds AttributeCount optional
// non-negative readings; a nil entry means "not present on this reading".
type Reading struct {
	Date       time.Time
	Attributes [AttributeCount]*float64
}

// Present reports whether attribute k is both present and non-zero. The
// source treats zero-valued readings identically to missing ones (a
// truthiness check); this is preserved deliberately, and the analyzer
// skips such attributes when computing rates.
func (r Reading) Present(k int) bool {
	return r.Attributes[k] != nil && *r.Attributes[k] != 0
}

// Person is an occupancy record. MoveOut may be absent (open-ended tenancy).
type Person struct {
	Name    string
	MoveIn  time.Time
	MoveOut *time.Time
}

// MoveOutOr returns MoveOut if set, otherwise fallback (typically "today").
func (p Person) MoveOutOr(fallback time.Time) time.Time {
	if p.MoveOut != nil {
		return *p.MoveOut
	}

	return fallback
}

// Measurement is a statistical triple (Absolute, Mean, Deviation) plus
// optional Minimum/Maximum witnesses. Any field may be absent (nil).
type Measurement struct {
	Absolute  *float64
	Mean      *float64
	Deviation *float64
	Minimum   any
	Maximum   any
}

// FrameStatistics summarizes a set of readings over a date frame.
type FrameStatistics struct {
	ReadingsCount  int
	DaysStats      Measurement
	AttributeStats [AttributeCount]Measurement
}

// AnalyzedMonth pairs a calendar month with its FrameStatistics.
type AnalyzedMonth struct {
	Month  time.Month
	Points FrameStatistics
}

// AnalyzedYearMonth groups AnalyzedMonth entries under a calendar year.
type AnalyzedYearMonth struct {
	Year   int
	Months []AnalyzedMonth
}

// AnalyzedYear pairs a calendar year with its FrameStatistics.
type AnalyzedYear struct {
	Year   int
	Points FrameStatistics
}

// Contribution is a Person -> real mapping, keyed by person name (the
// de-facto stable identity used throughout the source). Missing keys read
// as zero. The zero value reads as empty through Get; Add and Merge write
// into the maps NewContribution creates and do not allocate them.
type Contribution struct {
	byName map[string]float64
	people map[string]*Person
}

// NewContribution creates an empty Contribution.
func NewContribution() Contribution {
	return Contribution{byName: map[string]float64{}, people: map[string]*Person{}}
}

// Get returns the current value for p, or zero if absent.
func (c Contribution) Get(p *Person) float64 {
	if c.byName == nil {
		return 0
	}

	return c.byName[p.Name]
}

// Add adds delta to p's entry, creating it if absent. Returns the receiver's
// updated value (Contribution carries map references, so mutation is visible
// to all copies sharing the same backing maps; callers that need an
// independent value should start from NewContribution()).
func (c Contribution) Add(p *Person, delta float64) Contribution {
	c.byName[p.Name] += delta
	c.people[p.Name] = p

	return c
}

// Merge adds every entry of other into c, scaled by weight, and returns c.
func (c Contribution) Merge(other Contribution, weight float64) Contribution {
	for name, v := range other.byName {
		c.byName[name] += v * weight
		c.people[name] = other.people[name]
	}

	return c
}

// Scale multiplies every entry by factor and returns a new Contribution.
func (c Contribution) Scale(factor float64) Contribution {
	out := NewContribution()
	for name, v := range c.byName {
		out.byName[name] = v * factor
		out.people[name] = c.people[name]
	}

	return out
}

// Sum returns the total mass across all entries.
func (c Contribution) Sum() float64 {
	total := 0.0
	for _, v := range c.byName {
		total += v
	}

	return total
}

// Normalize divides every entry by the sum, or returns a zeroed copy if the
// sum is zero.
func (c Contribution) Normalize() Contribution {
	sum := c.Sum()
	if sum == 0 {
		out := NewContribution()
		for name, p := range c.people {
			out.byName[name] = 0
			out.people[name] = p
		}

		return out
	}

	return c.Scale(1 / sum)
}

// Entry is a single (Person, amount) pair, used for ordered output.
type Entry struct {
	Person *Person
	Amount float64
}

// Sorted returns the Contribution's entries ordered ascending by person name.
func (c Contribution) Sorted() []Entry {
	entries := make([]Entry, 0, len(c.byName))
	for name, v := range c.byName {
		entries = append(entries, Entry{Person: c.people[name], Amount: v})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Person.Name < entries[j].Person.Name
	})

	return entries
}

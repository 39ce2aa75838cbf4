// Package analyzer implements the Reading Analyzer (C1): per-attribute
// statistical reduction over a sequence of dated meter readings, with gap
// handling (meter resets, missing samples) and extrapolation to frame bounds.
//
// Grounded on backend_model.py's Analyze_Reading / _calculate_statistics.
package analyzer

import (
	"math"
	"sort"
	"time"

	"github.com/nls04/meterledger/internal/core/model"
)

// Analyzer statistically analyzes a set of Readings by different criteria:
// monthly frames grouped by year, yearly frames, or one frame spanning all
// data.
type Analyzer struct {
	readings []model.Reading
	years    []int
}

// New sorts readings by date (stable, so ties on date keep their relative
// input order) and indexes the distinct years present.
func New(readings []model.Reading) *Analyzer {
	sorted := make([]model.Reading, len(readings))
	copy(sorted, readings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	yearSet := map[int]struct{}{}
	for _, r := range sorted {
		yearSet[r.Date.Year()] = struct{}{}
	}

	years := make([]int, 0, len(yearSet))
	for y := range yearSet {
		years = append(years, y)
	}

	sort.Ints(years)

	return &Analyzer{readings: sorted, years: years}
}

// Monthly groups readings by calendar year then month, framing each month as
// [first-of-month, first-of-next-month]. Months with fewer than 2 readings
// are dropped, and years left with no months are dropped too.
func (a *Analyzer) Monthly() []model.AnalyzedYearMonth {
	out := make([]model.AnalyzedYearMonth, 0, len(a.years))

	for _, year := range a.years {
		monthBuckets := map[time.Month][]model.Reading{}

		for _, r := range a.readings {
			if r.Date.Year() != year {
				continue
			}

			monthBuckets[r.Date.Month()] = append(monthBuckets[r.Date.Month()], r)
		}

		months := make([]model.AnalyzedMonth, 0, len(monthBuckets))

		for month := time.January; month <= time.December; month++ {
			points, ok := monthBuckets[month]
			if !ok || len(points) < 2 {
				continue
			}

			lo := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
			hi := lo.AddDate(0, 1, 0)

			months = append(months, model.AnalyzedMonth{
				Month:  month,
				Points: calculateStatistics(points, &lo, &hi),
			})
		}

		if len(months) > 0 {
			out = append(out, model.AnalyzedYearMonth{Year: year, Months: months})
		}
	}

	return out
}

// Yearly frames each calendar year present in the data as [Jan 1 y, Jan 1 y+1].
func (a *Analyzer) Yearly() []model.AnalyzedYear {
	out := make([]model.AnalyzedYear, 0, len(a.years))

	for _, year := range a.years {
		points := make([]model.Reading, 0)

		for _, r := range a.readings {
			if r.Date.Year() == year {
				points = append(points, r)
			}
		}

		lo := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		hi := time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC)

		out = append(out, model.AnalyzedYear{
			Year:   year,
			Points: calculateStatistics(points, &lo, &hi),
		})
	}

	return out
}

// Completely computes one frame spanning the actual first and last reading
// dates.
func (a *Analyzer) Completely() model.FrameStatistics {
	return calculateStatistics(a.readings, nil, nil)
}

// Frame computes statistics over all of the analyzer's readings against
// explicit frame bounds; either bound may be nil to default to the first
// (resp. last) reading's date. This is the general §4.1 contract that
// Monthly/Yearly/Completely specialize.
func (a *Analyzer) Frame(lowerBound, upperBound *time.Time) model.FrameStatistics {
	return calculateStatistics(a.readings, lowerBound, upperBound)
}

func zeroMeasurement() model.Measurement {
	zero := 0.0

	return model.Measurement{Absolute: &zero, Mean: &zero, Deviation: &zero}
}

// calculateStatistics is the statistical core shared by Monthly/Yearly/Completely.
//
//nolint:gocognit,cyclop // the branching mirrors the source's documented edge-case table one-for-one.
func calculateStatistics(points []model.Reading, lowerBound, upperBound *time.Time) model.FrameStatistics {
	n := len(points)
	if n < 2 {
		stats := [model.AttributeCount]model.Measurement{}
		for k := range stats {
			stats[k] = zeroMeasurement()
		}

		return model.FrameStatistics{ReadingsCount: 0, DaysStats: zeroMeasurement(), AttributeStats: stats}
	}

	lo := points[0].Date
	if lowerBound != nil {
		lo = *lowerBound
	}

	hi := points[n-1].Date
	if upperBound != nil {
		hi = *upperBound
	}

	daysStats := computeDaysStats(points, lo, hi)

	attrStats := [model.AttributeCount]model.Measurement{}
	for k := 0; k < model.AttributeCount; k++ {
		attrStats[k] = computeAttributeStats(points, k, lo, hi)
	}

	return model.FrameStatistics{ReadingsCount: n, DaysStats: daysStats, AttributeStats: attrStats}
}

func computeDaysStats(points []model.Reading, lo, hi time.Time) model.Measurement {
	n := len(points)

	deltas := make([]float64, 0, n-1)

	var sumDelta float64

	for i := 1; i < n; i++ {
		delta := float64(points[i].Date.Sub(points[i-1].Date).Hours() / 24) //nolint:mnd
		deltas = append(deltas, delta)
		sumDelta += delta
	}

	absolute := sumDelta
	mean := sumDelta / float64(n-1)

	var deviation *float64

	if n > 2 {
		var sumSqDev float64

		for _, d := range deltas {
			diff := d - mean
			sumSqDev += diff * diff
		}

		dv := math.Sqrt(sumSqDev / float64(n-2))
		deviation = &dv
	}

	return model.Measurement{
		Absolute:  &absolute,
		Mean:      &mean,
		Deviation: deviation,
		Minimum:   lo,
		Maximum:   hi,
	}
}

// attrAccumulator tracks per-attribute running state while walking points in
// order, matching the source's case table (reset / missing / gap handling).
type attrAccumulator struct {
	prevIdx    int // index of last point where attribute k was present; -1 if none yet.
	total      float64
	rates      []float64
	gapDays    int
	included   int
	firstDate  *time.Time
	lastDate   *time.Time
	minReading *model.Reading
	maxReading *model.Reading
	minVal     float64
	maxVal     float64
}

func computeAttributeStats(points []model.Reading, k int, lo, hi time.Time) model.Measurement {
	acc := &attrAccumulator{prevIdx: -1}

	for i := range points {
		r := points[i]
		if !r.Present(k) {
			continue
		}

		updateWitnesses(acc, r, *r.Attributes[k])

		if acc.firstDate == nil {
			d := r.Date
			acc.firstDate = &d
		}

		d := r.Date
		acc.lastDate = &d
	}

	for i := range points {
		if !points[i].Present(k) {
			continue
		}

		advanceAccumulator(acc, points, i, k)
	}

	return finalizeAttribute(acc, lo, hi)
}

func updateWitnesses(acc *attrAccumulator, r model.Reading, v float64) {
	if acc.minReading == nil || v < acc.minVal {
		acc.minVal = v
		rc := r
		acc.minReading = &rc
	}

	if acc.maxReading == nil || v > acc.maxVal {
		acc.maxVal = v
		rc := r
		acc.maxReading = &rc
	}
}

// advanceAccumulator processes point i (known present for attribute k)
// against the last present point (acc.prevIdx), applying the source's
// reset/gap policy: a negative delta is rejected and its span banked as a
// gap instead of being included in the rate sums.
func advanceAccumulator(acc *attrAccumulator, points []model.Reading, i, k int) {
	if acc.prevIdx < 0 {
		acc.prevIdx = i

		return
	}

	prev := points[acc.prevIdx]
	r := points[i]

	delta := *r.Attributes[k] - *prev.Attributes[k]
	deltaDays := float64(r.Date.Sub(prev.Date).Hours() / 24) //nolint:mnd

	if delta < 0 {
		acc.gapDays += int(deltaDays)
		acc.prevIdx = i

		return
	}

	acc.included++
	acc.total += delta
	acc.rates = append(acc.rates, delta/deltaDays)
	acc.prevIdx = i
}

func finalizeAttribute(acc *attrAccumulator, lo, hi time.Time) model.Measurement {
	if acc.included == 0 {
		return model.Measurement{}
	}

	var sumRate float64

	for _, r := range acc.rates {
		sumRate += r
	}

	mean := sumRate / float64(acc.included)

	var deviation *float64

	if acc.included > 1 {
		var sumSqDev float64

		for _, r := range acc.rates {
			diff := r - mean
			sumSqDev += diff * diff
		}

		d := math.Sqrt(sumSqDev / float64(acc.included-1))
		deviation = &d
	}

	extraDays := acc.firstDate.Sub(lo).Hours()/24 + hi.Sub(*acc.lastDate).Hours()/24 //nolint:mnd

	total := acc.total + (float64(acc.gapDays)+extraDays)*mean

	m := model.Measurement{Absolute: &total, Mean: &mean, Deviation: deviation}
	if acc.minReading != nil {
		m.Minimum = *acc.minReading
	}

	if acc.maxReading != nil {
		m.Maximum = *acc.maxReading
	}

	return m
}

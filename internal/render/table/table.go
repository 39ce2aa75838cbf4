// Package table formats core domain values (readings, persons, statistics,
// invoice entries) as CLI tables.
//
// Grounded on the teacher's internal/analyzers/common/formatter.go use of
// jedib0t/go-pretty/v6/table (StyleLight, borderless).
package table

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/nls04/meterledger/internal/core/dateinterval"
	"github.com/nls04/meterledger/internal/core/model"
)

const dateLayout = "2006-01-02"

func newWriter(w io.Writer) table.Writer {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false

	return tbl
}

// Readings renders a list of readings, one row per date with a column per attribute.
func Readings(w io.Writer, readings []model.Reading) {
	tbl := newWriter(w)
	tbl.AppendHeader(table.Row{"Date", "Electricity", "Gas", "Water"})

	for _, r := range readings {
		tbl.AppendRow(table.Row{
			r.Date.Format(dateLayout),
			formatAttr(r.Attributes[model.AttrElectricity]),
			formatAttr(r.Attributes[model.AttrGas]),
			formatAttr(r.Attributes[model.AttrWater]),
		})
	}

	tbl.Render()
}

func formatAttr(v *float64) string {
	if v == nil {
		return "-"
	}

	return humanize.CommafWithDigits(*v, 2)
}

// Persons renders a list of occupancy records.
func Persons(w io.Writer, persons []model.Person) {
	tbl := newWriter(w)
	tbl.AppendHeader(table.Row{"Name", "Move in", "Move out"})

	for _, p := range persons {
		moveOut := "open"
		if p.MoveOut != nil {
			moveOut = p.MoveOut.Format(dateLayout)
		}

		tbl.AppendRow(table.Row{p.Name, p.MoveIn.Format(dateLayout), moveOut})
	}

	tbl.Render()
}

// Measurement renders a single labelled statistical triple.
func Measurement(w io.Writer, label string, m model.Measurement) {
	tbl := newWriter(w)
	tbl.AppendHeader(table.Row{"Attribute", "Absolute", "Mean", "Deviation"})
	tbl.AppendRow(table.Row{label, formatAttr(m.Absolute), formatAttr(m.Mean), formatAttr(m.Deviation)})
	tbl.Render()
}

// FrameStatistics renders a full frame: days stats plus all tracked attributes.
func FrameStatistics(w io.Writer, stats model.FrameStatistics) {
	tbl := newWriter(w)
	tbl.AppendHeader(table.Row{"Attribute", "Absolute", "Mean", "Deviation"})
	tbl.AppendRow(table.Row{"days", formatAttr(stats.DaysStats.Absolute), formatAttr(stats.DaysStats.Mean), formatAttr(stats.DaysStats.Deviation)})

	for k := 0; k < model.AttributeCount; k++ {
		a := stats.AttributeStats[k]
		tbl.AppendRow(table.Row{model.AttributeNames[k], formatAttr(a.Absolute), formatAttr(a.Mean), formatAttr(a.Deviation)})
	}

	tbl.AppendFooter(table.Row{fmt.Sprintf("%d readings", stats.ReadingsCount), "", "", ""})
	tbl.Render()
}

// Invoice renders an ordered list of (person, payment) entries. Zero or
// negative shares are highlighted, matching the teacher's use of fatih/color
// for drawing attention to noteworthy numeric output.
func Invoice(w io.Writer, entries []model.Entry) {
	tbl := newWriter(w)
	tbl.AppendHeader(table.Row{"Person", "Amount"})

	total := 0.0

	for _, e := range entries {
		total += e.Amount

		amount := humanize.CommafWithDigits(e.Amount, 3)
		if e.Amount <= 0 {
			amount = color.YellowString(amount)
		}

		tbl.AppendRow(table.Row{e.Person.Name, amount})
	}

	tbl.AppendFooter(table.Row{"Total", humanize.CommafWithDigits(total, 3)})
	tbl.Render()
}

// Interval renders a single date interval alongside its day/month/year
// projections, mainly for CLI diagnostics.
func Interval(w io.Writer, iv dateinterval.Interval) {
	tbl := newWriter(w)
	tbl.AppendHeader(table.Row{"Low", "High", "Days", "Months", "Years"})
	tbl.AppendRow(table.Row{
		iv.Low.Format(dateLayout),
		iv.High.Format(dateLayout),
		iv.Days(),
		fmt.Sprintf("%.2f", iv.Months()),
		fmt.Sprintf("%.2f", iv.Years()),
	})
	tbl.Render()
}

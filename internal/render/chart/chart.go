// Package chart renders a section tree (§6's auxiliary "Visualization
// interface") as an HTML bar chart, one bar per leaf section labelled with
// its managing person.
//
// Grounded on the teacher's internal/analyzers/*/plot.go use of
// go-echarts/go-echarts/v2/charts for bar/line charts.
package chart

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/nls04/meterledger/internal/core/invoice/section"
)

const (
	chartWidth  = "100%"
	chartHeight = "400px"
)

// RenderSectionTree walks node's leaves in date order and writes an HTML bar
// chart (one bar per leaf, height = section length in days, label = managing
// person) to w.
func RenderSectionTree(node *section.SectionNode, w io.Writer) error {
	leaves := collectLeaves(node)

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: "Section responsibility breakdown"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Section"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Days"}),
	)

	labels := make([]string, len(leaves))
	data := make([]opts.BarData, len(leaves))

	for i, leaf := range leaves {
		labels[i] = fmt.Sprintf("%s\n%s", leaf.ManagedPerson.Name, leaf.DateRange.Low.Format("2006-01-02"))
		data[i] = opts.BarData{Value: leaf.DateRange.Days()}
	}

	bar.SetXAxis(labels).
		AddSeries("Days managed", data)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("render section chart: %w", err)
	}

	return nil
}

// collectLeaves returns node's leaf sections (nodes with no children) in
// tree order, which after Simplify corresponds to chronological order.
func collectLeaves(node *section.SectionNode) []*section.SectionNode {
	if node == nil {
		return nil
	}

	if len(node.Children) == 0 {
		return []*section.SectionNode{node}
	}

	var leaves []*section.SectionNode

	for _, child := range node.Children {
		leaves = append(leaves, collectLeaves(child)...)
	}

	return leaves
}

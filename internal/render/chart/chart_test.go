package chart_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nls04/meterledger/internal/core/dateinterval"
	"github.com/nls04/meterledger/internal/core/invoice/section"
	"github.com/nls04/meterledger/internal/core/model"
	"github.com/nls04/meterledger/internal/render/chart"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestRenderSectionTree(t *testing.T) {
	p := &model.Person{Name: "A"}
	q := &model.Person{Name: "B"}

	root := &section.SectionNode{
		DateRange: dateinterval.New(day(2023, 1, 1), day(2023, 12, 31)),
		Children: []*section.SectionNode{
			{DateRange: dateinterval.New(day(2023, 1, 1), day(2023, 6, 1)), ManagedPerson: p},
			{DateRange: dateinterval.New(day(2023, 6, 1), day(2023, 12, 31)), ManagedPerson: q},
		},
	}

	var buf bytes.Buffer

	err := chart.RenderSectionTree(root, &buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "echarts")
}

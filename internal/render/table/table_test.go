package table_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nls04/meterledger/internal/core/model"
	"github.com/nls04/meterledger/internal/render/table"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func f(v float64) *float64 { return &v }

func TestReadings(t *testing.T) {
	var buf bytes.Buffer

	table.Readings(&buf, []model.Reading{
		{Date: day(2023, 1, 1), Attributes: [model.AttributeCount]*float64{f(100), nil, f(10)}},
	})

	out := buf.String()
	assert.Contains(t, out, "2023-01-01")
	assert.Contains(t, out, "100")
	assert.Contains(t, out, "-")
}

func TestPersons(t *testing.T) {
	var buf bytes.Buffer

	table.Persons(&buf, []model.Person{
		{Name: "A", MoveIn: day(2023, 1, 1)},
	})

	out := buf.String()
	assert.Contains(t, out, "A")
	assert.Contains(t, out, "open")
}

func TestInvoice(t *testing.T) {
	var buf bytes.Buffer

	p := &model.Person{Name: "A"}
	table.Invoice(&buf, []model.Entry{{Person: p, Amount: 42.5}})

	out := buf.String()
	assert.Contains(t, out, "A")
	assert.Contains(t, out, "42.5")
	assert.Contains(t, out, "Total")
}

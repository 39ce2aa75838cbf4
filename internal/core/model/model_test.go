package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nls04/meterledger/internal/core/model"
)

func TestContribution_MissingKeyReadsZero(t *testing.T) {
	c := model.NewContribution()
	p := &model.Person{Name: "Ghost"}
	assert.InDelta(t, 0, c.Get(p), 1e-9)
}

func TestContribution_AddAndSum(t *testing.T) {
	c := model.NewContribution()
	a := &model.Person{Name: "A"}
	b := &model.Person{Name: "B"}

	c = c.Add(a, 1.0)
	c = c.Add(b, 2.0)
	c = c.Add(a, 0.5)

	assert.InDelta(t, 1.5, c.Get(a), 1e-9)
	assert.InDelta(t, 2.0, c.Get(b), 1e-9)
	assert.InDelta(t, 3.5, c.Sum(), 1e-9)
}

func TestContribution_Normalize(t *testing.T) {
	c := model.NewContribution()
	a := &model.Person{Name: "A"}
	b := &model.Person{Name: "B"}
	c = c.Add(a, 1.0)
	c = c.Add(b, 3.0)

	norm := c.Normalize()
	assert.InDelta(t, 0.25, norm.Get(a), 1e-9)
	assert.InDelta(t, 0.75, norm.Get(b), 1e-9)
	assert.InDelta(t, 1.0, norm.Sum(), 1e-9)
}

func TestContribution_NormalizeZeroSum(t *testing.T) {
	c := model.NewContribution()
	a := &model.Person{Name: "A"}
	c = c.Add(a, 0)

	norm := c.Normalize()
	assert.InDelta(t, 0, norm.Get(a), 1e-9)
}

func TestContribution_Sorted(t *testing.T) {
	c := model.NewContribution()
	b := &model.Person{Name: "Bob"}
	a := &model.Person{Name: "Alice"}
	c = c.Add(b, 1.0)
	c = c.Add(a, 2.0)

	entries := c.Sorted()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, "Alice", entries[0].Person.Name)
		assert.Equal(t, "Bob", entries[1].Person.Name)
	}
}

func TestReading_PresentTreatsZeroAsMissing(t *testing.T) {
	zero := 0.0
	nonzero := 12.3
	r := model.Reading{}
	r.Attributes[model.AttrElectricity] = &zero
	r.Attributes[model.AttrGas] = &nonzero

	assert.False(t, r.Present(model.AttrElectricity))
	assert.True(t, r.Present(model.AttrGas))
	assert.False(t, r.Present(model.AttrWater))
}

package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"warehub/internal/core/id"
)

func TestIndex_LabelPlaceholders(t *testing.T) {
	known := Product{ID: id.New(), SKU: "SKU-1", Name: "Shrimp", Unit: "kg"}
	noSKU := Product{ID: id.New(), Name: "Squid", Unit: "box"}
	idx := NewIndex([]Product{known, noSKU}, nil)

	code, name := idx.Label(known.ID, "ignored")
	assert.Equal(t, "SKU-1", code)
	assert.Equal(t, "Shrimp", name)

	code, name = idx.Label(noSKU.ID, "")
	assert.Equal(t, UnknownCode, code)
	assert.Equal(t, "Squid", name)

	code, name = idx.Label(id.New(), "  Line item name ")
	assert.Equal(t, UnknownCode, code)
	assert.Equal(t, "Line item name", name)

	_, name = idx.Label(id.Nil(), "")
	assert.Equal(t, UnknownName, name)
}

func TestIndex_Lookups(t *testing.T) {
	p := Product{ID: id.New(), SKU: "A", Name: "A", Unit: "piece"}
	u := Unit{ID: id.New(), Name: "Kg"}
	idx := NewIndex([]Product{p}, []Unit{u})

	got, ok := idx.Product(p.ID)
	assert.True(t, ok)
	assert.Equal(t, p, got)
	assert.Equal(t, "piece", idx.BaseUnit(p.ID))
	assert.Equal(t, "", idx.BaseUnit(id.New()))

	gotUnit, ok := idx.Unit(u.ID)
	assert.True(t, ok)
	assert.Equal(t, "Kg", gotUnit.Name)
}

package uom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warehub/internal/core/id"
	"warehub/internal/core/types"
	"warehub/internal/domain/catalog"
)

var (
	unitKg   = catalog.Unit{ID: id.New(), Name: "Kg"}
	unitBox  = catalog.Unit{ID: id.New(), Name: "Box"}
	unitBag  = catalog.Unit{ID: id.New(), Name: "bag"}
	unitTray = catalog.Unit{ID: id.New(), Name: "Tray"}
)

func fixture(t *testing.T) (*Resolver, id.ID, id.ID) {
	t.Helper()
	// shrimp is counted in pieces, fish in kilograms
	shrimp := id.New()
	fish := id.New()
	rates := []catalog.ConversionRate{
		{ProductID: shrimp, UnitID: unitBox.ID, Rate: types.MustQuantity("24")},
		{ProductID: shrimp, UnitID: unitKg.ID, Rate: types.MustQuantity("40")},
		{ProductID: shrimp, UnitID: unitTray.ID, Rate: types.Zero()},
		{ProductID: fish, UnitID: unitBag.ID, Rate: types.MustQuantity("0.3")},
	}
	return NewResolver([]catalog.Unit{unitKg, unitBox, unitBag, unitTray}, rates), shrimp, fish
}

func TestToBaseAmount(t *testing.T) {
	r, shrimp, fish := fixture(t)

	tests := []struct {
		name          string
		product       id.ID
		unit          string
		base          string
		qty           string
		want          string
		unconvertible bool
	}{
		{"same unit case-insensitive", shrimp, "PIECE", "piece", "7", "7", false},
		{"direct rate", shrimp, "box", "piece", "3", "72", false},
		{"fractional rate", fish, "Bag", "kg", "7", "2.1", false},
		{"missing rate", fish, "Box", "kg", "5", "5", true},
		{"unknown unit", shrimp, "crate", "piece", "5", "5", true},
		{"zero rate", shrimp, "tray", "piece", "5", "5", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.ToBaseAmount(tt.product, tt.unit, types.MustQuantity(tt.qty), tt.base)
			assert.True(t, got.Quantity.Equal(types.MustQuantity(tt.want)), "got %s", got.Quantity)
			assert.Equal(t, tt.unconvertible, got.Unconvertible)
		})
	}
}

func TestBaseToTargetRate(t *testing.T) {
	r, shrimp, fish := fixture(t)
	kg := DefaultWeightTarget()

	rate, ok := r.BaseToTargetRate(fish, "kilogram", kg)
	require.True(t, ok)
	assert.True(t, rate.Equal(types.One()))

	rate, ok = r.BaseToTargetRate(shrimp, "piece", kg)
	require.True(t, ok)
	assert.True(t, rate.Equal(types.MustQuantity("0.025")), "got %s", rate)

	_, ok = r.BaseToTargetRate(shrimp, "piece", TargetFromUnit(unitTray))
	assert.False(t, ok, "zero rate is not available")

	_, ok = r.BaseToTargetRate(fish, "kg", TargetFromUnit(unitBox))
	assert.False(t, ok)
}

func TestConvert_ToWeight(t *testing.T) {
	r, shrimp, fish := fixture(t)
	kg := DefaultWeightTarget()

	got := r.Convert(shrimp, "Box", "piece", types.MustQuantity("5"), kg)
	require.False(t, got.Unconvertible)
	assert.True(t, got.Quantity.Equal(types.MustQuantity("3")), "got %s", got.Quantity)

	got = r.Convert(fish, "bag", "kg", types.MustQuantity("10"), kg)
	require.False(t, got.Unconvertible)
	assert.True(t, got.Quantity.Equal(types.MustQuantity("3")), "got %s", got.Quantity)

	got = r.Convert(fish, "kgs", "kg", types.MustQuantity("4"), kg)
	require.False(t, got.Unconvertible)
	assert.True(t, got.Quantity.Equal(types.MustQuantity("4")))
}

func TestConvert_SecondHopUsesBaseToTargetRate(t *testing.T) {
	eel := id.New()
	// 1 Kg of eel = 3 pieces, so 1 piece = 1/3 Kg
	r := NewResolver([]catalog.Unit{unitKg}, []catalog.ConversionRate{
		{ProductID: eel, UnitID: unitKg.ID, Rate: types.MustQuantity("3")},
	})
	kg := DefaultWeightTarget()

	rate, ok := r.BaseToTargetRate(eel, "piece", kg)
	require.True(t, ok)

	got := r.Convert(eel, "piece", "piece", types.MustQuantity("30"), kg)
	require.False(t, got.Unconvertible)
	assert.True(t, got.Quantity.Equal(types.MustQuantity("10")), "got %s", got.Quantity)
	assert.True(t, got.Quantity.Equal(types.Multiply(types.MustQuantity("30"), rate)))
}

func TestConvert_UnconvertibleKeepsOriginal(t *testing.T) {
	r, shrimp, fish := fixture(t)

	// no rate into the base unit
	got := r.Convert(fish, "Box", "kg", types.MustQuantity("9"), DefaultWeightTarget())
	assert.True(t, got.Unconvertible)
	assert.True(t, got.Quantity.Equal(types.MustQuantity("9")))

	// no rate out of the base unit
	got = r.Convert(shrimp, "box", "piece", types.MustQuantity("2"), TargetFromUnit(unitBag))
	assert.True(t, got.Unconvertible)
	assert.True(t, got.Quantity.Equal(types.MustQuantity("2")))

	// unknown product
	got = r.Convert(id.New(), "box", "piece", types.MustQuantity("1"), DefaultWeightTarget())
	assert.True(t, got.Unconvertible)
}

func TestConvert_RoundTrip(t *testing.T) {
	r, shrimp, _ := fixture(t)
	box := TargetFromUnit(unitBox)
	kg := TargetFromUnit(unitKg)
	tolerance := types.MustQuantity("0.000000001")

	for _, q := range []string{"1", "3", "7.5", "1000", "0.001"} {
		t.Run(q, func(t *testing.T) {
			start := types.MustQuantity(q)

			inKg := r.Convert(shrimp, "Box", "piece", start, kg)
			require.False(t, inKg.Unconvertible)

			back := r.Convert(shrimp, "Kg", "piece", inKg.Quantity, box)
			require.False(t, back.Unconvertible)
			assert.True(t, types.ApproxEqual(start, back.Quantity, tolerance), "%s -> %s -> %s", start, inKg.Quantity, back.Quantity)
		})
	}
}

func TestNewTarget_DedupesAliases(t *testing.T) {
	target := NewTarget("Kg", []string{"kg", " KG ", "kilogram", ""})
	assert.Equal(t, []string{"Kg", "kilogram"}, target.Aliases)
	assert.True(t, target.Matches("KILOGRAM"))
	assert.False(t, target.Matches(""))
	assert.False(t, target.Matches("g"))
}

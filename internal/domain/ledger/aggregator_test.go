package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"warehub/internal/core/id"
	"warehub/internal/core/types"
	"warehub/internal/domain/catalog"
	"warehub/internal/domain/uom"
)

var (
	shrimp = catalog.Product{ID: id.New(), SKU: "SH-01", Name: "Tôm sú", Unit: "kg"}
	squid  = catalog.Product{ID: id.New(), SKU: "SQ-01", Name: "Mực ống", Unit: "box"}
	crab   = catalog.Product{ID: id.New(), SKU: "CR-01", Name: "Cua", Unit: "kg"}

	unitKg  = catalog.Unit{ID: id.New(), Name: "kg"}
	unitBox = catalog.Unit{ID: id.New(), Name: "box"}
)

func q(s string) types.Quantity { return types.MustQuantity(s) }

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func at(s string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", s)
	if err != nil {
		panic(err)
	}
	return t
}

func newAggregator() *Aggregator {
	cat := catalog.NewIndex([]catalog.Product{shrimp, squid, crab}, []catalog.Unit{unitKg, unitBox})
	res := uom.NewResolver([]catalog.Unit{unitKg, unitBox}, []catalog.ConversionRate{
		// 1 kg of squid = 0.5 box
		{ProductID: squid.ID, UnitID: unitKg.ID, Rate: q("0.5")},
		// 1 box of shrimp = 10 kg
		{ProductID: shrimp.ID, UnitID: unitBox.ID, Rate: q("10")},
	})
	return NewAggregator(cat, res)
}

func line(p catalog.Product, unit, qty string, created time.Time) LineItem {
	return LineItem{
		ProductID:   p.ID,
		ProductName: p.Name,
		Unit:        unit,
		Quantity:    q(qty),
		Status:      StatusCompleted,
		Warehouse:   "Kho A",
		CreatedAt:   created,
		SystemCode:  "FROZEN",
	}
}

func ptr(t time.Time) *time.Time { return &t }

func assertInvariant(t *testing.T, rows []BalanceRow) {
	t.Helper()
	for _, r := range rows {
		want := r.Opening.Add(r.QtyIn).Sub(r.QtyOut)
		assert.True(t, r.Balance.Equal(want), "%s/%s/%s: balance %s != %s", r.ProductName, r.Warehouse, r.Unit, r.Balance, want)
	}
}

func TestAggregate_OpeningInOut(t *testing.T) {
	agg := newAggregator()
	w := NewWindow(ptr(day("2024-03-01")), day("2024-03-31"))

	inbound := []LineItem{
		line(shrimp, "kg", "100", at("2024-02-10 09:00")),
		line(shrimp, "kg", "50", at("2024-03-05 09:00")),
	}
	outbound := []LineItem{
		line(shrimp, "kg", "30", at("2024-03-20 16:00")),
	}

	rows := agg.Aggregate(inbound, outbound, w, Options{Language: language.Vietnamese})
	require.Len(t, rows, 1)

	r := rows[0]
	assert.Equal(t, shrimp.ID, r.ProductID)
	assert.Equal(t, "SH-01", r.ProductCode)
	assert.Equal(t, "Kho A", r.Warehouse)
	assert.Equal(t, "kg", r.Unit)
	assert.True(t, r.Opening.Equal(q("100")))
	assert.True(t, r.QtyIn.Equal(q("50")))
	assert.True(t, r.QtyOut.Equal(q("30")))
	assert.True(t, r.Balance.Equal(q("120")))
	assert.False(t, r.IsUnconvertible)
}

func TestAggregate_WindowBoundaries(t *testing.T) {
	agg := newAggregator()
	w := NewWindow(ptr(day("2024-03-01")), day("2024-03-31"))

	inbound := []LineItem{
		line(shrimp, "kg", "1", at("2024-02-29 23:59")),
		// midnight of the first day belongs to the period
		line(shrimp, "kg", "2", at("2024-03-01 00:00")),
		line(shrimp, "kg", "4", at("2024-03-31 23:59")),
		// after the last day
		line(shrimp, "kg", "8", at("2024-04-01 00:00")),
	}

	rows := agg.Aggregate(inbound, nil, w, Options{})
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Opening.Equal(q("1")))
	assert.True(t, rows[0].QtyIn.Equal(q("6")))
	assert.True(t, rows[0].Balance.Equal(q("7")))
}

func TestAggregate_NoFromMeansNoOpening(t *testing.T) {
	agg := newAggregator()
	w := NewWindow(nil, day("2024-03-31"))

	rows := agg.Aggregate(
		[]LineItem{line(crab, "kg", "5", at("2020-01-01 10:00"))},
		[]LineItem{line(crab, "kg", "2", at("2024-03-02 10:00"))},
		w, Options{})
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Opening.IsZero())
	assert.True(t, rows[0].QtyIn.Equal(q("5")))
	assert.True(t, rows[0].Balance.Equal(q("3")))
}

func TestAggregate_IgnoresIncompleteOrders(t *testing.T) {
	agg := newAggregator()
	pending := line(crab, "kg", "9", at("2024-03-02 10:00"))
	pending.Status = "Pending"

	rows := agg.Aggregate([]LineItem{pending}, nil, NewWindow(nil, day("2024-03-31")), Options{})
	assert.Empty(t, rows)
}

func TestAggregate_TargetConversion(t *testing.T) {
	agg := newAggregator()
	kg := uom.DefaultWeightTarget()
	w := NewWindow(nil, day("2024-03-31"))

	inbound := []LineItem{
		line(shrimp, "box", "2", at("2024-03-01 08:00")),
		line(shrimp, "kg", "5", at("2024-03-01 09:00")),
		line(squid, "box", "3", at("2024-03-01 10:00")),
		// crab has no box rate
		line(crab, "box", "4", at("2024-03-01 11:00")),
	}
	outbound := []LineItem{
		line(squid, "box", "1", at("2024-03-02 10:00")),
	}

	rows := agg.Aggregate(inbound, outbound, w, Options{Target: &kg, Language: language.Vietnamese})
	require.Len(t, rows, 3)
	assertInvariant(t, rows)

	// convertible rows sorted by name, unconvertible last
	assert.Equal(t, "Mực ống", rows[0].ProductName)
	assert.Equal(t, "Kg", rows[0].Unit)
	assert.True(t, rows[0].Balance.Equal(q("4")), "got %s", rows[0].Balance)

	assert.Equal(t, "Tôm sú", rows[1].ProductName)
	assert.Equal(t, "Kg", rows[1].Unit)
	assert.True(t, rows[1].QtyIn.Equal(q("25")), "got %s", rows[1].QtyIn)

	assert.Equal(t, "Cua", rows[2].ProductName)
	assert.True(t, rows[2].IsUnconvertible)
	assert.Equal(t, "box", rows[2].Unit)
	assert.True(t, rows[2].QtyIn.Equal(q("4")))
}

func TestAggregate_KeysByUnitWithoutTarget(t *testing.T) {
	agg := newAggregator()
	rows := agg.Aggregate([]LineItem{
		line(shrimp, "kg", "5", at("2024-03-01 08:00")),
		line(shrimp, "box", "1", at("2024-03-01 08:00")),
		line(shrimp, "KG ", "1", at("2024-03-01 08:00")),
	}, nil, NewWindow(nil, day("2024-03-31")), Options{})

	require.Len(t, rows, 3)
	units := []string{rows[0].Unit, rows[1].Unit, rows[2].Unit}
	assert.ElementsMatch(t, []string{"kg", "box", "KG"}, units)
}

func TestAggregate_Search(t *testing.T) {
	agg := newAggregator()
	inbound := []LineItem{
		line(shrimp, "kg", "1", at("2024-03-01 08:00")),
		line(squid, "box", "1", at("2024-03-01 08:00")),
		line(crab, "kg", "1", at("2024-03-01 08:00")),
	}
	w := NewWindow(nil, day("2024-03-31"))

	tests := []struct {
		name   string
		search string
		want   []id.ID
	}{
		{"by code", "sq-", []id.ID{squid.ID}},
		{"by name", "TÔM", []id.ID{shrimp.ID}},
		{"by id", crab.ID.String(), []id.ID{crab.ID}},
		{"blank keeps all", "  ", []id.ID{crab.ID, squid.ID, shrimp.ID}},
		{"no match", "zzz", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := agg.Aggregate(inbound, nil, w, Options{Search: tt.search, Language: language.Vietnamese})
			var got []id.ID
			for _, r := range rows {
				got = append(got, r.ProductID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAggregate_MissingReferences(t *testing.T) {
	agg := newAggregator()
	orphan := LineItem{
		ProductID:   id.New(),
		ProductName: "Cá thu",
		Unit:        "kg",
		Quantity:    q("3"),
		Status:      StatusCompleted,
		CreatedAt:   at("2024-03-01 08:00"),
	}
	noProduct := LineItem{
		Unit:      "kg",
		Quantity:  q("1"),
		Status:    StatusCompleted,
		Warehouse: "Kho B",
		CreatedAt: at("2024-03-01 08:00"),
	}

	rows := agg.Aggregate([]LineItem{orphan, noProduct, noProduct}, nil, NewWindow(nil, day("2024-03-31")), Options{})
	require.Len(t, rows, 2)

	byName := map[string]BalanceRow{}
	for _, r := range rows {
		byName[r.ProductName] = r
	}
	assert.Equal(t, catalog.UnknownCode, byName["Cá thu"].ProductCode)
	assert.Equal(t, catalog.UnknownWarehouse, byName["Cá thu"].Warehouse)

	unknown := byName[catalog.UnknownName]
	assert.True(t, id.IsNil(unknown.ProductID))
	assert.True(t, unknown.Balance.Equal(q("2")))
}

func TestAggregate_Deterministic(t *testing.T) {
	agg := newAggregator()
	var inbound []LineItem
	for _, wh := range []string{"Kho C", "Kho A", "Kho B"} {
		for _, p := range []catalog.Product{crab, shrimp, squid} {
			l := line(p, "kg", "1", at("2024-03-01 08:00"))
			l.Warehouse = wh
			inbound = append(inbound, l)
		}
	}
	w := NewWindow(nil, day("2024-03-31"))

	first := agg.Aggregate(inbound, nil, w, Options{Language: language.Vietnamese})
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, agg.Aggregate(inbound, nil, w, Options{Language: language.Vietnamese}))
	}
	assert.Equal(t, "Kho A", first[0].Warehouse)
	assert.Equal(t, "Kho C", first[2].Warehouse)
}

func TestProductBalances(t *testing.T) {
	agg := newAggregator()
	rows := agg.Aggregate([]LineItem{
		line(shrimp, "kg", "5", at("2024-03-01 08:00")),
		line(shrimp, "box", "2", at("2024-03-01 08:00")),
		line(crab, "box", "1", at("2024-03-01 08:00")),
	}, []LineItem{
		line(shrimp, "kg", "3", at("2024-03-02 08:00")),
	}, NewWindow(nil, day("2024-03-31")), Options{})

	cat := catalog.NewIndex([]catalog.Product{shrimp, squid, crab}, nil)
	res := uom.NewResolver([]catalog.Unit{unitKg, unitBox}, []catalog.ConversionRate{
		{ProductID: shrimp.ID, UnitID: unitBox.ID, Rate: q("10")},
	})
	set := ProductBalances(rows, cat, res)

	require.Equal(t, 2, set.Len())
	b, ok := set.Get(shrimp.ID)
	require.True(t, ok)
	assert.Equal(t, "kg", b.Unit)
	assert.True(t, b.Quantity.Equal(q("22")), "got %s", b.Quantity)
	assert.False(t, b.Unconvertible)

	c, ok := set.Get(crab.ID)
	require.True(t, ok)
	assert.True(t, c.Unconvertible)
	assert.True(t, c.Quantity.Equal(q("1")))
}

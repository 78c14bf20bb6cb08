package ledger

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"warehub/internal/core/id"
	"warehub/internal/core/types"
	"warehub/internal/domain/catalog"
	"warehub/internal/domain/uom"
)

// Aggregator builds ledger reports from already fetched line items.
// It holds no mutable state and is safe for concurrent use.
type Aggregator struct {
	catalog  *catalog.Index
	resolver *uom.Resolver
}

// NewAggregator creates an Aggregator over one catalog snapshot.
func NewAggregator(cat *catalog.Index, resolver *uom.Resolver) *Aggregator {
	return &Aggregator{catalog: cat, resolver: resolver}
}

type rowKey struct {
	product       id.ID
	warehouse     string
	unit          string
	unconvertible bool
}

// Aggregate folds inbound and outbound lines into balance rows, filters them by
// opts.Search and returns them sorted.
func (a *Aggregator) Aggregate(inbound, outbound []LineItem, w Window, opts Options) []BalanceRow {
	rows := make(map[rowKey]*BalanceRow)
	var order []rowKey

	apply := func(item LineItem, leg Leg) {
		if item.Status != StatusCompleted || !w.Contains(item.CreatedAt) {
			return
		}

		key, qty := a.keyFor(item, opts.Target)
		row, ok := rows[key]
		if !ok {
			code, name := a.catalog.Label(item.ProductID, item.ProductName)
			row = &BalanceRow{
				ProductID:       key.product,
				ProductCode:     code,
				ProductName:     name,
				Warehouse:       key.warehouse,
				Unit:            key.unit,
				Opening:         types.Zero(),
				QtyIn:           types.Zero(),
				QtyOut:          types.Zero(),
				Balance:         types.Zero(),
				IsUnconvertible: key.unconvertible,
			}
			rows[key] = row
			order = append(order, key)
		}

		delta := qty
		if leg == LegOutbound {
			delta = qty.Neg()
		}
		switch {
		case w.IsOpening(item.CreatedAt):
			row.Opening = row.Opening.Add(delta)
		case leg == LegInbound:
			row.QtyIn = row.QtyIn.Add(qty)
		default:
			row.QtyOut = row.QtyOut.Add(qty)
		}
		row.Balance = row.Balance.Add(delta)
	}

	for _, item := range inbound {
		apply(item, LegInbound)
	}
	for _, item := range outbound {
		apply(item, LegOutbound)
	}

	out := make([]BalanceRow, 0, len(order))
	for _, k := range order {
		if matches(rows[k], opts.Search) {
			out = append(out, *rows[k])
		}
	}
	SortRows(out, opts.Language)
	return out
}

func (a *Aggregator) keyFor(item LineItem, target *uom.Target) (rowKey, types.Quantity) {
	key := rowKey{
		product:   item.ProductID,
		warehouse: strings.TrimSpace(item.Warehouse),
		unit:      strings.TrimSpace(item.Unit),
	}
	if key.warehouse == "" {
		key.warehouse = catalog.UnknownWarehouse
	}
	if target == nil {
		return key, item.Quantity
	}

	conv := a.resolver.Convert(item.ProductID, item.Unit, a.catalog.BaseUnit(item.ProductID), item.Quantity, *target)
	if conv.Unconvertible {
		key.unconvertible = true
		return key, item.Quantity
	}
	key.unit = target.Name
	return key, conv.Quantity
}

func matches(row *BalanceRow, search string) bool {
	search = strings.TrimSpace(search)
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)
	return strings.Contains(strings.ToLower(row.ProductCode), needle) ||
		strings.Contains(strings.ToLower(row.ProductName), needle) ||
		strings.EqualFold(row.ProductID.String(), search)
}

// SortRows orders rows: convertible first, then product name by the collation
// rules of lang, then warehouse, unit and product id.
func SortRows(rows []BalanceRow, lang language.Tag) {
	col := collate.New(lang, collate.IgnoreCase)
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.IsUnconvertible != b.IsUnconvertible {
			return !a.IsUnconvertible
		}
		if c := col.CompareString(a.ProductName, b.ProductName); c != 0 {
			return c < 0
		}
		if c := col.CompareString(a.Warehouse, b.Warehouse); c != 0 {
			return c < 0
		}
		if a.Unit != b.Unit {
			return a.Unit < b.Unit
		}
		return id.Less(a.ProductID, b.ProductID)
	})
}

package ledger

import (
	"warehub/internal/domain/catalog"
	"warehub/internal/domain/reconcile"
	"warehub/internal/domain/uom"
)

// ProductBalances folds ledger rows into one balance per product expressed in
// the product's base unit. Rows that cannot reach the base unit are added as-is
// and mark the product balance unconvertible.
func ProductBalances(rows []BalanceRow, cat *catalog.Index, resolver *uom.Resolver) *reconcile.BalanceSet {
	set := reconcile.NewBalanceSet()
	for _, row := range rows {
		base := cat.BaseUnit(row.ProductID)
		conv := resolver.ToBaseAmount(row.ProductID, row.Unit, row.Balance, base)
		unit := base
		if unit == "" {
			unit = row.Unit
		}
		set.Add(reconcile.Balance{
			ProductID:     row.ProductID,
			ProductCode:   row.ProductCode,
			ProductName:   row.ProductName,
			Unit:          unit,
			Quantity:      conv.Quantity,
			Unconvertible: conv.Unconvertible || row.IsUnconvertible,
		})
	}
	return set
}

package lots

import (
	"warehub/internal/core/id"
	"warehub/internal/core/types"
	"warehub/internal/domain/catalog"
	"warehub/internal/domain/reconcile"
	"warehub/internal/domain/uom"
)

// Calculator derives lot-side quantities in each product's base unit.
type Calculator struct {
	catalog  *catalog.Index
	resolver *uom.Resolver
}

// NewCalculator creates a Calculator over one catalog snapshot.
func NewCalculator(cat *catalog.Index, resolver *uom.Resolver) *Calculator {
	return &Calculator{catalog: cat, resolver: resolver}
}

// Balances sums records per product in the product's base unit.
func (c *Calculator) Balances(records []Record) *reconcile.BalanceSet {
	set := reconcile.NewBalanceSet()
	for _, r := range records {
		code, name := c.catalog.Label(r.ProductID, "")
		base := c.catalog.BaseUnit(r.ProductID)
		conv := c.resolver.ToBaseAmount(r.ProductID, r.Unit, r.Quantity, base)
		unit := base
		if unit == "" {
			unit = r.Unit
		}
		set.Add(reconcile.Balance{
			ProductID:     r.ProductID,
			ProductCode:   code,
			ProductName:   name,
			Unit:          unit,
			Quantity:      conv.Quantity,
			Unconvertible: conv.Unconvertible,
		})
	}
	return set
}

// Pending sums draft history movements per product in base units. Lots whose
// metadata cannot be decoded are skipped and returned by id.
func (c *Calculator) Pending(lots []Lot) (map[id.ID]reconcile.Pending, []id.ID) {
	out := make(map[id.ID]reconcile.Pending)
	var malformed []id.ID

	for _, lot := range lots {
		h, err := ParseHistory(lot.Metadata)
		if err != nil {
			malformed = append(malformed, lot.ID)
			continue
		}
		inbound, exports := h.Drafts()
		for _, e := range inbound {
			for _, m := range e.Items {
				c.addPending(out, m, true)
			}
		}
		for _, e := range exports {
			for _, m := range e.Items {
				c.addPending(out, m, false)
			}
		}
	}
	return out, malformed
}

func (c *Calculator) addPending(out map[id.ID]reconcile.Pending, m Movement, inbound bool) {
	qty := c.resolver.ToBaseAmount(m.ProductID, m.Unit, m.Quantity, c.catalog.BaseUnit(m.ProductID)).Quantity
	p := reconcile.Pending{Inbound: types.Zero(), Export: types.Zero()}
	if inbound {
		p.Inbound = qty
	} else {
		p.Export = qty
	}
	out[m.ProductID] = out[m.ProductID].Add(p)
}

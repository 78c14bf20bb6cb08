// Package reconcile compares the accounting view of stock (order ledger) with
// the physical view (lots) product by product.
package reconcile

import (
	"warehub/internal/core/id"
	"warehub/internal/core/types"
)

// Balance is one product's quantity on one side of the comparison.
type Balance struct {
	ProductID   id.ID
	ProductCode string
	ProductName string
	Unit        string
	Quantity    types.Quantity

	// Unconvertible marks a balance that mixes quantities which could not be
	// brought into Unit.
	Unconvertible bool
}

// BalanceSet is an insertion-ordered map of product balances.
type BalanceSet struct {
	order []id.ID
	items map[id.ID]Balance
}

// NewBalanceSet creates an empty set.
func NewBalanceSet() *BalanceSet {
	return &BalanceSet{items: make(map[id.ID]Balance)}
}

// Add merges b into the set. Quantities of the same product are summed and the
// first seen labels are kept.
func (s *BalanceSet) Add(b Balance) {
	cur, ok := s.items[b.ProductID]
	if !ok {
		s.order = append(s.order, b.ProductID)
		s.items[b.ProductID] = b
		return
	}
	cur.Quantity = cur.Quantity.Add(b.Quantity)
	cur.Unconvertible = cur.Unconvertible || b.Unconvertible
	if cur.Unit == "" {
		cur.Unit = b.Unit
	}
	s.items[b.ProductID] = cur
}

// Get returns the balance of a product.
func (s *BalanceSet) Get(productID id.ID) (Balance, bool) {
	b, ok := s.items[productID]
	return b, ok
}

// Len returns the number of products in the set.
func (s *BalanceSet) Len() int {
	return len(s.items)
}

// Each calls fn for every balance in insertion order.
func (s *BalanceSet) Each(fn func(Balance)) {
	for _, pid := range s.order {
		if b, ok := s.items[pid]; ok {
			fn(b)
		}
	}
}

// Balances returns the balances in insertion order.
func (s *BalanceSet) Balances() []Balance {
	out := make([]Balance, 0, len(s.items))
	s.Each(func(b Balance) { out = append(out, b) })
	return out
}

func (s *BalanceSet) clone() *BalanceSet {
	c := &BalanceSet{
		order: append([]id.ID(nil), s.order...),
		items: make(map[id.ID]Balance, len(s.items)),
	}
	for k, v := range s.items {
		c.items[k] = v
	}
	return c
}

func (s *BalanceSet) delete(productID id.ID) {
	delete(s.items, productID)
}

// Pending holds quantities recorded in draft lot history that have not reached
// a completed order yet, in the product's base unit.
type Pending struct {
	Inbound types.Quantity
	Export  types.Quantity
}

// Add sums two pending values.
func (p Pending) Add(o Pending) Pending {
	return Pending{Inbound: p.Inbound.Add(o.Inbound), Export: p.Export.Add(o.Export)}
}

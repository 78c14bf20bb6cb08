package catalog

import (
	"strings"

	"warehub/internal/core/id"
)

// Index is a read-only lookup over one snapshot of the product and unit masters.
type Index struct {
	products map[id.ID]Product
	units    map[id.ID]Unit
}

// NewIndex builds an Index. Later duplicates overwrite earlier ones.
func NewIndex(products []Product, units []Unit) *Index {
	idx := &Index{
		products: make(map[id.ID]Product, len(products)),
		units:    make(map[id.ID]Unit, len(units)),
	}
	for _, p := range products {
		idx.products[p.ID] = p
	}
	for _, u := range units {
		idx.units[u.ID] = u
	}
	return idx
}

// Product returns the product with the given id.
func (x *Index) Product(productID id.ID) (Product, bool) {
	p, ok := x.products[productID]
	return p, ok
}

// Unit returns the unit with the given id.
func (x *Index) Unit(unitID id.ID) (Unit, bool) {
	u, ok := x.units[unitID]
	return u, ok
}

// BaseUnit returns the product's base unit name, or "" for unknown products.
func (x *Index) BaseUnit(productID id.ID) string {
	return x.products[productID].Unit
}

// Label returns display code and name for a product, substituting placeholders
// for missing references. fallbackName is used when the product is unknown
// (line items carry a denormalised product name).
func (x *Index) Label(productID id.ID, fallbackName string) (code, name string) {
	if p, ok := x.products[productID]; ok {
		code, name = p.SKU, p.Name
	}
	if code == "" {
		code = UnknownCode
	}
	if name == "" {
		name = strings.TrimSpace(fallbackName)
	}
	if name == "" {
		name = UnknownName
	}
	return code, name
}

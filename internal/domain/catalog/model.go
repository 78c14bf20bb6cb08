// Package catalog holds the reference data a report reads: products, units and
// product-specific conversion rates. The engine never writes these records.
package catalog

import (
	"warehub/internal/core/id"
	"warehub/internal/core/types"
)

// Placeholder labels used when a referenced record is missing.
const (
	UnknownCode      = "N/A"
	UnknownName      = "Unknown"
	UnknownWarehouse = "Unknown"
)

// Product is a row of the product master.
type Product struct {
	ID   id.ID  `db:"id" json:"id"`
	SKU  string `db:"sku" json:"sku"`
	Name string `db:"name" json:"name"`

	// Unit is the base unit name: the unit the product's master quantity is
	// recorded in and the pivot of every conversion.
	Unit string `db:"unit" json:"unit"`
}

// Unit is a row of the unit master. Names are matched case-insensitively.
type Unit struct {
	ID   id.ID  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// ConversionRate states that 1 Unit equals Rate base units of Product.
type ConversionRate struct {
	ProductID id.ID      `db:"product_id" json:"productId"`
	UnitID    id.ID      `db:"unit_id" json:"unitId"`
	Rate      types.Rate `db:"conversion_rate" json:"conversionRate"`
}

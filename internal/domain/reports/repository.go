package reports

import (
	"context"
	"time"

	"warehub/internal/domain/catalog"
	"warehub/internal/domain/ledger"
	"warehub/internal/domain/lots"
)

// Source names reported when a fetch leg fails.
const (
	SourceInbound  = "inbound_order_items"
	SourceOutbound = "outbound_order_items"
	SourceProducts = "products"
	SourceUnits    = "units"
	SourceRates    = "product_units"
	SourceLots     = "lots"
)

// LineFilter selects order line items.
type LineFilter struct {
	SystemCode string

	// Warehouse is empty for all warehouses.
	Warehouse string

	// Status keeps only orders with this status.
	Status string

	// Until is exclusive.
	Until time.Time
}

// LotFilter selects lots with their items and tags.
type LotFilter struct {
	SystemCode string
	Warehouse  string
	Status     string
}

// Repository is the read contract the reports need. Implementations return
// complete result sets; a failed page fails the whole call.
type Repository interface {
	ListLineItems(ctx context.Context, leg ledger.Leg, filter LineFilter) ([]ledger.LineItem, error)
	ListProducts(ctx context.Context) ([]catalog.Product, error)
	ListUnits(ctx context.Context) ([]catalog.Unit, error)
	ListConversionRates(ctx context.Context) ([]catalog.ConversionRate, error)
	ListLots(ctx context.Context, filter LotFilter) ([]lots.Lot, error)
}

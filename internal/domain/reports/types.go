// Package reports orchestrates the inventory reports: it loads one snapshot of
// source records, runs the ledger, tag and reconciliation engines over it and
// returns complete reports or a single error.
package reports

import (
	"strings"
	"time"

	"golang.org/x/text/language"

	"warehub/internal/core/id"
	"warehub/internal/domain/ledger"
	"warehub/internal/domain/lots"
	"warehub/internal/domain/reconcile"
	"warehub/internal/domain/tagtree"
	"warehub/internal/domain/uom"
)

// Settings are service-wide report defaults.
type Settings struct {
	// Location interprets calendar dates and "today".
	Location *time.Location

	// Language drives name and tag collation.
	Language language.Tag

	// WeightTarget is the unit rows convert into when a ledger asks for weight.
	WeightTarget uom.Target
}

// DefaultSettings returns UTC, Vietnamese collation and the kilogram target.
func DefaultSettings() Settings {
	return Settings{
		Location:     time.UTC,
		Language:     language.Vietnamese,
		WeightTarget: uom.DefaultWeightTarget(),
	}
}

// allWarehouses are the warehouse filter values that mean "no filter".
var allWarehouses = []string{"", "all", "tất cả"}

// NormalizeWarehouse returns "" for any "all warehouses" value.
func NormalizeWarehouse(w string) string {
	w = strings.TrimSpace(w)
	for _, all := range allWarehouses {
		if strings.EqualFold(w, all) {
			return ""
		}
	}
	return w
}

// --- Ledger report ---

// LedgerFilter selects a ledger report.
type LedgerFilter struct {
	SystemCode string
	Warehouse  string

	// From is optional; without it there is no opening balance.
	From *time.Time

	// To is required and inclusive.
	To *time.Time

	Search      string
	ConvertToKg bool

	// Where is an optional row predicate, e.g. "balance < 0.0".
	Where string
}

// LedgerReport is the ledger result.
type LedgerReport struct {
	Items              []ledger.BalanceRow
	TotalItems         int
	UnconvertibleItems int
}

// --- Tag hierarchy report ---

// TagFilter selects a tag hierarchy report.
type TagFilter struct {
	SystemCode string
	Warehouse  string

	// Tag keeps only records carrying this exact tag.
	Tag string

	// TargetUnitID converts quantities into this unit when set.
	TargetUnitID *id.ID
}

// TagReport is the tag hierarchy result.
type TagReport struct {
	Items      []*tagtree.Node
	UniqueTags []string
}

// --- Lot inventory report ---

// LotInventoryFilter selects a by-lot inventory report.
type LotInventoryFilter struct {
	SystemCode string
	Warehouse  string

	// Search matches product code, name or tag combination.
	Search string

	// TargetUnitID converts quantities into this unit when set.
	TargetUnitID *id.ID
}

// LotInventoryReport is the by-lot inventory result.
type LotInventoryReport struct {
	Items              []lots.ProductGroup
	TotalItems         int
	UnconvertibleItems int
}

// --- Reconciliation report ---

// ReconciliationFilter selects a reconciliation report.
type ReconciliationFilter struct {
	SystemCode string
	Warehouse  string

	// AsOf defaults to today.
	AsOf *time.Time

	OnlyDiff bool
	Where    string
}

// ReconciliationReport is the reconciliation result.
type ReconciliationReport struct {
	AsOf    time.Time
	Items   []reconcile.Row
	Summary reconcile.Summary
}

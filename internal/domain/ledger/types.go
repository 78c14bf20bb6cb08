// Package ledger folds completed inbound and outbound order lines into
// per-product balances for a reporting window.
package ledger

import (
	"time"

	"golang.org/x/text/language"

	"warehub/internal/core/id"
	"warehub/internal/core/types"
	"warehub/internal/domain/uom"
)

// Leg identifies the direction of a line item.
type Leg string

const (
	LegInbound  Leg = "inbound"
	LegOutbound Leg = "outbound"
)

// StatusCompleted is the only order status that moves stock in the ledger.
const StatusCompleted = "Completed"

// LineItem is an order line joined with its order header.
type LineItem struct {
	ProductID   id.ID          `db:"product_id"`
	ProductName string         `db:"product_name"`
	Unit        string         `db:"unit"`
	Quantity    types.Quantity `db:"quantity"`

	Status     string    `db:"status"`
	Warehouse  string    `db:"warehouse_name"`
	CreatedAt  time.Time `db:"created_at"`
	SystemCode string    `db:"system_code"`
}

// BalanceRow is one (product, warehouse, unit) line of a ledger report.
// Balance always equals Opening + QtyIn - QtyOut.
type BalanceRow struct {
	ProductID   id.ID
	ProductCode string
	ProductName string
	Warehouse   string
	Unit        string

	Opening types.Quantity
	QtyIn   types.Quantity
	QtyOut  types.Quantity
	Balance types.Quantity

	// IsUnconvertible marks rows kept in their original unit because the
	// requested target could not be reached.
	IsUnconvertible bool
}

// Window bounds a report. Movements before From are opening balance; movements
// at or after Until are ignored.
type Window struct {
	From  *time.Time
	Until time.Time
}

// NewWindow builds a window from calendar dates: from is inclusive from its
// midnight, to is inclusive through its last instant.
func NewWindow(from *time.Time, to time.Time) Window {
	w := Window{Until: startOfDay(to).AddDate(0, 0, 1)}
	if from != nil {
		f := startOfDay(*from)
		w.From = &f
	}
	return w
}

// IsOpening reports whether t falls before the window start.
func (w Window) IsOpening(t time.Time) bool {
	return w.From != nil && t.Before(*w.From)
}

// Contains reports whether t is before the window end.
func (w Window) Contains(t time.Time) bool {
	return t.Before(w.Until)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Options tune an aggregation.
type Options struct {
	// Target converts every row into one display unit when set.
	Target *uom.Target

	// Search keeps rows whose code or name contains the text, or whose product
	// id equals it.
	Search string

	// Language drives name collation.
	Language language.Tag
}

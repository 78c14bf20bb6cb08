package reconcile

import (
	"warehub/internal/core/id"
	"warehub/internal/core/types"
)

// Presence tells which side a product was found on.
type Presence string

const (
	PresenceBoth       Presence = "both"
	PresenceAccounting Presence = "accounting"
	PresenceLot        Presence = "lot"
)

// Row is one product of a reconciliation report.
type Row struct {
	ProductID         id.ID
	ProductCode       string
	ProductName       string
	Unit              string
	AccountingBalance types.Quantity
	LotBalance        types.Quantity

	// Diff is AccountingBalance - LotBalance.
	Diff types.Quantity

	PendingInbound types.Quantity
	PendingExport  types.Quantity

	// UnexplainedDiff is the variance left after draft movements are applied:
	// Diff + PendingInbound - PendingExport.
	UnexplainedDiff types.Quantity

	IsUnconvertible bool
	Presence        Presence
}

// Compare walks the accounting set in order, pairing each product with its lot
// balance (zero when absent), then emits lot-only products with an accounting
// balance of zero. Neither input is modified.
func Compare(accounting, lot *BalanceSet) []Row {
	if accounting == nil {
		accounting = NewBalanceSet()
	}
	if lot == nil {
		lot = NewBalanceSet()
	}

	remaining := lot.clone()
	rows := make([]Row, 0, accounting.Len()+lot.Len())

	accounting.Each(func(acc Balance) {
		row := Row{
			ProductID:         acc.ProductID,
			ProductCode:       acc.ProductCode,
			ProductName:       acc.ProductName,
			Unit:              acc.Unit,
			AccountingBalance: acc.Quantity,
			LotBalance:        types.Zero(),
			IsUnconvertible:   acc.Unconvertible,
			Presence:          PresenceAccounting,
		}
		if l, ok := remaining.Get(acc.ProductID); ok {
			row.LotBalance = l.Quantity
			row.IsUnconvertible = row.IsUnconvertible || l.Unconvertible
			row.Presence = PresenceBoth
			if row.Unit == "" {
				row.Unit = l.Unit
			}
			remaining.delete(acc.ProductID)
		}
		rows = append(rows, finish(row))
	})

	remaining.Each(func(l Balance) {
		rows = append(rows, finish(Row{
			ProductID:         l.ProductID,
			ProductCode:       l.ProductCode,
			ProductName:       l.ProductName,
			Unit:              l.Unit,
			AccountingBalance: types.Zero(),
			LotBalance:        l.Quantity,
			IsUnconvertible:   l.Unconvertible,
			Presence:          PresenceLot,
		}))
	})

	return rows
}

func finish(r Row) Row {
	r.Diff = r.AccountingBalance.Sub(r.LotBalance)
	r.PendingInbound = types.Zero()
	r.PendingExport = types.Zero()
	r.UnexplainedDiff = r.Diff
	return r
}

// ApplyPending attaches draft-history quantities to rows and recomputes
// UnexplainedDiff. rows is modified in place.
func ApplyPending(rows []Row, pending map[id.ID]Pending) {
	for i := range rows {
		p, ok := pending[rows[i].ProductID]
		if !ok {
			continue
		}
		rows[i].PendingInbound = p.Inbound
		rows[i].PendingExport = p.Export
		rows[i].UnexplainedDiff = rows[i].Diff.Add(p.Inbound).Sub(p.Export)
	}
}

// OnlyDiff keeps rows whose Diff is non-zero.
func OnlyDiff(rows []Row) []Row {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if !r.Diff.IsZero() {
			out = append(out, r)
		}
	}
	return out
}

// Summary counts rows by outcome.
type Summary struct {
	Total          int
	Matched        int
	WithDiff       int
	OnlyAccounting int
	OnlyLot        int
	Unconvertible  int
}

// Summarize computes a Summary over rows.
func Summarize(rows []Row) Summary {
	s := Summary{Total: len(rows)}
	for _, r := range rows {
		if r.Diff.IsZero() {
			s.Matched++
		} else {
			s.WithDiff++
		}
		switch r.Presence {
		case PresenceAccounting:
			s.OnlyAccounting++
		case PresenceLot:
			s.OnlyLot++
		}
		if r.IsUnconvertible {
			s.Unconvertible++
		}
	}
	return s
}

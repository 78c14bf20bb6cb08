package lots

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"warehub/internal/core/id"
	"warehub/internal/core/types"
)

// EntryKind tags a lot history entry.
type EntryKind string

const (
	KindInbound EntryKind = "inbound"
	KindExport  EntryKind = "export"
	KindSplit   EntryKind = "split"
	KindUnknown EntryKind = "unknown"
)

// Entry is one record of a lot's append-only movement history.
type Entry interface {
	Kind() EntryKind
}

// Movement is a product quantity moved by a history entry.
type Movement struct {
	ProductID   id.ID
	ProductSKU  string
	ProductName string
	Quantity    types.Quantity
	Unit        string
}

// InboundEntry records stock received into the lot.
type InboundEntry struct {
	ID           string
	Date         string
	SupplierName string
	OrderID      string
	OrderCode    string

	// Draft entries moved stock physically but have no completed order yet.
	Draft bool

	Items []Movement
}

func (InboundEntry) Kind() EntryKind { return KindInbound }

// ExportEntry records stock taken out of the lot.
type ExportEntry struct {
	ID          string
	Date        string
	Customer    string
	Description string
	OrderID     string
	Draft       bool
	Items       []Movement
}

func (ExportEntry) Kind() EntryKind { return KindExport }

// SplitEntry records lots split off from this one.
type SplitEntry struct {
	LotCode string
}

func (SplitEntry) Kind() EntryKind { return KindSplit }

// UnknownEntry preserves a history section this package does not interpret.
type UnknownEntry struct {
	Key string
	Raw json.RawMessage
}

func (UnknownEntry) Kind() EntryKind { return KindUnknown }

// History is the parsed system_history of one lot, in stored order:
// inbound entries, then exports, then splits, then unknown sections by key.
type History struct {
	Entries []Entry
}

type rawMovement struct {
	ProductID        string          `json:"product_id"`
	ProductSKU       string          `json:"product_sku"`
	ProductName      string          `json:"product_name"`
	Quantity         json.RawMessage `json:"quantity"`
	ExportedQuantity json.RawMessage `json:"exported_quantity"`
	Unit             string          `json:"unit"`
}

type rawInbound struct {
	ID           string                 `json:"id"`
	Date         string                 `json:"date"`
	SupplierName string                 `json:"supplier_name"`
	OrderID      string                 `json:"order_id"`
	OrderCode    string                 `json:"order_code"`
	Draft        bool                   `json:"draft"`
	Items        map[string]rawMovement `json:"items"`
}

type rawExport struct {
	ID          string                 `json:"id"`
	Date        string                 `json:"date"`
	Customer    string                 `json:"customer"`
	Description string                 `json:"description"`
	OrderID     string                 `json:"order_id"`
	Draft       bool                   `json:"draft"`
	Items       map[string]rawMovement `json:"items"`
}

type rawMetadata struct {
	SystemHistory map[string]json.RawMessage `json:"system_history"`
}

// ParseHistory decodes the system_history section of lot metadata.
// Empty metadata yields an empty history.
func ParseHistory(metadata []byte) (History, error) {
	var h History
	if len(strings.TrimSpace(string(metadata))) == 0 || string(metadata) == "null" {
		return h, nil
	}

	var meta rawMetadata
	if err := json.Unmarshal(metadata, &meta); err != nil {
		return h, fmt.Errorf("decode lot metadata: %w", err)
	}

	keys := make([]string, 0, len(meta.SystemHistory))
	for k := range meta.SystemHistory {
		if k != "inbound" && k != "exports" && k != "split_to" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	if raw, ok := meta.SystemHistory["inbound"]; ok {
		var list []rawInbound
		if err := json.Unmarshal(raw, &list); err != nil {
			return h, fmt.Errorf("decode inbound history: %w", err)
		}
		for _, e := range list {
			h.Entries = append(h.Entries, InboundEntry{
				ID:           e.ID,
				Date:         e.Date,
				SupplierName: e.SupplierName,
				OrderID:      e.OrderID,
				OrderCode:    e.OrderCode,
				Draft:        e.Draft,
				Items:        movements(e.Items, false),
			})
		}
	}

	if raw, ok := meta.SystemHistory["exports"]; ok {
		var list []rawExport
		if err := json.Unmarshal(raw, &list); err != nil {
			return h, fmt.Errorf("decode export history: %w", err)
		}
		for _, e := range list {
			h.Entries = append(h.Entries, ExportEntry{
				ID:          e.ID,
				Date:        e.Date,
				Customer:    e.Customer,
				Description: e.Description,
				OrderID:     e.OrderID,
				Draft:       e.Draft,
				Items:       movements(e.Items, true),
			})
		}
	}

	if raw, ok := meta.SystemHistory["split_to"]; ok {
		var codes []string
		if err := json.Unmarshal(raw, &codes); err != nil {
			return h, fmt.Errorf("decode split history: %w", err)
		}
		for _, c := range codes {
			h.Entries = append(h.Entries, SplitEntry{LotCode: c})
		}
	}

	for _, k := range keys {
		h.Entries = append(h.Entries, UnknownEntry{Key: k, Raw: meta.SystemHistory[k]})
	}
	return h, nil
}

// movements flattens an items map ordered by key so output is stable.
func movements(items map[string]rawMovement, export bool) []Movement {
	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]Movement, 0, len(items))
	for _, k := range keys {
		m := items[k]
		qty := m.Quantity
		if export {
			qty = m.ExportedQuantity
		}
		pid, err := id.Parse(m.ProductID)
		if err != nil {
			pid = id.Nil()
		}
		out = append(out, Movement{
			ProductID:   pid,
			ProductSKU:  m.ProductSKU,
			ProductName: m.ProductName,
			Quantity:    parseQuantity(qty),
			Unit:        strings.TrimSpace(m.Unit),
		})
	}
	return out
}

// parseQuantity accepts JSON numbers and numeric strings; anything else is zero.
func parseQuantity(raw json.RawMessage) types.Quantity {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if s == "" || s == "null" {
		return types.Zero()
	}
	q, err := types.ParseQuantity(s)
	if err != nil {
		return types.Zero()
	}
	return q
}

// Drafts returns the draft inbound and export entries.
func (h History) Drafts() (inbound []InboundEntry, exports []ExportEntry) {
	for _, e := range h.Entries {
		switch v := e.(type) {
		case InboundEntry:
			if v.Draft {
				inbound = append(inbound, v)
			}
		case ExportEntry:
			if v.Draft {
				exports = append(exports, v)
			}
		}
	}
	return inbound, exports
}

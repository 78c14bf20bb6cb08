// Package lots turns physical lot records into per-item stock records, reads
// the movement history kept in lot metadata and computes lot-side balances.
package lots

import (
	"encoding/json"
	"sort"
	"strings"

	"warehub/internal/core/id"
	"warehub/internal/core/types"
)

// StatusActive is the status of lots that still hold stock.
const StatusActive = "active"

// Lot is a physical lot with its items and tags.
type Lot struct {
	ID           id.ID  `db:"id"`
	Code         string `db:"code"`
	Status       string `db:"status"`
	SystemCode   string `db:"system_code"`
	Warehouse    string `db:"warehouse_name"`
	PositionCode string `db:"position_code"`

	// Lot-level product fields, used by lots created before lot items existed.
	ProductID *id.ID          `db:"product_id"`
	Quantity  *types.Quantity `db:"quantity"`
	Unit      string          `db:"unit"`

	Metadata json.RawMessage `db:"metadata"`

	Items []Item `db:"-"`
	Tags  []Tag  `db:"-"`
}

// Item is one product line inside a lot.
type Item struct {
	ID        id.ID          `db:"id"`
	LotID     id.ID          `db:"lot_id"`
	ProductID id.ID          `db:"product_id"`
	Quantity  types.Quantity `db:"quantity"`
	Unit      string         `db:"unit"`
}

// Tag is a free-form tag. Without LotItemID it applies to every item of the lot.
type Tag struct {
	LotID     id.ID  `db:"lot_id"`
	LotItemID *id.ID `db:"lot_item_id"`
	Tag       string `db:"tag"`
}

// Record is the physical quantity of one product in one lot, with the tags that
// apply to it.
type Record struct {
	LotID     id.ID
	LotCode   string
	ProductID id.ID
	Quantity  types.Quantity
	Unit      string
	Tags      []string
	Warehouse string
	Position  string
}

// Records flattens lots into one record per lot item. A lot without items but
// with a lot-level product yields a single record from the lot-level fields.
func Records(lots []Lot) []Record {
	var out []Record
	for _, lot := range lots {
		general, perItem := splitTags(lot.Tags)

		base := Record{
			LotID:     lot.ID,
			LotCode:   lot.Code,
			Warehouse: lot.Warehouse,
			Position:  lot.PositionCode,
		}

		if len(lot.Items) == 0 {
			if lot.ProductID == nil {
				continue
			}
			r := base
			r.ProductID = *lot.ProductID
			r.Quantity = types.Zero()
			if lot.Quantity != nil {
				r.Quantity = *lot.Quantity
			}
			r.Unit = strings.TrimSpace(lot.Unit)
			r.Tags = mergeTags(general, nil)
			out = append(out, r)
			continue
		}

		for _, item := range lot.Items {
			r := base
			r.ProductID = item.ProductID
			r.Quantity = item.Quantity
			r.Unit = strings.TrimSpace(item.Unit)
			r.Tags = mergeTags(general, perItem[item.ID])
			out = append(out, r)
		}
	}
	return out
}

func splitTags(tags []Tag) ([]string, map[id.ID][]string) {
	var general []string
	perItem := make(map[id.ID][]string)
	for _, t := range tags {
		if t.LotItemID == nil {
			general = append(general, t.Tag)
			continue
		}
		perItem[*t.LotItemID] = append(perItem[*t.LotItemID], t.Tag)
	}
	return general, perItem
}

// mergeTags returns the sorted union of both lists, blank tags dropped.
func mergeTags(general, specific []string) []string {
	seen := make(map[string]struct{}, len(general)+len(specific))
	out := make([]string, 0, len(general)+len(specific))
	for _, list := range [][]string{general, specific} {
		for _, t := range list {
			t = strings.TrimSpace(t)
			if t == "" {
				continue
			}
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	sort.Strings(out)
	return out
}

// HasTag reports whether the record carries tag exactly.
func (r Record) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

package lots

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"warehub/internal/core/id"
	"warehub/internal/core/types"
	"warehub/internal/domain/uom"
)

const (
	// VariantSeparator joins the tags of one record into its variant label.
	VariantSeparator = "; "

	// UntaggedVariant labels stock that carries no tag.
	UntaggedVariant = "(untagged)"
)

// Variant is the quantity of a product group held under one tag combination.
type Variant struct {
	Tags     string
	Quantity types.Quantity
}

// ProductGroup is the active lot stock of one product in one display unit.
type ProductGroup struct {
	ProductID   id.ID
	ProductCode string
	ProductName string
	Unit        string

	TotalQuantity types.Quantity

	// IsUnconvertible marks groups kept in their own unit because the
	// requested target could not be reached.
	IsUnconvertible bool

	Variants  []Variant
	LotCodes  []string
	Positions []string
}

// GroupOptions control Group.
type GroupOptions struct {
	// Target converts quantities when set.
	Target *uom.Target

	// Search keeps groups whose code, name or a variant label contains it.
	Search string

	Language language.Tag
}

type groupKey struct {
	product       id.ID
	unit          string
	unconvertible bool
}

// VariantLabel is the label of a record's tag combination.
func VariantLabel(tags []string) string {
	if len(tags) == 0 {
		return UntaggedVariant
	}
	return strings.Join(tags, VariantSeparator)
}

// Group folds records into one group per (product, display unit). With a
// target, convertible records share the target unit and the rest stay in
// their own unit, flagged.
func (c *Calculator) Group(records []Record, opts GroupOptions) []ProductGroup {
	var groups []*ProductGroup
	byKey := make(map[groupKey]*ProductGroup)
	variants := make(map[*ProductGroup]map[string]int)

	for _, r := range records {
		qty, unit, unconvertible := r.Quantity, r.Unit, false
		if opts.Target != nil {
			conv := c.resolver.Convert(r.ProductID, r.Unit, c.catalog.BaseUnit(r.ProductID), r.Quantity, *opts.Target)
			if conv.Unconvertible {
				unconvertible = true
			} else {
				qty, unit = conv.Quantity, opts.Target.Name
			}
		}

		key := groupKey{product: r.ProductID, unit: strings.ToLower(unit), unconvertible: unconvertible}
		g, ok := byKey[key]
		if !ok {
			code, name := c.catalog.Label(r.ProductID, "")
			g = &ProductGroup{
				ProductID:       r.ProductID,
				ProductCode:     code,
				ProductName:     name,
				Unit:            unit,
				TotalQuantity:   types.Zero(),
				IsUnconvertible: unconvertible,
			}
			byKey[key] = g
			variants[g] = make(map[string]int)
			groups = append(groups, g)
		}

		g.TotalQuantity = g.TotalQuantity.Add(qty)
		g.LotCodes = appendUnique(g.LotCodes, r.LotCode)
		g.Positions = appendUnique(g.Positions, strings.TrimSpace(r.Position))

		label := VariantLabel(r.Tags)
		if i, ok := variants[g][label]; ok {
			g.Variants[i].Quantity = g.Variants[i].Quantity.Add(qty)
		} else {
			variants[g][label] = len(g.Variants)
			g.Variants = append(g.Variants, Variant{Tags: label, Quantity: qty})
		}
	}

	col := collate.New(opts.Language, collate.IgnoreCase)
	search := strings.ToLower(strings.TrimSpace(opts.Search))

	out := make([]ProductGroup, 0, len(groups))
	for _, g := range groups {
		if search != "" && !g.matches(search) {
			continue
		}
		sort.Strings(g.Positions)
		sort.SliceStable(g.Variants, func(i, j int) bool {
			return col.CompareString(g.Variants[i].Tags, g.Variants[j].Tags) < 0
		})
		out = append(out, *g)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if n := col.CompareString(a.ProductCode, b.ProductCode); n != 0 {
			return n < 0
		}
		if a.IsUnconvertible != b.IsUnconvertible {
			return !a.IsUnconvertible
		}
		if n := col.CompareString(a.Unit, b.Unit); n != 0 {
			return n < 0
		}
		return id.Less(a.ProductID, b.ProductID)
	})
	return out
}

func (g *ProductGroup) matches(search string) bool {
	if strings.Contains(strings.ToLower(g.ProductCode), search) ||
		strings.Contains(strings.ToLower(g.ProductName), search) {
		return true
	}
	for _, v := range g.Variants {
		if strings.Contains(strings.ToLower(v.Tags), search) {
			return true
		}
	}
	return false
}

func appendUnique(list []string, v string) []string {
	if v == "" {
		return list
	}
	for _, s := range list {
		if s == v {
			return list
		}
	}
	return append(list, v)
}

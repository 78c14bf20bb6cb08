// Package uom converts stock quantities between measurement units.
//
// Every conversion pivots on the product's base unit: a product-specific rate
// states "1 unit = rate base units". Only one hop in (unit to base) and one hop
// out (base to target) are attempted. A quantity that cannot be converted keeps
// its original value and is flagged, it never fails the caller.
package uom

import (
	"strings"

	"warehub/internal/core/id"
	"warehub/internal/core/types"
	"warehub/internal/domain/catalog"
)

// Conversion is the outcome of converting one quantity.
type Conversion struct {
	Quantity types.Quantity

	// Unconvertible is set when a rate was missing or zero.
	// Quantity is then the original, unconverted amount.
	Unconvertible bool
}

// Target is a display unit a report converts into.
// Name labels the converted rows; Aliases are the unit names that address it.
type Target struct {
	Name    string
	Aliases []string
}

// DefaultWeightName is the canonical weight unit label.
const DefaultWeightName = "Kg"

// DefaultWeightAliases are the unit names treated as kilograms.
var DefaultWeightAliases = []string{"kg", "kilogram", "ki-lo-gam", "kgs"}

// DefaultWeightTarget returns the canonical kilogram target.
func DefaultWeightTarget() Target {
	return NewTarget(DefaultWeightName, DefaultWeightAliases)
}

// NewTarget builds a Target. The name always addresses the target itself.
func NewTarget(name string, aliases []string) Target {
	name = strings.TrimSpace(name)
	out := make([]string, 0, len(aliases)+1)
	seen := make(map[string]struct{}, len(aliases)+1)
	for _, a := range append([]string{name}, aliases...) {
		k := normalize(a)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, strings.TrimSpace(a))
	}
	return Target{Name: name, Aliases: out}
}

// TargetFromUnit builds a target addressed by a single unit record.
func TargetFromUnit(u catalog.Unit) Target {
	return NewTarget(u.Name, nil)
}

// Matches reports whether unit addresses the target.
func (t Target) Matches(unit string) bool {
	k := normalize(unit)
	if k == "" {
		return false
	}
	for _, a := range t.Aliases {
		if normalize(a) == k {
			return true
		}
	}
	return false
}

type rateKey struct {
	product id.ID
	unit    id.ID
}

// Resolver answers conversion questions over one catalog snapshot.
// It is immutable after construction.
type Resolver struct {
	unitsByName map[string][]id.ID
	rates       map[rateKey]types.Rate
}

// NewResolver indexes units by normalized name and rates by (product, unit).
// When the same pair appears twice the first rate wins.
func NewResolver(units []catalog.Unit, rates []catalog.ConversionRate) *Resolver {
	r := &Resolver{
		unitsByName: make(map[string][]id.ID, len(units)),
		rates:       make(map[rateKey]types.Rate, len(rates)),
	}
	for _, u := range units {
		k := normalize(u.Name)
		if k == "" {
			continue
		}
		r.unitsByName[k] = append(r.unitsByName[k], u.ID)
	}
	for _, cr := range rates {
		key := rateKey{product: cr.ProductID, unit: cr.UnitID}
		if _, ok := r.rates[key]; !ok {
			r.rates[key] = cr.Rate
		}
	}
	return r
}

// rate returns the direct rate for (product, unit name). Zero rates are
// reported as missing.
func (r *Resolver) rate(productID id.ID, unit string) (types.Rate, bool) {
	for _, unitID := range r.unitsByName[normalize(unit)] {
		if rate, ok := r.rates[rateKey{product: productID, unit: unitID}]; ok {
			if rate.IsZero() {
				return types.Zero(), false
			}
			return rate, true
		}
	}
	return types.Zero(), false
}

// ToBaseAmount converts qty expressed in unit into the product's base unit.
func (r *Resolver) ToBaseAmount(productID id.ID, unit string, qty types.Quantity, baseUnit string) Conversion {
	if sameUnit(unit, baseUnit) {
		return Conversion{Quantity: qty}
	}
	rate, ok := r.rate(productID, unit)
	if !ok {
		return Conversion{Quantity: qty, Unconvertible: true}
	}
	return Conversion{Quantity: qty.Mul(rate)}
}

// BaseToTargetRate returns the multiplier from one base unit to the target.
// The first alias with a direct rate r yields 1/r.
func (r *Resolver) BaseToTargetRate(productID id.ID, baseUnit string, target Target) (types.Rate, bool) {
	if target.Matches(baseUnit) {
		return types.One(), true
	}
	for _, alias := range target.Aliases {
		for _, unitID := range r.unitsByName[normalize(alias)] {
			rate, ok := r.rates[rateKey{product: productID, unit: unitID}]
			if !ok {
				continue
			}
			if rate.IsZero() {
				return types.Zero(), false
			}
			return types.Invert(rate), true
		}
	}
	return types.Zero(), false
}

// Convert moves qty from fromUnit into target via the product's base unit.
// If either hop fails the original quantity is returned flagged.
func (r *Resolver) Convert(productID id.ID, fromUnit, baseUnit string, qty types.Quantity, target Target) Conversion {
	if target.Matches(fromUnit) {
		return Conversion{Quantity: qty}
	}
	base := r.ToBaseAmount(productID, fromUnit, qty, baseUnit)
	if base.Unconvertible {
		return Conversion{Quantity: qty, Unconvertible: true}
	}
	rate, ok := r.BaseToTargetRate(productID, baseUnit, target)
	if !ok {
		return Conversion{Quantity: qty, Unconvertible: true}
	}
	return Conversion{Quantity: types.Multiply(base.Quantity, rate)}
}

func normalize(unit string) string {
	return strings.ToLower(strings.TrimSpace(unit))
}

func sameUnit(a, b string) bool {
	na := normalize(a)
	return na != "" && na == normalize(b)
}

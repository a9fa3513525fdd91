package catalog

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Option is a single product configuration axis with its ordered value
// catalog. The position of a value inside Values defines the index the
// availability encoding refers to.
type Option struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// IndexOf returns the zero-based position of value within the option's
// catalog. The lookup is exact and case-sensitive.
func (o Option) IndexOf(value string) (int, bool) {
	for i, v := range o.Values {
		if v == value {
			return i, true
		}
	}
	return 0, false
}

// Variant is one concrete, sellable combination of option values with its
// own availability flag. Values holds exactly one chosen value per product
// option, in catalog order.
type Variant struct {
	ID        uuid.UUID       `json:"id,omitzero"`
	Values    []string        `json:"values"`
	Price     decimal.Decimal `json:"price,omitzero"`
	Available bool            `json:"available"`
}

// MatchesValues reports whether the variant represents exactly the given
// combination of option values.
func (v Variant) MatchesValues(values []string) bool {
	return slices.Equal(v.Values, values)
}

// Product aggregates everything the availability core needs for one
// storefront product: the option catalog, the per-variant records, and the
// optional encoded availability string produced by the commerce platform.
type Product struct {
	ID                  uuid.UUID `json:"id"`
	Handle              string    `json:"handle"`
	Title               string    `json:"title,omitempty"`
	Options             []Option  `json:"options"`
	Variants            []Variant `json:"variants,omitempty"`
	EncodedAvailability string    `json:"encoded_availability,omitempty"`
	UpdatedAt           time.Time `json:"updated_at,omitzero"`
}

// HasEncodedAvailability reports whether the product carries an encoded
// availability string. Its presence selects the strict decoded-set matcher;
// without it availability falls back to scanning variant records.
func (p *Product) HasEncodedAvailability() bool {
	return p.EncodedAvailability != ""
}

// Option returns the product option with the given name.
func (p *Product) Option(name string) (Option, bool) {
	for _, o := range p.Options {
		if o.Name == name {
			return o, true
		}
	}
	return Option{}, false
}

// Clone returns a deep copy of the product. Sources and caches hand out
// clones so callers can never mutate shared state.
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}

	cp := *p
	if p.Options != nil {
		cp.Options = make([]Option, len(p.Options))
		for i, o := range p.Options {
			cp.Options[i] = Option{Name: o.Name, Values: slices.Clone(o.Values)}
		}
	}
	if p.Variants != nil {
		cp.Variants = make([]Variant, len(p.Variants))
		for i, v := range p.Variants {
			cp.Variants[i] = v
			cp.Variants[i].Values = slices.Clone(v.Values)
		}
	}
	return &cp
}

package availability

import "github.com/dmitrymomot/storekit/pkg/catalog"

// Strategy answers availability for one combination of option values against
// a single product's data. Implementations are cheap to construct per
// product; the expensive state (decoded sets) lives in the shared decoder.
type Strategy interface {
	Available(values []string) (bool, error)
}

// EncodedStrategy matches combinations against the decoded set of a
// product's encoded availability string. Absence from the set is definitive
// unavailability; there is no implicit "assume available" fallback.
type EncodedStrategy struct {
	encoded string
	options []catalog.Option
	decoder *CachedDecoder
}

// NewEncodedStrategy creates the strict decoded-set matcher. A nil decoder
// gets a private one with the default cache capacity.
func NewEncodedStrategy(encoded string, options []catalog.Option, decoder *CachedDecoder) Strategy {
	if decoder == nil {
		decoder = NewCachedDecoder(DefaultCacheCapacity)
	}
	return &EncodedStrategy{encoded: encoded, options: options, decoder: decoder}
}

// Available resolves the combination to an index vector and reports its
// membership in the decoded set. Resolver errors propagate unchanged: an
// unrecognized value is a data mismatch, never "unavailable".
func (s *EncodedStrategy) Available(values []string) (bool, error) {
	indices, err := catalog.ResolveIndices(values, s.options)
	if err != nil {
		return false, err
	}
	return s.decoder.Decode(s.encoded).Contains(IndexVector(indices)), nil
}

// VariantStrategy matches combinations against a product's explicit variant
// records. A record whose values equal the combination answers with its own
// availability flag; without a matching record the combination counts as
// available. This is the lenient policy for products that ship no encoded
// availability string.
type VariantStrategy struct {
	variants []catalog.Variant
}

// NewVariantStrategy creates the brute-force variant scan matcher.
func NewVariantStrategy(variants []catalog.Variant) Strategy {
	return &VariantStrategy{variants: variants}
}

// Available scans the variant records for an exact value match.
func (s *VariantStrategy) Available(values []string) (bool, error) {
	for _, v := range s.variants {
		if v.MatchesValues(values) {
			return v.Available, nil
		}
	}
	return true, nil
}

// StrategyFor selects the availability strategy for a product by which data
// it carries: a non-empty encoded availability string selects the strict
// decoded-set matcher, anything else the variant scan. Selection happens
// once per product; one policy never degrades into the other mid-query.
func StrategyFor(p *catalog.Product, decoder *CachedDecoder) Strategy {
	if p.HasEncodedAvailability() {
		return NewEncodedStrategy(p.EncodedAvailability, p.Options, decoder)
	}
	return NewVariantStrategy(p.Variants)
}

package availability

import "github.com/dmitrymomot/storekit/pkg/catalog"

// Checker is the availability matcher over encoded availability strings: it
// resolves a combination of option values to an index vector, obtains the
// decoded set through its cache, and answers membership.
type Checker struct {
	decoder *CachedDecoder
}

// NewChecker creates a checker backed by the given cached decoder. A nil
// decoder gets a private one with the default cache capacity.
func NewChecker(decoder *CachedDecoder) *Checker {
	if decoder == nil {
		decoder = NewCachedDecoder(DefaultCacheCapacity)
	}
	return &Checker{decoder: decoder}
}

// IsAvailable reports whether the combination of option values is available
// according to the encoded availability string. Absence from the decoded set
// is definitive unavailability. Resolver errors propagate unchanged; an
// unknown value is an error, never "unavailable".
func (c *Checker) IsAvailable(values []string, encoded string, options []catalog.Option) (bool, error) {
	indices, err := catalog.ResolveIndices(values, options)
	if err != nil {
		return false, err
	}
	return c.decoder.Decode(encoded).Contains(IndexVector(indices)), nil
}

// Decoder returns the underlying cached decoder, so callers that also build
// per-product strategies can share its cache.
func (c *Checker) Decoder() *CachedDecoder {
	return c.decoder
}

package catalog

import "fmt"

// ResolveIndices maps a full selection of option values onto their positional
// indices in the product's option catalog. The i-th value is looked up in the
// i-th option, so values must be supplied in catalog order.
//
// Matching is exact and case-sensitive. A value missing from its option's
// catalog yields ErrValueNotFound naming the offending option and value; no
// fallback index is substituted. A selection whose length differs from the
// option count yields ErrOptionCountMismatch.
func ResolveIndices(values []string, options []Option) ([]int, error) {
	if len(values) != len(options) {
		return nil, fmt.Errorf("%w: got %d values for %d options", ErrOptionCountMismatch, len(values), len(options))
	}

	indices := make([]int, len(values))
	for i, value := range values {
		idx, ok := options[i].IndexOf(value)
		if !ok {
			return nil, fmt.Errorf("%w: option %q has no value %q", ErrValueNotFound, options[i].Name, value)
		}
		indices[i] = idx
	}
	return indices, nil
}

// Package catalog defines the product option model a storefront queries
// availability against.
//
// A Product carries an ordered list of Options (configuration axes such as
// Color or Size), each with an ordered list of permissible Values. Value
// order is significant: the position of a value within its option is the
// index the availability encoding refers to, so catalogs must be treated as
// immutable for the lifetime of a product view.
//
// ResolveIndices translates a chosen combination of value strings into
// those positional indices. Lookups are exact and case-sensitive; an
// unknown value is a data-integrity error (ErrValueNotFound), never a
// silent fallback to index 0 or to "unavailable".
//
// Basic usage:
//
//	options := []catalog.Option{
//		{Name: "Color", Values: []string{"Red", "Blue"}},
//		{Name: "Size", Values: []string{"S", "M", "L"}},
//	}
//
//	indices, err := catalog.ResolveIndices([]string{"Blue", "M"}, options)
//	if err != nil {
//		// Handle unknown value or option-count mismatch
//	}
//	// indices == []int{1, 1}
//
// Validate checks the structural integrity of a product before it enters
// the availability pipeline: option names and value lists must be present,
// values must be unique within an option, and every variant record must
// reference one known value per option. The encoded availability string is
// deliberately not validated here; its decoder is lenient by contract.
package catalog

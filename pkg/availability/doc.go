// Package availability answers whether a specific combination of product
// option values corresponds to a purchasable variant, without ever holding
// the full variant list in its hands.
//
// Storefront backends ship a compact encoded availability string per
// product. This package decodes that string once into an explicit set of
// index vectors, memoizes the result in a bounded LRU, and answers
// membership queries in O(1) amortized time.
//
// # Encoding
//
// The encoded string is a sequence of integers separated by four control
// bytes. A colon descends one option dimension, a comma lists sibling values
// under the shared higher-order prefix, a space closes one full combination
// group, and a dash expands a contiguous end-exclusive range:
//
//	"0:0,1 1:0,1 "   -> {[0,0],[0,1],[1,0],[1,1]}
//	"0-3 "           -> {[0],[1],[2]}
//	"0:0-3,5 "       -> {[0,0],[0,1],[0,2],[0,5]}
//
// Decoding is deliberately lenient: empty or non-numeric spans parse as 0
// and nothing ever fails, because existing encoders rely on malformed input
// degrading instead of erroring.
//
// # Usage
//
//	import (
//		"github.com/dmitrymomot/storekit/pkg/availability"
//		"github.com/dmitrymomot/storekit/pkg/catalog"
//	)
//
//	options := []catalog.Option{
//		{Name: "Color", Values: []string{"Red", "Blue"}},
//		{Name: "Size", Values: []string{"S", "M"}},
//	}
//
//	checker := availability.NewChecker(availability.NewCachedDecoder(256))
//	ok, err := checker.IsAvailable([]string{"Red", "M"}, product.EncodedAvailability, options)
//	if err != nil {
//		// Unknown option value: a data mismatch, not "unavailable".
//	}
//
// # Strategies
//
// Two availability policies exist side by side, selected by which data a
// product carries:
//
// EncodedStrategy - strict decoded-set membership; absence means unavailable
// VariantStrategy - linear scan over variant records; no record means available
//
// StrategyFor picks the right one per product. The policies are deliberately
// separate types, never implicit fallback branches of one matcher.
//
// # Concurrency
//
// Decoding is pure computation. The only shared state is the decode cache,
// which is safe for concurrent use; two goroutines racing on the same new
// string at worst decode it twice, and either result is correct.
package availability

package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/storekit/pkg/catalog"
)

func validProduct() *catalog.Product {
	return &catalog.Product{
		Handle: "classic-tee",
		Options: []catalog.Option{
			{Name: "Color", Values: []string{"Red", "Green"}},
			{Name: "Size", Values: []string{"S", "M"}},
		},
		Variants: []catalog.Variant{
			{Values: []string{"Red", "S"}, Available: true},
			{Values: []string{"Green", "M"}, Available: false},
		},
		EncodedAvailability: "0:0,1 1:1 ",
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	t.Run("Valid", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, catalog.Validate(validProduct()))
	})

	t.Run("NoVariants", func(t *testing.T) {
		t.Parallel()
		p := validProduct()
		p.Variants = nil
		require.NoError(t, catalog.Validate(p))
	})

	t.Run("NoOptions", func(t *testing.T) {
		t.Parallel()
		err := catalog.Validate(&catalog.Product{Handle: "gift-card"})
		assert.ErrorIs(t, err, catalog.ErrInvalidProduct)
	})

	t.Run("Nil", func(t *testing.T) {
		t.Parallel()
		err := catalog.Validate(nil)
		assert.ErrorIs(t, err, catalog.ErrInvalidProduct)
	})

	t.Run("EmptyHandle", func(t *testing.T) {
		t.Parallel()
		p := validProduct()
		p.Handle = ""
		assert.ErrorIs(t, catalog.Validate(p), catalog.ErrInvalidProduct)
	})

	t.Run("UnnamedOption", func(t *testing.T) {
		t.Parallel()
		p := validProduct()
		p.Options[0].Name = ""
		assert.ErrorIs(t, catalog.Validate(p), catalog.ErrInvalidProduct)
	})

	t.Run("OptionWithoutValues", func(t *testing.T) {
		t.Parallel()
		p := validProduct()
		p.Options[1].Values = nil
		err := catalog.Validate(p)
		assert.ErrorIs(t, err, catalog.ErrInvalidProduct)
		assert.Contains(t, err.Error(), "Size")
	})

	t.Run("EmptyOptionValue", func(t *testing.T) {
		t.Parallel()
		p := validProduct()
		p.Options[0].Values[1] = ""
		assert.ErrorIs(t, catalog.Validate(p), catalog.ErrInvalidProduct)
	})

	t.Run("DuplicateOptionValue", func(t *testing.T) {
		t.Parallel()
		p := validProduct()
		p.Options[0].Values = []string{"Red", "Red"}
		err := catalog.Validate(p)
		assert.ErrorIs(t, err, catalog.ErrInvalidProduct)
		assert.Contains(t, err.Error(), "duplicate")
	})

	t.Run("VariantArityMismatch", func(t *testing.T) {
		t.Parallel()
		p := validProduct()
		p.Variants[0].Values = []string{"Red"}
		err := catalog.Validate(p)
		assert.ErrorIs(t, err, catalog.ErrInvalidProduct)
		assert.Contains(t, err.Error(), "variant 0")
	})

	t.Run("VariantValueNotInCatalog", func(t *testing.T) {
		t.Parallel()
		p := validProduct()
		p.Variants[1].Values = []string{"Green", "XXL"}
		err := catalog.Validate(p)
		assert.ErrorIs(t, err, catalog.ErrInvalidProduct)
		assert.Contains(t, err.Error(), "XXL")
	})

	t.Run("MalformedEncodingAccepted", func(t *testing.T) {
		t.Parallel()
		// The encoded string is opaque here; decoding tolerates malformed input.
		p := validProduct()
		p.EncodedAvailability = ":::,,,junk"
		require.NoError(t, catalog.Validate(p))
	})
}

package catalog

import "errors"

// Predefined errors for the catalog package.
var (
	// ErrValueNotFound indicates a target value has no exact match in the
	// corresponding option's value catalog. It signals a data-integrity
	// mismatch between the caller's selection and the product's declared
	// catalog and must never be downgraded to "unavailable".
	ErrValueNotFound = errors.New("option value not found in catalog")

	// ErrOptionCountMismatch indicates the number of target values does not
	// equal the number of product options.
	ErrOptionCountMismatch = errors.New("target values do not match option count")

	// ErrInvalidProduct indicates a product failed structural validation.
	ErrInvalidProduct = errors.New("invalid product")
)

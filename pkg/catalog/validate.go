package catalog

import (
	"errors"
	"fmt"
)

// Validate checks a product for structural consistency: a non-empty handle,
// at least one named option with a non-empty value list, no duplicate values
// inside an option, and variant value tuples that match the option count and
// reference cataloged values. The encoded availability string is not
// inspected; decoding tolerates malformed input.
func Validate(p *Product) error {
	if p == nil {
		return errors.Join(ErrInvalidProduct, errors.New("product is nil"))
	}
	if p.Handle == "" {
		return errors.Join(ErrInvalidProduct, errors.New("handle is empty"))
	}
	if len(p.Options) == 0 {
		return errors.Join(ErrInvalidProduct, errors.New("product has no options"))
	}

	for i, opt := range p.Options {
		if opt.Name == "" {
			return errors.Join(ErrInvalidProduct, fmt.Errorf("option %d has no name", i))
		}
		if len(opt.Values) == 0 {
			return errors.Join(ErrInvalidProduct, fmt.Errorf("option %q has no values", opt.Name))
		}

		seen := make(map[string]struct{}, len(opt.Values))
		for _, v := range opt.Values {
			if v == "" {
				return errors.Join(ErrInvalidProduct, fmt.Errorf("option %q contains an empty value", opt.Name))
			}
			if _, dup := seen[v]; dup {
				return errors.Join(ErrInvalidProduct, fmt.Errorf("option %q contains duplicate value %q", opt.Name, v))
			}
			seen[v] = struct{}{}
		}
	}

	for i, variant := range p.Variants {
		if len(variant.Values) != len(p.Options) {
			return errors.Join(ErrInvalidProduct,
				fmt.Errorf("variant %d has %d values for %d options", i, len(variant.Values), len(p.Options)))
		}
		for j, v := range variant.Values {
			if _, ok := p.Options[j].IndexOf(v); !ok {
				return errors.Join(ErrInvalidProduct,
					fmt.Errorf("variant %d value %q not in option %q", i, v, p.Options[j].Name))
			}
		}
	}

	return nil
}

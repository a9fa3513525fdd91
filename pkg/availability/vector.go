package availability

import (
	"slices"
	"strconv"
	"strings"
)

// IndexVector is one concrete combination of option values, expressed as the
// zero-based position of each chosen value within its option's value catalog.
// Two vectors are equal iff they have the same length and pairwise equal
// entries.
type IndexVector []int

// Key returns the canonical comma-joined form of the vector, e.g. "1,0,2".
// Sets use it as the membership key, which turns vector comparison into a
// single map lookup.
func (v IndexVector) Key() string {
	if len(v) == 0 {
		return ""
	}

	var b strings.Builder
	for i, n := range v {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(n))
	}
	return b.String()
}

// Clone returns an independent copy of the vector.
func (v IndexVector) Clone() IndexVector {
	return slices.Clone(v)
}

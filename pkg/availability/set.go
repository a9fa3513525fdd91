package availability

import "slices"

// Set is a collection of index vectors decoded from one encoded availability
// string. It is immutable once built, so a single *Set can be shared freely
// between goroutines and cached without copying.
type Set struct {
	members map[string]IndexVector
}

// NewSet builds a set from explicit vectors. Decode is the usual constructor;
// NewSet serves tests and callers that assemble availability by hand.
func NewSet(vectors ...IndexVector) *Set {
	s := &Set{members: make(map[string]IndexVector, len(vectors))}
	for _, v := range vectors {
		s.add(v)
	}
	return s
}

// add stores an independent snapshot of v. Duplicate keys overwrite, which is
// invisible through the read API.
func (s *Set) add(v IndexVector) {
	c := v.Clone()
	s.members[c.Key()] = c
}

// Contains reports whether the exact vector is a member of the set.
func (s *Set) Contains(v IndexVector) bool {
	return s.ContainsKey(v.Key())
}

// ContainsKey reports membership by canonical key, for callers that already
// hold one.
func (s *Set) ContainsKey(key string) bool {
	_, ok := s.members[key]
	return ok
}

// Len returns the number of distinct vectors in the set.
func (s *Set) Len() int {
	return len(s.members)
}

// Vectors returns the members as independent copies in deterministic
// lexicographic order.
func (s *Set) Vectors() []IndexVector {
	out := make([]IndexVector, 0, len(s.members))
	for _, v := range s.members {
		out = append(out, v.Clone())
	}
	slices.SortFunc(out, slices.Compare)
	return out
}

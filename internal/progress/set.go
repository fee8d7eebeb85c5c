package progress

import "sort"

// Set is an unordered set of string IDs. The zero value is an empty set
// ready to use.
type Set struct {
	ids map[string]struct{}
}

// NewSet returns a set holding the given IDs, duplicates collapsed.
func NewSet(ids ...string) Set {
	var s Set
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Has reports membership.
func (s Set) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Add inserts id and reports whether it was not already present.
func (s *Set) Add(id string) bool {
	if s.Has(id) {
		return false
	}
	if s.ids == nil {
		s.ids = make(map[string]struct{})
	}
	s.ids[id] = struct{}{}
	return true
}

// Len returns the number of IDs.
func (s Set) Len() int {
	return len(s.ids)
}

// Union returns a new set with the members of both sets.
func (s Set) Union(other Set) Set {
	out := s.Clone()
	for id := range other.ids {
		out.Add(id)
	}
	return out
}

// Clone returns an independent copy.
func (s Set) Clone() Set {
	var out Set
	for id := range s.ids {
		out.Add(id)
	}
	return out
}

// Equal reports whether both sets hold the same IDs.
func (s Set) Equal(other Set) bool {
	if s.Len() != other.Len() {
		return false
	}
	for id := range s.ids {
		if !other.Has(id) {
			return false
		}
	}
	return true
}

// Filter returns the members for which keep returns true.
func (s Set) Filter(keep func(id string) bool) Set {
	var out Set
	for id := range s.ids {
		if keep(id) {
			out.Add(id)
		}
	}
	return out
}

// Sorted returns the members in lexical order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

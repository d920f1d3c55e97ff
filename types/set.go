package types

// Set is an unordered collection of unique elements. It is the Go type the
// codec uses for the Set category; a plain map is always a Dictionary.
type Set[T comparable] map[T]struct{}

type setMarker interface{ isSet() }

func (Set[T]) isSet() {}

// NewSet returns a set holding elems.
func NewSet[T comparable](elems ...T) Set[T] {
	s := make(Set[T], len(elems))
	for _, e := range elems {
		s[e] = struct{}{}
	}
	return s
}

// Add inserts e.
func (s Set[T]) Add(e T) { s[e] = struct{}{} }

// Has reports whether e is in the set.
func (s Set[T]) Has(e T) bool {
	_, ok := s[e]
	return ok
}

func (s Set[T]) Len() int { return len(s) }

func (s Set[T]) Delete(e T) { delete(s, e) }

// Slice returns the elements in unspecified order.
func (s Set[T]) Slice() []T {
	out := make([]T, 0, len(s))
	for e := range s {
		out = append(out, e)
	}
	return out
}

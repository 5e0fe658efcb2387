package board

// Set is a deduplicating collection of boards keyed by Board.Hash.
type Set struct {
	m map[uint64]*Board
}

// NewSet returns an empty set.
func NewSet() *Set {
	return &Set{m: make(map[uint64]*Board)}
}

// Add inserts b and reports whether it was not already present.
func (s *Set) Add(b *Board) bool {
	h := b.Hash()
	if _, ok := s.m[h]; ok {
		return false
	}
	s.m[h] = b
	return true
}

// Len returns the number of boards in the set.
func (s *Set) Len() int {
	return len(s.m)
}

// Boards returns the boards in unspecified order.
func (s *Set) Boards() []*Board {
	out := make([]*Board, 0, len(s.m))
	for _, b := range s.m {
		out = append(out, b)
	}
	return out
}

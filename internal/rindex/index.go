// Package rindex maps minitiles back to the macrotiles that step to them.
//
// The index is the reverse of the Life rule at tile granularity: segment s
// holds every Side×Side tile whose forward step equals the minitile s,
// sub-indexed by the constraints each tile satisfies. It is built once by
// exhaustive enumeration and shared read-only by all search workers.
package rindex

import (
	"sort"

	"github.com/hailam/lifeplay/internal/tile"
)

// Segment holds the predecessors of a single minitile: the full list plus
// one sub-list per satisfiable constraint. All lists are sorted ascending
// by live count so the solver visits sparse candidates first.
type Segment struct {
	all []tile.Tile
	m   map[Constraint][]tile.Tile
}

func (s *Segment) push(t tile.Tile, buf []Constraint) {
	s.all = append(s.all, t)
	if s.m == nil {
		s.m = make(map[Constraint][]tile.Tile)
	}
	for _, c := range appendSatisfied(buf[:0], t) {
		s.m[c] = append(s.m[c], t)
	}
}

func (s *Segment) sort() {
	byLiveCount(s.all)
	for _, v := range s.m {
		byLiveCount(v)
	}
}

func byLiveCount(v []tile.Tile) {
	sort.SliceStable(v, func(i, j int) bool {
		return v[i].LiveCount() < v[j].LiveCount()
	})
}

// All returns every tile in the segment.
func (s *Segment) All() []tile.Tile {
	return s.all
}

// Lookup returns the tiles of the segment that additionally satisfy c.
func (s *Segment) Lookup(c Constraint) []tile.Tile {
	return s.m[c]
}

// Index holds one Segment per minitile value.
type Index struct {
	segments []Segment
}

// Compute builds the reverse index by stepping every possible tile. This
// walks the full 2^(Side²) universe once and is the expensive part of
// process startup.
func Compute() *Index {
	segments := make([]Segment, tile.MiniUniverse)
	buf := make([]Constraint, 0, 8)
	for v := 0; v < tile.Universe; v++ {
		t := tile.Tile(v)
		segments[t.Step()].push(t, buf)
	}
	for i := range segments {
		segments[i].sort()
	}
	return &Index{segments: segments}
}

// Segment returns the segment for minitile m.
func (ix *Index) Segment(m tile.Mini) *Segment {
	return &ix.segments[m]
}

package rindex

import "github.com/hailam/lifeplay/internal/tile"

type constraintKind uint8

const (
	edgeKind constraintKind = iota
	neighborKind
)

// Constraint narrows a cell's candidate tiles. An edge constraint states
// that the tile's outer strip on the dir side would die out after a
// forward step; a neighbour constraint states that the tile's overlap band
// toward dir matches a known neighbour tile. Constraints are comparable
// values so segment sub-lists can be keyed on them directly.
type Constraint struct {
	kind constraintKind
	dir  tile.Direction
	// band is the neighbour tile pre-shifted one cell in dir, so that two
	// tiles agreeing on their overlap produce the identical key.
	band tile.Tile
}

// EdgeConstraint requires the tile's outer strip on the dir side to step
// to nothing, so the tile can sit on the dir boundary of the board.
func EdgeConstraint(dir tile.Direction) Constraint {
	return Constraint{kind: edgeKind, dir: dir}
}

// NeighborConstraint requires compatibility with neighbour tile t located
// in direction dir.
func NeighborConstraint(t tile.Tile, dir tile.Direction) Constraint {
	return Constraint{kind: neighborKind, dir: dir, band: dir.Shift(t, 1)}
}

// Matches reports whether tile t satisfies the constraint.
func (c Constraint) Matches(t tile.Tile) bool {
	if c.kind == neighborKind {
		return c.band == c.dir.Shift(c.dir.Rev().Shift(t, 1), 1)
	}
	return c.dir.Rev().Shift(t, tile.Side-2).Step() == 0
}

// appendSatisfied appends every constraint satisfied by t: one edge fact
// per direction whose outer strip steps to nothing, plus the four
// neighbour facts t implies about itself. These are the keys t is filed
// under when the index is built.
func appendSatisfied(dst []Constraint, t tile.Tile) []Constraint {
	for _, dir := range tile.Directions {
		if dir.Rev().Shift(t, tile.Side-2).Step() == 0 {
			dst = append(dst, Constraint{kind: edgeKind, dir: dir})
		}
	}
	for _, dir := range tile.Directions {
		dst = append(dst, Constraint{
			kind: neighborKind,
			dir:  dir,
			band: dir.Shift(dir.Rev().Shift(t, 1), 1),
		})
	}
	return dst
}

// Satisfied returns the satisfied constraint set of t.
func Satisfied(t tile.Tile) []Constraint {
	return appendSatisfied(nil, t)
}

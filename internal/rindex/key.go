package rindex

import "github.com/hailam/lifeplay/internal/tile"

type keyKind uint8

// The zero value of Key must behave as an empty explicit list, so the
// list kind comes first.
const (
	listKey keyKind = iota
	unconstrainedKey
	constrainedKey
)

// Key describes a cell's current candidate domain in the most compact
// shape available: a bare segment reference, a segment sub-list reference,
// or a materialised tile list. The first applied constraint is free (it
// selects a pre-computed sub-list); the second forces materialisation.
type Key struct {
	kind keyKind
	mini tile.Mini
	c    Constraint
	opts []tile.Tile
}

// Unconstrained returns a key whose domain is every predecessor of m.
func Unconstrained(m tile.Mini) Key {
	return Key{kind: unconstrainedKey, mini: m}
}

// One returns a key whose domain is exactly t.
func One(t tile.Tile) Key {
	return Key{kind: listKey, opts: []tile.Tile{t}}
}

// Constrain returns a key whose domain is k's domain intersected with the
// tiles satisfying c.
func (k Key) Constrain(c Constraint, ix *Index) Key {
	var existing []tile.Tile
	switch k.kind {
	case unconstrainedKey:
		return Key{kind: constrainedKey, mini: k.mini, c: c}
	case constrainedKey:
		existing = ix.Segment(k.mini).Lookup(k.c)
	default:
		existing = k.opts
	}
	var opts []tile.Tile
	for _, t := range existing {
		if c.Matches(t) {
			opts = append(opts, t)
		}
	}
	return Key{kind: listKey, opts: opts}
}

// Options returns the effective candidate slice. The returned slice is
// owned by the index (or by the key itself) and must not be modified.
func (k Key) Options(ix *Index) []tile.Tile {
	switch k.kind {
	case unconstrainedKey:
		return ix.Segment(k.mini).All()
	case constrainedKey:
		return ix.Segment(k.mini).Lookup(k.c)
	default:
		return k.opts
	}
}

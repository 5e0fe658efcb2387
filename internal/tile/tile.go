package tile

import (
	"math/bits"
	"strings"
)

// Tile geometry. Side is the macrotile edge length; a forward Life step
// of a Side×Side tile yields a MiniSide×MiniSide minitile. Side 6 and up
// is out of reach: the reverse index enumerates all 2^(Side²) tiles.
const (
	Side     = 5
	MiniSide = Side - 2

	Area     = Side * Side
	MiniArea = MiniSide * MiniSide

	// Universe counts: how many distinct tiles of each size exist.
	Universe     = 1 << Area
	MiniUniverse = 1 << MiniArea
)

// Tile is a Side×Side bit grid packed into a single integer, with bit
// (y*Side + x) holding cell (x, y). Bits at Area and above are always zero.
type Tile uint32

// Mini is the MiniSide×MiniSide forward-step image of a Tile, packed the
// same way. Its integer value doubles as the reverse-index key.
type Mini uint16

// Cell masks, built once at startup so the tile geometry stays a single
// pair of constants.
var (
	areaMask    Tile // the Area valid bits
	notLastCol  Tile // cells with x != Side-1
	notFirstCol Tile // cells with x != 0
	notFirstRow Tile // cells with y != 0
)

func init() {
	for y := 0; y < Side; y++ {
		for x := 0; x < Side; x++ {
			bit := Tile(1) << (y*Side + x)
			areaMask |= bit
			if x != Side-1 {
				notLastCol |= bit
			}
			if x != 0 {
				notFirstCol |= bit
			}
			if y != 0 {
				notFirstRow |= bit
			}
		}
	}
}

// Get returns the cell at (x, y).
func (t Tile) Get(x, y int) bool {
	return t&(1<<(y*Side+x)) != 0
}

// Set returns a copy of t with the cell at (x, y) set.
func (t Tile) Set(x, y int) Tile {
	return t | 1<<(y*Side+x)
}

// LiveCount returns the number of live cells.
func (t Tile) LiveCount() int {
	return bits.OnesCount32(uint32(t))
}

// ShiftLeft moves all cells n columns toward x=0. Cells shifted off the
// grid are dropped. Each single-cell step masks after shifting so that
// column 0 cells, which wrap into the last column of the previous row, are
// cleared.
func (t Tile) ShiftLeft(n int) Tile {
	for ; n > 0; n-- {
		t = (t >> 1) & notLastCol
	}
	return t
}

// ShiftRight moves all cells n columns toward x=Side-1.
func (t Tile) ShiftRight(n int) Tile {
	for ; n > 0; n-- {
		t = (t & notLastCol) << 1
	}
	return t
}

// ShiftUp moves all cells n rows toward y=0.
func (t Tile) ShiftUp(n int) Tile {
	for ; n > 0; n-- {
		t >>= Side
	}
	return t
}

// ShiftDown moves all cells n rows toward y=Side-1.
func (t Tile) ShiftDown(n int) Tile {
	for ; n > 0; n-- {
		t = (t << Side) & areaMask
	}
	return t
}

// Step applies one Life step (B3/S23) to the inner cells of t and returns
// the resulting minitile. Output cell (x, y) corresponds to input cell
// (x+1, y+1); the outer ring only contributes neighbour counts.
func (t Tile) Step() Mini {
	var m Mini
	for y := 0; y < MiniSide; y++ {
		for x := 0; x < MiniSide; x++ {
			n := 0
			for dy := 0; dy < 3; dy++ {
				for dx := 0; dx < 3; dx++ {
					if dx == 1 && dy == 1 {
						continue
					}
					if t.Get(x+dx, y+dy) {
						n++
					}
				}
			}
			if n == 3 || (t.Get(x+1, y+1) && n == 2) {
				m = m.Set(x, y)
			}
		}
	}
	return m
}

// CanBeLeftOf reports whether t may sit one column to the left of u in a
// tiling with Side-1 overlap: the rightmost Side-1 columns of t must equal
// the leftmost Side-1 columns of u.
func (t Tile) CanBeLeftOf(u Tile) bool {
	return t&notFirstCol == u.ShiftRight(1)
}

// CanBeAbove reports whether t may sit one row above u: the bottom Side-1
// rows of t must equal the top Side-1 rows of u.
func (t Tile) CanBeAbove(u Tile) bool {
	return t&notFirstRow == u.ShiftDown(1)
}

// String renders the tile as Side rows of '#' and '.'.
func (t Tile) String() string {
	var sb strings.Builder
	for y := 0; y < Side; y++ {
		for x := 0; x < Side; x++ {
			if t.Get(x, y) {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Get returns the cell at (x, y).
func (m Mini) Get(x, y int) bool {
	return m&(1<<(y*MiniSide+x)) != 0
}

// Set returns a copy of m with the cell at (x, y) set.
func (m Mini) Set(x, y int) Mini {
	return m | 1<<(y*MiniSide+x)
}

// LiveCount returns the number of live cells.
func (m Mini) LiveCount() int {
	return bits.OnesCount16(uint16(m))
}

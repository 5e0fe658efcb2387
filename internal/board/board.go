// Package board implements the dynamically sized Life board: loading from
// ASCII, trimming to a canonical extent, and forward simulation.
package board

import (
	"encoding/binary"
	"fmt"
	"os"
	"strings"

	"github.com/bits-and-blooms/bitset"
	"github.com/cespare/xxhash/v2"
)

// MinSize is the floor for board width and height. Trimming never shrinks
// a board below this, which keeps boards that are translates of the same
// live pattern hashing equal without collapsing to degenerate extents.
const MinSize = 4

// Board is a width×height bit grid with row-major cell storage. The bit
// set length can exceed width*height (bitset rounds to words); width and
// height are authoritative.
type Board struct {
	bits   *bitset.BitSet
	stride int
	height int
}

// New wraps bits with the given dimensions.
func New(bits *bitset.BitSet, stride, height int) *Board {
	return &Board{bits: bits, stride: stride, height: height}
}

// Parse reads one or more boards from ASCII text. Boards are separated by
// blank lines; '#' is a live cell, any other character is dead. All rows
// of a board must share the first row's length.
func Parse(text string) ([]*Board, error) {
	var result []*Board
	for _, record := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n") {
		lines := strings.Split(strings.Trim(record, "\n"), "\n")
		if len(lines) == 1 && lines[0] == "" {
			continue
		}
		stride := len(lines[0])
		bits := bitset.New(uint(stride * len(lines)))
		for y, line := range lines {
			if len(line) != stride {
				return nil, fmt.Errorf("inconsistent line length: row %d has %d cells, want %d", y, len(line), stride)
			}
			for x := 0; x < stride; x++ {
				if line[x] == '#' {
					bits.Set(uint(y*stride + x))
				}
			}
		}
		result = append(result, New(bits, stride, len(lines)))
	}
	return result, nil
}

// Load reads boards from a UTF-8 file at path.
func Load(path string) ([]*Board, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	boards, err := Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return boards, nil
}

// Width returns the board width in cells.
func (b *Board) Width() int {
	return b.stride
}

// Height returns the board height in cells.
func (b *Board) Height() int {
	return b.height
}

// Get returns the cell at (x, y), treating out-of-range coordinates as
// dead. The simulation halo relies on this.
func (b *Board) Get(x, y int) bool {
	if x < 0 || y < 0 || x >= b.stride || y >= b.height {
		return false
	}
	return b.bits.Test(uint(y*b.stride + x))
}

// LiveCount returns the number of live cells.
func (b *Board) LiveCount() int {
	return int(b.bits.Count())
}

// Size returns the area of the bounding box of live cells, or 0 for an
// empty board.
func (b *Board) Size() int {
	x0, y0, x1, y1, ok := b.bbox()
	if !ok {
		return 0
	}
	return (x1 - x0 + 1) * (y1 - y0 + 1)
}

func (b *Board) bbox() (x0, y0, x1, y1 int, ok bool) {
	x0, y0 = b.stride, b.height
	x1, y1 = -1, -1
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.stride; x++ {
			if b.Get(x, y) {
				if x < x0 {
					x0 = x
				}
				if x > x1 {
					x1 = x
				}
				if y < y0 {
					y0 = y
				}
				if y > y1 {
					y1 = y
				}
			}
		}
	}
	return x0, y0, x1, y1, x1 >= 0
}

// Trim removes all-dead border rows and columns until the border is live
// or the MinSize floor is reached, canonicalising the board for
// deduplication. Each dead column or row is taken from the side with more
// dead padding (the trailing side on a tie), so a pattern smaller than the
// floor ends up centred in it.
func (b *Board) Trim() {
	lx, ly, rx, ry, _ := b.bbox()
	x0, x1 := 0, b.stride-1
	y0, y1 := 0, b.height-1
	for x1-x0+1 > MinSize && (x0 < lx || x1 > rx) {
		if x1-rx >= lx-x0 {
			x1--
		} else {
			x0++
		}
	}
	for y1-y0+1 > MinSize && (y0 < ly || y1 > ry) {
		if y1-ry >= ly-y0 {
			y1--
		} else {
			y0++
		}
	}
	if x0 == 0 && y0 == 0 && x1 == b.stride-1 && y1 == b.height-1 {
		return
	}
	w, h := x1-x0+1, y1-y0+1
	bits := bitset.New(uint(w * h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if b.Get(x0+x, y0+y) {
				bits.Set(uint(y*w + x))
			}
		}
	}
	b.bits, b.stride, b.height = bits, w, h
}

// Simulate applies one Life step on a 1-cell halo around the board and
// returns the trimmed result.
func (b *Board) Simulate() *Board {
	w, h := b.stride+2, b.height+2
	bits := bitset.New(uint(w * h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			n := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					if b.Get(x-1+dx, y-1+dy) {
						n++
					}
				}
			}
			if n == 3 || (b.Get(x-1, y-1) && n == 2) {
				bits.Set(uint(y*w + x))
			}
		}
	}
	result := New(bits, w, h)
	result.Trim()
	return result
}

// Equal reports whether two boards have identical extents and cells.
func (b *Board) Equal(o *Board) bool {
	if b.stride != o.stride || b.height != o.height {
		return false
	}
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.stride; x++ {
			if b.Get(x, y) != o.Get(x, y) {
				return false
			}
		}
	}
	return true
}

// Hash returns a 64-bit identity of the board covering extent and cells.
// Boards are deduplicated by this value alone, trusted the way a
// transposition table trusts its 64-bit key.
func (b *Board) Hash() uint64 {
	d := xxhash.New()
	var hdr [8]byte
	binary.LittleEndian.PutUint32(hdr[0:4], uint32(b.stride))
	binary.LittleEndian.PutUint32(hdr[4:8], uint32(b.height))
	d.Write(hdr[:])
	var row []byte
	for y := 0; y < b.height; y++ {
		row = row[:0]
		for x := 0; x < b.stride; x++ {
			if b.Get(x, y) {
				row = append(row, 1)
			} else {
				row = append(row, 0)
			}
		}
		d.Write(row)
	}
	return d.Sum64()
}

// String renders the board as rows of '#' and '.'.
func (b *Board) String() string {
	var sb strings.Builder
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.stride; x++ {
			if b.Get(x, y) {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

package board

import "github.com/bits-and-blooms/bitset"

// Builder accumulates cells for a board of known dimensions.
type Builder struct {
	bits   *bitset.BitSet
	stride int
	height int
}

// NewBuilder returns a builder for a stride×height board, all dead.
func NewBuilder(stride, height int) *Builder {
	return &Builder{
		bits:   bitset.New(uint(stride * height)),
		stride: stride,
		height: height,
	}
}

// Set assigns the cell at (x, y).
func (b *Builder) Set(x, y int, value bool) {
	b.bits.SetTo(uint(y*b.stride+x), value)
}

// Board returns the built board. The builder must not be reused after.
func (b *Builder) Board() *Board {
	return New(b.bits, b.stride, b.height)
}

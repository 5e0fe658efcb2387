// Package engine contains the predecessor search: a per-board CSP solver
// that can be advanced in bounded slices, and the work queue that
// schedules many such solvers across backward depths.
package engine

import (
	"fmt"
	"math"

	"github.com/hailam/lifeplay/internal/board"
	"github.com/hailam/lifeplay/internal/rindex"
	"github.com/hailam/lifeplay/internal/tile"
)

// MRV weight tuning. Every cell starts at InitialWeight; a cell whose
// domain empties out has its weight lowered by WeightAdjust (floor 0) so
// the search stops hammering a locally over-constrained cell.
const (
	InitialWeight = 1000
	WeightAdjust  = 10
)

// lockedPriority marks a cell currently bound to a singleton by the
// search; the variable-selection scan skips it.
const lockedPriority = math.MaxInt

// instruction pointer values for the reified recursion.
type ip uint8

const (
	ipCall ip = iota
	ipLoopStart
	ipLoopMiddle
	ipLoopEnd
	ipReturn
)

// stackFrame is one reified recursion level: the selected cell, its saved
// priority and domain, the option cursor, and the neighbour domains saved
// for symmetric restore.
type stackFrame struct {
	ip       ip
	idx      int
	priority int
	optIndex int
	saved    []rindex.Key
	original rindex.Key
}

type cellState struct {
	key      rindex.Key
	priority int
	weight   int
}

func (c *cellState) recomputePriority(ix *rindex.Index) {
	if c.priority != lockedPriority {
		c.priority = len(c.key.Options(ix)) + c.weight
	}
}

// State is the backtracking solver for one target board. The target is
// tiled with overlapping Side×Side windows, one CSP variable per window;
// recursion is reified as an explicit frame stack so the search can be
// paused after a fixed number of transitions and resumed later.
type State struct {
	cells  []cellState
	stride int
	stack  []stackFrame
	frame  stackFrame
}

// NewState builds the solver grid for b: one cell per (width+3-Side) ×
// (height+3-Side) window, each starting unconstrained on the minitile
// read from the target at that offset, then constrains the border cells
// so predecessor cells poking off the board die within one step.
func NewState(b *board.Board, ix *rindex.Index) *State {
	w := b.Width() + 3 - tile.Side
	h := b.Height() + 3 - tile.Side
	cells := make([]cellState, 0, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var mini tile.Mini
			for dy := 0; dy < tile.MiniSide; dy++ {
				for dx := 0; dx < tile.MiniSide; dx++ {
					if b.Get(x+dx, y+dy) {
						mini = mini.Set(dx, dy)
					}
				}
			}
			key := rindex.Unconstrained(mini)
			cells = append(cells, cellState{
				key:      key,
				priority: len(key.Options(ix)) + InitialWeight,
				weight:   InitialWeight,
			})
		}
	}
	s := &State{
		cells:  cells,
		stride: w,
		stack:  make([]stackFrame, 0, w*h),
	}
	s.clearBorders(ix)
	return s
}

// clearBorders intersects each boundary cell's domain with the matching
// edge constraint. This is what forces a finite predecessor of a finite
// pattern.
func (s *State) clearBorders(ix *rindex.Index) {
	w := s.stride
	h := len(s.cells) / w
	constrain := func(idx int, dir tile.Direction) {
		c := &s.cells[idx]
		c.key = c.key.Constrain(rindex.EdgeConstraint(dir), ix)
		c.recomputePriority(ix)
	}
	for y := 0; y < h; y++ {
		constrain(y*w, tile.Left)
		constrain(y*w+w-1, tile.Right)
	}
	for x := 0; x < w; x++ {
		constrain(x, tile.Up)
		constrain((h-1)*w+x, tile.Down)
	}
}

// IsDone reports whether the search space has been exhausted.
func (s *State) IsDone() bool {
	return s.frame.ip == ipReturn && len(s.stack) == 0
}

// Advance executes up to budget instruction-pointer transitions and adds
// any completed solutions to results. It reports whether at least one
// solution was produced during this slice.
func (s *State) Advance(ix *rindex.Index, results *board.Set, budget int) bool {
	w := s.stride
	h := len(s.cells) / w
	success := false

	for i := 0; i < budget; i++ {
		switch s.frame.ip {
		case ipCall:
			best, bestPriority := 0, s.cells[0].priority
			for idx, cell := range s.cells[1:] {
				if cell.priority < bestPriority {
					best, bestPriority = idx+1, cell.priority
				}
			}
			s.frame.idx, s.frame.priority = best, bestPriority

			if s.frame.priority == lockedPriority {
				// Every cell is a singleton: a full assignment.
				results.Add(s.generateSolution(ix))
				success = true
				s.frame.ip = ipReturn
				continue
			}
			if len(s.cells[s.frame.idx].key.Options(ix)) == 0 {
				cell := &s.cells[s.frame.idx]
				cell.weight -= WeightAdjust
				if cell.weight < 0 {
					cell.weight = 0
				}
				cell.recomputePriority(ix)
				// Dead end under the current neighbourhood.
				s.frame.ip = ipReturn
				continue
			}

			s.cells[s.frame.idx].priority = lockedPriority
			s.frame.ip = ipLoopStart

		case ipLoopStart:
			opt := s.cells[s.frame.idx].key.Options(ix)[s.frame.optIndex]
			s.frame.original = s.cells[s.frame.idx].key
			s.cells[s.frame.idx].key = rindex.One(opt)

			conflicting := false
			for _, dir := range tile.Directions {
				nx := s.frame.idx%w + dir.Dx()
				ny := s.frame.idx/w + dir.Dy()
				if nx < 0 || nx >= w || ny < 0 || ny >= h {
					continue
				}
				n := &s.cells[ny*w+nx]
				newKey := n.key.Constrain(rindex.NeighborConstraint(opt, dir.Rev()), ix)
				if len(newKey.Options(ix)) == 0 {
					conflicting = true
				}
				s.frame.saved = append(s.frame.saved, n.key)
				n.key = newKey
				n.recomputePriority(ix)
			}
			s.frame.ip = ipLoopMiddle
			if !conflicting {
				s.stack = append(s.stack, s.frame)
				s.frame = stackFrame{}
			}

		case ipLoopMiddle:
			si := 0
			for _, dir := range tile.Directions {
				nx := s.frame.idx%w + dir.Dx()
				ny := s.frame.idx/w + dir.Dy()
				if nx < 0 || nx >= w || ny < 0 || ny >= h {
					continue
				}
				n := &s.cells[ny*w+nx]
				n.key = s.frame.saved[si]
				si++
				n.recomputePriority(ix)
			}
			s.frame.saved = s.frame.saved[:0]
			s.cells[s.frame.idx].key = s.frame.original
			s.frame.original = rindex.Key{}

			s.frame.optIndex++
			if s.frame.optIndex < len(s.cells[s.frame.idx].key.Options(ix)) {
				s.frame.ip = ipLoopStart
			} else {
				s.frame.ip = ipLoopEnd
			}

		case ipLoopEnd:
			s.cells[s.frame.idx].priority = s.frame.priority
			s.frame.ip = ipReturn

		case ipReturn:
			if len(s.stack) == 0 {
				return success
			}
			s.frame = s.stack[len(s.stack)-1]
			s.stack = s.stack[:len(s.stack)-1]
		}
	}

	return success
}

// generateSolution stitches the singleton cell assignments into a board.
// The first cell of a row contributes its leading Side-1 columns and each
// later cell one more column; the first row of cells likewise contributes
// its leading Side-1 rows.
func (s *State) generateSolution(ix *rindex.Index) *board.Board {
	w := s.stride + tile.Side - 1
	h := len(s.cells)/s.stride + tile.Side - 1
	out := board.NewBuilder(w, h)

	emitRow := func(cellY, tileY, outY int) {
		row := s.cells[cellY*s.stride : (cellY+1)*s.stride]
		outX := 0
		for x, cell := range row {
			opts := cell.key.Options(ix)
			if len(opts) != 1 {
				panic(fmt.Sprintf("engine: stitching cell (%d,%d) with %d options", x, cellY, len(opts)))
			}
			opt := opts[0]
			if x == 0 {
				for x2 := 0; x2 < tile.Side-1; x2++ {
					out.Set(outX, outY, opt.Get(x2, tileY))
					outX++
				}
			}
			out.Set(outX, outY, opt.Get(tile.Side-1, tileY))
			outX++
		}
	}

	outY := 0
	rows := len(s.cells) / s.stride
	for y := 0; y < rows; y++ {
		if y == 0 {
			for y2 := 0; y2 < tile.Side-1; y2++ {
				emitRow(y, y2, outY)
				outY++
			}
		}
		emitRow(y, tile.Side-1, outY)
		outY++
	}

	result := out.Board()
	result.Trim()
	return result
}

package engine

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hailam/lifeplay/internal/board"
	"github.com/hailam/lifeplay/internal/rindex"
	"github.com/hailam/lifeplay/internal/tile"
)

var (
	indexOnce sync.Once
	testIdx   *rindex.Index
)

// testIndex builds the shared reverse index once per test binary. The
// build walks the whole tile universe, so it is skipped in short mode.
func testIndex(t *testing.T) *rindex.Index {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping full reverse index build in short mode")
	}
	indexOnce.Do(func() { testIdx = rindex.Compute() })
	return testIdx
}

// parseBoard parses a single board and trims it, so solver targets are in
// canonical form.
func parseBoard(t *testing.T, text string) *board.Board {
	t.Helper()
	boards, err := board.Parse(text)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(boards) != 1 {
		t.Fatalf("Parse returned %d boards, want 1", len(boards))
	}
	boards[0].Trim()
	return boards[0]
}

// solveSlices advances s in fixed slices until it has produced minResults
// boards, exhausted its search space, or spent maxSlices slices.
func solveSlices(s *State, ix *rindex.Index, minResults, maxSlices, budget int) *board.Set {
	results := board.NewSet()
	for i := 0; i < maxSlices && results.Len() < minResults && !s.IsDone(); i++ {
		s.Advance(ix, results, budget)
	}
	return results
}

const (
	blockText = "....\n.##.\n.##.\n....\n"

	blinkerText = ".....\n.....\n.###.\n.....\n.....\n"

	gliderText = "......\n..#...\n...#..\n.###..\n......\n......\n"
)

func requireRoundTrip(t *testing.T, results *board.Set, target *board.Board) {
	t.Helper()
	require.NotZero(t, results.Len(), "no predecessors found for\n%s", target)
	for _, r := range results.Boards() {
		require.True(t, r.Simulate().Equal(target),
			"predecessor does not step back to the target:\n%s", r)
	}
}

func TestSolveBlock(t *testing.T) {
	ix := testIndex(t)
	target := parseBoard(t, blockText)
	s := NewState(target, ix)

	results := solveSlices(s, ix, 3, 500, 100_000)
	requireRoundTrip(t, results, target)
}

func TestSolveBlinker(t *testing.T) {
	ix := testIndex(t)
	target := parseBoard(t, blinkerText)
	s := NewState(target, ix)

	results := solveSlices(s, ix, 1, 500, 100_000)
	requireRoundTrip(t, results, target)
}

func TestSolveGlider(t *testing.T) {
	ix := testIndex(t)
	target := parseBoard(t, gliderText)
	s := NewState(target, ix)

	results := solveSlices(s, ix, 1, 500, 100_000)
	requireRoundTrip(t, results, target)
}

func TestSolveRandomBoard(t *testing.T) {
	ix := testIndex(t)

	// A fixed-seed 5x5 board with 8 live cells. Finding nothing inside
	// the slice cap is legitimate; anything found must round-trip.
	rng := rand.New(rand.NewSource(42))
	builder := board.NewBuilder(5, 5)
	placed := make(map[[2]int]bool)
	for len(placed) < 8 {
		x, y := rng.Intn(5), rng.Intn(5)
		if !placed[[2]int{x, y}] {
			placed[[2]int{x, y}] = true
			builder.Set(x, y, true)
		}
	}
	target := builder.Board()
	target.Trim()

	s := NewState(target, ix)
	results := solveSlices(s, ix, 1, 200, 100_000)
	for _, r := range results.Boards() {
		require.True(t, r.Simulate().Equal(target),
			"predecessor does not step back to the target:\n%s", r)
	}
}

func TestAdvanceSliceEquivalence(t *testing.T) {
	ix := testIndex(t)
	target := parseBoard(t, blockText)

	// The solver is a deterministic state machine, so many small slices
	// must traverse exactly the same transitions as one large one.
	const total = 200_000
	sliced := NewState(target, ix)
	slicedResults := board.NewSet()
	for i := 0; i < total/500; i++ {
		sliced.Advance(ix, slicedResults, 500)
	}

	whole := NewState(target, ix)
	wholeResults := board.NewSet()
	whole.Advance(ix, wholeResults, total)

	require.Equal(t, whole.IsDone(), sliced.IsDone())
	require.Equal(t, wholeResults.Len(), slicedResults.Len())
	for _, r := range wholeResults.Boards() {
		found := false
		for _, s := range slicedResults.Boards() {
			if r.Equal(s) {
				found = true
				break
			}
		}
		require.True(t, found, "sliced run missed a solution:\n%s", r)
	}
}

func TestNewStateGridDimensions(t *testing.T) {
	ix := testIndex(t)
	target := parseBoard(t, blinkerText)
	s := NewState(target, ix)
	wantStride := target.Width() + 3 - tile.Side
	require.Equal(t, wantStride, s.stride)
	require.Equal(t, wantStride*(target.Height()+3-tile.Side), len(s.cells))
	require.False(t, s.IsDone(), "fresh state reports done")
}

package engine

import (
	"log"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/hailam/lifeplay/internal/board"
	"github.com/hailam/lifeplay/internal/rindex"
)

// Scheduling tunables.
const (
	// BudgetFactor scales the instruction budget of one solver slice;
	// deeper items get quadratically larger slices.
	BudgetFactor = 2000
	// MaxListLen caps each depth's pending list; the lowest-priority item
	// is evicted when a push overflows it.
	MaxListLen = 1000

	statsInterval = 5 * time.Second
)

// WorkItem is one partial solver plus its scheduling state. step is the
// number of backward Life steps accumulated when the item produces a
// board.
type WorkItem struct {
	state    *State
	step     int
	priority int
}

// computePriority prefers deeper items and, within a depth, sparser
// source boards.
func computePriority(step, liveCount int) int {
	return (step+10)*20 - liveCount
}

func newWorkItem(b *board.Board, ix *rindex.Index, step int) *WorkItem {
	return &WorkItem{
		state:    NewState(b, ix),
		step:     step,
		priority: computePriority(step, b.LiveCount()),
	}
}

// advance runs one slice of the item's solver, then nudges its priority:
// up if the slice produced a board, sharply down if it was fruitless.
func (it *WorkItem) advance(ix *rindex.Index, results *board.Set) {
	if it.state.Advance(ix, results, BudgetFactor*(it.step+1)*(it.step+1)) {
		it.priority++
	} else {
		it.priority -= 15
	}
}

// priorityQueue holds pending items stratified by step, each list sorted
// ascending by priority so the best item is at the tail.
type priorityQueue struct {
	items [][]*WorkItem
}

// push inserts item and reports whether it took a slot; false means the
// depth list was full and the lowest-priority item was evicted to make
// room (possibly the pushed item itself).
func (q *priorityQueue) push(item *WorkItem) bool {
	for len(q.items) <= item.step {
		q.items = append(q.items, nil)
	}
	list := append(q.items[item.step], item)
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].priority < list[j].priority
	})
	if len(list) > MaxListLen {
		list = list[1:]
		q.items[item.step] = list
		return false
	}
	q.items[item.step] = list
	return true
}

// pop removes and returns the best item: from the step whose top priority,
// minus the size of the next deeper list, is highest. The penalty keeps
// one depth from monopolising workers once its successor list is full.
func (q *priorityQueue) pop() *WorkItem {
	bestStep := -1
	bestScore := 0
	for i, list := range q.items {
		if len(list) == 0 {
			continue
		}
		score := list[len(list)-1].priority
		if i+1 < len(q.items) {
			score -= len(q.items[i+1])
		}
		if bestStep < 0 || score >= bestScore {
			bestStep, bestScore = i, score
		}
	}
	if bestStep < 0 {
		return nil
	}
	list := q.items[bestStep]
	item := list[len(list)-1]
	q.items[bestStep] = list[:len(list)-1]
	return item
}

func (q *priorityQueue) empty() bool {
	for _, list := range q.items {
		if len(list) > 0 {
			return false
		}
	}
	return true
}

type seenKey struct {
	step int
	hash uint64
}

// Observer is notified under the observer lock whenever a board is first
// seen at a new best depth. Implementations must be fast or fail soft;
// errors are logged, never propagated into the search.
type Observer interface {
	ObserveBest(step int, b *board.Board)
}

// WorkQueue schedules partial solvers across backward depths. The pending
// queue and its counters live behind one mutex; the seen-board observer
// state lives behind a second. No worker holds both at once.
type WorkQueue struct {
	index      *rindex.Index
	targetStep int

	mu             sync.Mutex
	cond           *sync.Cond
	heap           priorityQueue
	itemCount      int
	processedCount int
	terminated     bool

	stateMu         sync.Mutex
	seen            map[seenKey]*board.Board
	completedCounts []int
	bestStep        int

	done     chan struct{}
	doneOnce sync.Once

	observers []Observer
}

// NewWorkQueue creates a queue targeting the given backward depth. The
// index is shared read-only by all workers.
func NewWorkQueue(ix *rindex.Index, targetStep int) *WorkQueue {
	q := &WorkQueue{
		index:      ix,
		targetStep: targetStep,
		seen:       make(map[seenKey]*board.Board),
		done:       make(chan struct{}),
	}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// AddObserver registers an observer for new best-depth boards. Must be
// called before Start.
func (q *WorkQueue) AddObserver(o Observer) {
	q.observers = append(q.observers, o)
}

// Start enqueues one depth-0 solver per target board and launches the
// workers: one, or one per CPU when parallel is set.
func (q *WorkQueue) Start(boards []*board.Board, parallel bool) {
	for _, b := range boards {
		q.addItem(newWorkItem(b, q.index, 0))
	}
	workers := 1
	if parallel {
		workers = runtime.NumCPU()
	}
	for i := 0; i < workers; i++ {
		go q.run()
	}
}

// takeItem blocks until an item is available or the queue is finished.
// It returns nil when the worker should exit.
func (q *WorkQueue) takeItem() *WorkItem {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.heap.empty() && q.itemCount > 0 && !q.terminated {
		q.cond.Wait()
	}
	if q.itemCount == 0 || q.terminated {
		return nil
	}
	return q.heap.pop()
}

func (q *WorkQueue) addItem(item *WorkItem) {
	q.mu.Lock()
	if q.heap.push(item) {
		q.itemCount++
	}
	q.mu.Unlock()
	q.cond.Signal()
}

func (q *WorkQueue) recordCompleted(step int) {
	q.stateMu.Lock()
	defer q.stateMu.Unlock()
	for len(q.completedCounts) <= step {
		q.completedCounts = append(q.completedCounts, 0)
	}
	q.completedCounts[step]++
}

// completeItem retires one processed item; the last retirement terminates
// the queue.
func (q *WorkQueue) completeItem() {
	q.mu.Lock()
	q.processedCount++
	if q.itemCount > 0 {
		q.itemCount--
		if q.itemCount == 0 {
			q.terminated = true
			q.cond.Broadcast()
			q.signalDone()
		}
	}
	q.mu.Unlock()
}

func (q *WorkQueue) terminate() {
	q.mu.Lock()
	q.terminated = true
	q.mu.Unlock()
	q.cond.Broadcast()
	q.signalDone()
}

func (q *WorkQueue) signalDone() {
	q.doneOnce.Do(func() { close(q.done) })
}

// observe records a (step, board) sighting and reports whether it is new.
// The first board at each new best depth is printed with its forward
// simulations back down to the target, and handed to the observers.
// Callers must hold stateMu.
func (q *WorkQueue) observe(step int, b *board.Board) bool {
	if step > q.bestStep {
		q.bestStep = step
		log.Printf("new best depth %d:\n%s", step, b)
		sim := b.Simulate()
		for i := 0; i < step; i++ {
			log.Printf("\n%s", sim)
			sim = sim.Simulate()
		}
		for _, o := range q.observers {
			o.ObserveBest(step, b)
		}
	}
	key := seenKey{step: step, hash: b.Hash()}
	if _, ok := q.seen[key]; ok {
		return false
	}
	q.seen[key] = b
	return true
}

// run is one worker's loop: pop the best item, advance it one slice,
// route any new predecessor boards one level deeper, and re-enqueue the
// item unless its search space is exhausted.
func (q *WorkQueue) run() {
	for {
		item := q.takeItem()
		if item == nil {
			return
		}

		results := board.NewSet()
		item.advance(q.index, results)

		var fresh []*board.Board
		if results.Len() > 0 {
			q.stateMu.Lock()
			for _, b := range results.Boards() {
				if q.observe(item.step+1, b) {
					fresh = append(fresh, b)
				}
			}
			q.stateMu.Unlock()

			if item.step+1 == q.targetStep {
				q.terminate()
				return
			}
		}

		for _, b := range fresh {
			q.addItem(newWorkItem(b, q.index, item.step+1))
		}

		if item.state.IsDone() {
			q.recordCompleted(item.step)
		} else {
			q.addItem(item)
		}
		q.completeItem()
	}
}

// Wait blocks until the queue terminates, printing queue statistics every
// few seconds for the operator.
func (q *WorkQueue) Wait() {
	ticker := time.NewTicker(statsInterval)
	defer ticker.Stop()
	for {
		select {
		case <-q.done:
			q.printStats()
			return
		case <-ticker.C:
			q.printStats()
		}
	}
}

// BestStep returns the deepest depth at which a predecessor was observed.
func (q *WorkQueue) BestStep() int {
	q.stateMu.Lock()
	defer q.stateMu.Unlock()
	return q.bestStep
}

// Found returns the deduplicated boards observed at the given depth.
func (q *WorkQueue) Found(step int) []*board.Board {
	q.stateMu.Lock()
	defer q.stateMu.Unlock()
	var out []*board.Board
	for key, b := range q.seen {
		if key.step == step {
			out = append(out, b)
		}
	}
	return out
}

// Processed returns the number of solver slices completed so far.
func (q *WorkQueue) Processed() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.processedCount
}

func (q *WorkQueue) printStats() {
	q.mu.Lock()
	itemCount := q.itemCount
	processed := q.processedCount
	queueCounts := make([]int, len(q.heap.items))
	priorities := make([]int, len(q.heap.items))
	for i, list := range q.heap.items {
		queueCounts[i] = len(list)
		if len(list) > 0 {
			priorities[i] = list[len(list)-1].priority
		}
	}
	q.mu.Unlock()

	q.stateMu.Lock()
	found := make([]int, q.bestStep+1)
	for key := range q.seen {
		if key.step < len(found) {
			found[key.step]++
		}
	}
	completed := append([]int(nil), q.completedCounts...)
	q.stateMu.Unlock()

	log.Printf("%d active items... (%d processed)\n    Queue: %v\n    Priorities: %v\n    Found: %v\n    Complete: %v",
		itemCount, processed, queueCounts, priorities, found, completed)
}

package pexplore

import (
	"sync"
	"sync/atomic"

	"github.com/ariadne-cps/pexplore/searchspace"
	"github.com/ariadne-cps/pexplore/workerpool"
)

// TaskManager is the process-wide registry of per-step score history, plus
// a concurrency knob that proxies straight through to the worker pool
// shared by every Runnable it manages. SPEC_FULL.md's C7: rather than a
// true global singleton (which would make tests unable to reset history
// between runs, see DESIGN.md), it is an explicit value a caller
// constructs once and injects into every Runnable that should share its
// history and concurrency knob.
type TaskManager[P any] struct {
	pool *workerpool.Pool

	mu     sync.Mutex
	scores map[uint64][][]PointScore[P]
	nextID atomic.Uint64
}

// NewTaskManager builds a TaskManager backed by pool. A nil pool is
// replaced with a new pool defaulted to MaxConcurrency.
func NewTaskManager[P any](pool *workerpool.Pool) *TaskManager[P] {
	if pool == nil {
		pool = workerpool.New(0)
	}
	return &TaskManager[P]{pool: pool, scores: make(map[uint64][][]PointScore[P])}
}

// Concurrency returns the pool's current concurrency limit.
func (m *TaskManager[P]) Concurrency() int { return m.pool.Concurrency() }

// SetConcurrency sets the pool's concurrency limit. Set to 1 to force
// every Runnable sharing this manager onto the sequential runner; set to
// k > 1 to enable parametric-parallel selection over up to k candidate
// points per step. A non-positive n is a programming error: SetConcurrency
// panics with a *PreconditionViolation.
func (m *TaskManager[P]) SetConcurrency(n int) {
	if n <= 0 {
		panic(&PreconditionViolation{Reason: "concurrency must be positive"})
	}
	m.pool.SetConcurrency(n)
}

// workerPool exposes the underlying worker pool to Runnable, within this
// package only.
func (m *TaskManager[P]) workerPool() *workerpool.Pool { return m.pool }

// register allocates a fresh runner identity, under which this manager
// will key that runner's score history.
func (m *TaskManager[P]) register() uint64 {
	return m.nextID.Add(1)
}

// appendStep records one step's list of per-candidate PointScores under
// runner id. Called by the parametric-parallel runner only; the
// sequential runner never produces a score list.
func (m *TaskManager[P]) appendStep(id uint64, step []PointScore[P]) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scores[id] = append(m.scores[id], step)
}

// Scores returns runner id's step-wise score history: one entry per step
// that performed a selection, itself a list of per-candidate PointScores.
// The returned slices must not be mutated by the caller.
func (m *TaskManager[P]) Scores(id uint64) [][]PointScore[P] {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scores[id]
}

// ClearScores discards every runner's score history. Scores accumulate
// for the lifetime of the process (or rather, of this TaskManager value)
// until this is called; there is no other form of persistence.
func (m *TaskManager[P]) ClearScores() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scores = make(map[uint64][][]PointScore[P])
}

// PointManager is the concrete TaskManager instantiation shared by every
// Runnable in this package: search points always come from the
// searchspace reference implementation.
type PointManager = TaskManager[searchspace.Point]

// NewPointManager is a convenience constructor for the common case of a
// TaskManager over searchspace.Point.
func NewPointManager(pool *workerpool.Pool) *PointManager {
	return NewTaskManager[searchspace.Point](pool)
}

// Package workerpool provides the bounded-concurrency worker pool that
// pExplore's parametric-parallel task runner fans candidate evaluations out
// to. It stands in for the "generic thread manager" that spec.md treats as
// an external collaborator: a pool whose concurrency can be adjusted at
// runtime, shared by every runner that asks for one.
package workerpool

import (
	"context"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Pool runs batches of jobs with a concurrency limit that may be changed
// between batches. It is safe for concurrent use.
type Pool struct {
	concurrency atomic.Int64
}

// New constructs a Pool with the given initial concurrency. A
// non-positive value is treated as MaxConcurrency().
func New(concurrency int) *Pool {
	p := new(Pool)
	if concurrency <= 0 {
		concurrency = MaxConcurrency()
	}
	p.concurrency.Store(int64(concurrency))
	return p
}

// MaxConcurrency reports the number of logical CPUs available, used as
// the default "maximum" concurrency a caller may opt into.
func MaxConcurrency() int {
	return runtime.GOMAXPROCS(0)
}

// Concurrency returns the current concurrency limit.
func (p *Pool) Concurrency() int {
	return int(p.concurrency.Load())
}

// SetConcurrency changes the concurrency limit applied to subsequent calls
// to Run. It panics if n is not positive, mirroring the source's
// precondition that concurrency is never zero or negative.
func (p *Pool) SetConcurrency(n int) {
	if n <= 0 {
		panic(`workerpool: concurrency must be positive`)
	}
	p.concurrency.Store(int64(n))
}

// Run executes jobs with the pool's current concurrency limit, blocking
// until all jobs have returned; cancelling ctx cancels the context passed
// to the jobs but does not make Run return before they do. If any job
// returns a non-nil error, Run cancels the jobs' context and returns the
// first such error; already-running jobs are expected to respect ctx. Run never
// partially applies a batch's results: callers should not look at
// individual job output unless Run returns nil.
func (p *Pool) Run(ctx context.Context, jobs ...func(ctx context.Context) error) error {
	g, gctx := errgroup.WithContext(ctx)
	if n := p.Concurrency(); n > 0 {
		g.SetLimit(n)
	}
	for _, job := range jobs {
		job := job
		g.Go(func() error { return job(gctx) })
	}
	return g.Wait()
}

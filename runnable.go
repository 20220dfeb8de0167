package pexplore

import (
	"context"
	"errors"
	"sync"

	"github.com/ariadne-cps/pexplore/searchspace"
	"github.com/ariadne-cps/pexplore/workerpool"
)

// ErrRunnableClosed is returned by Push and Pull once Close has been
// called.
var ErrRunnableClosed = errors.New(`pexplore: runnable closed`)

// RunnableConfig models optional configuration for NewRunnable, in the
// teacher's explicit-configuration-record idiom (see microbatch.BatcherConfig):
// no variadic keyword arguments, every field except Manager defaulted.
type RunnableConfig[In, Out, C any] struct {
	// Manager supplies the score history and the concurrency knob shared
	// across every Runnable built against it. Required: NewRunnable panics
	// if nil.
	Manager *PointManager

	// Logger overrides the package default structured logger.
	Logger *Logger
}

// Runnable is the external entry point driving a task body through
// repeated steps (SPEC_FULL.md's C5/C6): it carries the task's
// configuration search space and constructs a runner (sequential or
// parametric-parallel, chosen dynamically from its TaskManager's current
// concurrency) on demand. Push and Pull are the only call surface for
// driving steps, per SPEC_FULL.md §7.
type Runnable[In, Out, C any] struct {
	task    TaskFunc[In, Out, C]
	space   *searchspace.Space[C]
	manager *PointManager
	runner  uint64
	logger  *Logger

	mu           sync.Mutex
	constraining *ConstrainingState[In, Out]
	currentPoint searchspace.Point
	pushed       bool

	inCh   chan In
	outCh  chan stepResult[Out]
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

type stepResult[Out any] struct {
	out Out
	err error
}

// NewRunnable builds a Runnable over task and space, with an initially
// empty constraining state (equivalent to set_constraints(nil)).
// config.Manager must be set: NewRunnable panics if it is nil, as it does
// for a nil task or space.
func NewRunnable[In, Out, C any](task TaskFunc[In, Out, C], space *searchspace.Space[C], config RunnableConfig[In, Out, C]) *Runnable[In, Out, C] {
	if task == nil {
		panic(`pexplore: NewRunnable: nil task`)
	}
	if space == nil {
		panic(`pexplore: NewRunnable: nil space`)
	}
	if config.Manager == nil {
		panic(`pexplore: NewRunnable: nil manager`)
	}
	logger := config.Logger
	if logger == nil {
		logger = defaultLogger
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := &Runnable[In, Out, C]{
		task:         task,
		space:        space,
		manager:      config.Manager,
		runner:       config.Manager.register(),
		logger:       logger,
		constraining: NewConstrainingState[In, Out](nil),
		currentPoint: space.InitialPoint(),
		inCh:         make(chan In),
		outCh:        make(chan stepResult[Out]),
		ctx:          ctx,
		cancel:       cancel,
		done:         make(chan struct{}),
	}
	go r.loop()
	return r
}

// SetConstraints replaces the constraining state with a fresh, all-active
// sequence built from constraints.
// Safe to call between steps; concurrent calls during an in-flight step
// race with that step's own reads and are the caller's responsibility to
// serialise (mirrors the original source's single-owner-fiber discipline,
// SPEC_FULL.md §6).
func (r *Runnable[In, Out, C]) SetConstraints(constraints []*Constraint[In, Out]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.constraining = NewConstrainingState[In, Out](constraints)
}

// SetInitialPoint overrides the search space's default initial point.
// Rejected once the first input has been pushed (SPEC_FULL.md §4.5).
func (r *Runnable[In, Out, C]) SetInitialPoint(p searchspace.Point) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pushed {
		return &PreconditionViolation{Reason: "set_initial_point after first push"}
	}
	r.currentPoint = p
	return nil
}

// Scores returns this runner's step-wise score history.
func (r *Runnable[In, Out, C]) Scores() [][]PointScore[searchspace.Point] {
	return r.manager.Scores(r.runner)
}

// Push delivers in to the runner for its next step, blocking until the
// runner is ready to accept it (at most one input is ever pending). It
// returns ctx.Err() if ctx is cancelled first, or ErrRunnableClosed if
// Close has been called.
func (r *Runnable[In, Out, C]) Push(ctx context.Context, in In) error {
	select {
	case r.inCh <- in:
		r.mu.Lock()
		r.pushed = true
		r.mu.Unlock()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-r.done:
		return ErrRunnableClosed
	}
}

// Pull blocks until the output of the most recently pushed step is
// available, and returns it. Pushes and pulls are strictly FIFO and
// one-to-one from the caller's perspective (SPEC_FULL.md §4.5).
func (r *Runnable[In, Out, C]) Pull(ctx context.Context) (Out, error) {
	var zero Out
	select {
	case res := <-r.outCh:
		return res.out, res.err
	case <-ctx.Done():
		return zero, ctx.Err()
	case <-r.done:
		return zero, ErrRunnableClosed
	}
}

// Close stops the runner's background loop. Any in-flight step is
// abandoned; a task body has no cancellation hook below the pool's
// context.
func (r *Runnable[In, Out, C]) Close() {
	r.cancel()
	<-r.done
}

func (r *Runnable[In, Out, C]) loop() {
	defer close(r.done)
	for {
		select {
		case <-r.ctx.Done():
			return
		case in := <-r.inCh:
			out, err := r.step(r.ctx, in)
			select {
			case r.outCh <- stepResult[Out]{out: out, err: err}:
			case <-r.ctx.Done():
				return
			}
		}
	}
}

func (r *Runnable[In, Out, C]) step(ctx context.Context, in In) (Out, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.manager.Concurrency() <= 1 {
		return r.stepSequential(ctx, in)
	}
	return r.stepParallel(ctx, in)
}

// stepSequential implements SPEC_FULL.md §4.4: the current point never
// moves, and no candidate selection is performed.
func (r *Runnable[In, Out, C]) stepSequential(_ context.Context, in In) (Out, error) {
	var zero Out
	cfg := r.space.MakeConfiguration(r.currentPoint)
	out, err := r.task(in, cfg)
	if err != nil {
		return zero, &TaskBodyFailure{Err: err}
	}
	if !r.constraining.HasNoActiveConstraints() {
		if _, err := r.constraining.UpdateFrom(in, out); err != nil {
			return zero, err
		}
	}
	return out, nil
}

type candidateResult[Out any] struct {
	point    searchspace.Point
	out      Out
	score    ConstraintScore
	hasScore bool
}

// stepParallel implements SPEC_FULL.md §4.5. When no constraints have ever
// been configured, it degenerates permanently to the single current point
// (SPEC_FULL.md §9 scenarios 4 & 5: outputs never vary, no scores are
// recorded, and no error can occur). When constraints exist but all have
// deactivated (e.g. via a hard-failure cascade), it still attempts to
// score every candidate — which raises NoActiveConstraintsError, ending
// the run (SPEC_FULL.md §9 scenario 1). This distinction resolves an
// internal inconsistency between spec.md §4.5's prose (which reads as if
// any zero-active state degrades silently) and spec.md §8 scenario 1
// (which pins an error in exactly this situation); see DESIGN.md.
func (r *Runnable[In, Out, C]) stepParallel(ctx context.Context, in In) (Out, error) {
	var zero Out

	hasConstraints := len(r.constraining.States()) > 0

	candidates := []searchspace.Point{r.currentPoint}
	if hasConstraints {
		limit := r.manager.Concurrency()
		for _, n := range r.space.ShiftOne(r.currentPoint) {
			if len(candidates) >= limit {
				break
			}
			candidates = append(candidates, n)
		}
	}

	results := make([]candidateResult[Out], len(candidates))
	jobs := make([]func(context.Context) error, len(candidates))
	for i, p := range candidates {
		i, p := i, p
		jobs[i] = func(ctx context.Context) error {
			cfg := r.space.MakeConfiguration(p)
			out, err := r.task(in, cfg)
			if err != nil {
				return &TaskBodyFailure{Err: err}
			}
			results[i].point = p
			results[i].out = out
			if hasConstraints {
				ps, err := EvaluateAt(r.constraining, p, in, out)
				if err != nil {
					return err
				}
				results[i].score = ps.Score
				results[i].hasScore = true
			}
			return nil
		}
	}

	if err := r.manager.workerPool().Run(ctx, jobs...); err != nil {
		return zero, err
	}

	chosenIdx := 0
	if hasConstraints {
		for i := 1; i < len(results); i++ {
			if results[i].score.Less(results[chosenIdx].score) {
				chosenIdx = i
			}
		}
		pointScores := make([]PointScore[searchspace.Point], len(results))
		for i, res := range results {
			pointScores[i] = PointScore[searchspace.Point]{Point: res.point, Score: res.score}
		}
		r.manager.appendStep(r.runner, pointScores)
	}

	chosen := results[chosenIdx]
	if _, err := r.constraining.UpdateFrom(in, chosen.out); err != nil {
		return zero, err
	}
	r.currentPoint = chosen.point

	r.logger.Info().
		Int(`candidates`, len(candidates)).
		Int(`chosen_index`, chosenIdx).
		Log(`step selected candidate`)

	return chosen.out, nil
}

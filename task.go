package pexplore

// TaskFunc is the user-supplied task body: a pure function from an Input
// and a materialised Configuration to an Output (or an error, aborting the
// current step as a TaskBodyFailure). It is the one piece of domain logic
// this package never provides.
//
// Output types may embed lazy.Value fields for expensive results that
// should only be computed if a constraint's robustness function actually
// reads them (SPEC_FULL.md §5).
type TaskFunc[In, Out, C any] func(in In, cfg C) (Out, error)

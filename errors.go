package pexplore

import "fmt"

// NoActiveConstraintsError is raised by ConstrainingState.Evaluate when
// every constraint has deactivated. It carries a snapshot of the
// constraint states at the time of the call, for diagnostics.
type NoActiveConstraintsError struct {
	// Snapshot is the constraint-state sequence at the time evaluation was
	// attempted, in construction order.
	Snapshot []ConstraintStateSnapshot
}

// Error implements error.
func (e *NoActiveConstraintsError) Error() string {
	return fmt.Sprintf("pexplore: evaluate: no active constraints (of %d)", len(e.Snapshot))
}

// InvalidConstraintConfigError is returned by a Constraint builder's Build
// method when the descriptor under construction is invalid (e.g. a nil
// robustness function, or an unrecognised flag value).
type InvalidConstraintConfigError struct {
	Reason string
}

// Error implements error.
func (e *InvalidConstraintConfigError) Error() string {
	return "pexplore: invalid constraint config: " + e.Reason
}

// TaskBodyFailure wraps an error raised by a user-supplied task body. It
// aborts the current step; the constraining state is left unchanged.
type TaskBodyFailure struct {
	Err error
}

// Error implements error.
func (e *TaskBodyFailure) Error() string {
	return "pexplore: task body failed: " + e.Err.Error()
}

// Unwrap supports errors.Is/errors.As against the underlying task error.
func (e *TaskBodyFailure) Unwrap() error { return e.Err }

// PreconditionViolation signals caller misuse that is a programming error
// rather than a recoverable runtime condition: calling SetInitialPoint
// after the first push (returned as an error), or setting a non-positive
// concurrency through TaskManager.SetConcurrency (raised as a panic).
type PreconditionViolation struct {
	Reason string
}

// Error implements error.
func (e *PreconditionViolation) Error() string {
	return "pexplore: precondition violated: " + e.Reason
}

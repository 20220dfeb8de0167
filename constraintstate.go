package pexplore

// ConstraintState is the mutable runtime counterpart of a Constraint:
// whether it is still active, and whether it has ever succeeded or failed.
// It is mutated only by ConstrainingState.UpdateFrom.
type ConstraintState[In, Out any] struct {
	constraint *Constraint[In, Out]
	active     bool
	succeeded  bool
	failed     bool
}

func newConstraintState[In, Out any](c *Constraint[In, Out]) *ConstraintState[In, Out] {
	return &ConstraintState[In, Out]{constraint: c, active: true}
}

// Constraint returns the underlying immutable descriptor.
func (s *ConstraintState[In, Out]) Constraint() *Constraint[In, Out] { return s.constraint }

// Active reports whether this constraint still participates in
// evaluation.
func (s *ConstraintState[In, Out]) Active() bool { return s.active }

// Succeeded reports whether this constraint has ever satisfied its
// success condition.
func (s *ConstraintState[In, Out]) Succeeded() bool { return s.succeeded }

// Failed reports whether this constraint has ever satisfied its failure
// condition.
func (s *ConstraintState[In, Out]) Failed() bool { return s.failed }

// ConstraintStateSnapshot is a read-only, type-erased view of one
// ConstraintState, used by NoActiveConstraintsError for diagnostics
// without leaking the generic In/Out parameters into the error type.
type ConstraintStateSnapshot struct {
	Name      string
	GroupID   int
	Active    bool
	Succeeded bool
	Failed    bool
}

func snapshotOf[In, Out any](s *ConstraintState[In, Out]) ConstraintStateSnapshot {
	return ConstraintStateSnapshot{
		Name:      s.constraint.Name(),
		GroupID:   s.constraint.GroupID(),
		Active:    s.active,
		Succeeded: s.succeeded,
		Failed:    s.failed,
	}
}

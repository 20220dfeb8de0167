package pexplore

import "math"

// ConstrainingState is the ordered sequence of ConstraintStates backing one
// runner: construction order is the canonical index used by every Score
// set. It evaluates (input, output) pairs into scores and evolves the
// active/succeeded/failed flags as steps execute.
type ConstrainingState[In, Out any] struct {
	states               []*ConstraintState[In, Out]
	numActiveConstraints int
}

// NewConstrainingState builds a fresh, all-active ConstrainingState from an
// ordered list of constraints. This is also what Runnable.SetConstraints
// does internally: replacing the constraining state resets every
// constraint to active.
func NewConstrainingState[In, Out any](constraints []*Constraint[In, Out]) *ConstrainingState[In, Out] {
	states := make([]*ConstraintState[In, Out], len(constraints))
	for i, c := range constraints {
		states[i] = newConstraintState(c)
	}
	return &ConstrainingState[In, Out]{states: states, numActiveConstraints: len(states)}
}

// NumActiveConstraints returns the number of constraints currently active.
// Invariant: always equal to the count of states with Active() true.
func (cs *ConstrainingState[In, Out]) NumActiveConstraints() int {
	return cs.numActiveConstraints
}

// HasNoActiveConstraints is a boolean shortcut used to skip scoring
// entirely.
func (cs *ConstrainingState[In, Out]) HasNoActiveConstraints() bool {
	return cs.numActiveConstraints == 0
}

// States returns the constraint states in construction order. The slice
// and its elements must be treated as read-only by callers other than
// UpdateFrom; workers evaluating candidates concurrently only ever read
// through this slice (see Evaluate), never mutate it.
func (cs *ConstrainingState[In, Out]) States() []*ConstraintState[In, Out] {
	return cs.states
}

func (cs *ConstrainingState[In, Out]) snapshot() []ConstraintStateSnapshot {
	out := make([]ConstraintStateSnapshot, len(cs.states))
	for i, s := range cs.states {
		out[i] = snapshotOf(s)
	}
	return out
}

// Evaluate scores one (input, output) pair against every currently active
// constraint. update controls whether each constraint's controller folds
// this evaluation into its own state (true exactly once per step, for the
// single post-selection call). It is otherwise pure: repeated calls with
// update=false and the same inputs return the same ConstraintScore.
//
// Evaluate requires at least one active constraint; callers that expect
// the degenerate "no selection" case should check HasNoActiveConstraints
// first.
func (cs *ConstrainingState[In, Out]) Evaluate(in In, out Out, update bool) (ConstraintScore, error) {
	if cs.HasNoActiveConstraints() {
		return ConstraintScore{}, &NoActiveConstraintsError{Snapshot: cs.snapshot()}
	}
	var objective float64
	var successes, hard, soft []int
	for i, s := range cs.states {
		if !s.active {
			continue
		}
		c := s.constraint
		rho := c.Robustness(in, out, update)
		switch c.ObjectiveImpact() {
		case ObjectiveImpactSigned:
			objective += rho
		case ObjectiveImpactUnsigned:
			objective += math.Abs(rho)
		case ObjectiveImpactNone:
		}
		if isViolation(rho) {
			switch c.FailureKind() {
			case FailureKindHard:
				hard = append(hard, i)
			case FailureKindSoft:
				soft = append(soft, i)
			case FailureKindNone:
			}
		} else {
			successes = append(successes, i)
		}
	}
	return ConstraintScore{
		Successes:    NewIntSet(successes...),
		HardFailures: NewIntSet(hard...),
		SoftFailures: NewIntSet(soft...),
		Objective:    objective,
	}, nil
}

// isViolation applies the NaN rule: NaN robustness is always
// treated as a violation, routed to whichever failure_kind the constraint
// is configured with (same as any other negative robustness), rather than
// panicking or silently dropping the constraint from classification.
func isViolation(rho float64) bool {
	return math.IsNaN(rho) || rho < 0
}

// EvaluateAt is a convenience that calls Evaluate with update=false and
// attaches point to the resulting score. It is a free function, not a
// method, because point's type P is independent of the constraining
// state's In/Out and Go methods cannot introduce their own type
// parameters.
func EvaluateAt[In, Out, P any](cs *ConstrainingState[In, Out], point P, in In, out Out) (PointScore[P], error) {
	score, err := cs.Evaluate(in, out, false)
	if err != nil {
		return PointScore[P]{}, err
	}
	return PointScore[P]{Point: point, Score: score}, nil
}

// UpdateFrom evaluates (in, out) with update=true (advancing any
// controllers), then applies the group-deactivation cascade: every
// constraint whose success (with success_action=DEACTIVATE) or hard
// failure fired in this evaluation deactivates its entire group
// (including itself and any other still-active constraint sharing its
// group id). Soft failures never deactivate. Calling UpdateFrom with no
// active constraints is a silent no-op (unlike Evaluate, which errors);
// this asymmetry is intentional and must not be unified (SPEC_FULL.md,
// Open Question 1).
func (cs *ConstrainingState[In, Out]) UpdateFrom(in In, out Out) (ConstraintScore, error) {
	if cs.HasNoActiveConstraints() {
		return ConstraintScore{}, nil
	}
	score, err := cs.Evaluate(in, out, true)
	if err != nil {
		return ConstraintScore{}, err
	}

	groupsToDeactivate := make(map[int]struct{})
	for _, i := range score.Successes.Slice() {
		s := cs.states[i]
		if s.constraint.SuccessAction() == SuccessActionDeactivate {
			s.succeeded = true
			groupsToDeactivate[s.constraint.GroupID()] = struct{}{}
		}
	}
	for _, i := range score.HardFailures.Slice() {
		s := cs.states[i]
		s.failed = true
		groupsToDeactivate[s.constraint.GroupID()] = struct{}{}
	}
	for _, i := range score.SoftFailures.Slice() {
		cs.states[i].failed = true
	}

	if len(groupsToDeactivate) > 0 {
		for _, s := range cs.states {
			if !s.active {
				continue
			}
			if _, ok := groupsToDeactivate[s.constraint.GroupID()]; ok {
				s.active = false
				cs.numActiveConstraints--
			}
		}
	}

	return score, nil
}

package pexplore

// Constraint is an immutable descriptor: a robustness function together
// with the classification flags that determine how its robustness feeds
// into a Score and into activation state. Build one with
// NewConstraintBuilder.
//
// The original source ties In/Out to a task-tag type; here they are plain
// Go type parameters, per SPEC_FULL.md §4's trait-not-universal-type
// design note.
type Constraint[In, Out any] struct {
	name            string
	groupID         int
	successAction   SuccessAction
	failureKind     FailureKind
	objectiveImpact ObjectiveImpact
	robustness      func(In, Out) float64
	controller      Controller[In, Out]
}

// Name is the constraint's diagnostic name, empty unless set by the
// builder.
func (c *Constraint[In, Out]) Name() string { return c.name }

// GroupID is the constraint's deactivation-cascade group.
func (c *Constraint[In, Out]) GroupID() int { return c.groupID }

// SuccessAction reports what happens when this constraint's robustness
// indicates success.
func (c *Constraint[In, Out]) SuccessAction() SuccessAction { return c.successAction }

// FailureKind reports how this constraint classifies a violation.
func (c *Constraint[In, Out]) FailureKind() FailureKind { return c.failureKind }

// ObjectiveImpact reports how this constraint's robustness feeds the
// aggregate objective.
func (c *Constraint[In, Out]) ObjectiveImpact() ObjectiveImpact { return c.objectiveImpact }

// Robustness evaluates the constraint's raw robustness function, then
// passes it through the configured controller (NoController if none was
// set). update must be true exactly once per step: on the single
// post-selection call.
func (c *Constraint[In, Out]) Robustness(in In, out Out, update bool) float64 {
	raw := c.robustness(in, out)
	return c.controller.Adjust(raw, in, out, update)
}

// ConstraintBuilder builds a Constraint via chained setters, mirroring the
// original source's builder: every field defaults (group 0, NONE/NONE/NONE,
// ρ constant 0), and Build produces the immutable value.
type ConstraintBuilder[In, Out any] struct {
	c Constraint[In, Out]
}

// NewConstraintBuilder starts an empty builder: group 0, every
// classification flag NONE, and a robustness function that always returns
// 0. Use Robustness to set a real robustness function before Build.
func NewConstraintBuilder[In, Out any]() *ConstraintBuilder[In, Out] {
	return &ConstraintBuilder[In, Out]{c: Constraint[In, Out]{
		robustness: func(In, Out) float64 { return 0 },
	}}
}

// Robustness sets the constraint's robustness function ρ(input, output).
func (b *ConstraintBuilder[In, Out]) Robustness(rho func(In, Out) float64) *ConstraintBuilder[In, Out] {
	b.c.robustness = rho
	return b
}

// Name sets the constraint's diagnostic name.
func (b *ConstraintBuilder[In, Out]) Name(name string) *ConstraintBuilder[In, Out] {
	b.c.name = name
	return b
}

// GroupID sets the constraint's deactivation-cascade group id.
func (b *ConstraintBuilder[In, Out]) GroupID(id int) *ConstraintBuilder[In, Out] {
	b.c.groupID = id
	return b
}

// SuccessAction sets the action taken when robustness indicates success.
func (b *ConstraintBuilder[In, Out]) SuccessAction(a SuccessAction) *ConstraintBuilder[In, Out] {
	b.c.successAction = a
	return b
}

// FailureKind sets the classification applied when robustness indicates
// failure.
func (b *ConstraintBuilder[In, Out]) FailureKind(k FailureKind) *ConstraintBuilder[In, Out] {
	b.c.failureKind = k
	return b
}

// ObjectiveImpact sets how robustness feeds the aggregate objective.
func (b *ConstraintBuilder[In, Out]) ObjectiveImpact(i ObjectiveImpact) *ConstraintBuilder[In, Out] {
	b.c.objectiveImpact = i
	return b
}

// Controller attaches a robustness controller. If never called, Build
// defaults to NoController.
func (b *ConstraintBuilder[In, Out]) Controller(ctrl Controller[In, Out]) *ConstraintBuilder[In, Out] {
	b.c.controller = ctrl
	return b
}

// Build validates and returns the immutable Constraint, or an
// *InvalidConstraintConfigError. Builder misuse is a fatal, build-time
// condition (SPEC_FULL.md §8): callers that build constraints from static
// descriptors should treat a non-nil error as a reason to abort startup.
func (b *ConstraintBuilder[In, Out]) Build() (*Constraint[In, Out], error) {
	if b.c.robustness == nil {
		return nil, &InvalidConstraintConfigError{Reason: "nil robustness function"}
	}
	if b.c.groupID < 0 {
		return nil, &InvalidConstraintConfigError{Reason: "negative group id"}
	}
	if b.c.successAction < SuccessActionNone || b.c.successAction > SuccessActionDeactivate {
		return nil, &InvalidConstraintConfigError{Reason: "unrecognised success action"}
	}
	if b.c.failureKind < FailureKindNone || b.c.failureKind > FailureKindHard {
		return nil, &InvalidConstraintConfigError{Reason: "unrecognised failure kind"}
	}
	if b.c.objectiveImpact < ObjectiveImpactNone || b.c.objectiveImpact > ObjectiveImpactUnsigned {
		return nil, &InvalidConstraintConfigError{Reason: "unrecognised objective impact"}
	}
	out := b.c
	if out.controller == nil {
		out.controller = NoController[In, Out]{}
	}
	return &out, nil
}

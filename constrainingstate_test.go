package pexplore_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariadne-cps/pexplore"
)

func mustBuild(t *testing.T, b *pexplore.ConstraintBuilder[input, output]) *pexplore.Constraint[input, output] {
	t.Helper()
	c, err := b.Build()
	require.NoError(t, err)
	return c
}

func TestConstrainingState_Evaluate_requiresActiveConstraints(t *testing.T) {
	cs := pexplore.NewConstrainingState[input, output](nil)
	_, err := cs.Evaluate(input{}, output{}, false)
	require.Error(t, err)
	var target *pexplore.NoActiveConstraintsError
	assert.True(t, errors.As(err, &target))
}

func TestConstrainingState_UpdateFrom_noActiveConstraintsIsSilentNoOp(t *testing.T) {
	cs := pexplore.NewConstrainingState[input, output](nil)
	score, err := cs.UpdateFrom(input{}, output{})
	require.NoError(t, err)
	assert.Equal(t, pexplore.ConstraintScore{}, score)
}

func TestConstrainingState_Evaluate_classifiesSuccessAndFailure(t *testing.T) {
	succeeds := mustBuild(t, pexplore.NewConstraintBuilder[input, output]().
		Robustness(func(input, output) float64 { return 1 }).
		ObjectiveImpact(pexplore.ObjectiveImpactSigned))
	hardFails := mustBuild(t, pexplore.NewConstraintBuilder[input, output]().
		Robustness(func(input, output) float64 { return -2 }).
		FailureKind(pexplore.FailureKindHard).
		ObjectiveImpact(pexplore.ObjectiveImpactSigned))
	softFails := mustBuild(t, pexplore.NewConstraintBuilder[input, output]().
		Robustness(func(input, output) float64 { return -3 }).
		FailureKind(pexplore.FailureKindSoft).
		ObjectiveImpact(pexplore.ObjectiveImpactUnsigned))
	suppressed := mustBuild(t, pexplore.NewConstraintBuilder[input, output]().
		Robustness(func(input, output) float64 { return -4 }))

	cs := pexplore.NewConstrainingState[input, output]([]*pexplore.Constraint[input, output]{
		succeeds, hardFails, softFails, suppressed,
	})

	score, err := cs.Evaluate(input{}, output{}, false)
	require.NoError(t, err)
	assert.True(t, score.Successes.Contains(0))
	assert.True(t, score.HardFailures.Contains(1))
	assert.True(t, score.SoftFailures.Contains(2))
	assert.False(t, score.Successes.Contains(3))
	assert.False(t, score.HardFailures.Contains(3))
	assert.False(t, score.SoftFailures.Contains(3))
	assert.Equal(t, 1.0-2.0+3.0, score.Objective)
}

func TestConstrainingState_Evaluate_nanIsAViolation(t *testing.T) {
	c := mustBuild(t, pexplore.NewConstraintBuilder[input, output]().
		Robustness(func(input, output) float64 { return math.NaN() }).
		FailureKind(pexplore.FailureKindHard))

	cs := pexplore.NewConstrainingState[input, output]([]*pexplore.Constraint[input, output]{c})
	score, err := cs.Evaluate(input{}, output{}, false)
	require.NoError(t, err)
	assert.True(t, score.HardFailures.Contains(0))
	assert.True(t, math.IsNaN(score.Objective))
}

func TestConstrainingState_Evaluate_isPureWithoutUpdate(t *testing.T) {
	calls := 0
	c := mustBuild(t, pexplore.NewConstraintBuilder[input, output]().
		Robustness(func(input, output) float64 { calls++; return 1 }))
	cs := pexplore.NewConstrainingState[input, output]([]*pexplore.Constraint[input, output]{c})

	a, err := cs.Evaluate(input{x: 1}, output{y: 2}, false)
	require.NoError(t, err)
	b, err := cs.Evaluate(input{x: 1}, output{y: 2}, false)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, 2, calls)
}

func TestConstrainingState_UpdateFrom_hardFailureCascadesToGroup(t *testing.T) {
	leader := mustBuild(t, pexplore.NewConstraintBuilder[input, output]().
		GroupID(7).
		Robustness(func(input, output) float64 { return -1 }).
		FailureKind(pexplore.FailureKindHard))
	follower := mustBuild(t, pexplore.NewConstraintBuilder[input, output]().
		GroupID(7).
		Robustness(func(input, output) float64 { return 1 }))
	unrelated := mustBuild(t, pexplore.NewConstraintBuilder[input, output]().
		GroupID(9).
		Robustness(func(input, output) float64 { return 1 }))

	cs := pexplore.NewConstrainingState[input, output]([]*pexplore.Constraint[input, output]{leader, follower, unrelated})
	require.Equal(t, 3, cs.NumActiveConstraints())

	_, err := cs.UpdateFrom(input{}, output{})
	require.NoError(t, err)

	states := cs.States()
	assert.False(t, states[0].Active())
	assert.True(t, states[0].Failed())
	assert.False(t, states[1].Active(), "same group as the hard failure must deactivate")
	assert.False(t, states[1].Failed(), "deactivated via cascade only, never itself failed")
	assert.True(t, states[2].Active(), "different group must be unaffected")
	assert.Equal(t, 1, cs.NumActiveConstraints())
}

func TestConstrainingState_UpdateFrom_successDeactivateCascadesToGroup(t *testing.T) {
	leader := mustBuild(t, pexplore.NewConstraintBuilder[input, output]().
		GroupID(1).
		Robustness(func(input, output) float64 { return 1 }).
		SuccessAction(pexplore.SuccessActionDeactivate))
	follower := mustBuild(t, pexplore.NewConstraintBuilder[input, output]().
		GroupID(1).
		Robustness(func(input, output) float64 { return 1 }))

	cs := pexplore.NewConstrainingState[input, output]([]*pexplore.Constraint[input, output]{leader, follower})
	_, err := cs.UpdateFrom(input{}, output{})
	require.NoError(t, err)

	states := cs.States()
	assert.False(t, states[0].Active())
	assert.True(t, states[0].Succeeded())
	assert.False(t, states[1].Active())
	assert.False(t, states[1].Succeeded())
	assert.Equal(t, 0, cs.NumActiveConstraints())
}

func TestConstrainingState_UpdateFrom_softFailureNeverDeactivates(t *testing.T) {
	c := mustBuild(t, pexplore.NewConstraintBuilder[input, output]().
		Robustness(func(input, output) float64 { return -1 }).
		FailureKind(pexplore.FailureKindSoft))
	cs := pexplore.NewConstrainingState[input, output]([]*pexplore.Constraint[input, output]{c})

	_, err := cs.UpdateFrom(input{}, output{})
	require.NoError(t, err)
	assert.True(t, cs.States()[0].Active())
	assert.True(t, cs.States()[0].Failed())
	assert.Equal(t, 1, cs.NumActiveConstraints())
}

func TestConstrainingState_UpdateFrom_noneFlagsNeverMutateActive(t *testing.T) {
	c := mustBuild(t, pexplore.NewConstraintBuilder[input, output]().
		Robustness(func(input, output) float64 { return -1 }))
	cs := pexplore.NewConstrainingState[input, output]([]*pexplore.Constraint[input, output]{c})

	_, err := cs.UpdateFrom(input{}, output{})
	require.NoError(t, err)
	assert.True(t, cs.States()[0].Active())
	assert.False(t, cs.States()[0].Failed())
	assert.False(t, cs.States()[0].Succeeded())
}

func TestConstrainingState_numActiveConstraintsInvariant(t *testing.T) {
	c1 := mustBuild(t, pexplore.NewConstraintBuilder[input, output]().
		Robustness(func(input, output) float64 { return -1 }).
		FailureKind(pexplore.FailureKindHard))
	c2 := mustBuild(t, pexplore.NewConstraintBuilder[input, output]().
		Robustness(func(input, output) float64 { return 1 }))
	cs := pexplore.NewConstrainingState[input, output]([]*pexplore.Constraint[input, output]{c1, c2})

	_, err := cs.UpdateFrom(input{}, output{})
	require.NoError(t, err)

	active := 0
	for _, s := range cs.States() {
		if s.Active() {
			active++
		}
	}
	assert.Equal(t, active, cs.NumActiveConstraints())
}

func TestConstrainingState_controllerUpdatesOnlyFromUpdateFrom(t *testing.T) {
	elapsed := 0.0
	ctrl := pexplore.NewTimeProgressLinearRobustnessController[input, output](
		func(input, output) float64 { return elapsed }, 10)
	c := mustBuild(t, pexplore.NewConstraintBuilder[input, output]().
		Robustness(func(input, output) float64 { return 1 }).
		Controller(ctrl))
	cs := pexplore.NewConstrainingState[input, output]([]*pexplore.Constraint[input, output]{c})

	elapsed = 4
	_, err := cs.Evaluate(input{}, output{}, false)
	require.NoError(t, err)
	assert.Equal(t, 0.0, ctrl.LastElapsed())

	elapsed = 6
	_, err = cs.UpdateFrom(input{}, output{})
	require.NoError(t, err)
	assert.Equal(t, 6.0, ctrl.LastElapsed())
}

func TestEvaluateAt_attachesPoint(t *testing.T) {
	c := mustBuild(t, pexplore.NewConstraintBuilder[input, output]().
		Robustness(func(input, output) float64 { return 1 }))
	cs := pexplore.NewConstrainingState[input, output]([]*pexplore.Constraint[input, output]{c})

	ps, err := pexplore.EvaluateAt(cs, "point-a", input{}, output{})
	require.NoError(t, err)
	assert.Equal(t, "point-a", ps.Point)
	assert.True(t, ps.Score.Successes.Contains(0))
}

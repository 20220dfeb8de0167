package searchspace_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariadne-cps/pexplore/searchspace"
)

type level int

const (
	levelLow level = iota
	levelMedium
)

type testConfig struct {
	useReconditioning bool
	maximumOrder      int
	maximumStepSize   float64
	level             level
	useSomething      bool
}

func newTestSpace() *searchspace.Space[testConfig] {
	return searchspace.New(
		func(p searchspace.Point) testConfig {
			return testConfig{
				useReconditioning: p.Value(`use_reconditioning`).(bool),
				maximumOrder:      p.Value(`maximum_order`).(int),
				maximumStepSize:   p.Value(`maximum_step_size`).(float64),
				level:             p.Value(`level`).(level),
				useSomething:      p.Value(`nested.use_something`).(bool),
			}
		},
		searchspace.Bool(`use_reconditioning`, false),
		searchspace.IntRange(`maximum_order`, 1, 5, 1),
		searchspace.FloatLog2Range(`maximum_step_size`, 0.001, 0.1, 8),
		searchspace.Enum(`level`, levelLow, levelLow, levelMedium),
		searchspace.Bool(`nested.use_something`, false),
	)
}

func TestSpace_InitialPoint(t *testing.T) {
	space := newTestSpace()
	p := space.InitialPoint()
	cfg := space.MakeConfiguration(p)
	assert.False(t, cfg.useReconditioning)
	assert.Equal(t, 1, cfg.maximumOrder)
	assert.InDelta(t, 0.001, cfg.maximumStepSize, 1e-9)
	assert.Equal(t, levelLow, cfg.level)
	assert.False(t, cfg.useSomething)
}

func TestSpace_ShiftOne_differsInExactlyOneParameter(t *testing.T) {
	space := newTestSpace()
	base := space.InitialPoint()
	neighbours := space.ShiftOne(base)
	require.NotEmpty(t, neighbours)

	for _, n := range neighbours {
		diffs := 0
		for _, path := range []string{`use_reconditioning`, `maximum_order`, `maximum_step_size`, `level`, `nested.use_something`} {
			if n.Index(path) != base.Index(path) {
				diffs++
			}
		}
		assert.Equal(t, 1, diffs, "neighbour %s should differ from base in exactly one parameter", n)
	}
}

func TestSpace_ShiftOne_boundaryParametersOnlyStepInward(t *testing.T) {
	space := newTestSpace()
	base := space.InitialPoint() // maximum_order index 0 -> at lower bound
	neighbours := space.ShiftOne(base)

	var orderSteps int
	for _, n := range neighbours {
		if n.Index(`maximum_order`) != base.Index(`maximum_order`) {
			orderSteps++
			assert.Equal(t, base.Index(`maximum_order`)+1, n.Index(`maximum_order`))
		}
	}
	assert.Equal(t, 1, orderSteps, "at the lower bound, only the +1 step is admissible")
}

func TestSpace_MakeConfiguration_float64Log2SpacingIsMonotonic(t *testing.T) {
	space := newTestSpace()
	base := space.InitialPoint()
	last := space.MakeConfiguration(base).maximumStepSize
	for _, n := range space.ShiftOne(base) {
		if n.Index(`maximum_step_size`) > base.Index(`maximum_step_size`) {
			next := space.MakeConfiguration(n).maximumStepSize
			assert.Greater(t, next, last)
		}
	}
}

func TestSpace_Enumerate_cardinalityMatchesProduct(t *testing.T) {
	space := searchspace.New(
		func(p searchspace.Point) bool { return p.Value(`a`).(bool) },
		searchspace.Bool(`a`, false),
		searchspace.IntRange(`b`, 0, 2, 0),
	)
	points := space.Enumerate()
	assert.Len(t, points, 2*3)
}

func TestPoint_Equal(t *testing.T) {
	space := newTestSpace()
	a := space.InitialPoint()
	b := space.InitialPoint()
	assert.True(t, a.Equal(b))

	shifted := space.ShiftOne(a)[0]
	assert.False(t, a.Equal(shifted))
}

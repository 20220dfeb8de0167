package searchspace

import (
	"fmt"
	"math"

	"golang.org/x/exp/constraints"
)

// Parameter is a single admissible, discretely-indexed dimension of a
// Space. Implementations materialise a concrete value for any index in
// [0, Cardinality()).
type Parameter interface {
	// Path is the parameter's property path, e.g. "nested.use_something".
	Path() string
	// Cardinality is the number of admissible discrete values.
	Cardinality() int
	// Value materialises the value at index, which must be in
	// [0, Cardinality()).
	Value(index int) any
	// DefaultIndex is the index used to build a Space's canonical initial
	// point.
	DefaultIndex() int
}

type boolParam struct {
	path    string
	initial bool
}

// Bool returns a boolean Parameter: index 0 is false, index 1 is true.
// Both values are always admissible.
func Bool(path string, initial bool) Parameter {
	return boolParam{path: path, initial: initial}
}

func (p boolParam) Path() string       { return p.path }
func (p boolParam) Cardinality() int   { return 2 }
func (p boolParam) Value(i int) any    { return i == 1 }
func (p boolParam) DefaultIndex() int {
	if p.initial {
		return 1
	}
	return 0
}

type intRangeParam struct {
	path     string
	lo, hi   int
	initial  int
}

// IntRange returns an integer Parameter admitting every value in
// [lo, hi] (inclusive), stepping by 1.
func IntRange(path string, lo, hi, initial int) Parameter {
	if hi < lo {
		panic(`searchspace: IntRange: hi < lo`)
	}
	return intRangeParam{path: path, lo: lo, hi: hi, initial: initial}
}

func (p intRangeParam) Path() string     { return p.path }
func (p intRangeParam) Cardinality() int { return p.hi - p.lo + 1 }
func (p intRangeParam) Value(i int) any  { return p.lo + i }
func (p intRangeParam) DefaultIndex() int {
	v := p.initial
	if v < p.lo {
		v = p.lo
	} else if v > p.hi {
		v = p.hi
	}
	return v - p.lo
}

type float64Log2RangeParam struct {
	path       string
	lo, hi     float64
	steps      int
	initialIdx int
}

// FloatLog2Range returns a float64 Parameter whose admissible values are
// logarithmically (base 2) spaced between lo and hi (both > 0), with
// steps discrete points (steps must be >= 2). This mirrors the original
// source's Log2SearchSpaceConverter, used for parameters such as a
// maximum step size, where multiplicative rather than additive shifts are
// the natural notion of "one admissible step".
func FloatLog2Range(path string, lo, hi float64, steps int) Parameter {
	if steps < 2 {
		panic(`searchspace: FloatLog2Range: steps must be >= 2`)
	}
	if lo <= 0 || hi <= 0 || hi < lo {
		panic(`searchspace: FloatLog2Range: requires 0 < lo <= hi`)
	}
	return float64Log2RangeParam{path: path, lo: lo, hi: hi, steps: steps}
}

func (p float64Log2RangeParam) Path() string     { return p.path }
func (p float64Log2RangeParam) Cardinality() int { return p.steps }
func (p float64Log2RangeParam) Value(i int) any {
	if p.steps == 1 {
		return p.lo
	}
	logLo, logHi := math.Log2(p.lo), math.Log2(p.hi)
	frac := float64(i) / float64(p.steps-1)
	return math.Exp2(logLo + frac*(logHi-logLo))
}
func (p float64Log2RangeParam) DefaultIndex() int { return p.initialIdx }

type enumParam[T comparable] struct {
	path    string
	values  []T
	initial int
}

// Enum returns a Parameter over an explicit, ordered list of admissible
// values, such as a small set of named levels.
func Enum[T comparable](path string, initial T, values ...T) Parameter {
	if len(values) == 0 {
		panic(`searchspace: Enum: at least one value required`)
	}
	idx := 0
	for i, v := range values {
		if v == initial {
			idx = i
			break
		}
	}
	return enumParam[T]{path: path, values: values, initial: idx}
}

func (p enumParam[T]) Path() string     { return p.path }
func (p enumParam[T]) Cardinality() int { return len(p.values) }
func (p enumParam[T]) Value(i int) any  { return p.values[i] }
func (p enumParam[T]) DefaultIndex() int { return p.initial }

// clampIndex restricts idx to [0, cardinality), used when computing the
// shift-one neighbourhood of a parameter whose current index sits at a
// boundary.
func clampIndex[T constraints.Integer](idx, cardinality T) T {
	if idx < 0 {
		return 0
	}
	if idx >= cardinality {
		return cardinality - 1
	}
	return idx
}

func (p intRangeParam) String() string {
	return fmt.Sprintf("%s∈[%d,%d]", p.path, p.lo, p.hi)
}

func (p float64Log2RangeParam) String() string {
	return fmt.Sprintf("%s∈log2[%g,%g]", p.path, p.lo, p.hi)
}

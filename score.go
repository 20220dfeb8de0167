package pexplore

import (
	"math"
	"math/big"
	"sort"
	"strconv"
	"strings"

	"github.com/joeycumines/floater"
)

// IntSet is an immutable, sorted set of non-negative constraint indices. It
// backs ConstraintScore's successes/hard-failures/soft-failures fields.
type IntSet struct {
	sorted []int
}

// NewIntSet returns the IntSet containing the unique values of xs.
func NewIntSet(xs ...int) IntSet {
	if len(xs) == 0 {
		return IntSet{}
	}
	cp := append([]int(nil), xs...)
	sort.Ints(cp)
	out := cp[:1]
	for _, v := range cp[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return IntSet{sorted: out}
}

// Len returns the number of elements.
func (s IntSet) Len() int { return len(s.sorted) }

// Contains reports whether i is a member of s.
func (s IntSet) Contains(i int) bool {
	idx := sort.SearchInts(s.sorted, i)
	return idx < len(s.sorted) && s.sorted[idx] == i
}

// Slice returns the set's elements in ascending order. The caller must not
// mutate the result.
func (s IntSet) Slice() []int { return s.sorted }

// Equal reports whether s and o contain exactly the same elements.
func (s IntSet) Equal(o IntSet) bool {
	if len(s.sorted) != len(o.sorted) {
		return false
	}
	for i, v := range s.sorted {
		if o.sorted[i] != v {
			return false
		}
	}
	return true
}

// isSubsetOf reports whether every element of s is also an element of o.
func (s IntSet) isSubsetOf(o IntSet) bool {
	if len(s.sorted) > len(o.sorted) {
		return false
	}
	for _, v := range s.sorted {
		if !o.Contains(v) {
			return false
		}
	}
	return true
}

// String renders the set as e.g. "{1,2}".
func (s IntSet) String() string {
	parts := make([]string, len(s.sorted))
	for i, v := range s.sorted {
		parts[i] = strconv.Itoa(v)
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// compareFailureSets implements the failure-set order:
// fewer failures ranks smaller (better). A is a (possibly non-strict)
// subset of B iff every failure in A also occurs in B, i.e. A accumulated
// no failure that B lacks; that makes A no worse than B, so A <= B.
// Incomparable sets (neither a subset of the other) compare equal, falling
// through to the next key in the lexicographic cascade.
//
// This resolves the set-ordering open question recorded in DESIGN.md: spec.md's
// inline prose ("A < B iff A is a proper superset of B") is inconsistent
// with its own worked examples and with every law in §8; the examples and
// laws agree on "fewer failures is smaller", which is what this function
// implements.
func compareFailureSets(a, b IntSet) int {
	switch {
	case a.Equal(b):
		return 0
	case a.isSubsetOf(b):
		return -1
	case b.isSubsetOf(a):
		return 1
	default:
		return 0
	}
}

// ConstraintScore is the outcome of evaluating one (input, output) pair
// against a ConstrainingState: the indices that succeeded, the indices
// that hard- or soft-failed, and the aggregate objective.
type ConstraintScore struct {
	Successes    IntSet
	HardFailures IntSet
	SoftFailures IntSet
	Objective    float64
}

// Less implements the lexicographic score ordering: hard failures
// (fewer is smaller/better), then soft failures, then objective (smaller
// is better). Successes never participate.
func (a ConstraintScore) Less(b ConstraintScore) bool {
	if c := compareFailureSets(a.HardFailures, b.HardFailures); c != 0 {
		return c < 0
	}
	if c := compareFailureSets(a.SoftFailures, b.SoftFailures); c != 0 {
		return c < 0
	}
	return a.Objective < b.Objective
}

// String renders the score for logging/debugging.
func (a ConstraintScore) String() string {
	return "successes=" + a.Successes.String() +
		" hard=" + a.HardFailures.String() +
		" soft=" + a.SoftFailures.String() +
		" objective=" + floater.FormatDecimalRat(ratFromFloat(a.Objective), -1, 17)
}

func ratFromFloat(f float64) *big.Rat {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		// NaN/Inf have no rational form (and big.NewFloat panics on NaN);
		// fall back to a zero rat so String never panics, the textual form
		// is only for diagnostics.
		return big.NewRat(0, 1)
	}
	r, _ := big.NewFloat(f).Rat(nil)
	return r
}

// PointScore pairs a ConstraintScore with the search point it was computed
// for. The point is carried purely as an identity tag: ordering is
// delegated entirely to the embedded ConstraintScore. P is not constrained
// to comparable since concrete search-point types (e.g. searchspace.Point)
// carry map-valued fields and expose their own Equal method instead.
type PointScore[P any] struct {
	Point P
	Score ConstraintScore
}

// Less orders PointScore by its ConstraintScore alone.
func (a PointScore[P]) Less(b PointScore[P]) bool {
	return a.Score.Less(b.Score)
}

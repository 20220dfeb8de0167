// Package searchspace is a reference implementation of the search-space
// collaborator that spec.md treats as an external, black-box library
// (enumeration of admissible points, a configuration materialised from a
// point, a canonical initial point, and a neighbourhood/shift operator).
// A Space is generic over the Configuration type C it ultimately
// produces, so any task's configuration type can plug in, per
// pExplore's trait-not-universal-type design (see SPEC_FULL.md §4).
package searchspace

// Space enumerates and shifts Points over a fixed set of Parameters, and
// materialises a domain Configuration of type C from any Point it
// produced.
type Space[C any] struct {
	params     []Parameter
	byPath     map[string]Parameter
	makeConfig func(Point) C
}

// New constructs a Space from an ordered list of Parameters (order is
// significant only for Enumerate and diagnostics) and the function used
// to materialise a Configuration of type C from a Point.
func New[C any](makeConfig func(Point) C, params ...Parameter) *Space[C] {
	if makeConfig == nil {
		panic(`searchspace: New: nil makeConfig`)
	}
	byPath := make(map[string]Parameter, len(params))
	for _, p := range params {
		if _, dup := byPath[p.Path()]; dup {
			panic(`searchspace: New: duplicate parameter path ` + p.Path())
		}
		byPath[p.Path()] = p
	}
	return &Space[C]{params: params, byPath: byPath, makeConfig: makeConfig}
}

func (s *Space[C]) decode(path string, index int) any {
	return s.byPath[path].Value(index)
}

// InitialPoint returns the canonical starting Point: every parameter at
// its configured default index.
func (s *Space[C]) InitialPoint() Point {
	indices := make(map[string]int, len(s.params))
	for _, p := range s.params {
		indices[p.Path()] = p.DefaultIndex()
	}
	return Point{space: s, indices: indices}
}

// ShiftOne returns the neighbourhood of p: every Point differing from p
// in exactly one parameter, by one admissible step (the adjacent index,
// clamped to the parameter's bounds). The result is ordered by parameter
// declaration order, then by step direction (-1 before +1), which is the
// deterministic iteration order pExplore's parallel runner relies on for
// tie-breaking (see SPEC_FULL.md, Open Question 2).
func (s *Space[C]) ShiftOne(p Point) []Point {
	var out []Point
	for _, param := range s.params {
		path := param.Path()
		cur := p.indices[path]
		card := param.Cardinality()
		for _, step := range [...]int{-1, 1} {
			next := clampIndex(cur+step, card)
			if next == cur {
				continue
			}
			out = append(out, p.with(path, next))
		}
	}
	return out
}

// MakeConfiguration materialises the domain Configuration for p.
func (s *Space[C]) MakeConfiguration(p Point) C {
	return s.makeConfig(p)
}

// Enumerate returns every admissible Point in the Space: the full
// cartesian product of parameter indices. Intended for small spaces
// (diagnostics, tests); the parametric-parallel runner never calls it,
// relying on ShiftOne's local neighbourhood instead.
func (s *Space[C]) Enumerate() []Point {
	if len(s.params) == 0 {
		return []Point{{space: s, indices: map[string]int{}}}
	}
	var out []Point
	var rec func(i int, acc map[string]int)
	rec = func(i int, acc map[string]int) {
		if i == len(s.params) {
			cp := make(map[string]int, len(acc))
			for k, v := range acc {
				cp[k] = v
			}
			out = append(out, Point{space: s, indices: cp})
			return
		}
		p := s.params[i]
		for idx := 0; idx < p.Cardinality(); idx++ {
			acc[p.Path()] = idx
			rec(i+1, acc)
		}
	}
	rec(0, map[string]int{})
	return out
}

package searchspace

import (
	"fmt"
	"sort"
	"strings"
)

// Point is a search point: an assignment of a discrete index to every
// parameter path in the Space that produced it. Points are immutable
// value types; Space methods return new Points rather than mutating one
// in place.
type Point struct {
	space   decoder
	indices map[string]int
}

type decoder interface {
	decode(path string, index int) any
}

// Index returns the discrete index assigned to path.
func (p Point) Index(path string) int {
	return p.indices[path]
}

// Value materialises the parameter value assigned to path.
func (p Point) Value(path string) any {
	return p.space.decode(path, p.indices[path])
}

// Equal reports whether two Points assign identical indices to every
// path. Points from different Spaces are never equal.
func (p Point) Equal(o Point) bool {
	if p.space != o.space {
		return false
	}
	if len(p.indices) != len(o.indices) {
		return false
	}
	for path, idx := range p.indices {
		if oIdx, ok := o.indices[path]; !ok || oIdx != idx {
			return false
		}
	}
	return true
}

// String renders the point as a sorted "path=index" list, for logging.
func (p Point) String() string {
	paths := make([]string, 0, len(p.indices))
	for path := range p.indices {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	parts := make([]string, 0, len(paths))
	for _, path := range paths {
		parts = append(parts, fmt.Sprintf("%s=%d", path, p.indices[path]))
	}
	return "{" + strings.Join(parts, ",") + "}"
}

func (p Point) with(path string, index int) Point {
	next := make(map[string]int, len(p.indices))
	for k, v := range p.indices {
		next[k] = v
	}
	next[path] = index
	return Point{space: p.space, indices: next}
}

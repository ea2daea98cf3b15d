// Package geomutil holds the small geometry helpers the skeleton's
// pipeline-client boundary expects from collaborators: an intersection
// predicate between two atoms, a bounding box over atom centers, and a
// worked pipeline-client example (BuildIntersectionLinks) that funnels
// parallel candidate-link computation through skeleton/pool before applying
// results one at a time via the skeleton's single-mutator API.
package geomutil

import (
	"math"

	"github.com/median-path/skeleton/skeleton"
)

// Intersect reports whether two atoms' balls intersect. It is a thin
// re-export of skeleton.Intersect so pipeline clients can depend on this package
// alone for geometry predicates.
func Intersect(a, b skeleton.Ball) bool {
	return skeleton.Intersect(a, b)
}

// ComputeCentersBoundingBox returns the axis-aligned bounding box of every
// live atom's center. ok is false for an empty skeleton, in which case min
// and max are the zero value.
func ComputeCentersBoundingBox(s *skeleton.Skeleton) (min, max [3]float64, ok bool) {
	n := s.AtomCount()
	if n == 0 {
		return min, max, false
	}

	min = [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)}
	max = [3]float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)}

	for i := 0; i < n; i++ {
		h, err := s.AtomAt(i)
		if err != nil {
			continue
		}
		b, err := s.GetAtom(h)
		if err != nil {
			continue
		}
		if b.X < min[0] {
			min[0] = b.X
		}
		if b.Y < min[1] {
			min[1] = b.Y
		}
		if b.Z < min[2] {
			min[2] = b.Z
		}
		if b.X > max[0] {
			max[0] = b.X
		}
		if b.Y > max[1] {
			max[1] = b.Y
		}
		if b.Z > max[2] {
			max[2] = b.Z
		}
	}

	return min, max, true
}

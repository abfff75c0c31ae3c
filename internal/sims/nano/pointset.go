package nano

import "sort"

// PointSet is an unordered set of coordinates.
type PointSet map[Point]struct{}

// NewPointSet builds a set from pts.
func NewPointSet(pts ...Point) PointSet {
	s := make(PointSet, len(pts))
	for _, p := range pts {
		s[p] = struct{}{}
	}
	return s
}

// Has reports whether p is in the set.
func (s PointSet) Has(p Point) bool {
	_, ok := s[p]
	return ok
}

// Len returns the number of points.
func (s PointSet) Len() int { return len(s) }

// Sorted returns the points in row-major order.
func (s PointSet) Sorted() []Point {
	pts := make([]Point, 0, len(s))
	for p := range s {
		pts = append(pts, p)
	}
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].Y != pts[j].Y {
			return pts[i].Y < pts[j].Y
		}
		return pts[i].X < pts[j].X
	})
	return pts
}

// Keys returns the "x,y" keys of the set in row-major order.
func (s PointSet) Keys() []string {
	pts := s.Sorted()
	keys := make([]string, len(pts))
	for i, p := range pts {
		keys[i] = p.Key()
	}
	return keys
}

package geometry

import (
	"iter"
	"math"
)

// Polygon is a closed ring of points. The closing edge from the last point
// back to the first is implicit.
type Polygon []Point

// Polygons is a set of rings with nonzero-winding semantics.
type Polygons []Polygon

// Rect returns the counter-clockwise rectangle spanning min and max.
func Rect(min, max Point) Polygon {
	return Polygon{min, {max.X, min.Y}, max, {min.X, max.Y}}
}

// Edges iterates the edges of the ring, including the closing edge.
// Rings with fewer than three points have no edges.
func (pg Polygon) Edges() iter.Seq2[Point, Point] {
	return func(yield func(Point, Point) bool) {
		if len(pg) < 3 {
			return
		}
		for i := range pg {
			j := i + 1
			if j == len(pg) {
				j = 0
			}
			if !yield(pg[i], pg[j]) {
				return
			}
		}
	}
}

// Area2 returns twice the signed area of the ring: positive when the ring is
// counter-clockwise.
func (pg Polygon) Area2() int64 {
	var a int64
	for p, q := range pg.Edges() {
		a += p.Cross(q)
	}
	return a
}

// Bounds returns the bounding box of the ring.
func (pg Polygon) Bounds() Box {
	b := EmptyBox()
	for _, p := range pg {
		b = b.Extend(p)
	}
	return b
}

// Reverse returns a copy of the ring with opposite orientation.
func (pg Polygon) Reverse() Polygon {
	out := make(Polygon, len(pg))
	for i, p := range pg {
		out[len(pg)-1-i] = p
	}
	return out
}

// winding returns the winding number of the ring around p, and whether p lies
// on one of its edges.
func (pg Polygon) winding(p Point) (w int, onEdge bool) {
	for a, b := range pg.Edges() {
		if onSegment(p, a, b) {
			return 0, true
		}
		if a.Y <= p.Y {
			if b.Y > p.Y && orient(a, b, p) > 0 {
				w++
			}
		} else if b.Y <= p.Y && orient(a, b, p) < 0 {
			w--
		}
	}
	return w, false
}

// Empty reports whether the set has no ring with at least three points.
func (ps Polygons) Empty() bool {
	for _, pg := range ps {
		if len(pg) >= 3 {
			return false
		}
	}
	return true
}

// Edges iterates the edges of every ring in the set.
func (ps Polygons) Edges() iter.Seq2[Point, Point] {
	return func(yield func(Point, Point) bool) {
		for _, pg := range ps {
			for a, b := range pg.Edges() {
				if !yield(a, b) {
					return
				}
			}
		}
	}
}

// EdgeCount returns the number of edges in the set.
func (ps Polygons) EdgeCount() int {
	n := 0
	for _, pg := range ps {
		if len(pg) >= 3 {
			n += len(pg)
		}
	}
	return n
}

// Contains reports whether p is inside the set under the nonzero winding
// rule. Points on any edge are inside.
func (ps Polygons) Contains(p Point) bool {
	total := 0
	for _, pg := range ps {
		w, onEdge := pg.winding(p)
		if onEdge {
			return true
		}
		total += w
	}
	return total != 0
}

// Bounds returns the bounding box of all rings.
func (ps Polygons) Bounds() Box {
	b := EmptyBox()
	for _, pg := range ps {
		b = b.Union(pg.Bounds())
	}
	return b
}

// Area returns the enclosed area in square units, assuming holes are
// oriented opposite to their outer ring.
func (ps Polygons) Area() int64 {
	var a int64
	for _, pg := range ps {
		a += pg.Area2()
	}
	if a < 0 {
		a = -a
	}
	return a / 2
}

// ClosestPoint returns the boundary point nearest to p and its squared
// distance. ok is false when the set has no edges.
func (ps Polygons) ClosestPoint(p Point) (closest Point, dist2 int64, ok bool) {
	dist2 = math.MaxInt64
	for a, b := range ps.Edges() {
		c := ClosestOnSegment(p, a, b)
		if d := p.Dist2(c); d < dist2 {
			closest, dist2, ok = c, d, true
		}
	}
	return closest, dist2, ok
}

// CrossesSegment reports whether segment ab properly crosses any edge of the
// set. A segment that only touches the boundary does not cross it.
func (ps Polygons) CrossesSegment(a, b Point) bool {
	for c, d := range ps.Edges() {
		if SegmentsCross(a, b, c, d) {
			return true
		}
	}
	return false
}

// ContainsSegment reports whether segment ab stays inside the set: both
// endpoints are inside and the segment never crosses the boundary.
func (ps Polygons) ContainsSegment(a, b Point) bool {
	return ps.Contains(a) && ps.Contains(b) && !ps.CrossesSegment(a, b)
}

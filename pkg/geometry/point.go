package geometry

import (
	"fmt"
	"math"
	"math/bits"
)

// UnitsPerMM is the number of coordinate units in one millimetre.
const UnitsPerMM = 1_000_000

// FromMM converts millimetres to coordinate units, rounding to the nearest unit.
func FromMM(mm float64) int64 {
	return int64(math.Round(mm * UnitsPerMM))
}

// ToMM converts coordinate units to millimetres.
func ToMM(v int64) float64 {
	return float64(v) / UnitsPerMM
}

// Point is a 2D coordinate in fixed-point units.
type Point struct {
	X, Y int64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y int64) Point { return Point{X: x, Y: y} }

// PointMM builds a point from millimetre coordinates.
func PointMM(x, y float64) Point { return Point{X: FromMM(x), Y: FromMM(y)} }

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Dot returns the dot product of p and q.
func (p Point) Dot(q Point) int64 { return p.X*q.X + p.Y*q.Y }

// Cross returns the z component of the cross product of p and q.
func (p Point) Cross(q Point) int64 { return p.X*q.Y - p.Y*q.X }

// Norm2 returns the squared length of p.
func (p Point) Norm2() int64 { return p.Dot(p) }

// Dist2 returns the squared distance between p and q.
func (p Point) Dist2(q Point) int64 { return p.Sub(q).Norm2() }

// Dist returns the distance between p and q rounded down to a whole unit.
func (p Point) Dist(q Point) int64 { return ISqrt(p.Dist2(q)) }

// MM returns the coordinates of p in millimetres.
func (p Point) MM() (x, y float64) { return ToMM(p.X), ToMM(p.Y) }

func (p Point) String() string {
	return fmt.Sprintf("(%.3f, %.3f)", ToMM(p.X), ToMM(p.Y))
}

// ISqrt returns floor(sqrt(n)) for n >= 0 and 0 otherwise.
//
// The float estimate is corrected with integer arithmetic, so the result
// does not depend on the platform's floating point behaviour.
func ISqrt(n int64) int64 {
	if n <= 0 {
		return 0
	}
	r := int64(math.Sqrt(float64(n)))
	for r > 0 && r > n/r {
		r--
	}
	for r+1 <= n/(r+1) {
		r++
	}
	return r
}

// MulDiv returns a*b/c truncated toward zero, using a 128-bit intermediate.
// It panics if c is zero or the quotient does not fit in 63 bits.
func MulDiv(a, b, c int64) int64 {
	if c == 0 {
		panic("geometry: MulDiv by zero")
	}
	neg := (a < 0) != (b < 0) != (c < 0)
	hi, lo := bits.Mul64(abs64(a), abs64(b))
	cu := abs64(c)
	if hi >= cu {
		panic("geometry: MulDiv overflow")
	}
	q, _ := bits.Div64(hi, lo, cu)
	if q > math.MaxInt64 {
		panic("geometry: MulDiv overflow")
	}
	if neg {
		return -int64(q)
	}
	return int64(q)
}

func abs64(v int64) uint64 {
	if v < 0 {
		return uint64(-v)
	}
	return uint64(v)
}

// floorDiv returns floor(a/b) for b > 0.
func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && a < 0 {
		q--
	}
	return q
}

// ceilDiv returns ceil(a/b) for b > 0.
func ceilDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && a > 0 {
		q++
	}
	return q
}

// orient returns the sign of the turn a → b → c: positive for a
// counter-clockwise turn, negative for clockwise, zero when colinear.
func orient(a, b, c Point) int {
	v := b.Sub(a).Cross(c.Sub(a))
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// ClosestOnSegment returns the point of segment ab closest to p.
func ClosestOnSegment(p, a, b Point) Point {
	ab := b.Sub(a)
	l2 := ab.Norm2()
	if l2 == 0 {
		return a
	}
	t := p.Sub(a).Dot(ab)
	if t <= 0 {
		return a
	}
	if t >= l2 {
		return b
	}
	return Point{a.X + MulDiv(ab.X, t, l2), a.Y + MulDiv(ab.Y, t, l2)}
}

// SegmentDist2 returns the squared distance from p to segment ab.
func SegmentDist2(p, a, b Point) int64 {
	return p.Dist2(ClosestOnSegment(p, a, b))
}

// SegmentsCross reports whether segments ab and cd cross properly, that is,
// intersect at a single point interior to both. Touching endpoints and
// colinear overlaps do not count.
func SegmentsCross(a, b, c, d Point) bool {
	d1, d2 := orient(c, d, a), orient(c, d, b)
	d3, d4 := orient(a, b, c), orient(a, b, d)
	return d1*d2 < 0 && d3*d4 < 0
}

// onSegment reports whether p lies on the closed segment ab.
func onSegment(p, a, b Point) bool {
	if orient(a, b, p) != 0 {
		return false
	}
	return min(a.X, b.X) <= p.X && p.X <= max(a.X, b.X) &&
		min(a.Y, b.Y) <= p.Y && p.Y <= max(a.Y, b.Y)
}

// Lerp returns the point a + (b-a)*num/den, rounded toward a.
func Lerp(a, b Point, num, den int64) Point {
	if den == 0 {
		return a
	}
	d := b.Sub(a)
	return Point{a.X + MulDiv(d.X, num, den), a.Y + MulDiv(d.Y, num, den)}
}

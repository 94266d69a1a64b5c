package geometry

import "math"

type cellKey struct{ x, y int64 }

type edge struct{ a, b Point }

// EdgeIndex buckets the edges of a polygon set into a uniform grid.
// It is read-only after construction and safe for concurrent queries.
type EdgeIndex struct {
	polys  Polygons
	cell   int64
	bounds Box
	grid   map[cellKey][]int32
	edges  []edge
}

// NewEdgeIndex indexes the edges of polys into square cells of side cell.
// A non-positive cell size is replaced by a size derived from the bounds.
func NewEdgeIndex(polys Polygons, cell int64) *EdgeIndex {
	idx := &EdgeIndex{
		polys:  polys,
		bounds: polys.Bounds(),
		grid:   make(map[cellKey][]int32),
	}
	if cell <= 0 {
		w, h := idx.bounds.Size()
		cell = max(max(w, h)/64, 1)
	}
	idx.cell = cell
	// Squared half-diagonal, padded for the rounding in SegmentDist2.
	limit := cell*cell/2 + 4*cell + 4
	for a, b := range polys.Edges() {
		id := int32(len(idx.edges))
		idx.edges = append(idx.edges, edge{a, b})
		lo, hi := idx.key(Point{min(a.X, b.X), min(a.Y, b.Y)}), idx.key(Point{max(a.X, b.X), max(a.Y, b.Y)})
		for y := lo.y; y <= hi.y; y++ {
			for x := lo.x; x <= hi.x; x++ {
				if lo != hi && SegmentDist2(idx.center(cellKey{x, y}), a, b) > limit {
					continue
				}
				k := cellKey{x, y}
				idx.grid[k] = append(idx.grid[k], id)
			}
		}
	}
	return idx
}

func (idx *EdgeIndex) key(p Point) cellKey {
	return cellKey{floorDiv(p.X, idx.cell), floorDiv(p.Y, idx.cell)}
}

func (idx *EdgeIndex) center(k cellKey) Point {
	return Point{k.x*idx.cell + idx.cell/2, k.y*idx.cell + idx.cell/2}
}

// Polygons returns the indexed polygon set.
func (idx *EdgeIndex) Polygons() Polygons { return idx.polys }

// Empty reports whether the index holds no edges.
func (idx *EdgeIndex) Empty() bool { return len(idx.edges) == 0 }

// Contains reports whether p is inside the indexed polygons.
func (idx *EdgeIndex) Contains(p Point) bool { return idx.polys.Contains(p) }

// Near reports whether some edge lies strictly closer than r to p.
func (idx *EdgeIndex) Near(p Point, r int64) bool {
	if idx.Empty() || r <= 0 {
		return false
	}
	r2 := r * r
	pad := r + 2
	lo, hi := idx.key(Point{p.X - pad, p.Y - pad}), idx.key(Point{p.X + pad, p.Y + pad})
	for y := lo.y; y <= hi.y; y++ {
		for x := lo.x; x <= hi.x; x++ {
			for _, id := range idx.grid[cellKey{x, y}] {
				e := idx.edges[id]
				if SegmentDist2(p, e.a, e.b) < r2 {
					return true
				}
			}
		}
	}
	return false
}

// Closest returns the boundary point nearest to p and its squared distance.
// ok is false when the index is empty.
func (idx *EdgeIndex) Closest(p Point) (closest Point, dist2 int64, ok bool) {
	if idx.Empty() {
		return Point{}, 0, false
	}
	dist2 = math.MaxInt64
	c := idx.key(p)
	lo, hi := idx.key(idx.bounds.Min), idx.key(idx.bounds.Max)
	reach := max(abs(c.x-lo.x), abs(c.x-hi.x), abs(c.y-lo.y), abs(c.y-hi.y))
	for ring := int64(0); ring <= reach; ring++ {
		for y := c.y - ring; y <= c.y+ring; y++ {
			step := int64(1)
			if y != c.y-ring && y != c.y+ring {
				step = 2 * ring
			}
			for x := c.x - ring; x <= c.x+ring; x += max(step, 1) {
				for _, id := range idx.grid[cellKey{x, y}] {
					e := idx.edges[id]
					q := ClosestOnSegment(p, e.a, e.b)
					if d := p.Dist2(q); d < dist2 {
						closest, dist2, ok = q, d, true
					}
				}
			}
		}
		// Unvisited cells are at least ring*cell away from p.
		if lim := ring*idx.cell - 2; ok && lim > 0 && dist2 <= lim*lim {
			break
		}
	}
	return closest, dist2, ok
}

// CrossesSegment reports whether segment ab properly crosses an indexed edge.
func (idx *EdgeIndex) CrossesSegment(a, b Point) bool {
	lo, hi := idx.key(Point{min(a.X, b.X), min(a.Y, b.Y)}), idx.key(Point{max(a.X, b.X), max(a.Y, b.Y)})
	for y := lo.y; y <= hi.y; y++ {
		for x := lo.x; x <= hi.x; x++ {
			for _, id := range idx.grid[cellKey{x, y}] {
				e := idx.edges[id]
				if SegmentsCross(a, b, e.a, e.b) {
					return true
				}
			}
		}
	}
	return false
}

// ContainsSegment reports whether segment ab stays inside the polygons.
func (idx *EdgeIndex) ContainsSegment(a, b Point) bool {
	return idx.Contains(a) && idx.Contains(b) && !idx.CrossesSegment(a, b)
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

package geometry

import (
	"cmp"
	"slices"
)

type scanEdge struct {
	lo, hi Point // lo.Y < hi.Y
	dir    int
}

type crossing struct {
	k   int64 // lattice column of the first sample at or right of the crossing
	dir int
}

// SampleGrid returns the lattice points of the given spacing that lie inside
// polys, in row-major order. Inside-ness follows the nonzero winding rule
// with half-open edges: samples on a left or bottom boundary are included,
// samples on a right or top boundary are not.
func SampleGrid(polys Polygons, spacing int64) []Point {
	if spacing <= 0 || polys.Empty() {
		return nil
	}
	var edges []scanEdge
	for a, b := range polys.Edges() {
		switch {
		case a.Y < b.Y:
			edges = append(edges, scanEdge{lo: a, hi: b, dir: 1})
		case a.Y > b.Y:
			edges = append(edges, scanEdge{lo: b, hi: a, dir: -1})
		}
	}
	if len(edges) == 0 {
		return nil
	}
	slices.SortFunc(edges, func(a, b scanEdge) int { return cmp.Compare(a.lo.Y, b.lo.Y) })

	bounds := polys.Bounds()
	var (
		out    []Point
		active []scanEdge
		xs     []crossing
		next   int
	)
	for row := ceilDiv(bounds.Min.Y, spacing); row*spacing < bounds.Max.Y; row++ {
		y := row * spacing
		for next < len(edges) && edges[next].lo.Y <= y {
			active = append(active, edges[next])
			next++
		}
		active = slices.DeleteFunc(active, func(e scanEdge) bool { return e.hi.Y <= y })

		xs = xs[:0]
		for _, e := range active {
			num := (y - e.lo.Y) * (e.hi.X - e.lo.X)
			cx := e.lo.X + ceilDiv(num, e.hi.Y-e.lo.Y)
			xs = append(xs, crossing{k: ceilDiv(cx, spacing), dir: e.dir})
		}
		slices.SortFunc(xs, func(a, b crossing) int { return cmp.Compare(a.k, b.k) })

		w := 0
		for i, c := range xs {
			w += c.dir
			if w == 0 || i+1 == len(xs) {
				continue
			}
			for k := c.k; k < xs[i+1].k; k++ {
				out = append(out, Point{k * spacing, y})
			}
		}
	}
	return out
}

// SampleRegion samples polys into a region at the given spacing.
func SampleRegion(polys Polygons, spacing int64) Region {
	return Region{spacing: spacing, cells: SampleGrid(polys, spacing)}
}

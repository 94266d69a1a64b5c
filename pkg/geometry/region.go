package geometry

import (
	"cmp"
	"slices"
)

// Region is a set of lattice cells. Each cell is a square of side Spacing
// centred on a lattice point whose coordinates are multiples of Spacing.
//
// Regions are immutable; the operations below return new values.
type Region struct {
	spacing int64
	cells   []Point // lattice points, sorted by (Y, X), unique
}

// NewRegion builds a region from lattice points. Points are snapped to the
// nearest lattice point, sorted and deduplicated. A non-positive spacing
// yields an empty region.
func NewRegion(spacing int64, pts []Point) Region {
	if spacing <= 0 {
		return Region{}
	}
	cells := make([]Point, 0, len(pts))
	for _, p := range pts {
		cells = append(cells, snap(p, spacing))
	}
	slices.SortFunc(cells, compareRowMajor)
	cells = slices.Compact(cells)
	return Region{spacing: spacing, cells: cells}
}

func compareRowMajor(a, b Point) int {
	if c := cmp.Compare(a.Y, b.Y); c != 0 {
		return c
	}
	return cmp.Compare(a.X, b.X)
}

func snap(p Point, s int64) Point {
	h := s / 2
	return Point{floorDiv(p.X+h, s) * s, floorDiv(p.Y+h, s) * s}
}

// Spacing returns the lattice spacing of the region.
func (r Region) Spacing() int64 { return r.spacing }

// Len returns the number of cells.
func (r Region) Len() int { return len(r.cells) }

// Empty reports whether the region has no cells.
func (r Region) Empty() bool { return len(r.cells) == 0 }

// Area returns the covered area in square units.
func (r Region) Area() int64 { return int64(len(r.cells)) * r.spacing * r.spacing }

// Points returns a copy of the cell centres in row-major order.
func (r Region) Points() []Point { return slices.Clone(r.cells) }

// Contains reports whether p falls inside one of the region's cells.
func (r Region) Contains(p Point) bool {
	if r.Empty() {
		return false
	}
	_, ok := slices.BinarySearchFunc(r.cells, snap(p, r.spacing), compareRowMajor)
	return ok
}

// Bounds returns the bounding box of the cells, including their extent.
func (r Region) Bounds() Box {
	b := EmptyBox()
	if r.Empty() {
		return b
	}
	h := r.spacing / 2
	for _, c := range r.cells {
		b = b.Extend(Point{c.X - h, c.Y - h})
		b = b.Extend(Point{c.X - h + r.spacing, c.Y - h + r.spacing})
	}
	return b
}

// Equal reports whether r and o hold the same cells at the same spacing.
func (r Region) Equal(o Region) bool {
	if r.Empty() && o.Empty() {
		return true
	}
	return r.spacing == o.spacing && slices.Equal(r.cells, o.cells)
}

// Polygons returns the region as counter-clockwise rectangles, one per run of
// horizontally adjacent cells.
func (r Region) Polygons() Polygons {
	var out Polygons
	h := r.spacing / 2
	flush := func(first, last Point) {
		out = append(out, Rect(
			Point{first.X - h, first.Y - h},
			Point{last.X - h + r.spacing, last.Y - h + r.spacing},
		))
	}
	for i := 0; i < len(r.cells); {
		j := i
		for j+1 < len(r.cells) && r.cells[j+1].Y == r.cells[i].Y &&
			r.cells[j+1].X == r.cells[j].X+r.spacing {
			j++
		}
		flush(r.cells[i], r.cells[j])
		i = j + 1
	}
	return out
}

// Package geometry provides the fixed-point 2D primitives used by the
// lightning infill generator.
//
// # Coordinates
//
// All coordinates are integers in nanometres ([UnitsPerMM] units per
// millimetre), matching the scaled coordinate space of the slicer that
// produces the layer outlines. Every predicate in this package (containment,
// orientation, segment crossing, nearest-point queries) is computed with
// integer arithmetic so that two machines generating the same print produce
// bit-identical trees. Where an intermediate product can exceed 64 bits,
// [MulDiv] computes it with a 128-bit intermediate.
//
// Coordinates must stay within ±1e9 units (one metre) so that squared
// distances and cross products fit in an int64.
//
// # Polygons
//
// [Polygon] is a closed ring of points; [Polygons] is a set of rings with
// nonzero-winding semantics, so holes are expressed by reversing their
// orientation. Points on the boundary count as inside.
//
// # Regions
//
// [Region] is a sampled polygon set: a set of square lattice cells of side
// Region.Spacing, each centred on a lattice point (a multiple of the spacing
// on both axes). Overhang areas are produced as regions because their only
// consumer samples them at the same lattice, and because boolean combinations
// of regions are exact. [Region.Polygons] converts a region back into
// axis-aligned rectangles for export and rendering.
//
// # Sampling
//
// [SampleGrid] rasterises polygons onto the lattice with a half-open
// scanline rule: a lattice point on a left or bottom edge is inside, one on a
// right or top edge is not. Adjacent polygons therefore never share a sample.
//
// # Spatial lookups
//
// [EdgeIndex] buckets polygon edges into a uniform grid to answer
// "nearest boundary point" and "is any edge within r" queries without
// scanning every edge.
package geometry

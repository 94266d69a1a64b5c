// Package overhang derives, for every layer of a sliced object, the region
// of infill area that must be reached by a support tree.
//
// # Definition
//
// Layer L is sampled on a square lattice. A lattice point p of layer L is an
// overhang point when all of the following hold:
//
//  1. p lies in the interior (infill-eligible area) of layer L;
//  2. p is at least WallSupportingRadius away from the wall boundary of
//     layer L, that is, from the interior outline and from any explicit wall
//     polygons, since walls carry the material above them up to that
//     distance;
//  3. the layer above does not continue the infill at p, and when the layer
//     above supplies wall or skin polygons, p lies under them. The topmost
//     layer treats everything above it as solid.
//
// Branches reaching down from the layer above already run through
// continuing infill, so condition 3 keeps the region limited to material
// that newly needs support.
//
// # Concurrency
//
// [Calculator.Layer] is a pure function of the object's geometry.
// [Calculator.All] computes every layer concurrently with a bounded errgroup.
package overhang

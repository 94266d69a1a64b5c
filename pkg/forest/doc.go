// Package forest implements the per-layer support trees of lightning infill.
//
// A [Forest] owns the trees of one layer. Trees are built from the top of
// the object downward: [Grow] takes the finished forest of the layer above,
// copies it into a fresh forest for the current layer and then
//
//  1. realigns it to the current interior: nodes outside the interior are
//     dropped and edges that would cross the boundary are cut, their lower
//     ends becoming roots;
//  2. covers the layer's overhang: every sample point not already within
//     the supporting radius of a propagated node is attached to the nearest
//     node whose connecting edge stays inside the interior, or becomes a new
//     root when no node is in reach;
//  3. updates the need counters: nodes created on this layer and nodes that
//     received a child are reset to zero, all others grow by the layer
//     thickness;
//  4. prunes leaves whose counter exceeds the prune length, cascading up
//     through ancestors left childless, and re-covers any sample point whose
//     covering node was pruned;
//  5. straightens single-child chains toward the chord between their ends,
//     moving each node by at most the straightening distance.
//
// The forest of the layer above is never modified, so each layer can be
// grown and tested in isolation.
//
// # Nodes
//
// Nodes are allocated from an arena owned by their forest. A node links up
// to its parent for traversal while the parent owns its children; a root
// has no parent. Nodes are never shared between forests.
//
// # Spatial index
//
// Nearest-node queries go through a k-d tree (gonum.org/v1/gonum/spatial/kdtree)
// that is rebuilt per layer. The tree narrows the candidates; ranking uses
// exact integer distances so the result does not depend on floating point
// rounding or on the shape of the tree.
//
// # Determinism
//
// Growth is deterministic: sample points are processed in a fixed order and
// equidistant candidates (within Config.TieTolerance) are ranked by subtree
// size, then by creation order.
package forest

// Package model describes the sliced input consumed by the lightning infill
// generator.
//
// A [Print] holds one or more [Object]s; each object is an ordered stack of
// [Layer]s indexed bottom to top. A layer carries the geometry produced by
// the upstream slicer for that height:
//
//   - Interior: the infill-eligible area, where support trees may grow
//   - Walls: perimeter geometry; when empty, the interior outline stands in
//     for the innermost wall
//   - Skin: solid top and bottom surfaces
//
// plus its Thickness. All geometry uses the fixed-point coordinates of
// package geometry. The package holds data only: the generator never mutates
// a layer after it is handed in.
package model

// Package render draws lightning forests.
//
// # Layer Images
//
// [RenderLayer] draws one layer with gonum/plot: the interior outline, the
// sampled overhang cells, every tree edge, the roots and the segments from
// grounded roots to the wall they rest on. Images are produced as SVG, PNG
// or PDF:
//
//	view := render.LayerView{Layer: 12, Interior: l.Interior, Overhang: oh, Forest: f.Snapshot()}
//	svg, err := render.RenderLayer(view, render.FormatSVG, render.Options{})
//
// Axes are in millimetres with equal scale on both axes.
//
// # Tree Topology
//
// [ToDOT] converts a forest snapshot to Graphviz DOT, one cluster per tree,
// and [RenderDOT] renders DOT to SVG with the embedded Graphviz:
//
//	dot := render.ToDOT(f.Snapshot(), render.DOTOptions{Detailed: true})
//	svg, err := render.RenderDOT(dot)
package render

// Package pkg holds the libraries behind the lightning command.
//
// # Overview
//
// Lightning infill supports the top surfaces of a sliced print with sparse
// branching trees instead of a full infill pattern. The libraries are
// organized bottom-up:
//
//  1. [geometry] - fixed-point points, polygons and sampled regions
//  2. [model] - the sliced input: objects and their layers
//  3. [overhang] - which areas of each layer need support
//  4. [forest] - the support trees and how they grow from layer to layer
//  5. [lightning] - the per-object generator tying the above together
//  6. [pipeline] - import → generate → render, shared by CLI and server
//
// Around them sit [config] (TOML settings files), [io] (JSON formats),
// [render] (layer images and tree topology), [cache] (rendered artifact
// cache), [errors] and [observability].
//
// # Data Flow
//
//	print.json
//	     ↓
//	[io] ReadPrint → model.Print
//	     ↓
//	[overhang] per layer, in parallel
//	     ↓
//	[forest] Grow, top layer first
//	     ↓
//	[lightning] Generator.Layer(id)
//	     ↓
//	forests.json / SVG / PNG / PDF / DOT
//
// # Quick Start
//
//	p, _ := io.ImportPrint("print.json")
//	g, _ := lightning.New(ctx, &p.Objects[0], lightning.DefaultSettings())
//	f, _ := g.Layer(12)
//	for seg := range slices.Values(f.Segments()) {
//	    // print the branch from seg[0] to seg[1]
//	}
//
// [geometry]: github.com/simar1998/OrcaSlicer-C3PD/pkg/geometry
// [model]: github.com/simar1998/OrcaSlicer-C3PD/pkg/model
// [overhang]: github.com/simar1998/OrcaSlicer-C3PD/pkg/overhang
// [forest]: github.com/simar1998/OrcaSlicer-C3PD/pkg/forest
// [lightning]: github.com/simar1998/OrcaSlicer-C3PD/pkg/lightning
// [pipeline]: github.com/simar1998/OrcaSlicer-C3PD/pkg/pipeline
// [config]: github.com/simar1998/OrcaSlicer-C3PD/pkg/config
// [io]: github.com/simar1998/OrcaSlicer-C3PD/pkg/io
// [render]: github.com/simar1998/OrcaSlicer-C3PD/pkg/render
// [cache]: github.com/simar1998/OrcaSlicer-C3PD/pkg/cache
// [errors]: github.com/simar1998/OrcaSlicer-C3PD/pkg/errors
// [observability]: github.com/simar1998/OrcaSlicer-C3PD/pkg/observability
package pkg

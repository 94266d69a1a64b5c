package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/simar1998/OrcaSlicer-C3PD/pkg/forest"
	"github.com/simar1998/OrcaSlicer-C3PD/pkg/geometry"
)

// DOTOptions configures tree topology rendering.
type DOTOptions struct {
	// Detailed adds positions and need counters to node labels.
	// When false, only the node id is shown.
	Detailed bool
}

// ToDOT converts a forest snapshot to Graphviz DOT. Each tree is a cluster
// with its root on top and edges pointing from parent to child.
//
// Roots resting on the wall are drawn with a double outline.
func ToDOT(s forest.Snapshot, opts DOTOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.1,0.05\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.2;\n")

	tree := -1
	for _, n := range s.Nodes {
		if n.Parent < 0 {
			if tree >= 0 {
				buf.WriteString("  }\n")
			}
			tree++
			fmt.Fprintf(&buf, "\n  subgraph cluster_%d {\n", tree)
			fmt.Fprintf(&buf, "    label=\"tree %d\";\n", tree)
			buf.WriteString("    style=dashed;\n")
		}
		fmt.Fprintf(&buf, "    n%d [%s];\n", n.ID, strings.Join(fmtAttrs(n, opts.Detailed), ", "))
	}
	if tree >= 0 {
		buf.WriteString("  }\n")
	}

	buf.WriteString("\n")
	for _, n := range s.Nodes {
		if n.Parent >= 0 {
			fmt.Fprintf(&buf, "  n%d -> n%d;\n", n.Parent, n.ID)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n forest.NodeData, detailed bool) string {
	label := strconv.Itoa(n.ID)
	if !detailed {
		return label
	}
	parts := []string{label, n.Pos.String()}
	if n.SinceNeed > 0 {
		parts = append(parts, fmt.Sprintf("since need: %.3f", geometry.ToMM(n.SinceNeed)))
	}
	if n.Ground != nil {
		parts = append(parts, "ground: "+n.Ground.String())
	}
	return strings.Join(parts, "\n")
}

func fmtAttrs(n forest.NodeData, detailed bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n, detailed))}
	if n.Parent < 0 {
		attrs = append(attrs, "fillcolor=\"#f6d5d8\"")
		if n.Ground != nil {
			attrs = append(attrs, "peripheries=2")
		}
	}
	return attrs
}

// RenderDOT renders a DOT graph to SVG using Graphviz.
func RenderDOT(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the image scales from a
// zero origin.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

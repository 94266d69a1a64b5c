package render

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/simar1998/OrcaSlicer-C3PD/pkg/errors"
	"github.com/simar1998/OrcaSlicer-C3PD/pkg/forest"
	"github.com/simar1998/OrcaSlicer-C3PD/pkg/geometry"
)

// Image formats produced by RenderLayer.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
	FormatPDF = "pdf"
)

// Default image size in points.
const (
	DefaultWidth  = 600.0
	DefaultHeight = 600.0
)

var (
	interiorColor = color.RGBA{R: 0xe8, G: 0xee, B: 0xf4, A: 0xff}
	outlineColor  = color.RGBA{R: 0x55, G: 0x60, B: 0x6e, A: 0xff}
	overhangColor = color.RGBA{R: 0xf2, G: 0x9e, B: 0x4c, A: 0x99}
	edgeColor     = color.RGBA{R: 0x1f, G: 0x5f, B: 0xbf, A: 0xff}
	rootColor     = color.RGBA{R: 0xc0, G: 0x1c, B: 0x28, A: 0xff}
	groundColor   = color.RGBA{R: 0x26, G: 0xa2, B: 0x69, A: 0xff}
)

// LayerView is what RenderLayer draws.
type LayerView struct {
	Object   string
	Layer    int
	Interior geometry.Polygons
	Overhang geometry.Region
	Forest   forest.Snapshot
}

// Options configures layer images.
type Options struct {
	Width  float64 // points; DefaultWidth when zero
	Height float64 // points; DefaultHeight when zero
	// HideOverhang omits the overhang cells.
	HideOverhang bool
}

// RenderLayer draws v in the given format.
func RenderLayer(v LayerView, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG, FormatPNG, FormatPDF:
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported image format %q", format)
	}
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}

	p, err := layerPlot(v, opts)
	if err != nil {
		return nil, err
	}
	wt, err := p.WriterTo(vg.Points(opts.Width), vg.Points(opts.Height), format)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

func layerPlot(v LayerView, opts Options) (*plot.Plot, error) {
	p := plot.New()
	if v.Object != "" {
		p.Title.Text = fmt.Sprintf("%s layer %d", v.Object, v.Layer)
	} else {
		p.Title.Text = fmt.Sprintf("layer %d", v.Layer)
	}
	p.X.Label.Text = "x (mm)"
	p.Y.Label.Text = "y (mm)"

	if !v.Interior.Empty() {
		poly, err := plotter.NewPolygon(rings(v.Interior)...)
		if err != nil {
			return nil, fmt.Errorf("interior: %w", err)
		}
		poly.Color = interiorColor
		poly.LineStyle.Color = outlineColor
		poly.LineStyle.Width = vg.Points(1)
		p.Add(poly)
	}

	if !opts.HideOverhang && !v.Overhang.Empty() {
		cells, err := plotter.NewPolygon(rings(v.Overhang.Polygons())...)
		if err != nil {
			return nil, fmt.Errorf("overhang: %w", err)
		}
		cells.Color = overhangColor
		cells.LineStyle.Color = overhangColor
		p.Add(cells)
		p.Legend.Add("overhang", cells)
	}

	var edges, grounds segments
	var roots plotter.XYs
	for _, n := range v.Forest.Nodes {
		if n.Parent < 0 {
			roots = append(roots, xy(n.Pos))
			if n.Ground != nil {
				grounds.lines = append(grounds.lines, [2]plotter.XY{xy(n.Pos), xy(*n.Ground)})
			}
			continue
		}
		edges.lines = append(edges.lines, [2]plotter.XY{xy(n.Pos), xy(v.Forest.Nodes[n.Parent].Pos)})
	}
	if len(edges.lines) > 0 {
		edges.LineStyle = draw.LineStyle{Color: edgeColor, Width: vg.Points(1.2)}
		p.Add(&edges)
		p.Legend.Add("branches", &edges)
	}
	if len(grounds.lines) > 0 {
		grounds.LineStyle = draw.LineStyle{Color: groundColor, Width: vg.Points(1), Dashes: []vg.Length{vg.Points(2), vg.Points(2)}}
		p.Add(&grounds)
	}
	if len(roots) > 0 {
		sc, err := plotter.NewScatter(roots)
		if err != nil {
			return nil, fmt.Errorf("roots: %w", err)
		}
		sc.GlyphStyle = draw.GlyphStyle{Color: rootColor, Radius: vg.Points(2), Shape: draw.CircleGlyph{}}
		p.Add(sc)
		p.Legend.Add("roots", sc)
	}

	square(p, v)
	return p, nil
}

// square fits both axes to the same span so one millimetre has the same
// length horizontally and vertically.
func square(p *plot.Plot, v LayerView) {
	b := v.Interior.Bounds().Union(v.Overhang.Bounds())
	for _, n := range v.Forest.Nodes {
		b = b.Extend(n.Pos)
	}
	if b.Empty() {
		return
	}
	x0, y0 := b.Min.MM()
	x1, y1 := b.Max.MM()
	span := math.Max(x1-x0, y1-y0)
	if span == 0 {
		span = 1
	}
	pad := span * 0.05
	cx, cy := (x0+x1)/2, (y0+y1)/2
	p.X.Min, p.X.Max = cx-span/2-pad, cx+span/2+pad
	p.Y.Min, p.Y.Max = cy-span/2-pad, cy+span/2+pad
}

func xy(p geometry.Point) plotter.XY {
	x, y := p.MM()
	return plotter.XY{X: x, Y: y}
}

func rings(ps geometry.Polygons) []plotter.XYer {
	out := make([]plotter.XYer, 0, len(ps))
	for _, ring := range ps {
		pts := make(plotter.XYs, len(ring))
		for i, p := range ring {
			pts[i] = xy(p)
		}
		out = append(out, pts)
	}
	return out
}

// segments draws unconnected line segments.
type segments struct {
	lines [][2]plotter.XY
	draw.LineStyle
}

// Plot implements plot.Plotter.
func (s *segments) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	for _, l := range s.lines {
		line := []vg.Point{
			{X: trX(l[0].X), Y: trY(l[0].Y)},
			{X: trX(l[1].X), Y: trY(l[1].Y)},
		}
		c.StrokeLines(s.LineStyle, c.ClipLinesXY(line)...)
	}
}

// DataRange implements plot.DataRanger.
func (s *segments) DataRange() (xmin, xmax, ymin, ymax float64) {
	xmin, ymin = math.Inf(1), math.Inf(1)
	xmax, ymax = math.Inf(-1), math.Inf(-1)
	for _, l := range s.lines {
		for _, p := range l {
			xmin, xmax = math.Min(xmin, p.X), math.Max(xmax, p.X)
			ymin, ymax = math.Min(ymin, p.Y), math.Max(ymax, p.Y)
		}
	}
	return
}

// Thumbnail implements plot.Thumbnailer.
func (s *segments) Thumbnail(c *draw.Canvas) {
	y := c.Center().Y
	c.StrokeLine2(s.LineStyle, c.Min.X, y, c.Max.X, y)
}

package overhang

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/simar1998/OrcaSlicer-C3PD/pkg/errors"
	"github.com/simar1998/OrcaSlicer-C3PD/pkg/geometry"
	"github.com/simar1998/OrcaSlicer-C3PD/pkg/model"
)

// Config holds the parameters of the overhang derivation.
type Config struct {
	// Spacing is the sampling lattice spacing in coordinate units.
	Spacing int64
	// WallSupportingRadius is how far walls carry the material above them.
	WallSupportingRadius int64
}

// Validate checks that the configuration can be used.
func (c Config) Validate() error {
	if c.Spacing <= 0 {
		return errors.New(errors.ErrCodeInvalidSettings, "sample spacing must be positive, got %d", c.Spacing)
	}
	if c.WallSupportingRadius < 0 {
		return errors.New(errors.ErrCodeInvalidSettings, "wall supporting radius must not be negative, got %d", c.WallSupportingRadius)
	}
	return nil
}

// Calculator computes overhang regions.
type Calculator struct {
	cfg Config
}

// NewCalculator returns a calculator for cfg.
func NewCalculator(cfg Config) (*Calculator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Calculator{cfg: cfg}, nil
}

// Config returns the calculator's configuration.
func (c *Calculator) Config() Config { return c.cfg }

// Layer returns the overhang region of layer i of obj. A layer without
// interior, or an index outside the object, yields an empty region.
func (c *Calculator) Layer(obj *model.Object, i int) geometry.Region {
	if i < 0 || i >= len(obj.Layers) {
		return geometry.NewRegion(c.cfg.Spacing, nil)
	}
	layer := obj.Layers[i]
	samples := geometry.SampleGrid(layer.Interior, c.cfg.Spacing)
	if len(samples) == 0 {
		return geometry.NewRegion(c.cfg.Spacing, nil)
	}

	boundary := make(geometry.Polygons, 0, len(layer.Interior)+len(layer.Walls))
	boundary = append(boundary, layer.Interior...)
	boundary = append(boundary, layer.Walls...)
	cell := c.cfg.WallSupportingRadius
	if cell <= 0 {
		cell = 4 * c.cfg.Spacing
	}
	walls := geometry.NewEdgeIndex(boundary, cell)

	var above *aboveLayer
	if i+1 < len(obj.Layers) {
		above = newAboveLayer(obj.Layers[i+1], cell)
	}

	out := samples[:0]
	for _, p := range samples {
		if walls.Near(p, c.cfg.WallSupportingRadius) {
			continue
		}
		if above != nil && !above.needsSupport(p) {
			continue
		}
		out = append(out, p)
	}
	return geometry.NewRegion(c.cfg.Spacing, out)
}

type aboveLayer struct {
	interior *geometry.EdgeIndex
	solid    *geometry.EdgeIndex
}

func newAboveLayer(l model.Layer, cell int64) *aboveLayer {
	a := &aboveLayer{interior: geometry.NewEdgeIndex(l.Interior, cell)}
	if solid := l.Solid(); !solid.Empty() {
		a.solid = geometry.NewEdgeIndex(solid, cell)
	}
	return a
}

// needsSupport reports whether material above p rests on this layer.
func (a *aboveLayer) needsSupport(p geometry.Point) bool {
	if a.interior.Contains(p) {
		return false
	}
	if a.solid != nil {
		return a.solid.Contains(p)
	}
	return true
}

// All computes the overhang region of every layer of obj, running up to
// parallelism layers at once (GOMAXPROCS when parallelism <= 0). Regions are
// returned in layer order.
func (c *Calculator) All(ctx context.Context, obj *model.Object, parallelism int) ([]geometry.Region, error) {
	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}
	out := make([]geometry.Region, len(obj.Layers))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for i := range obj.Layers {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = c.Layer(obj, i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

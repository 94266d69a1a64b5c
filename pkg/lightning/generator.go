package lightning

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/simar1998/OrcaSlicer-C3PD/pkg/errors"
	"github.com/simar1998/OrcaSlicer-C3PD/pkg/forest"
	"github.com/simar1998/OrcaSlicer-C3PD/pkg/geometry"
	"github.com/simar1998/OrcaSlicer-C3PD/pkg/model"
	"github.com/simar1998/OrcaSlicer-C3PD/pkg/observability"
	"github.com/simar1998/OrcaSlicer-C3PD/pkg/overhang"
)

// Generator holds the finished lightning forests of one object.
type Generator struct {
	obj      *model.Object
	settings Settings
	runID    string

	overhangs []geometry.Region
	forests   []*forest.Forest
	layers    []forest.LayerStats
	duration  time.Duration

	logger      *log.Logger
	parallelism int
	constructed bool
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger used during construction.
func WithLogger(l *log.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithRunID overrides the generated run id.
func WithRunID(id string) Option {
	return func(g *Generator) {
		if id != "" {
			g.runID = id
		}
	}
}

// WithParallelism bounds the number of layers whose overhang is computed at
// once. Zero or less means GOMAXPROCS.
func WithParallelism(n int) Option {
	return func(g *Generator) { g.parallelism = n }
}

// Stats summarises a construction.
type Stats struct {
	Layers         []forest.LayerStats
	Nodes          int
	Roots          int
	OverhangPoints int
	Length         int64 // total branch length in coordinate units
	Duration       time.Duration
}

// New constructs the generator for obj: overhangs for every layer, then the
// forests from the top layer down. obj must not be modified afterwards.
//
// Cancelling ctx aborts construction; no partial generator is returned.
func New(ctx context.Context, obj *model.Object, s Settings, opts ...Option) (*Generator, error) {
	if obj == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "nil object")
	}
	if err := obj.Validate(); err != nil {
		return nil, err
	}
	s = s.WithDefaults()
	if err := s.Validate(); err != nil {
		return nil, err
	}

	g := &Generator{
		obj:      obj,
		settings: s,
		runID:    uuid.NewString(),
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(g)
	}

	hooks := observability.Generator()
	hooks.OnConstructStart(ctx, obj.Name, obj.LayerCount())
	start := time.Now()
	err := g.construct(ctx)
	g.duration = time.Since(start)
	nodes := 0
	for _, st := range g.layers {
		nodes += st.Nodes
	}
	hooks.OnConstructComplete(ctx, obj.Name, nodes, g.duration, err)
	if err != nil {
		return nil, err
	}
	g.constructed = true

	g.logger.Info("constructed lightning infill",
		"object", obj.Name,
		"layers", obj.LayerCount(),
		"nodes", nodes,
		"duration", g.duration.Round(time.Millisecond),
		"run", g.runID)
	return g, nil
}

func (g *Generator) construct(ctx context.Context) error {
	calc, err := overhang.NewCalculator(g.settings.overhangConfig())
	if err != nil {
		return err
	}

	start := time.Now()
	g.overhangs, err = calc.All(ctx, g.obj, g.parallelism)
	if err != nil {
		return fmt.Errorf("overhang: %w", err)
	}
	points := 0
	for _, r := range g.overhangs {
		points += r.Len()
	}
	observability.Generator().OnOverhangComplete(ctx, g.obj.Name, points, time.Since(start))
	g.logger.Debug("computed overhangs", "object", g.obj.Name, "points", points)

	n := g.obj.LayerCount()
	g.forests = make([]*forest.Forest, n)
	g.layers = make([]forest.LayerStats, n)
	cfg := g.settings.forestConfig()

	var above *forest.Forest
	for i := n - 1; i >= 0; i-- {
		if err := ctx.Err(); err != nil {
			return err
		}
		l := g.obj.Layers[i]
		f, st := forest.Grow(above, forest.LayerInput{
			Interior:  l.Interior,
			Overhang:  g.overhangs[i],
			Thickness: l.Thickness,
		}, cfg)
		g.forests[i], g.layers[i] = f, st
		above = f

		observability.Generator().OnLayerGrown(ctx, g.obj.Name, i, st.Nodes, st.Roots)
		g.logger.Debug("grew layer",
			"layer", i,
			"nodes", st.Nodes,
			"roots", st.Roots,
			"new", st.NewRoots,
			"attached", st.Attached,
			"pruned", st.Pruned,
			"dropped", st.Dropped)
	}
	return nil
}

func (g *Generator) check(id int) error {
	if g == nil || !g.constructed {
		return errors.New(errors.ErrCodeNotConstructed, "generator has not been constructed")
	}
	if id < 0 || id >= len(g.forests) {
		return errors.New(errors.ErrCodeInvalidLayer, "layer %d out of range [0, %d)", id, len(g.forests))
	}
	return nil
}

// Layer returns the forest of layer id. The forest is shared and exposes
// only queries.
func (g *Generator) Layer(id int) (*forest.Forest, error) {
	if err := g.check(id); err != nil {
		return nil, err
	}
	return g.forests[id], nil
}

// Overhang returns the sampled overhang of layer id.
func (g *Generator) Overhang(id int) (geometry.Region, error) {
	if err := g.check(id); err != nil {
		return geometry.Region{}, err
	}
	return g.overhangs[id], nil
}

// LayerStats returns what happened while growing layer id.
func (g *Generator) LayerStats(id int) (forest.LayerStats, error) {
	if err := g.check(id); err != nil {
		return forest.LayerStats{}, err
	}
	return g.layers[id], nil
}

// LayerCount returns the number of layers of the object.
func (g *Generator) LayerCount() int {
	if g == nil {
		return 0
	}
	return len(g.forests)
}

// Stats summarises the construction.
func (g *Generator) Stats() Stats {
	if g == nil {
		return Stats{}
	}
	s := Stats{Layers: append([]forest.LayerStats(nil), g.layers...), Duration: g.duration}
	for i, st := range g.layers {
		s.Nodes += st.Nodes
		s.Roots += st.Roots
		s.OverhangPoints += g.overhangs[i].Len()
		s.Length += g.forests[i].Length()
	}
	return s
}

// RunID identifies the construction in logs and exports.
func (g *Generator) RunID() string { return g.runID }

// Settings returns the effective settings, defaults applied.
func (g *Generator) Settings() Settings { return g.settings }

// Object returns the object the generator was built for.
func (g *Generator) Object() *model.Object { return g.obj }

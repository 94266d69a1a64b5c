package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/simar1998/OrcaSlicer-C3PD/pkg/io"
	"github.com/simar1998/OrcaSlicer-C3PD/pkg/lightning"
	"github.com/simar1998/OrcaSlicer-C3PD/pkg/model"
	"github.com/simar1998/OrcaSlicer-C3PD/pkg/observability"
)

// Runner encapsulates pipeline execution.
//
// The Runner is stateless except for the logger - it doesn't store pipeline
// results. Multiple goroutines can safely use the same Runner with different
// options.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. If logger is nil, log.Default() is used.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Execute runs the complete generate → render pipeline.
func (r *Runner) Execute(ctx context.Context, p *model.Print, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{}

	// Stage 1: Generate
	genStart := time.Now()
	gens, err := r.Generate(ctx, p, opts)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	result.Generators = gens
	result.Stats.GenerateTime = time.Since(genStart)
	result.Stats.Objects = len(gens)
	for _, g := range gens {
		result.Stats.Layers += g.LayerCount()
		result.Stats.Nodes += g.Stats().Nodes
	}

	r.Logger.Info("generated lightning infill",
		"objects", result.Stats.Objects,
		"layers", result.Stats.Layers,
		"nodes", result.Stats.Nodes,
		"duration", result.Stats.GenerateTime)

	// Stage 2: Render
	renderStart := time.Now()
	objs := make([]io.ObjectForests, len(gens))
	for i, g := range gens {
		if objs[i], err = io.FromGenerator(g, selectLayers(opts.Layers, g.LayerCount())); err != nil {
			return nil, fmt.Errorf("export %s: %w", g.Object().Name, err)
		}
	}
	artifacts, err := r.Render(ctx, objs, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"artifacts", len(artifacts),
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Generate constructs one generator per object of p, up to
// opts.Parallelism objects at once. Generators are returned in print order.
func (r *Runner) Generate(ctx context.Context, p *model.Print, opts Options) (gens []*lightning.Generator, err error) {
	if err := opts.ValidateForGenerate(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)
	if err := p.Validate(); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnGenerateStart(ctx, len(p.Objects))
	start := time.Now()
	defer func() { hooks.OnGenerateComplete(ctx, len(p.Objects), time.Since(start), err) }()

	limit := opts.Parallelism
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	out := make([]*lightning.Generator, len(p.Objects))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i := range p.Objects {
		obj := &p.Objects[i]
		g.Go(func() error {
			gen, err := lightning.New(gctx, obj, opts.Settings,
				lightning.WithLogger(opts.Logger.With("object", obj.Name)))
			if err != nil {
				return fmt.Errorf("object %s: %w", obj.Name, err)
			}
			out[i] = gen
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

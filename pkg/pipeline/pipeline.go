// Package pipeline provides the generate-and-export pipeline for lightning
// infill.
//
// This package implements the complete import → generate → render pipeline
// used by the CLI and the query server. By centralizing this logic, every
// entry point produces the same artifacts for the same print and settings.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Generate: construct one lightning.Generator per object, objects in
//     parallel
//  2. Render: export forests as JSON and draw selected layers as images or
//     Graphviz DOT
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
//	runner := pipeline.NewRunner(logger)
//	opts := pipeline.Options{
//	    Settings: lightning.DefaultSettings(),
//	    Formats:  []string{"json", "svg"},
//	    Layers:   []int{10, 11, 12},
//	}
//	result, err := runner.Execute(ctx, print, opts)
//	for _, a := range result.Artifacts {
//	    os.WriteFile(a.Path, a.Data, 0o644)
//	}
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/simar1998/OrcaSlicer-C3PD/pkg/errors"
	"github.com/simar1998/OrcaSlicer-C3PD/pkg/lightning"
	"github.com/simar1998/OrcaSlicer-C3PD/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultWidth is the default image width in points.
	DefaultWidth = render.DefaultWidth

	// DefaultHeight is the default image height in points.
	DefaultHeight = render.DefaultHeight
)

// Format constants for output formats.
const (
	FormatJSON     = "json"
	FormatSVG      = render.FormatSVG
	FormatPNG      = render.FormatPNG
	FormatPDF      = render.FormatPDF
	FormatDOT      = "dot"
	FormatTopology = "topology"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON:     true,
	FormatSVG:      true,
	FormatPNG:      true,
	FormatPDF:      true,
	FormatDOT:      true,
	FormatTopology: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
type Options struct {
	// Generate options
	Settings    lightning.Settings
	Parallelism int // objects generated at once; GOMAXPROCS when zero

	// Render options
	Formats []string
	Layers  []int // layers drawn and exported; nil selects every layer
	Width   float64
	Height  float64

	// Runtime options
	Logger *log.Logger

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Generators holds one finished generator per object, in print order.
	Generators []*lightning.Generator

	// Artifacts contains rendered outputs in a stable order.
	Artifacts []Artifact

	// Stats contains timing and size information.
	Stats Stats
}

// Artifact is one rendered output.
type Artifact struct {
	Object string
	Layer  int // -1 for artifacts covering every layer
	Format string
	Path   string // relative output path
	Data   []byte
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Objects      int
	Layers       int
	Nodes        int
	GenerateTime time.Duration
	RenderTime   time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: json, svg, png, pdf, dot, topology)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated format list and validates it.
func ParseFormats(s string) ([]string, error) {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out, ValidateFormats(out)
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForGenerate(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForGenerate checks the generation settings.
func (o *Options) ValidateForGenerate() error {
	o.Settings = o.Settings.WithDefaults()
	if err := o.Settings.Validate(); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if o.Width < 0 || o.Height < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "image size must be positive")
	}
	for _, id := range o.Layers {
		if id < 0 {
			return errors.New(errors.ErrCodeInvalidRange, "negative layer %d", id)
		}
	}
	return ValidateFormats(o.Formats)
}

// HasImages reports whether any per-layer output is requested.
func (o *Options) HasImages() bool {
	for _, f := range o.Formats {
		if f != FormatJSON {
			return true
		}
	}
	return false
}

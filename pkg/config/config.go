// Package config reads and writes lightning settings files.
//
// Settings files are TOML with lengths in millimetres:
//
//	[lightning]
//	infill_extrusion_width = 0.4
//	infill_density = 20.0
//	layer_height = 0.2
//	overhang_angle = 45.0
//	prune_angle = 45.0
//	straightening_angle = 45.0
//	# supporting_radius = 2.0   (overrides the derived value)
//
//	[output]
//	formats = ["json"]
//	dir = "out"
//
// The radii are derived from the slicer parameters unless set explicitly.
// Unknown keys are rejected.
package config

import (
	"bytes"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/simar1998/OrcaSlicer-C3PD/pkg/errors"
	"github.com/simar1998/OrcaSlicer-C3PD/pkg/geometry"
	"github.com/simar1998/OrcaSlicer-C3PD/pkg/lightning"
)

// DefaultPath is the settings file looked up when none is given.
const DefaultPath = "lightning.toml"

// File is the content of a settings file.
type File struct {
	Lightning Lightning `toml:"lightning"`
	Output    Output    `toml:"output"`
}

// Lightning holds the generation parameters. Lengths are in millimetres,
// angles in degrees and density in percent. Zero-valued overrides are
// derived.
type Lightning struct {
	InfillExtrusionWidth float64 `toml:"infill_extrusion_width"`
	InfillDensity        float64 `toml:"infill_density"`
	LayerHeight          float64 `toml:"layer_height"`
	OverhangAngle        float64 `toml:"overhang_angle"`
	PruneAngle           float64 `toml:"prune_angle"`
	StraighteningAngle   float64 `toml:"straightening_angle"`

	SupportingRadius         float64 `toml:"supporting_radius,omitempty"`
	WallSupportingRadius     float64 `toml:"wall_supporting_radius,omitempty"`
	PruneLength              float64 `toml:"prune_length,omitempty"`
	StraighteningMaxDistance float64 `toml:"straightening_max_distance,omitempty"`
	SampleSpacing            float64 `toml:"sample_spacing,omitempty"`
	TieTolerance             float64 `toml:"tie_tolerance,omitempty"`
	ColinearTolerance        float64 `toml:"colinear_tolerance,omitempty"`
	MaxColinearSpan          float64 `toml:"max_colinear_span,omitempty"`
}

// Output holds the export options.
type Output struct {
	Formats []string `toml:"formats"`
	Dir     string   `toml:"dir"`
	Width   float64  `toml:"width"`  // image width in points
	Height  float64  `toml:"height"` // image height in points
}

// Default returns the settings written by `lightning config init`.
func Default() File {
	d := lightning.DefaultDerivation()
	return File{
		Lightning: Lightning{
			InfillExtrusionWidth: d.InfillExtrusionWidth,
			InfillDensity:        d.InfillDensity,
			LayerHeight:          d.LayerHeight,
			OverhangAngle:        d.OverhangAngle,
			PruneAngle:           d.PruneAngle,
			StraighteningAngle:   d.StraighteningAngle,
		},
		Output: Output{
			Formats: []string{"json"},
			Dir:     ".",
			Width:   600,
			Height:  600,
		},
	}
}

// Load reads a settings file. Keys missing from the file keep their default.
func Load(path string) (File, error) {
	if err := errors.ValidatePath(path); err != nil {
		return File{}, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return File{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "settings file %s", path)
	}
	if err != nil {
		return File{}, err
	}
	f, err := Decode(bytes.NewReader(data))
	if err != nil {
		return File{}, errors.Wrap(errors.GetCode(err), err, "%s", path)
	}
	return f, nil
}

// Decode parses settings over the defaults.
func Decode(r io.Reader) (File, error) {
	f := Default()
	md, err := toml.NewDecoder(r).Decode(&f)
	if err != nil {
		return File{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse settings")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return File{}, errors.New(errors.ErrCodeInvalidFormat, "unknown settings: %s", strings.Join(keys, ", "))
	}
	return f, nil
}

// Encode writes f as TOML.
func (f File) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(f)
}

// Derivation returns the slicer parameters the radii are derived from.
func (l Lightning) Derivation() lightning.Derivation {
	return lightning.Derivation{
		InfillExtrusionWidth: l.InfillExtrusionWidth,
		InfillDensity:        l.InfillDensity,
		LayerHeight:          l.LayerHeight,
		OverhangAngle:        l.OverhangAngle,
		PruneAngle:           l.PruneAngle,
		StraighteningAngle:   l.StraighteningAngle,
	}
}

// Settings derives the generator settings and applies explicit overrides.
func (l Lightning) Settings() (lightning.Settings, error) {
	s, err := lightning.DeriveSettings(l.Derivation())
	if err != nil {
		return lightning.Settings{}, err
	}
	for _, o := range []struct {
		mm  float64
		dst *int64
	}{
		{l.SupportingRadius, &s.SupportingRadius},
		{l.WallSupportingRadius, &s.WallSupportingRadius},
		{l.PruneLength, &s.PruneLength},
		{l.StraighteningMaxDistance, &s.StraighteningMaxDistance},
		{l.SampleSpacing, &s.SampleSpacing},
		{l.TieTolerance, &s.TieTolerance},
		{l.ColinearTolerance, &s.ColinearTolerance},
		{l.MaxColinearSpan, &s.MaxColinearSpan},
	} {
		if o.mm < 0 {
			return lightning.Settings{}, errors.New(errors.ErrCodeInvalidSettings, "negative length %g", o.mm)
		}
		if o.mm > 0 {
			*o.dst = geometry.FromMM(o.mm)
		}
	}
	return s, s.Validate()
}

package lightning

import (
	"math"

	"github.com/simar1998/OrcaSlicer-C3PD/pkg/errors"
	"github.com/simar1998/OrcaSlicer-C3PD/pkg/forest"
	"github.com/simar1998/OrcaSlicer-C3PD/pkg/geometry"
	"github.com/simar1998/OrcaSlicer-C3PD/pkg/model"
	"github.com/simar1998/OrcaSlicer-C3PD/pkg/overhang"
)

// Settings are the tunables of one generation run. All lengths are in
// coordinate units.
type Settings struct {
	InfillExtrusionWidth     int64
	SupportingRadius         int64
	WallSupportingRadius     int64
	PruneLength              int64
	StraighteningMaxDistance int64

	// SampleSpacing is the lattice spacing used to sample overhang areas.
	// Zero means one infill line width.
	SampleSpacing int64
	// TieTolerance is the distance difference under which two attachment
	// candidates count as equidistant.
	TieTolerance int64
	// MaxColinearSpan enables merging of nearly colinear chain nodes. Zero
	// disables merging.
	MaxColinearSpan   int64
	ColinearTolerance int64
}

// Derivation holds the slicer-level parameters the radii are derived from.
// Lengths are in millimetres, angles in degrees, density in percent.
type Derivation struct {
	InfillExtrusionWidth float64
	InfillDensity        float64
	LayerHeight          float64
	OverhangAngle        float64
	PruneAngle           float64
	StraighteningAngle   float64
}

// DefaultDerivation returns the parameters of a 0.4mm line, 20% density,
// 0.2mm layer profile with 45° angles.
func DefaultDerivation() Derivation {
	return Derivation{
		InfillExtrusionWidth: 0.4,
		InfillDensity:        20,
		LayerHeight:          0.2,
		OverhangAngle:        45,
		PruneAngle:           45,
		StraighteningAngle:   45,
	}
}

// DeriveSettings computes the radii from slicer parameters:
//
//	supporting radius      = line width × 100 / density
//	wall supporting radius = layer height × tan(overhang angle)
//	straightening distance = layer height × tan(straightening angle)
//	prune length           = supporting radius / tan(prune angle)
//
// The prune length is the downward travel over which a branch that reaches
// one supporting radius recedes to nothing at the prune angle.
func DeriveSettings(d Derivation) (Settings, error) {
	switch {
	case d.InfillExtrusionWidth <= 0:
		return Settings{}, errors.New(errors.ErrCodeInvalidSettings, "infill extrusion width must be positive")
	case d.InfillDensity <= 0 || d.InfillDensity > 100:
		return Settings{}, errors.New(errors.ErrCodeInvalidSettings, "infill density must be in (0, 100], got %g", d.InfillDensity)
	case d.LayerHeight <= 0:
		return Settings{}, errors.New(errors.ErrCodeInvalidSettings, "layer height must be positive")
	}
	for _, a := range []float64{d.OverhangAngle, d.PruneAngle, d.StraighteningAngle} {
		if a <= 0 || a >= 90 {
			return Settings{}, errors.New(errors.ErrCodeInvalidSettings, "angles must be in (0, 90) degrees, got %g", a)
		}
	}
	tan := func(deg float64) float64 { return math.Tan(deg * math.Pi / 180) }
	supporting := d.InfillExtrusionWidth * 100 / d.InfillDensity
	s := Settings{
		InfillExtrusionWidth:     geometry.FromMM(d.InfillExtrusionWidth),
		SupportingRadius:         geometry.FromMM(supporting),
		WallSupportingRadius:     geometry.FromMM(d.LayerHeight * tan(d.OverhangAngle)),
		StraighteningMaxDistance: geometry.FromMM(d.LayerHeight * tan(d.StraighteningAngle)),
		PruneLength:              geometry.FromMM(supporting / tan(d.PruneAngle)),
	}
	return s.WithDefaults(), nil
}

// DefaultSettings returns the settings derived from DefaultDerivation.
func DefaultSettings() Settings {
	s, _ := DeriveSettings(DefaultDerivation())
	return s
}

// WithDefaults fills unset optional fields.
func (s Settings) WithDefaults() Settings {
	if s.SampleSpacing == 0 {
		s.SampleSpacing = s.InfillExtrusionWidth
	}
	if s.TieTolerance == 0 {
		s.TieTolerance = geometry.UnitsPerMM / 1000
	}
	if s.ColinearTolerance == 0 {
		s.ColinearTolerance = geometry.UnitsPerMM / 100
	}
	return s
}

// Validate checks that every length is usable.
func (s Settings) Validate() error {
	if s.SampleSpacing <= 0 {
		return errors.New(errors.ErrCodeInvalidSettings, "sample spacing must be positive (set it or the infill extrusion width)")
	}
	if s.SupportingRadius <= 0 {
		return errors.New(errors.ErrCodeInvalidSettings, "supporting radius must be positive")
	}
	for _, f := range []struct {
		name string
		v    int64
	}{
		{"infill extrusion width", s.InfillExtrusionWidth},
		{"supporting radius", s.SupportingRadius},
		{"wall supporting radius", s.WallSupportingRadius},
		{"prune length", s.PruneLength},
		{"straightening max distance", s.StraighteningMaxDistance},
		{"sample spacing", s.SampleSpacing},
		{"tie tolerance", s.TieTolerance},
		{"max colinear span", s.MaxColinearSpan},
		{"colinear tolerance", s.ColinearTolerance},
	} {
		if f.v < 0 || f.v > model.MaxCoord {
			return errors.New(errors.ErrCodeInvalidSettings, "%s out of range: %d", f.name, f.v)
		}
	}
	return nil
}

func (s Settings) overhangConfig() overhang.Config {
	return overhang.Config{Spacing: s.SampleSpacing, WallSupportingRadius: s.WallSupportingRadius}
}

func (s Settings) forestConfig() forest.Config {
	return forest.Config{
		SupportingRadius:         s.SupportingRadius,
		WallSupportingRadius:     s.WallSupportingRadius,
		PruneLength:              s.PruneLength,
		StraighteningMaxDistance: s.StraighteningMaxDistance,
		TieTolerance:             s.TieTolerance,
		MaxColinearSpan:          s.MaxColinearSpan,
		ColinearTolerance:        s.ColinearTolerance,
	}
}

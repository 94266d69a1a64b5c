// Package lightning builds lightning infill for a sliced object.
//
// A [Generator] is constructed once per object: it computes the overhang of
// every layer, then grows a forest of support trees from the top layer
// downward, each layer's forest derived from the one above. Construction is
// the only mutating phase. Afterwards [Generator.Layer] answers queries
// without side effects and may be called from many goroutines.
//
// # Settings
//
// Lengths are in coordinate units (see package geometry). [DeriveSettings]
// computes the radii from slicer parameters the way slicers expose them:
//
//	s, err := lightning.DeriveSettings(lightning.DefaultDerivation())
//	g, err := lightning.New(ctx, obj, s, lightning.WithLogger(logger))
//	f, err := g.Layer(0)
//
// Layer ids outside [0, LayerCount) return an INVALID_LAYER error.
package lightning

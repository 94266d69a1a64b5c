package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/simar1998/OrcaSlicer-C3PD/pkg/errors"
	"github.com/simar1998/OrcaSlicer-C3PD/pkg/forest"
	"github.com/simar1998/OrcaSlicer-C3PD/pkg/geometry"
	"github.com/simar1998/OrcaSlicer-C3PD/pkg/lightning"
)

// ObjectForests is the exported result of one generator.
type ObjectForests struct {
	Name     string
	RunID    string
	Settings lightning.Settings
	Layers   []LayerForest
}

// LayerForest is the exported forest of one layer with the geometry it was
// grown in.
type LayerForest struct {
	Layer     int
	Thickness int64
	Interior  geometry.Polygons
	Overhang  geometry.Region
	Forest    forest.Snapshot
}

// FromGenerator collects the forests of g. layers selects the exported
// layer ids; nil exports every layer.
func FromGenerator(g *lightning.Generator, layers []int) (ObjectForests, error) {
	if layers == nil {
		layers = make([]int, g.LayerCount())
		for i := range layers {
			layers[i] = i
		}
	}
	out := ObjectForests{
		Name:     g.Object().Name,
		RunID:    g.RunID(),
		Settings: g.Settings(),
		Layers:   make([]LayerForest, 0, len(layers)),
	}
	for _, id := range layers {
		f, err := g.Layer(id)
		if err != nil {
			return ObjectForests{}, err
		}
		oh, _ := g.Overhang(id)
		l := g.Object().Layers[id]
		out.Layers = append(out.Layers, LayerForest{
			Layer:     id,
			Thickness: l.Thickness,
			Interior:  l.Interior,
			Overhang:  oh,
			Forest:    f.Snapshot(),
		})
	}
	return out, nil
}

type forestsFile struct {
	Objects []objectForestsFile `json:"objects"`
}

type objectForestsFile struct {
	Name     string            `json:"name"`
	RunID    string            `json:"run_id"`
	Settings settingsFile      `json:"settings"`
	Layers   []layerForestFile `json:"layers"`
}

type settingsFile struct {
	InfillExtrusionWidth     float64 `json:"infill_extrusion_width"`
	SupportingRadius         float64 `json:"supporting_radius"`
	WallSupportingRadius     float64 `json:"wall_supporting_radius"`
	PruneLength              float64 `json:"prune_length"`
	StraighteningMaxDistance float64 `json:"straightening_max_distance"`
	SampleSpacing            float64 `json:"sample_spacing"`
	TieTolerance             float64 `json:"tie_tolerance"`
	MaxColinearSpan          float64 `json:"max_colinear_span"`
	ColinearTolerance        float64 `json:"colinear_tolerance"`
}

type layerForestFile struct {
	Layer     int          `json:"layer"`
	Thickness float64      `json:"thickness"`
	Interior  polygons     `json:"interior"`
	Overhang  overhangFile `json:"overhang"`
	Nodes     []nodeFile   `json:"nodes"`
}

type overhangFile struct {
	Spacing float64 `json:"spacing"`
	Cells   []point `json:"cells"`
}

type nodeFile struct {
	ID        int     `json:"id"`
	Parent    *int    `json:"parent"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	SinceNeed float64 `json:"since_need"`
	Ground    *point  `json:"ground,omitempty"`
}

func fromSettings(s lightning.Settings) settingsFile {
	mm := geometry.ToMM
	return settingsFile{
		InfillExtrusionWidth:     mm(s.InfillExtrusionWidth),
		SupportingRadius:         mm(s.SupportingRadius),
		WallSupportingRadius:     mm(s.WallSupportingRadius),
		PruneLength:              mm(s.PruneLength),
		StraighteningMaxDistance: mm(s.StraighteningMaxDistance),
		SampleSpacing:            mm(s.SampleSpacing),
		TieTolerance:             mm(s.TieTolerance),
		MaxColinearSpan:          mm(s.MaxColinearSpan),
		ColinearTolerance:        mm(s.ColinearTolerance),
	}
}

func (s settingsFile) settings() lightning.Settings {
	u := geometry.FromMM
	return lightning.Settings{
		InfillExtrusionWidth:     u(s.InfillExtrusionWidth),
		SupportingRadius:         u(s.SupportingRadius),
		WallSupportingRadius:     u(s.WallSupportingRadius),
		PruneLength:              u(s.PruneLength),
		StraighteningMaxDistance: u(s.StraighteningMaxDistance),
		SampleSpacing:            u(s.SampleSpacing),
		TieTolerance:             u(s.TieTolerance),
		MaxColinearSpan:          u(s.MaxColinearSpan),
		ColinearTolerance:        u(s.ColinearTolerance),
	}
}

func fromLayer(l LayerForest) layerForestFile {
	out := layerForestFile{
		Layer:     l.Layer,
		Thickness: geometry.ToMM(l.Thickness),
		Interior:  fromPolygons(l.Interior),
		Overhang: overhangFile{
			Spacing: geometry.ToMM(l.Overhang.Spacing()),
			Cells:   make([]point, 0, l.Overhang.Len()),
		},
		Nodes: make([]nodeFile, len(l.Forest.Nodes)),
	}
	for _, p := range l.Overhang.Points() {
		out.Overhang.Cells = append(out.Overhang.Cells, fromPoint(p))
	}
	for i, n := range l.Forest.Nodes {
		x, y := n.Pos.MM()
		nf := nodeFile{ID: n.ID, X: x, Y: y, SinceNeed: geometry.ToMM(n.SinceNeed)}
		if n.Parent >= 0 {
			parent := n.Parent
			nf.Parent = &parent
		}
		if n.Ground != nil {
			g := fromPoint(*n.Ground)
			nf.Ground = &g
		}
		out.Nodes[i] = nf
	}
	return out
}

func (l layerForestFile) layer() (LayerForest, error) {
	out := LayerForest{
		Layer:     l.Layer,
		Thickness: geometry.FromMM(l.Thickness),
		Interior:  l.Interior.geometry(),
		Forest:    forest.Snapshot{Nodes: make([]forest.NodeData, len(l.Nodes))},
	}
	cells := make([]geometry.Point, len(l.Overhang.Cells))
	for i, c := range l.Overhang.Cells {
		cells[i] = c.geometry()
	}
	out.Overhang = geometry.NewRegion(geometry.FromMM(l.Overhang.Spacing), cells)

	for i, n := range l.Nodes {
		if n.ID != i {
			return LayerForest{}, fmt.Errorf("node %d listed at position %d", n.ID, i)
		}
		d := forest.NodeData{ID: n.ID, Parent: -1, Pos: geometry.PointMM(n.X, n.Y), SinceNeed: geometry.FromMM(n.SinceNeed)}
		if n.Parent != nil {
			if *n.Parent < 0 || *n.Parent >= i {
				return LayerForest{}, fmt.Errorf("node %d: parent %d does not precede it", i, *n.Parent)
			}
			d.Parent = *n.Parent
		}
		if n.Ground != nil {
			g := n.Ground.geometry()
			d.Ground = &g
		}
		out.Forest.Nodes[i] = d
	}
	return out, nil
}

// WriteForests encodes the forests of objs as JSON and writes them to w.
// The output can be read back with [ReadForests].
func WriteForests(w io.Writer, objs ...ObjectForests) error {
	out := forestsFile{Objects: make([]objectForestsFile, len(objs))}
	for i, o := range objs {
		of := objectForestsFile{
			Name:     o.Name,
			RunID:    o.RunID,
			Settings: fromSettings(o.Settings),
			Layers:   make([]layerForestFile, len(o.Layers)),
		}
		for j, l := range o.Layers {
			of.Layers[j] = fromLayer(l)
		}
		out.Objects[i] = of
	}
	return encode(w, out)
}

// WriteLayer encodes one layer the way it appears inside a forests document.
func WriteLayer(w io.Writer, l LayerForest) error {
	return encode(w, fromLayer(l))
}

// ExportForests writes the forests of objs to a JSON file at path.
func ExportForests(path string, objs ...ObjectForests) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteForests(f, objs...); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadForests decodes forests written by [WriteForests]. Every node's parent
// must precede it.
func ReadForests(r io.Reader) ([]ObjectForests, error) {
	var data forestsFile
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode forests")
	}
	out := make([]ObjectForests, len(data.Objects))
	for i, o := range data.Objects {
		obj := ObjectForests{
			Name:     o.Name,
			RunID:    o.RunID,
			Settings: o.Settings.settings(),
			Layers:   make([]LayerForest, len(o.Layers)),
		}
		for j, l := range o.Layers {
			lf, err := l.layer()
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "object %s layer %d", o.Name, l.Layer)
			}
			obj.Layers[j] = lf
		}
		out[i] = obj
	}
	return out, nil
}

// ImportForests reads the forests JSON file at path.
func ImportForests(path string) ([]ObjectForests, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "forests %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadForests(f)
}

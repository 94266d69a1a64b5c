package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/simar1998/OrcaSlicer-C3PD/pkg/errors"
	"github.com/simar1998/OrcaSlicer-C3PD/pkg/geometry"
	"github.com/simar1998/OrcaSlicer-C3PD/pkg/model"
)

type point [2]float64

type polygons [][]point

type printFile struct {
	Objects []objectFile `json:"objects"`
}

type objectFile struct {
	Name   string      `json:"name"`
	Layers []layerFile `json:"layers"`
}

type layerFile struct {
	Thickness float64  `json:"thickness"`
	Interior  polygons `json:"interior"`
	Walls     polygons `json:"walls,omitempty"`
	Skin      polygons `json:"skin,omitempty"`
}

func (p point) geometry() geometry.Point { return geometry.PointMM(p[0], p[1]) }

func fromPoint(p geometry.Point) point {
	x, y := p.MM()
	return point{x, y}
}

func (ps polygons) geometry() geometry.Polygons {
	if len(ps) == 0 {
		return nil
	}
	out := make(geometry.Polygons, len(ps))
	for i, ring := range ps {
		out[i] = make(geometry.Polygon, len(ring))
		for j, p := range ring {
			out[i][j] = p.geometry()
		}
	}
	return out
}

func fromPolygons(ps geometry.Polygons) polygons {
	out := make(polygons, len(ps))
	for i, ring := range ps {
		out[i] = make([]point, len(ring))
		for j, p := range ring {
			out[i][j] = fromPoint(p)
		}
	}
	return out
}

// ReadPrint decodes a JSON print from r and validates it.
//
// ReadPrint returns an INVALID_FORMAT error for malformed JSON and an
// INVALID_INPUT error when the decoded print is not valid (see
// model.Print.Validate). ReadPrint does not close r.
func ReadPrint(r io.Reader) (*model.Print, error) {
	var data printFile
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode print")
	}

	p := &model.Print{Objects: make([]model.Object, len(data.Objects))}
	for i, o := range data.Objects {
		obj := model.Object{Name: o.Name, Layers: make([]model.Layer, len(o.Layers))}
		for j, l := range o.Layers {
			obj.Layers[j] = model.Layer{
				Thickness: geometry.FromMM(l.Thickness),
				Interior:  l.Interior.geometry(),
				Walls:     l.Walls.geometry(),
				Skin:      l.Skin.geometry(),
			}
		}
		p.Objects[i] = obj
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// ImportPrint reads and validates the JSON print at path.
func ImportPrint(path string) (*model.Print, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "print %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	p, err := ReadPrint(f)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "%s", path)
	}
	return p, nil
}

// WritePrint encodes p as JSON. It is the inverse of [ReadPrint].
func WritePrint(p *model.Print, w io.Writer) error {
	out := printFile{Objects: make([]objectFile, len(p.Objects))}
	for i, o := range p.Objects {
		of := objectFile{Name: o.Name, Layers: make([]layerFile, len(o.Layers))}
		for j, l := range o.Layers {
			of.Layers[j] = layerFile{
				Thickness: geometry.ToMM(l.Thickness),
				Interior:  fromPolygons(l.Interior),
				Walls:     fromPolygons(l.Walls),
				Skin:      fromPolygons(l.Skin),
			}
		}
		out.Objects[i] = of
	}
	return encode(w, out)
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

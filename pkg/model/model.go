package model

import (
	"fmt"

	"github.com/simar1998/OrcaSlicer-C3PD/pkg/errors"
	"github.com/simar1998/OrcaSlicer-C3PD/pkg/geometry"
)

// Layer is the sliced geometry of one layer of an object.
type Layer struct {
	Thickness int64             // layer height in coordinate units
	Interior  geometry.Polygons // infill-eligible area
	Walls     geometry.Polygons // wall geometry
	Skin      geometry.Polygons // solid skin geometry
}

// Solid returns the walls and skin of the layer as one polygon set.
func (l Layer) Solid() geometry.Polygons {
	out := make(geometry.Polygons, 0, len(l.Walls)+len(l.Skin))
	out = append(out, l.Walls...)
	return append(out, l.Skin...)
}

// Object is a sliced solid: its layers ordered bottom to top.
type Object struct {
	Name   string
	Layers []Layer
}

// LayerCount returns the number of layers in the object.
func (o *Object) LayerCount() int { return len(o.Layers) }

// Bounds returns the bounding box of every polygon in the object.
func (o *Object) Bounds() geometry.Box {
	b := geometry.EmptyBox()
	for _, l := range o.Layers {
		b = b.Union(l.Interior.Bounds()).Union(l.Walls.Bounds()).Union(l.Skin.Bounds())
	}
	return b
}

// Validate checks that the object is well formed: a valid name,
// non-negative thicknesses, rings of at least three points and coordinates
// inside the supported range.
func (o *Object) Validate() error {
	if err := errors.ValidateObjectName(o.Name); err != nil {
		return err
	}
	for i, l := range o.Layers {
		if l.Thickness < 0 {
			return errors.New(errors.ErrCodeInvalidInput, "object %s layer %d: negative thickness", o.Name, i)
		}
		for _, part := range []struct {
			kind  string
			polys geometry.Polygons
		}{{"interior", l.Interior}, {"walls", l.Walls}, {"skin", l.Skin}} {
			if err := validatePolygons(part.polys); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidInput, err, "object %s layer %d %s", o.Name, i, part.kind)
			}
		}
	}
	return nil
}

// MaxCoord bounds the absolute value of every coordinate so that squared
// distances and cross products fit in an int64.
const MaxCoord = 1_000_000_000

func validatePolygons(ps geometry.Polygons) error {
	for j, pg := range ps {
		if len(pg) < 3 {
			return fmt.Errorf("polygon %d has %d points, need at least 3", j, len(pg))
		}
		for _, p := range pg {
			if p.X < -MaxCoord || p.X > MaxCoord || p.Y < -MaxCoord || p.Y > MaxCoord {
				return fmt.Errorf("polygon %d: point %v outside ±%d units", j, p, MaxCoord)
			}
		}
	}
	return nil
}

// Print is a set of independently processed objects.
type Print struct {
	Objects []Object
}

// Validate validates every object and checks that names are unique.
func (p *Print) Validate() error {
	if len(p.Objects) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "print has no objects")
	}
	seen := make(map[string]bool, len(p.Objects))
	for i := range p.Objects {
		o := &p.Objects[i]
		if err := o.Validate(); err != nil {
			return err
		}
		if seen[o.Name] {
			return errors.New(errors.ErrCodeInvalidInput, "duplicate object name %q", o.Name)
		}
		seen[o.Name] = true
	}
	return nil
}

// Object returns the object with the given name.
func (p *Print) Object(name string) (*Object, bool) {
	for i := range p.Objects {
		if p.Objects[i].Name == name {
			return &p.Objects[i], true
		}
	}
	return nil, false
}

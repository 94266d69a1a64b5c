package model

import (
	"strings"
	"testing"

	"github.com/simar1998/OrcaSlicer-C3PD/pkg/errors"
	"github.com/simar1998/OrcaSlicer-C3PD/pkg/geometry"
)

func box(x0, y0, x1, y1 int64) geometry.Polygons {
	return geometry.Polygons{geometry.Rect(geometry.Pt(x0, y0), geometry.Pt(x1, y1))}
}

func TestObjectValidate(t *testing.T) {
	tests := []struct {
		name    string
		obj     Object
		wantErr string
	}{
		{
			name: "valid",
			obj:  Object{Name: "cube", Layers: []Layer{{Thickness: 200, Interior: box(0, 0, 10, 10)}}},
		},
		{
			name: "no layers",
			obj:  Object{Name: "empty"},
		},
		{
			name:    "bad name",
			obj:     Object{Name: "../etc"},
			wantErr: "object name",
		},
		{
			name:    "negative thickness",
			obj:     Object{Name: "cube", Layers: []Layer{{Thickness: -1}}},
			wantErr: "negative thickness",
		},
		{
			name:    "short ring",
			obj:     Object{Name: "cube", Layers: []Layer{{Walls: geometry.Polygons{{geometry.Pt(0, 0), geometry.Pt(1, 1)}}}}},
			wantErr: "walls",
		},
		{
			name:    "coordinate out of range",
			obj:     Object{Name: "cube", Layers: []Layer{{Skin: box(0, 0, 2*MaxCoord, 10)}}},
			wantErr: "skin",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.obj.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidInput)
			}
		})
	}
}

func TestPrintValidate(t *testing.T) {
	p := Print{Objects: []Object{{Name: "a"}, {Name: "b"}}}
	if err := p.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	if o, ok := p.Object("b"); !ok || o.Name != "b" {
		t.Errorf("Object(b) = %v, %v", o, ok)
	}
	if _, ok := p.Object("c"); ok {
		t.Error("Object(c) found")
	}

	dup := Print{Objects: []Object{{Name: "a"}, {Name: "a"}}}
	if err := dup.Validate(); err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("duplicate names: Validate() = %v", err)
	}
	if err := (&Print{}).Validate(); err == nil {
		t.Error("empty print: Validate() = nil")
	}
}

func TestObjectBounds(t *testing.T) {
	o := Object{Name: "o", Layers: []Layer{
		{Interior: box(0, 0, 10, 10)},
		{Walls: box(-5, 2, 3, 20)},
	}}
	want := geometry.Box{Min: geometry.Pt(-5, 0), Max: geometry.Pt(10, 20)}
	if got := o.Bounds(); got != want {
		t.Errorf("Bounds() = %v, want %v", got, want)
	}
	if o.LayerCount() != 2 {
		t.Errorf("LayerCount() = %d", o.LayerCount())
	}
}

func TestLayerSolid(t *testing.T) {
	l := Layer{Walls: box(0, 0, 1, 1), Skin: box(2, 2, 3, 3)}
	if got := len(l.Solid()); got != 2 {
		t.Errorf("len(Solid()) = %d, want 2", got)
	}
}

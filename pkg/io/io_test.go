package io

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/simar1998/OrcaSlicer-C3PD/pkg/errors"
	"github.com/simar1998/OrcaSlicer-C3PD/pkg/forest"
	"github.com/simar1998/OrcaSlicer-C3PD/pkg/geometry"
	"github.com/simar1998/OrcaSlicer-C3PD/pkg/lightning"
	"github.com/simar1998/OrcaSlicer-C3PD/pkg/model"
)

const boxPrint = `{
  "objects": [
    {
      "name": "box",
      "layers": [
        {"thickness": 0.2, "interior": [[[0, 0], [10, 0], [10, 10], [0, 10]]]},
        {"thickness": 0.2, "interior": [[[0, 0], [10, 0], [10, 10], [0, 10]]]},
        {"thickness": 0.2, "interior": [], "skin": [[[0, 0], [10, 0], [10, 10], [0, 10]]]}
      ]
    }
  ]
}`

func TestReadPrint(t *testing.T) {
	p, err := ReadPrint(strings.NewReader(boxPrint))
	if err != nil {
		t.Fatal(err)
	}
	box := geometry.Polygons{geometry.Rect(geometry.PointMM(0, 0), geometry.PointMM(10, 10))}
	want := &model.Print{Objects: []model.Object{{
		Name: "box",
		Layers: []model.Layer{
			{Thickness: geometry.FromMM(0.2), Interior: box},
			{Thickness: geometry.FromMM(0.2), Interior: box},
			{Thickness: geometry.FromMM(0.2), Skin: box},
		},
	}}}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Errorf("ReadPrint mismatch (-want +got):\n%s", diff)
	}
}

func TestReadPrintErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  errors.Code
	}{
		{"malformed", `{"objects": [`, errors.ErrCodeInvalidFormat},
		{"unknown field", `{"objects": [], "units": "inch"}`, errors.ErrCodeInvalidFormat},
		{"no objects", `{"objects": []}`, errors.ErrCodeInvalidInput},
		{"bad name", `{"objects": [{"name": "a/b", "layers": []}]}`, errors.ErrCodeInvalidInput},
		{"duplicate", `{"objects": [{"name": "a", "layers": []}, {"name": "a", "layers": []}]}`, errors.ErrCodeInvalidInput},
		{"negative thickness", `{"objects": [{"name": "a", "layers": [{"thickness": -1, "interior": []}]}]}`, errors.ErrCodeInvalidInput},
		{"degenerate ring", `{"objects": [{"name": "a", "layers": [{"thickness": 1, "interior": [[[0, 0], [1, 1]]]}]}]}`, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadPrint(strings.NewReader(tt.input))
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestWritePrintRoundTrip(t *testing.T) {
	p, err := ReadPrint(strings.NewReader(boxPrint))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := WritePrint(p, &buf); err != nil {
		t.Fatal(err)
	}
	again, err := ReadPrint(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(p, again); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestImportPrintMissingFile(t *testing.T) {
	_, err := ImportPrint(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("error = %v, want %s", err, errors.ErrCodeFileNotFound)
	}
}

func generate(t *testing.T) *lightning.Generator {
	t.Helper()
	p, err := ReadPrint(strings.NewReader(boxPrint))
	if err != nil {
		t.Fatal(err)
	}
	s := lightning.DefaultSettings()
	s.SampleSpacing = geometry.FromMM(1)
	g, err := lightning.New(context.Background(), &p.Objects[0], s, lightning.WithRunID("run-1"))
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestForestsRoundTrip(t *testing.T) {
	g := generate(t)
	objs, err := FromGenerator(g, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(objs.Layers) != 3 {
		t.Fatalf("exported %d layers, want 3", len(objs.Layers))
	}
	if objs.Layers[1].Forest.Roots() == 0 {
		t.Fatal("layer under the skin has no trees")
	}

	path := filepath.Join(t.TempDir(), "forests.json")
	if err := ExportForests(path, objs); err != nil {
		t.Fatal(err)
	}
	got, err := ImportForests(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]ObjectForests{objs}, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	f, err := forest.Restore(got[0].Layers[1].Forest)
	if err != nil {
		t.Fatal(err)
	}
	orig, _ := g.Layer(1)
	if diff := cmp.Diff(orig.Snapshot(), f.Snapshot()); diff != "" {
		t.Errorf("restored forest differs (-want +got):\n%s", diff)
	}
}

func TestFromGeneratorLayerSelection(t *testing.T) {
	g := generate(t)

	objs, err := FromGenerator(g, []int{1})
	if err != nil {
		t.Fatal(err)
	}
	if len(objs.Layers) != 1 || objs.Layers[0].Layer != 1 {
		t.Errorf("selected layers = %+v", objs.Layers)
	}
	if _, err := FromGenerator(g, []int{7}); !errors.Is(err, errors.ErrCodeInvalidLayer) {
		t.Errorf("error = %v, want %s", err, errors.ErrCodeInvalidLayer)
	}
}

func TestReadForestsRejectsForwardParent(t *testing.T) {
	input := `{"objects": [{"name": "a", "run_id": "r", "settings": {}, "layers": [
		{"layer": 0, "thickness": 0.2, "interior": [], "overhang": {"spacing": 1, "cells": []},
		 "nodes": [{"id": 0, "parent": 1, "x": 0, "y": 0, "since_need": 0},
		           {"id": 1, "parent": null, "x": 1, "y": 0, "since_need": 0}]}]}]}`
	_, err := ReadForests(strings.NewReader(input))
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("error = %v, want %s", err, errors.ErrCodeInvalidFormat)
	}
}

func TestWriteForestsFormat(t *testing.T) {
	g := generate(t)
	objs, err := FromGenerator(g, []int{1})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := WriteForests(&buf, objs); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{`"run_id": "run-1"`, `"supporting_radius": 2`, `"parent": null`, `"spacing": 1`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s", want)
		}
	}
}

func TestExportForestsBadPath(t *testing.T) {
	if err := ExportForests(""); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("error = %v, want %s", err, errors.ErrCodeInvalidPath)
	}
	path := filepath.Join(t.TempDir(), "missing", "forests.json")
	if err := ExportForests(path); err == nil {
		t.Error("expected error creating file in a missing directory")
	}
}

func TestWriteLayer(t *testing.T) {
	g := generate(t)
	objs, err := FromGenerator(g, []int{1})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := WriteLayer(&buf, objs.Layers[0]); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "{\n  \"layer\": 1,") {
		t.Errorf("unexpected layer document:\n%s", buf.String())
	}
}

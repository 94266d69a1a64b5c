package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/simar1998/OrcaSlicer-C3PD/pkg/errors"
	"github.com/simar1998/OrcaSlicer-C3PD/pkg/io"
	"github.com/simar1998/OrcaSlicer-C3PD/pkg/observability"
	"github.com/simar1998/OrcaSlicer-C3PD/pkg/render"
)

// Render produces the artifacts of opts.Formats for already exported
// forests: one JSON document for all objects, and for every other format
// one artifact per exported layer.
func (r *Runner) Render(ctx context.Context, objs []io.ObjectForests, opts Options) (artifacts []Artifact, err error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	defer func() { hooks.OnRenderComplete(ctx, opts.Formats, len(artifacts), time.Since(start), err) }()

	for _, format := range opts.Formats {
		if format == FormatJSON {
			var buf bytes.Buffer
			if err := io.WriteForests(&buf, objs...); err != nil {
				return nil, fmt.Errorf("render json: %w", err)
			}
			artifacts = append(artifacts, Artifact{Layer: -1, Format: FormatJSON, Path: "forests.json", Data: buf.Bytes()})
			continue
		}
		for _, obj := range objs {
			for _, l := range obj.Layers {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				data, err := RenderLayer(obj.Name, l, format, opts)
				if err != nil {
					return nil, fmt.Errorf("render %s layer %d %s: %w", obj.Name, l.Layer, format, err)
				}
				artifacts = append(artifacts, Artifact{
					Object: obj.Name,
					Layer:  l.Layer,
					Format: format,
					Path:   LayerPath(obj.Name, l.Layer, format),
					Data:   data,
				})
			}
			opts.Logger.Debug("rendered object", "object", obj.Name, "format", format, "layers", len(obj.Layers))
		}
	}
	return artifacts, nil
}

// RenderLayer renders one exported layer in a per-layer format.
func RenderLayer(object string, l io.LayerForest, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG, FormatPNG, FormatPDF:
		return render.RenderLayer(render.LayerView{
			Object:   object,
			Layer:    l.Layer,
			Interior: l.Interior,
			Overhang: l.Overhang,
			Forest:   l.Forest,
		}, format, render.Options{Width: opts.Width, Height: opts.Height})
	case FormatDOT:
		return []byte(render.ToDOT(l.Forest, render.DOTOptions{Detailed: true})), nil
	case FormatTopology:
		return render.RenderDOT(render.ToDOT(l.Forest, render.DOTOptions{}))
	case FormatJSON:
		return nil, errors.New(errors.ErrCodeUnsupported, "json is not a per-layer format")
	}
	return nil, ValidateFormat(format)
}

// LayerPath is the relative output path of a per-layer artifact.
func LayerPath(object string, layer int, format string) string {
	ext := format
	if format == FormatTopology {
		ext = "topology.svg"
	}
	return path.Join(object, fmt.Sprintf("layer-%04d.%s", layer, ext))
}

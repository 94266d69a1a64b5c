package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/simar1998/OrcaSlicer-C3PD/pkg/buildinfo"
	"github.com/simar1998/OrcaSlicer-C3PD/pkg/cache"
	"github.com/simar1998/OrcaSlicer-C3PD/pkg/errors"
	"github.com/simar1998/OrcaSlicer-C3PD/pkg/geometry"
	"github.com/simar1998/OrcaSlicer-C3PD/pkg/io"
	"github.com/simar1998/OrcaSlicer-C3PD/pkg/lightning"
	"github.com/simar1998/OrcaSlicer-C3PD/pkg/pipeline"
)

type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

type objectSummary struct {
	Name           string  `json:"name"`
	RunID          string  `json:"run_id"`
	Layers         int     `json:"layers"`
	Nodes          int     `json:"nodes"`
	Roots          int     `json:"roots"`
	OverhangPoints int     `json:"overhang_points"`
	Length         float64 `json:"length"` // mm
}

type layerSummary struct {
	Layer    int `json:"layer"`
	Nodes    int `json:"nodes"`
	Roots    int `json:"roots"`
	NewRoots int `json:"new_roots"`
	Attached int `json:"attached"`
	Covered  int `json:"covered"`
	Pruned   int `json:"pruned"`
	Dropped  int `json:"dropped"`
	Overhang int `json:"overhang"`
}

type objectDetail struct {
	objectSummary
	Settings settingsMM     `json:"settings"`
	PerLayer []layerSummary `json:"per_layer"`
}

type settingsMM struct {
	InfillExtrusionWidth     float64 `json:"infill_extrusion_width"`
	SupportingRadius         float64 `json:"supporting_radius"`
	WallSupportingRadius     float64 `json:"wall_supporting_radius"`
	PruneLength              float64 `json:"prune_length"`
	StraighteningMaxDistance float64 `json:"straightening_max_distance"`
	SampleSpacing            float64 `json:"sample_spacing"`
}

type overhangResponse struct {
	Layer   int          `json:"layer"`
	Spacing float64      `json:"spacing"`
	Points  int          `json:"points"`
	Area    float64      `json:"area"` // mm²
	Cells   [][2]float64 `json:"cells"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, errors.HTTPStatus(err), errorResponse{Code: code, Message: errors.UserMessage(err)})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"objects": len(s.gens),
		"build":   buildinfo.Get(),
	})
}

func summarize(g *lightning.Generator) objectSummary {
	st := g.Stats()
	return objectSummary{
		Name:           g.Object().Name,
		RunID:          g.RunID(),
		Layers:         g.LayerCount(),
		Nodes:          st.Nodes,
		Roots:          st.Roots,
		OverhangPoints: st.OverhangPoints,
		Length:         geometry.ToMM(st.Length),
	}
}

func (s *Server) handleObjects(w http.ResponseWriter, r *http.Request) {
	out := make([]objectSummary, len(s.gens))
	for i, g := range s.gens {
		out[i] = summarize(g)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) generator(r *http.Request) (*lightning.Generator, error) {
	name := chi.URLParam(r, "name")
	g, ok := s.byName[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "object %q not found", name)
	}
	return g, nil
}

func (s *Server) handleObject(w http.ResponseWriter, r *http.Request) {
	g, err := s.generator(r)
	if err != nil {
		writeError(w, err)
		return
	}
	set := g.Settings()
	mm := geometry.ToMM
	out := objectDetail{
		objectSummary: summarize(g),
		Settings: settingsMM{
			InfillExtrusionWidth:     mm(set.InfillExtrusionWidth),
			SupportingRadius:         mm(set.SupportingRadius),
			WallSupportingRadius:     mm(set.WallSupportingRadius),
			PruneLength:              mm(set.PruneLength),
			StraighteningMaxDistance: mm(set.StraighteningMaxDistance),
			SampleSpacing:            mm(set.SampleSpacing),
		},
		PerLayer: make([]layerSummary, g.LayerCount()),
	}
	for i := range g.LayerCount() {
		st, _ := g.LayerStats(i)
		oh, _ := g.Overhang(i)
		out.PerLayer[i] = layerSummary{
			Layer:    i,
			Nodes:    st.Nodes,
			Roots:    st.Roots,
			NewRoots: st.NewRoots,
			Attached: st.Attached,
			Covered:  st.Covered,
			Pruned:   st.Pruned,
			Dropped:  st.Dropped,
			Overhang: oh.Len(),
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// layer resolves the object and layer id of a request.
func (s *Server) layer(r *http.Request) (*lightning.Generator, int, error) {
	g, err := s.generator(r)
	if err != nil {
		return nil, 0, err
	}
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		return nil, 0, errors.New(errors.ErrCodeInvalidInput, "layer id %q is not a number", raw)
	}
	if _, err := g.Layer(id); err != nil {
		return nil, 0, err
	}
	return g, id, nil
}

func (s *Server) handleLayer(w http.ResponseWriter, r *http.Request) {
	g, id, err := s.layer(r)
	if err != nil {
		writeError(w, err)
		return
	}
	objs, err := io.FromGenerator(g, []int{id})
	if err != nil {
		writeError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := io.WriteLayer(&buf, objs.Layers[0]); err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleOverhang(w http.ResponseWriter, r *http.Request) {
	g, id, err := s.layer(r)
	if err != nil {
		writeError(w, err)
		return
	}
	oh, _ := g.Overhang(id)
	out := overhangResponse{
		Layer:   id,
		Spacing: geometry.ToMM(oh.Spacing()),
		Points:  oh.Len(),
		Area:    float64(oh.Area()) / (geometry.UnitsPerMM * geometry.UnitsPerMM),
		Cells:   make([][2]float64, 0, oh.Len()),
	}
	for _, p := range oh.Points() {
		x, y := p.MM()
		out.Cells = append(out.Cells, [2]float64{x, y})
	}
	writeJSON(w, http.StatusOK, out)
}

var contentTypes = map[string]string{
	pipeline.FormatSVG:      "image/svg+xml",
	pipeline.FormatPNG:      "image/png",
	pipeline.FormatPDF:      "application/pdf",
	pipeline.FormatTopology: "image/svg+xml",
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	switch format {
	case pipeline.FormatSVG, pipeline.FormatPNG, pipeline.FormatPDF:
	default:
		writeError(w, errors.New(errors.ErrCodeUnsupported, "unsupported image format %q", format))
		return
	}
	s.serveArtifact(w, r, format)
}

func (s *Server) handleTopology(w http.ResponseWriter, r *http.Request) {
	s.serveArtifact(w, r, pipeline.FormatTopology)
}

// serveArtifact renders a per-layer artifact, going through the cache.
func (s *Server) serveArtifact(w http.ResponseWriter, r *http.Request, format string) {
	g, id, err := s.layer(r)
	if err != nil {
		writeError(w, err)
		return
	}
	ctx := r.Context()
	opts := pipeline.Options{Width: pipeline.DefaultWidth, Height: pipeline.DefaultHeight}
	key := cache.ArtifactKey(g.RunID(), cache.ArtifactKeyOpts{
		Object: g.Object().Name, Layer: id, Format: format, Width: opts.Width, Height: opts.Height,
	})

	data, hit, err := s.cache.Get(ctx, key)
	if err != nil || !hit {
		objs, err := io.FromGenerator(g, []int{id})
		if err != nil {
			writeError(w, err)
			return
		}
		data, err = pipeline.RenderLayer(g.Object().Name, objs.Layers[0], format, opts)
		if err != nil {
			writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "render layer %d", id))
			return
		}
		if err := s.cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			s.logger.Warn("cache set failed", "key", key, "err", err)
		}
	}
	w.Header().Set("Content-Type", contentTypes[format])
	if hit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	_, _ = w.Write(data)
}

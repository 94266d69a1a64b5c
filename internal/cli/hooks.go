package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/simar1998/OrcaSlicer-C3PD/pkg/observability"
)

// logHooks reports generator and pipeline events at debug level.
type logHooks struct {
	logger *log.Logger
}

var (
	_ observability.GeneratorHooks = logHooks{}
	_ observability.PipelineHooks  = logHooks{}
)

// RegisterLogHooks routes generator and pipeline events to l.
func RegisterLogHooks(l *log.Logger) {
	h := logHooks{logger: l}
	observability.SetGeneratorHooks(h)
	observability.SetPipelineHooks(h)
}

func (h logHooks) OnConstructStart(_ context.Context, object string, layers int) {
	h.logger.Debug("construct", "object", object, "layers", layers)
}

func (h logHooks) OnConstructComplete(_ context.Context, object string, nodes int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("construct failed", "object", object, "err", err)
		return
	}
	h.logger.Debug("constructed", "object", object, "nodes", nodes, "duration", d.Round(time.Millisecond))
}

func (h logHooks) OnOverhangComplete(_ context.Context, object string, points int, d time.Duration) {
	h.logger.Debug("overhang", "object", object, "points", points, "duration", d.Round(time.Millisecond))
}

func (h logHooks) OnLayerGrown(_ context.Context, object string, layer, nodes, roots int) {
	h.logger.Debug("layer", "object", object, "layer", layer, "nodes", nodes, "roots", roots)
}

func (h logHooks) OnGenerateStart(_ context.Context, objects int) {
	h.logger.Debug("generate", "objects", objects)
}

func (h logHooks) OnGenerateComplete(_ context.Context, objects int, d time.Duration, err error) {
	h.logger.Debug("generate done", "objects", objects, "duration", d.Round(time.Millisecond), "err", err)
}

func (h logHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render", "formats", formats)
}

func (h logHooks) OnRenderComplete(_ context.Context, formats []string, artifacts int, d time.Duration, err error) {
	h.logger.Debug("render done", "formats", formats, "artifacts", artifacts, "duration", d.Round(time.Millisecond), "err", err)
}

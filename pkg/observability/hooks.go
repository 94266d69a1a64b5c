// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about tree generation, pipeline runs, and API requests.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, so the generator packages
// never import a metrics backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetGeneratorHooks(&myGeneratorHooks{})
//	    observability.SetPipelineHooks(&myPipelineHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Generator().OnConstructStart(ctx, object, layers)
//	// ... grow the forests ...
//	observability.Generator().OnConstructComplete(ctx, object, nodes, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Generator Hooks
// =============================================================================

// GeneratorHooks receives events from lightning tree construction.
type GeneratorHooks interface {
	// Construction of one object
	OnConstructStart(ctx context.Context, object string, layers int)
	OnConstructComplete(ctx context.Context, object string, nodes int, duration time.Duration, err error)

	// OnOverhangComplete reports the overhang pass over all layers.
	OnOverhangComplete(ctx context.Context, object string, points int, duration time.Duration)

	// OnLayerGrown reports one finished layer forest.
	OnLayerGrown(ctx context.Context, object string, layer, nodes, roots int)
}

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the generate-and-export pipeline.
type PipelineHooks interface {
	// Generate events
	OnGenerateStart(ctx context.Context, objects int)
	OnGenerateComplete(ctx context.Context, objects int, duration time.Duration, err error)

	// Render events
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, artifacts int, duration time.Duration, err error)
}

// =============================================================================
// Server Hooks
// =============================================================================

// ServerHooks receives events from the query API.
type ServerHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records a completed response.
	OnResponse(ctx context.Context, method, path string, status int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopGeneratorHooks is a no-op implementation of GeneratorHooks.
type NoopGeneratorHooks struct{}

func (NoopGeneratorHooks) OnConstructStart(context.Context, string, int) {}
func (NoopGeneratorHooks) OnConstructComplete(context.Context, string, int, time.Duration, error) {
}
func (NoopGeneratorHooks) OnOverhangComplete(context.Context, string, int, time.Duration) {}
func (NoopGeneratorHooks) OnLayerGrown(context.Context, string, int, int, int)            {}

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnGenerateStart(context.Context, int)                          {}
func (NoopPipelineHooks) OnGenerateComplete(context.Context, int, time.Duration, error) {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                       {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, int, time.Duration, error) {
}

// NoopServerHooks is a no-op implementation of ServerHooks.
type NoopServerHooks struct{}

func (NoopServerHooks) OnRequest(context.Context, string, string)                      {}
func (NoopServerHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	generatorHooks GeneratorHooks = NoopGeneratorHooks{}
	pipelineHooks  PipelineHooks  = NoopPipelineHooks{}
	serverHooks    ServerHooks    = NoopServerHooks{}
	hooksMu        sync.RWMutex
)

// SetGeneratorHooks registers custom generator hooks.
// This should be called once at application startup before any generation.
func SetGeneratorHooks(h GeneratorHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		generatorHooks = h
	}
}

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any pipeline operations.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetServerHooks registers custom server hooks.
// This should be called once at application startup before serving requests.
func SetServerHooks(h ServerHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		serverHooks = h
	}
}

// Generator returns the registered generator hooks.
func Generator() GeneratorHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return generatorHooks
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Server returns the registered server hooks.
func Server() ServerHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return serverHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	generatorHooks = NoopGeneratorHooks{}
	pipelineHooks = NoopPipelineHooks{}
	serverHooks = NoopServerHooks{}
}

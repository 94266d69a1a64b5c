package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	g := NoopGeneratorHooks{}
	g.OnConstructStart(ctx, "bracket", 120)
	g.OnOverhangComplete(ctx, "bracket", 4096, time.Second)
	g.OnLayerGrown(ctx, "bracket", 17, 300, 12)
	g.OnConstructComplete(ctx, "bracket", 300, time.Second, nil)

	p := NoopPipelineHooks{}
	p.OnGenerateStart(ctx, 2)
	p.OnGenerateComplete(ctx, 2, time.Second, nil)
	p.OnRenderStart(ctx, []string{"svg"})
	p.OnRenderComplete(ctx, []string{"svg"}, 4, time.Second, nil)

	s := NoopServerHooks{}
	s.OnRequest(ctx, "GET", "/objects")
	s.OnResponse(ctx, "GET", "/objects", 200, time.Millisecond)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Generator().(NoopGeneratorHooks); !ok {
		t.Error("Generator() should return NoopGeneratorHooks by default")
	}
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Server().(NoopServerHooks); !ok {
		t.Error("Server() should return NoopServerHooks by default")
	}

	customGenerator := &testGeneratorHooks{}
	SetGeneratorHooks(customGenerator)
	if Generator() != customGenerator {
		t.Error("SetGeneratorHooks should set custom hooks")
	}

	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}

	customServer := &testServerHooks{}
	SetServerHooks(customServer)
	if Server() != customServer {
		t.Error("SetServerHooks should set custom hooks")
	}

	Reset()
	if _, ok := Generator().(NoopGeneratorHooks); !ok {
		t.Error("Reset() should restore NoopGeneratorHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testGeneratorHooks{}
	SetGeneratorHooks(custom)
	SetGeneratorHooks(nil)

	if Generator() != custom {
		t.Error("SetGeneratorHooks(nil) should be ignored")
	}

	Reset()
}

type testGeneratorHooks struct{ NoopGeneratorHooks }
type testPipelineHooks struct{ NoopPipelineHooks }
type testServerHooks struct{ NoopServerHooks }

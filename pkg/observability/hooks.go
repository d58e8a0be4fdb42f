// Package observability provides hooks for metrics, tracing, and logging.
//
// Libraries emit events through the registered hooks; main registers
// implementations at startup. The defaults do nothing, so the core packages
// carry no dependency on a metrics backend.
//
//	func main() {
//	    observability.SetPipelineHooks(observability.NewLogHooks(logger))
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnRenderStart(ctx, "pdf")
//	// ... render ...
//	observability.Pipeline().OnRenderComplete(ctx, "pdf", len(data), time.Since(start), err)
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// PipelineHooks receives events from the report pipeline.
type PipelineHooks interface {
	// OnClassify records the shape key computed for a payload.
	OnClassify(ctx context.Context, key string)

	// Assemble events
	OnAssembleStart(ctx context.Context, format string)
	OnAssembleComplete(ctx context.Context, format string, regions, missing int, duration time.Duration, err error)

	// Render events
	OnRenderStart(ctx context.Context, format string)
	OnRenderComplete(ctx context.Context, format string, size int, duration time.Duration, err error)
}

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnClassify(context.Context, string) {}

func (NoopPipelineHooks) OnAssembleStart(context.Context, string) {}

func (NoopPipelineHooks) OnAssembleComplete(context.Context, string, int, int, time.Duration, error) {}

func (NoopPipelineHooks) OnRenderStart(context.Context, string) {}

func (NoopPipelineHooks) OnRenderComplete(context.Context, string, int, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string) {}

func (NoopCacheHooks) OnCacheMiss(context.Context, string) {}

func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

type registry struct {
	pipeline PipelineHooks
	cache    CacheHooks
}

var hooks atomic.Pointer[registry]

func init() { Reset() }

func current() *registry { return hooks.Load() }

// SetPipelineHooks installs h for all later pipeline events. Nil is ignored.
// Call it from main before the first run.
func SetPipelineHooks(h PipelineHooks) {
	if h == nil {
		return
	}
	r := *current()
	r.pipeline = h
	hooks.Store(&r)
}

// SetCacheHooks installs h for all later cache events. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	if h == nil {
		return
	}
	r := *current()
	r.cache = h
	hooks.Store(&r)
}

// Pipeline returns the installed pipeline hooks.
func Pipeline() PipelineHooks { return current().pipeline }

// Cache returns the installed cache hooks.
func Cache() CacheHooks { return current().cache }

// Reset reinstalls the no-op hooks. Tests call it in cleanup.
func Reset() {
	hooks.Store(&registry{pipeline: NoopPipelineHooks{}, cache: NoopCacheHooks{}})
}

package observability

import (
	"context"
	"testing"
	"time"
)

type countingRenderHooks struct {
	starts, completes int
	composes          int
}

func (h *countingRenderHooks) OnRenderStart(context.Context, string, string) { h.starts++ }
func (h *countingRenderHooks) OnRenderComplete(context.Context, string, string, time.Duration, error) {
	h.completes++
}
func (h *countingRenderHooks) OnComposeStart(context.Context, int) { h.composes++ }
func (h *countingRenderHooks) OnComposeComplete(context.Context, int, int, time.Duration, error) {
}

type countingCacheHooks struct {
	hits, misses, sets int
}

func (h *countingCacheHooks) OnCacheHit(context.Context, string)      { h.hits++ }
func (h *countingCacheHooks) OnCacheMiss(context.Context, string)     { h.misses++ }
func (h *countingCacheHooks) OnCacheSet(context.Context, string, int) { h.sets++ }

func TestSetRenderHooks(t *testing.T) {
	t.Cleanup(Reset)

	hooks := &countingRenderHooks{}
	SetRenderHooks(hooks)

	ctx := context.Background()
	Render().OnRenderStart(ctx, "code128", "253310001")
	Render().OnRenderComplete(ctx, "code128", "253310001", time.Millisecond, nil)
	Render().OnComposeStart(ctx, 32)

	if hooks.starts != 1 || hooks.completes != 1 || hooks.composes != 1 {
		t.Errorf("hooks = %+v", hooks)
	}
}

func TestSetCacheHooks(t *testing.T) {
	t.Cleanup(Reset)

	hooks := &countingCacheHooks{}
	SetCacheHooks(hooks)

	ctx := context.Background()
	Cache().OnCacheMiss(ctx, "render")
	Cache().OnCacheSet(ctx, "render", 1024)
	Cache().OnCacheHit(ctx, "render")

	if hooks.hits != 1 || hooks.misses != 1 || hooks.sets != 1 {
		t.Errorf("hooks = %+v", hooks)
	}
}

func TestSetNilHooksKeepsCurrent(t *testing.T) {
	t.Cleanup(Reset)

	hooks := &countingRenderHooks{}
	SetRenderHooks(hooks)
	SetRenderHooks(nil)

	Render().OnRenderStart(context.Background(), "qr", "x")
	if hooks.starts != 1 {
		t.Error("nil registration should not replace hooks")
	}
}

func TestReset(t *testing.T) {
	hooks := &countingRenderHooks{}
	SetRenderHooks(hooks)
	Reset()

	Render().OnRenderStart(context.Background(), "code128", "x")
	if hooks.starts != 0 {
		t.Error("Reset should restore no-op hooks")
	}
}

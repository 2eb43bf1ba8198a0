package barcode

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"time"

	"github.com/labelforge/labelforge/pkg/cache"
	"github.com/labelforge/labelforge/pkg/errors"
	"github.com/labelforge/labelforge/pkg/observability"
)

// cacheKeyType tags render cache events for observability hooks.
const cacheKeyType = "render"

// DefaultCacheTTL bounds how long rendered symbols stay cached. Renders are
// deterministic, so the TTL only limits disk growth.
const DefaultCacheTTL = 30 * 24 * time.Hour

// CachingRenderer wraps a Renderer with a byte cache. Rendered symbols are
// stored PNG-encoded, keyed by symbology, text, and pixel size.
type CachingRenderer struct {
	inner Renderer
	cache cache.Cache
	ttl   time.Duration
}

// NewCaching wraps inner with c. A nil cache falls back to a NullCache.
func NewCaching(inner Renderer, c cache.Cache) *CachingRenderer {
	if c == nil {
		c = cache.NewNullCache()
	}
	return &CachingRenderer{inner: inner, cache: c, ttl: DefaultCacheTTL}
}

// Symbology returns the wrapped renderer's symbology.
func (r *CachingRenderer) Symbology() string { return r.inner.Symbology() }

// Render returns a cached image when available, otherwise renders and
// stores the result. Cache failures degrade to a plain render.
func (r *CachingRenderer) Render(ctx context.Context, text string, width, height int) (image.Image, error) {
	key := cache.RenderKey(r.inner.Symbology(), text, width, height)

	if data, ok, err := r.cache.Get(ctx, key); err == nil && ok {
		if img, err := png.Decode(bytes.NewReader(data)); err == nil {
			observability.Cache().OnCacheHit(ctx, cacheKeyType)
			return img, nil
		}
		// Corrupt entry - drop it and re-render
		_ = r.cache.Delete(ctx, key)
	}
	observability.Cache().OnCacheMiss(ctx, cacheKeyType)

	observability.Render().OnRenderStart(ctx, r.inner.Symbology(), text)
	start := time.Now()
	img, err := r.inner.Render(ctx, text, width, height)
	observability.Render().OnRenderComplete(ctx, r.inner.Symbology(), text, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode %q for cache", text)
	}
	if r.cache.Set(ctx, key, buf.Bytes(), r.ttl) == nil {
		observability.Cache().OnCacheSet(ctx, cacheKeyType, buf.Len())
	}

	return img, nil
}

// Ensure CachingRenderer implements Renderer.
var _ Renderer = (*CachingRenderer)(nil)

// Package cache provides byte-level caching for rendered barcode images.
//
// Rendering a Code128 symbol for the same value and size always produces the
// same pixels, so the CLI keeps encoded PNGs in a file cache between runs.
// The API server can run with a NullCache when caching is disabled.
//
// # Usage
//
//	c, err := cache.NewFileCache(dir)
//	if err != nil {
//	    return err
//	}
//	defer c.Close()
//
//	key := cache.RenderKey("code128", "253310001", 250, 100)
//	data, ok, err := c.Get(ctx, key)
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys with optional expiry.
type Cache interface {
	// Get retrieves a value. The second return is false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// RenderKey generates a cache key for a rendered barcode image.
// The key includes symbology, encoded text, and pixel dimensions so that
// differently sized renders of the same value never collide.
func RenderKey(symbology, text string, width, height int) string {
	return hashKey("render", symbology, text, width, height)
}

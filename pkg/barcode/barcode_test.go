package barcode

import (
	"context"
	"image"
	"sync/atomic"
	"testing"

	"github.com/labelforge/labelforge/pkg/cache"
	"github.com/labelforge/labelforge/pkg/errors"
)

func TestCode128Render(t *testing.T) {
	r := NewCode128()
	img, err := r.Render(context.Background(), "253310001", 250, 100)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() != 250 || bounds.Dy() != 100 {
		t.Errorf("image size = %dx%d, want 250x100", bounds.Dx(), bounds.Dy())
	}
}

func TestCode128RenderErrors(t *testing.T) {
	r := NewCode128()
	ctx := context.Background()

	tests := []struct {
		name     string
		text     string
		w, h     int
		wantCode errors.Code
	}{
		{"empty text", "", 250, 100, errors.ErrCodeInvalidInput},
		{"zero width", "123", 0, 100, errors.ErrCodeInvalidInput},
		{"negative height", "123", 250, -1, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Render(ctx, tt.text, tt.w, tt.h)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("error code = %q, want %q", errors.GetCode(err), tt.wantCode)
			}
		})
	}
}

func TestCode128RenderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewCode128().Render(ctx, "123", 250, 100); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestQRRender(t *testing.T) {
	r := NewQR()
	img, err := r.Render(context.Background(), "253310001", 120, 100)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	// Square symbol sized by the smaller dimension.
	bounds := img.Bounds()
	if bounds.Dx() != 100 || bounds.Dy() != 100 {
		t.Errorf("image size = %dx%d, want 100x100", bounds.Dx(), bounds.Dy())
	}
}

// countingRenderer counts Render calls for cache tests.
type countingRenderer struct {
	inner Renderer
	calls atomic.Int64
}

func (r *countingRenderer) Symbology() string { return r.inner.Symbology() }

func (r *countingRenderer) Render(ctx context.Context, text string, w, h int) (image.Image, error) {
	r.calls.Add(1)
	return r.inner.Render(ctx, text, w, h)
}

func TestCachingRendererHit(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	counting := &countingRenderer{inner: NewCode128()}
	r := NewCaching(counting, c)

	for i := 0; i < 3; i++ {
		img, err := r.Render(ctx, "253310001", 250, 100)
		if err != nil {
			t.Fatalf("Render %d: %v", i, err)
		}
		if img.Bounds().Dx() != 250 {
			t.Errorf("Render %d: width = %d, want 250", i, img.Bounds().Dx())
		}
	}

	if got := counting.calls.Load(); got != 1 {
		t.Errorf("inner renderer called %d times, want 1", got)
	}
}

func TestCachingRendererDistinctKeys(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	counting := &countingRenderer{inner: NewCode128()}
	r := NewCaching(counting, c)

	if _, err := r.Render(ctx, "100", 250, 100); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if _, err := r.Render(ctx, "100", 180, 80); err != nil {
		t.Fatalf("Render: %v", err)
	}

	if got := counting.calls.Load(); got != 2 {
		t.Errorf("inner renderer called %d times, want 2 (different sizes)", got)
	}
}

func TestCachingRendererNilCache(t *testing.T) {
	r := NewCaching(NewCode128(), nil)
	if _, err := r.Render(context.Background(), "100", 250, 100); err != nil {
		t.Fatalf("Render with nil cache: %v", err)
	}
}

func TestCachingRendererPropagatesError(t *testing.T) {
	r := NewCaching(NewCode128(), cache.NewNullCache())
	if _, err := r.Render(context.Background(), "", 250, 100); err == nil {
		t.Error("expected error for empty text")
	}
}

// Package barcode renders label values as barcode images.
//
// Symbol encoding is delegated entirely to dedicated encoders: Code128 via
// github.com/boombuler/barcode and QR via github.com/skip2/go-qrcode. There
// is deliberately no fallback pattern generator: a value the encoder rejects
// produces an error, and the layout consumer reserves the slot with a
// placeholder instead of drawing an undecodable picture.
package barcode

import (
	"context"
	"image"

	bb "github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"

	"github.com/labelforge/labelforge/pkg/errors"
)

// Default pixel dimensions for rendered symbols. The Excel writer uses the
// larger size, the PDF pipeline the smaller one.
const (
	DefaultWidth  = 250
	DefaultHeight = 100

	PDFWidth  = 180
	PDFHeight = 80
)

// Renderer produces an image for a label value at the requested pixel size.
type Renderer interface {
	// Render returns the symbol image for text. Implementations must be
	// safe for concurrent use.
	Render(ctx context.Context, text string, width, height int) (image.Image, error)

	// Symbology identifies the symbol family, e.g. "code128".
	Symbology() string
}

// Code128Renderer renders Code128 symbols.
type Code128Renderer struct{}

// NewCode128 creates a Code128 renderer.
func NewCode128() *Code128Renderer {
	return &Code128Renderer{}
}

// Symbology returns "code128".
func (r *Code128Renderer) Symbology() string { return "code128" }

// Render encodes text as Code128 and scales it to width x height pixels.
func (r *Code128Renderer) Render(ctx context.Context, text string, width, height int) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if text == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "barcode text cannot be empty")
	}
	if width < 1 || height < 1 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "barcode dimensions must be positive, got %dx%d", width, height)
	}

	// ColorScheme8 keeps the PNG at 8-bit depth; gopdf rejects the 16-bit
	// grayscale images the default scheme produces.
	sym, err := code128.EncodeWithColor(text, bb.ColorScheme8)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "encode %q as Code128", text)
	}

	scaled, err := bb.Scale(sym, width, height)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "scale %q to %dx%d", text, width, height)
	}
	return scaled, nil
}

// Ensure Code128Renderer implements Renderer.
var _ Renderer = (*Code128Renderer)(nil)

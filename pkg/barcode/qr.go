package barcode

import (
	"context"
	"image"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/labelforge/labelforge/pkg/errors"
)

// QRRenderer renders QR symbols. QR codes are square; Render uses the
// smaller of the requested dimensions as the side length.
type QRRenderer struct {
	Level qrcode.RecoveryLevel
}

// NewQR creates a QR renderer with medium error recovery.
func NewQR() *QRRenderer {
	return &QRRenderer{Level: qrcode.Medium}
}

// Symbology returns "qr".
func (r *QRRenderer) Symbology() string { return "qr" }

// Render encodes text as a QR symbol sized to fit width x height.
func (r *QRRenderer) Render(ctx context.Context, text string, width, height int) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if text == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "barcode text cannot be empty")
	}
	side := width
	if height < side {
		side = height
	}
	if side < 1 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "barcode dimensions must be positive, got %dx%d", width, height)
	}

	qr, err := qrcode.New(text, r.Level)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "encode %q as QR", text)
	}
	return qr.Image(side), nil
}

// Ensure QRRenderer implements Renderer.
var _ Renderer = (*QRRenderer)(nil)

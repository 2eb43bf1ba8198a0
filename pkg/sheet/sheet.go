// Package sheet composes printable A4 PDF sheets of barcode labels.
//
// The composer consumes placements from the layout engine and draws each
// label's symbol and caption with gopdf. Page breaks follow the engine's
// markers; rendering failures for individual labels become outlined
// placeholder cells so that slot numbering stays aligned with any
// pre-printed records.
package sheet

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/signintech/gopdf"

	"github.com/labelforge/labelforge/pkg/barcode"
	"github.com/labelforge/labelforge/pkg/errors"
	"github.com/labelforge/labelforge/pkg/layout"
	"github.com/labelforge/labelforge/pkg/observability"
)

// DefaultCaptionSize is the caption text height in points.
const DefaultCaptionSize = 8.0

// Composer renders label sheets as PDF documents.
type Composer struct {
	renderer     barcode.Renderer
	captionSize  float64
	placeholders bool
	ttf          []byte
	ttfName      string
	logger       *log.Logger
}

// Option configures a Composer.
type Option func(*Composer)

// WithCaptionSize sets the caption text height in points.
func WithCaptionSize(pts float64) Option {
	return func(c *Composer) { c.captionSize = pts }
}

// WithoutPlaceholders leaves failed cells blank instead of drawing an
// outlined placeholder. The slot is still consumed either way.
func WithoutPlaceholders() Option {
	return func(c *Composer) { c.placeholders = false }
}

// WithTTF embeds a TrueType font and uses it for captions instead of the
// built-in raster face.
func WithTTF(name string, data []byte) Option {
	return func(c *Composer) { c.ttfName = name; c.ttf = data }
}

// WithLogger attaches a logger for per-label render diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(c *Composer) { c.logger = l }
}

// NewComposer creates a sheet composer that draws symbols from r.
func NewComposer(r barcode.Renderer, opts ...Option) *Composer {
	c := &Composer{
		renderer:     r,
		captionSize:  DefaultCaptionSize,
		placeholders: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Result reports what Compose produced.
type Result struct {
	Labels int // labels placed, including failed ones
	Pages  int
	Failed int // labels drawn as placeholders
}

// Compose lays out labels on geometry g and returns the finished PDF.
//
// Geometry violations fail before any output is produced. Per-label render
// failures are non-fatal: the slot is kept and a placeholder drawn, so the
// label after a failure occupies the next slot, never the failed one's.
func (c *Composer) Compose(ctx context.Context, labels []layout.Label, g layout.Geometry) ([]byte, *Result, error) {
	seq, err := layout.Layout(labels, g)
	if err != nil {
		return nil, nil, err
	}

	observability.Render().OnComposeStart(ctx, len(labels))
	start := time.Now()

	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: gopdf.Rect{W: g.PageWidth, H: g.PageHeight}})

	if c.ttf != nil {
		if err := pdf.AddTTFFontData(c.ttfName, c.ttf); err != nil {
			err = errors.Wrap(errors.ErrCodeInvalidConfig, err, "load caption font %q", c.ttfName)
			observability.Render().OnComposeComplete(ctx, len(labels), 0, time.Since(start), err)
			return nil, nil, err
		}
		if err := pdf.SetFont(c.ttfName, "", c.captionSize); err != nil {
			err = errors.Wrap(errors.ErrCodeInvalidConfig, err, "select caption font %q", c.ttfName)
			observability.Render().OnComposeComplete(ctx, len(labels), 0, time.Since(start), err)
			return nil, nil, err
		}
	}

	res := &Result{}
	for p := range seq {
		if err := ctx.Err(); err != nil {
			observability.Render().OnComposeComplete(ctx, len(labels), res.Pages, time.Since(start), err)
			return nil, nil, err
		}

		if res.Labels == 0 || p.NewPage {
			pdf.AddPage()
			res.Pages++
		}
		res.Labels++

		if err := c.drawLabel(ctx, &pdf, g, p); err != nil {
			// Slot stays consumed; later labels keep their positions.
			res.Failed++
			if c.logger != nil {
				c.logger.Warn("placeholder for failed label", "label", p.Label.Text(), "page", p.Page, "slot", p.Slot, "err", err)
			}
			if c.placeholders {
				c.drawPlaceholder(&pdf, g, p)
			}
		}
	}

	observability.Render().OnComposeComplete(ctx, res.Labels, res.Pages, time.Since(start), nil)
	return pdf.GetBytesPdf(), res, nil
}

// drawLabel draws one label's symbol and caption at its placement.
func (c *Composer) drawLabel(ctx context.Context, pdf *gopdf.GoPdf, g layout.Geometry, p layout.Placement) error {
	if p.Failed {
		return errors.New(errors.ErrCodeRenderFailed, "label %q marked failed upstream", p.Label.Text())
	}

	img, err := c.renderer.Render(ctx, p.Label.Text(), barcode.PDFWidth, barcode.PDFHeight)
	if err != nil {
		return err
	}

	// The engine emits bottom-left-origin rects; gopdf measures y from the
	// page top.
	top := g.PageHeight - (p.Image.Y + p.Image.H)
	if err := pdf.ImageFrom(img, p.Image.X, top, &gopdf.Rect{W: p.Image.W, H: p.Image.H}); err != nil {
		return errors.Wrap(errors.ErrCodeRenderFailed, err, "place image for %q", p.Label.Text())
	}

	return c.drawCaption(pdf, g, p)
}

// drawCaption draws the label text centered on the caption baseline.
func (c *Composer) drawCaption(pdf *gopdf.GoPdf, g layout.Geometry, p layout.Placement) error {
	text := p.Label.Text()
	if text == "" {
		return nil
	}

	if c.ttf != nil {
		width, err := pdf.MeasureTextWidth(text)
		if err != nil {
			return errors.Wrap(errors.ErrCodeRenderFailed, err, "measure caption %q", text)
		}
		pdf.SetXY(p.CaptionX-width/2, g.PageHeight-p.CaptionY-c.captionSize)
		if err := pdf.Text(text); err != nil {
			return errors.Wrap(errors.ErrCodeRenderFailed, err, "draw caption %q", text)
		}
		return nil
	}

	img := captionImage(text)
	bounds := img.Bounds()
	h := c.captionSize
	w := h * float64(bounds.Dx()) / float64(bounds.Dy())
	top := g.PageHeight - p.CaptionY - h
	if err := pdf.ImageFrom(img, p.CaptionX-w/2, top, &gopdf.Rect{W: w, H: h}); err != nil {
		return errors.Wrap(errors.ErrCodeRenderFailed, err, "draw caption %q", text)
	}
	return nil
}

// drawPlaceholder outlines the failed label's image rect and writes its text
// where the caption would sit.
func (c *Composer) drawPlaceholder(pdf *gopdf.GoPdf, g layout.Geometry, p layout.Placement) {
	top := g.PageHeight - (p.Image.Y + p.Image.H)
	pdf.SetLineWidth(0.5)
	pdf.RectFromUpperLeftWithStyle(p.Image.X, top, p.Image.W, p.Image.H, "D")
	_ = c.drawCaption(pdf, g, p)
}

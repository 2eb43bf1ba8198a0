package layout

import "iter"

// Fractional cell insets. The image shrinks by insetFrac of the cell on
// each side so adjacent barcodes never touch; the caption baseline drops
// captionDropFrac of the cell height below the image bottom.
const (
	insetFrac       = 0.05
	imageWidthFrac  = 0.90
	imageHeightFrac = 0.75
	captionDropFrac = 0.15
)

// Label is one value to be placed on the sheet. The zero value is an empty,
// non-failed label.
type Label struct {
	text   string
	failed bool
}

// NewLabel creates a label for the given text.
func NewLabel(text string) Label {
	return Label{text: text}
}

// FailedLabel creates a label whose image could not be produced upstream.
// It still consumes a slot; the consumer draws a placeholder instead of
// skipping, since skipping would shift every later slot.
func FailedLabel(text string) Label {
	return Label{text: text, failed: true}
}

// Text returns the label's textual representation.
func (l Label) Text() string { return l.text }

// Failed reports whether the label's image rendering failed upstream.
func (l Label) Failed() bool { return l.failed }

// Rect is an axis-aligned rectangle in bottom-left-origin coordinates.
type Rect struct {
	X, Y float64
	W, H float64
}

// Placement assigns one label to a page, an image rectangle, and a caption
// baseline.
type Placement struct {
	Label   Label
	Ordinal int // 0-based position in the input sequence
	Page    int // 0-based page index
	Slot    int // position within the page, [0, capacity)
	Row     int
	Col     int

	Image    Rect    // where to draw the label's image
	CaptionX float64 // caption center, under the image
	CaptionY float64 // caption baseline

	// NewPage is the page-break marker: true exactly when this placement
	// opens a page after the first. No marker follows the final placement,
	// even when it fills its page.
	NewPage bool

	// Failed mirrors Label.Failed: the slot is consumed but the consumer
	// should draw an error placeholder instead of an image.
	Failed bool
}

// Layout computes placements for labels on the grid described by g.
//
// The returned sequence is lazy and deterministic: placements are produced
// in strict input order with page = i / capacity and slot = i % capacity.
// An empty label slice yields an empty sequence. Geometry violations are
// reported before any placement is produced.
func Layout(labels []Label, g Geometry) (iter.Seq[Placement], error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	capacity := g.Capacity()
	cellW := g.CellWidth()
	cellH := g.CellHeight()

	return func(yield func(Placement) bool) {
		for i, label := range labels {
			page := i / capacity
			slot := i % capacity
			row := slot / g.Columns
			col := slot % g.Columns

			// Cell origin in bottom-left coordinates. Row 0 is the top row,
			// so the conversion subtracts (row+1) cells from the top margin.
			cellX := g.MarginX + float64(col)*cellW
			cellY := g.PageHeight - g.MarginY - float64(row+1)*cellH

			imgW := cellW * imageWidthFrac
			imgH := cellH * imageHeightFrac

			// Horizontally centered, anchored toward the top of the padded
			// cell (cell inset by insetFrac on each side).
			imgX := cellX + (cellW-imgW)/2
			imgY := cellY + cellH - cellH*insetFrac - imgH

			p := Placement{
				Label:    label,
				Ordinal:  i,
				Page:     page,
				Slot:     slot,
				Row:      row,
				Col:      col,
				Image:    Rect{X: imgX, Y: imgY, W: imgW, H: imgH},
				CaptionX: imgX + imgW/2,
				CaptionY: imgY - cellH*captionDropFrac,
				NewPage:  slot == 0 && i > 0,
				Failed:   label.Failed(),
			}
			if !yield(p) {
				return
			}
		}
	}, nil
}

// Collect materializes the full placement sequence. It exists for callers
// that need random access (tests, the workbook writer); the PDF composer
// consumes the lazy sequence directly.
func Collect(labels []Label, g Geometry) ([]Placement, error) {
	seq, err := Layout(labels, g)
	if err != nil {
		return nil, err
	}
	out := make([]Placement, 0, len(labels))
	for p := range seq {
		out = append(out, p)
	}
	return out, nil
}

// PageCount returns the number of pages needed for n labels on geometry g:
// ceil(n / capacity), 0 when n == 0.
func PageCount(n int, g Geometry) int {
	if n <= 0 {
		return 0
	}
	capacity := g.Capacity()
	return (n + capacity - 1) / capacity
}

// Labels converts textual values into labels, preserving order.
func Labels(texts []string) []Label {
	out := make([]Label, len(texts))
	for i, t := range texts {
		out[i] = NewLabel(t)
	}
	return out
}

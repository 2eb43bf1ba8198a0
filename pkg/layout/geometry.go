package layout

import (
	"github.com/labelforge/labelforge/pkg/errors"
)

// PointsPerMM converts millimetres to PDF points (1 pt = 1/72 inch).
const PointsPerMM = 72.0 / 25.4

// MM converts a millimetre measurement to points.
func MM(v float64) float64 {
	return v * PointsPerMM
}

// Default A4 sheet parameters, matching a 4x8 grid of 32 labels per page.
const (
	A4WidthMM  = 210.0
	A4HeightMM = 297.0

	DefaultMarginXMM = 12.0
	DefaultMarginYMM = 15.0

	DefaultColumns = 4
	DefaultRows    = 8
)

// Geometry describes the printable grid on one page. All lengths are in
// points.
type Geometry struct {
	PageWidth  float64
	PageHeight float64
	MarginX    float64
	MarginY    float64
	Columns    int
	Rows       int
}

// A4 returns the default geometry: an A4 page with 12 mm / 15 mm margins
// and a 4x8 grid.
func A4() Geometry {
	return Geometry{
		PageWidth:  MM(A4WidthMM),
		PageHeight: MM(A4HeightMM),
		MarginX:    MM(DefaultMarginXMM),
		MarginY:    MM(DefaultMarginYMM),
		Columns:    DefaultColumns,
		Rows:       DefaultRows,
	}
}

// Validate checks the geometry invariants. It must be called (directly or
// via Layout) before any placement arithmetic: a zero column count or a
// margin past the page midline makes every derived cell meaningless.
func (g Geometry) Validate() error {
	if g.PageWidth <= 0 || g.PageHeight <= 0 {
		return errors.New(errors.ErrCodeInvalidGeometry, "page dimensions must be positive, got %gx%g", g.PageWidth, g.PageHeight)
	}
	if g.Columns < 1 {
		return errors.New(errors.ErrCodeInvalidGeometry, "columns must be >= 1, got %d", g.Columns)
	}
	if g.Rows < 1 {
		return errors.New(errors.ErrCodeInvalidGeometry, "rows must be >= 1, got %d", g.Rows)
	}
	if g.MarginX < 0 || g.MarginX >= g.PageWidth/2 {
		return errors.New(errors.ErrCodeInvalidGeometry, "horizontal margin %g must be in [0, %g)", g.MarginX, g.PageWidth/2)
	}
	if g.MarginY < 0 || g.MarginY >= g.PageHeight/2 {
		return errors.New(errors.ErrCodeInvalidGeometry, "vertical margin %g must be in [0, %g)", g.MarginY, g.PageHeight/2)
	}
	return nil
}

// Capacity returns the number of labels that fit on one page.
func (g Geometry) Capacity() int {
	return g.Columns * g.Rows
}

// CellWidth returns the width of one grid cell.
func (g Geometry) CellWidth() float64 {
	return (g.PageWidth - 2*g.MarginX) / float64(g.Columns)
}

// CellHeight returns the height of one grid cell.
func (g Geometry) CellHeight() float64 {
	return (g.PageHeight - 2*g.MarginY) / float64(g.Rows)
}

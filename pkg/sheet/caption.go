package sheet

import (
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// captionFace is the built-in raster face used when no TTF is configured.
// Face7x13 is 13px tall with the baseline at row 11.
var captionFace = basicfont.Face7x13

const captionBaseline = 11

// captionImage rasters text with the built-in face on a transparent
// background. The result is scaled down to caption size when placed, which
// keeps digits legible at 8pt.
func captionImage(text string) *image.RGBA {
	width := font.MeasureString(captionFace, text).Ceil()
	if width < 1 {
		width = 1
	}

	img := image.NewRGBA(image.Rect(0, 0, width, captionFace.Height))
	d := &font.Drawer{
		Dst:  img,
		Src:  image.Black,
		Face: captionFace,
		Dot:  fixed.P(0, captionBaseline),
	}
	d.DrawString(text)
	return img
}

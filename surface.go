package gocert

import (
	"image"
	"io"
)

// TextStyle describes how a run of text is drawn.
type TextStyle struct {
	Size  float64
	Bold  bool
	Color Color
}

// TextMeasurer measures the advance width of single-line text.
type TextMeasurer interface {
	MeasureText(s string, style TextStyle) float64
}

// DrawingSurface is the set of primitives a certificate is drawn with. All
// coordinates are absolute and follow the surface's Origin convention.
type DrawingSurface interface {
	TextMeasurer

	Origin() Origin
	Size() (width, height float64)

	FillRect(r Rect, c Color)
	// StrokeRect strokes the inside of r with a line of the given width.
	StrokeRect(r Rect, c Color, width float64)
	// DrawText draws s with its left edge at x and its vertical middle at y.
	DrawText(s string, x, y float64, style TextStyle)
	// DrawRotatedText draws s centered on c, rotated counter-clockwise by
	// angle degrees and alpha-blended at opacity.
	DrawRotatedText(s string, c Point, angle float64, style TextStyle, opacity float64)
	// DrawImage draws img scaled to fill r.
	DrawImage(img image.Image, r Rect) error

	// Encode writes the finished certificate.
	Encode(w io.Writer) error
	MIMEType() string
}

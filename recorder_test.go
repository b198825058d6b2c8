package gocert

import (
	"fmt"
	"image"
	"io"
	"strings"
)

// recordedOp is one primitive call captured by recordingSurface.
type recordedOp struct {
	Kind    string // fill, stroke, text, rotated, image
	Rect    Rect
	Text    string
	Point   Point
	Style   TextStyle
	Color   Color
	Angle   float64
	Opacity float64
}

// recordingSurface captures primitive calls instead of drawing. Text is
// measured at a fixed advance per rune, scaled by size.
type recordingSurface struct {
	origin    Origin
	w, h      float64
	ops       []recordedOp
	imageErr  error
	encodeErr error
}

func newRecordingSurface(o Origin, w, h float64) *recordingSurface {
	return &recordingSurface{origin: o, w: w, h: h}
}

func (r *recordingSurface) Origin() Origin { return r.origin }
func (r *recordingSurface) Size() (float64, float64) { return r.w, r.h }
func (r *recordingSurface) MIMEType() string { return "application/x-recording" }
func (r *recordingSurface) MeasureText(s string, st TextStyle) float64 {
	return float64(len([]rune(s))) * st.Size * 0.5
}

func (r *recordingSurface) FillRect(rect Rect, c Color) {
	r.ops = append(r.ops, recordedOp{Kind: "fill", Rect: rect, Color: c})
}

func (r *recordingSurface) StrokeRect(rect Rect, c Color, width float64) {
	r.ops = append(r.ops, recordedOp{Kind: "stroke", Rect: rect, Color: c})
}

func (r *recordingSurface) DrawText(s string, x, y float64, st TextStyle) {
	r.ops = append(r.ops, recordedOp{Kind: "text", Text: s, Point: Point{X: x, Y: y}, Style: st})
}

func (r *recordingSurface) DrawRotatedText(s string, c Point, angle float64, st TextStyle, opacity float64) {
	r.ops = append(r.ops, recordedOp{Kind: "rotated", Text: s, Point: c, Style: st, Angle: angle, Opacity: opacity})
}

func (r *recordingSurface) DrawImage(img image.Image, rect Rect) error {
	if r.imageErr != nil {
		return r.imageErr
	}
	r.ops = append(r.ops, recordedOp{Kind: "image", Rect: rect})
	return nil
}

func (r *recordingSurface) Encode(w io.Writer) error {
	if r.encodeErr != nil {
		return r.encodeErr
	}
	for _, op := range r.ops {
		fmt.Fprintf(w, "%s %q\n", op.Kind, op.Text)
	}
	return nil
}

// texts returns the drawn strings in order.
func (r *recordingSurface) texts() []string {
	var out []string
	for _, op := range r.ops {
		if op.Kind == "text" || op.Kind == "rotated" {
			out = append(out, op.Text)
		}
	}
	return out
}

func (r *recordingSurface) find(kind, text string) (recordedOp, bool) {
	for _, op := range r.ops {
		if op.Kind == kind && (text == "" || strings.Contains(op.Text, text)) {
			return op, true
		}
	}
	return recordedOp{}, false
}

func (r *recordingSurface) count(kind string) int {
	n := 0
	for _, op := range r.ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// fixedMeasurer gives every rune the same advance.
type fixedMeasurer float64

func (f fixedMeasurer) MeasureText(s string, _ TextStyle) float64 {
	return float64(len([]rune(s))) * float64(f)
}

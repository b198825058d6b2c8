package gocert

import "math"

// Ornament proportions, relative to the shorter canvas side.
const (
	borderInsetRatio   = 0.02
	accentBarRatio     = 0.03
	bracketInsetRatio  = 0.045
	bracketArmRatio    = 0.11
	bracketWidthRatio  = 0.007
	watermarkSizeRatio = 0.13
	watermarkAngle     = 45.0
)

// Decorate draws the background ornamentation of template t. Only modern and
// elegant have ornaments; classic relies on border and watermark and
// minimalist draws nothing.
func Decorate(s DrawingSurface, t Template, w, h float64, primary Color) {
	switch t {
	case TemplateModern:
		drawAccentBars(s, w, h, primary)
	case TemplateElegant:
		drawCornerBrackets(s, w, h, primary)
	}
}

// drawAccentBars fills full-width bars along the top and bottom edges.
func drawAccentBars(s DrawingSurface, w, h float64, c Color) {
	bar := math.Min(w, h) * accentBarRatio
	o := s.Origin()
	s.FillRect(MapRect(0, 0, w, bar, h, o), c)
	s.FillRect(MapRect(0, h-bar, w, bar, h, o), c)
}

// drawCornerBrackets draws an L-shaped bracket in each corner, opening
// toward the center.
func drawCornerBrackets(s DrawingSurface, w, h float64, c Color) {
	short := math.Min(w, h)
	inset := short * bracketInsetRatio
	arm := short * bracketArmRatio
	t := math.Max(2, short*bracketWidthRatio)
	o := s.Origin()

	left, right := inset, w-inset
	top, bottom := inset, h-inset

	// top-left
	s.FillRect(MapRect(left, top, arm, t, h, o), c)
	s.FillRect(MapRect(left, top, t, arm, h, o), c)
	// top-right
	s.FillRect(MapRect(right-arm, top, arm, t, h, o), c)
	s.FillRect(MapRect(right-t, top, t, arm, h, o), c)
	// bottom-left
	s.FillRect(MapRect(left, bottom-t, arm, t, h, o), c)
	s.FillRect(MapRect(left, bottom-arm, t, arm, h, o), c)
	// bottom-right
	s.FillRect(MapRect(right-arm, bottom-t, arm, t, h, o), c)
	s.FillRect(MapRect(right-t, bottom-arm, t, arm, h, o), c)
}

// DrawBorder strokes an inset rectangle around the canvas.
func DrawBorder(s DrawingSurface, w, h, width float64, c Color) {
	if width <= 0 {
		return
	}
	inset := math.Min(w, h) * borderInsetRatio
	s.StrokeRect(MapRect(inset, inset, w-2*inset, h-2*inset, h, s.Origin()), c, width)
}

// DrawWatermark draws text large, centered and rotated 45° counter-clockwise
// at the given opacity. text must already be sanitized.
func DrawWatermark(s DrawingSurface, text string, w, h float64, c Color, opacity float64) {
	if text == "" {
		return
	}
	style := TextStyle{Size: math.Min(w, h) * watermarkSizeRatio, Bold: true, Color: c}
	s.DrawRotatedText(text, Point{X: w / 2, Y: h / 2}, watermarkAngle, style, opacity)
}

// DrawPlaceholder draws a bordered box labeled with label, the stand-in for
// an asset that could not be loaded.
func DrawPlaceholder(s DrawingSurface, r Rect, label string, c Color) {
	s.StrokeRect(r, c, math.Max(1, math.Min(r.W, r.H)*0.02))
	style := TextStyle{Size: math.Max(8, math.Min(r.W, r.H)*0.18), Bold: true, Color: c}
	center := r.Center()
	s.DrawText(label, CenteredX(center.X, s.MeasureText(label, style)), center.Y, style)
}

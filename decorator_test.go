package gocert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecorate_PerTemplate(t *testing.T) {
	tests := []struct {
		tmpl  Template
		fills int
	}{
		{TemplateModern, 2},
		{TemplateElegant, 8},
		{TemplateClassic, 0},
		{TemplateMinimalist, 0},
	}
	for _, tt := range tests {
		t.Run(string(tt.tmpl), func(t *testing.T) {
			s := newRecordingSurface(OriginTopLeft, 1200, 850)
			Decorate(s, tt.tmpl, 1200, 850, NewColor("1E40AF"))
			assert.Equal(t, tt.fills, s.count("fill"))
			assert.Equal(t, len(s.ops), tt.fills)
		})
	}
}

func TestDecorate_AccentBarsFollowOrigin(t *testing.T) {
	top := newRecordingSurface(OriginTopLeft, 1200, 850)
	Decorate(top, TemplateModern, 1200, 850, ColorBlack)
	bottom := newRecordingSurface(OriginBottomLeft, 1200, 850)
	Decorate(bottom, TemplateModern, 1200, 850, ColorBlack)

	require.Len(t, top.ops, 2)
	require.Len(t, bottom.ops, 2)
	// The first bar is the visual top bar in both conventions.
	assert.Equal(t, 0.0, top.ops[0].Rect.Y)
	assert.InDelta(t, 850-bottom.ops[0].Rect.H, bottom.ops[0].Rect.Y, 1e-9)
	for _, op := range append(top.ops, bottom.ops...) {
		assert.Equal(t, 1200.0, op.Rect.W)
	}
}

func TestDecorate_BracketsStayOnCanvas(t *testing.T) {
	s := newRecordingSurface(OriginBottomLeft, 842, 595)
	Decorate(s, TemplateElegant, 842, 595, ColorBlack)
	for _, op := range s.ops {
		assert.GreaterOrEqual(t, op.Rect.X, 0.0)
		assert.GreaterOrEqual(t, op.Rect.Y, 0.0)
		assert.LessOrEqual(t, op.Rect.X+op.Rect.W, 842.0)
		assert.LessOrEqual(t, op.Rect.Y+op.Rect.H, 595.0)
	}
}

func TestDrawBorder(t *testing.T) {
	s := newRecordingSurface(OriginTopLeft, 1000, 500)
	DrawBorder(s, 1000, 500, 3, ColorGray)
	require.Equal(t, 1, s.count("stroke"))
	assert.Equal(t, Rect{X: 10, Y: 10, W: 980, H: 480}, s.ops[0].Rect)

	s = newRecordingSurface(OriginTopLeft, 1000, 500)
	DrawBorder(s, 1000, 500, 0, ColorGray)
	assert.Empty(t, s.ops)
}

func TestDrawWatermark(t *testing.T) {
	s := newRecordingSurface(OriginTopLeft, 1200, 850)
	DrawWatermark(s, "CERTIFICADO", 1200, 850, ColorGray, 0.1)
	op, ok := s.find("rotated", "CERTIFICADO")
	require.True(t, ok)
	assert.Equal(t, 45.0, op.Angle)
	assert.Equal(t, 0.1, op.Opacity)
	assert.Equal(t, Point{X: 600, Y: 425}, op.Point)
	assert.True(t, op.Style.Bold)
	assert.InDelta(t, 850*0.13, op.Style.Size, 1e-9)

	s = newRecordingSurface(OriginTopLeft, 1200, 850)
	DrawWatermark(s, "", 1200, 850, ColorGray, 0.1)
	assert.Empty(t, s.ops)
}

func TestDrawPlaceholder(t *testing.T) {
	s := newRecordingSurface(OriginTopLeft, 1200, 850)
	box := CenteredRect(Point{X: 144, Y: 119}, 100, 60)
	DrawPlaceholder(s, box, PlaceholderLogoLabel, ColorGray)

	stroke, ok := s.find("stroke", "")
	require.True(t, ok)
	assert.Equal(t, box, stroke.Rect)
	assert.Equal(t, ColorGray, stroke.Color)

	label, ok := s.find("text", PlaceholderLogoLabel)
	require.True(t, ok)
	assert.Equal(t, 119.0, label.Point.Y)
	width := s.MeasureText(PlaceholderLogoLabel, label.Style)
	assert.InDelta(t, 144, label.Point.X+width/2, 1e-9)
}

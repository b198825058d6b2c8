package gocert

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"
)

// RasterSurface draws onto an in-memory RGBA image with a top-left origin.
// It is not safe for concurrent use.
type RasterSurface struct {
	img           *image.RGBA
	regular, bold *opentype.Font
	faces         map[faceKey]font.Face
}

type faceKey struct {
	size float64
	bold bool
}

// NewRasterSurface creates a width×height surface. Text is drawn with the
// given fonts; nil fonts fall back to basicfont.Face7x13.
func NewRasterSurface(width, height int, regular, bold *opentype.Font) *RasterSurface {
	if bold == nil {
		bold = regular
	}
	return &RasterSurface{
		img:     image.NewRGBA(image.Rect(0, 0, width, height)),
		regular: regular,
		bold:    bold,
		faces:   make(map[faceKey]font.Face),
	}
}

// Image returns the drawn image.
func (r *RasterSurface) Image() *image.RGBA { return r.img }

// Origin implements DrawingSurface.
func (r *RasterSurface) Origin() Origin { return OriginTopLeft }

// Size implements DrawingSurface.
func (r *RasterSurface) Size() (float64, float64) {
	b := r.img.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

// MIMEType implements DrawingSurface.
func (r *RasterSurface) MIMEType() string { return MIMETypePNG }

// Encode writes the image as PNG.
func (r *RasterSurface) Encode(w io.Writer) error {
	enc := png.Encoder{CompressionLevel: png.DefaultCompression}
	return enc.Encode(w, r.img)
}

// Close releases the cached font faces.
func (r *RasterSurface) Close() error {
	for k, f := range r.faces {
		f.Close()
		delete(r.faces, k)
	}
	return nil
}

// FillRect implements DrawingSurface.
func (r *RasterSurface) FillRect(rect Rect, c Color) {
	draw.Draw(r.img, pixelRect(rect), &image.Uniform{c.RGBA()}, image.Point{}, draw.Over)
}

// StrokeRect implements DrawingSurface. The stroke lies inside rect.
func (r *RasterSurface) StrokeRect(rect Rect, c Color, width float64) {
	pr := pixelRect(rect)
	pw := int(math.Round(width))
	if pw < 1 {
		pw = 1
	}
	if 2*pw >= pr.Dx() || 2*pw >= pr.Dy() {
		draw.Draw(r.img, pr, &image.Uniform{c.RGBA()}, image.Point{}, draw.Over)
		return
	}
	src := &image.Uniform{c.RGBA()}
	// top, bottom, left, right
	for _, band := range []image.Rectangle{
		image.Rect(pr.Min.X, pr.Min.Y, pr.Max.X, pr.Min.Y+pw),
		image.Rect(pr.Min.X, pr.Max.Y-pw, pr.Max.X, pr.Max.Y),
		image.Rect(pr.Min.X, pr.Min.Y+pw, pr.Min.X+pw, pr.Max.Y-pw),
		image.Rect(pr.Max.X-pw, pr.Min.Y+pw, pr.Max.X, pr.Max.Y-pw),
	} {
		draw.Draw(r.img, band, src, image.Point{}, draw.Over)
	}
}

// MeasureText implements TextMeasurer.
func (r *RasterSurface) MeasureText(s string, style TextStyle) float64 {
	if s == "" {
		return 0
	}
	return fixedToFloat(font.MeasureString(r.face(style), s))
}

// DrawText implements DrawingSurface.
func (r *RasterSurface) DrawText(s string, x, y float64, style TextStyle) {
	if s == "" {
		return
	}
	r.drawString(r.img, s, x, y, style, style.Color.RGBA())
}

// DrawRotatedText renders s on an offscreen layer at the requested opacity,
// then composites the layer rotated about c.
func (r *RasterSurface) DrawRotatedText(s string, c Point, angle float64, style TextStyle, opacity float64) {
	if s == "" || opacity <= 0 {
		return
	}
	face := r.face(style)
	m := face.Metrics()
	pad := 4
	tw := font.MeasureString(face, s).Ceil() + 2*pad
	th := (m.Ascent + m.Descent).Ceil() + 2*pad
	layer := image.NewRGBA(image.Rect(0, 0, tw, th))
	r.drawString(layer, s, float64(pad), float64(th)/2, style, style.Color.WithAlpha(opacity))

	rad := angle * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	sx, sy := float64(tw)/2, float64(th)/2
	// Counter-clockwise on screen, where y grows downward.
	s2d := f64.Aff3{
		cos, sin, c.X - cos*sx - sin*sy,
		-sin, cos, c.Y + sin*sx - cos*sy,
	}
	draw.BiLinear.Transform(r.img, s2d, layer, layer.Bounds(), draw.Over, nil)
}

// DrawImage implements DrawingSurface.
func (r *RasterSurface) DrawImage(img image.Image, rect Rect) error {
	dst := pixelRect(rect)
	if dst.Empty() || img.Bounds().Empty() {
		return nil
	}
	draw.CatmullRom.Scale(r.img, dst, img, img.Bounds(), draw.Over, nil)
	return nil
}

// drawString draws s with its left edge at x and its vertical middle at y.
func (r *RasterSurface) drawString(dst draw.Image, s string, x, y float64, style TextStyle, c color.Color) {
	face := r.face(style)
	m := face.Metrics()
	baseline := y + fixedToFloat(m.Ascent-m.Descent)/2
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.Point26_6{X: floatToFixed(x), Y: floatToFixed(baseline)},
	}
	d.DrawString(s)
}

// face returns a cached face for style, falling back to basicfont.
func (r *RasterSurface) face(style TextStyle) font.Face {
	f := r.regular
	if style.Bold {
		f = r.bold
	}
	if f == nil {
		return basicfont.Face7x13
	}
	size := math.Round(style.Size*100) / 100
	if size <= 0 {
		size = 10
	}
	key := faceKey{size: size, bold: style.Bold}
	if face, ok := r.faces[key]; ok {
		return face
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return basicfont.Face7x13
	}
	r.faces[key] = face
	return face
}

func pixelRect(r Rect) image.Rectangle {
	return image.Rect(
		int(math.Round(r.X)), int(math.Round(r.Y)),
		int(math.Round(r.X+r.W)), int(math.Round(r.Y+r.H)),
	)
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}

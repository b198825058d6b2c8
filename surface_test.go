package gocert

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

func goFonts(t *testing.T) (*opentype.Font, *opentype.Font) {
	t.Helper()
	regular, err := opentype.Parse(goregular.TTF)
	require.NoError(t, err, "parse regular")
	bold, err := opentype.Parse(gobold.TTF)
	require.NoError(t, err, "parse bold")
	return regular, bold
}

func rgbAt(img image.Image, x, y int) [3]uint32 {
	r, g, b, _ := img.At(x, y).RGBA()
	return [3]uint32{r >> 8, g >> 8, b >> 8}
}

func TestRasterSurface_FillAndStroke(t *testing.T) {
	s := NewRasterSurface(200, 100, nil, nil)
	defer s.Close()

	s.FillRect(Rect{X: 0, Y: 0, W: 200, H: 100}, NewColor("003366"))
	assert.Equal(t, [3]uint32{0x00, 0x33, 0x66}, rgbAt(s.Image(), 10, 10), "background color")

	s.StrokeRect(Rect{X: 10, Y: 10, W: 100, H: 50}, ColorWhite, 4)
	assert.Equal(t, [3]uint32{0xff, 0xff, 0xff}, rgbAt(s.Image(), 11, 30), "stroke on left edge")
	assert.Equal(t, [3]uint32{0x00, 0x33, 0x66}, rgbAt(s.Image(), 50, 30), "stroke must not fill the interior")
}

func TestRasterSurface_TextUsesFonts(t *testing.T) {
	regular, bold := goFonts(t)
	s := NewRasterSurface(400, 100, regular, bold)
	defer s.Close()

	style := TextStyle{Size: 24, Color: ColorBlack}
	w := s.MeasureText("Certificação", style)
	require.Greater(t, w, 0.0)
	assert.Greater(t, s.MeasureText("Certificação", TextStyle{Size: 48}), w)
	assert.Zero(t, s.MeasureText("", style))

	s.FillRect(Rect{W: 400, H: 100}, ColorWhite)
	s.DrawText("Certificação", 10, 50, style)
	dark := 0
	b := s.Image().Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if rgbAt(s.Image(), x, y)[0] < 0x80 {
				dark++
			}
		}
	}
	assert.NotZero(t, dark, "expected text pixels")
}

func TestRasterSurface_RotatedTextIsTranslucent(t *testing.T) {
	regular, bold := goFonts(t)
	s := NewRasterSurface(400, 400, regular, bold)
	defer s.Close()

	s.FillRect(Rect{W: 400, H: 400}, ColorWhite)
	s.DrawRotatedText("MARCA", Point{X: 200, Y: 200}, 45, TextStyle{Size: 60, Bold: true, Color: ColorBlack}, 0.1)

	var darkest uint32 = 0xff
	b := s.Image().Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if v := rgbAt(s.Image(), x, y)[0]; v < darkest {
				darkest = v
			}
		}
	}
	require.Less(t, darkest, uint32(0xff), "watermark not drawn")
	assert.GreaterOrEqual(t, darkest, uint32(0xd0), "watermark too opaque")
}

func TestRasterSurface_DrawImage(t *testing.T) {
	s := NewRasterSurface(100, 100, nil, nil)
	red := color.RGBA{R: 255, A: 255}
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			img.Set(x, y, red)
		}
	}
	require.NoError(t, s.DrawImage(img, Rect{X: 20, Y: 20, W: 40, H: 40}))
	assert.Equal(t, [3]uint32{0xff, 0, 0}, rgbAt(s.Image(), 40, 40))

	var buf bytes.Buffer
	require.NoError(t, s.Encode(&buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")), "expected PNG signature")
}

func TestPDFSurface_EmbeddedProgram(t *testing.T) {
	regular, bold, _ := GoFonts()
	res, err := newProgramResolution(EmbeddedFamily, FontSourceEmbedded, regular, bold)
	require.NoError(t, err)
	s, err := NewPDFSurface(OrientationLandscape, res, PDFOptions{Title: "Certificado"})
	require.NoError(t, err)
	assert.True(t, s.EmbedsFontProgram())
	assert.Equal(t, OriginBottomLeft, s.Origin())
	w, h := s.Size()
	assert.Greater(t, w, h, "landscape page")

	style := TextStyle{Size: 20}
	assert.Greater(t, s.MeasureText("Certificação", style), 0.0)
	s.DrawText("Certificação", 100, 300, style)
	s.DrawRotatedText("MARCA", Point{X: w / 2, Y: h / 2}, 45, TextStyle{Size: 80, Bold: true}, 0.1)

	var buf bytes.Buffer
	require.NoError(t, s.Encode(&buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")), "expected PDF header")
}

func TestPDFSurface_CoreFontFallback(t *testing.T) {
	s, err := NewPDFSurface(OrientationPortrait, systemFallback(), PDFOptions{})
	require.NoError(t, err)
	assert.False(t, s.EmbedsFontProgram(), "system fallback cannot embed a program")
	w, h := s.Size()
	assert.Less(t, w, h, "portrait page")
}

func TestPDFSurface_DrawImage(t *testing.T) {
	s, err := NewPDFSurface(OrientationLandscape, systemFallback(), PDFOptions{})
	require.NoError(t, err)
	img := image.NewNRGBA(image.Rect(0, 0, 16, 8))
	require.NoError(t, s.DrawImage(img, Rect{X: 10, Y: 10, W: 32, H: 16}))
	assert.Error(t, s.DrawImage(image.NewNRGBA(image.Rect(0, 0, 0, 0)), Rect{W: 1, H: 1}), "empty image")

	var buf bytes.Buffer
	require.NoError(t, s.Encode(&buf))
	assert.Contains(t, buf.String(), "/Subtype /Image")
}

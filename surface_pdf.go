package gocert

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
	"golang.org/x/image/draw"
)

// Font family names registered with fpdf.
const (
	pdfProgramFamily = "CertSans"
	pdfCoreFamily    = "Helvetica"
)

// baselineRatio approximates the distance from the vertical middle of a line
// of text to its baseline, relative to the font size.
const baselineRatio = 0.35

// PDFOptions configures a PDFSurface.
type PDFOptions struct {
	Title   string
	Creator string
	// Created stamps the document creation and modification dates.
	Created time.Time
	// Compress enables content stream compression.
	Compress bool
}

// PDFSurface draws a single A4 page with fpdf. Its coordinates use the PDF
// convention: points, origin bottom-left, y growing upward.
type PDFSurface struct {
	pdf    *fpdf.Fpdf
	w, h   float64
	family string
	// tr maps UTF-8 to the code page of the core font; nil when a TrueType
	// program is embedded.
	tr     func(string) string
	images int
}

// NewPDFSurface creates a one-page document for orientation o. The font
// program of res is embedded when present; otherwise the core Helvetica font
// is used and text is translated to cp1252.
func NewPDFSurface(o Orientation, res *FontResolution, opts PDFOptions) (*PDFSurface, error) {
	if res.HasProgram() {
		s := newPDFSurface(o, opts)
		s.pdf.AddUTF8FontFromBytes(pdfProgramFamily, "", res.Regular)
		s.pdf.AddUTF8FontFromBytes(pdfProgramFamily, "B", res.Bold)
		if !s.pdf.Err() {
			s.family = pdfProgramFamily
			return s, nil
		}
	}

	s := newPDFSurface(o, opts)
	s.family = pdfCoreFamily
	s.tr = s.pdf.UnicodeTranslatorFromDescriptor("cp1252")
	if err := s.pdf.Error(); err != nil {
		return nil, fmt.Errorf("create pdf: %w", err)
	}
	return s, nil
}

func newPDFSurface(o Orientation, opts PDFOptions) *PDFSurface {
	w, h := VectorPageSize(o)
	orient := "L"
	if o == OrientationPortrait {
		orient = "P"
	}
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: orient,
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: w, Ht: h},
	})
	pdf.SetCompression(opts.Compress)
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	if opts.Title != "" {
		pdf.SetTitle(opts.Title, true)
	}
	if opts.Creator != "" {
		pdf.SetCreator(opts.Creator, true)
	}
	if !opts.Created.IsZero() {
		pdf.SetCreationDate(opts.Created)
		pdf.SetModificationDate(opts.Created)
	}
	pdf.SetCatalogSort(true)
	pdf.AddPage()
	return &PDFSurface{pdf: pdf, w: w, h: h}
}

// Origin implements DrawingSurface.
func (p *PDFSurface) Origin() Origin { return OriginBottomLeft }

// Size implements DrawingSurface.
func (p *PDFSurface) Size() (float64, float64) { return p.w, p.h }

// MIMEType implements DrawingSurface.
func (p *PDFSurface) MIMEType() string { return MIMETypePDF }

// EmbedsFontProgram reports whether text uses an embedded TrueType program.
func (p *PDFSurface) EmbedsFontProgram() bool { return p.tr == nil }

// top converts a bottom-left rectangle to fpdf's top-down y of its top edge.
func (p *PDFSurface) top(r Rect) float64 {
	return p.h - (r.Y + r.H)
}

// FillRect implements DrawingSurface.
func (p *PDFSurface) FillRect(r Rect, c Color) {
	p.pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
	p.pdf.Rect(r.X, p.top(r), r.W, r.H, "F")
}

// StrokeRect implements DrawingSurface. The stroke lies inside r.
func (p *PDFSurface) StrokeRect(r Rect, c Color, width float64) {
	if width <= 0 {
		return
	}
	half := width / 2
	p.pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
	p.pdf.SetLineWidth(width)
	p.pdf.Rect(r.X+half, p.top(r)+half, r.W-width, r.H-width, "D")
}

func (p *PDFSurface) setFont(style TextStyle) {
	fs := ""
	if style.Bold {
		fs = "B"
	}
	p.pdf.SetFont(p.family, fs, style.Size)
}

func (p *PDFSurface) encodeText(s string) string {
	if p.tr != nil {
		return p.tr(s)
	}
	return s
}

// MeasureText implements TextMeasurer.
func (p *PDFSurface) MeasureText(s string, style TextStyle) float64 {
	if s == "" {
		return 0
	}
	p.setFont(style)
	return p.pdf.GetStringWidth(p.encodeText(s))
}

// DrawText implements DrawingSurface.
func (p *PDFSurface) DrawText(s string, x, y float64, style TextStyle) {
	if s == "" {
		return
	}
	p.setFont(style)
	p.pdf.SetTextColor(int(style.Color.R), int(style.Color.G), int(style.Color.B))
	p.pdf.Text(x, p.h-y+style.Size*baselineRatio, p.encodeText(s))
}

// DrawRotatedText implements DrawingSurface.
func (p *PDFSurface) DrawRotatedText(s string, c Point, angle float64, style TextStyle, opacity float64) {
	if s == "" || opacity <= 0 {
		return
	}
	w := p.MeasureText(s, style)
	cy := p.h - c.Y
	p.pdf.SetAlpha(clampFloat(opacity, 0, 1), "Normal")
	p.pdf.TransformBegin()
	p.pdf.TransformRotate(angle, c.X, cy)
	p.pdf.SetTextColor(int(style.Color.R), int(style.Color.G), int(style.Color.B))
	p.pdf.Text(c.X-w/2, cy+style.Size*baselineRatio, p.encodeText(s))
	p.pdf.TransformEnd()
	p.pdf.SetAlpha(1, "Normal")
}

// DrawImage embeds img as an 8-bit PNG and places it in r.
func (p *PDFSurface) DrawImage(img image.Image, r Rect) error {
	b := img.Bounds()
	if b.Empty() {
		return errors.New("draw image: empty image")
	}
	rgba := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, rgba); err != nil {
		return fmt.Errorf("draw image: %w", err)
	}
	p.images++
	name := fmt.Sprintf("img%d", p.images)
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	p.pdf.RegisterImageOptionsReader(name, opts, &buf)
	if err := p.pdf.Error(); err != nil {
		// Keep the document usable so the caller can draw a placeholder.
		p.pdf.ClearError()
		return fmt.Errorf("draw image: %w", err)
	}
	p.pdf.ImageOptions(name, r.X, p.top(r), r.W, r.H, false, opts, 0, "")
	return nil
}

// Encode writes the finished document.
func (p *PDFSurface) Encode(w io.Writer) error {
	if err := p.pdf.Error(); err != nil {
		return err
	}
	return p.pdf.Output(w)
}

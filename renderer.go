package gocert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"
	"golang.org/x/image/font/opentype"
)

// ErrEncode marks a render that failed while producing the output buffer.
var ErrEncode = errors.New("encode certificate")

// CertificateRenderer turns a configuration and participant data into a
// finished certificate.
type CertificateRenderer interface {
	Render(ctx context.Context, cfg CertificateConfig, data CertificateData) (*RenderedCertificate, error)
	MIMEType() string
}

// Fixed layout proportions shared by both renderers.
const (
	headingWrapRatio  = 0.9
	bodyWrapRatio     = 0.8
	headingLineFactor = 1.2
	timestampFormat   = "02/01/2006 às 15:04"
)

var (
	footerPosition    = Position{X: 50, Y: 92}
	timestampPosition = Position{X: 2, Y: 97}
)

// RasterRenderer renders PNG certificates. Text sizes are scaled by the
// template multipliers.
type RasterRenderer struct {
	engine *Engine
}

// MIMEType implements CertificateRenderer.
func (r *RasterRenderer) MIMEType() string { return MIMETypePNG }

// Render implements CertificateRenderer.
func (r *RasterRenderer) Render(ctx context.Context, cfg CertificateConfig, data CertificateData) (*RenderedCertificate, error) {
	e := r.engine
	cfg = cfg.Effective()
	res := e.resolver.Resolve(ctx)

	regular, bold := r.fonts(cfg, res)
	w, h := RasterCanvasSize(cfg.Orientation)
	surface := NewRasterSurface(w, h, regular, bold)
	defer surface.Close()

	e.renderOnto(ctx, surface, cfg, data, renderParams{
		sizes:     TemplateMultipliers(cfg.Template).Sizes(cfg),
		qrSide:    QRSidePixels,
		sanitizer: res.Sanitizer(),
	})
	return e.encode(surface)
}

// fonts picks the raster fonts: an installed family named by the config,
// then the resolved program, then an installed sans-serif. Nil means the
// built-in bitmap face.
func (r *RasterRenderer) fonts(cfg CertificateConfig, res *FontResolution) (regular, bold *opentype.Font) {
	sys := r.engine.resolver.SystemFonts()
	if cfg.FontFamily != DefaultFontFamily && !res.Constrained && sys != nil {
		if f := sys.Lookup(cfg.FontFamily, false); f != nil {
			return f, sys.Lookup(cfg.FontFamily, true)
		}
		r.engine.logger.Debug("font family not installed", zap.String("family", cfg.FontFamily))
	}
	if res.RegularFont != nil {
		return res.RegularFont, res.BoldFont
	}
	if sys != nil {
		if f := sys.Lookup(res.Family, false); f != nil {
			return f, sys.Lookup(res.Family, true)
		}
	}
	return nil, nil
}

// VectorRenderer renders single-page PDF certificates with the resolved font
// program embedded. Text sizes are used as configured.
type VectorRenderer struct {
	engine *Engine
}

// MIMEType implements CertificateRenderer.
func (r *VectorRenderer) MIMEType() string { return MIMETypePDF }

// Render implements CertificateRenderer.
func (r *VectorRenderer) Render(ctx context.Context, cfg CertificateConfig, data CertificateData) (*RenderedCertificate, error) {
	e := r.engine
	cfg = cfg.Effective()
	res := e.resolver.Resolve(ctx)
	sanitizer := res.Sanitizer()

	surface, err := NewPDFSurface(cfg.Orientation, res, PDFOptions{
		Title:    sanitizer.Sanitize(NewSubstitutor(data).Apply(cfg.Title)),
		Creator:  "GoCert " + Version,
		Created:  e.now(),
		Compress: e.compress,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}

	e.renderOnto(ctx, surface, cfg, data, renderParams{
		sizes:     IdentityMultipliers.Sizes(cfg),
		qrSide:    QRSidePoints,
		sanitizer: sanitizer,
	})
	return e.encode(surface)
}

type renderParams struct {
	sizes     TextSizes
	qrSide    float64
	sanitizer Sanitizer
}

func (e *Engine) encode(s DrawingSurface) (*RenderedCertificate, error) {
	var buf bytes.Buffer
	if err := s.Encode(&buf); err != nil {
		e.logger.Error("certificate encoding failed", zap.String("mime", s.MIMEType()), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}
	if buf.Len() == 0 {
		return nil, fmt.Errorf("%w: empty output", ErrEncode)
	}
	e.logger.Debug("certificate rendered", zap.String("mime", s.MIMEType()), zap.Int("bytes", buf.Len()))
	return &RenderedCertificate{Data: buf.Bytes(), MIMEType: s.MIMEType()}, nil
}

// renderOnto draws a certificate in the fixed order: background, border,
// decoration, watermark, title, subtitle, name, body, footer, logo, QR code
// and generation timestamp.
func (e *Engine) renderOnto(ctx context.Context, s DrawingSurface, cfg CertificateConfig, data CertificateData, p renderParams) {
	w, h := s.Size()
	o := s.Origin()
	down := o.Down()
	subst := NewSubstitutor(data)
	clean := func(text string) string { return p.sanitizer.Sanitize(subst.Apply(text)) }

	s.FillRect(Rect{X: 0, Y: 0, W: w, H: h}, cfg.BackgroundColor)

	if cfg.ShowBorder {
		DrawBorder(s, w, h, cfg.BorderWidth, cfg.BorderColor)
	}

	Decorate(s, cfg.Template, w, h, cfg.PrimaryColor)

	if cfg.ShowWatermark {
		DrawWatermark(s, p.sanitizer.Sanitize(cfg.WatermarkText), w, h, cfg.PrimaryColor, cfg.WatermarkOpacity)
	}

	titleStyle := TextStyle{Size: p.sizes.Title, Bold: true, Color: cfg.PrimaryColor}
	titleAnchor := ToAbsolute(cfg.TitlePosition, w, h, o)
	titleLines := drawBlock(s, clean(cfg.Title), titleStyle, titleAnchor, w*headingWrapRatio, p.sizes.Title*headingLineFactor)

	if subtitle := clean(cfg.Subtitle); subtitle != "" {
		style := TextStyle{Size: p.sizes.Subtitle, Color: cfg.SecondaryColor}
		offset := float64(titleLines)*p.sizes.Title*headingLineFactor/2 + p.sizes.Subtitle*headingLineFactor/2
		anchor := Point{X: titleAnchor.X, Y: titleAnchor.Y + down*offset}
		drawBlock(s, subtitle, style, anchor, w*headingWrapRatio, p.sizes.Subtitle*headingLineFactor)
	}

	nameStyle := TextStyle{Size: p.sizes.Name, Bold: true, Color: cfg.PrimaryColor}
	drawBlock(s, p.sanitizer.Sanitize(data.ParticipantName), nameStyle,
		ToAbsolute(cfg.NamePosition, w, h, o), w*headingWrapRatio, p.sizes.Name*headingLineFactor)

	bodyStyle := TextStyle{Size: p.sizes.Body, Color: cfg.SecondaryColor}
	drawBlock(s, clean(cfg.BodyText), bodyStyle,
		ToAbsolute(cfg.BodyPosition, w, h, o), w*bodyWrapRatio, p.sizes.LineHeight)

	if footer := clean(cfg.Footer); footer != "" {
		style := TextStyle{Size: p.sizes.Footer, Color: cfg.SecondaryColor}
		drawBlock(s, footer, style, ToAbsolute(footerPosition, w, h, o), w*bodyWrapRatio, p.sizes.Footer*headingLineFactor)
	}

	if cfg.LogoURL != "" {
		e.drawLogo(ctx, s, cfg, ToAbsolute(cfg.LogoPosition, w, h, o))
	}

	if cfg.IncludeQRCode {
		e.drawQR(s, cfg, data, ToAbsolute(cfg.QRCodePosition, w, h, o), p.qrSide)
	}

	stamp := p.sanitizer.Sanitize("Gerado em " + e.now().Format(timestampFormat))
	at := ToAbsolute(timestampPosition, w, h, o)
	s.DrawText(stamp, at.X, at.Y, TextStyle{Size: p.sizes.Timestamp, Color: cfg.SecondaryColor})
}

// drawBlock wraps text, stacks the lines centered on anchor and returns the
// number of lines drawn.
func drawBlock(s DrawingSurface, text string, style TextStyle, anchor Point, maxWidth, lineHeight float64) int {
	lines := WrapText(s, text, style, maxWidth)
	for _, l := range LayoutBlock(s, lines, style, anchor, lineHeight, s.Origin()) {
		s.DrawText(l.Text, l.X, l.Y, style)
	}
	return len(lines)
}

func (e *Engine) drawLogo(ctx context.Context, s DrawingSurface, cfg CertificateConfig, anchor Point) {
	asset := e.assets.LoadLogo(ctx, cfg.LogoURL)
	if !asset.IsPlaceholder() {
		rw, rh := FitWithin(float64(asset.Width), float64(asset.Height), cfg.LogoSize)
		err := s.DrawImage(asset.Image, CenteredRect(anchor, rw, rh))
		if err == nil {
			return
		}
		e.logger.Warn("logo draw failed, drawing placeholder", zap.String("url", cfg.LogoURL), zap.Error(err))
	}
	box := CenteredRect(anchor, cfg.LogoSize, math.Round(cfg.LogoSize*0.6))
	DrawPlaceholder(s, box, PlaceholderLogoLabel, ColorGray)
}

func (e *Engine) drawQR(s DrawingSurface, cfg CertificateConfig, data CertificateData, anchor Point, side float64) {
	box := CenteredRect(anchor, side, side)
	asset, err := BuildQR(QRPayload(cfg, data, e.baseURL))
	if err == nil {
		if err = s.DrawImage(asset.Image, box); err == nil {
			return
		}
	}
	e.logger.Warn("qr code unavailable, drawing placeholder", zap.Error(err))
	DrawPlaceholder(s, box, PlaceholderQRLabel, ColorGray)
}

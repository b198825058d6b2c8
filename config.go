package gocert

import (
	"math"
	"time"
)

// Template identifies one of the base visual templates.
type Template string

// Base templates.
const (
	TemplateModern     Template = "modern"
	TemplateClassic    Template = "classic"
	TemplateElegant    Template = "elegant"
	TemplateMinimalist Template = "minimalist"
)

// Templates lists the base templates in catalog order.
var Templates = []Template{TemplateModern, TemplateClassic, TemplateElegant, TemplateMinimalist}

// Valid reports whether t is one of the base templates.
func (t Template) Valid() bool {
	for _, known := range Templates {
		if t == known {
			return true
		}
	}
	return false
}

// Orientation is the page orientation of a certificate.
type Orientation string

// Orientations.
const (
	OrientationLandscape Orientation = "landscape"
	OrientationPortrait  Orientation = "portrait"
)

// Valid reports whether o is a known orientation.
func (o Orientation) Valid() bool {
	return o == OrientationLandscape || o == OrientationPortrait
}

// Position is an anchor expressed as percentages (0-100) of the canvas
// width and height.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// CertificateConfig is the complete declarative description of a certificate.
// Renderers treat it as immutable.
type CertificateConfig struct {
	Template    Template    `json:"template" yaml:"template"`
	Orientation Orientation `json:"orientation" yaml:"orientation"`

	PrimaryColor    Color `json:"primaryColor" yaml:"primaryColor"`
	SecondaryColor  Color `json:"secondaryColor" yaml:"secondaryColor"`
	BackgroundColor Color `json:"backgroundColor" yaml:"backgroundColor"`
	BorderColor     Color `json:"borderColor" yaml:"borderColor"`

	FontFamily    string  `json:"fontFamily" yaml:"fontFamily"`
	TitleFontSize float64 `json:"titleFontSize" yaml:"titleFontSize"`
	NameFontSize  float64 `json:"nameFontSize" yaml:"nameFontSize"`
	BodyFontSize  float64 `json:"bodyFontSize" yaml:"bodyFontSize"`

	Title    string `json:"title" yaml:"title"`
	Subtitle string `json:"subtitle" yaml:"subtitle"`
	BodyText string `json:"bodyText" yaml:"bodyText"`
	Footer   string `json:"footer" yaml:"footer"`

	TitlePosition  Position `json:"titlePosition" yaml:"titlePosition"`
	NamePosition   Position `json:"namePosition" yaml:"namePosition"`
	BodyPosition   Position `json:"bodyPosition" yaml:"bodyPosition"`
	LogoPosition   Position `json:"logoPosition" yaml:"logoPosition"`
	QRCodePosition Position `json:"qrCodePosition" yaml:"qrCodePosition"`

	ShowBorder       bool    `json:"showBorder" yaml:"showBorder"`
	BorderWidth      float64 `json:"borderWidth" yaml:"borderWidth"`
	ShowWatermark    bool    `json:"showWatermark" yaml:"showWatermark"`
	WatermarkText    string  `json:"watermarkText" yaml:"watermarkText"`
	WatermarkOpacity float64 `json:"watermarkOpacity" yaml:"watermarkOpacity"`
	IncludeQRCode    bool    `json:"includeQRCode" yaml:"includeQRCode"`
	QRCodeText       string  `json:"qrCodeText,omitempty" yaml:"qrCodeText,omitempty"`

	LogoURL  string  `json:"logoUrl,omitempty" yaml:"logoUrl,omitempty"`
	LogoSize float64 `json:"logoSize" yaml:"logoSize"`
}

// Watermark opacity bounds.
const (
	MinWatermarkOpacity = 0.05
	MaxWatermarkOpacity = 0.5
)

// DefaultFontFamily is the logical family used when a config names none.
const DefaultFontFamily = "default"

// DefaultConfig returns the fully valid configuration used when no stored
// configuration exists for an event.
func DefaultConfig() CertificateConfig {
	return CertificateConfig{
		Template:    TemplateModern,
		Orientation: OrientationLandscape,

		PrimaryColor:    NewColor("1E40AF"),
		SecondaryColor:  NewColor("64748B"),
		BackgroundColor: NewColor("FFFFFF"),
		BorderColor:     NewColor("1E40AF"),

		FontFamily:    DefaultFontFamily,
		TitleFontSize: 36,
		NameFontSize:  28,
		BodyFontSize:  16,

		Title:    "CERTIFICADO DE PARTICIPAÇÃO",
		Subtitle: "",
		BodyText: "Certificamos que {userName} participou do evento {eventName}, realizado em {eventDate}.",
		Footer:   "",

		TitlePosition:  Position{X: 50, Y: 20},
		NamePosition:   Position{X: 50, Y: 42},
		BodyPosition:   Position{X: 50, Y: 60},
		LogoPosition:   Position{X: 12, Y: 14},
		QRCodePosition: Position{X: 88, Y: 82},

		ShowBorder:       true,
		BorderWidth:      3,
		ShowWatermark:    false,
		WatermarkText:    "CERTIFICADO",
		WatermarkOpacity: 0.1,
		IncludeQRCode:    false,

		LogoSize: 100,
	}
}

// Effective returns a copy of c with every degenerate value replaced or
// clamped so that rendering cannot fail on configuration content.
func (c CertificateConfig) Effective() CertificateConfig {
	def := DefaultConfig()
	out := c
	if !out.Template.Valid() {
		out.Template = def.Template
	}
	if !out.Orientation.Valid() {
		out.Orientation = def.Orientation
	}
	if out.FontFamily == "" {
		out.FontFamily = DefaultFontFamily
	}
	out.TitleFontSize = positiveOr(out.TitleFontSize, def.TitleFontSize)
	out.NameFontSize = positiveOr(out.NameFontSize, def.NameFontSize)
	out.BodyFontSize = positiveOr(out.BodyFontSize, def.BodyFontSize)
	out.LogoSize = positiveOr(out.LogoSize, def.LogoSize)
	if out.BorderWidth < 0 || math.IsNaN(out.BorderWidth) || math.IsInf(out.BorderWidth, 0) {
		out.BorderWidth = 0
	}

	out.TitlePosition = clampPosition(out.TitlePosition)
	out.NamePosition = clampPosition(out.NamePosition)
	out.BodyPosition = clampPosition(out.BodyPosition)
	out.LogoPosition = clampPosition(out.LogoPosition)
	out.QRCodePosition = clampPosition(out.QRCodePosition)

	if math.IsNaN(out.WatermarkOpacity) {
		out.WatermarkOpacity = def.WatermarkOpacity
	}
	out.WatermarkOpacity = clampFloat(out.WatermarkOpacity, MinWatermarkOpacity, MaxWatermarkOpacity)
	return out
}

func positiveOr(v, fallback float64) float64 {
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}

func clampPosition(p Position) Position {
	if math.IsNaN(p.X) {
		p.X = 50
	}
	if math.IsNaN(p.Y) {
		p.Y = 50
	}
	return Position{X: clampFloat(p.X, 0, 100), Y: clampFloat(p.Y, 0, 100)}
}

// CertificateData holds the per-participant facts for one render call.
type CertificateData struct {
	ParticipantName string    `json:"userName" yaml:"userName"`
	EventName       string    `json:"eventName" yaml:"eventName"`
	EventDate       time.Time `json:"eventDate" yaml:"eventDate"`
	// StartTime and EndTime are optional "HH:MM" strings.
	StartTime string `json:"eventStartTime,omitempty" yaml:"eventStartTime,omitempty"`
	EndTime   string `json:"eventEndTime,omitempty" yaml:"eventEndTime,omitempty"`
	EventID   string `json:"eventId,omitempty" yaml:"eventId,omitempty"`
}

// MIME types of rendered certificates.
const (
	MIMETypePNG = "image/png"
	MIMETypePDF = "application/pdf"
)

// RenderedCertificate is an encoded certificate ready to hand to an upload
// collaborator.
type RenderedCertificate struct {
	Data     []byte
	MIMEType string
}

// Extension returns the file extension matching the MIME type.
func (r *RenderedCertificate) Extension() string {
	switch r.MIMEType {
	case MIMETypePDF:
		return ".pdf"
	case MIMETypePNG:
		return ".png"
	default:
		return ".bin"
	}
}

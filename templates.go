package gocert

import (
	"errors"
	"fmt"
)

// Multipliers scales the configured base text sizes of a template. Raster
// output is recompressed and resized by the CDN, which visually shrinks small
// text, so each template carries its own compensation set.
type Multipliers struct {
	Title      float64
	Name       float64
	Body       float64
	LineHeight float64
	Footer     float64
	Timestamp  float64
	Subtitle   float64
}

// IdentityMultipliers leaves every size as configured.
var IdentityMultipliers = Multipliers{1, 1, 1, 1, 1, 1, 1}

var templateMultipliers = map[Template]Multipliers{
	TemplateModern: {
		Title: 1.5, Name: 1.6, Body: 1.45, LineHeight: 1.5,
		Footer: 1.4, Timestamp: 1.3, Subtitle: 1.45,
	},
	TemplateClassic: {
		Title: 1.45, Name: 1.55, Body: 1.4, LineHeight: 1.45,
		Footer: 1.35, Timestamp: 1.3, Subtitle: 1.4,
	},
	TemplateElegant: {
		Title: 1.55, Name: 1.7, Body: 1.45, LineHeight: 1.55,
		Footer: 1.4, Timestamp: 1.35, Subtitle: 1.5,
	},
	TemplateMinimalist: {
		Title: 1.4, Name: 1.5, Body: 1.35, LineHeight: 1.4,
		Footer: 1.3, Timestamp: 1.25, Subtitle: 1.35,
	},
}

// TemplateMultipliers returns the raster size multipliers of t. Unknown
// templates get the modern set.
func TemplateMultipliers(t Template) Multipliers {
	if m, ok := templateMultipliers[t]; ok {
		return m
	}
	return templateMultipliers[TemplateModern]
}

// Base sizes of the text elements that have no configurable size.
const (
	baseFooterSize     = 12.0
	baseTimestampSize  = 9.0
	subtitleSizeFactor = 1.1  // relative to BodyFontSize
	lineHeightFactor   = 1.45 // relative to BodyFontSize
)

// TextSizes are the effective sizes of every text element of a render.
type TextSizes struct {
	Title      float64
	Subtitle   float64
	Name       float64
	Body       float64
	LineHeight float64
	Footer     float64
	Timestamp  float64
}

// Sizes applies m to the base sizes of cfg.
func (m Multipliers) Sizes(cfg CertificateConfig) TextSizes {
	return TextSizes{
		Title:      cfg.TitleFontSize * m.Title,
		Subtitle:   cfg.BodyFontSize * subtitleSizeFactor * m.Subtitle,
		Name:       cfg.NameFontSize * m.Name,
		Body:       cfg.BodyFontSize * m.Body,
		LineHeight: cfg.BodyFontSize * lineHeightFactor * m.LineHeight,
		Footer:     baseFooterSize * m.Footer,
		Timestamp:  baseTimestampSize * m.Timestamp,
	}
}

// Preset is a named, complete configuration that can be applied and saved as
// an event's certificate configuration.
type Preset struct {
	ID          string
	Name        string
	Description string
	Config      CertificateConfig
}

// ErrUnknownPreset is returned when a preset ID is not in the catalog.
var ErrUnknownPreset = errors.New("unknown certificate preset")

// Presets returns the template catalog: the four base templates followed by
// the composite presets built on them.
func Presets() []Preset {
	return []Preset{
		{ID: "modern", Name: "Moderno", Description: "Faixas de destaque no topo e na base", Config: modernConfig()},
		{ID: "classic", Name: "Clássico", Description: "Borda larga e marca d'água", Config: classicConfig()},
		{ID: "elegant", Name: "Elegante", Description: "Cantoneiras decorativas", Config: elegantConfig()},
		{ID: "minimalist", Name: "Minimalista", Description: "Sem ornamentos", Config: minimalistConfig()},
		{ID: "corporate", Name: "Corporativo", Description: "Moderno com paleta sóbria e QR code", Config: corporateConfig()},
		{ID: "academic", Name: "Acadêmico", Description: "Clássico com verificação por QR code", Config: academicConfig()},
	}
}

// PresetByID looks up a preset from the catalog.
func PresetByID(id string) (Preset, error) {
	for _, p := range Presets() {
		if p.ID == id {
			return p, nil
		}
	}
	return Preset{}, fmt.Errorf("%w: %q", ErrUnknownPreset, id)
}

// TemplateDefaults returns the preset configuration of a base template, or
// DefaultConfig for unknown templates.
func TemplateDefaults(t Template) CertificateConfig {
	if p, err := PresetByID(string(t)); err == nil && t.Valid() {
		return p.Config
	}
	return DefaultConfig()
}

func modernConfig() CertificateConfig {
	return DefaultConfig()
}

func classicConfig() CertificateConfig {
	c := DefaultConfig()
	c.Template = TemplateClassic
	c.PrimaryColor = NewColor("7C2D12")
	c.SecondaryColor = NewColor("57534E")
	c.BackgroundColor = NewColor("FFFBEB")
	c.BorderColor = NewColor("B45309")
	c.BorderWidth = 6
	c.ShowWatermark = true
	c.WatermarkText = "CERTIFICADO"
	c.WatermarkOpacity = 0.08
	c.Title = "CERTIFICADO"
	c.Subtitle = "de participação"
	return c
}

func elegantConfig() CertificateConfig {
	c := DefaultConfig()
	c.Template = TemplateElegant
	c.PrimaryColor = NewColor("1F2937")
	c.SecondaryColor = NewColor("6B7280")
	c.BackgroundColor = NewColor("FAFAF9")
	c.BorderColor = NewColor("A16207")
	c.BorderWidth = 2
	c.TitleFontSize = 40
	c.NameFontSize = 32
	c.Title = "Certificado"
	c.Subtitle = "Conferido a"
	c.NamePosition = Position{X: 50, Y: 44}
	return c
}

func minimalistConfig() CertificateConfig {
	c := DefaultConfig()
	c.Template = TemplateMinimalist
	c.PrimaryColor = NewColor("111827")
	c.SecondaryColor = NewColor("9CA3AF")
	c.BorderColor = NewColor("E5E7EB")
	c.ShowBorder = false
	c.BorderWidth = 1
	c.Title = "Certificado"
	c.BodyText = "{userName} participou do evento {eventName} em {eventDate}."
	return c
}

func corporateConfig() CertificateConfig {
	c := modernConfig()
	c.PrimaryColor = NewColor("0F172A")
	c.SecondaryColor = NewColor("475569")
	c.BorderColor = NewColor("0F172A")
	c.Title = "CERTIFICADO DE CONCLUSÃO"
	c.BodyText = "Certificamos que {userName} concluiu o programa {eventName} em {eventDate}, das {eventStartTime} às {eventEndTime}."
	c.Footer = "Documento emitido eletronicamente"
	c.IncludeQRCode = true
	return c
}

func academicConfig() CertificateConfig {
	c := classicConfig()
	c.PrimaryColor = NewColor("14532D")
	c.BorderColor = NewColor("166534")
	c.Title = "CERTIFICADO ACADÊMICO"
	c.Subtitle = "Pró-Reitoria de Extensão"
	c.BodyText = "Certificamos que {userName} participou de {eventName}, realizado em {eventDate} ({eventTime})."
	c.Footer = "A autenticidade deste documento pode ser verificada pelo QR code"
	c.IncludeQRCode = true
	return c
}

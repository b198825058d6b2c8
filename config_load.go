package gocert

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigDocument is a possibly partial certificate configuration as stored by
// an event. Absent fields are nil and are filled from the template defaults by
// Resolve.
type ConfigDocument struct {
	Template    *Template    `json:"template,omitempty" yaml:"template,omitempty"`
	Orientation *Orientation `json:"orientation,omitempty" yaml:"orientation,omitempty"`

	PrimaryColor    *Color `json:"primaryColor,omitempty" yaml:"primaryColor,omitempty"`
	SecondaryColor  *Color `json:"secondaryColor,omitempty" yaml:"secondaryColor,omitempty"`
	BackgroundColor *Color `json:"backgroundColor,omitempty" yaml:"backgroundColor,omitempty"`
	BorderColor     *Color `json:"borderColor,omitempty" yaml:"borderColor,omitempty"`

	FontFamily    *string  `json:"fontFamily,omitempty" yaml:"fontFamily,omitempty"`
	TitleFontSize *float64 `json:"titleFontSize,omitempty" yaml:"titleFontSize,omitempty"`
	NameFontSize  *float64 `json:"nameFontSize,omitempty" yaml:"nameFontSize,omitempty"`
	BodyFontSize  *float64 `json:"bodyFontSize,omitempty" yaml:"bodyFontSize,omitempty"`

	Title    *string `json:"title,omitempty" yaml:"title,omitempty"`
	Subtitle *string `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	BodyText *string `json:"bodyText,omitempty" yaml:"bodyText,omitempty"`
	Footer   *string `json:"footer,omitempty" yaml:"footer,omitempty"`

	TitlePosition  *Position `json:"titlePosition,omitempty" yaml:"titlePosition,omitempty"`
	NamePosition   *Position `json:"namePosition,omitempty" yaml:"namePosition,omitempty"`
	BodyPosition   *Position `json:"bodyPosition,omitempty" yaml:"bodyPosition,omitempty"`
	LogoPosition   *Position `json:"logoPosition,omitempty" yaml:"logoPosition,omitempty"`
	QRCodePosition *Position `json:"qrCodePosition,omitempty" yaml:"qrCodePosition,omitempty"`

	ShowBorder       *bool    `json:"showBorder,omitempty" yaml:"showBorder,omitempty"`
	BorderWidth      *float64 `json:"borderWidth,omitempty" yaml:"borderWidth,omitempty"`
	ShowWatermark    *bool    `json:"showWatermark,omitempty" yaml:"showWatermark,omitempty"`
	WatermarkText    *string  `json:"watermarkText,omitempty" yaml:"watermarkText,omitempty"`
	WatermarkOpacity *float64 `json:"watermarkOpacity,omitempty" yaml:"watermarkOpacity,omitempty"`
	IncludeQRCode    *bool    `json:"includeQRCode,omitempty" yaml:"includeQRCode,omitempty"`
	QRCodeText       *string  `json:"qrCodeText,omitempty" yaml:"qrCodeText,omitempty"`

	LogoURL  *string  `json:"logoUrl,omitempty" yaml:"logoUrl,omitempty"`
	LogoSize *float64 `json:"logoSize,omitempty" yaml:"logoSize,omitempty"`
}

// Resolve merges the document over the defaults of its template and returns
// the effective configuration. A nil document resolves to DefaultConfig.
func (d *ConfigDocument) Resolve() CertificateConfig {
	return d.Merge().Effective()
}

// Merge overlays every present field on the defaults of the document's
// template without clamping, so the result can be validated as written.
func (d *ConfigDocument) Merge() CertificateConfig {
	if d == nil {
		return DefaultConfig()
	}
	base := DefaultConfig()
	if d.Template != nil {
		base = TemplateDefaults(*d.Template)
	}

	setIf(&base.Template, d.Template)
	setIf(&base.Orientation, d.Orientation)
	setIf(&base.PrimaryColor, d.PrimaryColor)
	setIf(&base.SecondaryColor, d.SecondaryColor)
	setIf(&base.BackgroundColor, d.BackgroundColor)
	setIf(&base.BorderColor, d.BorderColor)
	setIf(&base.FontFamily, d.FontFamily)
	setIf(&base.TitleFontSize, d.TitleFontSize)
	setIf(&base.NameFontSize, d.NameFontSize)
	setIf(&base.BodyFontSize, d.BodyFontSize)
	setIf(&base.Title, d.Title)
	setIf(&base.Subtitle, d.Subtitle)
	setIf(&base.BodyText, d.BodyText)
	setIf(&base.Footer, d.Footer)
	setIf(&base.TitlePosition, d.TitlePosition)
	setIf(&base.NamePosition, d.NamePosition)
	setIf(&base.BodyPosition, d.BodyPosition)
	setIf(&base.LogoPosition, d.LogoPosition)
	setIf(&base.QRCodePosition, d.QRCodePosition)
	setIf(&base.ShowBorder, d.ShowBorder)
	setIf(&base.BorderWidth, d.BorderWidth)
	setIf(&base.ShowWatermark, d.ShowWatermark)
	setIf(&base.WatermarkText, d.WatermarkText)
	setIf(&base.WatermarkOpacity, d.WatermarkOpacity)
	setIf(&base.IncludeQRCode, d.IncludeQRCode)
	setIf(&base.QRCodeText, d.QRCodeText)
	setIf(&base.LogoURL, d.LogoURL)
	setIf(&base.LogoSize, d.LogoSize)
	return base
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// ResolveConfig returns the effective configuration of a stored document,
// substituting the default configuration when none exists.
func ResolveConfig(d *ConfigDocument) CertificateConfig {
	return d.Resolve()
}

// LoadConfigDocument reads a YAML or JSON certificate configuration file.
func LoadConfigDocument(path string) (*ConfigDocument, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseConfigDocument(data)
}

// ParseConfigDocument parses YAML or JSON certificate configuration content.
func ParseConfigDocument(data []byte) (*ConfigDocument, error) {
	var doc ConfigDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &doc, nil
}

// LoadCertificateData reads a YAML or JSON list of participants.
func LoadCertificateData(path string) ([]CertificateData, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read participants file: %w", err)
	}
	var list []CertificateData
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to parse participants file: %w", err)
	}
	return list, nil
}

// Environment variables read by LoadSettings and ProcessEnvironment.
const (
	EnvFontCacheDir = "GOCERT_FONT_CACHE_DIR"
	EnvBaseURL      = "GOCERT_BASE_URL"
	EnvFetchTimeout = "GOCERT_FETCH_TIMEOUT"
	EnvConstrained  = "GOCERT_CONSTRAINED"
)

// DefaultFetchTimeout bounds every logo and font download.
const DefaultFetchTimeout = 8 * time.Second

// Settings configures an Engine.
type Settings struct {
	// FontCacheDir receives downloaded remote fonts. Defaults to a directory
	// under os.TempDir.
	FontCacheDir string `yaml:"fontCacheDir"`
	// RemoteFonts overrides the ordered list of remote font sources.
	RemoteFonts []RemoteFont `yaml:"remoteFonts"`
	// FetchTimeout bounds each network fetch.
	FetchTimeout time.Duration `yaml:"fetchTimeout"`
	// BaseURL prefixes default QR validation links.
	BaseURL string `yaml:"baseURL"`
	// Constrained forces the constrained-environment answer when set.
	Constrained *bool `yaml:"constrained"`
	// FontDirs are scanned for system fonts in addition to the OS defaults.
	FontDirs []string `yaml:"fontDirs"`
}

// DefaultSettings returns the settings used when no file is given.
func DefaultSettings() Settings {
	return Settings{
		FontCacheDir: filepath.Join(os.TempDir(), "gocert-fonts"),
		FetchTimeout: DefaultFetchTimeout,
		BaseURL:      "http://localhost:3000",
	}
}

// LoadSettings reads engine settings from path, or starts from the defaults
// when path is empty, then applies environment overrides.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	if path != "" {
		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return s, fmt.Errorf("failed to read settings file: %w", err)
		}
		if err := yaml.Unmarshal(data, &s); err != nil {
			return s, fmt.Errorf("failed to parse settings file: %w", err)
		}
	}
	if err := applyEnvOverrides(&s, os.Getenv); err != nil {
		return s, err
	}
	if s.FetchTimeout <= 0 {
		s.FetchTimeout = DefaultFetchTimeout
	}
	return s, nil
}

// applyEnvOverrides overrides settings with environment variables if set.
// Invalid values fail fast.
func applyEnvOverrides(s *Settings, getenv func(string) string) error {
	if dir := getenv(EnvFontCacheDir); dir != "" {
		s.FontCacheDir = dir
	}
	if base := getenv(EnvBaseURL); base != "" {
		s.BaseURL = strings.TrimRight(base, "/")
	}
	if timeout := getenv(EnvFetchTimeout); timeout != "" {
		t, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvFetchTimeout, timeout, err)
		}
		s.FetchTimeout = t
	}
	if constrained := getenv(EnvConstrained); constrained != "" {
		c, err := parseBool(constrained)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvConstrained, constrained, err)
		}
		s.Constrained = &c
	}
	return nil
}

// parseBool parses boolean environment variables.
// Accepts: "true", "1", "yes", "on" for true; "false", "0", "no", "off" for false
func parseBool(value string) (bool, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	switch value {
	case "true", "1", "yes", "on":
		return true, nil
	case "false", "0", "no", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean value %q", value)
	}
}

package gocert

import (
	"fmt"
	"math"
	"strings"
)

// Validate checks the configuration for out-of-range or unknown values and
// returns an error describing all problems found, or nil if the configuration
// is valid. Renderers never require a valid configuration; they render
// Effective(), which clamps every problem reported here.
func (c CertificateConfig) Validate() error {
	var errs []string

	if !c.Template.Valid() {
		errs = append(errs, fmt.Sprintf("unknown template %q", c.Template))
	}
	if !c.Orientation.Valid() {
		errs = append(errs, fmt.Sprintf("unknown orientation %q", c.Orientation))
	}

	for _, s := range []struct {
		name string
		v    float64
	}{
		{"titleFontSize", c.TitleFontSize},
		{"nameFontSize", c.NameFontSize},
		{"bodyFontSize", c.BodyFontSize},
		{"logoSize", c.LogoSize},
	} {
		if s.v <= 0 || math.IsNaN(s.v) || math.IsInf(s.v, 0) {
			errs = append(errs, s.name+" must be positive")
		}
	}
	if c.BorderWidth < 0 || math.IsNaN(c.BorderWidth) || math.IsInf(c.BorderWidth, 0) {
		errs = append(errs, "borderWidth must be finite and not negative")
	}

	for _, p := range []struct {
		name string
		pos  Position
	}{
		{"titlePosition", c.TitlePosition},
		{"namePosition", c.NamePosition},
		{"bodyPosition", c.BodyPosition},
		{"logoPosition", c.LogoPosition},
		{"qrCodePosition", c.QRCodePosition},
	} {
		errs = append(errs, validatePosition(p.name, p.pos)...)
	}

	if math.IsNaN(c.WatermarkOpacity) || c.WatermarkOpacity < MinWatermarkOpacity || c.WatermarkOpacity > MaxWatermarkOpacity {
		errs = append(errs, fmt.Sprintf("watermarkOpacity %v outside [%v, %v]", c.WatermarkOpacity, MinWatermarkOpacity, MaxWatermarkOpacity))
	}
	if c.ShowWatermark && strings.TrimSpace(c.WatermarkText) == "" {
		errs = append(errs, "watermark enabled with empty watermarkText")
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("validation failed:\n  %s", strings.Join(errs, "\n  "))
}

// validatePosition checks that both percentages of an anchor lie in [0,100].
func validatePosition(name string, p Position) []string {
	var errs []string
	if math.IsNaN(p.X) || p.X < 0 || p.X > 100 {
		errs = append(errs, fmt.Sprintf("%s: x %v outside [0, 100]", name, p.X))
	}
	if math.IsNaN(p.Y) || p.Y < 0 || p.Y > 100 {
		errs = append(errs, fmt.Sprintf("%s: y %v outside [0, 100]", name, p.Y))
	}
	return errs
}

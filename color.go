package gocert

import (
	"fmt"
	"image/color"
	"strings"
)

// Color represents an opaque RGB color.
type Color struct {
	R, G, B uint8
}

// Predefined colors.
var (
	ColorBlack = Color{0x00, 0x00, 0x00}
	ColorWhite = Color{0xFF, 0xFF, 0xFF}
	ColorGray  = Color{0x80, 0x80, 0x80}
)

// NewColor creates a Color from a hex string.
// Accepts 6-char RGB (e.g. "1E40AF") or 3-char shorthand ("FFF").
// A leading "#" is stripped automatically. Invalid input yields black.
func NewColor(hex string) Color {
	c, err := ParseColor(hex)
	if err != nil {
		return ColorBlack
	}
	return c
}

// ParseColor parses a hex color string, reporting malformed input.
func ParseColor(hex string) (Color, error) {
	s := strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(hex), "#"))
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if !isValidRGB(s) {
		return Color{}, fmt.Errorf("invalid color %q", hex)
	}
	return Color{
		R: parseHexByte(s, 0),
		G: parseHexByte(s, 2),
		B: parseHexByte(s, 4),
	}, nil
}

// isValidRGB checks that s is exactly 6 hex characters.
func isValidRGB(s string) bool {
	if len(s) != 6 {
		return false
	}
	for _, c := range s {
		if !((c >= '0' && c <= '9') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}

// Hex returns the color as "#RRGGBB".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// String implements fmt.Stringer.
func (c Color) String() string {
	return c.Hex()
}

// RGBA converts the color to an opaque color.RGBA.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// WithAlpha returns a non-premultiplied color with the given opacity (0..1).
func (c Color) WithAlpha(opacity float64) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(clampFloat(opacity, 0, 1)*255 + 0.5)}
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func parseHexByte(s string, offset int) uint8 {
	if offset+2 > len(s) {
		return 0
	}
	hi := hexVal(s[offset])
	lo := hexVal(s[offset+1])
	if hi < 0 || lo < 0 {
		return 0
	}
	return uint8(hi<<4 | lo)
}

func hexVal(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	default:
		return -1
	}
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

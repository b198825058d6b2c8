package gocert

import "strings"

// WrapText greedily breaks text into lines no wider than maxWidth. Words are
// accumulated while the measured line fits; the overflowing word starts the
// next line. A single word wider than maxWidth is left alone on its own line,
// words are never broken or hyphenated. A non-positive maxWidth disables
// wrapping.
func WrapText(m TextMeasurer, text string, style TextStyle, maxWidth float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if maxWidth <= 0 {
		return []string{strings.Join(words, " ")}
	}

	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		candidate := current + " " + word
		if m.MeasureText(candidate, style) <= maxWidth {
			current = candidate
			continue
		}
		lines = append(lines, current)
		current = word
	}
	return append(lines, current)
}

// BlockStart returns the edge of a block of n lines vertically centered on
// anchorY: the top in top-down coordinates, or the visual top in bottom-up
// coordinates when lineHeight is negated.
func BlockStart(anchorY, lineHeight float64, n int) float64 {
	return anchorY - float64(n)*lineHeight/2
}

// CenteredX returns the left edge of a line of the given width centered on
// anchorX.
func CenteredX(anchorX, width float64) float64 {
	return anchorX - width/2
}

// PlacedLine is a line of text positioned on a surface. X is the left edge
// and Y the vertical middle of the line.
type PlacedLine struct {
	Text  string
	X, Y  float64
	Width float64
}

// LayoutBlock stacks lines vertically centered on anchor, each line centered
// horizontally. In bottom-up conventions the stacking direction is mirrored
// so the first line is still the visually highest one.
func LayoutBlock(m TextMeasurer, lines []string, style TextStyle, anchor Point, lineHeight float64, o Origin) []PlacedLine {
	if len(lines) == 0 {
		return nil
	}
	down := o.Down()
	start := BlockStart(anchor.Y, down*lineHeight, len(lines))
	placed := make([]PlacedLine, len(lines))
	for i, line := range lines {
		w := m.MeasureText(line, style)
		placed[i] = PlacedLine{
			Text:  line,
			X:     CenteredX(anchor.X, w),
			Y:     start + down*(float64(i)+0.5)*lineHeight,
			Width: w,
		}
	}
	return placed
}

package gocert

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapText_NeverExceedsMaxWidth(t *testing.T) {
	m := fixedMeasurer(10)
	style := TextStyle{Size: 12}
	texts := []string{
		"Certificamos que Ana Silva participou do evento Workshop X, realizado em 10 de maio de 2024.",
		"a b c d e f g h i j k l m n o p q r s t u v w x y z",
		"one",
		"   spaced    out   words   ",
		"supercalifragilisticexpialidocious is long",
	}
	for _, text := range texts {
		for _, max := range []float64{50, 80, 120, 300, 1000} {
			lines := WrapText(m, text, style, max)
			require.NotEmpty(t, lines, "text %q", text)
			for _, line := range lines {
				if m.MeasureText(line, style) <= max {
					continue
				}
				assert.NotContains(t, line, " ", "over-wide line %q must be a single word (max %v)", line, max)
			}
			assert.Equal(t, strings.Join(strings.Fields(text), " "), strings.Join(lines, " "))
		}
	}
}

func TestWrapText_Greedy(t *testing.T) {
	lines := WrapText(fixedMeasurer(1), "aa bb cc dd", TextStyle{}, 5)
	assert.Equal(t, []string{"aa bb", "cc dd"}, lines)

	lines = WrapText(fixedMeasurer(1), "aaaaaaaa bb", TextStyle{}, 5)
	assert.Equal(t, []string{"aaaaaaaa", "bb"}, lines)
}

func TestWrapText_EmptyAndUnbounded(t *testing.T) {
	assert.Nil(t, WrapText(fixedMeasurer(1), "   ", TextStyle{}, 10))
	assert.Equal(t, []string{"a b c"}, WrapText(fixedMeasurer(1), "a  b c", TextStyle{}, 0))
}

func TestBlockStartAndCenteredX(t *testing.T) {
	assert.Equal(t, 70.0, BlockStart(100, 20, 3))
	assert.Equal(t, 100.0, BlockStart(100, 20, 0))
	assert.Equal(t, 75.0, CenteredX(100, 50))
}

func TestLayoutBlock_TopLeft(t *testing.T) {
	m := fixedMeasurer(10)
	placed := LayoutBlock(m, []string{"abcd", "ab"}, TextStyle{}, Point{X: 200, Y: 100}, 20, OriginTopLeft)
	require.Len(t, placed, 2)
	assert.Equal(t, PlacedLine{Text: "abcd", X: 180, Y: 90, Width: 40}, placed[0])
	assert.Equal(t, PlacedLine{Text: "ab", X: 190, Y: 110, Width: 20}, placed[1])
}

func TestLayoutBlock_StartsAtBlockStart(t *testing.T) {
	m := fixedMeasurer(10)
	lines := []string{"a", "b", "c", "d"}
	placed := LayoutBlock(m, lines, TextStyle{}, Point{X: 50, Y: 300}, 24, OriginTopLeft)
	require.Len(t, placed, 4)
	assert.Equal(t, BlockStart(300, 24, len(lines))+12, placed[0].Y)

	placed = LayoutBlock(m, lines, TextStyle{}, Point{X: 50, Y: 300}, 24, OriginBottomLeft)
	assert.Equal(t, BlockStart(300, -24, len(lines))-12, placed[0].Y)
}

func TestLayoutBlock_BottomLeftMirrorsStacking(t *testing.T) {
	m := fixedMeasurer(10)
	lines := []string{"first", "second", "third"}
	top := LayoutBlock(m, lines, TextStyle{}, Point{X: 300, Y: 200}, 30, OriginTopLeft)
	bottom := LayoutBlock(m, lines, TextStyle{}, Point{X: 300, Y: 400 - 200}, 30, OriginBottomLeft)
	require.Len(t, bottom, 3)
	for i := range lines {
		assert.Equal(t, top[i].X, bottom[i].X)
		assert.InDelta(t, 400-top[i].Y, bottom[i].Y, 1e-9, "line %d", i)
	}
	// First line stays visually highest.
	assert.Greater(t, bottom[0].Y, bottom[2].Y)
}

package gocert

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// pictographic covers emoji, pictographs, dingbats and the joiners and
// selectors used to compose them.
var pictographic = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x200D, Hi: 0x200D, Stride: 1},
		{Lo: 0x20E3, Hi: 0x20E3, Stride: 1},
		{Lo: 0x2300, Hi: 0x23FF, Stride: 1},
		{Lo: 0x2600, Hi: 0x27BF, Stride: 1},
		{Lo: 0x2B00, Hi: 0x2BFF, Stride: 1},
		{Lo: 0xFE00, Hi: 0xFE0F, Stride: 1},
	},
	R32: []unicode.Range32{
		{Lo: 0x1F000, Hi: 0x1FAFF, Stride: 1},
		{Lo: 0xE0000, Hi: 0xE007F, Stride: 1},
	},
}

var punctuationReplacer = strings.NewReplacer(
	"‘", "'", "’", "'", "‚", "'", "‛", "'",
	"“", `"`, "”", `"`, "„", `"`, "‟", `"`,
	"‒", "-", "–", "-", "—", "-", "―", "-",
	"…", "...",
	"\u00a0", " ",
)

// Sanitizer applies the text policy to every rendered string.
//
// With ASCIIOnly set, pictographs are stripped, the text is decomposed and
// its combining marks dropped, any remaining non-ASCII rune removed, and
// whitespace collapsed and trimmed. Otherwise only pictographs and control
// characters are removed and typographic quotes and dashes normalized, so
// diacritics survive.
type Sanitizer struct {
	ASCIIOnly bool
}

// Sanitize returns text cleaned according to the policy. It is idempotent.
func (s Sanitizer) Sanitize(text string) string {
	if text == "" {
		return ""
	}
	text = strings.ToValidUTF8(text, "")
	if s.ASCIIOnly {
		return s.asciiOnly(text)
	}
	return s.preserving(text)
}

func (s Sanitizer) asciiOnly(text string) string {
	t := transform.Chain(
		runes.Remove(runes.In(pictographic)),
		runes.Map(whitespaceToSpace),
		runes.Remove(runes.Predicate(unicode.IsControl)),
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Remove(runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })),
	)
	out, _, err := transform.String(t, text)
	if err != nil {
		out = dropNonASCII(text)
	}
	return strings.Join(strings.Fields(out), " ")
}

func (s Sanitizer) preserving(text string) string {
	t := transform.Chain(
		runes.Remove(runes.In(pictographic)),
		runes.Map(whitespaceToSpace),
		runes.Remove(runes.Predicate(unicode.IsControl)),
	)
	out, _, err := transform.String(t, text)
	if err != nil {
		out = text
	}
	return norm.NFC.String(punctuationReplacer.Replace(out))
}

// whitespaceToSpace turns whitespace controls into spaces. Other controls
// are left for a later removal step; runes.Map cannot drop a rune.
func whitespaceToSpace(r rune) rune {
	switch r {
	case '\t', '\n', '\r', '\v', '\f':
		return ' '
	}
	return r
}

func dropNonASCII(text string) string {
	var b strings.Builder
	for _, r := range text {
		if r <= unicode.MaxASCII && !unicode.IsControl(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

package textfilter

import (
	"strings"
	"unicode"
)

// Glyphs the creature's native script uses for the latin alphabet, a..z.
var alienGlyphs = []rune("ᚨᛒᚲᛞᛖᚠᚷᚺᛁᛃᚴᛚᛗᚾᛟᛈᛩᚱᛋᛏᚢᚡᚹᛪᛦᛎ")

// Alienize renders text in the native script. Letters map one to one, so
// the shape of the sentence (spacing, punctuation) survives.
func Alienize(text string) string {
	var sb strings.Builder
	sb.Grow(len(text) * 3)
	for _, r := range text {
		lower := unicode.ToLower(r)
		if lower >= 'a' && lower <= 'z' {
			sb.WriteRune(alienGlyphs[lower-'a'])
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

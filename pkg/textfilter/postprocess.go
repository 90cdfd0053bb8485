package textfilter

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Terminals are the characters a finished sentence may end with.
const Terminals = ".!?"

var upper = cases.Upper(language.Und)

// PostProcess turns assembled template text into a display-ready sentence:
// trimmed, capitalized, terminated, with leftover lore placeholders filled.
func PostProcess(text string, lore map[string]string) string {
	cleaned := strings.TrimSpace(text)
	cleaned = Capitalize(cleaned)
	cleaned = EnsureTerminal(cleaned)
	return SubstituteLore(cleaned, lore)
}

// Capitalize uppercases the first rune.
func Capitalize(text string) string {
	if text == "" {
		return text
	}
	r, size := utf8.DecodeRuneInString(text)
	return upper.String(string(r)) + text[size:]
}

// EnsureTerminal appends a period unless text already ends in one of Terminals.
func EnsureTerminal(text string) string {
	if text == "" {
		return text
	}
	last, _ := utf8.DecodeLastRuneInString(text)
	if strings.ContainsRune(Terminals, last) {
		return text
	}
	return text + "."
}

// IsSentence reports whether text starts uppercase and ends with a terminal.
func IsSentence(text string) bool {
	if text == "" {
		return false
	}
	first, _ := utf8.DecodeRuneInString(text)
	last, _ := utf8.DecodeLastRuneInString(text)
	return upper.String(string(first)) == string(first) &&
		strings.ContainsRune(Terminals, last)
}

// SubstituteLore replaces {key} with lore[key] for every entry.
func SubstituteLore(text string, lore map[string]string) string {
	if len(lore) == 0 || !strings.Contains(text, "{") {
		return text
	}
	pairs := make([]string, 0, len(lore)*2)
	for key, value := range lore {
		pairs = append(pairs, "{"+key+"}", value)
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

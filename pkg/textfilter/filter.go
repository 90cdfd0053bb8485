// Package textfilter cleans up generated speech before it reaches the host:
// sentence shaping, lore-name substitution, content-rating filtering and the
// alien script used outside translation windows.
package textfilter

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Words that a family-rated pet must never say, mapped to what it says instead.
// Lore files are user-editable, so the filter runs on every line of speech.
var replacements = map[string]string{
	"damn":     "dang",
	"hell":     "heck",
	"crap":     "crud",
	"shit":     "shoot",
	"fuck":     "fudge",
	"ass":      "butt",
	"bastard":  "jerk",
	"bitch":    "jerk",
	"asshole":  "jerk",
	"dumbass":  "dummy",
	"goddamn":  "gosh-dang",
	"bullshit": "baloney",
	"piss":     "ticked",
	"stupid":   "silly",
	"idiot":    "goof",
}

// Filter replaces profanity with family-friendly alternatives when the
// configured rating calls for it.
type Filter struct {
	enabled bool
	regexes map[string]*regexp.Regexp
}

// NewFilter builds a filter for a content rating. Ratings that do not need
// filtering produce a pass-through filter.
func NewFilter(rating string) *Filter {
	f := &Filter{
		enabled: ShouldFilterContent(rating),
		regexes: make(map[string]*regexp.Regexp, len(replacements)),
	}

	for word := range replacements {
		// Whole words only, with an optional plural suffix kept in group 2.
		pattern := `(?i)\b(` + regexp.QuoteMeta(word) + `)(e?s)?\b`
		f.regexes[word] = regexp.MustCompile(pattern)
	}

	return f
}

// Enabled reports whether Apply changes anything.
func (f *Filter) Enabled() bool {
	return f != nil && f.enabled
}

// Apply filters text when the rating requires it.
func (f *Filter) Apply(text string) string {
	if !f.Enabled() {
		return text
	}
	return f.FilterText(text)
}

// FilterText replaces profanity regardless of rating.
func (f *Filter) FilterText(text string) string {
	result := text
	for word, re := range f.regexes {
		replacement := replacements[word]
		result = re.ReplaceAllStringFunc(result, func(match string) string {
			groups := re.FindStringSubmatch(match)
			suffix := ""
			if len(groups) > 2 && groups[2] != "" {
				// "hells" -> "hecks", "asses" -> "butts"
				suffix = "s"
				if strings.ToUpper(groups[1]) == groups[1] {
					suffix = "S"
				}
			}
			return preserveCase(groups[1], replacement) + suffix
		})
	}
	return result
}

// ContainsProfanity checks whether any filtered word appears in text.
func (f *Filter) ContainsProfanity(text string) bool {
	for _, re := range f.regexes {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// ShouldFilterContent determines if content should be filtered based on rating
func ShouldFilterContent(rating string) bool {
	rating = strings.ToUpper(strings.TrimSpace(rating))
	switch rating {
	case "G", "PG", "PG13", "PG-13":
		return true
	default:
		return false
	}
}

// preserveCase applies the case pattern of the original word to the replacement
func preserveCase(original, replacement string) string {
	if original == "" {
		return replacement
	}

	if strings.ToUpper(original) == original {
		return strings.ToUpper(replacement)
	}

	if strings.ToLower(original) == original {
		return strings.ToLower(replacement)
	}

	titleCaser := cases.Title(language.English)
	if titleCaser.String(strings.ToLower(original)) == original {
		return titleCaser.String(replacement)
	}

	// Mixed case: copy the pattern rune by rune, lowercase past the end.
	originalRunes := []rune(original)
	result := make([]rune, 0, len(replacement))
	for i, r := range []rune(replacement) {
		if i < len(originalRunes) && unicode.IsUpper(originalRunes[i]) {
			result = append(result, unicode.ToUpper(r))
		} else {
			result = append(result, unicode.ToLower(r))
		}
	}
	return string(result)
}

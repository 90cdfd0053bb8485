// Package phrases generates the creature's speech from lore: template
// selection, placeholder substitution, a variation appender and
// post-processing, with a static sentence bank when the generation backend
// is unavailable.
package phrases

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jwebster45206/amix-engine/pkg/persona"
	"github.com/jwebster45206/amix-engine/pkg/textfilter"
)

// Fallback bank categories, in the order the built-in lore defines them.
const (
	CategoryFeelings     = "feelings"
	CategoryQuestions    = "questions"
	CategoryObservations = "observations"
	CategoryConfusion    = "confusion"
	CategoryExcitement   = "excitement"
	CategoryWisdom       = "wisdom"
	CategoryGreetings    = "greetings"
)

// VariationKind groups appenders for documentation and lore editing.
type VariationKind string

const (
	VariationEmotional  VariationKind = "emotional"
	VariationConnector  VariationKind = "connector"
	VariationQuestion   VariationKind = "question"
	VariationReflection VariationKind = "reflection"
)

// Variation is a suffix appended to an assembled template.
type Variation struct {
	Kind   VariationKind `json:"kind" yaml:"kind"`
	Suffix string        `json:"suffix" yaml:"suffix"`
}

// Lore is everything the generator needs: the creature's identity and
// starting persona, its templates, placeholder candidates, variation pool
// and the fallback sentence bank. It is loaded once and never mutated.
type Lore struct {
	persona.Identity `yaml:",inline"`

	Traits       []string            `json:"traits,omitempty" yaml:"traits,omitempty"`
	Mood         persona.Mood        `json:"mood" yaml:"mood"`
	Energy       int                 `json:"energy" yaml:"energy"`
	Templates    []string            `json:"templates" yaml:"templates"`
	Placeholders map[string][]string `json:"placeholders" yaml:"placeholders"`
	Variations   []Variation         `json:"variations" yaml:"variations"`
	Fallback     map[string][]string `json:"fallback" yaml:"fallback"`
}

var placeholderPattern = regexp.MustCompile(`\{([a-zA-Z_]+)\}`)

// ParseLore decodes a lore document. In strict mode unknown fields are
// rejected. The result is validated either way.
func ParseLore(data []byte, strict bool) (*Lore, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	if strict {
		decoder.DisallowUnknownFields()
	}

	var l Lore
	if err := decoder.Decode(&l); err != nil {
		return nil, fmt.Errorf("failed to decode lore: %w", err)
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

// ParseLoreYAML is ParseLore for YAML documents.
func ParseLoreYAML(data []byte, strict bool) (*Lore, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(strict)

	var l Lore
	if err := decoder.Decode(&l); err != nil {
		return nil, fmt.Errorf("failed to decode lore: %w", err)
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

// NewPersona builds the starting persona described by the lore. Mood
// labels are matched without regard to case or surrounding space.
func (l *Lore) NewPersona() *persona.State {
	mood, _ := persona.ParseMood(string(l.Mood))
	return persona.New(l.Identity, l.Traits, mood, l.Energy)
}

// PlaceholderNames returns the table's keys in sorted order.
func (l *Lore) PlaceholderNames() []string {
	names := make([]string, 0, len(l.Placeholders))
	for name := range l.Placeholders {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Categories returns the fallback bank categories in sorted order.
func (l *Lore) Categories() []string {
	categories := make([]string, 0, len(l.Fallback))
	for category := range l.Fallback {
		categories = append(categories, category)
	}
	slices.Sort(categories)
	return categories
}

// BankContains reports whether sentence is a member of the fallback bank.
func (l *Lore) BankContains(sentence string) bool {
	for _, sentences := range l.Fallback {
		if slices.Contains(sentences, sentence) {
			return true
		}
	}
	return false
}

// Validate checks that every table the generator draws from is non-empty
// and that the bank only holds well-formed sentences.
func (l *Lore) Validate() error {
	var errs []error

	if strings.TrimSpace(l.Name) == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if strings.TrimSpace(l.Species) == "" {
		errs = append(errs, errors.New("species is required"))
	}
	if strings.TrimSpace(l.Homeworld) == "" {
		errs = append(errs, errors.New("homeworld is required"))
	}
	if l.Mood != "" {
		if _, err := persona.ParseMood(string(l.Mood)); err != nil {
			errs = append(errs, err)
		}
	}
	if l.Energy < persona.MinEnergy || l.Energy > persona.MaxEnergy {
		errs = append(errs, fmt.Errorf("energy %d must be within [%d, %d]", l.Energy, persona.MinEnergy, persona.MaxEnergy))
	}

	if len(l.Templates) == 0 {
		errs = append(errs, errors.New("at least one template is required"))
	}
	loreNames := l.Identity.Values()
	for i, tmpl := range l.Templates {
		if strings.TrimSpace(tmpl) == "" {
			errs = append(errs, fmt.Errorf("template %d is empty", i))
			continue
		}
		for _, match := range placeholderPattern.FindAllStringSubmatch(tmpl, -1) {
			name := match[1]
			if _, ok := l.Placeholders[name]; ok {
				continue
			}
			if _, ok := loreNames[name]; ok {
				continue
			}
			errs = append(errs, fmt.Errorf("template %d uses unknown placeholder {%s}", i, name))
		}
	}

	for _, name := range l.PlaceholderNames() {
		if len(l.Placeholders[name]) == 0 {
			errs = append(errs, fmt.Errorf("placeholder {%s} has no candidates", name))
		}
	}

	if len(l.Variations) == 0 {
		errs = append(errs, errors.New("at least one variation is required"))
	}
	for i, v := range l.Variations {
		if strings.TrimSpace(v.Suffix) == "" {
			errs = append(errs, fmt.Errorf("variation %d has an empty suffix", i))
		}
	}

	if len(l.Fallback) == 0 {
		errs = append(errs, errors.New("fallback bank must have at least one category"))
	}
	for _, category := range l.Categories() {
		sentences := l.Fallback[category]
		if len(sentences) == 0 {
			errs = append(errs, fmt.Errorf("fallback category %q is empty", category))
		}
		for i, s := range sentences {
			if !textfilter.IsSentence(s) {
				errs = append(errs, fmt.Errorf("fallback %s[%d] must start uppercase and end with one of %q: %q", category, i, textfilter.Terminals, s))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid lore: %w", errors.Join(errs...))
	}
	return nil
}

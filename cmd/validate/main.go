package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/jwebster45206/amix-engine/internal/storage"
	"github.com/jwebster45206/amix-engine/pkg/phrases"
	"github.com/jwebster45206/amix-engine/pkg/textfilter"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <lore.json> [more.json...]\n", os.Args[0])
		os.Exit(1)
	}

	failed := false
	for _, filename := range os.Args[1:] {
		validator := &LoreValidator{}
		if err := validator.validateFile(filename); err != nil {
			fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
			failed = true
			continue
		}
		fmt.Printf("%s is valid!\n", filename)
	}

	if failed {
		os.Exit(1)
	}
}

type LoreValidator struct {
	errors   []string
	warnings []string
}

// familyFilter flags lines that G/PG/PG13 sessions will rewrite.
var familyFilter = textfilter.NewFilter("G")

var knownCategories = []string{
	phrases.CategoryFeelings,
	phrases.CategoryQuestions,
	phrases.CategoryObservations,
	phrases.CategoryConfusion,
	phrases.CategoryExcitement,
	phrases.CategoryWisdom,
	phrases.CategoryGreetings,
}

var knownVariationKinds = []phrases.VariationKind{
	phrases.VariationEmotional,
	phrases.VariationConnector,
	phrases.VariationQuestion,
	phrases.VariationReflection,
}

var placeholderRegex = regexp.MustCompile(`\{([a-zA-Z_]+)\}`)

func (v *LoreValidator) validateFile(filename string) error {
	fmt.Printf("Validating %s...\n", filename)

	baseName := filepath.Base(filename)
	if !strings.HasSuffix(baseName, ".json") {
		return fmt.Errorf("lore file must have .json extension: %s", baseName)
	}
	if !storage.ValidLoreName(strings.TrimSuffix(baseName, ".json")) {
		return fmt.Errorf("lore filename '%s' must be lowercase snake_case (e.g., amix_es.json)", baseName)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	if !json.Valid(data) {
		return fmt.Errorf("file %s contains invalid JSON", filename)
	}

	lore, err := phrases.ParseLore(data, true)
	if err != nil {
		return fmt.Errorf("file %s: %w", filename, err)
	}

	v.errors = nil
	v.warnings = nil
	v.validateLore(lore)
	for _, warning := range v.warnings {
		fmt.Printf("Warning: %s\n", warning)
	}
	if len(v.errors) > 0 {
		return fmt.Errorf("validation errors in %s:\n%s", filename, strings.Join(v.errors, "\n"))
	}
	return nil
}

// validateLore adds the editorial checks that loading does not enforce.
func (v *LoreValidator) validateLore(l *phrases.Lore) {
	for category := range l.Fallback {
		if !slices.Contains(knownCategories, category) {
			v.addError(fmt.Sprintf("fallback category '%s' is not one of %s", category, strings.Join(knownCategories, ", ")))
		}
	}
	for _, category := range knownCategories {
		if _, ok := l.Fallback[category]; !ok {
			v.addError(fmt.Sprintf("fallback category '%s' is missing", category))
		}
	}

	for i, variation := range l.Variations {
		if !slices.Contains(knownVariationKinds, variation.Kind) {
			v.addError(fmt.Sprintf("variation %d has unknown kind '%s'", i, variation.Kind))
		}
	}

	used := make(map[string]bool)
	for _, tmpl := range l.Templates {
		for _, match := range placeholderRegex.FindAllStringSubmatch(tmpl, -1) {
			used[match[1]] = true
		}
	}
	for _, name := range l.PlaceholderNames() {
		if !used[name] {
			v.addError(fmt.Sprintf("placeholder '%s' is not used by any template", name))
		}
		for i, candidate := range l.Placeholders[name] {
			if strings.TrimSpace(candidate) == "" {
				v.addError(fmt.Sprintf("placeholder '%s' candidate %d is blank", name, i))
			}
		}
	}

	v.checkRating(l)
}

// checkRating warns about lines the content filter would rewrite.
func (v *LoreValidator) checkRating(l *phrases.Lore) {
	check := func(where, text string) {
		if familyFilter.ContainsProfanity(text) {
			v.warnings = append(v.warnings, fmt.Sprintf("%s %q is rewritten for family content ratings", where, text))
		}
	}

	for i, tmpl := range l.Templates {
		check(fmt.Sprintf("template %d", i), tmpl)
	}
	for _, name := range l.PlaceholderNames() {
		for _, candidate := range l.Placeholders[name] {
			check(fmt.Sprintf("placeholder '%s'", name), candidate)
		}
	}
	for i, variation := range l.Variations {
		check(fmt.Sprintf("variation %d", i), variation.Suffix)
	}
	for _, category := range l.Categories() {
		for _, sentence := range l.Fallback[category] {
			check(fmt.Sprintf("fallback '%s'", category), sentence)
		}
	}
}

func (v *LoreValidator) addError(msg string) {
	v.errors = append(v.errors, "  - "+msg)
}

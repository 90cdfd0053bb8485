package phrases

import (
	"context"
	_ "embed"
	"log/slog"
	"strings"
	"sync"

	"github.com/jwebster45206/amix-engine/pkg/persona"
	"github.com/jwebster45206/amix-engine/pkg/random"
	"github.com/jwebster45206/amix-engine/pkg/textfilter"
)

// NoVariationChance is the probability that a composed phrase gets no
// appender. Otherwise exactly one appender is drawn.
const NoVariationChance = 0.1

//go:embed amix.json
var defaultLore []byte

// DefaultLore returns the built-in Amix lore.
func DefaultLore() *Lore {
	l, err := ParseLore(defaultLore, true)
	if err != nil {
		panic("built-in lore is invalid: " + err.Error())
	}
	return l
}

// Backend reports whether template synthesis is available. It is probed
// once per Generator.
type Backend interface {
	Ready(ctx context.Context) (bool, error)
}

// Generator produces one display-ready sentence per call. It reads the
// persona for lore names but never mutates it.
type Generator struct {
	lore             *Lore
	persona          *persona.State
	backend          Backend
	rng              random.Source
	logger           *slog.Logger
	placeholderNames []string
	categories       []string

	probe sync.Once
	ready bool
}

// NewGenerator creates a generator. A nil backend means template synthesis
// is never available.
func NewGenerator(lore *Lore, p *persona.State, backend Backend, rng random.Source, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		lore:             lore,
		persona:          p,
		backend:          backend,
		rng:              rng,
		logger:           logger,
		placeholderNames: lore.PlaceholderNames(),
		categories:       lore.Categories(),
	}
}

// Ready resolves backend availability on first use. Later calls return the
// cached answer without probing again.
func (g *Generator) Ready(ctx context.Context) bool {
	g.probe.Do(func() {
		if g.backend == nil {
			g.logger.Info("No generation backend configured, using fallback bank")
			return
		}

		ready, err := g.backend.Ready(ctx)
		if err != nil {
			g.logger.Warn("Generation backend unavailable, using fallback bank", "error", err)
			return
		}
		g.ready = ready
		g.logger.Info("Generation backend resolved", "ready", ready)
	})
	return g.ready
}

// Generate returns one sentence: composed from templates when the backend
// is ready, otherwise drawn from the fallback bank.
func (g *Generator) Generate(ctx context.Context) string {
	if !g.Ready(ctx) {
		response := g.Fallback()
		g.logger.Debug("Fallback response", "response", response)
		return response
	}

	response := g.Compose()
	g.logger.Debug("Generated response", "response", response)
	return response
}

// Compose fills a random template, appends a variation and post-processes.
func (g *Generator) Compose() string {
	text := random.Pick(g.rng, g.lore.Templates)

	// Every placeholder draws a value, used or not, so the number of draws
	// per phrase does not depend on which template was picked.
	for _, name := range g.placeholderNames {
		value := random.Pick(g.rng, g.lore.Placeholders[name])
		text = strings.ReplaceAll(text, "{"+name+"}", value)
	}

	text = g.addVariation(text)

	return textfilter.PostProcess(text, g.persona.Identity().Values())
}

func (g *Generator) addVariation(text string) string {
	if random.Chance(g.rng, NoVariationChance) {
		return text
	}
	return text + random.Pick(g.rng, g.lore.Variations).Suffix
}

// Fallback picks a bank category uniformly, then a sentence within it.
func (g *Generator) Fallback() string {
	category := random.Pick(g.rng, g.categories)
	return random.Pick(g.rng, g.lore.Fallback[category])
}

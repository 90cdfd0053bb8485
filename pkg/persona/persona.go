// Package persona holds the creature's identity and its mood/energy state.
package persona

import (
	"fmt"
	"strings"

	"github.com/jwebster45206/amix-engine/pkg/random"
)

// Mood is the creature's current emotional label.
type Mood string

const (
	MoodContent    Mood = "content"
	MoodConfused   Mood = "confused"
	MoodExcited    Mood = "excited"
	MoodScared     Mood = "scared"
	MoodGrateful   Mood = "grateful"
	MoodCurious    Mood = "curious"
	MoodFascinated Mood = "fascinated"
	MoodBewildered Mood = "bewildered"
)

// Moods is the closed set a mood update draws from.
var Moods = []Mood{
	MoodContent,
	MoodConfused,
	MoodExcited,
	MoodScared,
	MoodGrateful,
	MoodCurious,
	MoodFascinated,
	MoodBewildered,
}

const (
	MinEnergy = 0
	MaxEnergy = 100

	// MoodShiftChance is the probability that UpdateMood picks a new mood.
	MoodShiftChance = 0.3

	excitedEnergyGain = 10
	scaredEnergyLoss  = 5
	// scaredEnergyFloor is where fear stops draining energy. It is not
	// MinEnergy: a scared creature never drops below half.
	scaredEnergyFloor = 50
)

// Valid reports whether m belongs to Moods.
func (m Mood) Valid() bool {
	for _, known := range Moods {
		if m == known {
			return true
		}
	}
	return false
}

// ParseMood converts a label into a Mood.
func ParseMood(s string) (Mood, error) {
	m := Mood(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("unknown mood %q", s)
	}
	return m, nil
}

// Identity is the fixed descriptive part of the persona.
type Identity struct {
	Name      string `json:"name" yaml:"name"`
	Species   string `json:"species" yaml:"species"`
	Homeworld string `json:"homeworld" yaml:"homeworld"`
}

// Values maps lore placeholder names to the identity strings.
func (i Identity) Values() map[string]string {
	return map[string]string{
		"name":      i.Name,
		"species":   i.Species,
		"homeworld": i.Homeworld,
	}
}

// State is the mutable persona. Only its owner mutates it.
type State struct {
	identity Identity
	traits   []string
	mood     Mood
	energy   int
}

// New creates a persona. An invalid mood falls back to content and energy
// is clamped into range.
func New(identity Identity, traits []string, mood Mood, energy int) *State {
	if !mood.Valid() {
		mood = MoodContent
	}
	return &State{
		identity: identity,
		traits:   append([]string(nil), traits...),
		mood:     mood,
		energy:   clampEnergy(energy),
	}
}

func (s *State) Identity() Identity { return s.identity }
func (s *State) Mood() Mood         { return s.mood }
func (s *State) Energy() int        { return s.energy }

// Traits returns a copy of the personality traits.
func (s *State) Traits() []string {
	return append([]string(nil), s.traits...)
}

// AdjustEnergy adds delta and clamps the result.
func (s *State) AdjustEnergy(delta int) {
	s.energy = clampEnergy(s.energy + delta)
}

// UpdateMood rolls for a mood shift after an interaction. Returns true if a
// new mood was drawn (it may equal the old one).
func (s *State) UpdateMood(rng random.Source) bool {
	if !random.Chance(rng, MoodShiftChance) {
		return false
	}

	s.mood = random.Pick(rng, Moods)
	switch s.mood {
	case MoodExcited:
		s.AdjustEnergy(excitedEnergyGain)
	case MoodScared:
		s.energy = clampEnergy(max(scaredEnergyFloor, s.energy-scaredEnergyLoss))
	}
	return true
}

// String renders a one-line status.
func (s *State) String() string {
	return fmt.Sprintf("%s is %s (energy: %d)", s.identity.Name, s.mood, s.energy)
}

func clampEnergy(e int) int {
	return min(MaxEnergy, max(MinEnergy, e))
}

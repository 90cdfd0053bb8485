// Package pet ties the persona, the phrase generator and the patrol
// controller into one explicitly owned context that a host ticks.
package pet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/jwebster45206/amix-engine/pkg/patrol"
	"github.com/jwebster45206/amix-engine/pkg/persona"
	"github.com/jwebster45206/amix-engine/pkg/phrases"
	"github.com/jwebster45206/amix-engine/pkg/random"
	"github.com/jwebster45206/amix-engine/pkg/schedule"
	"github.com/jwebster45206/amix-engine/pkg/textfilter"
)

// Animation is the clip the host should be playing.
type Animation string

const (
	AnimationIdle  Animation = "Idle"
	AnimationRun   Animation = "Run"
	AnimationDance Animation = "Dance"
)

// Sounds.
const SoundEating = "eating"

var TalkSounds = []string{"talk1", "talk2", "talk3"}

// ErrItemPresent is returned when an item is dropped while another one is
// still on the ground.
var ErrItemPresent = errors.New("an item is already on the ground")

// Scheduler slots.
const (
	slotResume      = "pet.resume"
	slotClick       = "pet.click"
	slotTranslation = "pet.translation"
)

// Timing holds the interaction delays.
type Timing struct {
	TalkResume          time.Duration
	Dance               time.Duration
	ClickWindow         time.Duration
	TranslationInterval time.Duration
	TranslationDuration time.Duration
	ItemRange           float64 // items land in [-ItemRange, ItemRange] on both axes
}

func DefaultTiming() Timing {
	return Timing{
		TalkResume:          2 * time.Second,
		Dance:               3 * time.Second,
		ClickWindow:         300 * time.Millisecond,
		TranslationInterval: 5 * time.Second,
		TranslationDuration: 3 * time.Second,
		ItemRange:           7,
	}
}

// Options configure a Pet. Nil fields fall back to defaults.
type Options struct {
	Lore    *phrases.Lore
	Backend phrases.Backend
	Patrol  *patrol.Config
	Timing  *Timing
	Rand    random.Source
	Filter  *textfilter.Filter
	Logger  *slog.Logger
}

// Item is something dropped on the ground for the pet to fetch.
type Item struct {
	ID       uuid.UUID  `json:"id"`
	Position mgl64.Vec2 `json:"position"`
}

// View is a read-only copy of everything a host needs to draw a frame.
type View struct {
	Identity   persona.Identity
	Mood       persona.Mood
	Energy     int
	Animation  Animation
	Patrol     patrol.Snapshot
	Item       *Item
	Speech     string
	Translated bool
	Elapsed    time.Duration
	ResumeIn   time.Duration // until a talk or dance ends, zero otherwise
}

// Pet is not safe for concurrent use. The host calls every method from its
// single tick loop.
type Pet struct {
	persona   *persona.State
	lore      *phrases.Lore
	generator *phrases.Generator
	patrol    *patrol.Controller
	sched     *schedule.Scheduler
	timing    Timing
	rng       random.Source
	filter    *textfilter.Filter
	logger    *slog.Logger

	animation  Animation
	item       *Item
	talkSound  int
	clicks     int
	clickReady int
	speech     string
	translated bool
	userPaused bool
	events     []Event
}

// New builds a pet from the lore and starts its timers at zero.
func New(opts Options) (*Pet, error) {
	lore := opts.Lore
	if lore == nil {
		lore = phrases.DefaultLore()
	} else if err := lore.Validate(); err != nil {
		return nil, fmt.Errorf("failed to load lore: %w", err)
	}

	patrolCfg := patrol.DefaultConfig()
	if opts.Patrol != nil {
		patrolCfg = *opts.Patrol
	}
	if err := patrolCfg.Validate(); err != nil {
		return nil, err
	}

	timing := DefaultTiming()
	if opts.Timing != nil {
		timing = *opts.Timing
	}

	rng := opts.Rand
	if rng == nil {
		rng = random.New(0)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	state := lore.NewPersona()
	p := &Pet{
		persona:   state,
		lore:      lore,
		generator: phrases.NewGenerator(lore, state, opts.Backend, rng, logger),
		sched:     schedule.New(),
		timing:    timing,
		rng:       rng,
		filter:    opts.Filter,
		logger:    logger,
		animation: AnimationIdle,
	}
	patrolCfg.Scheduler = p.sched
	p.patrol = patrol.NewController(patrolCfg, patrol.Hooks{
		OnLegStart:        p.onLegStart,
		OnWaypointReached: p.onWaypointReached,
		OnTargetConsumed:  p.onTargetConsumed,
	}, logger)

	if timing.TranslationInterval > 0 {
		p.sched.Schedule(slotTranslation, timing.TranslationInterval, p.activateTranslation)
	}

	logger.Info("Pet created",
		"name", state.Identity().Name,
		"species", state.Identity().Species,
		"mood", state.Mood(),
		"energy", state.Energy())
	return p, nil
}

// Ready resolves the generation backend now instead of on the first talk.
func (p *Pet) Ready(ctx context.Context) bool {
	return p.generator.Ready(ctx)
}

// Persona returns the pet's persona state.
func (p *Pet) Persona() *persona.State { return p.persona }

// Lore returns the loaded lore.
func (p *Pet) Lore() *phrases.Lore { return p.lore }

// Animation returns the clip that should be playing.
func (p *Pet) Animation() Animation { return p.animation }

// Speech returns the last thing the pet said.
func (p *Pet) Speech() string { return p.speech }

// Translated reports whether speech should currently be shown in plain text.
func (p *Pet) Translated() bool { return p.translated }

// Paused reports whether movement is frozen.
func (p *Pet) Paused() bool { return p.patrol.State() == patrol.StatePaused }

// Item returns the item on the ground, if any.
func (p *Pet) Item() (Item, bool) {
	if p.item == nil {
		return Item{}, false
	}
	return *p.item, true
}

// View copies the current state for rendering.
func (p *Pet) View() View {
	v := View{
		Identity:   p.persona.Identity(),
		Mood:       p.persona.Mood(),
		Energy:     p.persona.Energy(),
		Animation:  p.animation,
		Patrol:     p.patrol.Snapshot(),
		Speech:     p.speech,
		Translated: p.translated,
		Elapsed:    p.sched.Now(),
	}
	if left, ok := p.sched.Remaining(slotResume); ok {
		v.ResumeIn = left
	}
	if p.item != nil {
		item := *p.item
		v.Item = &item
	}
	return v
}

// Tick advances the pet clock by dt. The pet and its patrol share one
// clock: deferred actions due within dt run first, in due order, then the
// patrol controller moves the pet.
func (p *Pet) Tick(ctx context.Context, dt time.Duration) {
	p.sched.Advance(dt)

	if clicks := p.clickReady; clicks > 0 {
		p.clickReady = 0
		p.handleClicks(ctx, clicks)
	}

	p.patrol.Step(dt)
}

func (p *Pet) setAnimation(a Animation) {
	if p.animation == a {
		return
	}
	p.animation = a
	p.emit(EventTypeAnimation, map[string]interface{}{"animation": string(a)})
}

func (p *Pet) playSound(name string) {
	p.emit(EventTypeSound, map[string]interface{}{"sound": name})
}

func (p *Pet) onLegStart(target mgl64.Vec2, seeking bool) {
	p.setAnimation(AnimationRun)
}

func (p *Pet) onWaypointReached(index int, at mgl64.Vec2) {
	p.setAnimation(AnimationIdle)
	p.emit(EventTypeWaypointReached, map[string]interface{}{
		"index": index,
		"x":     at.X(),
		"y":     at.Y(),
	})
}

func (p *Pet) onTargetConsumed(at mgl64.Vec2) {
	data := map[string]interface{}{"x": at.X(), "y": at.Y()}
	if p.item != nil {
		data["item_id"] = p.item.ID.String()
		p.item = nil
	}
	p.emit(EventTypeItemConsumed, data)
	p.playSound(SoundEating)
	p.setAnimation(AnimationIdle)
	p.logger.Info("Item consumed", "x", at.X(), "y", at.Y())
}

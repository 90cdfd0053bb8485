package pet

import (
	"context"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/jwebster45206/amix-engine/pkg/random"
)

// Talk pauses the pet, produces one line of speech and resumes movement
// after the talk delay. The mood may shift afterwards.
func (p *Pet) Talk(ctx context.Context) string {
	p.hold()

	speech := p.filter.Apply(p.generator.Generate(ctx))
	p.speech = speech
	p.emit(EventTypeSpeech, map[string]interface{}{
		"text":       speech,
		"translated": p.translated,
	})

	if p.persona.UpdateMood(p.rng) {
		p.emit(EventTypeMoodChanged, map[string]interface{}{
			"mood":   string(p.persona.Mood()),
			"energy": p.persona.Energy(),
		})
		p.logger.Debug("Mood changed", "mood", p.persona.Mood(), "energy", p.persona.Energy())
	}

	p.playSound(TalkSounds[p.talkSound])
	p.talkSound = (p.talkSound + 1) % len(TalkSounds)

	p.sched.Schedule(slotResume, p.timing.TalkResume, p.resume)
	p.logger.Info("Pet spoke", "speech", speech, "mood", p.persona.Mood())
	return speech
}

// Dance pauses the pet for the length of the dance.
func (p *Pet) Dance() {
	p.hold()
	p.setAnimation(AnimationDance)
	p.sched.Schedule(slotResume, p.timing.Dance, p.resume)
	p.logger.Info("Pet dancing")
}

// Click registers a click on the pet. Clicks are counted over the click
// window: one means talk, two means dance, more are ignored.
func (p *Pet) Click() {
	p.clicks++
	p.sched.Schedule(slotClick, p.timing.ClickWindow, func() {
		p.clickReady = p.clicks
		p.clicks = 0
	})
}

func (p *Pet) handleClicks(ctx context.Context, clicks int) {
	switch clicks {
	case 1:
		p.Talk(ctx)
	case 2:
		p.Dance()
	default:
		p.logger.Debug("Ignoring clicks", "count", clicks)
	}
}

// Pause freezes the pet until Resume. Talking and dancing still work, but
// when they end the pet stays where it is.
func (p *Pet) Pause() {
	p.userPaused = true
	p.hold()
	p.setAnimation(AnimationIdle)
}

// Resume unfreezes the pet immediately.
func (p *Pet) Resume() {
	p.userPaused = false
	p.sched.Cancel(slotResume)
	p.resume()
}

// DropItem drops an item at a random spot. Only one item may be on the
// ground at a time.
func (p *Pet) DropItem() (Item, error) {
	r := p.timing.ItemRange
	pos := mgl64.Vec2{
		random.Between(p.rng, -r, r),
		random.Between(p.rng, -r, r),
	}
	return p.DropItemAt(pos)
}

// DropItemAt drops an item at pos and sends the pet after it.
func (p *Pet) DropItemAt(pos mgl64.Vec2) (Item, error) {
	if p.item != nil {
		return Item{}, ErrItemPresent
	}

	item := Item{ID: uuid.New(), Position: pos}
	p.item = &item
	p.emit(EventTypeItemDropped, map[string]interface{}{
		"item_id": item.ID.String(),
		"x":       pos.X(),
		"y":       pos.Y(),
	})
	p.patrol.SetOverrideTarget(pos)
	p.logger.Info("Item dropped", "item_id", item.ID, "x", pos.X(), "y", pos.Y())
	return item, nil
}

func (p *Pet) hold() {
	p.sched.Cancel(slotResume)
	p.patrol.Pause()
}

func (p *Pet) resume() {
	if p.animation == AnimationDance {
		p.setAnimation(AnimationIdle)
	}
	if p.userPaused {
		return
	}
	p.patrol.Resume()
}

func (p *Pet) activateTranslation() {
	p.translated = true
	p.emit(EventTypeTranslation, map[string]interface{}{"translated": true})
	p.sched.Schedule(slotTranslation, p.timing.TranslationDuration, p.deactivateTranslation)
}

func (p *Pet) deactivateTranslation() {
	p.translated = false
	p.emit(EventTypeTranslation, map[string]interface{}{"translated": false})
	p.sched.Schedule(slotTranslation, p.timing.TranslationInterval, p.activateTranslation)
}

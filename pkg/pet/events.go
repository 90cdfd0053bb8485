package pet

import (
	"time"

	"github.com/google/uuid"
)

// EventType names something the host may want to render, play or forward.
type EventType string

const (
	EventTypeSpeech          EventType = "pet.speech"
	EventTypeMoodChanged     EventType = "pet.mood_changed"
	EventTypeAnimation       EventType = "pet.animation"
	EventTypeSound           EventType = "pet.sound"
	EventTypeItemDropped     EventType = "item.dropped"
	EventTypeItemConsumed    EventType = "item.consumed"
	EventTypeWaypointReached EventType = "patrol.waypoint_reached"
	EventTypeTranslation     EventType = "speech.translation"
)

// Event is queued by the pet and drained by the host once per frame.
// At is the pet clock, not wall time.
type Event struct {
	ID   uuid.UUID              `json:"id"`
	Type EventType              `json:"type"`
	At   time.Duration          `json:"at"`
	Data map[string]interface{} `json:"data,omitempty"`
}

func (p *Pet) emit(eventType EventType, data map[string]interface{}) {
	p.events = append(p.events, Event{
		ID:   uuid.New(),
		Type: eventType,
		At:   p.sched.Now(),
		Data: data,
	})
}

// DrainEvents returns the queued events and clears the queue.
func (p *Pet) DrainEvents() []Event {
	events := p.events
	p.events = nil
	return events
}

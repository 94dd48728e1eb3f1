package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event is one timestamped hardware event, e.g. a touch or an
// expression change.
type Event struct {
	ID        string         `json:"id"`
	Module    string         `json:"module"`
	Type      string         `json:"event"`
	Data      map[string]any `json:"data"`
	Timestamp time.Time      `json:"timestamp"`
}

// newEvent builds an Event with a fresh ID and the current time.
func newEvent(module, eventType string, data map[string]any) Event {
	if data == nil {
		data = map[string]any{}
	}
	return Event{
		ID:        uuid.NewString(),
		Module:    module,
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
}

// Ring is a bounded in-memory event log. When full, the oldest events
// are discarded. All methods are safe for concurrent use.
type Ring struct {
	mu     sync.Mutex
	events []Event
	limit  int
}

// NewRing creates a ring holding at most limit events.
func NewRing(limit int) *Ring {
	if limit <= 0 {
		limit = 100
	}
	return &Ring{limit: limit}
}

// Append adds an event, discarding the oldest if the ring is full.
func (r *Ring) Append(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, e)
	if len(r.events) > r.limit {
		r.events = r.events[len(r.events)-r.limit:]
	}
}

// Drain returns the pending events in arrival order. Unless peek is
// set, the ring is cleared.
func (r *Ring) Drain(peek bool) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Event, len(r.events))
	copy(out, r.events)
	if !peek {
		r.events = r.events[:0]
	}
	return out
}

// Len returns the number of pending events.
func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

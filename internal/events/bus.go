package events

import (
	"context"
	"sync"
	"time"
)

// Logger defines the logging interface used by the event system.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Publisher fans events out to MQTT. Satisfied by *mqtt.Client.
type Publisher interface {
	PublishEvent(module, eventType string, payload any) error
}

// Recorder counts events in the telemetry backend. Satisfied by
// *influxdb.Client.
type Recorder interface {
	WriteEventMetric(module, eventType string)
}

// Repository persists events across daemon restarts.
type Repository interface {
	Save(ctx context.Context, e Event) error
}

// Reactor is the instant physical reaction to a touch: it runs before
// the controlling agent even knows. Wired by the daemon to set a
// surprised face and an acknowledgement on the LCD.
type Reactor func(e Event)

// Bus receives events from hardware modules and fans them out: the
// in-memory ring (served by the events verb), the optional SQLite
// repository, the optional MQTT and InfluxDB sinks, and for touch
// events the reflex reaction plus the agent notifier.
//
// Bus satisfies the engine's event sink contract. Emit never blocks on
// a slow sink: persistence, fan-out and the reflex all run off the
// caller's goroutine.
type Bus struct {
	ring   *Ring
	logger Logger

	publisher Publisher
	recorder  Recorder
	repo      Repository
	reactor   Reactor
	notifier  *Notifier

	cooldown   time.Duration
	lastNotify time.Time
	notifyMu   sync.Mutex
}

// NewBus creates an event bus with the given ring capacity.
func NewBus(historySize int, cooldown time.Duration, logger Logger) *Bus {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Bus{
		ring:     NewRing(historySize),
		cooldown: cooldown,
		logger:   logger,
	}
}

// SetPublisher attaches the MQTT fan-out sink.
func (b *Bus) SetPublisher(p Publisher) { b.publisher = p }

// SetRecorder attaches the telemetry sink.
func (b *Bus) SetRecorder(r Recorder) { b.recorder = r }

// SetRepository attaches the persistent event store.
func (b *Bus) SetRepository(r Repository) { b.repo = r }

// SetReactor attaches the instant touch reaction.
func (b *Bus) SetReactor(r Reactor) { b.reactor = r }

// SetNotifier attaches the external agent notifier.
func (b *Bus) SetNotifier(n *Notifier) { b.notifier = n }

// Emit records one hardware event and dispatches it to every attached
// sink. Called by hardware modules via their injected event sink.
func (b *Bus) Emit(module, eventType string, data map[string]any) {
	e := newEvent(module, eventType, data)

	b.ring.Append(e)
	b.logger.Info("hardware event", "module", module, "event", eventType, "data", data)

	if b.repo != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := b.repo.Save(ctx, e); err != nil {
				b.logger.Warn("event persist failed", "event", e.ID, "error", err)
			}
		}()
	}

	if b.publisher != nil {
		go func() {
			if err := b.publisher.PublishEvent(module, eventType, e); err != nil {
				b.logger.Warn("event publish failed", "event", e.ID, "error", err)
			}
		}()
	}

	if b.recorder != nil {
		b.recorder.WriteEventMetric(module, eventType)
	}

	if eventType == "touched" {
		b.handleTouch(e)
	}
}

// handleTouch runs the reflex reaction and notifies the external agent,
// both gated by the shared cooldown so a burst of touches produces one
// reaction.
func (b *Bus) handleTouch(e Event) {
	b.notifyMu.Lock()
	now := time.Now()
	if now.Sub(b.lastNotify) < b.cooldown {
		b.notifyMu.Unlock()
		b.logger.Debug("touch ignored, within cooldown", "cooldown", b.cooldown)
		return
	}
	b.lastNotify = now
	b.notifyMu.Unlock()

	if b.reactor != nil {
		go b.reactor(e)
	}
	if b.notifier != nil {
		go b.notifier.Dispatch(e)
	}
}

// Drain returns pending events in arrival order, clearing them unless
// peek is set.
func (b *Bus) Drain(peek bool) []Event {
	return b.ring.Drain(peek)
}

// Pending returns the number of events waiting in the ring.
func (b *Bus) Pending() int {
	return b.ring.Len()
}

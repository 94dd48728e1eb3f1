package touch

import (
	"sync"
	"time"

	"github.com/dannybabbev/totem/internal/module"
)

const (
	// Debounce bounds, matching what the sensor hardware can do.
	minDebounceMS = 50
	maxDebounceMS = 2000
)

// Touch is the capacitive touch sensor module.
type Touch struct {
	sensor Sensor
	pin    int

	sink module.EventSink

	mu          sync.Mutex
	touched     bool
	count       int
	debounceMS  int
	lastTouch   time.Time
	lastRelease time.Time
}

// New creates the touch module.
//
// Parameters:
//   - sensor: Edge source. nil selects a Headless sensor.
//   - pin: GPIO pin number, reported in state and events.
//   - debounceMS: Initial debounce interval in milliseconds.
func New(sensor Sensor, pin, debounceMS int) *Touch {
	if sensor == nil {
		sensor = NewHeadless()
	}
	if debounceMS <= 0 {
		debounceMS = 200
	}
	return &Touch{
		sensor:     sensor,
		pin:        pin,
		debounceMS: clamp(debounceMS, minDebounceMS, maxDebounceMS),
	}
}

// Name implements module.Module.
func (t *Touch) Name() string { return "touch" }

// Description implements module.Module.
func (t *Touch) Description() string {
	return "Capacitive touch sensor (active high) with touch/release events"
}

// SetEventSink implements module.EventEmitter.
func (t *Touch) SetEventSink(sink module.EventSink) { t.sink = sink }

// Init arms the sensor and registers the edge callback.
func (t *Touch) Init() error {
	if err := t.sensor.SetDebounce(time.Duration(t.debounceMS) * time.Millisecond); err != nil {
		return err
	}
	return t.sensor.Watch(t.onEdge)
}

// Cleanup releases the pin.
func (t *Touch) Cleanup() {
	t.sensor.Close() //nolint:errcheck // best effort at shutdown
}

// State implements module.Module.
func (t *Touch) State() map[string]any {
	t.mu.Lock()
	defer t.mu.Unlock()

	var lastTouch, lastRelease any
	if !t.lastTouch.IsZero() {
		lastTouch = t.lastTouch.UTC().Format(time.RFC3339Nano)
	}
	if !t.lastRelease.IsZero() {
		lastRelease = t.lastRelease.UTC().Format(time.RFC3339Nano)
	}
	return map[string]any{
		"is_touched":        t.touched,
		"touch_count":       t.count,
		"last_touch_time":   lastTouch,
		"last_release_time": lastRelease,
		"pin":               t.pin,
		"debounce_ms":       t.debounceMS,
	}
}

// Capabilities implements module.Module.
func (t *Touch) Capabilities() []module.Capability {
	return []module.Capability{
		{
			Action:      "read",
			Description: "Read current touch sensor state",
		},
		{
			Action:      "config",
			Description: "Configure touch sensor settings",
			Params: map[string]module.ParamSpec{
				"debounce_ms": {
					Type:    "int",
					Default: 200,
					Min:     fptr(minDebounceMS),
					Max:     fptr(maxDebounceMS),
				},
			},
		},
		{
			Action:      "reset",
			Description: "Reset the touch counter to zero",
		},
	}
}

// HandleCommand implements module.Module.
func (t *Touch) HandleCommand(action string, params module.Params) module.Response {
	switch action {
	case "read":
		return module.OK(t.State())
	case "config":
		return t.cmdConfig(params)
	case "reset":
		return t.cmdReset()
	default:
		return module.Errf("unknown touch action: %s", action)
	}
}

func (t *Touch) cmdConfig(params module.Params) module.Response {
	if params.Has("debounce_ms") {
		debounce, err := params.RequireInt("debounce_ms")
		if err != nil {
			return module.Errf("%v", err)
		}
		debounce = clamp(debounce, minDebounceMS, maxDebounceMS)

		if err := t.sensor.SetDebounce(time.Duration(debounce) * time.Millisecond); err != nil {
			return module.Errf("config failed: %v", err)
		}
		t.mu.Lock()
		t.debounceMS = debounce
		t.mu.Unlock()
	}

	t.mu.Lock()
	debounceMS := t.debounceMS
	t.mu.Unlock()
	return module.OK(map[string]any{"debounce_ms": debounceMS})
}

func (t *Touch) cmdReset() module.Response {
	t.mu.Lock()
	t.count = 0
	t.mu.Unlock()
	return module.OK(map[string]any{"touch_count": 0})
}

// onEdge runs on the sensor's interrupt path. It resolves the edge
// against the tracked state so a repeated edge in the same direction is
// ignored, then emits the matching event.
func (t *Touch) onEdge(pressed bool) {
	now := time.Now()

	t.mu.Lock()
	switch {
	case pressed && !t.touched:
		t.touched = true
		t.count++
		t.lastTouch = now
		count := t.count
		t.mu.Unlock()

		t.emit("touched", map[string]any{
			"pin":         t.pin,
			"touch_count": count,
			"timestamp":   now.UTC().Format(time.RFC3339Nano),
		})

	case !pressed && t.touched:
		t.touched = false
		t.lastRelease = now
		count := t.count
		var durationMS any
		if !t.lastTouch.IsZero() {
			durationMS = int(now.Sub(t.lastTouch) / time.Millisecond)
		}
		t.mu.Unlock()

		t.emit("released", map[string]any{
			"pin":         t.pin,
			"touch_count": count,
			"duration_ms": durationMS,
			"timestamp":   now.UTC().Format(time.RFC3339Nano),
		})

	default:
		t.mu.Unlock()
	}
}

func (t *Touch) emit(eventType string, data map[string]any) {
	if t.sink != nil {
		t.sink.Emit("touch", eventType, data)
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func fptr(v float64) *float64 { return &v }

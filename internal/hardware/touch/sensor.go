package touch

import (
	"sync"
	"time"
)

// Sensor is the edge-detecting input behind the touch module.
type Sensor interface {
	// Watch registers the edge callback. It is invoked with true on a
	// rising edge (finger down) and false on a falling edge.
	Watch(fn func(pressed bool)) error

	// SetDebounce adjusts the edge-detection debounce interval.
	SetDebounce(d time.Duration) error

	// Close releases the input pin.
	Close() error
}

// Headless is an in-memory Sensor driven by test code.
type Headless struct {
	mu       sync.Mutex
	fn       func(pressed bool)
	debounce time.Duration
	closed   bool
}

// NewHeadless creates an idle in-memory sensor.
func NewHeadless() *Headless {
	return &Headless{}
}

// Watch implements Sensor.
func (h *Headless) Watch(fn func(pressed bool)) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.fn = fn
	return nil
}

// SetDebounce implements Sensor.
func (h *Headless) SetDebounce(d time.Duration) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.debounce = d
	return nil
}

// Close implements Sensor.
func (h *Headless) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	return nil
}

// Press fires a rising edge.
func (h *Headless) Press() { h.edge(true) }

// Release fires a falling edge.
func (h *Headless) Release() { h.edge(false) }

func (h *Headless) edge(pressed bool) {
	h.mu.Lock()
	fn := h.fn
	closed := h.closed
	h.mu.Unlock()
	if fn != nil && !closed {
		fn(pressed)
	}
}

// Debounce returns the configured debounce interval.
func (h *Headless) Debounce() time.Duration {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.debounce
}

// Closed reports whether Close was called.
func (h *Headless) Closed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}

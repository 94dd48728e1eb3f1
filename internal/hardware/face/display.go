package face

import "sync"

// Frame is one full 8x8 bitmap, indexed [row][col]. A value of 0 is a
// dark pixel, anything else is lit.
type Frame [8][8]uint8

// Display renders whole frames on an 8x8 LED matrix.
//
// Implementations must tolerate being called from the animation
// goroutine as well as the command path; the module never issues
// concurrent calls.
type Display interface {
	// Render pushes one complete frame to the panel.
	Render(f Frame) error

	// SetBrightness sets the panel intensity (0-255).
	SetBrightness(level int) error
}

// Headless is an in-memory Display for development hosts and tests. It
// records the last rendered frame, the brightness and the render count.
type Headless struct {
	mu         sync.Mutex
	frame      Frame
	brightness int
	renders    int
}

// NewHeadless creates a Headless display with a dark panel.
func NewHeadless() *Headless {
	return &Headless{brightness: 128}
}

// Render stores the frame as the current panel contents.
func (h *Headless) Render(f Frame) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.frame = f
	h.renders++
	return nil
}

// SetBrightness stores the panel intensity.
func (h *Headless) SetBrightness(level int) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.brightness = level
	return nil
}

// Frame returns the last rendered frame.
func (h *Headless) Frame() Frame {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.frame
}

// Brightness returns the last set intensity.
func (h *Headless) Brightness() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.brightness
}

// Renders returns how many frames have been pushed.
func (h *Headless) Renders() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.renders
}

package face

import (
	"strings"
	"sync"
	"time"

	"github.com/dannybabbev/totem/internal/module"
)

// nopLogger discards all log output.
type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// Face is the LED-matrix face module.
//
// The command path is serialised by the registry's per-module lock and
// every inbound command pre-empts the running animation first, so the
// pixel buffer is only ever mutated by one goroutine at a time. The
// internal mutex exists for State snapshots taken while an animation is
// rendering.
type Face struct {
	display Display
	logger  module.Logger

	animator *module.Animator
	sink     module.EventSink

	mu         sync.Mutex
	buffer     Frame
	expression string
	animation  string
	brightness int
}

// New creates the face module on the given display.
//
// Parameters:
//   - display: Rendering backend. nil selects a Headless display.
//   - brightness: Initial panel intensity (0-255).
//   - logger: Optional logger, nil for silent operation.
func New(display Display, brightness int, logger module.Logger) *Face {
	if display == nil {
		display = NewHeadless()
	}
	if logger == nil {
		logger = nopLogger{}
	}
	return &Face{
		display:    display,
		logger:     logger,
		brightness: brightness,
	}
}

// Name implements module.Module.
func (f *Face) Name() string { return "face" }

// Description implements module.Module.
func (f *Face) Description() string {
	return "8x8 LED matrix face with expressions, drawing, and animations"
}

// SetAnimator implements module.Animated.
func (f *Face) SetAnimator(a *module.Animator) { f.animator = a }

// SetEventSink implements module.EventEmitter.
func (f *Face) SetEventSink(sink module.EventSink) { f.sink = sink }

// Init clears the panel and applies the initial brightness. A failing
// display backend fails initialisation so the registry can exclude the
// module.
func (f *Face) Init() error {
	if err := f.display.SetBrightness(f.brightness); err != nil {
		return err
	}
	return f.display.Render(Frame{})
}

// Cleanup blanks the panel. Render errors are ignored at shutdown.
func (f *Face) Cleanup() {
	f.display.Render(Frame{}) //nolint:errcheck // best effort at shutdown
}

// State implements module.Module.
func (f *Face) State() map[string]any {
	var running bool
	if f.animator != nil {
		_, running = f.animator.Running()
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	var expression any
	if f.expression != "" {
		expression = f.expression
	}
	var animation any
	if running && f.animation != "" {
		animation = f.animation
	}
	return map[string]any{
		"current_expression": expression,
		"current_animation":  animation,
		"brightness":         f.brightness,
		"animation_running":  running,
	}
}

// HandleCommand implements module.Module.
func (f *Face) HandleCommand(action string, params module.Params) module.Response {
	switch action {
	case "expression":
		return f.cmdExpression(params)
	case "animate":
		return f.cmdAnimate(params)
	case "stop":
		return f.cmdStop(params)
	case "blink":
		return f.cmdBlink(params)
	case "custom":
		return f.cmdCustom(params)
	case "pixel":
		return f.cmdPixel(params)
	case "line":
		return f.cmdLine(params)
	case "rect":
		return f.cmdRect(params)
	case "ellipse":
		return f.cmdEllipse(params)
	case "text":
		return f.cmdText(params)
	case "clear":
		return f.cmdClear(params)
	case "invert":
		return f.cmdInvert(params)
	case "brightness":
		return f.cmdBrightness(params)
	case "flush":
		return f.cmdFlush(params)
	case "sequence":
		return f.cmdSequence(params)
	default:
		return module.Errf("unknown face action: %s", action)
	}
}

// --- High-level commands ---

func (f *Face) cmdExpression(params module.Params) module.Response {
	name := strings.ToLower(params.String("name", ""))
	frame, ok := Expression(name)
	if !ok {
		return module.Errf("unknown expression '%s'. Available: %s",
			name, strings.Join(Expressions(), ", "))
	}
	if err := f.render(frame); err != nil {
		return module.Errf("render failed: %v", err)
	}

	f.mu.Lock()
	f.expression = name
	f.animation = ""
	f.mu.Unlock()

	f.emit("expression_changed", map[string]any{"expression": name})
	return module.OK(map[string]any{"expression": name})
}

func (f *Face) cmdAnimate(params module.Params) module.Response {
	if f.animator == nil {
		return module.Errf("face: animator not initialised")
	}
	name := strings.ToLower(params.String("name", ""))
	duration := params.Float("duration", 0)
	limit := time.Duration(duration * float64(time.Second))

	builders := map[string]func(time.Duration) module.AnimationFunc{
		"thinking":   f.animThinking,
		"speaking":   f.animSpeaking,
		"listening":  f.animListening,
		"sleeping":   f.animSleeping,
		"idle_blink": f.animIdleBlink,
	}
	builder, ok := builders[name]
	if !ok {
		return module.Errf("unknown animation '%s'. Available: %s",
			name, strings.Join(animationNames, ", "))
	}

	if err := f.animator.Start(name, builder(limit)); err != nil {
		return module.Errf("%v", err)
	}

	f.mu.Lock()
	f.animation = name
	f.expression = ""
	f.mu.Unlock()

	return module.OK(map[string]any{"animation": name, "duration": duration})
}

func (f *Face) cmdStop(_ module.Params) module.Response {
	f.mu.Lock()
	was := f.animation
	f.animation = ""
	f.mu.Unlock()

	if f.animator != nil {
		f.animator.Stop() //nolint:errcheck // already pre-empted on dispatch
	}

	var stopped any
	if was != "" {
		stopped = was
	}
	return module.OK(map[string]any{"stopped": stopped})
}

func (f *Face) cmdBlink(params module.Params) module.Response {
	durationMS := params.Int("duration_ms", 150)

	f.mu.Lock()
	saved := f.buffer
	f.mu.Unlock()

	if err := f.render(Blink); err != nil {
		return module.Errf("render failed: %v", err)
	}
	time.Sleep(time.Duration(durationMS) * time.Millisecond)
	if err := f.render(saved); err != nil {
		return module.Errf("render failed: %v", err)
	}
	return module.OK(nil)
}

// --- Low-level drawing commands ---

func (f *Face) cmdCustom(params module.Params) module.Response {
	frame, err := parseGrid(params.List("grid"))
	if err != nil {
		return module.Errf("%v", err)
	}
	if err := f.render(frame); err != nil {
		return module.Errf("render failed: %v", err)
	}

	f.mu.Lock()
	f.expression = "custom"
	f.animation = ""
	f.mu.Unlock()
	return module.OK(nil)
}

func (f *Face) cmdPixel(params module.Params) module.Response {
	x := params.Int("x", 0)
	y := params.Int("y", 0)
	if x < 0 || x > 7 || y < 0 || y > 7 {
		return module.Errf("%v: %d,%d", ErrOutOfRange, x, y)
	}
	on := params.Int("on", 1)
	if err := f.apply(params.Bool("flush", true), func(fr *Frame) {
		fr.Set(x, y, on != 0)
	}); err != nil {
		return module.Errf("render failed: %v", err)
	}
	return module.OK(map[string]any{"x": x, "y": y, "on": on})
}

func (f *Face) cmdLine(params module.Params) module.Response {
	box, err := boxParams(params)
	if err != nil {
		return module.Errf("%v", err)
	}
	if err := f.apply(params.Bool("flush", true), func(fr *Frame) {
		fr.Line(box[0], box[1], box[2], box[3])
	}); err != nil {
		return module.Errf("render failed: %v", err)
	}
	return module.OK(nil)
}

func (f *Face) cmdRect(params module.Params) module.Response {
	box, err := boxParams(params)
	if err != nil {
		return module.Errf("%v", err)
	}
	fill := params.Bool("fill", false)
	if err := f.apply(params.Bool("flush", true), func(fr *Frame) {
		fr.Rect(box[0], box[1], box[2], box[3], fill)
	}); err != nil {
		return module.Errf("render failed: %v", err)
	}
	return module.OK(nil)
}

func (f *Face) cmdEllipse(params module.Params) module.Response {
	box, err := boxParams(params)
	if err != nil {
		return module.Errf("%v", err)
	}
	fill := params.Bool("fill", false)
	if err := f.apply(params.Bool("flush", true), func(fr *Frame) {
		fr.Ellipse(box[0], box[1], box[2], box[3], fill)
	}); err != nil {
		return module.Errf("render failed: %v", err)
	}
	return module.OK(nil)
}

func (f *Face) cmdText(params module.Params) module.Response {
	char, err := params.RequireString("char")
	if err != nil {
		return module.Errf("%v", err)
	}
	x := params.Int("x", 0)
	y := params.Int("y", 0)
	if err := f.apply(params.Bool("flush", true), func(fr *Frame) {
		for _, r := range char {
			fr.Glyph(x, y, r)
			break
		}
	}); err != nil {
		return module.Errf("render failed: %v", err)
	}
	return module.OK(nil)
}

func (f *Face) cmdClear(params module.Params) module.Response {
	if err := f.apply(params.Bool("flush", true), func(fr *Frame) {
		fr.Clear()
	}); err != nil {
		return module.Errf("render failed: %v", err)
	}

	f.mu.Lock()
	f.expression = ""
	f.mu.Unlock()
	return module.OK(nil)
}

func (f *Face) cmdInvert(params module.Params) module.Response {
	if err := f.apply(params.Bool("flush", true), func(fr *Frame) {
		fr.Invert()
	}); err != nil {
		return module.Errf("render failed: %v", err)
	}
	return module.OK(nil)
}

func (f *Face) cmdBrightness(params module.Params) module.Response {
	value, err := params.RequireInt("value")
	if err != nil {
		return module.Errf("%v", err)
	}
	value = clamp(value, 0, 255)
	if err := f.display.SetBrightness(value); err != nil {
		return module.Errf("brightness failed: %v", err)
	}

	f.mu.Lock()
	f.brightness = value
	f.mu.Unlock()
	return module.OK(map[string]any{"brightness": value})
}

func (f *Face) cmdFlush(_ module.Params) module.Response {
	f.mu.Lock()
	frame := f.buffer
	f.mu.Unlock()
	if err := f.display.Render(frame); err != nil {
		return module.Errf("render failed: %v", err)
	}
	return module.OK(nil)
}

func (f *Face) cmdSequence(params module.Params) module.Response {
	if f.animator == nil {
		return module.Errf("face: animator not initialised")
	}
	raw := params.List("frames")
	if len(raw) == 0 {
		return module.Errf("%v", ErrNoFrames)
	}
	frames := make([]seqFrame, 0, len(raw))
	for _, entry := range raw {
		obj, ok := entry.(map[string]any)
		if !ok {
			return module.Errf("frame must be an object with grid and ms")
		}
		p := module.Params(obj)
		frame, err := parseGrid(p.List("grid"))
		if err != nil {
			return module.Errf("%v", err)
		}
		ms := p.Int("ms", 200)
		frames = append(frames, seqFrame{
			frame: frame,
			delay: time.Duration(ms) * time.Millisecond,
		})
	}
	loop := params.Bool("loop", false)

	if err := f.animator.Start("sequence", f.animSequence(frames, loop)); err != nil {
		return module.Errf("%v", err)
	}

	f.mu.Lock()
	f.animation = "sequence"
	f.expression = ""
	f.mu.Unlock()

	return module.OK(map[string]any{"frames": len(frames), "loop": loop})
}

// --- Internal helpers ---

// render replaces the buffer with a whole frame and pushes it out.
func (f *Face) render(frame Frame) error {
	f.mu.Lock()
	f.buffer = frame
	f.mu.Unlock()
	return f.display.Render(frame)
}

// apply mutates the buffer in place and optionally flushes it.
func (f *Face) apply(flush bool, mutate func(*Frame)) error {
	f.mu.Lock()
	mutate(&f.buffer)
	frame := f.buffer
	f.mu.Unlock()
	if !flush {
		return nil
	}
	return f.display.Render(frame)
}

func (f *Face) emit(eventType string, data map[string]any) {
	if f.sink != nil {
		f.sink.Emit("face", eventType, data)
	}
}

func boxParams(params module.Params) ([4]int, error) {
	var box [4]int
	for i, key := range [4]string{"x1", "y1", "x2", "y2"} {
		v, err := params.RequireInt(key)
		if err != nil {
			return box, err
		}
		box[i] = v
	}
	return box, nil
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

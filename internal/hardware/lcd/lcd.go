package lcd

import (
	"context"
	"sort"
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

// LCD is the character display module.
type LCD struct {
	device CharDevice
	cols   int
	rows   int
	logger module.Logger

	animator *module.Animator

	mu          sync.Mutex
	line1       string
	line2       string
	backlight   bool
	displayOn   bool
	cursorMode  string
	customChars map[int][8]byte
}

// New creates the LCD module on the given device.
//
// Parameters:
//   - device: Bus driver. nil selects a Headless device.
//   - cols, rows: Panel geometry, 16x2 for the stock display.
//   - logger: Optional logger, nil for silent operation.
func New(device CharDevice, cols, rows int, logger module.Logger) *LCD {
	if cols <= 0 {
		cols = 16
	}
	if rows <= 0 {
		rows = 2
	}
	if device == nil {
		device = NewHeadless(cols, rows)
	}
	if logger == nil {
		logger = nopLogger{}
	}
	return &LCD{
		device:      device,
		cols:        cols,
		rows:        rows,
		logger:      logger,
		backlight:   true,
		displayOn:   true,
		cursorMode:  "hide",
		customChars: make(map[int][8]byte),
	}
}

// Name implements module.Module.
func (l *LCD) Name() string { return "lcd" }

// Description implements module.Module.
func (l *LCD) Description() string {
	return "16x2 character LCD with custom chars and full cursor control"
}

// SetAnimator implements module.Animated.
func (l *LCD) SetAnimator(a *module.Animator) { l.animator = a }

// Init clears the panel, which doubles as a bus probe: a device that
// cannot be reached fails initialisation.
func (l *LCD) Init() error {
	return l.device.Clear()
}

// Cleanup blanks the panel and drops the backlight.
func (l *LCD) Cleanup() {
	l.device.Clear()             //nolint:errcheck // best effort at shutdown
	l.device.SetBacklight(false) //nolint:errcheck // best effort at shutdown
}

// State implements module.Module.
func (l *LCD) State() map[string]any {
	var scrolling bool
	if l.animator != nil {
		_, scrolling = l.animator.Running()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	slots := make([]int, 0, len(l.customChars))
	for slot := range l.customChars {
		slots = append(slots, slot)
	}
	sort.Ints(slots)

	return map[string]any{
		"line1":        l.line1,
		"line2":        l.line2,
		"backlight":    l.backlight,
		"display_on":   l.displayOn,
		"cursor_mode":  l.cursorMode,
		"custom_chars": slots,
		"scrolling":    scrolling,
	}
}

// HandleCommand implements module.Module.
func (l *LCD) HandleCommand(action string, params module.Params) module.Response {
	switch action {
	case "write":
		return l.cmdWrite(params)
	case "scroll":
		return l.cmdScroll(params)
	case "progress":
		return l.cmdProgress(params)
	case "write_at":
		return l.cmdWriteAt(params)
	case "clear":
		return l.cmdClear(params)
	case "home":
		return l.cmdHome(params)
	case "cursor":
		return l.cmdCursor(params)
	case "cursor_mode":
		return l.cmdCursorMode(params)
	case "display":
		return l.cmdDisplay(params)
	case "backlight":
		return l.cmdBacklight(params)
	case "shift":
		return l.cmdShift(params)
	case "create_char":
		return l.cmdCreateChar(params)
	case "write_char":
		return l.cmdWriteChar(params)
	case "raw_command":
		return l.cmdRawCommand(params)
	case "raw_write":
		return l.cmdRawWrite(params)
	case "stop_scroll":
		return l.cmdStopScroll(params)
	default:
		return module.Errf("unknown lcd action: %s", action)
	}
}

// --- High-level commands ---

func (l *LCD) cmdWrite(params module.Params) module.Response {
	line1, err := params.RequireString("line1")
	if err != nil {
		return module.Errf("%v", err)
	}
	line2 := params.String("line2", "")
	align := strings.ToLower(params.String("align", "left"))

	line1 = l.alignText(line1, align)
	hasLine2 := line2 != ""
	line2 = l.alignText(line2, align)

	if err := l.device.Clear(); err != nil {
		return module.Errf("write failed: %v", err)
	}
	if err := l.device.WriteString(line1); err != nil {
		return module.Errf("write failed: %v", err)
	}
	if hasLine2 {
		if err := l.device.SetCursor(1, 0); err != nil {
			return module.Errf("write failed: %v", err)
		}
		if err := l.device.WriteString(line2); err != nil {
			return module.Errf("write failed: %v", err)
		}
	}

	l.mu.Lock()
	l.line1 = line1
	if hasLine2 {
		l.line2 = line2
	} else {
		l.line2 = ""
	}
	line1Out, line2Out := l.line1, l.line2
	l.mu.Unlock()

	return module.OK(map[string]any{"line1": line1Out, "line2": line2Out})
}

func (l *LCD) cmdScroll(params module.Params) module.Response {
	if l.animator == nil {
		return module.Errf("lcd: animator not initialised")
	}
	text, err := params.RequireString("text")
	if err != nil {
		return module.Errf("%v", err)
	}
	row := params.Int("row", 0)
	if row < 0 || row >= l.rows {
		return module.Errf("%v: row %d", ErrBadPosition, row)
	}
	delay := time.Duration(params.Float("delay", 0.3) * float64(time.Second))
	if delay <= 0 {
		delay = 10 * time.Millisecond
	}

	if err := l.animator.Start("scroll", l.scrollTask(text, row, delay)); err != nil {
		return module.Errf("%v", err)
	}
	return module.OK(map[string]any{"scrolling": text, "row": row})
}

func (l *LCD) cmdProgress(params module.Params) module.Response {
	percentage, err := params.RequireInt("percentage")
	if err != nil {
		return module.Errf("%v", err)
	}
	percentage = clamp(percentage, 0, 100)
	label := params.String("label", "")

	// Bar between brackets, e.g. [#######-------]
	barWidth := l.cols - 2
	filled := barWidth * percentage / 100
	bar := "[" + strings.Repeat("#", filled) + strings.Repeat("-", barWidth-filled) + "]"

	if err := l.device.Clear(); err != nil {
		return module.Errf("progress failed: %v", err)
	}
	if label != "" {
		if err := l.device.WriteString(l.alignText(label, "center")); err != nil {
			return module.Errf("progress failed: %v", err)
		}
	}
	if err := l.device.SetCursor(1, 0); err != nil {
		return module.Errf("progress failed: %v", err)
	}
	if err := l.device.WriteString(bar); err != nil {
		return module.Errf("progress failed: %v", err)
	}

	l.mu.Lock()
	l.line1 = truncate(label, l.cols)
	l.line2 = bar
	l.mu.Unlock()

	return module.OK(map[string]any{"percentage": percentage, "bar": bar})
}

// --- Low-level commands ---

func (l *LCD) cmdWriteAt(params module.Params) module.Response {
	row, col, resp := l.positionParams(params)
	if resp != nil {
		return *resp
	}
	text, err := params.RequireString("text")
	if err != nil {
		return module.Errf("%v", err)
	}
	if err := l.device.SetCursor(row, col); err != nil {
		return module.Errf("write_at failed: %v", err)
	}
	if err := l.device.WriteString(text); err != nil {
		return module.Errf("write_at failed: %v", err)
	}
	return module.OK(map[string]any{"row": row, "col": col, "text": text})
}

func (l *LCD) cmdClear(_ module.Params) module.Response {
	if err := l.device.Clear(); err != nil {
		return module.Errf("clear failed: %v", err)
	}
	l.mu.Lock()
	l.line1 = ""
	l.line2 = ""
	l.mu.Unlock()
	return module.OK(nil)
}

func (l *LCD) cmdHome(_ module.Params) module.Response {
	if err := l.device.Home(); err != nil {
		return module.Errf("home failed: %v", err)
	}
	return module.OK(nil)
}

func (l *LCD) cmdCursor(params module.Params) module.Response {
	row, col, resp := l.positionParams(params)
	if resp != nil {
		return *resp
	}
	if err := l.device.SetCursor(row, col); err != nil {
		return module.Errf("cursor failed: %v", err)
	}
	return module.OK(map[string]any{"row": row, "col": col})
}

func (l *LCD) cmdCursorMode(params module.Params) module.Response {
	mode := strings.ToLower(params.String("mode", "hide"))
	if mode != "hide" && mode != "line" && mode != "blink" {
		return module.Errf("%v: '%s'. Use: hide, line, blink", ErrBadCursorMode, mode)
	}
	if err := l.device.SetCursorMode(mode); err != nil {
		return module.Errf("cursor_mode failed: %v", err)
	}
	l.mu.Lock()
	l.cursorMode = mode
	l.mu.Unlock()
	return module.OK(map[string]any{"cursor_mode": mode})
}

func (l *LCD) cmdDisplay(params module.Params) module.Response {
	on := parseBool(params["on"], true)
	if err := l.device.SetDisplay(on); err != nil {
		return module.Errf("display failed: %v", err)
	}
	l.mu.Lock()
	l.displayOn = on
	l.mu.Unlock()
	return module.OK(map[string]any{"display_on": on})
}

func (l *LCD) cmdBacklight(params module.Params) module.Response {
	on := parseBool(params["on"], true)
	if err := l.device.SetBacklight(on); err != nil {
		return module.Errf("backlight failed: %v", err)
	}
	l.mu.Lock()
	l.backlight = on
	l.mu.Unlock()
	return module.OK(map[string]any{"backlight": on})
}

func (l *LCD) cmdShift(params module.Params) module.Response {
	amount, err := params.RequireInt("amount")
	if err != nil {
		return module.Errf("%v", err)
	}
	if err := l.device.ShiftDisplay(amount); err != nil {
		return module.Errf("shift failed: %v", err)
	}
	return module.OK(map[string]any{"shifted": amount})
}

func (l *LCD) cmdCreateChar(params module.Params) module.Response {
	slot, err := params.RequireInt("slot")
	if err != nil {
		return module.Errf("%v", err)
	}
	if slot < 0 || slot > 7 {
		return module.Errf("%v", ErrBadSlot)
	}
	raw := params.List("bitmap")
	if len(raw) != 8 {
		return module.Errf("%v", ErrBadBitmap)
	}
	var bitmap [8]byte
	rows := make([]any, 0, 8)
	for i, v := range raw {
		n, ok := v.(float64)
		if !ok || n != float64(int(n)) || n < 0 || n > 31 {
			return module.Errf("%v", ErrBadBitmap)
		}
		bitmap[i] = byte(n)
		rows = append(rows, int(n))
	}

	if err := l.device.CreateChar(slot, bitmap); err != nil {
		return module.Errf("create_char failed: %v", err)
	}
	l.mu.Lock()
	l.customChars[slot] = bitmap
	l.mu.Unlock()

	return module.OK(map[string]any{"slot": slot, "bitmap": rows})
}

func (l *LCD) cmdWriteChar(params module.Params) module.Response {
	slot, err := params.RequireInt("slot")
	if err != nil {
		return module.Errf("%v", err)
	}
	if slot < 0 || slot > 7 {
		return module.Errf("%v", ErrBadSlot)
	}
	if err := l.device.WriteString(string(rune(slot))); err != nil {
		return module.Errf("write_char failed: %v", err)
	}
	return module.OK(map[string]any{"slot": slot})
}

func (l *LCD) cmdRawCommand(params module.Params) module.Response {
	value, err := params.RequireInt("value")
	if err != nil {
		return module.Errf("%v", err)
	}
	if value < 0 || value > 255 {
		return module.Errf("value must be a byte (0-255)")
	}
	if err := l.device.Command(byte(value)); err != nil {
		return module.Errf("raw_command failed: %v", err)
	}
	return module.OK(map[string]any{"command": value})
}

func (l *LCD) cmdRawWrite(params module.Params) module.Response {
	value, err := params.RequireInt("value")
	if err != nil {
		return module.Errf("%v", err)
	}
	if value < 0 || value > 255 {
		return module.Errf("value must be a byte (0-255)")
	}
	if err := l.device.WriteByte(byte(value)); err != nil {
		return module.Errf("raw_write failed: %v", err)
	}
	return module.OK(map[string]any{"wrote": value})
}

func (l *LCD) cmdStopScroll(_ module.Params) module.Response {
	if l.animator != nil {
		l.animator.Stop() //nolint:errcheck // already pre-empted on dispatch
	}
	return module.OK(nil)
}

// --- Internal helpers ---

// scrollTask slides text across one row, one cell per step. The text is
// padded with a full blank window on both sides so it enters from the
// right and leaves to the left.
func (l *LCD) scrollTask(text string, row int, delay time.Duration) module.AnimationFunc {
	pad := strings.Repeat(" ", l.cols)
	padded := []rune(pad + text + pad)
	cols := l.cols
	return func(ctx context.Context) {
		for i := 0; i+cols <= len(padded); i++ {
			window := string(padded[i : i+cols])
			if err := l.device.SetCursor(row, 0); err != nil {
				return
			}
			if err := l.device.WriteString(window); err != nil {
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}
		}
	}
}

func (l *LCD) positionParams(params module.Params) (int, int, *module.Response) {
	row, err := params.RequireInt("row")
	if err != nil {
		resp := module.Errf("%v", err)
		return 0, 0, &resp
	}
	col, err := params.RequireInt("col")
	if err != nil {
		resp := module.Errf("%v", err)
		return 0, 0, &resp
	}
	if row < 0 || row >= l.rows || col < 0 || col >= l.cols {
		resp := module.Errf("%v: row %d col %d", ErrBadPosition, row, col)
		return 0, 0, &resp
	}
	return row, col, nil
}

// alignText truncates to the panel width and pads per the alignment.
func (l *LCD) alignText(text, align string) string {
	text = truncate(text, l.cols)
	gap := l.cols - len([]rune(text))
	switch align {
	case "center":
		left := gap / 2
		return strings.Repeat(" ", left) + text + strings.Repeat(" ", gap-left)
	case "right":
		return strings.Repeat(" ", gap) + text
	default:
		return text + strings.Repeat(" ", gap)
	}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) > n {
		return string(runes[:n])
	}
	return s
}

// parseBool accepts the boolean spellings agents actually send: real
// booleans, "true"/"1"/"yes"/"on" strings and non-zero numbers.
func parseBool(v any, def bool) bool {
	switch b := v.(type) {
	case nil:
		return def
	case bool:
		return b
	case string:
		switch strings.ToLower(b) {
		case "true", "1", "yes", "on":
			return true
		}
		return false
	case float64:
		return b != 0
	default:
		return def
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

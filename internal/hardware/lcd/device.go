package lcd

import (
	"strings"
	"sync"
)

// CharDevice is the low-level character display driver.
//
// Implementations wrap a real HD44780 behind an I2C backpack in
// production; Headless emulates one in memory. The module never issues
// concurrent calls.
type CharDevice interface {
	// Clear blanks the display and homes the cursor.
	Clear() error

	// Home moves the cursor to (0, 0) without clearing.
	Home() error

	// SetCursor moves the cursor to (row, col).
	SetCursor(row, col int) error

	// WriteString writes text at the cursor, advancing it.
	WriteString(s string) error

	// SetCursorMode sets the cursor style: "hide", "line" or "blink".
	SetCursorMode(mode string) error

	// SetDisplay toggles the character display without erasing it.
	SetDisplay(on bool) error

	// SetBacklight toggles the backlight.
	SetBacklight(on bool) error

	// ShiftDisplay shifts the visible window, positive to the right.
	ShiftDisplay(amount int) error

	// CreateChar programs a CGRAM slot (0-7) with a 5x8 bitmap.
	CreateChar(slot int, bitmap [8]byte) error

	// Command sends a raw instruction byte.
	Command(value byte) error

	// WriteByte writes a raw byte to the data register.
	WriteByte(value byte) error
}

// Headless is an in-memory CharDevice. It models the character cells,
// cursor auto-advance and line wrapping of a 1602 panel so tests can
// assert on what a user would actually see.
type Headless struct {
	cols, rows int

	mu         sync.Mutex
	cells      [][]rune
	row, col   int
	backlight  bool
	displayOn  bool
	cursorMode string
	chars      map[int][8]byte
	commands   []byte
	rawBytes   []byte
	shift      int
}

// NewHeadless creates a blank in-memory display.
func NewHeadless(cols, rows int) *Headless {
	h := &Headless{
		cols:       cols,
		rows:       rows,
		backlight:  true,
		displayOn:  true,
		cursorMode: "hide",
		chars:      make(map[int][8]byte),
	}
	h.cells = blankCells(cols, rows)
	return h
}

func blankCells(cols, rows int) [][]rune {
	cells := make([][]rune, rows)
	for r := range cells {
		cells[r] = make([]rune, cols)
		for c := range cells[r] {
			cells[r][c] = ' '
		}
	}
	return cells
}

func (h *Headless) Clear() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cells = blankCells(h.cols, h.rows)
	h.row, h.col = 0, 0
	return nil
}

func (h *Headless) Home() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.row, h.col = 0, 0
	return nil
}

func (h *Headless) SetCursor(row, col int) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.row, h.col = row, col
	return nil
}

func (h *Headless) WriteString(s string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, r := range s {
		if h.row >= 0 && h.row < h.rows && h.col >= 0 && h.col < h.cols {
			h.cells[h.row][h.col] = r
		}
		h.col++
		if h.col >= h.cols {
			h.col = 0
			h.row = (h.row + 1) % h.rows
		}
	}
	return nil
}

func (h *Headless) SetCursorMode(mode string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cursorMode = mode
	return nil
}

func (h *Headless) SetDisplay(on bool) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.displayOn = on
	return nil
}

func (h *Headless) SetBacklight(on bool) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.backlight = on
	return nil
}

func (h *Headless) ShiftDisplay(amount int) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.shift += amount
	return nil
}

func (h *Headless) CreateChar(slot int, bitmap [8]byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.chars[slot] = bitmap
	return nil
}

func (h *Headless) Command(value byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.commands = append(h.commands, value)
	return nil
}

func (h *Headless) WriteByte(value byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rawBytes = append(h.rawBytes, value)
	return nil
}

// Line returns the visible contents of one row.
func (h *Headless) Line(row int) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if row < 0 || row >= h.rows {
		return ""
	}
	var b strings.Builder
	for _, r := range h.cells[row] {
		b.WriteRune(r)
	}
	return b.String()
}

// CellAt returns the rune at one cell.
func (h *Headless) CellAt(row, col int) rune {
	h.mu.Lock()
	defer h.mu.Unlock()
	if row < 0 || row >= h.rows || col < 0 || col >= h.cols {
		return 0
	}
	return h.cells[row][col]
}

// Backlight reports the backlight state.
func (h *Headless) Backlight() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.backlight
}

// DisplayOn reports whether the character display is enabled.
func (h *Headless) DisplayOn() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.displayOn
}

// CursorMode returns the current cursor style.
func (h *Headless) CursorMode() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cursorMode
}

// Char returns the bitmap programmed into a CGRAM slot.
func (h *Headless) Char(slot int) ([8]byte, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	bm, ok := h.chars[slot]
	return bm, ok
}

// Commands returns all raw instruction bytes received.
func (h *Headless) Commands() []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]byte(nil), h.commands...)
}

// RawBytes returns all raw data bytes received.
func (h *Headless) RawBytes() []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]byte(nil), h.rawBytes...)
}

// Shift returns the accumulated display shift.
func (h *Headless) Shift() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.shift
}

package lcd

import "errors"

var (
	// ErrBadPosition indicates a cursor position outside the panel.
	ErrBadPosition = errors.New("lcd: position out of range")

	// ErrBadSlot indicates a CGRAM slot outside 0-7.
	ErrBadSlot = errors.New("lcd: slot must be 0-7")

	// ErrBadBitmap indicates a custom character bitmap that is not 8
	// row values of 0-31.
	ErrBadBitmap = errors.New("lcd: bitmap must be 8 integers (each 0-31)")

	// ErrBadCursorMode indicates an unsupported cursor style.
	ErrBadCursorMode = errors.New("lcd: invalid cursor mode")
)

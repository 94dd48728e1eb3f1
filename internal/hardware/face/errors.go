package face

import "errors"

var (
	// ErrBadGrid indicates a bitmap grid that is not 8 rows of 8 values.
	ErrBadGrid = errors.New("face: grid must be 8 rows of 8 values")

	// ErrOutOfRange indicates a coordinate outside the 8x8 canvas.
	ErrOutOfRange = errors.New("face: coordinate out of range")

	// ErrNoFrames indicates a sequence command without frames.
	ErrNoFrames = errors.New("face: no frames provided")
)

package module

import "errors"

// Domain-specific errors for the module engine.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrNotFound is returned when a module name does not resolve.
	ErrNotFound = errors.New("module: not found")

	// ErrInitFailed wraps a module's Init failure.
	ErrInitFailed = errors.New("module: init failed")

	// ErrMissingParam is returned when a required parameter is absent.
	ErrMissingParam = errors.New("module: missing required parameter")

	// ErrInvalidParam is returned when a parameter has the wrong type
	// or is out of range.
	ErrInvalidParam = errors.New("module: invalid parameter")

	// ErrAnimationStuck is returned when a running animation does not
	// acknowledge cancellation within the grace period. The module is
	// left in whatever state the stalled task produced.
	ErrAnimationStuck = errors.New("module: animation did not stop within grace period")
)

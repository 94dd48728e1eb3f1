// Package lcd implements the 16x2 character display module.
//
// It exposes the full HD44780 surface: high-level write/scroll/progress
// convenience commands plus low-level cursor movement, display and
// backlight toggles, CGRAM custom characters and raw byte access.
// Scrolling runs as a background animation through the module's
// Animator, so any later command to the module pre-empts it.
//
// The CharDevice interface isolates the bus driver. The Headless
// implementation emulates a display in memory, including cursor
// auto-advance, which is what the tests run against.
package lcd

// Package face implements the 8x8 LED-matrix face module.
//
// The module keeps an internal pixel buffer and pushes whole frames to a
// Display. High-level commands set named expressions or start background
// animations through the module's Animator; low-level commands expose
// pixel, line, rectangle, ellipse and glyph drawing on the buffer.
//
// The Display interface isolates the rendering backend. Production
// builds wire a MAX7219 driver behind it; everywhere else the Headless
// implementation records frames in memory, which keeps the module fully
// testable without hardware.
package face

// Package touch implements the capacitive touch sensor module.
//
// The Sensor interface hides the GPIO layer: a real implementation
// registers an interrupt on both edges of the sensor pin, the Headless
// one lets tests and development hosts fire edges programmatically.
// The module tracks touch state and counters and emits "touched" and
// "released" events through the daemon's event sink, which is how the
// agent learns about physical contact in real time.
package touch

// Package events collects hardware events (touches, expression
// changes) and fans them out.
//
// The Bus is the daemon's event hub. Modules emit into it; the router
// serves the pending ring through the events verb (drain or peek).
// Optional sinks receive every event: the SQLite repository for
// persistent history, the MQTT publisher for external automations, and
// the InfluxDB recorder for telemetry.
//
// Touch events additionally trigger an instant physical reaction (the
// Reactor) and a notification to the controlling agent (the Notifier),
// both gated by a shared cooldown so a burst of touches produces a
// single reaction.
package events

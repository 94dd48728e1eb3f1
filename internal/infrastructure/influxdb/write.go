package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteCommandMetric records the dispatch latency of a single command.
//
// The write is non-blocking; data is batched and sent asynchronously.
//
// Parameters:
//   - module: Target module name (e.g., "face", "lcd")
//   - action: Action that was dispatched (e.g., "set_expression")
//   - duration: Time spent in the handler, including any lock wait
//   - ok: Whether the command succeeded
//
// Example:
//
//	client.WriteCommandMetric("face", "set_expression", 3*time.Millisecond, true)
func (c *Client) WriteCommandMetric(module, action string, duration time.Duration, ok bool) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"command",
		map[string]string{
			"module": module,
			"action": action,
		},
		map[string]interface{}{
			"duration_ms": float64(duration.Microseconds()) / 1000.0,
			"ok":          ok,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteEventMetric records a hardware event occurrence.
//
// Used for tracking touch activity, animation lifecycle and other
// hardware events over time.
//
// Parameters:
//   - module: Source module name (e.g., "touch")
//   - eventType: Event type (e.g., "touched", "released")
func (c *Client) WriteEventMetric(module, eventType string) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"event",
		map[string]string{
			"module": module,
			"type":   eventType,
		},
		map[string]interface{}{
			"count": 1,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Parameters:
//   - measurement: The measurement name
//   - tags: Key-value pairs for indexing (low cardinality)
//   - fields: Key-value pairs for the actual data
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}

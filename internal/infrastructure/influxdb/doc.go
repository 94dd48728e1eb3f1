// Package influxdb provides command and event telemetry for the Totem
// daemon.
//
// The router records per-command dispatch latency and the event system
// records hardware event counts. Writes go through the non-blocking
// batched WriteAPI, so a slow or unreachable InfluxDB never delays a
// hardware command; async write errors surface via SetOnError.
//
// Telemetry is optional. When the influxdb section of totem.yaml is
// disabled, Connect returns ErrDisabled and the daemon runs without
// metrics.
package influxdb

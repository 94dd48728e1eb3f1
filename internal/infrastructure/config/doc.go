// Package config loads and validates the Totem daemon configuration.
//
// Configuration comes from three layers, later layers overriding earlier:
//
//  1. Hardcoded defaults (Default)
//  2. A YAML file (configs/totem.yaml by default)
//  3. TOTEM_* environment variables
//
// The daemon is designed to run with no file at all: every hardware module
// defaults to enabled and every external sink (SQLite, MQTT, InfluxDB) to
// disabled, so a bare `totemd` on a fresh board does something sensible.
package config

// Package database provides the SQLite event store for the Totem daemon.
//
// It wraps database/sql with WAL-mode configuration, a startup health
// check, and an embedded-migration runner. The daemon records command
// events here so that history survives restarts; the in-memory event
// ring in internal/events remains the source for the events verb.
//
// The store is optional. When the database section of totem.yaml is
// disabled the daemon runs with the in-memory ring only.
package database

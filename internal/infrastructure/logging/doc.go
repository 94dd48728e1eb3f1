// Package logging provides structured logging for the Totem daemon.
//
// It wraps log/slog with daemon-specific defaults: a service field,
// version tagging, and level/format configuration from totem.yaml.
//
// Usage:
//
//	logger := logging.New(cfg.Logging, version)
//	logger.Info("daemon started", "socket", cfg.Socket.Path)
//
// Derived loggers carry module context:
//
//	faceLog := logger.With("module", "face")
package logging

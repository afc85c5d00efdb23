// Package logging provides structured logging for the Jablotron bridge.
//
// This package wraps Go's standard log/slog package to provide
// consistent, structured logging across the application.
//
// # Features
//
//   - JSON output for production (machine-parsable)
//   - Text output for development (human-readable)
//   - Default fields (service, version) on all log entries
//   - Level-based filtering (debug, info, warn, error)
//   - Thread-safe for concurrent use
//
// # Usage
//
//	logger := logging.New(cfg.Logging, "1.0.0")
//	logger.Info("starting bridge", "poll_interval", "60s")
//	logger.Error("cloud poll failed", "error", err)
//
// # Security
//
// Never log credentials, PIN codes, or the session token.
package logging

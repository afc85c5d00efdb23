package tsdb

import "errors"

// Sentinel errors for time-series operations.
//
// These errors can be checked using errors.Is() for specific handling:
//
//	if errors.Is(err, tsdb.ErrDisabled) {
//	    // Run without telemetry
//	}
var (
	// ErrNotConnected indicates the client is not connected to InfluxDB.
	ErrNotConnected = errors.New("tsdb: not connected")

	// ErrConnectionFailed indicates the initial connection attempt failed.
	ErrConnectionFailed = errors.New("tsdb: connection failed")

	// ErrWriteFailed indicates a write operation failed.
	// Note: Most write errors are handled asynchronously via the error callback.
	ErrWriteFailed = errors.New("tsdb: write failed")

	// ErrDisabled indicates telemetry is disabled in config.
	ErrDisabled = errors.New("tsdb: disabled in configuration")
)

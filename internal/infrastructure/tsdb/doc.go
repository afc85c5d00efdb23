// Package tsdb writes thermometer telemetry to InfluxDB v2.
//
// The bridge polls thermometer devices from the Jablotron Cloud and
// records readings here for long-term graphing. Telemetry is optional:
// when influxdb.enabled is false in config, Connect returns ErrDisabled
// and the bridge runs without it.
//
// # Data Model
//
// Readings are written to the "temperature" measurement:
//
//	temperature,service_id=1234567,device_id=THM-123456789 celsius=21.5
//
// Tags stay low-cardinality (one series per thermometer). The point
// timestamp is the time the cloud reported for the reading, not the
// poll time, so delayed polls don't skew the series.
//
// # Write Semantics
//
// Writes are non-blocking and batched by the underlying InfluxDB client.
// Errors surface asynchronously via SetOnError; a lost telemetry write
// never blocks or fails the poll loop.
//
// # Usage
//
//	client, err := tsdb.Connect(cfg.InfluxDB)
//	if errors.Is(err, tsdb.ErrDisabled) {
//	    // run without telemetry
//	}
//	defer client.Close()
//
//	client.SetOnError(func(err error) {
//	    logger.Warn("telemetry write failed", "error", err)
//	})
//	client.WriteTemperature(1234567, "THM-123456789", 21.5, at)
package tsdb

package tsdb

import (
	"strconv"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteTemperature records a thermometer reading from an alarm service.
//
// The write is non-blocking; data is batched and sent asynchronously.
// Readings are tagged by service and device so a single bridge can feed
// multiple alarm installations into one bucket.
//
// Parameters:
//   - serviceID: The alarm service the thermometer belongs to
//   - deviceID: Cloud component id of the thermometer (e.g., "THM-123456789")
//   - celsius: Temperature reading in degrees Celsius
//   - at: Time the cloud reported for the reading
//
// Example:
//
//	client.WriteTemperature(1234567, "THM-123456789", 21.5, reading.At)
func (c *Client) WriteTemperature(serviceID int, deviceID string, celsius float64, at time.Time) {
	if !c.IsConnected() {
		return
	}
	if at.IsZero() {
		at = time.Now()
	}

	point := write.NewPoint(
		"temperature",
		map[string]string{
			"service_id": strconv.Itoa(serviceID),
			"device_id":  deviceID,
		},
		map[string]interface{}{
			"celsius": celsius,
		},
		at,
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for measurements that don't fit the helper methods.
//
// Parameters:
//   - measurement: The measurement name (table)
//   - tags: Key-value pairs for indexing (low cardinality)
//   - fields: Key-value pairs for the actual data
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}

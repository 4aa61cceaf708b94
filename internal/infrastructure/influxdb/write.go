package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteOperationMetric records a bridge operation's duration and outcome.
//
// This is the primary method for recording schema operation telemetry.
// The write is non-blocking; data is batched and sent asynchronously.
//
// Parameters:
//   - database: Path or identifier of the affected database
//   - operation: The operation name ("open", "reset", "migrate")
//   - duration: Wall-clock time the operation took
//   - success: Whether the operation committed or failed
//
// Example:
//
//	client.WriteOperationMetric("data/app.db", "migrate", elapsed, err == nil)
func (c *Client) WriteOperationMetric(database string, operation string, duration time.Duration, success bool) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"bridge_ops",
		map[string]string{
			"database":  database,
			"operation": operation,
		},
		map[string]interface{}{
			"duration_ms": float64(duration.Milliseconds()),
			"success":     success,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteSchemaVersion records the stored schema version after a mutating
// operation. Plotting this over time shows exactly when each deployment
// migrated.
//
// Parameters:
//   - database: Path or identifier of the affected database
//   - version: The schema version now stamped in the database
func (c *Client) WriteSchemaVersion(database string, version int) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"schema_version",
		map[string]string{
			"database": database,
		},
		map[string]interface{}{
			"version": version,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for custom measurements that don't fit the helper methods.
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

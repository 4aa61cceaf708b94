// Package influxdb provides operation telemetry for litebridge.
//
// Schema operations (reset, migration) are rare but high-consequence;
// recording their durations and outcomes in a time-series database gives
// operators a history to correlate with incidents. Writes are batched
// and non-blocking, so telemetry never slows the bridge down, and the
// whole subsystem is optional (influxdb.enabled in config.yaml).
//
// Measurements:
//
//	bridge_ops      — operation durations and outcomes
//	schema_version  — stored schema version after each mutating operation
//
// Error Handling:
//
// Because writes are asynchronous, failures surface through the error
// callback (SetOnError), not through the write calls themselves.
package influxdb

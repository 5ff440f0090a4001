// Package influxdb provides time-series persistence for fleet telemetry.
//
// The client wraps the official InfluxDB v2 Go client with non-blocking
// batched writes. Status transitions and fleet counts are recorded as
// points; queries for dashboards are expected to run in Grafana or the
// Influx UI, not through this package.
//
// The package is optional. When disabled in configuration Connect
// returns ErrDisabled and callers are expected to skip history
// recording entirely.
package influxdb

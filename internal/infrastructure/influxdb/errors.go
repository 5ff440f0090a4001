package influxdb

import "errors"

var (
	// ErrNotConnected indicates an operation was attempted before Connect.
	ErrNotConnected = errors.New("influxdb: not connected")

	// ErrConnectionFailed indicates the server could not be reached or
	// rejected the configured credentials.
	ErrConnectionFailed = errors.New("influxdb: connection failed")

	// ErrWriteFailed indicates an asynchronous batch write was rejected.
	ErrWriteFailed = errors.New("influxdb: write failed")

	// ErrDisabled indicates InfluxDB is turned off in configuration.
	ErrDisabled = errors.New("influxdb: disabled in configuration")
)

package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteStatusTransition records a device status change.
//
// The write is non-blocking; points are batched and sent asynchronously.
// One point is written per transition, tagged with the device name and
// the new status, with a numeric online field for easy graphing.
//
// Example:
//
//	client.WriteStatusTransition("kitchen-sensor", "online", true)
//	client.WriteStatusTransition("garage-door", "offline", false)
func (c *Client) WriteStatusTransition(deviceName string, status string, online bool) {
	if !c.IsConnected() {
		return
	}

	onlineVal := 0.0
	if online {
		onlineVal = 1.0
	}

	point := write.NewPoint(
		"device_status",
		map[string]string{
			"device": deviceName,
			"status": status,
		},
		map[string]interface{}{
			"online": onlineVal,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteFleetCounts records aggregate fleet size per reconciliation cycle.
//
// Useful for tracking fleet growth and discovery churn over time.
func (c *Client) WriteFleetCounts(configured, importable int) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"fleet_counts",
		nil,
		map[string]interface{}{
			"configured": configured,
			"importable": importable,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

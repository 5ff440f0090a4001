// Package history records device status transitions to the time-series
// store.
//
// The recorder keeps the last derived status per device and writes a
// point only when it changes, so a stable fleet produces no write
// traffic. It is owned by the dashboard controller and must only be
// called from its event loop.
package history

import "github.com/nerrad567/flotilla/internal/fleet"

// Sink is the time-series writer the recorder depends on.
type Sink interface {
	WriteStatusTransition(deviceName string, status string, online bool)
	WriteFleetCounts(configured, importable int)
}

// Recorder tracks per-device status and writes transitions to a sink.
// A nil sink disables recording entirely.
type Recorder struct {
	sink Sink
	last map[string]fleet.Status
}

// NewRecorder creates a recorder. Pass a nil sink when the time-series
// store is disabled; every call becomes a no-op.
func NewRecorder(sink Sink) *Recorder {
	return &Recorder{
		sink: sink,
		last: make(map[string]fleet.Status),
	}
}

// RecordCycle derives each configured device's status and writes a
// point for every transition since the previous cycle. Devices that
// left the fleet are forgotten. Fleet counts are written every cycle.
func (r *Recorder) RecordCycle(list fleet.ViewList, online fleet.OnlineMap) {
	if r.sink == nil {
		return
	}

	configured := 0
	importable := 0
	seen := make(map[string]struct{})

	for _, e := range list {
		if e.Kind == fleet.KindImportable {
			importable++
			continue
		}
		configured++

		name := e.Configured.Name
		seen[name] = struct{}{}

		status := e.Status(online)
		if r.last[name] == status {
			continue
		}
		r.last[name] = status
		r.sink.WriteStatusTransition(name, string(status), status == fleet.StatusOnline)
	}

	for name := range r.last {
		if _, ok := seen[name]; !ok {
			delete(r.last, name)
		}
	}

	r.sink.WriteFleetCounts(configured, importable)
}

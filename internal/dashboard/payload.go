package dashboard

import "github.com/nerrad567/flotilla/internal/fleet"

// DevicePayload is one view list entry enriched with derived display
// state for the browser.
type DevicePayload struct {
	fleet.Entry
	Status fleet.Status `json:"status"`
	New    bool         `json:"new,omitempty"`
}

// DevicesEvent is the payload of a "devices" broadcast.
type DevicesEvent struct {
	Devices      []DevicePayload `json:"devices"`
	Added        []string        `json:"added,omitempty"`
	ScrollTarget string          `json:"scroll_target,omitempty"`
}

// BuildDevicesEvent assembles the broadcast payload for a view list.
// Added names keep reconciliation order so the first one is the scroll
// target.
func BuildDevicesEvent(list fleet.ViewList, added []string, scrollTarget string, online fleet.OnlineMap) DevicesEvent {
	addedSet := make(map[string]struct{}, len(added))
	for _, name := range added {
		addedSet[name] = struct{}{}
	}

	devices := make([]DevicePayload, 0, len(list))
	for _, e := range list {
		_, isNew := addedSet[e.Name()]
		devices = append(devices, DevicePayload{
			Entry:  e,
			Status: e.Status(online),
			New:    isNew && e.Kind == fleet.KindConfigured,
		})
	}

	return DevicesEvent{
		Devices:      devices,
		Added:        added,
		ScrollTarget: scrollTarget,
	}
}

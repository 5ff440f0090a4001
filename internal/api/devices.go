package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/flotilla/internal/fleet"
)

// devicePayload is one view list entry with derived display state.
type devicePayload struct {
	fleet.Entry
	Status fleet.Status `json:"status"`
	New    bool         `json:"new,omitempty"`
}

// listDevicesResponse is the response body for GET /devices.
type listDevicesResponse struct {
	Devices []devicePayload `json:"devices"`
	Count   int             `json:"count"`
}

// handleListDevices returns the current view list, optionally filtered.
//
// Query parameters:
//   - q: case-insensitive substring search across name, friendly name,
//     project name and comment
//   - show_discovered: include importable devices (default true)
func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	showDiscovered := true
	if raw := r.URL.Query().Get("show_discovered"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			writeBadRequest(w, "show_discovered must be a boolean")
			return
		}
		showDiscovered = parsed
	}

	list := fleet.Filter(s.dashboard.ViewList(), showDiscovered, query)
	online := s.dashboard.Online()

	devices := make([]devicePayload, 0, len(list))
	for _, e := range list {
		devices = append(devices, devicePayload{
			Entry:  e,
			Status: e.Status(online),
			New:    s.dashboard.IsNew(e.Name()),
		})
	}

	writeJSON(w, http.StatusOK, listDevicesResponse{
		Devices: devices,
		Count:   len(devices),
	})
}

// handleGetDevice returns a single device by name.
func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	entry, ok := s.dashboard.Device(name)
	if !ok {
		writeNotFound(w, "device not found")
		return
	}

	writeJSON(w, http.StatusOK, devicePayload{
		Entry:  entry,
		Status: entry.Status(s.dashboard.Online()),
		New:    s.dashboard.IsNew(name),
	})
}

// handleRefreshDevices asks the fleet supervisor to re-emit the current
// device snapshot. The refreshed list arrives over the WebSocket feed.
func (s *Server) handleRefreshDevices(w http.ResponseWriter, r *http.Request) {
	if err := s.dashboard.Refresh(r.Context()); err != nil {
		s.logger.Warn("device refresh request failed", "error", err)
		writeError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, "refresh request failed")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "requested"})
}

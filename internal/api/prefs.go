package api

import (
	"encoding/json"
	"net/http"

	"github.com/nerrad567/flotilla/internal/prefs"
)

// handleGetPrefs returns the persisted dashboard preferences.
func (s *Server) handleGetPrefs(w http.ResponseWriter, r *http.Request) {
	p, err := s.prefs.Load(r.Context())
	if err != nil {
		s.logger.Error("failed to load preferences", "error", err)
		writeInternalError(w, "failed to load preferences")
		return
	}

	writeJSON(w, http.StatusOK, p)
}

// handlePutPrefs replaces the persisted dashboard preferences.
func (s *Server) handlePutPrefs(w http.ResponseWriter, r *http.Request) {
	var p prefs.Preferences
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if err := p.Validate(); err != nil {
		writeValidationError(w, err.Error())
		return
	}

	if err := s.prefs.Save(r.Context(), p); err != nil {
		s.logger.Error("failed to save preferences", "error", err)
		writeInternalError(w, "failed to save preferences")
		return
	}

	writeJSON(w, http.StatusOK, p)
}

package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/quietshelf/quietshelf-server/internal/http/response"
)

// SettingsUpdateRequest changes the client preferences.
type SettingsUpdateRequest struct {
	Theme string `json:"theme" validate:"required,oneof=dark light sepia"`
}

// handleGetSettings returns the stored client preferences.
func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.settingsService.GetSettings(r.Context())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, settings, s.logger)
}

// handleUpdateSettings replaces the client preferences.
func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req SettingsUpdateRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	settings, err := s.settingsService.UpdateSettings(r.Context(), req.Theme)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, settings, s.logger)
}

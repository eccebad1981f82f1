package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quietshelf/quietshelf-server/internal/http/response"
	"github.com/quietshelf/quietshelf-server/internal/service"
)

// LogCreateRequest records a reading session against a book.
type LogCreateRequest struct {
	BookID  string `json:"book_id" validate:"required"`
	Date    string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Pages   int    `json:"pages" validate:"gte=0"`
	Minutes int    `json:"minutes" validate:"gte=0"`
	Note    string `json:"note"`
}

// handleCreateLog records a reading session.
func (s *Server) handleCreateLog(w http.ResponseWriter, r *http.Request) {
	var req LogCreateRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	entry, err := s.logService.CreateLog(r.Context(), service.CreateLogInput{
		BookID:  req.BookID,
		Date:    req.Date,
		Pages:   req.Pages,
		Minutes: req.Minutes,
		Note:    req.Note,
	})
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, entry, s.logger)
}

// handleListLogs lists reading logs, optionally scoped to a single date
// via the date query parameter.
func (s *Server) handleListLogs(w http.ResponseWriter, r *http.Request) {
	if date := r.URL.Query().Get("date"); date != "" {
		logs, err := s.historyService.DailyLogs(r.Context(), date)
		if err != nil {
			response.HandleError(w, err, s.logger)
			return
		}
		response.Success(w, logs, s.logger)
		return
	}

	logs, err := s.logService.ListLogs(r.Context())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, logs, s.logger)
}

// handleDeleteLog removes a single reading log entry.
func (s *Server) handleDeleteLog(w http.ResponseWriter, r *http.Request) {
	logID := chi.URLParam(r, "id")
	if logID == "" {
		response.BadRequest(w, "Log ID is required", s.logger)
		return
	}

	if err := s.logService.DeleteLog(r.Context(), logID); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}

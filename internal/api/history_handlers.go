package api

import (
	"net/http"
	"strconv"

	"github.com/quietshelf/quietshelf-server/internal/http/response"
)

// handleHeatmap returns the trailing-year activity heatmap, one summary per
// day, oldest first.
func (s *Server) handleHeatmap(w http.ResponseWriter, r *http.Request) {
	days, err := s.historyService.Heatmap(r.Context())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, days, s.logger)
}

// handleCalendar returns the month grid for the year and month query
// parameters. Month is 1-based.
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		response.BadRequest(w, "Invalid year", s.logger)
		return
	}

	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		response.BadRequest(w, "Invalid month", s.logger)
		return
	}

	days, err := s.historyService.Calendar(r.Context(), year, month)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, days, s.logger)
}

package api

import (
	"net/http"

	"github.com/quietshelf/quietshelf-server/internal/http/response"
)

// handleSearchVolumes looks a book up in the external catalog by title
// and/or author. At least one of the two is required.
func (s *Server) handleSearchVolumes(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")
	author := r.URL.Query().Get("author")

	volumes, err := s.metadataService.SearchVolumes(r.Context(), title, author)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, volumes, s.logger)
}

package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quietshelf/quietshelf-server/internal/domain"
	"github.com/quietshelf/quietshelf-server/internal/http/response"
	"github.com/quietshelf/quietshelf-server/internal/service"
	"github.com/quietshelf/quietshelf-server/internal/store"
)

// BookCreateRequest carries lookup metadata plus the user's shelf choices
// for a new book.
type BookCreateRequest struct {
	SourceVolumeID string   `json:"source_volume_id"`
	Title          string   `json:"title" validate:"required"`
	Authors        []string `json:"authors"`
	PageCount      int      `json:"page_count" validate:"gte=0"`
	PublishedDate  string   `json:"published_date"`
	Description    string   `json:"description"`
	Genres         []string `json:"genres"`
	CoverURL       string   `json:"cover_url"`

	Status string   `json:"status" validate:"omitempty,oneof=tbr reading finished dnf"`
	Date   string   `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Tags   []string `json:"tags"`
	Notes  string   `json:"notes"`
	Rating int      `json:"rating" validate:"gte=0,lte=5"`
}

// BookUpdateRequest contains fields that can be updated on a book.
// Only non-nil fields are applied (true PATCH semantics).
// Note: omitempty is intentionally not used here - we need to distinguish between
// "field not provided" (nil pointer) and "field set to empty" (pointer to "").
type BookUpdateRequest struct {
	Title  *string   `json:"title"`
	Status *string   `json:"status"`
	Tags   *[]string `json:"tags"`
	Notes  *string   `json:"notes"`
	Rating *int      `json:"rating"`
}

// handleCreateBook shelves a new book.
func (s *Server) handleCreateBook(w http.ResponseWriter, r *http.Request) {
	var req BookCreateRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	book, err := s.bookService.CreateBook(r.Context(), service.CreateBookInput{
		SourceVolumeID: req.SourceVolumeID,
		Title:          req.Title,
		Authors:        req.Authors,
		PageCount:      req.PageCount,
		PublishedDate:  req.PublishedDate,
		Description:    req.Description,
		Genres:         req.Genres,
		CoverURL:       req.CoverURL,
		Status:         domain.BookStatus(req.Status),
		Date:           req.Date,
		Tags:           req.Tags,
		Notes:          req.Notes,
		Rating:         req.Rating,
	})
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, book, s.logger)
}

// handleListBooks lists books, optionally filtered by status, tag, and a
// free-text query, ordered by the order/direction query parameters.
func (s *Server) handleListBooks(w http.ResponseWriter, r *http.Request) {
	orderBy, direction := parseListOrder(r)

	status := r.URL.Query().Get("status")
	tag := r.URL.Query().Get("tag")
	query := r.URL.Query().Get("q")

	books, err := s.historyService.FilterBooks(r.Context(), orderBy, direction, status, tag, query)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, books, s.logger)
}

// handleGetBook returns a single book by ID.
func (s *Server) handleGetBook(w http.ResponseWriter, r *http.Request) {
	bookID := chi.URLParam(r, "id")
	if bookID == "" {
		response.BadRequest(w, "Book ID is required", s.logger)
		return
	}

	book, err := s.bookService.GetBook(r.Context(), bookID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, book, s.logger)
}

// handleUpdateBook applies a partial update to a book (PATCH semantics).
// Only fields present in the request body are updated.
func (s *Server) handleUpdateBook(w http.ResponseWriter, r *http.Request) {
	bookID := chi.URLParam(r, "id")
	if bookID == "" {
		response.BadRequest(w, "Book ID is required", s.logger)
		return
	}

	var req BookUpdateRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	patch := service.BookPatch{
		Title:  req.Title,
		Tags:   req.Tags,
		Notes:  req.Notes,
		Rating: req.Rating,
	}
	if req.Status != nil {
		status := domain.BookStatus(*req.Status)
		patch.Status = &status
	}

	book, err := s.bookService.UpdateBook(r.Context(), bookID, patch)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, book, s.logger)
}

// handleDeleteBook removes a book and all of its reading logs.
func (s *Server) handleDeleteBook(w http.ResponseWriter, r *http.Request) {
	bookID := chi.URLParam(r, "id")
	if bookID == "" {
		response.BadRequest(w, "Book ID is required", s.logger)
		return
	}

	if err := s.bookService.DeleteBook(r.Context(), bookID); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}

// handleCycleStatus advances a book to the next status in the cycle.
func (s *Server) handleCycleStatus(w http.ResponseWriter, r *http.Request) {
	bookID := chi.URLParam(r, "id")
	if bookID == "" {
		response.BadRequest(w, "Book ID is required", s.logger)
		return
	}

	book, err := s.bookService.CycleStatus(r.Context(), bookID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, book, s.logger)
}

// handleFilterMeta returns the filter bar metadata: status counts plus the
// tag and genre universes across the shelf.
func (s *Server) handleFilterMeta(w http.ResponseWriter, r *http.Request) {
	meta, err := s.historyService.FilterMeta(r.Context())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, meta, s.logger)
}

// parseListOrder reads the order and direction query parameters, falling
// back to most-recently-updated first.
func parseListOrder(r *http.Request) (store.OrderBy, store.Direction) {
	orderBy := store.OrderByUpdatedAt
	switch r.URL.Query().Get("order") {
	case "title":
		orderBy = store.OrderByTitle
	case "created_at":
		orderBy = store.OrderByCreatedAt
	}

	direction := store.Descending
	if r.URL.Query().Get("direction") == "asc" {
		direction = store.Ascending
	}

	return orderBy, direction
}

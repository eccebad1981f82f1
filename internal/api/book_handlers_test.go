package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quietshelf/quietshelf-server/internal/domain"
	"github.com/quietshelf/quietshelf-server/internal/service"
)

// createTestBook shelves a book through the API and returns it.
func createTestBook(t *testing.T, server *Server, title string, overrides map[string]any) *domain.Book {
	t.Helper()

	body := map[string]any{
		"title":   title,
		"authors": []string{"Test Author"},
	}
	for k, v := range overrides {
		body[k] = v
	}

	rec := doRequest(t, server, http.MethodPost, "/api/v1/books", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var book domain.Book
	decodeEnvelope(t, rec, &book)
	return &book
}

func TestCreateBookDefaults(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	book := createTestBook(t, server, "The Dispossessed", nil)

	assert.NotEmpty(t, book.ID)
	assert.Equal(t, domain.StatusTBR, book.Status)
	assert.Empty(t, book.StartedOn)
}

func TestCreateBookWithStatusStampsMilestone(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	book := createTestBook(t, server, "The Left Hand of Darkness", map[string]any{
		"status": "reading",
		"date":   "2024-03-01",
	})

	assert.Equal(t, domain.StatusReading, book.Status)
	assert.Equal(t, "2024-03-01", book.StartedOn)
}

func TestCreateBookValidation(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing title", map[string]any{"authors": []string{"a"}}},
		{"bad status", map[string]any{"title": "x", "status": "abandoned"}},
		{"rating out of range", map[string]any{"title": "x", "rating": 6}},
		{"bad date", map[string]any{"title": "x", "date": "March 1st"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, server, http.MethodPost, "/api/v1/books", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			env := decodeEnvelope(t, rec, nil)
			assert.False(t, env.Success)
			assert.NotEmpty(t, env.Error)
		})
	}
}

func TestGetBook(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	created := createTestBook(t, server, "Rocannon's World", nil)

	rec := doRequest(t, server, http.MethodGet, "/api/v1/books/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var book domain.Book
	decodeEnvelope(t, rec, &book)
	assert.Equal(t, created.ID, book.ID)
	assert.Equal(t, "Rocannon's World", book.Title)
}

func TestGetBookNotFound(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	rec := doRequest(t, server, http.MethodGet, "/api/v1/books/book_missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListBooksWithFilters(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	createTestBook(t, server, "A Wizard of Earthsea", map[string]any{
		"status": "finished",
		"tags":   []string{"fantasy"},
	})
	createTestBook(t, server, "The Tombs of Atuan", map[string]any{
		"tags": []string{"fantasy"},
	})
	createTestBook(t, server, "Always Coming Home", nil)

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"all books", "", 3},
		{"by status", "?status=finished", 1},
		{"by tag", "?tag=fantasy", 2},
		{"by text", "?q=atuan", 1},
		{"conjunction", "?status=tbr&tag=fantasy", 1},
		{"no match", "?status=dnf", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, server, http.MethodGet, "/api/v1/books"+tt.query, nil)
			require.Equal(t, http.StatusOK, rec.Code)

			var books []domain.Book
			decodeEnvelope(t, rec, &books)
			assert.Len(t, books, tt.want)
		})
	}
}

func TestListBooksOrderedByTitle(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	createTestBook(t, server, "Changing Planes", nil)
	createTestBook(t, server, "Gifts", nil)

	rec := doRequest(t, server, http.MethodGet, "/api/v1/books?order=title&direction=asc", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var books []domain.Book
	decodeEnvelope(t, rec, &books)
	require.Len(t, books, 2)
	assert.Equal(t, "Changing Planes", books[0].Title)
}

func TestListBooksDefaultsToLastUpdatedFirst(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	older := createTestBook(t, server, "The Farthest Shore", nil)
	createTestBook(t, server, "The Other Wind", nil)

	// Touching the older book makes it the most recently updated.
	rec := doRequest(t, server, http.MethodPatch, "/api/v1/books/"+older.ID, map[string]any{
		"rating": 4,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, server, http.MethodGet, "/api/v1/books", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var books []domain.Book
	decodeEnvelope(t, rec, &books)
	require.Len(t, books, 2)
	assert.Equal(t, older.ID, books[0].ID)
}

func TestUpdateBookPatchSemantics(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	created := createTestBook(t, server, "Lavinia", map[string]any{
		"notes": "keep me",
	})

	rec := doRequest(t, server, http.MethodPatch, "/api/v1/books/"+created.ID, map[string]any{
		"rating": 5,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var book domain.Book
	decodeEnvelope(t, rec, &book)
	assert.Equal(t, 5, book.Rating)
	assert.Equal(t, "keep me", book.Notes)
	assert.Equal(t, "Lavinia", book.Title)
}

func TestUpdateBookStatusStampsMilestone(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	created := createTestBook(t, server, "The Word for World Is Forest", nil)

	rec := doRequest(t, server, http.MethodPatch, "/api/v1/books/"+created.ID, map[string]any{
		"status": "reading",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var book domain.Book
	decodeEnvelope(t, rec, &book)
	assert.Equal(t, domain.StatusReading, book.Status)
	assert.NotEmpty(t, book.StartedOn)
}

func TestCycleStatus(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	created := createTestBook(t, server, "The Telling", nil)

	want := []domain.BookStatus{
		domain.StatusReading,
		domain.StatusFinished,
		domain.StatusDNF,
		domain.StatusTBR,
	}
	for _, status := range want {
		rec := doRequest(t, server, http.MethodPost, "/api/v1/books/"+created.ID+"/cycle", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var book domain.Book
		decodeEnvelope(t, rec, &book)
		assert.Equal(t, status, book.Status)
	}
}

func TestDeleteBookCascadesLogs(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	created := createTestBook(t, server, "Orsinian Tales", nil)

	for i := range 2 {
		rec := doRequest(t, server, http.MethodPost, "/api/v1/logs", map[string]any{
			"book_id": created.ID,
			"date":    fmt.Sprintf("2024-03-0%d", i+1),
			"pages":   10,
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := doRequest(t, server, http.MethodDelete, "/api/v1/books/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, server, http.MethodGet, "/api/v1/books/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, server, http.MethodGet, "/api/v1/logs", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var logs []domain.ReadingLog
	decodeEnvelope(t, rec, &logs)
	assert.Empty(t, logs)
}

func TestDeleteBookNotFound(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	rec := doRequest(t, server, http.MethodDelete, "/api/v1/books/book_missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFilterMeta(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	createTestBook(t, server, "The Lathe of Heaven", map[string]any{
		"status": "finished",
		"tags":   []string{"scifi"},
		"genres": []string{"Fiction"},
	})
	createTestBook(t, server, "City of Illusions", map[string]any{
		"tags": []string{"Scifi", "classics"},
	})

	rec := doRequest(t, server, http.MethodGet, "/api/v1/books/meta/filters", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var meta service.FilterMeta
	decodeEnvelope(t, rec, &meta)
	assert.Equal(t, 1, meta.StatusCounts[domain.StatusFinished])
	assert.Equal(t, 1, meta.StatusCounts[domain.StatusTBR])
	assert.Contains(t, meta.Genres, "Fiction")
	assert.Len(t, meta.Tags, 2)
}

package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/quietshelf/quietshelf-server/internal/domain"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()

	// Create temp directory for test database
	tmpDir, err := os.MkdirTemp("", "quietshelf-test-*")
	require.NoError(t, err)

	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := New(dbPath, nil)
	require.NoError(t, err)
	require.NotNil(t, store)

	cleanup := func() {
		_ = store.Close()
		_ = os.RemoveAll(tmpDir)
	}

	return store, cleanup
}

// Helper to create a test book
func createTestBook(bookID string) *domain.Book {
	book := &domain.Book{
		SourceVolumeID: "vol-" + bookID,
		Title:          "Test Book " + bookID,
		Authors:        []string{"Test Author"},
		PageCount:      320,
		Genres:         []string{"Fiction", "Horror"},
		Status:         domain.StatusTBR,
		Tags:           []string{"library-loan"},
	}
	book.ID = bookID
	book.InitTimestamps()
	return book
}

// Helper to create a test reading log
func createTestLog(logID, bookID, date string, pages int) *domain.ReadingLog {
	return &domain.ReadingLog{
		ID:        logID,
		Date:      date,
		BookID:    bookID,
		Pages:     pages,
		CreatedAt: time.Now(),
	}
}

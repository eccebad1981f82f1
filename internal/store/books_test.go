package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/quietshelf/quietshelf-server/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBook(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	book := createTestBook("book-001")

	err := store.CreateBook(ctx, book)
	require.NoError(t, err)

	retrieved, err := store.GetBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, book.ID, retrieved.ID)
	assert.Equal(t, book.Title, retrieved.Title)
	assert.Equal(t, domain.StatusTBR, retrieved.Status)
	assert.Equal(t, []string{"Fiction", "Horror"}, retrieved.Genres)
}

func TestCreateBook_Duplicate(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	book := createTestBook("book-001")

	require.NoError(t, store.CreateBook(ctx, book))

	err := store.CreateBook(ctx, book)
	assert.ErrorIs(t, err, ErrBookExists)
}

func TestGetBook_NotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.GetBook(context.Background(), "book-missing")
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestUpdateBook_RefreshesUpdatedAt(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	book := createTestBook("book-001")
	require.NoError(t, store.CreateBook(ctx, book))

	before := book.UpdatedAt
	time.Sleep(5 * time.Millisecond)

	book.Notes = "loved the first act"
	require.NoError(t, store.UpdateBook(ctx, book))

	retrieved, err := store.GetBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, "loved the first act", retrieved.Notes)
	assert.True(t, retrieved.UpdatedAt.After(before))
}

func TestUpdateBook_NotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	book := createTestBook("book-ghost")
	err := store.UpdateBook(context.Background(), book)
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestListBooks_DefaultOrderIsUpdatedDescending(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	for _, bookID := range []string{"book-a", "book-b", "book-c"} {
		require.NoError(t, store.CreateBook(ctx, createTestBook(bookID)))
		time.Sleep(2 * time.Millisecond)
	}

	// Touch book-a so it becomes the most recently updated.
	first, err := store.GetBook(ctx, "book-a")
	require.NoError(t, err)
	first.Rating = 5
	require.NoError(t, store.UpdateBook(ctx, first))

	books, err := store.ListBooks(ctx, OrderByUpdatedAt, Descending)
	require.NoError(t, err)
	require.Len(t, books, 3)
	assert.Equal(t, "book-a", books[0].ID)
}

func TestListBooks_ByTitle(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	titles := map[string]string{
		"book-1": "zebra crossing",
		"book-2": "Annihilation",
		"book-3": "mexican gothic",
	}
	for bookID, title := range titles {
		book := createTestBook(bookID)
		book.Title = title
		require.NoError(t, store.CreateBook(ctx, book))
	}

	books, err := store.ListBooks(ctx, OrderByTitle, Ascending)
	require.NoError(t, err)
	require.Len(t, books, 3)
	// Title ordering is case-insensitive via the normalized index.
	assert.Equal(t, "Annihilation", books[0].Title)
	assert.Equal(t, "mexican gothic", books[1].Title)
	assert.Equal(t, "zebra crossing", books[2].Title)
}

func TestListBooks_Empty(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	books, err := store.ListBooks(context.Background(), OrderByUpdatedAt, Descending)
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestListBooksByStatus(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	reading := createTestBook("book-reading")
	reading.Status = domain.StatusReading
	require.NoError(t, store.CreateBook(ctx, reading))
	require.NoError(t, store.CreateBook(ctx, createTestBook("book-tbr")))

	books, err := store.ListBooksByStatus(ctx, domain.StatusReading)
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "book-reading", books[0].ID)
}

func TestListBooksByStatus_IndexFollowsUpdates(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	book := createTestBook("book-001")
	require.NoError(t, store.CreateBook(ctx, book))

	book.EnterStatus(domain.StatusReading, "2024-03-01")
	require.NoError(t, store.UpdateBook(ctx, book))

	tbrBooks, err := store.ListBooksByStatus(ctx, domain.StatusTBR)
	require.NoError(t, err)
	assert.Empty(t, tbrBooks)

	readingBooks, err := store.ListBooksByStatus(ctx, domain.StatusReading)
	require.NoError(t, err)
	require.Len(t, readingBooks, 1)
	assert.Equal(t, "book-001", readingBooks[0].ID)
}

func TestDeleteBook_CascadesToLogs(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, store.CreateBook(ctx, createTestBook("book-001")))
	require.NoError(t, store.CreateBook(ctx, createTestBook("book-002")))

	require.NoError(t, store.CreateLog(ctx, createTestLog("log-1", "book-001", "2024-03-01", 10)))
	require.NoError(t, store.CreateLog(ctx, createTestLog("log-2", "book-001", "2024-03-02", 20)))
	require.NoError(t, store.CreateLog(ctx, createTestLog("log-3", "book-002", "2024-03-01", 30)))

	removed, err := store.DeleteBook(ctx, "book-001")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	_, err = store.GetBook(ctx, "book-001")
	assert.ErrorIs(t, err, ErrBookNotFound)

	orphans, err := store.GetLogsForBook(ctx, "book-001")
	require.NoError(t, err)
	assert.Empty(t, orphans)

	// The other book's logs are untouched.
	survivors, err := store.GetLogsForBook(ctx, "book-002")
	require.NoError(t, err)
	assert.Len(t, survivors, 1)

	all, err := store.ListLogs(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestDeleteBook_WithNoLogs(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, store.CreateBook(ctx, createTestBook("book-001")))

	removed, err := store.DeleteBook(ctx, "book-001")
	require.NoError(t, err)
	assert.Zero(t, removed)

	_, err = store.GetBook(ctx, "book-001")
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestDeleteBook_NotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.DeleteBook(context.Background(), "book-missing")
	assert.ErrorIs(t, err, ErrBookNotFound)
}

// TestDeleteBook_NoPartialStateObservable exercises the cascade atomicity
// contract: a reader taking a consistent snapshot must never see the book
// absent while its logs remain, or the logs absent while the book remains
// with no delete in flight completed.
func TestDeleteBook_NoPartialStateObservable(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, store.CreateBook(ctx, createTestBook("book-001")))
	for i := range 20 {
		entry := createTestLog(fmt.Sprintf("log-%03d", i), "book-001", "2024-03-01", 1)
		require.NoError(t, store.CreateLog(ctx, entry))
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for range 200 {
			// Both reads share one snapshot.
			var bookGone bool
			var logCount int
			err := store.db.View(func(txn *badger.Txn) error {
				_, err := txn.Get(bookKey("book-001"))
				bookGone = errors.Is(err, badger.ErrKeyNotFound)

				prefix := []byte(logByBookPrefix + "book-001:")
				opts := badger.DefaultIteratorOptions
				opts.Prefix = prefix
				it := txn.NewIterator(opts)
				defer it.Close()
				for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
					logCount++
				}
				return nil
			})
			if err != nil {
				return
			}
			if bookGone && logCount > 0 {
				t.Errorf("observed book deleted with %d logs remaining", logCount)
				return
			}
			if !bookGone && logCount != 20 && logCount != 0 {
				t.Errorf("observed partial cascade: book present with %d logs", logCount)
				return
			}
		}
	}()

	_, err := store.DeleteBook(ctx, "book-001")
	require.NoError(t, err)
	<-done
}

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateLog(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	entry := createTestLog("log-1", "book-001", "2024-03-01", 12)

	require.NoError(t, store.CreateLog(ctx, entry))

	retrieved, err := store.GetLog(ctx, "log-1")
	require.NoError(t, err)
	assert.Equal(t, "book-001", retrieved.BookID)
	assert.Equal(t, "2024-03-01", retrieved.Date)
	assert.Equal(t, 12, retrieved.Pages)
}

func TestCreateLog_Duplicate(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	entry := createTestLog("log-1", "book-001", "2024-03-01", 12)

	require.NoError(t, store.CreateLog(ctx, entry))
	assert.ErrorIs(t, store.CreateLog(ctx, entry), ErrLogExists)
}

func TestGetLog_NotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.GetLog(context.Background(), "log-missing")
	assert.ErrorIs(t, err, ErrLogNotFound)
}

func TestDeleteLog(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, store.CreateLog(ctx, createTestLog("log-1", "book-001", "2024-03-01", 12)))
	require.NoError(t, store.DeleteLog(ctx, "log-1"))

	_, err := store.GetLog(ctx, "log-1")
	assert.ErrorIs(t, err, ErrLogNotFound)

	// Index entries are gone too.
	logs, err := store.GetLogsByDate(ctx, "2024-03-01")
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestDeleteLog_NotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	assert.ErrorIs(t, store.DeleteLog(context.Background(), "log-missing"), ErrLogNotFound)
}

func TestListLogs_OrderedByDateThenCreation(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	older := createTestLog("log-1", "book-001", "2024-03-02", 5)
	older.CreatedAt = time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC)
	newer := createTestLog("log-2", "book-001", "2024-03-02", 7)
	newer.CreatedAt = time.Date(2024, 3, 2, 12, 0, 0, 0, time.UTC)
	earliestDay := createTestLog("log-3", "book-001", "2024-03-01", 9)
	earliestDay.CreatedAt = time.Date(2024, 3, 1, 23, 0, 0, 0, time.UTC)

	// Insert out of order on purpose.
	require.NoError(t, store.CreateLog(ctx, newer))
	require.NoError(t, store.CreateLog(ctx, earliestDay))
	require.NoError(t, store.CreateLog(ctx, older))

	logs, err := store.ListLogs(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Equal(t, "log-3", logs[0].ID)
	assert.Equal(t, "log-1", logs[1].ID)
	assert.Equal(t, "log-2", logs[2].ID)
}

func TestGetLogsByDate(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, store.CreateLog(ctx, createTestLog("log-1", "book-001", "2024-03-01", 5)))
	require.NoError(t, store.CreateLog(ctx, createTestLog("log-2", "book-002", "2024-03-01", 7)))
	require.NoError(t, store.CreateLog(ctx, createTestLog("log-3", "book-001", "2024-03-02", 9)))

	logs, err := store.GetLogsByDate(ctx, "2024-03-01")
	require.NoError(t, err)
	assert.Len(t, logs, 2)

	logs, err = store.GetLogsByDate(ctx, "2024-03-03")
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestDeleteLogsForBook(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, store.CreateLog(ctx, createTestLog("log-1", "book-001", "2024-03-01", 5)))
	require.NoError(t, store.CreateLog(ctx, createTestLog("log-2", "book-001", "2024-03-02", 7)))
	require.NoError(t, store.CreateLog(ctx, createTestLog("log-3", "book-002", "2024-03-01", 9)))

	removed, err := store.DeleteLogsForBook(ctx, "book-001")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	remaining, err := store.ListLogs(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "log-3", remaining[0].ID)
}

func TestSettings_DefaultAndRoundtrip(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	settings, err := store.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "dark", settings.Theme)

	settings.Theme = "sepia"
	require.NoError(t, store.PutSettings(ctx, settings))

	reloaded, err := store.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sepia", reloaded.Theme)
}

package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/quietshelf/quietshelf-server/internal/domain"
	"github.com/quietshelf/quietshelf-server/internal/errors"
	"github.com/quietshelf/quietshelf-server/internal/id"
	"github.com/quietshelf/quietshelf-server/internal/sse"
	"github.com/quietshelf/quietshelf-server/internal/store"
)

// LogService orchestrates reading log operations.
type LogService struct {
	store  *store.Store
	events store.EventEmitter
	logger *slog.Logger
}

// NewLogService creates a new log service.
func NewLogService(store *store.Store, events store.EventEmitter, logger *slog.Logger) *LogService {
	return &LogService{
		store:  store,
		events: events,
		logger: logger,
	}
}

// CreateLogInput describes one reading session to record.
type CreateLogInput struct {
	BookID  string
	Date    string
	Pages   int
	Minutes int
	Note    string
}

// CreateLog records a reading session. The book must exist, the date
// defaults to today, and pages/minutes are stored only when positive; an
// entry with neither still counts as a logged day.
func (s *LogService) CreateLog(ctx context.Context, input CreateLogInput) (*domain.ReadingLog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if input.BookID == "" {
		return nil, errors.Validation("book_id is required")
	}

	exists, err := s.store.BookExists(ctx, input.BookID)
	if err != nil {
		return nil, fmt.Errorf("check book exists: %w", err)
	}
	if !exists {
		return nil, store.ErrBookNotFound
	}

	date, err := resolveDate(input.Date)
	if err != nil {
		return nil, err
	}

	logID, err := id.New(id.PrefixLog)
	if err != nil {
		return nil, fmt.Errorf("generate log ID: %w", err)
	}

	entry := &domain.ReadingLog{
		ID:        logID,
		BookID:    input.BookID,
		Date:      date,
		Note:      input.Note,
		CreatedAt: time.Now(),
	}
	if input.Pages > 0 {
		entry.Pages = input.Pages
	}
	if input.Minutes > 0 {
		entry.Minutes = input.Minutes
	}

	if err := s.store.CreateLog(ctx, entry); err != nil {
		return nil, fmt.Errorf("create log: %w", err)
	}

	s.logger.Info("reading log created",
		"log_id", logID,
		"book_id", input.BookID,
		"date", date,
	)
	s.events.Emit(sse.NewLogCreatedEvent(entry))

	return entry, nil
}

// ListLogs returns every log, ordered by date then creation time.
func (s *LogService) ListLogs(ctx context.Context) ([]*domain.ReadingLog, error) {
	return s.store.ListLogs(ctx)
}

// LogsByDate returns the logs recorded on one calendar date.
func (s *LogService) LogsByDate(ctx context.Context, date string) ([]*domain.ReadingLog, error) {
	if _, err := resolveDate(date); err != nil {
		return nil, err
	}
	return s.store.GetLogsByDate(ctx, date)
}

// DeleteLog removes a single log entry.
func (s *LogService) DeleteLog(ctx context.Context, logID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entry, err := s.store.GetLog(ctx, logID)
	if err != nil {
		return err
	}

	if err := s.store.DeleteLog(ctx, logID); err != nil {
		return err
	}

	s.logger.Info("reading log deleted", "log_id", logID, "book_id", entry.BookID)
	s.events.Emit(sse.NewLogDeletedEvent(logID, entry.BookID))

	return nil
}

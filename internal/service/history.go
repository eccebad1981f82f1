package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/quietshelf/quietshelf-server/internal/domain"
	"github.com/quietshelf/quietshelf-server/internal/errors"
	"github.com/quietshelf/quietshelf-server/internal/store"
	"github.com/quietshelf/quietshelf-server/internal/views"
)

// HistoryService assembles the derived read views: heatmap, calendar,
// daily logs, and shelf filter metadata. It loads a snapshot from the
// store and delegates the pure computation to the views package.
type HistoryService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewHistoryService creates a new history service.
func NewHistoryService(store *store.Store, logger *slog.Logger) *HistoryService {
	return &HistoryService{
		store:  store,
		logger: logger,
	}
}

// Heatmap returns the trailing 365 days of aggregated activity, today
// inclusive, oldest first. Quiet days are zero-filled.
func (s *HistoryService) Heatmap(ctx context.Context) ([]views.DaySummary, error) {
	logs, err := s.store.ListLogs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	return views.TrailingYear(logs, time.Now()), nil
}

// CalendarDay is one calendar cell with the books logged that day.
type CalendarDay struct {
	Date  string         `json:"date"` // empty for padding cells
	Total int            `json:"total"`
	Books []*domain.Book `json:"books,omitempty"`
}

// Calendar lays out one month of reading activity. Month is 1-based.
func (s *HistoryService) Calendar(ctx context.Context, year, month int) ([]CalendarDay, error) {
	if month < 1 || month > 12 {
		return nil, errors.Validationf("month must be between 1 and 12, got %d", month)
	}

	logs, err := s.store.ListLogs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	books, err := s.store.ListBooks(ctx, store.OrderByUpdatedAt, store.Descending)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	byDay := views.AggregateByDay(logs)

	cells := views.MonthCells(year, month-1)
	days := make([]CalendarDay, 0, len(cells))
	for _, date := range cells {
		day := CalendarDay{Date: date}
		if date != "" {
			day.Total = byDay[date].Total
			day.Books = views.BooksForDate(date, logs, books)
		}
		days = append(days, day)
	}
	return days, nil
}

// DailyLogs returns the logs recorded on one date, oldest first.
func (s *HistoryService) DailyLogs(ctx context.Context, date string) ([]*domain.ReadingLog, error) {
	if _, err := time.Parse(domain.DateLayout, date); err != nil {
		return nil, errors.Validationf("invalid date %q, expected YYYY-MM-DD", date)
	}
	logs, err := s.store.GetLogsByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("logs by date: %w", err)
	}
	return views.LogsForDate(logs, date), nil
}

// FilterMeta carries everything the shelf filter bar needs.
type FilterMeta struct {
	StatusCounts map[domain.BookStatus]int `json:"status_counts"`
	Tags         []string                  `json:"tags"`
	Genres       []string                  `json:"genres"`
}

// FilterMeta computes status counts plus the tag and genre universes.
func (s *HistoryService) FilterMeta(ctx context.Context) (*FilterMeta, error) {
	books, err := s.store.ListBooks(ctx, store.OrderByUpdatedAt, store.Descending)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return &FilterMeta{
		StatusCounts: views.StatusCounts(books),
		Tags:         views.TagUniverse(books),
		Genres:       views.GenreUniverse(books),
	}, nil
}

// FilterBooks lists books with the shelf filters applied conjunctively.
func (s *HistoryService) FilterBooks(ctx context.Context, orderBy store.OrderBy, direction store.Direction, status, tag, query string) ([]*domain.Book, error) {
	books, err := s.store.ListBooks(ctx, orderBy, direction)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return views.FilterBooks(books, status, tag, query), nil
}

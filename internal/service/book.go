// Package service provides the business logic layer for books, reading
// logs, history views, and settings.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/quietshelf/quietshelf-server/internal/domain"
	"github.com/quietshelf/quietshelf-server/internal/errors"
	"github.com/quietshelf/quietshelf-server/internal/id"
	"github.com/quietshelf/quietshelf-server/internal/normalize"
	"github.com/quietshelf/quietshelf-server/internal/sse"
	"github.com/quietshelf/quietshelf-server/internal/store"
)

// BookService orchestrates book operations.
type BookService struct {
	store  *store.Store
	events store.EventEmitter
	logger *slog.Logger
}

// NewBookService creates a new book service.
func NewBookService(store *store.Store, events store.EventEmitter, logger *slog.Logger) *BookService {
	return &BookService{
		store:  store,
		events: events,
		logger: logger,
	}
}

// CreateBookInput carries the lookup metadata plus the user's shelf choices
// for a new book. Metadata fields are copied verbatim from the chosen
// volume; Date binds to the milestone matching Status.
type CreateBookInput struct {
	SourceVolumeID string
	Title          string
	Authors        []string
	PageCount      int
	PublishedDate  string
	Description    string
	Genres         []string
	CoverURL       string

	Status domain.BookStatus
	Date   string
	Tags   []string
	Notes  string
	Rating int
}

// CreateBook shelves a new book. Status defaults to tbr, the milestone date
// defaults to today, and the milestone set depends on the chosen status:
// reading stamps StartedOn, finished stamps FinishedOn, dnf stamps DnfOn.
func (s *BookService) CreateBook(ctx context.Context, input CreateBookInput) (*domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if input.Title == "" {
		return nil, errors.Validation("title is required")
	}

	status := input.Status
	if status == "" {
		status = domain.StatusTBR
	}
	if !status.Valid() {
		return nil, errors.Validationf("unknown status %q", status)
	}

	if input.Rating < 0 || input.Rating > 5 {
		return nil, errors.Validation("rating must be between 1 and 5")
	}

	date, err := resolveDate(input.Date)
	if err != nil {
		return nil, err
	}

	bookID, err := id.New(id.PrefixBook)
	if err != nil {
		return nil, fmt.Errorf("generate book ID: %w", err)
	}

	book := &domain.Book{
		SourceVolumeID: input.SourceVolumeID,
		Title:          input.Title,
		Authors:        input.Authors,
		PageCount:      input.PageCount,
		PublishedDate:  input.PublishedDate,
		Description:    input.Description,
		Genres:         input.Genres,
		CoverURL:       input.CoverURL,
		Status:         status,
		Tags:           normalize.Tags(input.Tags),
		Notes:          input.Notes,
		Rating:         input.Rating,
	}
	book.ID = bookID
	book.InitTimestamps()
	book.EnterStatus(status, date)

	if err := s.store.CreateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}

	s.logger.Info("book created",
		"book_id", bookID,
		"title", book.Title,
		"status", string(book.Status),
	)
	s.events.Emit(sse.NewBookCreatedEvent(book))

	return book, nil
}

// GetBook retrieves a single book by ID.
func (s *BookService) GetBook(ctx context.Context, bookID string) (*domain.Book, error) {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	return book, nil
}

// ListBooks returns all books ordered by the given field and direction.
func (s *BookService) ListBooks(ctx context.Context, orderBy store.OrderBy, direction store.Direction) ([]*domain.Book, error) {
	return s.store.ListBooks(ctx, orderBy, direction)
}

// BookPatch contains the user-editable fields of a book. Nil pointers
// leave the stored value untouched.
type BookPatch struct {
	Title  *string
	Status *domain.BookStatus
	Tags   *[]string
	Notes  *string
	Rating *int
}

// UpdateBook applies a partial update. A status change goes through the
// milestone-stamping path so a first entry into reading/finished/dnf
// records its date.
func (s *BookService) UpdateBook(ctx context.Context, bookID string, patch BookPatch) (*domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		if *patch.Title == "" {
			return nil, errors.Validation("title cannot be empty")
		}
		book.Title = *patch.Title
	}
	if patch.Tags != nil {
		book.Tags = normalize.Tags(*patch.Tags)
	}
	if patch.Notes != nil {
		book.Notes = *patch.Notes
	}
	if patch.Rating != nil {
		if *patch.Rating < 0 || *patch.Rating > 5 {
			return nil, errors.Validation("rating must be between 1 and 5")
		}
		book.Rating = *patch.Rating
	}
	if patch.Status != nil && *patch.Status != book.Status {
		if !patch.Status.Valid() {
			return nil, errors.Validationf("unknown status %q", *patch.Status)
		}
		book.EnterStatus(*patch.Status, domain.Today())
	}

	if err := s.store.UpdateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}

	s.logger.Info("book updated", "book_id", bookID, "title", book.Title)
	s.events.Emit(sse.NewBookUpdatedEvent(book))

	return book, nil
}

// CycleStatus advances the book one step through the fixed status cycle
// tbr -> reading -> finished -> dnf -> tbr, stamping the milestone date on
// first entry into each status.
func (s *BookService) CycleStatus(ctx context.Context, bookID string) (*domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	book.EnterStatus(book.Status.Next(), domain.Today())

	if err := s.store.UpdateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("cycle status: %w", err)
	}

	s.logger.Info("book status cycled",
		"book_id", bookID,
		"status", string(book.Status),
	)
	s.events.Emit(sse.NewBookUpdatedEvent(book))

	return book, nil
}

// DeleteBook removes a book and, in the same transaction, every reading
// log that references it.
func (s *BookService) DeleteBook(ctx context.Context, bookID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	logsRemoved, err := s.store.DeleteBook(ctx, bookID)
	if err != nil {
		return err
	}

	s.logger.Info("book deleted", "book_id", bookID, "logs_removed", logsRemoved)
	s.events.Emit(sse.NewBookDeletedEvent(bookID, logsRemoved))

	return nil
}

// resolveDate validates a calendar date, defaulting to today when empty.
func resolveDate(date string) (string, error) {
	if date == "" {
		return domain.Today(), nil
	}
	if _, err := time.Parse(domain.DateLayout, date); err != nil {
		return "", errors.Validationf("invalid date %q, expected YYYY-MM-DD", date)
	}
	return date, nil
}

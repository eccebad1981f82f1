package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/dgraph-io/badger/v4"
	"github.com/quietshelf/quietshelf-server/internal/domain"
)

var (
	ErrBookNotFound = errors.New("book not found")
	ErrBookExists   = errors.New("book already exists")
)

// OrderBy selects the field ListBooks orders by.
type OrderBy string

const (
	OrderByUpdatedAt OrderBy = "updated_at"
	OrderByCreatedAt OrderBy = "created_at"
	OrderByTitle     OrderBy = "title"
)

// Direction selects ascending or descending order.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// Book Operations

// CreateBook creates a new book and its secondary indexes atomically.
func (s *Store) CreateBook(ctx context.Context, book *domain.Book) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := bookKey(book.ID)

	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check book exists: %w", err)
	}
	if exists {
		return ErrBookExists
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		data, err := json.Marshal(book)
		if err != nil {
			return fmt.Errorf("marshal book: %w", err)
		}

		if err := txn.Set(key, data); err != nil {
			return err
		}
		return setBookIndexes(txn, book)
	})
	if err != nil {
		return fmt.Errorf("create book: %w", err)
	}

	if s.logger != nil {
		s.logger.LogAttrs(ctx, slog.LevelInfo, "book created",
			slog.String("id", book.ID),
			slog.String("title", book.Title),
			slog.String("status", string(book.Status)),
		)
	}
	return nil
}

// GetBook retrieves a book by ID.
func (s *Store) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var book domain.Book
	err := s.get(bookKey(id), &book)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("get book: %w", err)
	}
	return &book, nil
}

// BookExists checks whether a book exists by ID.
func (s *Store) BookExists(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return s.exists(bookKey(id))
}

// UpdateBook writes the full book record and maintains its indexes
// atomically. The caller is expected to have loaded the book from the store;
// UpdatedAt is refreshed here so every mutation path gets it for free.
func (s *Store) UpdateBook(ctx context.Context, book *domain.Book) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	oldBook, err := s.GetBook(ctx, book.ID)
	if err != nil {
		return err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		book.Touch()

		data, err := json.Marshal(book)
		if err != nil {
			return fmt.Errorf("marshal book: %w", err)
		}
		if err := txn.Set(bookKey(book.ID), data); err != nil {
			return err
		}

		if err := deleteBookIndexes(txn, oldBook); err != nil {
			return err
		}
		return setBookIndexes(txn, book)
	})
	if err != nil {
		return fmt.Errorf("update book: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("book updated", "id", book.ID, "title", book.Title)
	}
	return nil
}

// DeleteBook deletes a book, its indexes, and every reading log referencing
// it in a single transaction, returning the number of logs removed. Either
// the book and all its logs disappear together or nothing changes; a
// concurrent reader never observes the book gone while its logs remain, or
// vice versa.
func (s *Store) DeleteBook(ctx context.Context, id string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	book, err := s.GetBook(ctx, id)
	if err != nil {
		return 0, err
	}

	var logsRemoved int
	err = s.db.Update(func(txn *badger.Txn) error {
		removed, err := deleteLogsForBookTxn(txn, id)
		if err != nil {
			return err
		}
		logsRemoved = removed

		if err := txn.Delete(bookKey(id)); err != nil {
			return err
		}
		return deleteBookIndexes(txn, book)
	})
	if err != nil {
		return 0, fmt.Errorf("delete book: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("book deleted", "id", id, "title", book.Title, "logs_removed", logsRemoved)
	}
	return logsRemoved, nil
}

// ListBooks returns all books ordered by the given field and direction.
// The default library view is ListBooks(ctx, OrderByUpdatedAt, Descending).
func (s *Store) ListBooks(ctx context.Context, orderBy OrderBy, direction Direction) ([]*domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch orderBy {
	case OrderByUpdatedAt, "":
		return s.listBooksByIndex(bookByUpdatedPrefix, direction)
	case OrderByTitle:
		return s.listBooksByIndex(bookByTitlePrefix, direction)
	case OrderByCreatedAt:
		books, err := s.scanAllBooks()
		if err != nil {
			return nil, err
		}
		slices.SortStableFunc(books, func(a, b *domain.Book) int {
			return a.CreatedAt.Compare(b.CreatedAt)
		})
		if direction == Descending {
			slices.Reverse(books)
		}
		return books, nil
	default:
		return nil, fmt.Errorf("unsupported order field: %s", orderBy)
	}
}

// ListBooksByStatus returns all books in the given status via the status index.
func (s *Store) ListBooksByStatus(ctx context.Context, status domain.BookStatus) ([]*domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ids, err := s.collectIndexValues([]byte(bookByStatusPrefix + string(status) + ":"))
	if err != nil {
		return nil, fmt.Errorf("list books by status: %w", err)
	}
	return s.booksByIDs(ids)
}

// listBooksByIndex walks a sortable index prefix and resolves books in
// index order. Descending order walks the index in reverse.
func (s *Store) listBooksByIndex(indexPrefix string, direction Direction) ([]*domain.Book, error) {
	prefix := []byte(indexPrefix)

	var ids []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = true
		opts.Reverse = direction == Descending

		it := txn.NewIterator(opts)
		defer it.Close()

		seek := prefix
		if opts.Reverse {
			// Seek past the end of the prefix range for reverse iteration.
			seek = append(append([]byte{}, prefix...), 0xFF)
		}

		for it.Seek(seek); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				ids = append(ids, string(val))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	return s.booksByIDs(ids)
}

// scanAllBooks returns every book via a record-prefix scan, unordered.
func (s *Store) scanAllBooks() ([]*domain.Book, error) {
	prefix := []byte(bookPrefix)
	var books []*domain.Book

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var book domain.Book
				if err := json.Unmarshal(val, &book); err != nil {
					return err
				}
				books = append(books, &book)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan books: %w", err)
	}
	return books, nil
}

// booksByIDs fetches books preserving the given ID order, skipping IDs whose
// record has vanished (stale index entry).
func (s *Store) booksByIDs(ids []string) ([]*domain.Book, error) {
	books := make([]*domain.Book, 0, len(ids))
	err := s.db.View(func(txn *badger.Txn) error {
		for _, bid := range ids {
			item, err := txn.Get(bookKey(bid))
			if err != nil {
				if errors.Is(err, badger.ErrKeyNotFound) {
					continue
				}
				return err
			}
			err = item.Value(func(val []byte) error {
				var book domain.Book
				if err := json.Unmarshal(val, &book); err != nil {
					return err
				}
				books = append(books, &book)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("resolve books: %w", err)
	}
	return books, nil
}

// collectIndexValues gathers every index value (record ID) under a prefix.
func (s *Store) collectIndexValues(prefix []byte) ([]string, error) {
	var ids []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = true

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				ids = append(ids, string(val))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// setBookIndexes writes all secondary index keys for a book.
func setBookIndexes(txn *badger.Txn, book *domain.Book) error {
	idValue := []byte(book.ID)
	if err := txn.Set(bookStatusIndexKey(string(book.Status), book.ID), idValue); err != nil {
		return err
	}
	if err := txn.Set(bookTitleIndexKey(book.Title, book.ID), idValue); err != nil {
		return err
	}
	return txn.Set(bookUpdatedIndexKey(book.UpdatedAt, book.ID), idValue)
}

// deleteBookIndexes removes all secondary index keys for a book as stored.
func deleteBookIndexes(txn *badger.Txn, book *domain.Book) error {
	if err := txn.Delete(bookStatusIndexKey(string(book.Status), book.ID)); err != nil {
		return err
	}
	if err := txn.Delete(bookTitleIndexKey(book.Title, book.ID)); err != nil {
		return err
	}
	return txn.Delete(bookUpdatedIndexKey(book.UpdatedAt, book.ID))
}

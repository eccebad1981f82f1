package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/quietshelf/quietshelf-server/internal/domain"
)

var (
	ErrLogNotFound = errors.New("reading log not found")
	ErrLogExists   = errors.New("reading log already exists")
)

// Reading Log Operations

// CreateLog creates a new reading log and its secondary indexes atomically.
// The store does not enforce that the referenced book exists; that check
// belongs to the service layer so storage stays free of cross-entity reads.
func (s *Store) CreateLog(ctx context.Context, log *domain.ReadingLog) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := logKey(log.ID)

	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check log exists: %w", err)
	}
	if exists {
		return ErrLogExists
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		data, err := json.Marshal(log)
		if err != nil {
			return fmt.Errorf("marshal log: %w", err)
		}
		if err := txn.Set(key, data); err != nil {
			return err
		}
		return setLogIndexes(txn, log)
	})
	if err != nil {
		return fmt.Errorf("create log: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("reading log created", "id", log.ID, "book_id", log.BookID, "date", log.Date)
	}
	return nil
}

// GetLog retrieves a reading log by ID.
func (s *Store) GetLog(ctx context.Context, id string) (*domain.ReadingLog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var log domain.ReadingLog
	err := s.get(logKey(id), &log)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrLogNotFound
		}
		return nil, fmt.Errorf("get log: %w", err)
	}
	return &log, nil
}

// DeleteLog removes a reading log and its indexes. Deleting a log that does
// not exist returns ErrLogNotFound.
func (s *Store) DeleteLog(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	log, err := s.GetLog(ctx, id)
	if err != nil {
		return err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(logKey(id)); err != nil {
			return err
		}
		return deleteLogIndexes(txn, log)
	})
	if err != nil {
		return fmt.Errorf("delete log: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("reading log deleted", "id", id, "book_id", log.BookID)
	}
	return nil
}

// ListLogs returns all reading logs ordered by date ascending, with the
// creation timestamp as tie-breaker for same-day entries.
func (s *Store) ListLogs(ctx context.Context) ([]*domain.ReadingLog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logs, err := s.scanAllLogs()
	if err != nil {
		return nil, err
	}
	sortLogs(logs)
	return logs, nil
}

// GetLogsByDate returns the logs for an exact calendar date via the date
// index, ordered by creation timestamp ascending.
func (s *Store) GetLogsByDate(ctx context.Context, date string) ([]*domain.ReadingLog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ids, err := s.collectIndexValues([]byte(logByDatePrefix + date + ":"))
	if err != nil {
		return nil, fmt.Errorf("logs by date: %w", err)
	}
	logs, err := s.logsByIDs(ids)
	if err != nil {
		return nil, err
	}
	sortLogs(logs)
	return logs, nil
}

// GetLogsForBook returns all logs referencing a book via the book index.
func (s *Store) GetLogsForBook(ctx context.Context, bookID string) ([]*domain.ReadingLog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ids, err := s.collectIndexValues([]byte(logByBookPrefix + bookID + ":"))
	if err != nil {
		return nil, fmt.Errorf("logs for book: %w", err)
	}
	logs, err := s.logsByIDs(ids)
	if err != nil {
		return nil, err
	}
	sortLogs(logs)
	return logs, nil
}

// DeleteLogsForBook bulk-deletes every log referencing the book in one
// transaction. DeleteBook composes the same transactional helper so the
// cascade is a single atomic unit.
func (s *Store) DeleteLogsForBook(ctx context.Context, bookID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var removed int
	err := s.db.Update(func(txn *badger.Txn) error {
		n, err := deleteLogsForBookTxn(txn, bookID)
		removed = n
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("delete logs for book: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("reading logs deleted for book", "book_id", bookID, "count", removed)
	}
	return removed, nil
}

// deleteLogsForBookTxn removes all logs for a book inside an open
// transaction. Returns the number of logs removed.
func deleteLogsForBookTxn(txn *badger.Txn, bookID string) (int, error) {
	prefix := []byte(logByBookPrefix + bookID + ":")

	// Collect IDs first; deleting while iterating the same prefix is
	// undefined behaviour on some iterator implementations.
	var ids []string
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	opts.PrefetchValues = true

	it := txn.NewIterator(opts)
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		err := it.Item().Value(func(val []byte) error {
			ids = append(ids, string(val))
			return nil
		})
		if err != nil {
			it.Close()
			return 0, err
		}
	}
	it.Close()

	removed := 0
	for _, logID := range ids {
		item, err := txn.Get(logKey(logID))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				// Stale index entry; clean it up and move on.
				continue
			}
			return removed, err
		}

		var log domain.ReadingLog
		err = item.Value(func(val []byte) error {
			return json.Unmarshal(val, &log)
		})
		if err != nil {
			return removed, err
		}

		if err := txn.Delete(logKey(logID)); err != nil {
			return removed, err
		}
		if err := deleteLogIndexes(txn, &log); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// scanAllLogs returns every reading log via a record-prefix scan, unordered.
func (s *Store) scanAllLogs() ([]*domain.ReadingLog, error) {
	prefix := []byte(logPrefix)
	var logs []*domain.ReadingLog

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var log domain.ReadingLog
				if err := json.Unmarshal(val, &log); err != nil {
					return err
				}
				logs = append(logs, &log)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan logs: %w", err)
	}
	return logs, nil
}

// logsByIDs fetches logs for the given IDs, skipping stale index entries.
func (s *Store) logsByIDs(ids []string) ([]*domain.ReadingLog, error) {
	logs := make([]*domain.ReadingLog, 0, len(ids))
	err := s.db.View(func(txn *badger.Txn) error {
		for _, lid := range ids {
			item, err := txn.Get(logKey(lid))
			if err != nil {
				if errors.Is(err, badger.ErrKeyNotFound) {
					continue
				}
				return err
			}
			err = item.Value(func(val []byte) error {
				var log domain.ReadingLog
				if err := json.Unmarshal(val, &log); err != nil {
					return err
				}
				logs = append(logs, &log)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("resolve logs: %w", err)
	}
	return logs, nil
}

// sortLogs orders logs by date ascending, creation time as tie-breaker.
func sortLogs(logs []*domain.ReadingLog) {
	slices.SortStableFunc(logs, func(a, b *domain.ReadingLog) int {
		if c := strings.Compare(a.Date, b.Date); c != 0 {
			return c
		}
		return a.CreatedAt.Compare(b.CreatedAt)
	})
}

// setLogIndexes writes all secondary index keys for a reading log.
func setLogIndexes(txn *badger.Txn, log *domain.ReadingLog) error {
	idValue := []byte(log.ID)
	if err := txn.Set(logDateIndexKey(log.Date, log.ID), idValue); err != nil {
		return err
	}
	if err := txn.Set(logBookIndexKey(log.BookID, log.ID), idValue); err != nil {
		return err
	}
	return txn.Set(logDateBookIndexKey(log.Date, log.BookID, log.ID), idValue)
}

// deleteLogIndexes removes all secondary index keys for a reading log.
func deleteLogIndexes(txn *badger.Txn, log *domain.ReadingLog) error {
	if err := txn.Delete(logDateIndexKey(log.Date, log.ID)); err != nil {
		return err
	}
	if err := txn.Delete(logBookIndexKey(log.BookID, log.ID)); err != nil {
		return err
	}
	return txn.Delete(logDateBookIndexKey(log.Date, log.BookID, log.ID))
}

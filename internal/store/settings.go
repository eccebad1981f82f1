package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/quietshelf/quietshelf-server/internal/domain"
)

// GetSettings returns the single user settings record, or the defaults if
// none has been saved yet.
func (s *Store) GetSettings(ctx context.Context) (*domain.Settings, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var settings domain.Settings
	err := s.get([]byte(settingsKey), &settings)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return domain.DefaultSettings(), nil
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return &settings, nil
}

// PutSettings saves the user settings record.
func (s *Store) PutSettings(ctx context.Context, settings *domain.Settings) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	settings.Touch()
	if err := s.set([]byte(settingsKey), settings); err != nil {
		return fmt.Errorf("put settings: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("settings updated", "theme", settings.Theme)
	}
	return nil
}

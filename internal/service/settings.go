package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/quietshelf/quietshelf-server/internal/domain"
	"github.com/quietshelf/quietshelf-server/internal/errors"
	"github.com/quietshelf/quietshelf-server/internal/sse"
	"github.com/quietshelf/quietshelf-server/internal/store"
)

// SettingsService manages the single user's presentation settings.
type SettingsService struct {
	store  *store.Store
	events store.EventEmitter
	logger *slog.Logger
}

// NewSettingsService creates a new settings service.
func NewSettingsService(store *store.Store, events store.EventEmitter, logger *slog.Logger) *SettingsService {
	return &SettingsService{
		store:  store,
		events: events,
		logger: logger,
	}
}

// GetSettings retrieves the settings, falling back to defaults when
// nothing has been saved yet.
func (s *SettingsService) GetSettings(ctx context.Context) (*domain.Settings, error) {
	return s.store.GetSettings(ctx)
}

// UpdateSettings changes the theme.
func (s *SettingsService) UpdateSettings(ctx context.Context, theme string) (*domain.Settings, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !domain.ValidTheme(theme) {
		return nil, errors.Validationf("unknown theme %q", theme)
	}

	settings, err := s.store.GetSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}

	settings.Theme = theme
	if err := s.store.PutSettings(ctx, settings); err != nil {
		return nil, fmt.Errorf("put settings: %w", err)
	}

	s.logger.Info("settings updated", "theme", theme)
	s.events.Emit(sse.NewSettingsUpdatedEvent(settings))

	return settings, nil
}

package service

import (
	"context"
	"log/slog"

	"github.com/quietshelf/quietshelf-server/internal/errors"
	"github.com/quietshelf/quietshelf-server/internal/metadata/googlebooks"
)

// MetadataService wraps the external book lookup.
type MetadataService struct {
	client *googlebooks.Client
	logger *slog.Logger
}

// NewMetadataService creates a new metadata service.
func NewMetadataService(client *googlebooks.Client, logger *slog.Logger) *MetadataService {
	return &MetadataService{
		client: client,
		logger: logger,
	}
}

// SearchVolumes looks up candidate volumes by title and/or author. Zero
// matches is a successful empty result; an unreachable or failing upstream
// surfaces as an UNAVAILABLE error the handler maps to 502.
func (s *MetadataService) SearchVolumes(ctx context.Context, title, author string) ([]googlebooks.Volume, error) {
	volumes, err := s.client.Search(ctx, title, author)
	if err != nil {
		if errors.Is(err, errors.ErrValidation) {
			return nil, err
		}
		s.logger.Warn("volume lookup failed",
			"title", title,
			"author", author,
			"error", err,
		)
		return nil, errors.Unavailable("book lookup failed").WithCause(err)
	}

	if volumes == nil {
		volumes = []googlebooks.Volume{}
	}
	return volumes, nil
}

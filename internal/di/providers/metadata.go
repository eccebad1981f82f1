package providers

import (
	"github.com/samber/do/v2"

	"github.com/quietshelf/quietshelf-server/internal/config"
	"github.com/quietshelf/quietshelf-server/internal/logger"
	"github.com/quietshelf/quietshelf-server/internal/metadata/googlebooks"
	"github.com/quietshelf/quietshelf-server/internal/service"
)

// LookupClientHandle wraps the Google Books client with shutdown capability.
type LookupClientHandle struct {
	*googlebooks.Client
}

// Shutdown implements do.Shutdownable.
func (h *LookupClientHandle) Shutdown() error {
	h.Client.Close()
	return nil
}

// ProvideLookupClient provides the Google Books API client.
func ProvideLookupClient(i do.Injector) (*LookupClientHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	var opts []googlebooks.Option
	if cfg.Lookup.BaseURL != "" {
		opts = append(opts, googlebooks.WithBaseURL(cfg.Lookup.BaseURL))
	}

	client := googlebooks.NewClient(log.Logger, opts...)
	log.Info("Book lookup client initialized")

	return &LookupClientHandle{Client: client}, nil
}

// ProvideMetadataService provides the external lookup service.
func ProvideMetadataService(i do.Injector) (*service.MetadataService, error) {
	log := do.MustInvoke[*logger.Logger](i)
	clientHandle := do.MustInvoke[*LookupClientHandle](i)

	return service.NewMetadataService(clientHandle.Client, log.Logger), nil
}

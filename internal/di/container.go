// Package di provides dependency injection configuration for the Quiet Shelf server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/quietshelf/quietshelf-server/internal/config"
	"github.com/quietshelf/quietshelf-server/internal/di/providers"
	"github.com/quietshelf/quietshelf-server/internal/logger"
	"github.com/quietshelf/quietshelf-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Database layer
	do.Provide(injector, providers.ProvideSSEManager)
	do.Provide(injector, providers.ProvideStore)

	// Lookup layer
	do.Provide(injector, providers.ProvideLookupClient)
	do.Provide(injector, providers.ProvideMetadataService)

	// Business services
	do.Provide(injector, providers.ProvideBookService)
	do.Provide(injector, providers.ProvideLogService)
	do.Provide(injector, providers.ProvideHistoryService)
	do.Provide(injector, providers.ProvideSettingsService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.SSEManagerHandle](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.LookupClientHandle](injector)
	_ = do.MustInvoke[*service.MetadataService](injector)

	_ = do.MustInvoke[*service.BookService](injector)
	_ = do.MustInvoke[*service.LogService](injector)
	_ = do.MustInvoke[*service.HistoryService](injector)
	_ = do.MustInvoke[*service.SettingsService](injector)

	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}

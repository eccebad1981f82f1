package providers

import (
	"github.com/samber/do/v2"

	"github.com/quietshelf/quietshelf-server/internal/logger"
	"github.com/quietshelf/quietshelf-server/internal/service"
)

// ProvideBookService provides the book service.
func ProvideBookService(i do.Injector) (*service.BookService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewBookService(storeHandle.Store, sseHandle.Manager, log.Logger), nil
}

// ProvideLogService provides the reading log service.
func ProvideLogService(i do.Injector) (*service.LogService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewLogService(storeHandle.Store, sseHandle.Manager, log.Logger), nil
}

// ProvideHistoryService provides the derived history views service.
func ProvideHistoryService(i do.Injector) (*service.HistoryService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewHistoryService(storeHandle.Store, log.Logger), nil
}

// ProvideSettingsService provides the client settings service.
func ProvideSettingsService(i do.Injector) (*service.SettingsService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSettingsService(storeHandle.Store, sseHandle.Manager, log.Logger), nil
}

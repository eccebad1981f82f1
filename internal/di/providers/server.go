package providers

import (
	"context"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/quietshelf/quietshelf-server/internal/api"
	"github.com/quietshelf/quietshelf-server/internal/config"
	"github.com/quietshelf/quietshelf-server/internal/logger"
	"github.com/quietshelf/quietshelf-server/internal/service"
	"github.com/quietshelf/quietshelf-server/internal/sse"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	bookService := do.MustInvoke[*service.BookService](i)
	logService := do.MustInvoke[*service.LogService](i)
	historyService := do.MustInvoke[*service.HistoryService](i)
	settingsService := do.MustInvoke[*service.SettingsService](i)
	metadataService := do.MustInvoke[*service.MetadataService](i)

	sseHandler := sse.NewHandler(sseHandle.Manager, log.Logger)

	handler := api.NewServer(bookService, logService, historyService, settingsService, metadataService, sseHandler, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr, "name", cfg.Server.Name)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr)

	return &HTTPServerHandle{Server: srv}, nil
}

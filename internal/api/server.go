// Package api provides the HTTP API server and handlers for the Quiet Shelf application.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/quietshelf/quietshelf-server/internal/http/response"
	"github.com/quietshelf/quietshelf-server/internal/service"
	"github.com/quietshelf/quietshelf-server/internal/sse"
	"github.com/quietshelf/quietshelf-server/internal/validation"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	bookService     *service.BookService
	logService      *service.LogService
	historyService  *service.HistoryService
	settingsService *service.SettingsService
	metadataService *service.MetadataService
	sseHandler      *sse.Handler
	validator       *validation.Validator
	router          *chi.Mux
	logger          *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(bookService *service.BookService, logService *service.LogService, historyService *service.HistoryService, settingsService *service.SettingsService, metadataService *service.MetadataService, sseHandler *sse.Handler, logger *slog.Logger) *Server {
	s := &Server{
		bookService:     bookService,
		logService:      logService,
		historyService:  historyService,
		settingsService: settingsService,
		metadataService: metadataService,
		sseHandler:      sseHandler,
		validator:       validation.New(),
		router:          chi.NewRouter(),
		logger:          logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	// The web UI runs on its own dev server during development.
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health check.
	s.router.Get("/health", s.handleHealthCheck)

	// One lookup per second per client, with room for a quick first page.
	lookupLimiter := newLookupLimiter(60, time.Minute, 10)

	// API v1.
	s.router.Route("/api/v1", func(r chi.Router) {
		// External book lookup.
		r.With(rateLimitMiddleware(lookupLimiter, s.logger)).
			Get("/search/volumes", s.handleSearchVolumes)

		// Books.
		r.Route("/books", func(r chi.Router) {
			r.Post("/", s.handleCreateBook)
			r.Get("/", s.handleListBooks)
			r.Get("/meta/filters", s.handleFilterMeta)
			r.Get("/{id}", s.handleGetBook)
			r.Patch("/{id}", s.handleUpdateBook)
			r.Delete("/{id}", s.handleDeleteBook)
			r.Post("/{id}/cycle", s.handleCycleStatus)
		})

		// Reading logs.
		r.Route("/logs", func(r chi.Router) {
			r.Post("/", s.handleCreateLog)
			r.Get("/", s.handleListLogs)
			r.Delete("/{id}", s.handleDeleteLog)
		})

		// Derived history views.
		r.Route("/history", func(r chi.Router) {
			r.Get("/heatmap", s.handleHeatmap)
			r.Get("/calendar", s.handleCalendar)
		})

		// Settings.
		r.Get("/settings", s.handleGetSettings)
		r.Put("/settings", s.handleUpdateSettings)

		// Change notifications.
		r.Get("/events", s.sseHandler.ServeHTTP)
	})
}

// handleHealthCheck returns server health status.
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"status": "healthy",
	}, s.logger)
}

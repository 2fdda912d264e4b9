package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// SetupRouter creates and configures a Chi router with all API routes.
func (s *Server) SetupRouter() http.Handler {
	r := chi.NewRouter()

	// Built-in Chi middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	// Custom middleware
	r.Use(s.LoggingMiddleware)

	// Health check endpoint
	r.Get("/api/health", s.HealthHandler)

	// Cache management routes
	r.Route("/api/cache", func(r chi.Router) {
		r.Get("/", s.ListCachesHandler)
		r.Get("/stats", s.StatsHandler)
		r.Post("/invalidate", s.InvalidateHandler)
		r.Post("/clear", s.ClearHandler)
	})

	// Build info
	r.Get("/api/version", s.VersionHandler)

	return r
}

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/energy-metrics-core/internal/auth"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// Submission and query endpoint, path kept stable for existing
	// gateway clients.
	r.Route("/api/energy_metrics", func(r chi.Router) {
		r.Use(s.authMiddleware)

		r.With(s.requireScope(auth.ScopeWrite)).Post("/", s.handleSubmitMetrics)
		r.With(s.requireScope(auth.ScopeRead)).Get("/", s.handleGetMetrics)
	})

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Health check (no auth required)
		r.Get("/health", s.handleHealth)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)
			r.Use(s.requireScope(auth.ScopeRead))

			r.Get("/sensors", s.handleSensors)
			r.Get("/state", s.handleState)

			// WebSocket (token via query parameter)
			r.Get("/ws", s.handleWebSocket)
		})
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
		"records": s.store.Count(),
	})
}

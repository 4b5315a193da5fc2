package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/samims/contactrelay/internal/handler"
	customMiddleware "github.com/samims/contactrelay/internal/middleware"
)

// NewRouter wires the public API. A nil rateLimit disables rate limiting on submissions.
func NewRouter(contactHandler *handler.ContactHandler, healthHandler *handler.HealthHandler, rateLimit func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(customMiddleware.MetricsMiddleware)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if rateLimit != nil {
				r.Use(rateLimit)
			}
			r.Post("/contact", contactHandler.Submit)
		})
		r.Get("/status", healthHandler.Status)
	})

	// Health & Readiness Routes
	r.Get("/healthz", healthHandler.Liveness)
	r.Get("/readyz", healthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

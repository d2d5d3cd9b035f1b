package rest

import (
	"net/http"

	"destek-backend/infrastructure/di"
	"destek-backend/interfaces/http/rest/handlers"
	"destek-backend/interfaces/http/rest/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Router creates and configures the HTTP router
type Router struct {
	container *di.Container
	logger    *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(container *di.Container) *Router {
	return &Router{
		container: container,
		logger:    container.Logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()
	cfg := rt.container.Config

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID", "Retry-After"},
			MaxAge:         300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	router.Route("/api/v1", func(r chi.Router) {
		askHandler := handlers.NewAskHandler(rt.container.AskService, rt.logger)
		cacheHandler := handlers.NewCacheHandler(rt.container.Cache, rt.logger)

		r.Post("/ask", askHandler.Ask)
		r.Get("/cache/stats", cacheHandler.Stats)

		// Admin endpoints
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.AuthenticateAdmin(cfg.JWTSecret, cfg.JWTIssuer))

			adminHandler := handlers.NewAdminHandler(rt.container.Corpus, rt.container.Metrics, rt.logger)
			r.Put("/faqs", adminHandler.UpsertFAQs)
			r.Delete("/faqs", adminHandler.DeleteFAQs)
			r.Post("/cache/clear", cacheHandler.Clear)
			r.Get("/metrics/daily/{date}", adminHandler.DailyMetrics)
			r.Get("/metrics/recent", adminHandler.RecentMetrics)
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}

package handlers

import (
	"log/slog"
	"time"

	"github.com/Lixing-Zhang/food-finder/internal/config"
	"github.com/Lixing-Zhang/food-finder/internal/metrics"
	"github.com/Lixing-Zhang/food-finder/internal/middleware"
	"github.com/Lixing-Zhang/food-finder/internal/service"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterDeps is everything the HTTP API is built from. Metrics is optional.
type RouterDeps struct {
	Foods    *service.FoodService
	Sessions *service.SessionService
	Auth     config.AuthConfig
	Metrics  *metrics.Collector
	Version  string
	Logger   *slog.Logger
}

// NewRouter builds the chi router serving the food API
func NewRouter(d RouterDeps) chi.Router {
	healthHandler := NewHealthHandler(d.Foods, d.Version, d.Logger)
	foodHandler := NewFoodHandler(d.Foods, d.Logger)
	sessionHandler := NewSessionHandler(d.Sessions, d.Logger)
	catalogHandler := NewCatalogHandler(d.Foods, d.Logger)

	r := chi.NewRouter()

	// Apply middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(d.Logger))
	if d.Metrics != nil {
		r.Use(middleware.Metrics(d.Metrics))
	}
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "api_key"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", healthHandler.ServeHTTP)
	if d.Metrics != nil {
		r.Handle("/metrics", d.Metrics.Handler())
	}

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/food", foodHandler.ListFoods)
		r.Get("/food/{foodId}", foodHandler.GetFood)
		r.Get("/category", foodHandler.ListCategories)

		r.Post("/session", sessionHandler.CreateSession)
		r.Route("/session/{sessionId}", func(r chi.Router) {
			r.Get("/", sessionHandler.GetSession)
			r.Delete("/", sessionHandler.DeleteSession)
			r.Put("/category", sessionHandler.SelectCategory)
			r.Put("/search", sessionHandler.SetSearchText)
		})

		r.Get("/catalog/stats", catalogHandler.Stats)
		r.With(middleware.APIKeyAuth(d.Auth)).Post("/catalog/reload", catalogHandler.Reload)
	})

	return r
}


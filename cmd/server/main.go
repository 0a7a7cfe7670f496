package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Lixing-Zhang/food-finder/internal/config"
	"github.com/Lixing-Zhang/food-finder/internal/filter"
	"github.com/Lixing-Zhang/food-finder/internal/handlers"
	"github.com/Lixing-Zhang/food-finder/internal/loader"
	"github.com/Lixing-Zhang/food-finder/internal/metrics"
	"github.com/Lixing-Zhang/food-finder/internal/repository"
	"github.com/Lixing-Zhang/food-finder/internal/service"
	"github.com/Lixing-Zhang/food-finder/internal/session"
	"github.com/Lixing-Zhang/food-finder/pkg/logger"
)

const version = "1.0.0"

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting food finder api server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"log_level", cfg.LogLevel,
		"data_source", cfg.Catalog.SourceURL,
	)

	collector := metrics.NewCollector(cfg.Metrics.Namespace)

	source, err := loader.New(cfg.Catalog.SourceURL, loader.Options{
		Timeout:         cfg.Catalog.LoadTimeoutDuration(),
		MaxPayloadBytes: cfg.Catalog.MaxPayloadBytes,
		Breaker: loader.BreakerSettings{
			MaxFailures: cfg.Catalog.BreakerMaxFailures,
			OpenTimeout: cfg.Catalog.BreakerTimeoutDuration(),
		},
		Logger: log,
	})
	if err != nil {
		log.Error("invalid data source", "error", err)
		os.Exit(1)
	}

	categories := make([]filter.Category, len(cfg.Catalog.Categories))
	for i, c := range cfg.Catalog.Categories {
		categories[i] = filter.Category(c)
	}
	engine := filter.NewEngine(
		filter.WithCategories(categories...),
		filter.WithDataCategories(cfg.Catalog.CategoriesFromData),
	)

	// Initialize repositories and services
	foodRepo := repository.NewInMemoryFoodRepository()
	foodService := service.NewFoodService(foodRepo, engine, source, collector, log)

	store := session.NewStore(cfg.Session.MaxSessions, cfg.Session.TTLDuration(), func(id string) {
		collector.ActiveSessions.Dec()
		log.Debug("session evicted", "session_id", id)
	})
	sessionService := service.NewSessionService(store, foodRepo, engine, collector, log)

	// The catalog is required to serve anything useful
	log.Info("loading catalog...")
	if _, err := foodService.Load(context.Background()); err != nil {
		log.Error("failed to load catalog", "error", err)
		os.Exit(1)
	}

	r := handlers.NewRouter(handlers.RouterDeps{
		Foods:    foodService,
		Sessions: sessionService,
		Auth:     cfg.Auth,
		Metrics:  collector,
		Version:  version,
		Logger:   log,
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}

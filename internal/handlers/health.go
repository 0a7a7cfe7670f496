package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// CatalogStatus reports whether a catalog has been published
type CatalogStatus interface {
	Ready(ctx context.Context) bool
}

// HealthHandler provides health check endpoint
type HealthHandler struct {
	catalog CatalogStatus
	version string
	logger  *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(catalog CatalogStatus, version string, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		catalog: catalog,
		version: version,
		logger:  logger,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Catalog   string    `json:"catalog"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}

// ServeHTTP handles health check requests. The service is unhealthy until
// a catalog is published.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "healthy",
		Catalog:   "ready",
		Timestamp: time.Now().UTC(),
		Version:   h.version,
	}
	status := http.StatusOK

	if !h.catalog.Ready(r.Context()) {
		response.Status = "unhealthy"
		response.Catalog = "not_loaded"
		status = http.StatusServiceUnavailable
	}

	WriteJSON(w, status, response, h.logger)
}

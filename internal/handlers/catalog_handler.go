package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/food-finder/internal/service"
)

// CatalogHandler handles catalog administration requests
type CatalogHandler struct {
	service *service.FoodService
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(service *service.FoodService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		logger:  logger,
	}
}

// Reload handles POST /api/catalog/reload
// A failed reload leaves the previous catalog in place.
func (h *CatalogHandler) Reload(w http.ResponseWriter, r *http.Request) {
	if _, err := h.service.Load(r.Context()); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	h.Stats(w, r)
}

// Stats handles GET /api/catalog/stats
func (h *CatalogHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, stats, h.logger)
}

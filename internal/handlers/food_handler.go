package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/food-finder/internal/filter"
	"github.com/Lixing-Zhang/food-finder/internal/service"
	"github.com/go-chi/chi/v5"
)

// FoodHandler handles catalog browsing requests
type FoodHandler struct {
	service *service.FoodService
	logger  *slog.Logger
}

// NewFoodHandler creates a new food handler
func NewFoodHandler(service *service.FoodService, logger *slog.Logger) *FoodHandler {
	return &FoodHandler{
		service: service,
		logger:  logger,
	}
}

// ListFoods handles GET /api/food?search=&category=
// Returns the items matching both the search text and the category, in
// catalog order.
func (h *FoodHandler) ListFoods(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	state := filter.State{
		SearchText: query.Get("search"),
		Category:   filter.ParseCategory(query.Get("category")),
	}

	items, err := h.service.ListFoods(r.Context(), state)
	if err != nil {
		h.logger.Info("failed to list foods", "search", state.SearchText, "category", state.Category.String(), "error", err)
		writeServiceError(w, err, h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, items, h.logger)
}

// GetFood handles GET /api/food/{foodId}
func (h *FoodHandler) GetFood(w http.ResponseWriter, r *http.Request) {
	foodID := chi.URLParam(r, "foodId")
	if foodID == "" {
		WriteError(w, http.StatusBadRequest, "Invalid ID supplied", h.logger)
		return
	}

	item, err := h.service.GetFood(r.Context(), foodID)
	if err != nil {
		h.logger.Info("failed to get food", "foodId", foodID, "error", err)
		writeServiceError(w, err, h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, item, h.logger)
}

// ListCategories handles GET /api/category
func (h *FoodHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	options, err := h.service.Categories(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, options, h.logger)
}

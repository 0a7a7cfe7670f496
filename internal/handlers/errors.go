package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/food-finder/internal/filter"
	"github.com/Lixing-Zhang/food-finder/internal/loader"
	"github.com/Lixing-Zhang/food-finder/internal/repository"
	"github.com/Lixing-Zhang/food-finder/internal/session"
)

// writeServiceError maps a service error to its HTTP status
func writeServiceError(w http.ResponseWriter, err error, logger *slog.Logger) {
	var invalid *filter.InvalidFilterError
	var loadErr *loader.LoadError

	switch {
	case errors.As(err, &invalid):
		WriteError(w, http.StatusBadRequest, invalid.Error(), logger)
	case errors.Is(err, repository.ErrFoodNotFound):
		WriteError(w, http.StatusNotFound, "Food not found", logger)
	case errors.Is(err, session.ErrSessionNotFound):
		WriteError(w, http.StatusNotFound, "Session not found", logger)
	case errors.Is(err, repository.ErrCatalogNotLoaded), errors.Is(err, session.ErrNotReady):
		WriteError(w, http.StatusServiceUnavailable, "Catalog not loaded", logger)
	case errors.As(err, &loadErr):
		WriteError(w, http.StatusBadGateway, loadErr.Error(), logger)
	default:
		logger.Error("unhandled service error", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", logger)
	}
}

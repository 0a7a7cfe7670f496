package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Lixing-Zhang/food-finder/internal/filter"
	"github.com/Lixing-Zhang/food-finder/internal/models"
	"github.com/Lixing-Zhang/food-finder/internal/service"
	"github.com/Lixing-Zhang/food-finder/internal/session"
	"github.com/go-chi/chi/v5"
)

// SessionResponse is the wire form of a browsing session
type SessionResponse struct {
	ID        string             `json:"id"`
	Status    session.LoadStatus `json:"status"`
	State     filter.State       `json:"state"`
	Items     []models.FoodItem  `json:"items"`
	Count     int                `json:"count"`
	UpdatedAt time.Time          `json:"updated_at"`
}

func newSessionResponse(s session.Session) SessionResponse {
	items := s.Visible
	if items == nil {
		items = []models.FoodItem{}
	}
	return SessionResponse{
		ID:        s.ID,
		Status:    s.Status,
		State:     s.State(),
		Items:     items,
		Count:     len(items),
		UpdatedAt: s.UpdatedAt,
	}
}

// SessionHandler handles browsing-session requests
type SessionHandler struct {
	service *service.SessionService
	logger  *slog.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(service *service.SessionService, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		service: service,
		logger:  logger,
	}
}

// CreateSession handles POST /api/session
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.service.Create(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	WriteJSON(w, http.StatusCreated, newSessionResponse(sess), h.logger)
}

// GetSession handles GET /api/session/{sessionId}
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.service.Get(r.Context(), chi.URLParam(r, "sessionId"))
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, newSessionResponse(sess), h.logger)
}

// SelectCategory handles PUT /api/session/{sessionId}/category
func (h *SessionHandler) SelectCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if err := decodeRequest(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}

	sess, err := h.service.SelectCategory(r.Context(), chi.URLParam(r, "sessionId"), filter.Category(req.Category))
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, newSessionResponse(sess), h.logger)
}

// SetSearchText handles PUT /api/session/{sessionId}/search
func (h *SessionHandler) SetSearchText(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := decodeRequest(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}

	sess, err := h.service.SetSearchText(r.Context(), chi.URLParam(r, "sessionId"), *req.Text)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, newSessionResponse(sess), h.logger)
}

// DeleteSession handles DELETE /api/session/{sessionId}
func (h *SessionHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "sessionId")); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

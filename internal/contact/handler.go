package contact

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/promosite/service-api/internal/contact/entity"
)

// Handler exposes the public contact form endpoint.
type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// CreateRequest is the contact form payload.
type CreateRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

// CreateResponse confirms the saved lead.
type CreateResponse struct {
	Message string          `json:"message"`
	Contact *entity.Contact `json:"contact"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	if req.Name == "" || req.Email == "" {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name and email are required"})
		return
	}

	c, err := h.svc.Create(r.Context(), req.Name, req.Email, req.Phone, req.Message, req.Type)
	if err != nil {
		h.logger.Warnw("create contact failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save message"})
		return
	}
	h.writeJSON(w, http.StatusCreated, CreateResponse{Message: "message received", Contact: c})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

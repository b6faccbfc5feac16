package user

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/promosite/service-api/internal/auth"
	"github.com/promosite/service-api/internal/user/entity"
)

// Handler exposes HTTP endpoints for auth and user management.
type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// RegisterRequest request body for the register endpoint.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// AuthResponse carries the signed token plus the public user projection.
type AuthResponse struct {
	Token string             `json:"token"`
	User  *entity.PublicUser `json:"user"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name, email and password are required"})
		return
	}
	u, token, err := h.svc.Register(r.Context(), req.Name, req.Email, req.Phone, req.Password)
	if err != nil {
		switch err {
		case ErrDuplicateEmail:
			h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "email already registered"})
		default:
			h.logger.Warnw("register failed", "err", err)
			h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create user"})
		}
		return
	}
	h.writeJSON(w, http.StatusCreated, AuthResponse{Token: token, User: u})
}

// LoginRequest login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	u, token, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch err {
		case ErrBadCredentials:
			h.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		default:
			h.logger.Warnw("login failed", "err", err)
			h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "login failed"})
		}
		return
	}
	// dual delivery: session cookie for browser clients, token in the body
	// for header-based clients
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.svc.tokens.TTL().Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
	h.writeJSON(w, http.StatusOK, AuthResponse{Token: token, User: u})
}

// Me returns the public projection for the authenticated identity.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.UserID(r.Context())
	if !ok {
		h.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "token required"})
		return
	}
	u, err := h.svc.Get(r.Context(), id)
	if err != nil {
		switch err {
		case ErrNotFound:
			h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "user not found"})
		default:
			h.logger.Warnw("me failed", "err", err)
			h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load user"})
		}
		return
	}
	h.writeJSON(w, http.StatusOK, u)
}

// Logout clears the session cookie. Token invalidation is left to
// client-side discard; tokens are short-lived.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.List(r.Context())
	if err != nil {
		h.logger.Warnw("list users failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list users"})
		return
	}
	h.writeJSON(w, http.StatusOK, users)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		switch err {
		case ErrNotFound:
			h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "user not found"})
		default:
			h.logger.Warnw("get user failed", "err", err)
			h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load user"})
		}
		return
	}
	h.writeJSON(w, http.StatusOK, u)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var in UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	u, err := h.svc.Update(r.Context(), r.PathValue("id"), in)
	if err != nil {
		switch err {
		case ErrNotFound:
			h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "user not found"})
		case ErrDuplicateEmail:
			h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "email already in use"})
		default:
			h.logger.Warnw("update user failed", "err", err)
			h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update user"})
		}
		return
	}
	h.writeJSON(w, http.StatusOK, u)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		switch err {
		case ErrNotFound:
			h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "user not found"})
		default:
			h.logger.Warnw("delete user failed", "err", err)
			h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete user"})
		}
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "user deleted"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

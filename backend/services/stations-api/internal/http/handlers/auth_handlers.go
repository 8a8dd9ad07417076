package handlers

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"evcharging/backend/services/stations-api/internal/service"
)

type authResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Token    string `json:"token"`
}

func newAuthResponse(res *service.AuthResult) authResponse {
	return authResponse{
		ID:       res.User.ID,
		Username: res.User.Username,
		Email:    res.User.Email,
		Token:    res.Token,
	}
}

// AuthHandlers serves /api/auth.
type AuthHandlers struct {
	auth   *service.AuthService
	errors errorWriter
}

// NewAuthHandlers returns handler.
func NewAuthHandlers(auth *service.AuthService, logger *zap.Logger, exposeErrorDetails bool) *AuthHandlers {
	return &AuthHandlers{
		auth:   auth,
		errors: errorWriter{logger: logger, exposeDetails: exposeErrorDetails},
	}
}

// Register handles POST /api/auth/register.
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, msgFieldsMissing)
		return
	}

	res, err := h.auth.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserExists):
			writeError(w, http.StatusBadRequest, "User already exists")
		case service.IsValidationError(err):
			writeError(w, http.StatusBadRequest, validationMessage(err))
		default:
			h.errors.internal(w, r, "register failed", err)
		}
		return
	}

	writeJSON(w, http.StatusCreated, newAuthResponse(res))
}

// Login handles POST /api/auth/login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	res, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		h.errors.internal(w, r, "login failed", err)
		return
	}

	writeJSON(w, http.StatusOK, newAuthResponse(res))
}

func validationMessage(err error) string {
	var verr *service.ValidationError
	if errors.As(err, &verr) && !verr.IsMissing() {
		return "Invalid user data"
	}
	return msgFieldsMissing
}

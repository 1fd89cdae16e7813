package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dom/asset-vault-api/internal/api/middleware"
	"github.com/dom/asset-vault-api/internal/api/respond"
	"github.com/dom/asset-vault-api/internal/domain"
	"github.com/dom/asset-vault-api/internal/logging"
	"github.com/dom/asset-vault-api/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type RegisterRequest struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

type UserResponse struct {
	User *domain.User `json:"user"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Message(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	// The confirmation never leaves the transport layer; the service only
	// sees the confirmed password.
	if req.Password != req.PasswordConfirmation {
		verr := domain.NewValidationError()
		verr.Add("password", "The password field confirmation does not match.")
		respond.ValidationFailed(w, verr)
		return
	}

	result, err := h.authService.Register(r.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			respond.ValidationFailed(w, verr)
			return
		}
		logging.FromContext(r.Context()).Error("register failed", "error", err)
		respond.ServerError(w)
		return
	}

	respond.JSON(w, http.StatusCreated, AuthResponse{User: result.User, Token: result.Token})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Message(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	result, err := h.authService.Login(r.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		var verr *domain.ValidationError
		switch {
		case errors.As(err, &verr):
			respond.ValidationFailed(w, verr)
		case errors.Is(err, domain.ErrInvalidCredentials):
			respond.Message(w, http.StatusUnauthorized, "The provided credentials are incorrect.")
		default:
			logging.FromContext(r.Context()).Error("login failed", "error", err)
			respond.ServerError(w)
		}
		return
	}

	respond.JSON(w, http.StatusOK, AuthResponse{User: result.User, Token: result.Token})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r.Context())
	if !ok {
		respond.Unauthenticated(w)
		return
	}
	respond.JSON(w, http.StatusOK, UserResponse{User: user})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.BearerToken(r.Context())
	if !ok {
		respond.Unauthenticated(w)
		return
	}

	if err := h.authService.Logout(r.Context(), token); err != nil {
		if errors.Is(err, domain.ErrUnauthenticated) {
			respond.Unauthenticated(w)
			return
		}
		logging.FromContext(r.Context()).Error("logout failed", "error", err)
		respond.ServerError(w)
		return
	}

	respond.Message(w, http.StatusOK, "Logged out.")
}

func (h *AuthHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.BearerToken(r.Context())
	if !ok {
		respond.Unauthenticated(w)
		return
	}

	if err := h.authService.LogoutAll(r.Context(), token); err != nil {
		if errors.Is(err, domain.ErrUnauthenticated) {
			respond.Unauthenticated(w)
			return
		}
		logging.FromContext(r.Context()).Error("logout all failed", "error", err)
		respond.ServerError(w)
		return
	}

	respond.Message(w, http.StatusOK, "Logged out from all devices.")
}

package handlers

import (
	"net/http"

	"github.com/dom/asset-vault-api/internal/api/respond"
	"github.com/dom/asset-vault-api/internal/domain"
	"github.com/dom/asset-vault-api/internal/logging"
	"github.com/dom/asset-vault-api/internal/repository"
)

// AdminHandler serves the operator-only endpoints. Access control lives in
// middleware.RequireAdmin; by the time a request lands here it is already
// authorized.
type AdminHandler struct {
	userRepo repository.UserRepository
}

func NewAdminHandler(userRepo repository.UserRepository) *AdminHandler {
	return &AdminHandler{userRepo: userRepo}
}

type UserListResponse struct {
	Users []*domain.User `json:"users"`
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userRepo.List(r.Context())
	if err != nil {
		logging.FromContext(r.Context()).Error("listing users", "error", err)
		respond.ServerError(w)
		return
	}
	respond.JSON(w, http.StatusOK, UserListResponse{Users: users})
}

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
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AssetHandler struct {
	assetService *service.AssetService
}

func NewAssetHandler(assetService *service.AssetService) *AssetHandler {
	return &AssetHandler{assetService: assetService}
}

type CreateAssetRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Metadata    json.RawMessage `json:"metadata"`
}

type UpdateAssetRequest struct {
	Name        *string         `json:"name"`
	Description *string         `json:"description"`
	Category    *string         `json:"category"`
	Metadata    json.RawMessage `json:"metadata"`
}

type AssetResponse struct {
	Asset *domain.Asset `json:"asset"`
}

type AssetListResponse struct {
	Assets []*domain.Asset `json:"assets"`
}

func (h *AssetHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r.Context())
	if !ok {
		respond.Unauthenticated(w)
		return
	}

	var req CreateAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Message(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	asset, err := h.assetService.Create(r.Context(), user.ID, service.CreateAssetInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Metadata:    datatypes.JSON(req.Metadata),
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, AssetResponse{Asset: asset})
}

func (h *AssetHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r.Context())
	if !ok {
		respond.Unauthenticated(w)
		return
	}

	assets, err := h.assetService.List(r.Context(), user.ID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, AssetListResponse{Assets: assets})
}

func (h *AssetHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r.Context())
	if !ok {
		respond.Unauthenticated(w)
		return
	}

	assetID, ok := assetIDParam(w, r)
	if !ok {
		return
	}

	asset, err := h.assetService.Get(r.Context(), user.ID, assetID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, AssetResponse{Asset: asset})
}

func (h *AssetHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r.Context())
	if !ok {
		respond.Unauthenticated(w)
		return
	}

	assetID, ok := assetIDParam(w, r)
	if !ok {
		return
	}

	var req UpdateAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Message(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	asset, err := h.assetService.Update(r.Context(), user.ID, assetID, service.UpdateAssetInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Metadata:    datatypes.JSON(req.Metadata),
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, AssetResponse{Asset: asset})
}

func (h *AssetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r.Context())
	if !ok {
		respond.Unauthenticated(w)
		return
	}

	assetID, ok := assetIDParam(w, r)
	if !ok {
		return
	}

	if err := h.assetService.Delete(r.Context(), user.ID, assetID); err != nil {
		h.respondError(w, r, err)
		return
	}

	respond.Message(w, http.StatusOK, "Asset deleted.")
}

func (h *AssetHandler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		respond.ValidationFailed(w, verr)
	case errors.Is(err, domain.ErrAssetNotFound):
		respond.Message(w, http.StatusNotFound, "Asset not found.")
	default:
		logging.FromContext(r.Context()).Error("asset request failed", "error", err)
		respond.ServerError(w)
	}
}

// assetIDParam parses the {id} route segment. Unparseable ids get the same
// 404 as unknown ones.
func assetIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Message(w, http.StatusNotFound, "Asset not found.")
		return uuid.Nil, false
	}
	return id, true
}

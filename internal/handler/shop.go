package handler

import (
	"encoding/json"
	"net/http"

	"mc-exchange-api/internal/middleware"
	"mc-exchange-api/internal/service"
	"mc-exchange-api/pkg/apierror"
	"mc-exchange-api/pkg/response"

	"github.com/go-chi/chi/v5"
)

// ShopHandler handles owner-facing shop management inside a region.
type ShopHandler struct {
	catalogService *service.CatalogService
}

// NewShopHandler creates a new shop handler.
func NewShopHandler(catalogService *service.CatalogService) *ShopHandler {
	return &ShopHandler{
		catalogService: catalogService,
	}
}

// OwnerRegions handles GET /api/owner/regions
func (h *ShopHandler) OwnerRegions(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetAuthUser(r.Context())
	if caller == nil {
		response.Error(w, apierror.Unauthorized("No auth provided"))
		return
	}

	regions, err := h.catalogService.OwnerRegions(r.Context(), caller)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, regions)
}

// Create handles POST /api/owner/regions/{id}/shops
func (h *ShopHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetAuthUser(r.Context())
	if caller == nil {
		response.Error(w, apierror.Unauthorized("No auth provided"))
		return
	}
	regionID := chi.URLParam(r, "id")

	var in service.ShopInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.Error(w, apierror.BadRequest("invalid JSON body"))
		return
	}
	defer r.Body.Close()

	shop, err := h.catalogService.CreateShop(r.Context(), caller, regionID, &in)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.Created(w, shop)
}

// Update handles PATCH /api/owner/regions/{id}/shops
func (h *ShopHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetAuthUser(r.Context())
	if caller == nil {
		response.Error(w, apierror.Unauthorized("No auth provided"))
		return
	}
	regionID := chi.URLParam(r, "id")

	var in service.ShopInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.Error(w, apierror.BadRequest("invalid JSON body"))
		return
	}
	defer r.Body.Close()

	shop, err := h.catalogService.UpdateShop(r.Context(), caller, regionID, &in)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, shop)
}

// Delete handles DELETE /api/owner/regions/{id}/shops/{shopID}
func (h *ShopHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetAuthUser(r.Context())
	if caller == nil {
		response.Error(w, apierror.Unauthorized("No auth provided"))
		return
	}
	regionID := chi.URLParam(r, "id")
	shopID := chi.URLParam(r, "shopID")

	if err := h.catalogService.DeleteShop(r.Context(), caller, regionID, shopID); err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, map[string]interface{}{"ok": true})
}

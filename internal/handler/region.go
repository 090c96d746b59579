package handler

import (
	"net/http"

	"mc-exchange-api/internal/service"
	"mc-exchange-api/pkg/apierror"
	"mc-exchange-api/pkg/response"

	"github.com/go-chi/chi/v5"
)

// RegionHandler handles public region reads.
type RegionHandler struct {
	catalogService *service.CatalogService
}

// NewRegionHandler creates a new region handler.
func NewRegionHandler(catalogService *service.CatalogService) *RegionHandler {
	return &RegionHandler{
		catalogService: catalogService,
	}
}

// List handles GET /api/regions with an optional ?slug= filter.
func (h *RegionHandler) List(w http.ResponseWriter, r *http.Request) {
	slug := r.URL.Query().Get("slug")

	regions, err := h.catalogService.Regions(r.Context(), slug)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, regions)
}

// Shops handles GET /api/regions/{slug}/shops
func (h *RegionHandler) Shops(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		response.Error(w, apierror.BadRequest("slug is required"))
		return
	}

	shops, err := h.catalogService.RegionShops(r.Context(), slug)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, shops)
}

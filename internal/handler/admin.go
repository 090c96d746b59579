package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"mc-exchange-api/internal/service"
	"mc-exchange-api/pkg/apierror"
	"mc-exchange-api/pkg/response"

	"github.com/go-chi/chi/v5"
)

// AdminHandler handles admin region management and the user directory.
type AdminHandler struct {
	catalogService *service.CatalogService
	authService    *service.AuthService
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(catalogService *service.CatalogService, authService *service.AuthService) *AdminHandler {
	return &AdminHandler{
		catalogService: catalogService,
		authService:    authService,
	}
}

// CreateRegion handles POST /api/admin/regions
func (h *AdminHandler) CreateRegion(w http.ResponseWriter, r *http.Request) {
	var in service.RegionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.Error(w, apierror.BadRequest("invalid JSON body"))
		return
	}
	defer r.Body.Close()

	region, err := h.catalogService.CreateRegion(r.Context(), &in)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.Created(w, region)
}

// UpdateRegion handles PATCH /api/admin/regions/{id}
func (h *AdminHandler) UpdateRegion(w http.ResponseWriter, r *http.Request) {
	regionID := chi.URLParam(r, "id")

	var in service.RegionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.Error(w, apierror.BadRequest("invalid JSON body"))
		return
	}
	defer r.Body.Close()

	region, err := h.catalogService.UpdateRegion(r.Context(), regionID, &in)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, region)
}

// DeleteRegion handles DELETE /api/admin/regions/{id}
func (h *AdminHandler) DeleteRegion(w http.ResponseWriter, r *http.Request) {
	regionID := chi.URLParam(r, "id")

	if err := h.catalogService.DeleteRegion(r.Context(), regionID); err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, map[string]interface{}{"ok": true})
}

// ListUsers handles GET /api/admin/users
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	perPage := queryInt(r, "per_page", 50)
	if perPage > 200 {
		perPage = 200
	}

	users, total, err := h.authService.ListUsers(r.Context(), page, perPage)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, map[string]interface{}{
		"users": users,
		"total": total,
	})
}

// SetRole handles PATCH /api/admin/users/{id}
func (h *AdminHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	var in struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.Error(w, apierror.BadRequest("invalid JSON body"))
		return
	}
	defer r.Body.Close()

	if err := h.authService.SetRole(r.Context(), userID, in.Role); err != nil {
		response.Error(w, apierror.BadRequest(err.Error()))
		return
	}

	response.OK(w, map[string]interface{}{
		"ok":   true,
		"id":   userID,
		"role": in.Role,
	})
}

// UserName handles GET /api/users/{id} - public display-name lookup so the
// frontend can label region owners.
func (h *AdminHandler) UserName(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	name, err := h.authService.UserName(r.Context(), userID)
	if err != nil {
		response.Error(w, apierror.NotFound("Unable to find user"))
		return
	}

	response.OK(w, map[string]interface{}{
		"id":   userID,
		"name": name,
	})
}

func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return def
	}
	return n
}

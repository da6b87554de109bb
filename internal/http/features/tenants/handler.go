package tenants

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tendant/simple-tenancy/internal/http/features/common"
	"github.com/tendant/simple-tenancy/internal/httputil"
	"github.com/tendant/simple-tenancy/pkg/domain"
	"github.com/tendant/simple-tenancy/pkg/repository"
)

// Handler handles tenant endpoints.
type Handler struct {
	logger     *slog.Logger
	tenants    *repository.TenantsRepository
	pagination common.Pagination
}

// NewHandler creates a new tenants handler.
func NewHandler(logger *slog.Logger, tenants *repository.TenantsRepository, pagination common.Pagination) *Handler {
	return &Handler{
		logger:     logger,
		tenants:    tenants,
		pagination: pagination,
	}
}

// CreateRequest represents a tenant creation request.
type CreateRequest struct {
	Name string `json:"name"`
}

// UpdateRequest represents a tenant update request. Omitted fields are unchanged.
type UpdateRequest struct {
	Name *string `json:"name,omitempty"`
}

// TenantResponse represents a tenant.
type TenantResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// RegisterRoutes registers tenant routes on a router mounted at /tenants.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// Create creates a tenant.
// POST /tenants/
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.DecodeError(w, err)
		return
	}

	in := domain.TenantCreate{Name: req.Name}
	if err := in.Normalize(); err != nil {
		common.WriteError(w, r, h.logger, err)
		return
	}

	tenant, err := h.tenants.Create(r.Context(), in)
	if err != nil {
		common.WriteError(w, r, h.logger, err)
		return
	}

	h.logger.Info("tenant created", "tenant_id", tenant.ID)
	httputil.JSON(w, http.StatusCreated, toResponse(tenant))
}

// List returns a page of tenants ordered by id.
// GET /tenants/?skip=&limit=
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.pagination.Page(r)
	if err != nil {
		common.WriteError(w, r, h.logger, err)
		return
	}

	tenants, err := h.tenants.List(r.Context(), page)
	if err != nil {
		common.WriteError(w, r, h.logger, err)
		return
	}

	resp := make([]TenantResponse, 0, len(tenants))
	for _, t := range tenants {
		resp = append(resp, toResponse(t))
	}
	httputil.JSON(w, http.StatusOK, resp)
}

// Get returns a single tenant.
// GET /tenants/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := common.PathID(r)
	if err != nil {
		common.WriteError(w, r, h.logger, err)
		return
	}

	tenant, err := h.tenants.GetByID(r.Context(), id)
	if err != nil {
		common.WriteError(w, r, h.logger, err)
		return
	}

	httputil.JSON(w, http.StatusOK, toResponse(tenant))
}

// Update applies a partial update to a tenant.
// PUT /tenants/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := common.PathID(r)
	if err != nil {
		common.WriteError(w, r, h.logger, err)
		return
	}

	var req UpdateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.DecodeError(w, err)
		return
	}

	in := domain.TenantUpdate{Name: req.Name}
	if err := in.Normalize(); err != nil {
		common.WriteError(w, r, h.logger, err)
		return
	}

	tenant, err := h.tenants.Update(r.Context(), id, in)
	if err != nil {
		common.WriteError(w, r, h.logger, err)
		return
	}

	httputil.JSON(w, http.StatusOK, toResponse(tenant))
}

// Delete removes a tenant and, through the cascade, all of its users.
// DELETE /tenants/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := common.PathID(r)
	if err != nil {
		common.WriteError(w, r, h.logger, err)
		return
	}

	if err := h.tenants.Delete(r.Context(), id); err != nil {
		common.WriteError(w, r, h.logger, err)
		return
	}

	h.logger.Info("tenant deleted", "tenant_id", id)
	httputil.NoContent(w)
}

func toResponse(t *domain.Tenant) TenantResponse {
	return TenantResponse{ID: t.ID, Name: t.Name}
}

package users

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tendant/simple-tenancy/internal/http/features/common"
	"github.com/tendant/simple-tenancy/internal/httputil"
	"github.com/tendant/simple-tenancy/pkg/domain"
	"github.com/tendant/simple-tenancy/pkg/repository"
)

// Handler handles user endpoints.
type Handler struct {
	logger     *slog.Logger
	users      *repository.UsersRepository
	tenants    *repository.TenantsRepository
	pagination common.Pagination
}

// NewHandler creates a new users handler.
func NewHandler(
	logger *slog.Logger,
	users *repository.UsersRepository,
	tenants *repository.TenantsRepository,
	pagination common.Pagination,
) *Handler {
	return &Handler{
		logger:     logger,
		users:      users,
		tenants:    tenants,
		pagination: pagination,
	}
}

// CreateRequest represents a user creation request.
type CreateRequest struct {
	Email            string                  `json:"email"`
	FullName         string                  `json:"full_name"`
	SubscriptionTier domain.SubscriptionTier `json:"subscription_tier"`
	TenantID         int64                   `json:"tenant_id"`
}

// UpdateRequest represents a user update request. Omitted fields are unchanged
// and tenant_id is not accepted.
type UpdateRequest struct {
	Email            *string                  `json:"email,omitempty"`
	FullName         *string                  `json:"full_name,omitempty"`
	SubscriptionTier *domain.SubscriptionTier `json:"subscription_tier,omitempty"`
}

// UserResponse represents a user.
type UserResponse struct {
	ID               int64                   `json:"id"`
	Email            string                  `json:"email"`
	FullName         string                  `json:"full_name"`
	SubscriptionTier domain.SubscriptionTier `json:"subscription_tier"`
	TenantID         int64                   `json:"tenant_id"`
}

// RegisterRoutes registers user routes on a router mounted at /users.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// Create creates a user inside an existing tenant.
// POST /users/
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.DecodeError(w, err)
		return
	}

	in := domain.UserCreate{
		Email:            req.Email,
		FullName:         req.FullName,
		SubscriptionTier: req.SubscriptionTier,
		TenantID:         req.TenantID,
	}
	if err := in.Normalize(); err != nil {
		common.WriteError(w, r, h.logger, err)
		return
	}

	// A tenant deleted after this check surfaces as ErrTenantReference, also a 404.
	exists, err := h.tenants.Exists(r.Context(), in.TenantID)
	if err != nil {
		common.WriteError(w, r, h.logger, err)
		return
	}
	if !exists {
		common.WriteError(w, r, h.logger, domain.ErrTenantNotFound)
		return
	}

	user, err := h.users.Create(r.Context(), in)
	if err != nil {
		common.WriteError(w, r, h.logger, err)
		return
	}

	h.logger.Info("user created", "user_id", user.ID, "tenant_id", user.TenantID)
	httputil.JSON(w, http.StatusCreated, toResponse(user))
}

// List returns a page of users, optionally restricted to one tenant.
// GET /users/?tenant_id=&skip=&limit=
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	tenantID, err := common.QueryInt64(r, "tenant_id")
	if err != nil {
		common.WriteError(w, r, h.logger, err)
		return
	}
	page, err := h.pagination.Page(r)
	if err != nil {
		common.WriteError(w, r, h.logger, err)
		return
	}

	users, err := h.users.List(r.Context(), repository.UserFilter{TenantID: tenantID, Page: page})
	if err != nil {
		common.WriteError(w, r, h.logger, err)
		return
	}

	resp := make([]UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, toResponse(u))
	}
	httputil.JSON(w, http.StatusOK, resp)
}

// Get returns a single user.
// GET /users/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := common.PathID(r)
	if err != nil {
		common.WriteError(w, r, h.logger, err)
		return
	}

	user, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		common.WriteError(w, r, h.logger, err)
		return
	}

	httputil.JSON(w, http.StatusOK, toResponse(user))
}

// Update applies a partial update to a user.
// PUT /users/{id}
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

	in := domain.UserUpdate{
		Email:            req.Email,
		FullName:         req.FullName,
		SubscriptionTier: req.SubscriptionTier,
	}
	if err := in.Normalize(); err != nil {
		common.WriteError(w, r, h.logger, err)
		return
	}

	user, err := h.users.Update(r.Context(), id, in)
	if err != nil {
		common.WriteError(w, r, h.logger, err)
		return
	}

	httputil.JSON(w, http.StatusOK, toResponse(user))
}

// Delete removes a user.
// DELETE /users/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := common.PathID(r)
	if err != nil {
		common.WriteError(w, r, h.logger, err)
		return
	}

	if err := h.users.Delete(r.Context(), id); err != nil {
		common.WriteError(w, r, h.logger, err)
		return
	}

	h.logger.Info("user deleted", "user_id", id)
	httputil.NoContent(w)
}

func toResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:               u.ID,
		Email:            u.Email,
		FullName:         u.FullName,
		SubscriptionTier: u.SubscriptionTier,
		TenantID:         u.TenantID,
	}
}

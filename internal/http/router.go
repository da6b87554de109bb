package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"github.com/tendant/simple-tenancy/internal/config"
	"github.com/tendant/simple-tenancy/internal/http/features/common"
	"github.com/tendant/simple-tenancy/internal/http/features/tenants"
	"github.com/tendant/simple-tenancy/internal/http/features/users"
	"github.com/tendant/simple-tenancy/internal/http/middleware"
	"github.com/tendant/simple-tenancy/internal/httputil"
	"github.com/tendant/simple-tenancy/pkg/repository"
)

const readinessTimeout = 2 * time.Second

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Logger          *slog.Logger
	DB              *sqlx.DB
	TenantsRepo     *repository.TenantsRepository
	UsersRepo       *repository.UsersRepository
	Metrics         *middleware.Metrics // nil disables /metrics
	RateLimitConfig config.RateLimitConfig
	SecurityHeaders config.SecurityHeadersConfig
	Validation      config.ValidationConfig
	Pagination      config.PaginationConfig
}

// NewRouter creates a new HTTP router with all routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Recover(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
	}
	r.Use(middleware.SecurityHeaders(cfg.SecurityHeaders))
	r.Use(middleware.RequestSizeLimit(cfg.Validation.MaxRequestBodySize))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httputil.Error(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httputil.Error(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	// Health checks
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/ready", readyHandler(cfg.DB, cfg.Logger))

	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	}

	pagination := common.Pagination{
		DefaultLimit: cfg.Pagination.DefaultLimit,
		MaxLimit:     cfg.Pagination.MaxLimit,
	}

	// Read and write endpoints draw from separate per-IP budgets
	rateLimit := middleware.ByMethod(middleware.CreateRateLimiters(cfg.RateLimitConfig, cfg.Logger))

	tenantsHandler := tenants.NewHandler(cfg.Logger, cfg.TenantsRepo, pagination)
	r.With(rateLimit).Route("/tenants", tenantsHandler.RegisterRoutes)

	usersHandler := users.NewHandler(cfg.Logger, cfg.UsersRepo, cfg.TenantsRepo, pagination)
	r.With(rateLimit).Route("/users", usersHandler.RegisterRoutes)

	return r
}

func readyHandler(db *sqlx.DB, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			logger.Warn("readiness check failed", "error", err)
			httputil.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		httputil.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// Package tenancy provides an embeddable multi-tenant tenant and user store
// with a ready-made JSON HTTP API.
//
// Setup:
//
//  1. Apply migrations (repository.Migrate, or the migrate command)
//  2. Create a Tenancy instance and mount its routes
//
// Basic usage:
//
//	db, _ := repository.NewDB(repository.Config{Driver: "postgres", Host: "localhost", ...})
//
//	t, err := tenancy.New(tenancy.Config{DB: db})
//	if err != nil {
//	    log.Fatal(err) // Will fail if migrations haven't been run
//	}
//
//	r := chi.NewRouter()
//	r.Mount("/api", t.Router())
//	http.ListenAndServe(":8080", r)
package tenancy

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"github.com/tendant/simple-tenancy/internal/http/features/common"
	"github.com/tendant/simple-tenancy/internal/http/features/tenants"
	"github.com/tendant/simple-tenancy/internal/http/features/users"
	"github.com/tendant/simple-tenancy/internal/http/middleware"
	"github.com/tendant/simple-tenancy/internal/httputil"
	"github.com/tendant/simple-tenancy/pkg/repository"
)

// Config holds the configuration for the tenancy library.
type Config struct {
	// DB is the database connection (required).
	DB *sqlx.DB

	// Driver is the database driver name (default: the driver DB was opened with).
	Driver string

	// DefaultPageSize is the list limit when none is given (default: 100).
	DefaultPageSize int

	// MaxPageSize caps the list limit (default: 1000).
	MaxPageSize int

	// MaxRequestBodySize caps request bodies in bytes (default: 1 MiB).
	MaxRequestBodySize int64

	// Logger is the structured logger (default: JSON to stdout).
	Logger *slog.Logger
}

// Tenancy is the main instance.
type Tenancy struct {
	config      Config
	db          *sqlx.DB
	tenantsRepo *repository.TenantsRepository
	usersRepo   *repository.UsersRepository
}

// New creates a new Tenancy instance with the given configuration.
// Returns an error if the required tables don't exist.
func New(cfg Config) (*Tenancy, error) {
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	if err := validateSchema(context.Background(), cfg.DB, cfg.Driver); err != nil {
		return nil, err
	}

	return &Tenancy{
		config:      cfg,
		db:          cfg.DB,
		tenantsRepo: repository.NewTenantsRepository(cfg.DB),
		usersRepo:   repository.NewUsersRepository(cfg.DB),
	}, nil
}

// Router returns a chi router with the tenant and user routes.
// Mount this on your main router:
//
//	r.Mount("/api", t.Router())
//
// Routes:
//
//	POST   /tenants/       - Create tenant
//	GET    /tenants/       - List tenants (skip, limit)
//	GET    /tenants/{id}   - Get tenant
//	PUT    /tenants/{id}   - Update tenant
//	DELETE /tenants/{id}   - Delete tenant and its users
//	POST   /users/         - Create user
//	GET    /users/         - List users (tenant_id, skip, limit)
//	GET    /users/{id}     - Get user
//	PUT    /users/{id}     - Update user
//	DELETE /users/{id}     - Delete user
func (t *Tenancy) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recover(t.config.Logger))
	r.Use(middleware.RequestSizeLimit(t.config.MaxRequestBodySize))

	pagination := common.Pagination{
		DefaultLimit: t.config.DefaultPageSize,
		MaxLimit:     t.config.MaxPageSize,
	}

	r.Route("/tenants", tenants.NewHandler(t.config.Logger, t.tenantsRepo, pagination).RegisterRoutes)
	r.Route("/users", users.NewHandler(t.config.Logger, t.usersRepo, t.tenantsRepo, pagination).RegisterRoutes)

	return r
}

// Handler returns an http.Handler for mounting with http.StripPrefix.
//
//	mux := http.NewServeMux()
//	mux.Handle("/api/", http.StripPrefix("/api", t.Handler()))
func (t *Tenancy) Handler() http.Handler {
	return t.Router()
}

// HealthHandler returns a readiness handler that pings the database.
func (t *Tenancy) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := t.db.PingContext(r.Context()); err != nil {
			httputil.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		httputil.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// Tenants returns the tenants repository for direct use.
func (t *Tenancy) Tenants() *repository.TenantsRepository {
	return t.tenantsRepo
}

// Users returns the users repository for direct use.
func (t *Tenancy) Users() *repository.UsersRepository {
	return t.usersRepo
}

func validateConfig(cfg *Config) error {
	if cfg.DB == nil {
		return errors.New("tenancy: DB is required")
	}
	if cfg.Driver == "" {
		cfg.Driver = cfg.DB.DriverName()
	}
	switch cfg.Driver {
	case repository.DriverPostgres, repository.DriverSQLite:
	default:
		return fmt.Errorf("tenancy: unsupported driver %q", cfg.Driver)
	}
	if cfg.MaxPageSize < 0 || cfg.DefaultPageSize < 0 {
		return errors.New("tenancy: page sizes must not be negative")
	}
	if cfg.MaxPageSize > 0 && cfg.DefaultPageSize > cfg.MaxPageSize {
		return errors.New("tenancy: DefaultPageSize must not exceed MaxPageSize")
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.MaxPageSize == 0 {
		cfg.MaxPageSize = 1000
	}
	if cfg.DefaultPageSize == 0 {
		cfg.DefaultPageSize = min(100, cfg.MaxPageSize)
	}
	if cfg.MaxRequestBodySize == 0 {
		cfg.MaxRequestBodySize = 1 << 20
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
}

// validateSchema checks that required database tables exist.
func validateSchema(ctx context.Context, db *sqlx.DB, driver string) error {
	requiredTables := []string{"tenants", "users"}

	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = current_schema() AND table_name = $1
	`
	if driver == repository.DriverSQLite {
		query = `SELECT name FROM sqlite_master WHERE type = 'table' AND name = $1`
	}

	for _, table := range requiredTables {
		var name string
		err := db.QueryRowContext(ctx, query, table).Scan(&name)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("tenancy: missing table '%s' - run migrations first", table)
		}
		if err != nil {
			return fmt.Errorf("tenancy: failed to check schema: %w", err)
		}
	}

	return nil
}

package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	httpserver "github.com/tendant/simple-tenancy/internal/http"
	"github.com/tendant/simple-tenancy/internal/http/middleware"
	"github.com/tendant/simple-tenancy/pkg/repository"
)

// ServeCmd runs the HTTP API.
type ServeCmd struct {
	ShutdownTimeout time.Duration `help:"Grace period for in-flight requests on shutdown." default:"30s"`
}

func (s *ServeCmd) Run(ctx context.Context, globals *Globals) error {
	cfg, logger, err := setup(globals)
	if err != nil {
		return err
	}

	db, err := openDB(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	logger.Info("connected to database", "driver", cfg.DBDriver)

	if cfg.AutoMigrate {
		if err := repository.Migrate(ctx, db, cfg.DBDriver, logger); err != nil {
			return err
		}
		logger.Info("database migrations applied")
	}

	var metrics *middleware.Metrics
	if cfg.MetricsEnabled {
		metrics = middleware.NewMetrics()
	}

	router := httpserver.NewRouter(httpserver.RouterConfig{
		Logger:          logger,
		DB:              db,
		TenantsRepo:     repository.NewTenantsRepository(db),
		UsersRepo:       repository.NewUsersRepository(db),
		Metrics:         metrics,
		RateLimitConfig: cfg.RateLimit,
		SecurityHeaders: cfg.SecurityHeaders,
		Validation:      cfg.Validation,
		Pagination:      cfg.Pagination,
	})

	server := configureHTTPServer(cfg.Addr(), router)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", server.Addr, "version", globals.Version)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
		return err
	}

	logger.Info("server stopped")
	return nil
}

package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tendant/simple-tenancy/pkg/repository"
)

// MigrateCmd groups the schema management subcommands.
type MigrateCmd struct {
	Up      MigrateUpCmd      `cmd:"" help:"Apply all pending migrations"`
	Down    MigrateDownCmd    `cmd:"" help:"Roll back migrations"`
	Version MigrateVersionCmd `cmd:"" help:"Print the current schema version"`
}

type MigrateUpCmd struct{}

func (c *MigrateUpCmd) Run(ctx context.Context, globals *Globals) error {
	return withMigrator(ctx, globals, func(m *repository.Migrator, logger *slog.Logger) error {
		if err := m.Up(); err != nil {
			return err
		}
		logger.Info("migrations applied")
		return nil
	})
}

type MigrateDownCmd struct {
	Steps int `help:"Number of migrations to roll back." default:"1"`
}

func (c *MigrateDownCmd) Run(ctx context.Context, globals *Globals) error {
	if c.Steps < 1 {
		return fmt.Errorf("--steps must be at least 1")
	}
	return withMigrator(ctx, globals, func(m *repository.Migrator, logger *slog.Logger) error {
		if err := m.Down(c.Steps); err != nil {
			return err
		}
		logger.Info("migrations rolled back", "steps", c.Steps)
		return nil
	})
}

type MigrateVersionCmd struct{}

func (c *MigrateVersionCmd) Run(ctx context.Context, globals *Globals) error {
	return withMigrator(ctx, globals, func(m *repository.Migrator, logger *slog.Logger) error {
		version, dirty, err := m.Version()
		if err != nil {
			return err
		}
		fmt.Printf("version=%d dirty=%t\n", version, dirty)
		return nil
	})
}

func withMigrator(ctx context.Context, globals *Globals, fn func(*repository.Migrator, *slog.Logger) error) error {
	cfg, logger, err := setup(globals)
	if err != nil {
		return err
	}

	db, err := openDB(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	m, err := repository.NewMigrator(ctx, db, cfg.DBDriver, logger)
	if err != nil {
		return err
	}
	defer m.Close()

	return fn(m, logger)
}

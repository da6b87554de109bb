package repository

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
)

//go:embed migrations/postgres/*.sql migrations/sqlite3/*.sql
var migrationsFS embed.FS

// Migrator applies the embedded schema migrations over an open database.
type Migrator struct {
	m       *migrate.Migrate
	release func() error
}

// NewMigrator returns a migrator for the embedded schema of the given driver.
// Closing the migrator never closes db.
func NewMigrator(ctx context.Context, db *sqlx.DB, driver string, logger *slog.Logger) (*Migrator, error) {
	if driver == "" {
		driver = DriverPostgres
	}

	src, err := iofs.New(migrationsFS, "migrations/"+driver)
	if err != nil {
		return nil, fmt.Errorf("load migrations: %w", err)
	}

	var (
		target  database.Driver
		release func() error
	)
	switch driver {
	case DriverPostgres:
		conn, connErr := db.Conn(ctx)
		if connErr != nil {
			src.Close()
			return nil, storageError("migration connection", connErr)
		}
		target, err = migratepostgres.WithConnection(ctx, conn, &migratepostgres.Config{})
		if err != nil {
			conn.Close()
		}
	case DriverSQLite:
		// The sqlite3 driver closes the whole pool on Close, so only the source is released.
		target, err = migratesqlite.WithInstance(db.DB, &migratesqlite.Config{})
	default:
		err = fmt.Errorf("unsupported database driver %q", driver)
	}
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, driver, target)
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("migration init: %w", err)
	}
	if logger != nil {
		m.Log = &migrateLogger{logger: logger}
	}

	if driver == DriverPostgres {
		release = func() error {
			srcErr, dbErr := m.Close()
			return errors.Join(srcErr, dbErr)
		}
	} else {
		release = sourceCloser(src)
	}

	return &Migrator{m: m, release: release}, nil
}

// Up applies all pending migrations.
func (m *Migrator) Up() error {
	if err := m.m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

// Down rolls back the given number of migrations.
func (m *Migrator) Down(steps int) error {
	if steps < 1 {
		return fmt.Errorf("migrate down: steps must be positive, got %d", steps)
	}
	if err := m.m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate down: %w", err)
	}
	return nil
}

// Version returns the applied schema version. A fresh database reports 0.
func (m *Migrator) Version() (version uint, dirty bool, err error) {
	version, dirty, err = m.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

// Close releases the migration connection.
func (m *Migrator) Close() error {
	return m.release()
}

// Migrate applies all pending migrations.
func Migrate(ctx context.Context, db *sqlx.DB, driver string, logger *slog.Logger) error {
	m, err := NewMigrator(ctx, db, driver, logger)
	if err != nil {
		return err
	}
	defer m.Close()
	return m.Up()
}

func sourceCloser(src source.Driver) func() error {
	return src.Close
}

type migrateLogger struct {
	logger *slog.Logger
}

func (l *migrateLogger) Printf(format string, v ...any) {
	l.logger.Info(fmt.Sprintf(format, v...))
}

func (l *migrateLogger) Verbose() bool { return false }

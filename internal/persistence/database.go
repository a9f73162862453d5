package persistence

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/spec-kit/transport-site/internal/config"
	"github.com/spec-kit/transport-site/internal/repository"
)

// Database is the opened primary store, either Postgres or SQLite.
type Database struct {
	Driver   string
	Postgres *Postgres
	SQLite   *sqlx.DB
	logger   *zap.Logger
}

// Open connects to the driver selected by cfg.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*Database, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		pg, err := NewPostgres(ctx, cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		return &Database{Driver: cfg.Driver, Postgres: pg, logger: logger}, nil
	case config.DriverSQLite:
		db, err := OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		logger.Info("opened sqlite database", zap.String("path", cfg.SQLitePath))
		return &Database{Driver: cfg.Driver, SQLite: db, logger: logger}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// NewSQLiteDatabase wraps an already opened SQLite handle.
func NewSQLiteDatabase(db *sqlx.DB, logger *zap.Logger) *Database {
	return &Database{Driver: config.DriverSQLite, SQLite: db, logger: logger}
}

// Migrate applies the schema for the active driver.
func (d *Database) Migrate(ctx context.Context) error {
	if d.Driver == config.DriverPostgres {
		sqlDB := d.Postgres.SQLDB()
		defer sqlDB.Close()
		return RunMigrations(ctx, sqlDB, DialectPostgres, d.logger)
	}
	return RunMigrations(ctx, d.SQLite.DB, DialectSQLite, d.logger)
}

// Ping checks connectivity to the active driver.
func (d *Database) Ping(ctx context.Context) error {
	if d.Driver == config.DriverPostgres {
		return d.Postgres.Ping(ctx)
	}
	return d.SQLite.PingContext(ctx)
}

// Admins returns the admin repository for the active driver.
func (d *Database) Admins() repository.AdminRepository {
	if d.Driver == config.DriverPostgres {
		return repository.NewAdminPostgresRepository(d.Postgres.Pool)
	}
	return repository.NewAdminSQLiteRepository(d.SQLite)
}

// Settings returns the settings repository for the active driver.
func (d *Database) Settings() repository.SettingsRepository {
	if d.Driver == config.DriverPostgres {
		return repository.NewSettingsPostgresRepository(d.Postgres.Pool)
	}
	return repository.NewSettingsSQLiteRepository(d.SQLite)
}

// Posts returns the post repository for the active driver.
func (d *Database) Posts() repository.PostRepository {
	if d.Driver == config.DriverPostgres {
		return repository.NewPostPostgresRepository(d.Postgres.Pool)
	}
	return repository.NewPostSQLiteRepository(d.SQLite)
}

// Pages returns the page repository for the active driver.
func (d *Database) Pages() repository.PageRepository {
	if d.Driver == config.DriverPostgres {
		return repository.NewPagePostgresRepository(d.Postgres.Pool)
	}
	return repository.NewPageSQLiteRepository(d.SQLite)
}

// Messages returns the contact message repository for the active driver.
func (d *Database) Messages() repository.MessageRepository {
	if d.Driver == config.DriverPostgres {
		return repository.NewMessagePostgresRepository(d.Postgres.Pool)
	}
	return repository.NewMessageSQLiteRepository(d.SQLite)
}

// Close releases the underlying connections.
func (d *Database) Close() {
	if d == nil {
		return
	}
	if d.Postgres != nil {
		d.Postgres.Close()
	}
	if d.SQLite != nil {
		_ = d.SQLite.Close()
	}
}

package cli

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/transport-site/internal/config"
	"github.com/spec-kit/transport-site/internal/observability"
	"github.com/spec-kit/transport-site/internal/persistence"
)

// loadRuntime reads configuration and builds the logger shared by every command.
func loadRuntime() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := observability.NewLogger(cfg.Logger, cfg.App.Name, cfg.App.Env)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, logger, nil
}

// openDatabase connects to the configured store and, when migrate is set, applies the schema.
func openDatabase(ctx context.Context, cfg *config.Config, logger *zap.Logger, migrate bool) (*persistence.Database, error) {
	db, err := persistence.Open(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	if migrate {
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}
	return db, nil
}

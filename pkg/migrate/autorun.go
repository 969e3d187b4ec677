package migrate

import (
	"context"
	"fmt"

	"github.com/angelmondragon/grocerylist-backend/pkg/config"
	"github.com/angelmondragon/grocerylist-backend/pkg/db"
	"github.com/angelmondragon/grocerylist-backend/pkg/db/models"
	"github.com/angelmondragon/grocerylist-backend/pkg/logger"
	"gorm.io/gorm"
)

// MaybeRunDev brings the schema up to date on startup. SQLite databases are
// always auto-migrated; Postgres runs the embedded goose migrations only in dev
// with the feature flag enabled.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if client.Dialect() == config.DriverSQLite {
		ctx = logg.WithField(ctx, "dialect", config.DriverSQLite)
		logg.Info(ctx, "auto-migrating sqlite schema")
		return AutoMigrateSQLite(client.DB())
	}

	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	meta := map[string]any{"env": cfg.App.Env, "dir": EmbeddedDir}
	ctx = logg.WithFields(ctx, meta)
	logg.Info(ctx, "running Goose migrations (dev auto-run)")

	if err := RunEmbedded(ctx, sqlDB, "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}

	logg.Info(ctx, "Goose migrations completed")
	return nil
}

// AutoMigrateSQLite creates the tables and indexes for every model.
func AutoMigrateSQLite(conn *gorm.DB) error {
	if err := conn.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

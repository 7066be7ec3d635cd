package migrate

import (
	"context"
	"fmt"

	"github.com/mariagaitan/condoflow-backend/pkg/config"
	"github.com/mariagaitan/condoflow-backend/pkg/db"
	"github.com/mariagaitan/condoflow-backend/pkg/logger"
)

// MaybeRunDev executes migrations automatically when the app runs in
// dev mode with the auto-migrate flag enabled.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.IsDev() || !cfg.Flags.AutoMigrate {
		return nil
	}

	sqlDB, err := client.DB.DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	ml := logg.WithFields(map[string]any{"env": cfg.App.Env, "dir": DefaultDir})
	ml.Info("running goose migrations (dev auto-run)")

	if err := Run(ctx, sqlDB, DefaultDir, "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}

	ml.Info("goose migrations completed")
	return nil
}

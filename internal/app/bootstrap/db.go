// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/agorahub/internal/app/system/indexes"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// EnsureSchema creates the unique and query indexes. The unique
// indexes are the authoritative guard for slug, membership and vote
// uniqueness, so startup fails fast when they cannot be built.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := indexes.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		logger.Error("index creation failed", zap.Error(err))
		return err
	}
	return nil
}

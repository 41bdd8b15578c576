// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"strings"

	topicstore "github.com/dalemusser/agorahub/internal/app/store/topics"
	"github.com/dalemusser/agorahub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if n := timeouts.ConfigureFromEnv(); n > 0 {
		logger.Info("timeouts overridden from environment", zap.Int("count", n))
	}
	return seedTopics(ctx, appCfg, deps, logger)
}

// seedTopics creates the configured topic names when missing. Already
// existing topics are left untouched, so the seed list is safe to keep
// in config permanently.
func seedTopics(ctx context.Context, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.SeedTopics == "" {
		return nil
	}
	store := topicstore.New(deps.MongoDatabase)
	for _, name := range strings.Split(appCfg.SeedTopics, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		_, err := store.Create(ctx, name)
		switch err {
		case nil:
			logger.Info("seeded topic", zap.String("name", name))
		case topicstore.ErrDuplicateName:
			// already present
		case topicstore.ErrInvalidName:
			logger.Warn("skipping unusable seed topic", zap.String("name", name))
		default:
			return err
		}
	}
	return nil
}

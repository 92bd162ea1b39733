// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown stops background workers and cleanly tears down DB
// connections.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if notifyWorker != nil {
		notifyWorker.Stop()
	}
	if jobRunner != nil {
		jobRunner.Stop()
	}
	if deps.ParishHubMongoClient != nil {
		logger.Info("disconnecting ParishHub MongoDB client")
		if err := deps.ParishHubMongoClient.Disconnect(ctx); err != nil {
			logger.Error("MongoDB disconnect failed", zap.Error(err))
			return err
		}
	}
	return nil
}

// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/parishhub/internal/app/notify"
	"github.com/dalemusser/parishhub/internal/app/stats"
	"github.com/dalemusser/parishhub/internal/app/system/tasks"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Background machinery created in Startup and torn down in Shutdown.
// BuildHandler also reaches for notifyEngine when wiring the write path.
var (
	notifyEngine *notify.Engine
	notifyWorker *notify.Worker
	jobRunner    *tasks.Runner
)

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
// It builds the notification engine, starts the outbox worker when
// fan-out is enabled, and schedules the daily rollup job.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.ParishHubMongoDatabase

	loc, err := time.LoadLocation(appCfg.TimeZone)
	if err != nil {
		return fmt.Errorf("load time zone: %w", err)
	}

	var gateway notify.Gateway
	if appCfg.NotifyEnabled {
		gateway = notify.NewTwilioGateway(
			appCfg.TwilioAccountSID,
			appCfg.TwilioAuthToken,
			appCfg.TwilioFromNumber,
		)
	}
	notifyEngine = notify.NewEngine(db, gateway, appCfg.NotifyEnabled, logger)

	if appCfg.NotifyEnabled {
		notifyWorker = notify.NewWorker(db, notifyEngine,
			appCfg.NotifyInterval, appCfg.NotifyStaleAfter, logger)
		notifyWorker.Start()
	} else {
		logger.Info("notification fan-out disabled; outbox worker not started")
	}

	aggregator := stats.New(db, nil, loc, logger)
	jobRunner = tasks.NewRunner(logger, aggregator.Job(appCfg.RollupInterval))
	jobRunner.Start()

	return nil
}

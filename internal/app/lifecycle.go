package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"autoparts.dev/storefront/internal/pkg/logger"
	"autoparts.dev/storefront/internal/pkg/worker"
)

// Start seeds the account directory and starts the idle context sweeper.
func (a *Application) Start(ctx context.Context) error {
	users := a.Directory.Count(ctx)
	logger.Info("Account directory ready", zap.Int("users", users))

	// The sweeper runs until Pools.Shutdown cancels the service context.
	interval := a.Config.Session.SweepInterval
	err := a.Pools.SubmitDetached(worker.PoolGeneral, func(ctx context.Context) {
		a.Registry.RunSweeper(ctx, interval)
	})
	if err != nil {
		return fmt.Errorf("start context sweeper: %w", err)
	}
	logger.Info("Context sweeper started",
		zap.Duration("interval", interval),
		zap.Duration("idle_timeout", a.Config.Session.IdleTimeout),
	)
	return nil
}

// Shutdown gracefully shuts down all application components.
func (a *Application) Shutdown() {
	if a.Pools != nil {
		a.Pools.Shutdown()
	}
	if a.Stores != nil {
		a.Stores.Close()
	}
	logger.Info("Application stopped")
}

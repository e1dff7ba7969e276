// Package app is the composition root of the storefront service.
package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"autoparts.dev/storefront/internal/api/handlers"
	"autoparts.dev/storefront/internal/audit"
	"autoparts.dev/storefront/internal/auth"
	"autoparts.dev/storefront/internal/catalog"
	"autoparts.dev/storefront/internal/config"
	"autoparts.dev/storefront/internal/infrastructure"
	"autoparts.dev/storefront/internal/locale"
	"autoparts.dev/storefront/internal/marketplace"
	"autoparts.dev/storefront/internal/nav"
	"autoparts.dev/storefront/internal/orders"
	"autoparts.dev/storefront/internal/pending"
	"autoparts.dev/storefront/internal/pkg/worker"
)

// Application holds composed application dependencies.
type Application struct {
	Config    *config.Config
	Router    *gin.Engine
	Stores    *infrastructure.Stores
	Pools     *worker.Pools
	Registry  *nav.Registry
	Directory *auth.Directory
}

// Bootstrap initializes all dependencies using manual DI.
func Bootstrap(ctx context.Context, cfg *config.Config) (*Application, error) {
	texts, err := locale.LoadCatalog()
	if err != nil {
		return nil, fmt.Errorf("load translations: %w", err)
	}

	stores, err := infrastructure.OpenStores(ctx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}

	pools, err := worker.NewPools(ctx, worker.PoolConfig{
		GeneralPoolSize:     cfg.Worker.GeneralPoolSize,
		SubmissionsPoolSize: cfg.Worker.SubmissionsPoolSize,
	})
	if err != nil {
		stores.Close()
		return nil, fmt.Errorf("init worker pools: %w", err)
	}

	defaultLang, _ := locale.Parse(cfg.Locale.Default)
	registry := nav.NewRegistry(stores.Store, nav.Options{
		Bus:           stores.Bus,
		MaxQuantity:   cfg.Cart.DefaultMaxQuantity,
		DefaultLocale: defaultLang,
	}, cfg.Session.IdleTimeout)

	directory := auth.NewDirectory(stores.Store, auth.Options{
		BcryptCost:        cfg.Auth.BcryptCost,
		MinPasswordLength: cfg.Auth.MinPasswordLength,
		SeedDemoUsers:     cfg.Auth.SeedDemoUsers,
	})

	server := handlers.NewServer(handlers.ServerDeps{
		Registry:       registry,
		Directory:      directory,
		Catalog:        catalog.New(catalog.Seed),
		Texts:          texts,
		Orders:         orders.NewService(stores.Store),
		Market:         marketplace.New(stores.Store),
		Tracker:        pending.NewTracker(pools, cfg.Submission.Delay, cfg.Submission.Retention),
		Bus:            stores.Bus,
		Pools:          pools,
		Audit:          audit.NewLogger(stores.Store),
		StorePing:      stores.Ping,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	return &Application{
		Config:    cfg,
		Router:    newRouter(cfg, server),
		Stores:    stores,
		Pools:     pools,
		Registry:  registry,
		Directory: directory,
	}, nil
}

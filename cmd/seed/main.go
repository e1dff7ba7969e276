// Package main seeds a storefront store with the demo accounts and a small
// set of marketplace fixtures.
//
// The server seeds demo accounts on first use; this command does the same
// ahead of time for a persistent backend and adds one project and one
// service so the marketplace pages are not empty. Running it twice changes
// nothing.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"autoparts.dev/storefront/internal/auth"
	"autoparts.dev/storefront/internal/config"
	"autoparts.dev/storefront/internal/infrastructure"
	"autoparts.dev/storefront/internal/marketplace"
	"autoparts.dev/storefront/internal/pkg/logger"
	"autoparts.dev/storefront/internal/store"
)

const (
	defaultCustomerName     = "Seed Customer"
	defaultCustomerEmail    = "seed-customer@autoparts.demo"
	defaultCustomerPassword = "seed-customer-123"

	defaultProjectTitle = "Custom roof rack"
	defaultServiceTitle = "Brake inspection"

	// Owners of the fixtures; demo accounts have stable ids.
	demoCustomerID = "demo-customer"
	demoVendorID   = "demo-vendor"
)

type fixtureConfig struct {
	CustomerName     string
	CustomerEmail    string
	CustomerPassword string

	ProjectTitle string
	ServiceTitle string
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "seed error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	stores, err := infrastructure.OpenStores(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer stores.Close()

	logger.Info("Starting data seeding...", zap.String("backend", cfg.Store.Backend))

	fx := loadFixtureConfig()
	dir := auth.NewDirectory(stores.Store, auth.Options{
		BcryptCost:        cfg.Auth.BcryptCost,
		MinPasswordLength: cfg.Auth.MinPasswordLength,
		SeedDemoUsers:     true,
	})
	if err := seed(ctx, stores.Store, dir, fx); err != nil {
		return err
	}

	fmt.Printf("storefront fixtures ready (users=%d customer=%s)\n", dir.Count(ctx), fx.CustomerEmail)
	return nil
}

func loadFixtureConfig() fixtureConfig {
	return fixtureConfig{
		CustomerName:     envOrDefault("SEED_CUSTOMER_NAME", defaultCustomerName),
		CustomerEmail:    envOrDefault("SEED_CUSTOMER_EMAIL", defaultCustomerEmail),
		CustomerPassword: envOrDefault("SEED_CUSTOMER_PASSWORD", defaultCustomerPassword),
		ProjectTitle:     envOrDefault("SEED_PROJECT_TITLE", defaultProjectTitle),
		ServiceTitle:     envOrDefault("SEED_SERVICE_TITLE", defaultServiceTitle),
	}
}

func envOrDefault(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func seed(ctx context.Context, s store.Store, dir *auth.Directory, fx fixtureConfig) error {
	if err := ensureCustomer(ctx, dir, fx); err != nil {
		return fmt.Errorf("ensure customer: %w", err)
	}
	market := marketplace.New(s)
	if err := ensureProject(ctx, market, fx); err != nil {
		return fmt.Errorf("ensure project: %w", err)
	}
	if err := ensureService(ctx, market, fx); err != nil {
		return fmt.Errorf("ensure service: %w", err)
	}
	logger.Info("Data seeding completed successfully")
	return nil
}

func ensureCustomer(ctx context.Context, dir *auth.Directory, fx fixtureConfig) error {
	_, err := dir.Register(ctx, auth.NewUser{
		Name:            fx.CustomerName,
		Email:           fx.CustomerEmail,
		Password:        fx.CustomerPassword,
		ConfirmPassword: fx.CustomerPassword,
	})
	if errors.Is(err, auth.ErrEmailTaken) {
		logger.Info("Seed customer already exists, skipping", zap.String("email", fx.CustomerEmail))
		return nil
	}
	return err
}

func ensureProject(ctx context.Context, market *marketplace.Market, fx fixtureConfig) error {
	for _, p := range market.Projects(ctx) {
		if p.Title == fx.ProjectTitle {
			logger.Info("Project already exists, skipping", zap.String("title", p.Title))
			return nil
		}
	}
	_, err := market.CreateProject(ctx, demoCustomerID, marketplace.Project{
		Title:       fx.ProjectTitle,
		Description: "Aluminium roof rack for a Land Cruiser 200, matte black.",
		CarType:     "toyota",
		Model:       "land cruiser",
		Budget:      1500,
	})
	return err
}

func ensureService(ctx context.Context, market *marketplace.Market, fx fixtureConfig) error {
	for _, s := range market.Services(ctx) {
		if s.Title == fx.ServiceTitle {
			logger.Info("Service already exists, skipping", zap.String("title", s.Title))
			return nil
		}
	}
	_, err := market.CreateService(ctx, demoVendorID, marketplace.Service{
		Title:       fx.ServiceTitle,
		Description: "Pad, disc and fluid check with a written report.",
		Category:    "brakes",
		PriceFrom:   120,
		City:        "Riyadh",
	})
	return err
}

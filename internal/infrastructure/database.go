// Package infrastructure opens the persistent store backend selected in
// configuration and wraps it so committed writes reach the change bus.
package infrastructure

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"autoparts.dev/storefront/internal/config"
	"autoparts.dev/storefront/internal/pkg/logger"
	"autoparts.dev/storefront/internal/store"
)

// Stores contains the opened backend and its notifying wrapper.
type Stores struct {
	// Backend is the raw store. Writes made to it directly are not published.
	Backend store.Store

	// Store publishes every committed write on Bus. Everything in the
	// application writes through it.
	Store *store.Notifying

	Bus *store.Bus

	// Pool is set for the postgres backend only.
	Pool *pgxpool.Pool
}

type pinger interface {
	Ping(ctx context.Context) error
}

// OpenStores opens the backend named by cfg.Backend.
func OpenStores(ctx context.Context, cfg config.StoreConfig) (*Stores, error) {
	st := &Stores{Bus: store.NewBus()}

	switch cfg.Backend {
	case config.BackendMemory:
		st.Backend = store.NewMemory()
	case config.BackendSQLite:
		s, err := store.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		st.Backend = s
	case config.BackendPostgres:
		pool, err := NewPostgresPool(ctx, cfg)
		if err != nil {
			return nil, err
		}
		s, err := store.NewPostgres(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("open postgres store: %w", err)
		}
		st.Backend, st.Pool = s, pool
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}

	st.Store = store.NewNotifying(st.Backend, st.Bus)
	logger.Info("Store opened", zap.String("backend", cfg.Backend))
	return st, nil
}

// NewPostgresPool creates the connection pool of the postgres backend.
func NewPostgresPool(ctx context.Context, cfg config.StoreConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}
	poolConfig.MaxConns = cfg.MaxConns
	poolConfig.MinConns = cfg.MinConns
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	poolConfig.HealthCheckPeriod = time.Minute

	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, "SET timezone = 'UTC'")
		return err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Info("Database connection pool created",
		zap.Int32("max_conns", cfg.MaxConns),
		zap.Int32("min_conns", cfg.MinConns),
	)
	return pool, nil
}

// Ping checks the backend; backends without a connection always pass.
func (s *Stores) Ping(ctx context.Context) error {
	if p, ok := s.Backend.(pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Close closes the backend and then the pool it may use.
func (s *Stores) Close() {
	if s.Backend != nil {
		if err := s.Backend.Close(); err != nil {
			logger.Warn("Closing store failed", zap.Error(err))
		}
	}
	if s.Pool != nil {
		s.Pool.Close()
	}
}

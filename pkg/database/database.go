package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// PoolConfig holds connection pool settings
type PoolConfig struct {
	URL      string
	MaxConns int32
	MinConns int32
}

// NewPool creates the process-wide connection pool and verifies connectivity.
// The caller owns the pool and must Close it on shutdown.
func NewPool(ctx context.Context, cfg PoolConfig, logger *logrus.Logger) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if cfg.MaxConns > 0 {
		config.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		config.MinConns = cfg.MinConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"max_conns": config.MaxConns,
		"min_conns": config.MinConns,
	}).Info("Database connected successfully")

	return pool, nil
}

// ClosePool releases every pooled connection.
func ClosePool(pool *pgxpool.Pool, logger *logrus.Logger) {
	if pool != nil {
		pool.Close()
		logger.Info("Database disconnected")
	}
}

// Package persist хранит сохранения персонажей и таблицу присутствия.
// Postgres через pgx; для разработки без базы есть память.
package persist

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/HonungsGrabb/rpg-together/internal/config"
	"github.com/HonungsGrabb/rpg-together/pkg/logger"
)

// DB оборачивает пул соединений pgx.
type DB struct {
	Pool *pgxpool.Pool
}

func NewDB(ctx context.Context, cfg config.Database) (*DB, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to db: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	logger.Log.WithField("component", "persist").Info("Database connected")
	return &DB{Pool: pool}, nil
}

func (db *DB) Close() {
	db.Pool.Close()
}

// Package db wraps gorm/pgx connectivity so every context's postgres adapter
// shares one pooling and transaction-helper surface.
package db

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Postgres wraps a gorm handle over a pgx-backed connection pool.
type Postgres struct {
	DB *gorm.DB
}

// Options tunes the underlying pool; zero values fall back to conservative
// defaults suitable for a single gateway/publisher/projector process.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Connect opens a pool against dsn and verifies connectivity with a ping.
func Connect(ctx context.Context, dsn string, opts Options) (*Postgres, error) {
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("db: open: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("db: acquire sql.DB: %w", err)
	}

	maxOpen := opts.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 10
	}
	maxIdle := opts.MaxIdleConns
	if maxIdle <= 0 {
		maxIdle = 2
	}
	lifetime := opts.ConnMaxLifetime
	if lifetime <= 0 {
		lifetime = 30 * time.Minute
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetConnMaxLifetime(lifetime)

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("db: ping: %w", err)
	}

	return &Postgres{DB: gdb}, nil
}

// WithTx runs fn inside a single transaction, rolling back on any error so
// callers (the gateway append path, the projector apply path) never commit
// a partial write.
func (p *Postgres) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return p.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(tx)
	})
}

// SetWorldContext sets the app.world_id tenant key for the current
// transaction. The migrations install no row-level security policy, so the
// setting filters nothing by itself; only queries that compare against
// current_setting('app.world_id') observe it.
func SetWorldContext(ctx context.Context, tx *gorm.DB, worldID string) error {
	return tx.WithContext(ctx).Exec("SELECT set_config('app.world_id', ?, true)", worldID).Error
}

// ClearWorldContext sets the app.world_id tenant key to the empty string for
// the current transaction.
func ClearWorldContext(ctx context.Context, tx *gorm.DB) error {
	return tx.WithContext(ctx).Exec("SELECT set_config('app.world_id', '', true)").Error
}

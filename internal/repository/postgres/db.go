package postgres

import (
	"context"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/andresuchdata/demand-forecast/internal/config"
	"github.com/andresuchdata/demand-forecast/internal/repository"
)

const maxConcurrentQueries = 10

type DB struct {
	*sqlx.DB
	sem *semaphore.Weighted
}

// NewDB creates a new database connection pool
func NewDB(ctx context.Context, cfg *config.DatabaseConfig) (*DB, error) {
	driver := cfg.DriverName()
	db, err := sqlx.ConnectContext(ctx, driver, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	log.Info().Str("driver", driver).Str("host", cfg.Host).Str("db", cfg.DBName).Msg("connected to database")

	return Wrap(db, maxConcurrentQueries), nil
}

// Wrap limits db to maxConcurrent in-flight queries.
func Wrap(db *sqlx.DB, maxConcurrent int64) *DB {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &DB{
		DB:  db,
		sem: semaphore.NewWeighted(maxConcurrent),
	}
}

func (db *DB) acquire(ctx context.Context) error {
	if err := db.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("could not acquire semaphore: %w", err)
	}
	return nil
}

// SelectContext runs a query once a semaphore slot is free.
func (db *DB) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	if err := db.acquire(ctx); err != nil {
		return err
	}
	defer db.sem.Release(1)

	return db.DB.SelectContext(ctx, dest, query, args...)
}

// GetContext runs a single-row query once a semaphore slot is free.
func (db *DB) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	if err := db.acquire(ctx); err != nil {
		return err
	}
	defer db.sem.Release(1)

	return db.DB.GetContext(ctx, dest, query, args...)
}

var _ repository.Queryer = (*DB)(nil)

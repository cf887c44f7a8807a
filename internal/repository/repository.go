package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/restaurant-hours/backend/internal/config"
)

type Repository struct {
	cfg    *config.Config
	dbpool *sql.DB
}

func NewRepository(cfg *config.Config, dbpool *sql.DB) *Repository {
	return &Repository{
		cfg:    cfg,
		dbpool: dbpool,
	}
}

func (r *Repository) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
}

func (r *Repository) txContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS restaurants (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT restaurants_name_key UNIQUE (name)
	)`,
	`CREATE TABLE IF NOT EXISTS operating_hours (
		id BIGSERIAL PRIMARY KEY,
		restaurant_id BIGINT NOT NULL REFERENCES restaurants(id) ON DELETE CASCADE,
		day_of_week SMALLINT NOT NULL CHECK (day_of_week BETWEEN 0 AND 6),
		open_time TIME NOT NULL,
		close_time TIME NOT NULL,
		CONSTRAINT operating_hours_window_key UNIQUE (restaurant_id, day_of_week, open_time, close_time)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_operating_hours_day_of_week ON operating_hours(day_of_week)`,
}

// 所有语句都是幂等的，可以重复执行
func (r *Repository) CreateTables(ctx context.Context) error {
	ctx, cancel := r.txContext(ctx)
	defer cancel()

	for _, query := range schema {
		if _, err := r.dbpool.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("create tables: %w", err)
		}
	}
	return nil
}

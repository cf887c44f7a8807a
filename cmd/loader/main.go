package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/restaurant-hours/backend/internal/cache"
	"github.com/restaurant-hours/backend/internal/config"
	"github.com/restaurant-hours/backend/internal/ingest"
	"github.com/restaurant-hours/backend/internal/metrics"
	"github.com/restaurant-hours/backend/internal/repository"
	"github.com/restaurant-hours/backend/internal/seed"
	"github.com/spf13/cobra"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type options struct {
	file    string
	mode    string
	workers int
}

func newLoadCommand() *cobra.Command {
	opts := options{}

	cmd := &cobra.Command{
		Use:   "loader",
		Short: "Load restaurant data and operating hours from a CSV or XLSX file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return load(cmd.Context(), opts)
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVar(&opts.file, "file", "", "CSV or XLSX file with \"Restaurant Name\" and \"Hours\" columns")
	cmd.Flags().StringVar(&opts.mode, "mode", "", "best-effort or all-or-nothing (defaults to INGEST_MODE)")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "parallel parse workers (defaults to INGEST_WORKERS)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func load(ctx context.Context, opts options) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	modeName := cfg.Ingest.Mode
	if opts.mode != "" {
		modeName = opts.mode
	}
	mode, err := ingest.ParseMode(modeName)
	if err != nil {
		return err
	}
	workers := cfg.Ingest.Workers
	if opts.workers > 0 {
		workers = opts.workers
	}

	rows, err := seed.ReadRows(opts.file)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", opts.file, err)
	}

	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to create database pool: %w", err)
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	pingCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()
	if err := dbpool.PingContext(pingCtx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	repo := repository.NewRepository(cfg, dbpool)
	if err := repo.CreateTables(ctx); err != nil {
		return err
	}

	metrics.Register()
	summary, err := ingest.New(repo, workers).WithMode(mode).IngestRows(ctx, rows)
	if err != nil {
		return err
	}

	if cfg.Redis.Enabled {
		invalidateCache(ctx, cfg)
	}

	for _, f := range summary.Failures {
		fmt.Fprintf(os.Stderr, "line %d (%s): %s\n", f.Line, f.Name, f.Error)
	}
	fmt.Printf("Loaded %d of %d rows, %d new operating-hours windows.\n", summary.Persisted, summary.Rows, summary.WindowsCreated)
	fmt.Println("Successfully loaded restaurant data and operating hours.")

	return nil
}

// 清除缓存失败也没关系，旧的缓存最多存活一个 TTL
func invalidateCache(ctx context.Context, cfg *config.Config) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       0,
	})
	defer rdb.Close()

	ctx, cancel := context.WithTimeout(ctx, time.Duration(cfg.Redis.ConnectTimeout)*time.Second)
	defer cancel()

	c := cache.NewOpenRestaurants(rdb, time.Duration(cfg.Redis.CacheTTL)*time.Second)
	if err := c.Invalidate(ctx); err != nil {
		slog.Warn("无法清除营业餐厅缓存", "error", err)
	}
}

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	if err := newLoadCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

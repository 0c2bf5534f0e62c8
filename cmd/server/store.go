package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/sheetquiz/internal/config"
	"github.com/JonMunkholm/sheetquiz/internal/kv"
)

// openStore builds the configured key-value backend. The returned close
// func is safe to call more than once.
func openStore(ctx context.Context, cfg *config.StoreConfig) (kv.Store, func(), error) {
	backend, err := kv.ParseBackend(cfg.Backend)
	if err != nil {
		return nil, nil, err
	}
	noop := func() {}

	switch backend {
	case kv.BackendMemory:
		slog.Warn("using in-memory store; weak list and preferences are lost on restart")
		return kv.NewMemory(), noop, nil

	case kv.BackendFile:
		store, err := kv.NewFile(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("using file store", "path", store.Path())
		return store, noop, nil

	case kv.BackendSQLite:
		if cfg.SQLitePath != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755); err != nil {
				return nil, nil, fmt.Errorf("create sqlite directory: %w", err)
			}
		}
		store, err := kv.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("using sqlite store", "path", cfg.SQLitePath)
		return store, sync.OnceFunc(func() { _ = store.Close() }), nil

	case kv.BackendPostgres:
		pool, err := connectPostgres(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		store, err := kv.NewPostgres(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		return store, sync.OnceFunc(pool.Close), nil
	}
	return nil, nil, fmt.Errorf("unsupported store backend %q", backend)
}

func connectPostgres(ctx context.Context, cfg *config.StoreConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Log which database we connected to
	if u, err := url.Parse(cfg.DatabaseURL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	} else {
		slog.Info("connected to database")
	}
	return pool, nil
}

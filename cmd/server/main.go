package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/sheetquiz/internal/config"
	"github.com/JonMunkholm/sheetquiz/internal/core"
	"github.com/JonMunkholm/sheetquiz/internal/feed"
	"github.com/JonMunkholm/sheetquiz/internal/logging"
	"github.com/JonMunkholm/sheetquiz/internal/quiz"
	"github.com/JonMunkholm/sheetquiz/internal/settings"
	"github.com/JonMunkholm/sheetquiz/internal/weak"
	"github.com/JonMunkholm/sheetquiz/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"store_backend", cfg.Store.Backend,
		"feed_format", cfg.Feed.Format,
		"refresh_interval", cfg.Feed.RefreshInterval.String(),
		"rate_limit_enabled", cfg.Rate.Enabled,
	)
	slog.Debug("effective configuration", "config", cfg.String())

	ctx := context.Background()

	store, closeStore, err := openStore(ctx, &cfg.Store)
	if err != nil {
		slog.Error("failed to open store", "backend", cfg.Store.Backend, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	format, err := feed.ParseFormat(cfg.Feed.Format)
	if err != nil {
		slog.Error("invalid feed format", "error", err)
		os.Exit(1)
	}
	fetcher := feed.New(feed.Options{
		URL:      cfg.Feed.URL,
		Format:   format,
		Timeout:  cfg.Feed.Timeout,
		MaxBytes: cfg.Feed.MaxBytes,
	})

	order, err := quiz.ParseOrder(cfg.Quiz.Order)
	if err != nil {
		slog.Error("invalid quiz order", "error", err)
		os.Exit(1)
	}

	service, err := core.NewService(
		fetcher,
		weak.New(store, cfg.Store.WeakKey),
		settings.New(store, order, cfg.Quiz.Limit),
		core.Options{SessionTTL: cfg.Quiz.SessionTTL},
	)
	if err != nil {
		slog.Error("failed to create service", "error", err)
		os.Exit(1)
	}

	// A failed first load still serves the page; it shows the load hint.
	if n, err := service.Reload(ctx); err != nil {
		slog.Warn("initial feed load failed", "url", fetcher.URL(), "error", err)
	} else {
		slog.Info("questions loaded", "records", n, "subjects", len(service.Subjects()))
	}

	server := web.NewServer(service, cfg)

	// Create cancellable context for background jobs
	jobCtx, cancelJobs := context.WithCancel(context.Background())
	go service.StartRefreshScheduler(jobCtx, cfg.Feed.RefreshInterval)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		cancelJobs()
		closeStore()
		os.Exit(1)
	}
	slog.Info("server stopped")
}

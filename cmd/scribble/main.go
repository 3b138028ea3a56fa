package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"scribble/internal/config"
	apphttp "scribble/internal/http"
	"scribble/internal/ledger"
	applog "scribble/internal/log"
	"scribble/internal/split"
	"scribble/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		applog.New(applog.DefaultConfig()).Error("Invalid configuration", applog.FieldError, err)
		os.Exit(1)
	}

	logger := applog.New(applog.Config{
		Level:     applog.ParseLevel(cfg.LogLevel),
		Component: applog.ComponentApp,
	})
	applog.SetDefault(logger)

	var store storage.Store
	if cfg.SQLiteDBPath == "" {
		store = storage.NewMemory()
		logger.Info("Using in-memory storage, expenses will not survive restarts")
	} else {
		sqlStore, err := storage.NewSQLiteStore(cfg.SQLiteDBPath, cfg.StorageKey)
		if err != nil {
			logger.Error("Failed to open storage", applog.FieldError, err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		defer sqlStore.Close()
		store = sqlStore
		logger.Info("Storage ready", "path", cfg.SQLiteDBPath, applog.FieldSlot, cfg.StorageKey)
	}

	led := ledger.New(store)
	roster := split.NewRoster(cfg.SelfName)

	srv := apphttp.NewServer(":"+cfg.Port, led, roster, logger)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting scribble server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

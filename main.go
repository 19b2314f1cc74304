package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"Loadline/internal/config"
	"Loadline/internal/logging"
	"Loadline/internal/shell"
	"Loadline/internal/store"
)

var wg sync.WaitGroup

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}

	logs := logging.NewBuffer(500)
	logger := logging.New(cfg, os.Stderr, "loadline", logs)
	slog.SetDefault(logger)
	if cfg.ConfigPath != "" {
		logger.Info("config file loaded", "path", cfg.ConfigPath)
	}

	st, closeStore, err := store.Open(ctx, cfg.Store)
	if err != nil {
		logger.Error("open credential store", "driver", cfg.Store.Driver, "err", err)
		os.Exit(1)
	}
	defer closeStore()

	app, err := shell.New(ctx, cfg, logger, logs, st)
	if err != nil {
		logger.Error("start shell", "err", err)
		os.Exit(1)
	}

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           app.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("starting shell", "addr", cfg.ListenAddr, "env", cfg.AppEnv)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received, closing connections")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "err", err)
	}
	wg.Wait()
	logger.Info("shell stopped")
}

package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"tasklist/internal/api"
	"tasklist/internal/app"
	"tasklist/internal/config"
	"tasklist/internal/logging"
	"tasklist/pkg/task"
)

func main() {
	configPath := flag.String("config", config.DefaultPath(), "path to config.toml")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("load config", "err", err)
	}
	logger := logging.New(os.Stderr, cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	store, err := app.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("open store", "backend", cfg.Store.Backend, "err", err)
	}
	defer store.Close()

	svc := task.NewService(store, task.WithLogger(logger))
	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.New(svc, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("tasks listening", "addr", cfg.Server.Addr, "backend", cfg.Store.Backend)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("listen", "err", err)
	}
}

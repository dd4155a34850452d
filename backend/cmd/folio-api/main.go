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

	"github.com/folio-dev/folio/backend/internal/router"
	"github.com/folio-dev/folio/backend/internal/setup"
	"github.com/folio-dev/folio/shared/config"
	"github.com/folio-dev/folio/shared/logger"
)

func main() {
	var configFolder string
	flag.StringVar(&configFolder, "config_folder", "config", "path to folder with configs")
	flag.Parse()

	cfg := config.MustLoad(configFolder)
	logger.Initialize(cfg.Public.Log.Level, cfg.Public.Log.JSON)

	deps, err := setup.SetupDependencies(cfg)
	if err != nil {
		logger.Log.Error("failed to initialize dependencies", "error", err)
		os.Exit(1)
	}

	server := &http.Server{
		Addr:         cfg.Public.Api.Addr,
		Handler:      router.New(deps),
		ReadTimeout:  cfg.Public.Api.ReadTimeout,
		WriteTimeout: cfg.Public.Api.WriteTimeout,
	}

	go func() {
		logger.Log.Info("api listening", "addr", server.Addr, "log", deps.Store.Path())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Log.Error("graceful shutdown failed", "error", err)
	}
}

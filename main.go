package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/joho/godotenv"

	"poolshop_server/api"
	"poolshop_server/config"
	"poolshop_server/services"
	"poolshop_server/store"
	"poolshop_server/structs"
)

const (
	slowActionThreshold = 50 * time.Millisecond
	shutdownTimeout     = 10 * time.Second
)

var logger *gecho.Logger
var cfg *structs.Config

// init function to load environment variables and initialize logger and config
func init() {
	envErr := godotenv.Load()

	cfg = config.GetConfig()
	logger = config.InitializeLogger()

	if envErr != nil {
		logger.Warn("No .env file found or error loading .env file, proceeding with system environment variables")
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st := store.New(
		store.WithHook(&store.LoggingHook{Logger: logger, SlowThreshold: slowActionThreshold}),
		store.WithHook(store.MetricsHook{}),
	)

	sm := services.NewServiceManager(logger, cfg, st)
	if err := sm.SeedService.Seed(ctx); err != nil {
		logger.Fatal("Failed to seed store", gecho.Field("error", err))
	}

	srv := &http.Server{
		Addr:           cfg.Server.Port,
		Handler:        api.App(cfg, sm),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	go func() {
		logger.Info(fmt.Sprintf("Starting server (%s) on %s", cfg.Server.AppName, cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Failed to start server", gecho.Field("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Received shutdown signal, draining connections")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", gecho.Field("error", err))
		return
	}
	logger.Info("Server stopped")
}

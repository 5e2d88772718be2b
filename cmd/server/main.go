package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/codyseavey/poke-finder/backend/internal/api"
	"github.com/codyseavey/poke-finder/backend/internal/app"
	"github.com/codyseavey/poke-finder/backend/internal/config"
	"github.com/codyseavey/poke-finder/backend/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Logger is not configured yet.
		_, _ = os.Stderr.WriteString("invalid configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	sugar, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		_, _ = os.Stderr.WriteString("failed to build logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = sugar.Sync() }()

	finder := app.NewFinder(cfg, sugar)

	// Setup router
	router := api.SetupRouter(finder, api.RouterConfig{
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	}, sugar.Named("http"))

	// Create HTTP server for graceful shutdown
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		sugar.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	sugar.Info("Shutting down server...")

	// Give outstanding requests a deadline to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		sugar.Errorf("Server forced to shutdown: %v", err)
	}

	sugar.Info("Server exited")
}

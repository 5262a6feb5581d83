package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/NivBraz/contentfilter-service/internal/app"
	"github.com/NivBraz/contentfilter-service/internal/config"
	"github.com/NivBraz/contentfilter-service/internal/logging"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logging.Configure(cfg.Log.Level, cfg.Log.Format)
	slog.Info("Configuration loaded", "path", *configPath, "database", cfg.Database.Type, "cache", cfg.Cache.Type)

	// Create context that listens for the interrupt signal from the OS
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize the application
	application, err := app.New(cfg)
	if err != nil {
		slog.Error("Failed to initialize application", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	if err := application.Run(ctx); err != nil {
		slog.Error("Application stopped with error", "error", err)
		application.Close()
		os.Exit(1)
	}
	slog.Info("Application stopped")
}

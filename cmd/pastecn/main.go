// Package main is the entry point for pastecn, a code-snippet sharing
// service that stores pasted code as shadcn-compatible registry
// documents. This file handles command-line argument parsing,
// configuration loading, and orchestrates the startup of all
// application components.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pastecn/pastecn/internal/config"
	"github.com/pastecn/pastecn/internal/logging"
	"github.com/pastecn/pastecn/internal/server"
	"github.com/pastecn/pastecn/internal/storage"
)

// Version information set at build time via ldflags:
// go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "none"
)

func main() {
	configPath := flag.String("config", "config.ini", "Path to configuration file")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("pastecn %s (commit: %s)\n", version, commit)
		os.Exit(0)
	}

	log := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	ctx := context.Background()

	// Environment variables override file settings (12-factor app pattern)
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error(ctx, "failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Storage backend per configuration: s3, filesystem, or database
	store, err := storage.New(ctx, cfg)
	if err != nil {
		log.Error(ctx, "failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	srv, err := server.New(cfg, store, log)
	if err != nil {
		log.Error(ctx, "failed to create server", "error", err)
		os.Exit(1)
	}

	// Start the server in a goroutine so we can handle shutdown gracefully
	go func() {
		log.Info(ctx, "pastecn starting", "version", version, "addr", srv.Addr())
		if err := srv.ListenAndServe(); err != nil {
			log.Error(ctx, "server error", "error", err)
		}
	}()

	// Wait for SIGINT or SIGTERM for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info(ctx, "shutting down server")

	// Give outstanding requests up to 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info(ctx, "server stopped")
}

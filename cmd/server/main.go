// Copyright Doctext Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/net/netutil"

	httpAdapter "github.com/leseb/doctext/pkg/adapters/http"
	"github.com/leseb/doctext/pkg/core/config"
	"github.com/leseb/doctext/pkg/core/services"
	"github.com/leseb/doctext/pkg/history"
	"github.com/leseb/doctext/pkg/observability/logging"

	// History backends
	_ "github.com/leseb/doctext/pkg/history/filesystem"
	_ "github.com/leseb/doctext/pkg/history/memory"
	_ "github.com/leseb/doctext/pkg/history/postgres"
	_ "github.com/leseb/doctext/pkg/history/s3"
	_ "github.com/leseb/doctext/pkg/history/sqlite"
)

var (
	// Version is set via ldflags during build
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	port := flag.Int("port", 0, "HTTP port to listen on (overrides config)")
	version := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	// Print version
	if *version {
		fmt.Printf("Doctext Server\nVersion: %s\nBuild Time: %s\n", Version, BuildTime)
		os.Exit(0)
	}

	// Load configuration
	cfg, cfgErr := config.Load(*configPath)
	if cfgErr != nil {
		cfg = config.Default()
	}

	// Override port if specified
	if *port != 0 {
		cfg.Server.Port = *port
	}

	// Initialize logger
	logger := logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	logger.Info("Starting Doctext Server",
		"version", Version,
		"build_time", BuildTime)
	if cfgErr != nil {
		// If config file doesn't exist, use defaults
		logger.Warn("Failed to load config, using defaults", "path", *configPath, "error", cfgErr)
	}

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	// Initialize extraction history (optional)
	var store history.Store
	if cfg.History.Enabled() {
		s, err := history.Providers.New(context.Background(), cfg.History.Type, cfg.History.Params())
		if err != nil {
			logger.Error("Failed to initialize extraction history", "type", cfg.History.Type, "error", err)
			os.Exit(1)
		}
		defer s.Close(context.Background())
		store = s
		logger.Info("Initialized extraction history", "type", cfg.History.Type, "store_text", cfg.History.StoreText)
	}

	// Initialize services
	extractionService := services.NewExtractionService(logger, store, cfg.History.StoreText)

	// Initialize HTTP adapter
	handler := httpAdapter.New(extractionService, logger, httpAdapter.Options{
		MaxUploadMemory: cfg.Server.MaxUploadMemory,
	})
	logger.Info("Initialized HTTP adapter")

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  120 * time.Second,
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		logger.Error("Failed to listen", "address", addr, "error", err)
		os.Exit(1)
	}
	if cfg.Server.MaxConnections > 0 {
		ln = netutil.LimitListener(ln, cfg.Server.MaxConnections)
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start server in goroutine
	go func() {
		logger.Info("Server listening", "address", addr, "max_connections", cfg.Server.MaxConnections)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	<-ctx.Done()
	logger.Info("Shutdown signal received")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("Server stopped gracefully")
}

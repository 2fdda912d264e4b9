package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tagcache/internal/api"
	"github.com/tagcache/internal/cache"
	"github.com/tagcache/internal/config"
	"github.com/tagcache/internal/logging"
	"github.com/tagcache/internal/recipes"
	"github.com/tagcache/internal/version"
)

// defaultCacheNames is the registry layout used when the configuration does
// not name any caches.
var defaultCacheNames = []string{"users", "search", "stats"}

func main() {
	// Command line flags
	var (
		configPath  = flag.String("config", "config.yaml", "Path to configuration file")
		host        = flag.String("host", "", "HTTP server host (overrides config)")
		port        = flag.Int("port", 0, "HTTP server port (overrides config)")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	// Handle version flag
	if *showVersion {
		fmt.Printf("tagcache server %s\n", version.GetFullVersionInfo())
		os.Exit(0)
	}

	// Load configuration first
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *host != "" {
		cfg.Server.Host = *host
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	// Initialize logging from configuration
	if err := logging.Initialize(&cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logging: %v\n", err)
		os.Exit(1)
	}

	logging.Info("tagcache server starting",
		slog.String("version", version.GetFullVersionInfo()),
		slog.String("config", *configPath))

	fmt.Println("tagcache - tag-aware in-process cache")
	fmt.Println("=====================================")
	fmt.Printf("Server: http://%s:%d\n", cfg.Server.Host, cfg.Server.Port)
	fmt.Println()

	// Build the named caches and register them
	registry := recipes.NewRegistry()

	names := make([]string, 0, len(cfg.Caches))
	for name := range cfg.Caches {
		names = append(names, name)
	}
	if len(names) == 0 {
		names = defaultCacheNames
	}

	for _, name := range names {
		engineCfg := cfg.EffectiveCache(name).ToEngineConfig()
		store := cache.New[json.RawMessage](engineCfg)
		if err := registry.Register(name, store); err != nil {
			logging.Fatalf("Failed to register cache %q: %v", name, err)
		}
		logCacheEvents(name, store)

		logging.Info("cache registered",
			logging.Cache(name),
			logging.TTL(engineCfg.DefaultTTL),
			slog.Int("max_size", engineCfg.MaxSize),
			slog.Duration("cleanup_interval", engineCfg.CleanupInterval))
	}

	// Initialize the ops API server
	apiServer := api.New(registry)
	apiServer.SetHealthChecker(&registryHealthChecker{
		registry:  registry,
		startTime: time.Now(),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           apiServer.SetupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout.Duration(),
		WriteTimeout:      cfg.Server.WriteTimeout.Duration(),
		IdleTimeout:       cfg.Server.IdleTimeout.Duration(),
	}

	// Start server in a goroutine
	go func() {
		logging.Info("Server starting",
			slog.String("address", fmt.Sprintf("http://%s:%d", cfg.Server.Host, cfg.Server.Port)))
		logging.Info("Available endpoints:")
		logging.Info("    GET  /api/health           - health check")
		logging.Info("    GET  /api/cache            - registered cache names")
		logging.Info("    GET  /api/cache/stats      - cache metrics")
		logging.Info("    POST /api/cache/invalidate - invalidate by tags")
		logging.Info("    POST /api/cache/clear      - clear caches")
		logging.Info("    GET  /api/version          - build info")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Info("Server shutting down")

	// Graceful HTTP server shutdown with 15s deadline
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error("Graceful shutdown timed out, forcing close", logging.Err(err))
		if err := server.Close(); err != nil {
			logging.Error("Server force close error", logging.Err(err))
		}
	}

	// Stop the caches after the listener so in-flight requests see live stores
	if err := registry.Shutdown(); err != nil {
		logging.Error("Cache shutdown error", logging.Err(err))
	}

	logging.Info("Server stopped")
}

// logCacheEvents surfaces eviction and cleanup activity in the server log.
func logCacheEvents(name string, c cache.Managed) {
	c.Subscribe(cache.EventEviction, func(e cache.Event) {
		logging.Debug("cache eviction",
			logging.Cache(name),
			slog.Int("keys_removed", e.KeysRemoved))
	})
	c.Subscribe(cache.EventCleanup, func(e cache.Event) {
		logging.Debug("cache cleanup",
			logging.Cache(name),
			slog.String("kind", string(e.Kind)),
			slog.Int("keys_removed", e.KeysRemoved),
			slog.Int("keys_added", e.KeysAdded))
	})
}

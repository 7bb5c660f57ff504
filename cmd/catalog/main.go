package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Lixing-Zhang/shopping-list/internal/config"
	"github.com/Lixing-Zhang/shopping-list/internal/database"
	"github.com/Lixing-Zhang/shopping-list/internal/docs"
	"github.com/Lixing-Zhang/shopping-list/internal/feed"
	"github.com/Lixing-Zhang/shopping-list/internal/handlers"
	"github.com/Lixing-Zhang/shopping-list/internal/middleware"
	"github.com/Lixing-Zhang/shopping-list/internal/repository"
	"github.com/Lixing-Zhang/shopping-list/internal/server"
	"github.com/Lixing-Zhang/shopping-list/internal/service"
	"github.com/Lixing-Zhang/shopping-list/internal/upstream"
	"github.com/Lixing-Zhang/shopping-list/pkg/logger"
)

func main() {
	// Load configuration from environment
	cfg, err := config.Load(config.Catalog)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting catalog api server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"log_level", cfg.LogLevel,
		"feed_url", cfg.Upstream.FeedURL,
	)

	// Initialize repository
	var (
		productRepo repository.ProductRepository
		pinger      handlers.Pinger
	)
	if cfg.Database.URL == config.MemoryDatabase {
		log.Warn("using in-memory storage, data is lost on restart")
		productRepo = repository.NewInMemoryProductRepository()
	} else {
		db, err := database.Open(cfg.Database.URL, database.SchemaCatalog)
		if err != nil {
			log.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		log.Info("database ready", "driver", db.Driver())

		productRepo = repository.NewSQLProductRepository(db)
		pinger = db
	}

	// Initialize the feed client and service
	feedClient := feed.NewClient(upstream.New(upstream.Config{
		BaseURL:    cfg.Upstream.FeedURL,
		Timeout:    time.Duration(cfg.Upstream.Timeout) * time.Second,
		MaxRetries: cfg.Upstream.MaxRetries,
		RetryDelay: time.Duration(cfg.Upstream.RetryDelayMs) * time.Millisecond,
		RatePerSec: cfg.Upstream.RatePerSec,
		Burst:      cfg.Upstream.RateBurst,
	}, log))
	catalogService := service.NewCatalogService(productRepo, feedClient, log)

	// Initialize handlers
	docsHandler, err := handlers.NewDocsHandler("Catalog API", docs.Catalog, log)
	if err != nil {
		log.Error("failed to load api docs", "error", err)
		os.Exit(1)
	}

	router := server.NewRouter(server.Options{
		Logger:  log,
		Health:  handlers.NewHealthHandler(string(config.Catalog), pinger, log),
		Docs:    docsHandler,
		Metrics: middleware.NewMetrics(string(config.Catalog)),
		API:     handlers.NewCatalogHandler(catalogService, log),
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, cfg.Server, router, log); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

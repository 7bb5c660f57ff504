package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Lixing-Zhang/shopping-list/internal/catalogclient"
	"github.com/Lixing-Zhang/shopping-list/internal/config"
	"github.com/Lixing-Zhang/shopping-list/internal/database"
	"github.com/Lixing-Zhang/shopping-list/internal/docs"
	"github.com/Lixing-Zhang/shopping-list/internal/handlers"
	"github.com/Lixing-Zhang/shopping-list/internal/middleware"
	"github.com/Lixing-Zhang/shopping-list/internal/repository"
	"github.com/Lixing-Zhang/shopping-list/internal/server"
	"github.com/Lixing-Zhang/shopping-list/internal/service"
	"github.com/Lixing-Zhang/shopping-list/internal/upstream"
	"github.com/Lixing-Zhang/shopping-list/pkg/logger"
)

func main() {
	cfg, err := config.Load(config.Shopping)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting shopping list api server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"log_level", cfg.LogLevel,
		"catalog_url", cfg.Upstream.CatalogURL,
	)

	var (
		itemRepo repository.ShoppingItemRepository
		pinger   handlers.Pinger
	)
	if cfg.Database.URL == config.MemoryDatabase {
		log.Warn("using in-memory storage, data is lost on restart")
		itemRepo = repository.NewInMemoryShoppingItemRepository()
	} else {
		db, err := database.Open(cfg.Database.URL, database.SchemaShopping)
		if err != nil {
			log.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		log.Info("database ready", "driver", db.Driver())

		itemRepo = repository.NewSQLShoppingItemRepository(db)
		pinger = db
	}

	catalog := catalogclient.NewClient(upstream.New(upstream.Config{
		BaseURL:    cfg.Upstream.CatalogURL,
		Timeout:    time.Duration(cfg.Upstream.Timeout) * time.Second,
		MaxRetries: cfg.Upstream.MaxRetries,
		RetryDelay: time.Duration(cfg.Upstream.RetryDelayMs) * time.Millisecond,
		RatePerSec: cfg.Upstream.RatePerSec,
		Burst:      cfg.Upstream.RateBurst,
	}, log))
	shoppingService := service.NewShoppingService(itemRepo, catalog, log)

	docsHandler, err := handlers.NewDocsHandler("Shopping List API", docs.Shopping, log)
	if err != nil {
		log.Error("failed to load api docs", "error", err)
		os.Exit(1)
	}

	router := server.NewRouter(server.Options{
		Logger:  log,
		Health:  handlers.NewHealthHandler(string(config.Shopping), pinger, log),
		Docs:    docsHandler,
		Metrics: middleware.NewMetrics(string(config.Shopping)),
		API:     handlers.NewShoppingHandler(shoppingService, log),
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, cfg.Server, router, log); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/zerethyily52/Eco-Unity/internal/auth"
	"github.com/zerethyily52/Eco-Unity/internal/catalog"
	"github.com/zerethyily52/Eco-Unity/internal/challenges"
	"github.com/zerethyily52/Eco-Unity/internal/config"
	"github.com/zerethyily52/Eco-Unity/internal/db"
	"github.com/zerethyily52/Eco-Unity/internal/feed"
	api "github.com/zerethyily52/Eco-Unity/internal/http"
	"github.com/zerethyily52/Eco-Unity/internal/kv"
	"github.com/zerethyily52/Eco-Unity/internal/service"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	ctx := context.Background()

	var store kv.Store
	if cfg.DatabaseURL != "" {
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("failed to connect db", zap.Error(err))
		}
		defer pool.Close()
		if err := db.Init(ctx, pool); err != nil {
			logger.Fatal("failed to init schema", zap.Error(err))
		}
		store = kv.NewPostgres(pool)
		logger.Info("using postgres storage")
	} else {
		sqlite, err := kv.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			logger.Fatal("failed to open sqlite", zap.Error(err))
		}
		defer sqlite.Close()
		store = sqlite
		logger.Info("using sqlite storage", zap.String("path", cfg.SQLitePath))
	}

	templates := catalog.BuiltinTemplates()
	if cfg.TemplatesPath != "" {
		templates, err = catalog.LoadTemplates(cfg.TemplatesPath)
		if err != nil {
			logger.Fatal("failed to load campaign templates",
				zap.String("path", cfg.TemplatesPath), zap.Error(err))
		}
	}

	feedClient := feed.NewClient(cfg.WAQIBaseURL, cfg.WAQIToken, cfg.ClimateAPIURL, cfg.FeedTimeout, logger)

	// Best-effort: live readings adjust template bases before generation.
	seedCtx, cancel := context.WithTimeout(ctx, cfg.FeedTimeout)
	templates = feedClient.SeedTemplates(seedCtx, templates)
	cancel()

	seed := cfg.CatalogSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	catalogSvc := catalog.NewService(templates, rand.New(rand.NewSource(seed)))

	authManager := auth.NewManager(cfg.JWTSecret)
	svc := service.New(store, authManager)

	handler := &api.API{
		Catalog:    catalogSvc,
		Challenges: challenges.NewGenerator(feedClient),
		Feed:       feedClient,
		Service:    svc,
		Auth:       authManager,
		Store:      store,
		Log:        logger,
		Origins:    cfg.CORSOrigin,
		Rand:       rand.New(rand.NewSource(seed + 1)),
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
}

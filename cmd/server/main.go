package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/weavelink/weavelink/app/auth"
	"github.com/weavelink/weavelink/app/catalog"
	"github.com/weavelink/weavelink/app/categories"
	"github.com/weavelink/weavelink/app/home"
	"github.com/weavelink/weavelink/app/listings"
	"github.com/weavelink/weavelink/app/server"
	"github.com/weavelink/weavelink/config"
	"github.com/weavelink/weavelink/logging"
	"github.com/weavelink/weavelink/models"
	"github.com/weavelink/weavelink/observability"
	"github.com/weavelink/weavelink/platform/cache"
	"github.com/weavelink/weavelink/platform/database"
	"github.com/weavelink/weavelink/platform/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.New(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("server stopped", zap.Error(err))
	}
	logger.Info("server stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	db, err := database.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()
	if err := database.Migrate(db); err != nil {
		return err
	}

	rdb, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		return err
	}
	defer rdb.Close()

	images, err := storage.NewMinioStore(cfg)
	if err != nil {
		return err
	}
	if err := images.EnsureBucket(ctx); err != nil {
		return err
	}

	products := models.NewProductsRepository(db)
	profiles := models.NewProfilesRepository(db)
	metrics := observability.NewMetrics()

	authSvc := auth.NewService(profiles, auth.NewTokens(cfg.JWTSecret, cfg.JWTTTL), auth.NewRevocations(rdb),
		auth.WithLogger(logger.Named("auth")))
	fetcher := catalog.NewFetcher(products, logger.Named("catalog"))
	listingSvc := listings.NewService(products, images, listings.Options{
		MaxImageBytes:  cfg.MaxImageBytes,
		StorageTimeout: cfg.StorageTimeout,
		Metrics:        metrics,
		Logger:         logger.Named("listings"),
	})

	handler := server.NewRouter(server.Dependencies{
		Config:     cfg,
		Logger:     logger.Named("http"),
		Metrics:    metrics,
		Gate:       auth.NewGate(authSvc, logger.Named("gate")),
		Auth:       auth.NewHandler(authSvc, logger.Named("auth")),
		Home:       home.NewHandler(),
		Catalog:    catalog.NewCatalogHandler(fetcher, logger.Named("catalog")),
		Listings:   listings.NewHandler(listingSvc, fetcher, cfg.MaxImageBytes, logger.Named("listings")),
		Categories: categories.NewCategoryHandler(products),
		Ready: func(r *http.Request) error {
			if err := sqlDB.PingContext(r.Context()); err != nil {
				return err
			}
			return rdb.Ping(r.Context()).Err()
		},
	})

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		ErrorLog:     zap.NewStdLog(logger.Named("http")),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

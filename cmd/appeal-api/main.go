package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/appeal-routing-api/api/swagger"
	"github.com/noah-isme/appeal-routing-api/internal/handler"
	"github.com/noah-isme/appeal-routing-api/internal/middleware"
	"github.com/noah-isme/appeal-routing-api/internal/models"
	"github.com/noah-isme/appeal-routing-api/internal/repository"
	"github.com/noah-isme/appeal-routing-api/internal/routing"
	"github.com/noah-isme/appeal-routing-api/internal/service"
	"github.com/noah-isme/appeal-routing-api/pkg/cache"
	"github.com/noah-isme/appeal-routing-api/pkg/config"
	"github.com/noah-isme/appeal-routing-api/pkg/database"
	"github.com/noah-isme/appeal-routing-api/pkg/lock"
	"github.com/noah-isme/appeal-routing-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/appeal-routing-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/appeal-routing-api/pkg/middleware/requestid"
)

// @title Appeal Routing API
// @version 1.0.0
// @description Hierarchical approval routing for student appeal applications
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

type appStore interface {
	Create(ctx context.Context, app *models.Application) error
	GetByID(ctx context.Context, id string) (*models.Application, error)
	All(ctx context.Context) ([]models.Application, error)
	Replace(ctx context.Context, app models.Application) error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	checks := make(map[string]handler.ReadinessCheck)

	var redisClient *redis.Client
	if cfg.NeedsRedis() {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer client.Close()
		redisClient = client
		checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
	}

	store, closeStore, err := openStore(ctx, cfg, checks)
	if err != nil {
		return err
	}
	defer closeStore()
	if cfg.Routing.SeedDemoData {
		if err := repository.SeedDemoApplications(ctx, store); err != nil {
			return fmt.Errorf("seed demo applications: %w", err)
		}
		logr.Info("demo applications seeded")
	}

	var locker lock.Locker = lock.NewKeyedLocker()
	if cfg.Routing.LockBackend == config.BackendRedis {
		locker = lock.NewRedisLocker(redisClient, lock.RedisConfig{TTL: cfg.Routing.LockTTL, Logger: logr})
	}

	metrics := service.NewMetricsService()
	cacheRepo := repository.NewCacheRepository(redisClient, "appeals:", logr)
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logr, cfg.Cache.Enabled)

	apps, err := service.NewApplicationService(store, locker, validator.New(), logr, service.ApplicationServiceConfig{
		UnknownRolePolicy: routing.ParseUnknownRolePolicy(cfg.Routing.UnknownVisibility),
		LockWait:          cfg.Routing.LockWait,
	}, service.WithApplicationCache(cacheSvc), service.WithApplicationMetrics(metrics))
	if err != nil {
		return err
	}

	appHandler := handler.NewApplicationHandler(apps, nil)
	if cfg.Export.Enabled {
		exporter := service.NewExportService(apps, service.ExportConfig{PDFTitle: cfg.Export.PDFTitle}, logr, nil, nil)
		appHandler = handler.NewApplicationHandler(apps, exporter)
	}

	tokens := service.NewTokenService(service.TokenConfig{
		Secret: cfg.JWT.Secret,
		Issuer: cfg.JWT.Issuer,
		Expiry: cfg.JWT.Expiration,
	})

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	handler.Routes{
		Applications: appHandler,
		Metrics:      handler.NewMetricsHandler(metrics, checks),
		Tokens:       tokens,
	}.Register(r, cfg.APIPrefix)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.Env),
			zap.String("store", cfg.Routing.StoreBackend),
			zap.String("lock", cfg.Routing.LockBackend),
			zap.Bool("listing_cache", cfg.Cache.Enabled),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg *config.Config, checks map[string]handler.ReadinessCheck) (appStore, func(), error) {
	switch cfg.Routing.StoreBackend {
	case config.BackendPostgres:
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		closeDB := func() { _ = db.Close() }
		repo := repository.NewApplicationRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			closeDB()
			return nil, nil, err
		}
		checks["postgres"] = func(ctx context.Context) error { return db.PingContext(ctx) }
		return repo, closeDB, nil
	case config.BackendMemory, "":
		return repository.NewApplicationMemoryRepository(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Routing.StoreBackend)
	}
}

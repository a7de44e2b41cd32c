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
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/placement-portal-api/api/swagger"
	"github.com/noah-isme/placement-portal-api/internal/handler"
	"github.com/noah-isme/placement-portal-api/internal/middleware"
	"github.com/noah-isme/placement-portal-api/internal/repository"
	"github.com/noah-isme/placement-portal-api/internal/service"
	"github.com/noah-isme/placement-portal-api/pkg/cache"
	"github.com/noah-isme/placement-portal-api/pkg/config"
	"github.com/noah-isme/placement-portal-api/pkg/database"
	"github.com/noah-isme/placement-portal-api/pkg/jobs"
	"github.com/noah-isme/placement-portal-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/placement-portal-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/placement-portal-api/pkg/middleware/requestid"
	"github.com/noah-isme/placement-portal-api/pkg/storage"
)

// @title Placement Portal API
// @version 1.0.0
// @description Student directory, skill and course lookups, profiles and recruiter shortlist exports.
// @BasePath /api/v1
// @schemes http https

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

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer db.Close() //nolint:errcheck

	var redisClient *redis.Client
	if cfg.Directory.CacheEnabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, directory cache disabled", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close() //nolint:errcheck
		}
	}

	validate := validator.New()
	metrics := service.NewMetricsService()

	profileRepo := repository.NewProfileRepository(db)
	userRepo := repository.NewUserRepository(db)
	skillRepo := repository.NewSkillRepository(db)
	courseRepo := repository.NewCourseRepository(db)

	var cacheRepo service.CacheRepository
	if redisClient != nil {
		cacheRepo = repository.NewCacheRepository(redisClient, logr)
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, service.CacheOptions{
		Namespace:  service.DirectoryCacheNamespace,
		DefaultTTL: cfg.Directory.CacheTTL,
		Enabled:    redisClient != nil,
	}, logr)

	directorySvc := service.NewDirectoryService(profileRepo, skillRepo, courseRepo, cacheSvc, metrics, logr,
		service.DirectoryConfig{CacheTTL: cfg.Directory.CacheTTL})
	lookupCfg := service.LookupConfig{SearchLimit: cfg.Lookup.SearchLimit}
	skillSvc := service.NewSkillService(skillRepo, directorySvc, metrics, validate, logr, lookupCfg)
	courseSvc := service.NewCourseService(courseRepo, metrics, validate, logr, lookupCfg)
	profileSvc := service.NewProfileService(profileRepo, skillRepo, courseRepo, directorySvc, validate, logr)
	accountSvc := service.NewAccountService(userRepo, directorySvc, validate, logr)
	authSvc := service.NewAuthService(logr, service.AuthConfig{Secret: cfg.Auth.Secret, Issuer: cfg.Auth.Issuer})

	refresher := service.NewDirectoryRefresher(directorySvc, cfg.Directory.RefreshSpec, logr)
	if err := refresher.Start(ctx); err != nil {
		return err
	}
	defer refresher.Stop()

	handlers := handler.Handlers{
		Directory: handler.NewDirectoryHandler(directorySvc),
		Skills:    handler.NewSkillHandler(skillSvc),
		Courses:   handler.NewCourseHandler(courseSvc),
		Profiles:  handler.NewProfileHandler(profileSvc),
		Account:   handler.NewAccountHandler(accountSvc),
		Metrics:   handler.NewMetricsHandler(metrics, readinessChecks(db, redisClient)),
	}

	if cfg.Exports.Enabled {
		queue, err := startExports(ctx, cfg, logr, db, directorySvc, metrics, validate, &handlers)
		if err != nil {
			return err
		}
		defer func() {
			queue.Stop()
			stats := queue.Stats()
			logr.Info("export queue drained",
				zap.Uint64("processed", stats.Processed),
				zap.Uint64("retried", stats.Retried),
				zap.Uint64("failed", stats.Failed))
		}()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr, "/health", "/ready", "/metrics"))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", handlers.Metrics.Health)
	r.GET("/ready", handlers.Metrics.Ready)
	r.GET("/metrics", handlers.Metrics.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.Register(r.Group(cfg.APIPrefix), handlers, authSvc, cfg.Auth.CookieName)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
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

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func startExports(
	ctx context.Context,
	cfg *config.Config,
	logr *zap.Logger,
	db *sqlx.DB,
	directorySvc *service.DirectoryService,
	metrics *service.MetricsService,
	validate *validator.Validate,
	handlers *handler.Handlers,
) (*jobs.Queue, error) {
	files, err := storage.NewFileStore(cfg.Exports.StorageDir)
	if err != nil {
		return nil, err
	}
	signer := storage.NewDownloadSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
	exporter := service.NewExportService(directorySvc, files, signer,
		service.ExportConfig{APIPrefix: cfg.APIPrefix, ResultTTL: cfg.Exports.SignedURLTTL}, logr, nil)

	exportRepo := repository.NewExportJobRepository(db)
	worker := service.NewExportWorker(exportRepo, exporter, metrics, cfg.Exports.WorkerRetries, logr)
	queue := jobs.NewQueue("shortlist-exports", worker.Handle, jobs.QueueConfig{
		Workers:    cfg.Exports.WorkerConcurrency,
		BufferSize: 64,
		MaxRetries: cfg.Exports.WorkerRetries,
		RetryDelay: 2 * time.Second,
		Logger:     logr,
	})
	queue.Start(ctx)

	exportSvc := service.NewExportJobService(exportRepo, queue, exporter, validate, logr, service.ExportJobConfig{
		ResultTTL:       cfg.Exports.SignedURLTTL,
		CleanupInterval: cfg.Exports.CleanupInterval,
	})
	exportSvc.RecoverPendingJobs(ctx)
	exportSvc.StartCleanup(ctx)

	handlers.Exports = handler.NewExportHandler(exportSvc)
	return queue, nil
}

func readinessChecks(db *sqlx.DB, redisClient *redis.Client) map[string]handler.ReadinessCheck {
	checks := map[string]handler.ReadinessCheck{
		"postgres": db.PingContext,
	}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	}
	return checks
}

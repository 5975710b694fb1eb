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
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/madrasah-analytics-api/api/swagger"
	"github.com/noah-isme/madrasah-analytics-api/internal/events"
	"github.com/noah-isme/madrasah-analytics-api/internal/handler"
	"github.com/noah-isme/madrasah-analytics-api/internal/middleware"
	"github.com/noah-isme/madrasah-analytics-api/internal/repository"
	"github.com/noah-isme/madrasah-analytics-api/internal/service"
	"github.com/noah-isme/madrasah-analytics-api/pkg/cache"
	"github.com/noah-isme/madrasah-analytics-api/pkg/config"
	"github.com/noah-isme/madrasah-analytics-api/pkg/database"
	"github.com/noah-isme/madrasah-analytics-api/pkg/jobs"
	"github.com/noah-isme/madrasah-analytics-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/madrasah-analytics-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/madrasah-analytics-api/pkg/middleware/requestid"
)

// @title Madrasah Analytics API
// @version 1.0.0
// @description Read-only analytics and alerting over madrasah memorization, attendance and staff data.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, analytics caching disabled", zap.Error(err))
		redisClient = nil
	}
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Analytics.CacheTTL, logr, redisClient != nil)

	loader := service.NewContextLoader(service.ContextSources{
		Students:       repository.NewStudentRepository(db),
		Teachers:       repository.NewTeacherRepository(db),
		Classes:        repository.NewClassRepository(db),
		Progress:       repository.NewProgressRepository(db),
		Attendance:     repository.NewAttendanceRepository(db),
		Assignments:    repository.NewAssignmentRepository(db),
		Communications: repository.NewCommunicationRepository(db),
	}, service.ContextLoaderConfig{
		Timeout:            cfg.Analytics.FetchTimeout,
		DefaultRangeMonths: cfg.Analytics.DefaultRangeMonths,
		// Minute resolution lets default-window requests share cache entries.
		Now: func() time.Time { return time.Now().UTC().Truncate(time.Minute) },
	}, metricsSvc, logr)

	analyticsSvc := service.NewAnalyticsService(loader, service.PolicyFromConfig(cfg.Policy), service.NewAlertEngine(nil),
		cacheSvc, metricsSvc, cfg.Analytics.CacheTTL, logr)
	exportSvc := service.NewExportService(analyticsSvc, logr, nil)

	publisher, err := events.NewAlertPublisher(events.PublisherConfig{
		KafkaBrokers: cfg.Events.KafkaBrokers,
		Topic:        cfg.Events.AlertsTopic,
		Logger:       logr,
	})
	if err != nil {
		logr.Fatal("failed to init alert publisher", zap.Error(err))
	}
	defer publisher.Close() //nolint:errcheck

	madrasahRepo := repository.NewMadrasahRepository(db)
	alertSvc := service.NewAlertService(repository.NewAlertRepository(db), analyticsSvc, publisher, cfg.Analytics.DefaultRangeMonths, logr)

	queue := jobs.NewQueue("alerts", jobs.QueueConfig{
		Workers:    cfg.Alerts.Workers,
		MaxRetries: cfg.Alerts.Retries,
		RetryDelay: cfg.Alerts.RetryDelay,
		JobTimeout: cfg.Alerts.JobTimeout,
		Logger:     logr,
	})
	scheduler := service.NewAlertScheduler(queue, alertSvc, madrasahRepo, cfg.Alerts.MadrasahIDs, cfg.Alerts.RefreshInterval, logr)
	if cfg.Alerts.SchedulerEnabled && cfg.Analytics.Enabled {
		queue.Start(ctx)
		scheduler.Start(ctx)
	}

	validate := validator.New()
	authSvc := service.NewAuthService(validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		Issuer:            cfg.JWT.Issuer,
		Audience:          cfg.JWT.Audience,
	})

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr, middleware.ContextMadrasahKey))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(middleware.WithResponseMeta())

	handler.RegisterRoutes(r, cfg.APIPrefix, authSvc, handler.Handlers{
		Analytics: handler.NewAnalyticsHandler(analyticsSvc, exportSvc, validate),
		Alerts:    handler.NewAlertHandler(alertSvc, validate),
		Metrics: handler.NewMetricsHandler(metricsSvc, map[string]handler.Pinger{
			"database": madrasahRepo,
			"redis":    cacheRepo,
		}),
		AnalyticsEnabled: cfg.Analytics.Enabled,
	})

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	scheduler.Stop()
	queue.Stop()
}

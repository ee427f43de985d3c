package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/groundplan/backend/internal/application/analytics"
	expenseapp "github.com/groundplan/backend/internal/application/expense"
	projectapp "github.com/groundplan/backend/internal/application/project"
	"github.com/groundplan/backend/internal/infrastructure/auth"
	"github.com/groundplan/backend/internal/infrastructure/cache"
	"github.com/groundplan/backend/internal/infrastructure/config"
	"github.com/groundplan/backend/internal/infrastructure/logger"
	"github.com/groundplan/backend/internal/infrastructure/persistence"
	"github.com/groundplan/backend/internal/infrastructure/telemetry"
	"github.com/groundplan/backend/internal/interfaces/http/handler"
	"github.com/groundplan/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Groundplan Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	tp, err := telemetry.NewTracerProvider(context.Background(), cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if err := telemetry.RegisterDBTracing(db.DB, cfg.Telemetry, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	// Report cache is optional; the analytics service loads directly
	// when it is absent
	var reportCache analytics.Cache
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedisClient(&cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing redis client", zap.Error(err))
			}
		}()
		reportCache = cache.NewReportCache(redisClient, cfg.Cache.TTL, log)
		log.Info("Report cache enabled", zap.Duration("ttl", cfg.Cache.TTL))
	}

	expenseRepo := persistence.NewGormExpenseRepository(db.DB)
	projectRepo := persistence.NewGormProjectRepository(db.DB)
	reportRepo := persistence.NewGormExpenseReportRepository(db.DB)

	expenseService := expenseapp.NewService(expenseRepo)
	projectService := projectapp.NewService(projectRepo)
	reportService := analytics.NewReportService(reportRepo, reportCache, log)

	jwtService := auth.NewJWTService(cfg.JWT)

	engine := router.New(cfg, log, jwtService, router.Handlers{
		Health:  handler.NewHealthHandler(db),
		Report:  handler.NewReportHandler(reportService),
		Expense: handler.NewExpenseHandler(expenseService),
		Project: handler.NewProjectHandler(projectService),
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

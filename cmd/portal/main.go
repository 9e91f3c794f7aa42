package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ttc-bicumbi/portal/internal/repository"
	"github.com/ttc-bicumbi/portal/internal/router"
	"github.com/ttc-bicumbi/portal/internal/service"
	"github.com/ttc-bicumbi/portal/internal/store"
	"github.com/ttc-bicumbi/portal/pkg/cache"
	"github.com/ttc-bicumbi/portal/pkg/config"
	"github.com/ttc-bicumbi/portal/pkg/logger"
	"github.com/ttc-bicumbi/portal/pkg/storage"
)

// @title TTC Bicumbi Portal API
// @version 1.0.0
// @description Session, views and dashboards of the TTC Bicumbi school portal
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg.Env, cfg.Log)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var ready atomic.Bool

	opts := []store.Option{}
	if cfg.Seed.DemoData {
		opts = append(opts, store.WithDomain(store.DemoDomain()))
	}
	st := store.New(opts...)

	verifier, err := service.NewStaticCredentialVerifier(cfg.Credentials)
	if err != nil {
		logr.Fatal("invalid credential configuration", zap.Error(err))
	}

	metrics := service.NewMetricsService()
	cacheRepo := repository.NewCacheRepository(nil, logr)
	cacheEnabled := cfg.Dashboard.CacheEnabled
	if cacheEnabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, dashboard cache disabled", zap.Error(err))
			cacheEnabled = false
		} else {
			cacheRepo = repository.NewCacheRepository(client, logr)
		}
	}
	defer cacheRepo.Close() //nolint:errcheck
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Dashboard.CacheTTL, logr, cacheEnabled)

	validate := service.NewValidator()
	teacher := service.NewTeacherService(service.TeacherServiceParams{
		Store:     st,
		Cache:     cacheSvc,
		Metrics:   metrics,
		Validator: validate,
		Logger:    logr.Named("teacher"),
		CacheTTL:  cfg.Dashboard.CacheTTL,
	})

	engine := router.New(cfg, router.Services{
		Session: service.NewSessionService(st, verifier, metrics, logr.Named("session"), service.SessionConfig{
			Secret: cfg.Session.Secret,
			TTL:    cfg.Session.TTL,
			Issuer: cfg.Session.Issuer,
		}),
		View:    service.NewViewService(st, metrics, logr.Named("views")),
		Teacher: teacher,
		Student: service.NewStudentService(service.StudentServiceParams{
			Store:    st,
			Cache:    cacheSvc,
			Metrics:  metrics,
			Logger:   logr.Named("student"),
			CacheTTL: cfg.Dashboard.CacheTTL,
		}),
		Form: service.NewFormService(validate, logr.Named("forms")),
		Export: service.NewExportService(teacher,
			storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL),
			cfg.APIPrefix, logr.Named("exports")),
		Metrics: metrics,
		Ready:   ready.Load,
	}, logr)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		ready.Store(false)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logr.Warn("graceful shutdown failed", zap.Error(err))
		}
	}()

	ready.Store(true)
	logr.Info("server starting",
		zap.String("addr", srv.Addr),
		zap.String("env", cfg.Env),
		zap.Bool("demo_data", cfg.Seed.DemoData),
		zap.Bool("dashboard_cache", cacheEnabled),
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logr.Fatal("server failed", zap.Error(err))
	}
	logr.Info("server stopped")
}

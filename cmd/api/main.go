package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/krs-api/api/swagger"
	"github.com/noah-isme/krs-api/internal/handler"
	"github.com/noah-isme/krs-api/internal/middleware"
	"github.com/noah-isme/krs-api/internal/repository"
	"github.com/noah-isme/krs-api/internal/service"
	"github.com/noah-isme/krs-api/pkg/cache"
	"github.com/noah-isme/krs-api/pkg/config"
	"github.com/noah-isme/krs-api/pkg/database"
	"github.com/noah-isme/krs-api/pkg/export"
	"github.com/noah-isme/krs-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/krs-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/krs-api/pkg/middleware/requestid"
)

// @title KRS API
// @version 1.0.0
// @description Student, course and enrollment records
// @BasePath /api/v1
// @schemes http

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

	if err := run(cfg, logr); err != nil {
		logr.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logr *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.EnsureSchema(ctx, db); err != nil {
			return err
		}
		logr.Info("schema ensured")
	}

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		// The roster cache is optional; the database stays authoritative.
		logr.Warn("redis unavailable, caching disabled", zap.Error(err))
	}
	cacheRepo := repository.NewCacheRepository(redisClient, "krs", logr)
	defer cacheRepo.Close() //nolint:errcheck

	metrics := service.NewMetricsService()
	validate := validator.New()

	studentRepo := repository.NewStudentRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)

	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.StudentTTL, logr, cfg.Cache.Enabled && redisClient != nil)
	studentSvc := service.NewStudentService(studentRepo, cacheSvc, metrics, validate, logr)
	courseSvc := service.NewCourseService(courseRepo, metrics, validate, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, studentRepo, courseRepo, metrics, validate, logr)
	transcriptSvc := service.NewTranscriptService(studentRepo, enrollmentRepo, export.NewCSVExporter(), export.NewPDFExporter(), logr)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	handler.Register(r, cfg.APIPrefix, handler.Handlers{
		Metrics:     handler.NewMetricsHandler(metrics, db),
		Students:    handler.NewStudentHandler(studentSvc, enrollmentSvc, transcriptSvc),
		Courses:     handler.NewCourseHandler(courseSvc, enrollmentSvc),
		Enrollments: handler.NewEnrollmentHandler(enrollmentSvc),
	})

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
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
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logr.Info("shutting down", zap.Duration("timeout", cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logr.Info("server stopped")
	return nil
}

package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/AnanthuNarashimman/Skeduler/api/swagger"
	"github.com/AnanthuNarashimman/Skeduler/internal/engine"
	internalhandler "github.com/AnanthuNarashimman/Skeduler/internal/handler"
	internalmiddleware "github.com/AnanthuNarashimman/Skeduler/internal/middleware"
	"github.com/AnanthuNarashimman/Skeduler/internal/repository"
	"github.com/AnanthuNarashimman/Skeduler/internal/service"
	"github.com/AnanthuNarashimman/Skeduler/pkg/cache"
	"github.com/AnanthuNarashimman/Skeduler/pkg/config"
	"github.com/AnanthuNarashimman/Skeduler/pkg/database"
	"github.com/AnanthuNarashimman/Skeduler/pkg/export"
	"github.com/AnanthuNarashimman/Skeduler/pkg/jobs"
	"github.com/AnanthuNarashimman/Skeduler/pkg/logger"
	corsmiddleware "github.com/AnanthuNarashimman/Skeduler/pkg/middleware/cors"
	reqidmiddleware "github.com/AnanthuNarashimman/Skeduler/pkg/middleware/requestid"
	"github.com/AnanthuNarashimman/Skeduler/pkg/storage"
)

// @title Skeduler API
// @version 0.1.0
// @description Constraint-based department timetable generator
// @BasePath /
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	metricsSvc := service.NewMetricsService()
	metricsHandler := internalhandler.NewMetricsHandler(metricsSvc)

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to initialise database", "error", err)
	}
	defer db.Close()

	uploads, err := storage.NewLocalStorage(cfg.Uploads.Dir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init upload storage", "error", err)
	}
	if removed, err := uploads.CleanupOlderThan(24 * time.Hour); err != nil {
		logr.Sugar().Warnw("upload cleanup failed", "error", err)
	} else if len(removed) > 0 {
		logr.Sugar().Infow("removed stale uploads", "count", len(removed))
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(metricsSvc.GinMiddleware())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	teacherRepo := repository.NewTeacherRepository(db)
	timetableRepo := repository.NewTimetableRepository(db)

	authSvc := service.NewAuthService(teacherRepo, nil, logr, service.AuthConfig{
		TokenSecret: cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
		Issuer:      "skeduler",
	})
	authHandler := internalhandler.NewAuthHandler(authSvc)

	var scheduleCache service.ScheduleCache
	if cfg.Cache.Enabled {
		if client, err := cache.NewRedis(cfg.Redis); err != nil {
			logr.Sugar().Warnw("cache disabled", "error", err)
		} else {
			scheduleCache = client
			defer client.Close()
		}
	}

	timetableEngine := engine.New(logr, engine.Options{
		TimeLimit:           cfg.Solver.TimeLimit,
		AssignmentTimeLimit: cfg.Solver.AssignmentTimeLimit,
		Seed:                cfg.Solver.Seed,
		Workers:             cfg.Solver.Workers,
	})

	timetableSvc := service.NewTimetableService(
		timetableRepo,
		timetableEngine,
		scheduleCache,
		nil,
		export.NewPDFExporter(),
		metricsSvc,
		nil,
		logr,
		service.TimetableServiceConfig{
			Department: cfg.Department,
			CacheTTL:   cfg.Cache.TTL,
		},
	)

	queueCtx, cancel := context.WithCancel(context.Background())
	generationQueue := jobs.NewQueue("generation", timetableSvc.HandleGenerationJob, jobs.QueueConfig{
		Workers:    cfg.Jobs.Workers,
		MaxRetries: cfg.Jobs.MaxRetries,
		RetryDelay: cfg.Jobs.RetryDelay,
		Logger:     logr,
	})
	generationQueue.Start(queueCtx)
	defer func() {
		cancel()
		generationQueue.Stop()
	}()
	timetableSvc.AttachQueue(generationQueue)

	timetableHandler := internalhandler.NewTimetableHandler(timetableSvc, cfg.Uploads.MaxFileSize)

	authRoutes := api.Group("/auth")
	authRoutes.POST("/login", authHandler.Login)
	protectedAuth := authRoutes.Group("")
	protectedAuth.Use(internalmiddleware.JWT(authSvc))
	protectedAuth.GET("/me", authHandler.Me)
	protectedAuth.POST("/change-password", authHandler.ChangePassword)

	api.POST("/schedule/upload", timetableHandler.Upload)
	api.POST("/schedule/generate", timetableHandler.Generate)
	api.POST("/schedule/generate-async", timetableHandler.GenerateAsync)
	api.POST("/configuration/export", timetableHandler.ExportWorkbook)

	api.POST("/timetables", timetableHandler.Save)
	api.GET("/timetables", timetableHandler.List)
	api.DELETE("/timetables", timetableHandler.DeleteAll)
	api.GET("/timetables/:id", timetableHandler.Get)
	api.DELETE("/timetables/:id", timetableHandler.Delete)
	api.GET("/timetables/:id/export.pdf", timetableHandler.ExportPDF)

	secured := api.Group("")
	secured.Use(internalmiddleware.JWT(authSvc))
	secured.GET("/my-schedule", timetableHandler.MySchedule)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

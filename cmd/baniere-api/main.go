package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/baniere/baniere-api/api/swagger"
	"github.com/baniere/baniere-api/internal/handler"
	"github.com/baniere/baniere-api/internal/middleware"
	"github.com/baniere/baniere-api/internal/repository"
	"github.com/baniere/baniere-api/internal/service"
	"github.com/baniere/baniere-api/pkg/cache"
	"github.com/baniere/baniere-api/pkg/config"
	"github.com/baniere/baniere-api/pkg/logger"
	corsmiddleware "github.com/baniere/baniere-api/pkg/middleware/cors"
	reqidmiddleware "github.com/baniere/baniere-api/pkg/middleware/requestid"
)

// @title Baniere API
// @version 1.0.0
// @description University schedule generator over the Banner course catalog
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

	var cacheRepo service.CacheRepository
	if cfg.Redis.Enabled {
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, continuing without result cache", zap.Error(err))
		} else {
			repo := repository.NewCacheRepository(client, logr)
			defer repo.Close() //nolint:errcheck
			cacheRepo = repo
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Generator.ResultCacheTTL, logr, cfg.Redis.Enabled)

	catalogRepo := repository.NewCatalogRepository(cfg.Catalog, logr)
	defer catalogRepo.Close() //nolint:errcheck
	if cfg.Catalog.Watch {
		if err := catalogRepo.Watch(); err != nil {
			logr.Warn("catalog watcher disabled", zap.Error(err))
		}
	}

	catalogSvc := service.NewCatalogService(catalogRepo, logr)
	generatorSvc := service.NewGeneratorService(catalogSvc, cacheSvc, metricsSvc, logr, cfg.Generator)
	exportSvc := service.NewExportService(logr, nil, nil)

	courseHandler := handler.NewCourseHandler(catalogSvc)
	scheduleHandler := handler.NewScheduleHandler(generatorSvc, exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	api := r.Group(cfg.APIPrefix)
	{
		courses := api.Group("/courses")
		{
			courses.GET("", courseHandler.List)
			courses.GET("/search", courseHandler.Search)
			courses.GET("/subjects/list", courseHandler.Subjects)
			courses.GET("/:code", courseHandler.Sections)
		}

		schedules := api.Group("/schedules")
		{
			schedules.POST("/generate", scheduleHandler.Generate)
			schedules.POST("/export", scheduleHandler.Export)
		}
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

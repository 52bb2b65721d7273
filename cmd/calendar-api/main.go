package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/hoffmv/shipmate-ai/internal/handler"
	"github.com/hoffmv/shipmate-ai/internal/middleware"
	"github.com/hoffmv/shipmate-ai/internal/repository"
	"github.com/hoffmv/shipmate-ai/internal/service"
	"github.com/hoffmv/shipmate-ai/pkg/cache"
	"github.com/hoffmv/shipmate-ai/pkg/config"
	"github.com/hoffmv/shipmate-ai/pkg/database"
	"github.com/hoffmv/shipmate-ai/pkg/logger"
	corsmiddleware "github.com/hoffmv/shipmate-ai/pkg/middleware/cors"
	reqidmiddleware "github.com/hoffmv/shipmate-ai/pkg/middleware/requestid"
)

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

	var store repository.EventStore
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect postgres", "error", err)
		}
		defer db.Close() //nolint:errcheck
		store = repository.NewEventRepository(db)
	default:
		fileStore, err := repository.NewFileEventRepository(cfg.Store.FilePath)
		if err != nil {
			logr.Sugar().Fatalw("failed to open event store file", "error", err)
		}
		store = fileStore
	}

	metricsSvc := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	if cfg.Conflicts.CacheEnabled {
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect redis", "error", err)
		}
		redisRepo := repository.NewCacheRepository(client, logr)
		defer redisRepo.Close() //nolint:errcheck
		cacheRepo = redisRepo
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Conflicts.CacheTTL, logr, cfg.Conflicts.CacheEnabled)

	validate := validator.New()
	calendarSvc := service.NewCalendarService(store, cacheSvc, metricsSvc, validate, logr)
	conflictSvc := service.NewConflictService(store, cacheSvc, metricsSvc, logr)
	schedulerSvc := service.NewSchedulerService(store, metricsSvc, validate, logr, service.SchedulerServiceConfig{
		WorkStartHour: cfg.Scheduler.WorkStartHour,
		WorkEndHour:   cfg.Scheduler.WorkEndHour,
		HorizonDays:   cfg.Scheduler.HorizonDays,
	})

	eventHandler := handler.NewEventHandler(calendarSvc)
	conflictHandler := handler.NewConflictHandler(calendarSvc, conflictSvc)
	schedulerHandler := handler.NewSchedulerHandler(schedulerSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/events", eventHandler.Create)
		api.GET("/events", eventHandler.List)
		api.DELETE("/events/:id", eventHandler.Delete)

		api.GET("/conflicts", conflictHandler.List)
		api.GET("/conflicts/resolutions", conflictHandler.Resolutions)

		api.POST("/schedule/proposals", schedulerHandler.Propose)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "store", cfg.Store.Driver)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

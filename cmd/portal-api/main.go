package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/announcement-portal-api/api/swagger"
	"github.com/noah-isme/announcement-portal-api/internal/handler"
	"github.com/noah-isme/announcement-portal-api/internal/middleware"
	"github.com/noah-isme/announcement-portal-api/internal/repository"
	"github.com/noah-isme/announcement-portal-api/internal/service"
	"github.com/noah-isme/announcement-portal-api/pkg/cache"
	"github.com/noah-isme/announcement-portal-api/pkg/config"
	"github.com/noah-isme/announcement-portal-api/pkg/database"
	"github.com/noah-isme/announcement-portal-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/announcement-portal-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/announcement-portal-api/pkg/middleware/requestid"
	"github.com/noah-isme/announcement-portal-api/pkg/storage"
)

// @title Announcement Portal API
// @version 0.1.0
// @description Authoring workflow engine for time-bounded announcements
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, reference cache disabled", "error", err)
		redisClient = nil
	}

	fileStore, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init export storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)

	announcementRepo := repository.NewAnnouncementRepository(db)
	referenceRepo := repository.NewReferenceRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	validate := validator.New()

	metricsSvc := service.NewMetricsService()
	refDataSvc := service.NewRefDataService(referenceRepo, cacheRepo, cfg.Wizard.ReferenceCacheTTL, logr)
	wizardSvc := service.NewWizardService(announcementRepo, refDataSvc, cfg.Wizard, validate, logr).
		WithMetrics(metricsSvc)
	announcementSvc := service.NewAnnouncementService(announcementRepo, logr)
	authSvc := service.NewAuthService(cfg.JWT)
	templateSvc := service.NewTemplateService()
	reportSvc := service.NewReportService(fileStore, signer, cfg.Exports, logr)

	reportSvc.Start(ctx)
	defer reportSvc.Stop()
	go wizardSvc.RunSweeper(ctx, cfg.Wizard.SweepInterval)

	wizardHandler := handler.NewWizardHandler(wizardSvc, reportSvc)
	referenceHandler := handler.NewReferenceHandler(refDataSvc)
	announcementHandler := handler.NewAnnouncementHandler(announcementSvc)
	templateHandler := handler.NewTemplateHandler(templateSvc, reportSvc)

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
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	wizard := api.Group("/wizard", middleware.JWT(authSvc))
	{
		wizard.POST("/sessions", wizardHandler.Start)
		wizard.GET("/sessions/:id", wizardHandler.Get)
		wizard.POST("/sessions/:id/flow", wizardHandler.SelectFlow)
		wizard.PATCH("/sessions/:id/fields", wizardHandler.UpdateField)
		wizard.POST("/sessions/:id/advance", wizardHandler.Advance)
		wizard.POST("/sessions/:id/upload", wizardHandler.Upload)
		wizard.POST("/sessions/:id/reset", wizardHandler.Reset)
		wizard.DELETE("/sessions/:id", wizardHandler.Cancel)
		wizard.POST("/sessions/:id/submit", wizardHandler.Submit)
		wizard.POST("/sessions/:id/error-report", wizardHandler.RequestErrorReport)
		wizard.GET("/error-reports/:jobId", wizardHandler.GetErrorReport)
		wizard.GET("/template", templateHandler.Template)
	}

	api.GET("/downloads/:token", middleware.OptionalJWT(authSvc), templateHandler.Download)

	reference := api.Group("/reference", middleware.JWT(authSvc), middleware.WithResponseMeta())
	{
		reference.GET("/announcement-types", referenceHandler.Types)
		reference.GET("/categories", referenceHandler.Categories)
	}

	announcements := api.Group("/announcements", middleware.JWT(authSvc))
	{
		announcements.GET("", announcementHandler.List)
		announcements.GET("/:id", announcementHandler.Get)
		announcements.DELETE("/:id", announcementHandler.Delete)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

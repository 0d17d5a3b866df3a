package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/sfs-platform/feedback-api/internal/handler"
	"github.com/sfs-platform/feedback-api/internal/middleware"
	"github.com/sfs-platform/feedback-api/internal/models"
	"github.com/sfs-platform/feedback-api/internal/repository"
	"github.com/sfs-platform/feedback-api/internal/service"
	"github.com/sfs-platform/feedback-api/internal/store"
	"github.com/sfs-platform/feedback-api/pkg/config"
	"github.com/sfs-platform/feedback-api/pkg/logger"
	corsmiddleware "github.com/sfs-platform/feedback-api/pkg/middleware/cors"
	reqidmiddleware "github.com/sfs-platform/feedback-api/pkg/middleware/requestid"
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

	metricsSvc := service.NewMetricsService()

	kv, err := store.Open(cfg)
	if err != nil {
		logr.Sugar().Fatalw("failed to open store", "driver", cfg.Store.Driver, "error", err)
	}
	defer kv.Close() //nolint:errcheck
	kv = store.Instrument(kv, metricsSvc)

	accounts := repository.NewAccountRepository(kv, cfg.Store.KeyPrefix)
	feedback := repository.NewFeedbackRepository(kv, cfg.Store.KeyPrefix)
	session := repository.NewSessionRepository(kv, cfg.Store.KeyPrefix)

	validate := validator.New()

	authSvc := service.NewAuthService(accounts, session, validate, logr, service.AuthConfig{
		TokenSecret: cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
		Issuer:      cfg.JWT.Issuer,
	})
	directorySvc := service.NewDirectoryService(accounts, validate, logr)
	feedbackSvc := service.NewFeedbackService(feedback, accounts, validate, logr)
	exportSvc := service.NewExportService(feedbackSvc, logr)
	seedSvc := service.NewSeedService(accounts, logr)

	if err := seedSvc.Run(context.Background(), cfg.Seed.DemoData); err != nil {
		logr.Sugar().Fatalw("failed to seed accounts", "error", err)
	}

	authHandler := handler.NewAuthHandler(authSvc)
	accountHandler := handler.NewAccountHandler(directorySvc)
	feedbackHandler := handler.NewFeedbackHandler(feedbackSvc, metricsSvc)
	analyticsHandler := handler.NewAnalyticsHandler(feedbackSvc, exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.Use(middleware.JWT(authSvc))
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/session", authHandler.Session)
	auth.PUT("/profile", authHandler.UpdateProfile)
	auth.PUT("/password", authHandler.ChangePassword)

	admin := api.Group("/admin", middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAdmin))
	admin.GET("/users", accountHandler.List)
	admin.POST("/users", accountHandler.Create)
	admin.PUT("/users/:id", accountHandler.Update)
	admin.DELETE("/users/:id", accountHandler.Delete)
	admin.GET("/overview", analyticsHandler.Overview)
	admin.GET("/feedback/summary", analyticsHandler.Summary)
	admin.GET("/feedback/export", analyticsHandler.Export)

	faculty := api.Group("/faculty", middleware.JWT(authSvc), middleware.RequireRoles(models.RoleFaculty))
	faculty.GET("/dashboard", feedbackHandler.FacultyDashboard)
	faculty.GET("/feedback", feedbackHandler.FacultyFeedback)

	student := api.Group("/student", middleware.JWT(authSvc), middleware.RequireRoles(models.RoleStudent))
	student.GET("/faculty", feedbackHandler.RatableFaculty)
	student.POST("/feedback", feedbackHandler.Submit)
	student.GET("/feedback", feedbackHandler.StudentHistory)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "store", cfg.Store.Driver)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

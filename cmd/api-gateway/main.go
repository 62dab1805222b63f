package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/campus-ops/staff-attendance-api/api/swagger"
	"github.com/campus-ops/staff-attendance-api/internal/handler"
	"github.com/campus-ops/staff-attendance-api/internal/middleware"
	"github.com/campus-ops/staff-attendance-api/internal/models"
	"github.com/campus-ops/staff-attendance-api/internal/repository"
	"github.com/campus-ops/staff-attendance-api/internal/service"
	"github.com/campus-ops/staff-attendance-api/pkg/cache"
	"github.com/campus-ops/staff-attendance-api/pkg/config"
	"github.com/campus-ops/staff-attendance-api/pkg/database"
	"github.com/campus-ops/staff-attendance-api/pkg/export"
	"github.com/campus-ops/staff-attendance-api/pkg/logger"
	corsmiddleware "github.com/campus-ops/staff-attendance-api/pkg/middleware/cors"
	reqidmiddleware "github.com/campus-ops/staff-attendance-api/pkg/middleware/requestid"
)

// @title Staff Attendance API
// @version 1.0.0
// @description Role-scoped staff attendance and leave management backend
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()

	validate := validator.New()
	metricsService := service.NewMetricsService()

	userRepo := repository.NewUserRepository(db)
	departmentRepo := repository.NewDepartmentRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	leaveRepo := repository.NewLeaveRepository(db)
	sessionRepo := repository.NewSessionRepository(redisClient, logr)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	cacheService := service.NewCacheService(cacheRepo, metricsService, cfg.Dashboard.CacheTTL, logr)
	authService := service.NewAuthService(userRepo, sessionRepo, validate, logr, service.AuthConfig{
		TokenSecret: cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
		SessionTTL:  cfg.Session.TTL,
		Issuer:      cfg.JWT.Issuer,
	})
	userService := service.NewUserService(userRepo, departmentRepo, logr)
	attendanceService := service.NewAttendanceService(attendanceRepo, userRepo, cacheService, metricsService, validate, logr)
	leaveService := service.NewLeaveService(leaveRepo, userRepo, cacheService, metricsService, validate, logr)
	dashboardService := service.NewDashboardService(attendanceRepo, leaveRepo, cacheService, cfg.Dashboard.CacheTTL, logr)
	exportService := service.NewExportService(attendanceRepo, leaveRepo, export.NewCSVExporter(), export.NewPDFExporter(), cfg.Exports.MaxRows, logr)

	authHandler := handler.NewAuthHandler(authService, cfg.Session)
	userHandler := handler.NewUserHandler(userService)
	attendanceHandler := handler.NewAttendanceHandler(attendanceService)
	leaveHandler := handler.NewLeaveHandler(leaveService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	exportHandler := handler.NewExportHandler(exportService)
	metricsHandler := handler.NewMetricsHandler(metricsService)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.Session(authService, cfg.Session.CookieName))

	authed.POST("/auth/logout", authHandler.Logout)
	authed.POST("/auth/change-password", authHandler.ChangePassword)
	authed.GET("/auth/me", authHandler.Me)

	authed.GET("/users", userHandler.List)
	authed.GET("/users/:id", userHandler.Get)
	authed.GET("/departments", userHandler.Departments)

	authed.GET("/attendance", attendanceHandler.List)
	authed.GET("/attendance/daily", attendanceHandler.Daily)
	authed.POST("/attendance/mark",
		middleware.RequireRoles(models.RoleHead, models.RoleAdmin, models.RoleModerator, models.RoleHRAssistant),
		attendanceHandler.Mark)

	authed.GET("/leave", leaveHandler.List)
	authed.POST("/leave", leaveHandler.Submit)
	authed.POST("/leave/:id/respond",
		middleware.RequireRoles(models.RoleHead, models.RoleAdmin, models.RoleModerator, models.RoleHRAssistant),
		leaveHandler.Respond)

	authed.GET("/dashboard", dashboardHandler.Metrics)

	authed.GET("/exports/attendance", exportHandler.Attendance)
	authed.GET("/exports/leave", exportHandler.Leave)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

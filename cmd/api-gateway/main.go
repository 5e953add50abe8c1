package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/schoolhub-io/schoolhub-api/api/swagger"
	"github.com/schoolhub-io/schoolhub-api/internal/handler"
	"github.com/schoolhub-io/schoolhub-api/internal/middleware"
	"github.com/schoolhub-io/schoolhub-api/internal/models"
	"github.com/schoolhub-io/schoolhub-api/internal/repository"
	"github.com/schoolhub-io/schoolhub-api/internal/service"
	"github.com/schoolhub-io/schoolhub-api/pkg/cache"
	"github.com/schoolhub-io/schoolhub-api/pkg/config"
	"github.com/schoolhub-io/schoolhub-api/pkg/database"
	"github.com/schoolhub-io/schoolhub-api/pkg/logger"
	corsmiddleware "github.com/schoolhub-io/schoolhub-api/pkg/middleware/cors"
	reqidmiddleware "github.com/schoolhub-io/schoolhub-api/pkg/middleware/requestid"
	"github.com/schoolhub-io/schoolhub-api/pkg/storage"
)

// @title SchoolHub API
// @version 1.0.0
// @description Multi-tenant school management API: schools, classrooms, enrollment and student progress.
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	metrics := service.NewMetricsService()

	var redisClient *redis.Client
	var cacheRepo service.CacheRepository
	if cfg.Cache.Enabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, caching disabled", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
			cacheRepo = repository.NewCacheRepository(redisClient, logr)
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.ClassroomTTL, logr, cacheRepo != nil)

	validate := validator.New()

	profileRepo := repository.NewProfileRepository(db)
	schoolRepo := repository.NewSchoolRepository(db)
	classroomRepo := repository.NewClassroomRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	reportRepo := repository.NewReportRepository(db)

	authSvc := service.NewAuthService(profileRepo, validate, logr, service.SessionConfig{
		Secret: cfg.Session.Secret,
		Expiry: cfg.Session.Expiry,
		Issuer: "schoolhub-api",
	})
	schoolSvc := service.NewSchoolService(schoolRepo, cacheSvc, cfg.Cache.SchoolTTL, validate, logr)
	classroomSvc := service.NewClassroomService(classroomRepo, progressRepo, cacheSvc, cfg.Cache.ClassroomTTL, validate, logr)
	enrollmentSvc := service.NewEnrollmentService(progressRepo, profileRepo, cacheSvc, validate, logr)
	progressSvc := service.NewProgressService(progressRepo, cacheSvc, validate, logr)
	profileSvc := service.NewProfileService(profileRepo, logr)

	cookie := handler.CookieConfig{
		Name:   cfg.Session.CookieName,
		MaxAge: int(cfg.Session.Expiry / time.Second),
		Secure: cfg.Session.CookieSecure,
	}
	authHandler := handler.NewAuthHandler(authSvc, cookie, logr)
	schoolHandler := handler.NewSchoolHandler(schoolSvc, logr)
	classroomHandler := handler.NewClassroomHandler(classroomSvc, enrollmentSvc, logr)
	progressHandler := handler.NewProgressHandler(progressSvc, logr)
	profileHandler := handler.NewProfileHandler(profileSvc, logr)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var reportHandler *handler.ReportHandler
	if cfg.Reports.Enabled {
		store, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
		if err != nil {
			logr.Fatal("failed to init report storage", zap.Error(err))
		}
		signer := storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)
		reportSvc := service.NewReportService(
			reportRepo,
			service.NewGradeSheetReader(classroomRepo, progressRepo),
			store,
			signer,
			service.ReportConfig{Workers: cfg.Reports.WorkerConcurrency, MaxRetries: cfg.Reports.WorkerRetries},
			logr,
		)
		reportSvc.Start(rootCtx)
		defer reportSvc.Stop()
		reportHandler = handler.NewReportHandler(reportSvc, logr)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(reqidmiddleware.Middleware())
	router.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	router.Use(logger.GinMiddleware(logr))
	router.Use(middleware.Metrics(metrics))

	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	if cfg.Env != config.EnvProduction {
		router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	session := middleware.Session(authSvc, cfg.Session.CookieName)
	staffOnly := middleware.RequireRolesIf(cfg.Auth.EnforceMutationRoles, models.RoleHead, models.RoleTeacher)

	api := router.Group(cfg.APIPrefix)
	{
		api.POST("/auth/signup", authHandler.SignUp)
		api.POST("/auth/signin", authHandler.SignIn)
		api.GET("/authorization", authHandler.Authorization)
		api.POST("/logout", authHandler.Logout)

		api.GET("/school/fetch-all", schoolHandler.List)

		authed := api.Group("")
		authed.Use(session)
		{
			authed.POST("/school/:profileId/create", schoolHandler.Create)
			authed.GET("/fetch-school", schoolHandler.Detail)

			authed.POST("/classrooms/create", classroomHandler.Create)
			authed.GET("/classrooms/get-classroom", classroomHandler.Detail)
			authed.GET("/classrooms/get-students", classroomHandler.Students)
			authed.POST("/classrooms/add-student/:classroomId", staffOnly, classroomHandler.AddStudent)
			authed.DELETE("/classrooms/remove-student", staffOnly, classroomHandler.RemoveStudent)

			authed.POST("/progress/add", staffOnly, progressHandler.Add)
			authed.PATCH("/progress/edit", staffOnly, progressHandler.Edit)
			authed.DELETE("/progress/delete/:progressId", staffOnly, progressHandler.Delete)
			authed.GET("/get-student-full-detail", progressHandler.StudentFullDetail)

			authed.GET("/fetch-profile", profileHandler.Detail)
			authed.GET("/get-students-of-same-school", profileHandler.Students)
			authed.GET("/fetch-teachers", profileHandler.Teachers)

			if reportHandler != nil {
				authed.POST("/reports/classroom-grades", staffOnly, reportHandler.Enqueue)
				authed.GET("/reports/:id", reportHandler.Status)
			}
		}

		if reportHandler != nil {
			// Download links are self-authorizing via the signed token.
			api.GET("/reports/download", reportHandler.Download)
		}
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server listening", zap.Int("port", cfg.Port), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-rootCtx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

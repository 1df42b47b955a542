package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/noah-isme/school-api/api/swagger"
	"github.com/noah-isme/school-api/internal/repository"
	"github.com/noah-isme/school-api/internal/service"
	"github.com/noah-isme/school-api/pkg/cache"
	"github.com/noah-isme/school-api/pkg/config"
	"github.com/noah-isme/school-api/pkg/database"
	"github.com/noah-isme/school-api/pkg/logger"
	"github.com/noah-isme/school-api/pkg/validation"
)

// @title School API
// @version 1.0.0
// @description Students, teachers, courses and their academic records.
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.MigrateUp(context.Background(), db.DB); err != nil {
			logr.Fatal("failed to apply migrations", zap.Error(err))
		}
		logr.Info("migrations applied")
	}

	redisClient, err := cache.NewRedis(cfg.Redis, cfg.Cache)
	if err != nil {
		logr.Warn("redis unavailable, detail cache disabled", zap.Error(err))
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	var metrics *service.MetricsService
	if cfg.Metrics.Enabled {
		metrics = service.NewMetricsService()
	}
	cacheSvc := service.NewCacheService(repository.NewCacheRepository(redisClient), metrics, cfg.Cache.TTL, logr, redisClient != nil)
	validate := validation.New()

	studentRepo := repository.NewStudentRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	departmentRepo := repository.NewDepartmentRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	classRepo := repository.NewClassRepository(db)
	examRepo := repository.NewExamRepository(db)
	examResultRepo := repository.NewExamResultRepository(db)
	userRepo := repository.NewUserRepository(db)

	relations := service.Relations{
		Students:    studentRepo,
		Teachers:    teacherRepo,
		Departments: departmentRepo,
		Courses:     courseRepo,
		Classes:     classRepo,
		Exams:       examRepo,
	}

	courseSvc := service.NewCourseService(courseRepo, relations, validate, cacheSvc, logr)
	svc := services{
		Students:    service.NewStudentService(studentRepo, validate, cacheSvc, logr),
		Teachers:    service.NewTeacherService(teacherRepo, validate, cacheSvc, logr),
		Departments: service.NewDepartmentService(departmentRepo, relations, validate, cacheSvc, logr),
		Courses:     courseSvc,
		Classes:     service.NewClassService(classRepo, relations, validate, cacheSvc, logr),
		Attendances: service.NewAttendanceService(repository.NewAttendanceRepository(db), relations, validate, cacheSvc, logr),
		Exams:       service.NewExamService(examRepo, examResultRepo, relations, validate, cacheSvc, logr),
		ExamResults: service.NewExamResultService(examResultRepo, relations, validate, cacheSvc, logr),
		Enrollments: service.NewEnrollmentService(repository.NewEnrollmentRepository(db), relations, validate, cacheSvc, logr),
		Assignments: service.NewAssignmentService(repository.NewAssignmentRepository(db), relations, validate, cacheSvc, logr),
		Products:    service.NewProductService(repository.NewProductRepository(db), validate, cacheSvc, logr),
		Users:       service.NewUserService(userRepo, validate, logr),
		Auth: service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
			AccessTokenSecret: cfg.JWT.Secret,
			AccessTokenExpiry: cfg.JWT.Expiration,
			Issuer:            cfg.JWT.Issuer,
		}, metrics),
		Exports: service.NewExportService(courseSvc, logr),
		Metrics: metrics,
		DB:      db,
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           newRouter(cfg, logr, svc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "prefix", cfg.APIPrefix)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logr.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/school-api/internal/handler"
	"github.com/noah-isme/school-api/internal/middleware"
	"github.com/noah-isme/school-api/internal/models"
	"github.com/noah-isme/school-api/internal/service"
	"github.com/noah-isme/school-api/pkg/config"
	"github.com/noah-isme/school-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/school-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/school-api/pkg/middleware/requestid"
)

// services bundles everything the router needs.
type services struct {
	Students    *service.StudentService
	Teachers    *service.TeacherService
	Departments *service.DepartmentService
	Courses     *service.CourseService
	Classes     *service.ClassService
	Attendances *service.AttendanceService
	Exams       *service.ExamService
	ExamResults *service.ExamResultService
	Enrollments *service.EnrollmentService
	Assignments *service.AssignmentService
	Products    *service.ProductService
	Users       *service.UserService
	Auth        *service.AuthService
	Exports     *service.ExportService
	Metrics     *service.MetricsService
	DB          handler.Pinger
}

func newRouter(cfg *config.Config, logr *zap.Logger, svc services) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(svc.Metrics))
	}

	ops := handler.NewMetricsHandler(svc.Metrics, svc.DB)
	r.GET("/health", ops.Health)
	r.GET("/ready", ops.Ready)
	if cfg.Metrics.Enabled {
		r.GET("/metrics", ops.Prometheus)
	}
	if cfg.Docs.Enabled {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	courses := handler.NewCourseHandler(svc.Courses, svc.Exports)
	handler.RegisterResource(api, "/students", handler.NewStudentHandler(svc.Students))
	handler.RegisterResource(api, "/teachers", handler.NewTeacherHandler(svc.Teachers))
	handler.RegisterResource(api, "/departments", handler.NewDepartmentHandler(svc.Departments))
	handler.RegisterResource(api, "/courses", courses)
	api.GET("/courses/:id/roster", courses.Roster)
	handler.RegisterResource(api, "/classes", handler.NewClassHandler(svc.Classes))
	handler.RegisterResource(api, "/attendances", handler.NewAttendanceHandler(svc.Attendances))
	handler.RegisterResource(api, "/exams", handler.NewExamHandler(svc.Exams))
	handler.RegisterResource(api, "/exam-results", handler.NewExamResultHandler(svc.ExamResults))
	handler.RegisterResource(api, "/enrollments", handler.NewEnrollmentHandler(svc.Enrollments))
	handler.RegisterResource(api, "/assignments", handler.NewAssignmentHandler(svc.Assignments))
	handler.RegisterResource(api, "/products", handler.NewProductHandler(svc.Products))

	requireAuth := middleware.JWT(svc.Auth)
	auth := handler.NewAuthHandler(svc.Auth)
	authGroup := api.Group("/auth")
	authGroup.POST("/register", auth.Register)
	authGroup.POST("/login", auth.Login)
	authGroup.POST("/logout", requireAuth, auth.Logout)
	authGroup.POST("/refresh", requireAuth, auth.Refresh)
	authGroup.GET("/me", requireAuth, auth.Me)

	users := handler.NewUserHandler(svc.Users)
	userGroup := api.Group("/users", requireAuth)
	userGroup.GET("", middleware.RequireRoles(models.RoleManager, models.RoleAdmin), users.List)
	userGroup.POST("", users.Create)
	userGroup.GET("/profile", auth.Me)
	userGroup.GET("/:id", users.Get)
	userGroup.PUT("/:id", users.Update)
	userGroup.PATCH("/:id", users.Update)
	userGroup.DELETE("/:id", middleware.RequireRoles(models.RoleManager, models.RoleAdmin), users.Delete)

	return r
}

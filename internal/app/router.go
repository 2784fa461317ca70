package app

import (
	"elearning_backend/docs"
	"elearning_backend/internal/config"
	"elearning_backend/internal/middleware"
	"elearning_backend/internal/model"
	"elearning_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		a.registerUserRoutes(authGroup, c)
		a.registerCourseRoutes(authGroup, c)
		a.registerLearningRoutes(authGroup, c)
		a.registerNotificationRoutes(authGroup, c)
		a.registerAnalyticsRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/users/register", c.auth.Register)
		public.POST("/users/login", c.auth.Login)
		public.GET("/courses", c.course.ListCourses)
		public.GET("/courses/:id", c.course.GetCourse)
	}
}

func (a *App) registerUserRoutes(rg *gin.RouterGroup, c *controllers) {
	users := rg.Group("/users")
	{
		users.GET("", middleware.RoleMiddleware(model.Admin), c.user.ListUsers)
		users.GET("/user/:id", c.user.GetUser)
		users.GET("/email", c.user.GetUserByEmail)
	}
}

func (a *App) registerCourseRoutes(rg *gin.RouterGroup, c *controllers) {
	instructorOnly := middleware.RoleMiddleware(model.Instructor)

	courses := rg.Group("/courses")
	{
		courses.GET("/featured", c.course.FeaturedCourses)
		courses.POST("", instructorOnly, c.course.CreateCourse)
		courses.PUT("/:id", instructorOnly, c.course.UpdateCourse)
		courses.DELETE("/:id", instructorOnly, c.course.DeleteCourse)
	}

	content := rg.Group("/course-content")
	{
		content.GET("/:course_id", c.content.ListContent)
		content.POST("", instructorOnly, c.content.AddContent)
		content.POST("/upload", instructorOnly, c.content.UploadAsset)
	}
}

func (a *App) registerLearningRoutes(rg *gin.RouterGroup, c *controllers) {
	instructorOnly := middleware.RoleMiddleware(model.Instructor)

	enrollments := rg.Group("/enrollments")
	{
		enrollments.POST("", c.enrollment.Enroll)
		enrollments.GET("/user/:user_id", middleware.SelfOrRoles("user_id", model.Instructor), c.enrollment.ListByUser)
		enrollments.GET("/course/:course_id", instructorOnly, c.enrollment.ListByCourse)
	}

	progress := rg.Group("/progress")
	{
		progress.POST("", c.progress.MarkCompleted)
		progress.GET("/:user_id/:course_id", middleware.SelfOrRoles("user_id", model.Instructor), c.progress.GetProgress)
	}

	rg.GET("/dashboard/:user_id", middleware.SelfOrRoles("user_id", model.Instructor), c.dashboard.GetDashboard)
}

func (a *App) registerNotificationRoutes(rg *gin.RouterGroup, c *controllers) {
	notifications := rg.Group("/notifications")
	{
		notifications.POST("", middleware.RoleMiddleware(model.Instructor), c.notification.Send)
		notifications.GET("/user/:user_id", middleware.SelfOrRoles("user_id", model.Instructor), c.notification.ListByUser)
		notifications.PUT("/:id/read", c.notification.MarkRead)
	}
}

func (a *App) registerAnalyticsRoutes(rg *gin.RouterGroup, c *controllers) {
	instructorOnly := middleware.RoleMiddleware(model.Instructor)
	self := middleware.SelfOrRoles("user_id", model.Instructor)

	analytics := rg.Group("/analytics")
	{
		analytics.GET("/completion-rate/:course_id", c.analytics.CompletionRate)
		analytics.GET("/popular", c.analytics.PopularCourses)
		analytics.GET("/completion/:user_id/:course_id", self, c.analytics.CompletionPercentage)
		analytics.GET("/progress-over-time/:user_id/:course_id", self, c.analytics.ProgressOverTime)

		analytics.GET("/time/:course_id", instructorOnly, c.analytics.CourseTime)
		analytics.GET("/engagement", instructorOnly, c.analytics.UserEngagement)
		analytics.GET("/retention", instructorOnly, c.analytics.RetentionRates)
		analytics.GET("/content-popularity/:course_id", instructorOnly, c.analytics.ContentPopularity)
	}
}

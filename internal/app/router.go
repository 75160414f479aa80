package app

import (
	"elearn_backend/docs"
	"elearn_backend/internal/config"
	"elearn_backend/internal/middleware"
	"elearn_backend/internal/model"
	"elearn_backend/pkg/monitoring"

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
		a.registerStudentRoutes(authGroup, c)
		a.registerTeacherRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		// 课程目录允许游客浏览
		public.GET("/courses", middleware.TryAuthMiddleware(a.Config), c.course.ListCourses)
		public.GET("/courses/:courseSlug", middleware.TryAuthMiddleware(a.Config), c.course.GetCourseDetail)
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)
	rg.PUT("/user/profile", c.user.UpdateProfile)
	rg.POST("/user/avatar/upload", c.user.UploadAvatar)

	// 选课
	rg.POST("/courses/:courseSlug/enroll", c.course.Enroll)
	rg.GET("/enrollments", c.course.ListMyEnrollments)

	// 测验
	rg.GET("/courses/:courseSlug/quizzes", c.quiz.ListQuizzesForCourse)
	quiz := rg.Group("/courses/:courseSlug/modules/:moduleSlug/lessons/:lessonSlug/quiz")
	{
		quiz.GET("", c.quiz.GetQuizMetadata)
		quiz.GET("/questions", c.quiz.GetQuizQuestions)
		quiz.POST("/submit", c.quiz.SubmitQuiz)
	}

	// 学习进度
	progress := rg.Group("/progress/courses/:courseId")
	{
		progress.GET("", c.progress.GetCourseProgress)
		progress.PATCH("/lessons/:lessonId/complete", c.progress.MarkLessonComplete)
		progress.PATCH("/modules/:moduleId/complete", c.progress.MarkModuleComplete)
	}
}

func (a *App) registerTeacherRoutes(rg *gin.RouterGroup, c *controllers) {
	teacher := rg.Group("/teacher")
	teacher.Use(middleware.RoleMiddleware(model.Teacher, model.Admin))
	{
		teacher.POST("/courses", c.course.CreateCourse)
		teacher.POST("/courses/:courseId/modules", c.course.AddModule)
		teacher.POST("/modules/:moduleId/lessons", c.course.AddLesson)
	}
}

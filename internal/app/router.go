package app

import (
	"exam_platform_backend/docs"
	"exam_platform_backend/internal/config"
	"exam_platform_backend/internal/middleware"
	"exam_platform_backend/internal/model"
	"exam_platform_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerExamineeRoutes(authGroup, c)
		a.registerAdminRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	router.GET("/health", c.health.Check)

	public := router.Group("/api/auth")
	{
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}
}

// registerExamineeRoutes 考生可访问的接口，管理员同样可用
func (a *App) registerExamineeRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.POST("/auth/logout", c.auth.Logout)
	rg.GET("/auth/profile", c.auth.GetProfile)

	exams := rg.Group("/exams")
	{
		exams.GET("", c.exam.ListMyExams)
		exams.GET("/:id", c.exam.GetExam)
		exams.GET("/:id/questions/:questionId", c.exam.GetExamQuestion)
		exams.POST("/:id/questions/:questionId/submit", c.exam.SubmitAnswer)
	}
}

func (a *App) registerAdminRoutes(rg *gin.RouterGroup, c *controllers) {
	admin := rg.Group("/admin")
	admin.Use(middleware.RoleMiddleware(model.Admin))
	{
		users := admin.Group("/users")
		{
			users.GET("", c.user.ListUsers)
			users.POST("", c.user.CreateUser)
			users.GET("/:id", c.user.GetUser)
			users.PATCH("/:id", c.user.UpdateUser)
			users.DELETE("/:id", c.user.DeleteUser)
		}

		templates := admin.Group("/exam/templates")
		{
			templates.GET("", c.template.ListTemplates)
			templates.POST("", c.template.CreateTemplate)
			templates.GET("/:id", c.template.GetTemplate)
			templates.PATCH("/:id", c.template.RenameTemplate)
			templates.DELETE("/:id", c.template.DeleteTemplate)
			templates.POST("/:id/questions", c.template.AddQuestion)
			templates.DELETE("/:id/questions/:questionId", c.template.DeleteQuestion)
		}

		questions := admin.Group("/exam/questions")
		{
			questions.PATCH("/:questionId", c.template.UpdateQuestion)
			questions.POST("/:questionId/responses", c.template.AddResponse)
		}

		responses := admin.Group("/exam/responses")
		{
			responses.DELETE("/:responseId", c.template.DeleteResponse)
			responses.POST("/:responseId/toggle-correct", c.template.ToggleResponseCorrect)
		}

		exams := admin.Group("/exams")
		{
			exams.POST("", c.exam.AssignExam)
			exams.GET("/active", c.exam.ListActiveExams)
			exams.DELETE("/:id", c.exam.CancelExam)
		}

		admin.POST("/upload/image", c.upload.UploadImage)
	}
}

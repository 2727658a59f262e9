package app

import (
	"studyforge_backend/docs"
	"studyforge_backend/internal/config"
	"studyforge_backend/internal/middleware"
	"studyforge_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c)
	a.registerHookRoutes(router, c, cfg)

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		a.registerUserRoutes(authGroup, c)
		a.registerArtifactRoutes(authGroup, c)
		a.registerScoringRoutes(authGroup, c)

		authGroup.GET("/ws", c.events.Subscribe)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
		public.GET("/leaderboard", c.scoring.Leaderboard)
	}
}

// registerHookRoutes wires the dispatch webhooks. The exam hook is the one
// external dispatchers are configured to sign, so only it enforces the shared
// secret; the course and quiz hooks instead reject events for foreign tables.
func (a *App) registerHookRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	hooks := router.Group("/api/hooks")
	{
		hooks.POST("/exams", middleware.WebhookMiddleware(cfg), c.dispatch.ProcessExam)
		hooks.POST("/courses", c.dispatch.ProcessCourse)
		hooks.POST("/quizzes", c.dispatch.ProcessQuiz)
	}
}

func (a *App) registerUserRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.user.GetProfile)
	rg.PUT("/profile", c.user.UpdateProfile)
	rg.POST("/user/avatar/upload", c.user.UploadAvatar)
}

func (a *App) registerArtifactRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.POST("/exams", c.artifact.CreateExam)
	rg.GET("/exams", c.artifact.ListExams)
	rg.DELETE("/exams/:id", c.artifact.DeleteExam)

	rg.POST("/courses", c.artifact.CreateCourse)
	rg.GET("/courses", c.artifact.ListCourses)
	rg.DELETE("/courses/:id", c.artifact.DeleteCourse)

	rg.POST("/quizzes", c.artifact.CreateQuiz)
	rg.GET("/quizzes", c.artifact.ListQuizzes)
	rg.DELETE("/quizzes/:id", c.artifact.DeleteQuiz)
}

func (a *App) registerScoringRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.POST("/quiz-attempts", c.scoring.RecordAttempt)
	rg.GET("/leaderboard/my-rank", c.scoring.MyRank)
}

package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/verityqa/verity-backend/internal/handlers"
	"github.com/verityqa/verity-backend/internal/middleware"
)

type RouterConfig struct {
	ServiceName      string
	AllowedOrigins   []string
	AuthHandler      *handlers.AuthHandler
	AuthMiddleware   *middleware.AuthMiddleware
	PortfolioHandler *handlers.PortfolioHandler
	ProgramHandler   *handlers.ProgramHandler
	ProjectHandler   *handlers.ProjectHandler
	UserHandler      *handlers.UserHandler
	TestCaseHandler  *handlers.TestCaseHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))
	router.Use(otelgin.Middleware(cfg.ServiceName))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/auth/login", cfg.AuthHandler.Login)

	// Portfolios
	router.POST("/portfolios", cfg.PortfolioHandler.Create)
	router.GET("/portfolios", cfg.PortfolioHandler.List)
	router.GET("/portfolios/:portfolio_id", cfg.PortfolioHandler.Get)
	router.PATCH("/portfolios/:portfolio_id", cfg.PortfolioHandler.Update)
	router.DELETE("/portfolios/:portfolio_id", cfg.PortfolioHandler.Delete)

	// Programs
	router.POST("/portfolios/:portfolio_id/programs", cfg.ProgramHandler.Create)
	router.GET("/portfolios/:portfolio_id/programs", cfg.ProgramHandler.ListByPortfolio)
	router.GET("/programs/:program_id", cfg.ProgramHandler.Get)
	router.PATCH("/programs/:program_id", cfg.ProgramHandler.Update)
	router.DELETE("/programs/:program_id", cfg.ProgramHandler.Delete)

	// Projects
	router.POST("/projects", cfg.ProjectHandler.Create)
	router.GET("/projects", cfg.ProjectHandler.List)
	router.GET("/projects/:project_id", cfg.ProjectHandler.Get)
	router.PUT("/projects/:project_id", cfg.ProjectHandler.Update)
	router.DELETE("/projects/:project_id", cfg.ProjectHandler.Delete)
	router.POST("/projects/:project_id/refresh-caches", cfg.ProjectHandler.RefreshCaches)
	router.POST("/projects/:project_id/refresh-caches/:release_id", cfg.ProjectHandler.RefreshCaches)

	// Users
	router.POST("/users", cfg.UserHandler.Create)
	router.GET("/users", cfg.UserHandler.List)
	router.GET("/users/by-id/:user_id", cfg.UserHandler.GetByID)
	router.GET("/users/by-username/:username", cfg.UserHandler.GetByUsername)
	router.GET("/users/by-email/:email", cfg.UserHandler.GetByEmail)
	router.PATCH("/users/:user_id", cfg.UserHandler.Update)
	router.DELETE("/users/:user_id", cfg.UserHandler.Delete)

	// ===============
	// || Protected ||
	// ===============
	testCases := router.Group("/projects/:project_id/test-cases")
	testCases.Use(cfg.AuthMiddleware.RequireAuth())
	testCases.POST("", cfg.TestCaseHandler.Create)
	testCases.GET("/:test_case_id", cfg.TestCaseHandler.Get)
	testCases.PUT("/:test_case_id", cfg.TestCaseHandler.Update)
	testCases.DELETE("/:test_case_id", cfg.TestCaseHandler.Delete)
	testCases.POST("/:test_case_id/move", cfg.TestCaseHandler.Move)
	testCases.POST("/count", cfg.TestCaseHandler.Count)
	testCases.POST("/search", cfg.TestCaseHandler.Search)

	return router
}

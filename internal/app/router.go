package app

import (
	"github.com/gin-gonic/gin"

	"github.com/verityqa/verity-backend/internal/server"
)

func wireRouter(cfg Config, h Handlers, mw Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		ServiceName:      cfg.ServiceName,
		AllowedOrigins:   cfg.AllowedOrigins,
		AuthHandler:      h.Auth,
		AuthMiddleware:   mw.Auth,
		PortfolioHandler: h.Portfolio,
		ProgramHandler:   h.Program,
		ProjectHandler:   h.Project,
		UserHandler:      h.User,
		TestCaseHandler:  h.TestCase,
	})
}

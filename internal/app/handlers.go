package app

import (
	"github.com/verityqa/verity-backend/internal/handlers"
	"github.com/verityqa/verity-backend/internal/pkg/logger"
)

type Handlers struct {
	Auth      *handlers.AuthHandler
	Portfolio *handlers.PortfolioHandler
	Program   *handlers.ProgramHandler
	Project   *handlers.ProjectHandler
	User      *handlers.UserHandler
	TestCase  *handlers.TestCaseHandler
}

func wireHandlers(log *logger.Logger, s Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:      handlers.NewAuthHandler(log, s.Auth),
		Portfolio: handlers.NewPortfolioHandler(log, s.Portfolio),
		Program:   handlers.NewProgramHandler(log, s.Program),
		Project:   handlers.NewProjectHandler(log, s.Project),
		User:      handlers.NewUserHandler(log, s.User),
		TestCase:  handlers.NewTestCaseHandler(log, s.TestCase),
	}
}

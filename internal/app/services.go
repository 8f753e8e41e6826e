package app

import (
	"gorm.io/gorm"

	"github.com/verityqa/verity-backend/internal/pkg/logger"
	"github.com/verityqa/verity-backend/internal/services"
)

type Services struct {
	Portfolio services.PortfolioService
	Program   services.ProgramService
	Project   services.ProjectService
	User      services.UserService
	TestCase  services.TestCaseService
	Auth      services.AuthService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos) Services {
	log.Info("Wiring services...")
	return Services{
		Portfolio: services.NewPortfolioService(db, r.Portfolio, log),
		Program:   services.NewProgramService(db, r.Program, r.Portfolio, log),
		Project:   services.NewProjectService(db, r.Project, log),
		User:      services.NewUserService(db, r.User, log),
		TestCase:  services.NewTestCaseService(db, r.TestCase, r.Project, log),
		Auth:      services.NewAuthService(r.User, cfg.JWTSecretKey, cfg.TokenTTL, log),
	}
}

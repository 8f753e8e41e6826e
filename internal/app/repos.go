package app

import (
	"gorm.io/gorm"

	"github.com/verityqa/verity-backend/internal/data/repos"
	"github.com/verityqa/verity-backend/internal/pkg/logger"
)

type Repos struct {
	Portfolio repos.PortfolioRepo
	Program   repos.ProgramRepo
	Project   repos.ProjectRepo
	User      repos.UserRepo
	TestCase  repos.TestCaseRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Portfolio: repos.NewPortfolioRepo(db, log),
		Program:   repos.NewProgramRepo(db, log),
		Project:   repos.NewProjectRepo(db, log),
		User:      repos.NewUserRepo(db, log),
		TestCase:  repos.NewTestCaseRepo(db, log),
	}
}

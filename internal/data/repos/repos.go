// Package repos re-exports the per-area repository interfaces so wiring
// code imports a single package.
package repos

import (
	"gorm.io/gorm"

	"github.com/verityqa/verity-backend/internal/data/repos/catalog"
	"github.com/verityqa/verity-backend/internal/data/repos/projects"
	"github.com/verityqa/verity-backend/internal/data/repos/testcases"
	"github.com/verityqa/verity-backend/internal/data/repos/users"
	"github.com/verityqa/verity-backend/internal/pkg/logger"
)

type PortfolioRepo = catalog.PortfolioRepo
type ProgramRepo = catalog.ProgramRepo
type ProjectRepo = projects.ProjectRepo
type UserRepo = users.UserRepo
type TestCaseRepo = testcases.TestCaseRepo

type SearchFilters = testcases.SearchFilters
type StepInput = testcases.StepInput

func NewPortfolioRepo(db *gorm.DB, log *logger.Logger) PortfolioRepo {
	return catalog.NewPortfolioRepo(db, log)
}

func NewProgramRepo(db *gorm.DB, log *logger.Logger) ProgramRepo {
	return catalog.NewProgramRepo(db, log)
}

func NewProjectRepo(db *gorm.DB, log *logger.Logger) ProjectRepo {
	return projects.NewProjectRepo(db, log)
}

func NewUserRepo(db *gorm.DB, log *logger.Logger) UserRepo {
	return users.NewUserRepo(db, log)
}

func NewTestCaseRepo(db *gorm.DB, log *logger.Logger) TestCaseRepo {
	return testcases.NewTestCaseRepo(db, log)
}

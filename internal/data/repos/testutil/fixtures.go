package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/verityqa/verity-backend/internal/domain"
)

func SeedPortfolio(tb testing.TB, ctx context.Context, tx *gorm.DB, name string, isDefault bool) *types.Portfolio {
	tb.Helper()
	p := &types.Portfolio{
		Name:             name,
		GUID:             uuid.New(),
		ConcurrencyToken: uuid.New(),
		IsActive:         true,
		IsDefault:        isDefault,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed portfolio: %v", err)
	}
	return p
}

func SeedProgram(tb testing.TB, ctx context.Context, tx *gorm.DB, portfolioID int64, name string, isDefault bool) *types.Program {
	tb.Helper()
	p := &types.Program{
		Name:             name,
		PortfolioID:      portfolioID,
		GUID:             uuid.New(),
		ConcurrencyToken: uuid.New(),
		IsActive:         true,
		IsDefault:        isDefault,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed program: %v", err)
	}
	return p
}

func SeedProject(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.Project {
	tb.Helper()
	p := &types.Project{
		Name:     name,
		Status:   "active",
		IsActive: true,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed project: %v", err)
	}
	return p
}

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, username, email string) *types.User {
	tb.Helper()
	u := &types.User{
		Username:       username,
		Email:          email,
		HashedPassword: "hash",
		Active:         true,
		Department:     "QA",
		Unit:           "Core",
		FirstName:      "A",
		LastName:       "B",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedTestCase(tb testing.TB, ctx context.Context, tx *gorm.DB, projectID int64, name string) *types.TestCase {
	tb.Helper()
	tc := &types.TestCase{
		ProjectID: projectID,
		Name:      name,
		StatusID:  1,
		TypeID:    1,
	}
	if err := tx.WithContext(ctx).Create(tc).Error; err != nil {
		tb.Fatalf("seed test case: %v", err)
	}
	return tc
}

package services_test

import (
	"context"
	"testing"

	"github.com/verityqa/verity-backend/internal/data/repos"
	"github.com/verityqa/verity-backend/internal/data/repos/testutil"
	"github.com/verityqa/verity-backend/internal/pkg/apperr"
	"github.com/verityqa/verity-backend/internal/services"
)

func newProgramFixture(t *testing.T) (services.ProgramService, services.PortfolioService) {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	portfolioRepo := repos.NewPortfolioRepo(db, log)
	programRepo := repos.NewProgramRepo(db, log)
	return services.NewProgramService(db, programRepo, portfolioRepo, log),
		services.NewPortfolioService(db, portfolioRepo, log)
}

func TestProgramService_CreateInMissingPortfolio(t *testing.T) {
	programs, _ := newProgramFixture(t)
	ctx := context.Background()

	_, err := programs.Create(ctx, 999999, services.ProgramCreate{Name: uniqueName("Orphan")})
	if !apperr.IsNotFound(err) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestProgramService_DefaultScopedPerPortfolio(t *testing.T) {
	programs, portfolios := newProgramFixture(t)
	ctx := context.Background()

	left, err := portfolios.Create(ctx, services.PortfolioCreate{Name: uniqueName("Left")})
	if err != nil {
		t.Fatalf("create left: %v", err)
	}
	right, err := portfolios.Create(ctx, services.PortfolioCreate{Name: uniqueName("Right")})
	if err != nil {
		t.Fatalf("create right: %v", err)
	}

	leftDefault, err := programs.Create(ctx, left.ID, services.ProgramCreate{Name: uniqueName("Left default"), IsDefault: true})
	if err != nil {
		t.Fatalf("create left default: %v", err)
	}
	rightDefault, err := programs.Create(ctx, right.ID, services.ProgramCreate{Name: uniqueName("Right default"), IsDefault: true})
	if err != nil {
		t.Fatalf("create right default: %v", err)
	}

	// A new default in left displaces only left's holder.
	if _, err := programs.Create(ctx, left.ID, services.ProgramCreate{Name: uniqueName("Left usurper"), IsDefault: true}); err != nil {
		t.Fatalf("create usurper: %v", err)
	}

	reloadedLeft, err := programs.Get(ctx, leftDefault.ID)
	if err != nil {
		t.Fatalf("get left default: %v", err)
	}
	if reloadedLeft.IsDefault {
		t.Fatal("left default was not displaced")
	}

	reloadedRight, err := programs.Get(ctx, rightDefault.ID)
	if err != nil {
		t.Fatalf("get right default: %v", err)
	}
	if !reloadedRight.IsDefault {
		t.Fatal("right default was displaced from another portfolio")
	}
}

func TestProgramService_MoveTargetsNewPortfolioDefault(t *testing.T) {
	programs, portfolios := newProgramFixture(t)
	ctx := context.Background()

	source, err := portfolios.Create(ctx, services.PortfolioCreate{Name: uniqueName("Source")})
	if err != nil {
		t.Fatalf("create source: %v", err)
	}
	target, err := portfolios.Create(ctx, services.PortfolioCreate{Name: uniqueName("Target")})
	if err != nil {
		t.Fatalf("create target: %v", err)
	}

	targetDefault, err := programs.Create(ctx, target.ID, services.ProgramCreate{Name: uniqueName("Target default"), IsDefault: true})
	if err != nil {
		t.Fatalf("create target default: %v", err)
	}
	mover, err := programs.Create(ctx, source.ID, services.ProgramCreate{Name: uniqueName("Mover")})
	if err != nil {
		t.Fatalf("create mover: %v", err)
	}

	isDefault := true
	moved, err := programs.Update(ctx, mover.ID, services.ProgramPatch{
		PortfolioID:      &target.ID,
		IsDefault:        &isDefault,
		ConcurrencyToken: mover.ConcurrencyToken,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if moved.PortfolioID != target.ID || !moved.IsDefault {
		t.Fatalf("moved = %+v", moved)
	}

	reloaded, err := programs.Get(ctx, targetDefault.ID)
	if err != nil {
		t.Fatalf("get target default: %v", err)
	}
	if reloaded.IsDefault {
		t.Fatal("target portfolio's old default survived the move")
	}
}

package catalog_test

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/verityqa/verity-backend/internal/data/repos/catalog"
	"github.com/verityqa/verity-backend/internal/data/repos/testutil"
	"github.com/verityqa/verity-backend/internal/pkg/apperr"
)

func TestProgramClearDefaultScopedToPortfolio(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := catalog.NewProgramRepo(testutil.DB(t), testutil.Logger(t))

	left := testutil.SeedPortfolio(t, ctx, tx, "Left", false)
	right := testutil.SeedPortfolio(t, ctx, tx, "Right", false)

	leftDefault := testutil.SeedProgram(t, ctx, tx, left.ID, "Left Default", true)
	rightDefault := testutil.SeedProgram(t, ctx, tx, right.ID, "Right Default", true)

	if err := repo.ClearDefaultInPortfolio(ctx, tx, left.ID, 0); err != nil {
		t.Fatalf("ClearDefaultInPortfolio: %v", err)
	}

	reloadedLeft, err := repo.GetByID(ctx, tx, leftDefault.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if reloadedLeft.IsDefault {
		t.Fatal("default in target portfolio was not cleared")
	}

	reloadedRight, err := repo.GetByID(ctx, tx, rightDefault.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !reloadedRight.IsDefault {
		t.Fatal("default in the other portfolio was clobbered")
	}
}

func TestProgramUpdateGuarded_TokenGate(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := catalog.NewProgramRepo(testutil.DB(t), testutil.Logger(t))

	portfolio := testutil.SeedPortfolio(t, ctx, tx, "Host", false)
	program := testutil.SeedProgram(t, ctx, tx, portfolio.ID, "Mobile", false)

	if _, err := repo.UpdateGuarded(ctx, tx, program.ID, uuid.New(), map[string]any{"name": "Nope"}); !apperr.IsConflict(err) {
		t.Fatalf("stale token: err = %v, want conflict", err)
	}

	updated, err := repo.UpdateGuarded(ctx, tx, program.ID, program.ConcurrencyToken, map[string]any{"name": "Mobile v2"})
	if err != nil {
		t.Fatalf("UpdateGuarded: %v", err)
	}
	if updated.Name != "Mobile v2" {
		t.Fatalf("name = %q", updated.Name)
	}
	if updated.ConcurrencyToken == program.ConcurrencyToken {
		t.Fatal("token was not rotated")
	}
}

func TestProgramListByPortfolio(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := catalog.NewProgramRepo(testutil.DB(t), testutil.Logger(t))

	mine := testutil.SeedPortfolio(t, ctx, tx, "Mine", false)
	other := testutil.SeedPortfolio(t, ctx, tx, "Other", false)
	testutil.SeedProgram(t, ctx, tx, mine.ID, "Alpha", false)
	testutil.SeedProgram(t, ctx, tx, mine.ID, "Beta", false)
	testutil.SeedProgram(t, ctx, tx, other.ID, "Gamma", false)

	results, err := repo.ListByPortfolio(ctx, tx, mine.ID, 0, 50, "")
	if err != nil {
		t.Fatalf("ListByPortfolio: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("len = %d, want 2", len(results))
	}
	for _, p := range results {
		if p.PortfolioID != mine.ID {
			t.Fatalf("program %d from portfolio %d leaked in", p.ID, p.PortfolioID)
		}
	}
}

func TestProgramSoftDeleteGuarded_RepeatConflicts(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := catalog.NewProgramRepo(testutil.DB(t), testutil.Logger(t))

	portfolio := testutil.SeedPortfolio(t, ctx, tx, "Host", false)
	program := testutil.SeedProgram(t, ctx, tx, portfolio.ID, "Doomed", false)

	deleted, err := repo.SoftDeleteGuarded(ctx, tx, program.ID, program.ConcurrencyToken)
	if err != nil {
		t.Fatalf("SoftDeleteGuarded: %v", err)
	}
	if !deleted.IsDeleted {
		t.Fatal("row was not tombstoned")
	}
	if _, err := repo.SoftDeleteGuarded(ctx, tx, program.ID, deleted.ConcurrencyToken); !apperr.IsConflict(err) {
		t.Fatalf("repeat delete: err = %v, want conflict", err)
	}
}

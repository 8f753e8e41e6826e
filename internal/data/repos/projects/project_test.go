package projects_test

import (
	"context"
	"testing"

	"github.com/verityqa/verity-backend/internal/data/repos/projects"
	"github.com/verityqa/verity-backend/internal/data/repos/testutil"
	"github.com/verityqa/verity-backend/internal/pkg/apperr"
)

func TestProjectUpdatePartial(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := projects.NewProjectRepo(testutil.DB(t), testutil.Logger(t))

	seeded := testutil.SeedProject(t, ctx, tx, "Checkout")

	updated, err := repo.UpdatePartial(ctx, tx, seeded.ID, map[string]any{
		"status":           "OnHold",
		"percent_complete": 40,
	})
	if err != nil {
		t.Fatalf("UpdatePartial: %v", err)
	}
	if updated.Status != "OnHold" {
		t.Fatalf("status = %q", updated.Status)
	}
	if updated.PercentComplete == nil || *updated.PercentComplete != 40 {
		t.Fatalf("percentComplete = %v", updated.PercentComplete)
	}
	if updated.Name != "Checkout" {
		t.Fatalf("untouched field changed: %q", updated.Name)
	}
}

func TestProjectUpdatePartial_EmptyPatchIsRead(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := projects.NewProjectRepo(testutil.DB(t), testutil.Logger(t))

	seeded := testutil.SeedProject(t, ctx, tx, "Checkout")

	got, err := repo.UpdatePartial(ctx, tx, seeded.ID, map[string]any{})
	if err != nil {
		t.Fatalf("UpdatePartial: %v", err)
	}
	if got.ID != seeded.ID || got.Name != "Checkout" {
		t.Fatalf("got %+v", got)
	}
}

func TestProjectSoftDelete(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := projects.NewProjectRepo(testutil.DB(t), testutil.Logger(t))

	seeded := testutil.SeedProject(t, ctx, tx, "Doomed")

	if err := repo.SoftDelete(ctx, tx, seeded.ID); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}
	if _, err := repo.GetByID(ctx, tx, seeded.ID); !apperr.IsNotFound(err) {
		t.Fatalf("deleted project still readable: %v", err)
	}
	if err := repo.SoftDelete(ctx, tx, seeded.ID); !apperr.IsNotFound(err) {
		t.Fatalf("second delete: err = %v, want not found", err)
	}
}

func TestProjectList_SkipsDeleted(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := projects.NewProjectRepo(testutil.DB(t), testutil.Logger(t))

	testutil.SeedProject(t, ctx, tx, "Alive one")
	testutil.SeedProject(t, ctx, tx, "Alive two")
	doomed := testutil.SeedProject(t, ctx, tx, "Dead")
	if err := repo.SoftDelete(ctx, tx, doomed.ID); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}

	results, err := repo.List(ctx, tx, 50, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for _, p := range results {
		if p.IsDeleted {
			t.Fatalf("deleted project %d leaked into listing", p.ID)
		}
		if p.Name == "Dead" {
			t.Fatal("deleted project leaked into listing")
		}
	}
}

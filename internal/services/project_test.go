package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/verityqa/verity-backend/internal/data/repos"
	"github.com/verityqa/verity-backend/internal/data/repos/testutil"
	"github.com/verityqa/verity-backend/internal/pkg/apperr"
	"github.com/verityqa/verity-backend/internal/services"
)

func newProjectService(t *testing.T) services.ProjectService {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	return services.NewProjectService(db, repos.NewProjectRepo(db, log), log)
}

func TestProjectService_CreateValidatesDates(t *testing.T) {
	svc := newProjectService(t)
	ctx := context.Background()

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, -1, 0)
	_, err := svc.Create(ctx, services.ProjectCreate{
		Name:      uniqueName("Backwards"),
		StartDate: &start,
		EndDate:   &end,
	})
	if !apperr.IsValidation(err) {
		t.Fatalf("err = %v, want validation", err)
	}

	percent := 150
	_, err = svc.Create(ctx, services.ProjectCreate{
		Name:            uniqueName("Overdone"),
		PercentComplete: &percent,
	})
	if !apperr.IsValidation(err) {
		t.Fatalf("percent: err = %v, want validation", err)
	}
}

func TestProjectService_CreateDefaultsStatus(t *testing.T) {
	svc := newProjectService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, services.ProjectCreate{Name: uniqueName("Plain")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Status != "Active" {
		t.Fatalf("status = %q, want Active", created.Status)
	}
	if !created.IsActive {
		t.Fatal("project not active")
	}
}

func TestProjectService_CreateFromExisting(t *testing.T) {
	svc := newProjectService(t)
	ctx := context.Background()

	desc := "Inherited description"
	hours := 6
	source, err := svc.Create(ctx, services.ProjectCreate{
		Name:         uniqueName("Template"),
		Description:  &desc,
		WorkingHours: &hours,
		Status:       "Planning",
	})
	if err != nil {
		t.Fatalf("create source: %v", err)
	}

	ownDesc := "My own description"
	clone, err := svc.Create(ctx, services.ProjectCreate{
		Name:              uniqueName("Clone"),
		Description:       &ownDesc,
		ExistingProjectID: &source.ID,
	})
	if err != nil {
		t.Fatalf("create clone: %v", err)
	}
	if clone.Description == nil || *clone.Description != ownDesc {
		t.Fatalf("explicit field was overridden: %v", clone.Description)
	}
	if clone.WorkingHours == nil || *clone.WorkingHours != hours {
		t.Fatalf("unset field was not inherited: %v", clone.WorkingHours)
	}
	if clone.Status != "Planning" {
		t.Fatalf("status = %q, want inherited Planning", clone.Status)
	}

	if _, err := svc.Create(ctx, services.ProjectCreate{
		Name:              uniqueName("Orphan clone"),
		ExistingProjectID: ptrInt64(999999),
	}); !apperr.IsNotFound(err) {
		t.Fatalf("missing source: err = %v, want not found", err)
	}
}

func ptrInt64(v int64) *int64 { return &v }

func TestProjectService_UpdateChecksStoredDateRange(t *testing.T) {
	svc := newProjectService(t)
	ctx := context.Background()

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 2, 0)
	created, err := svc.Create(ctx, services.ProjectCreate{
		Name:      uniqueName("Ranged"),
		StartDate: &start,
		EndDate:   &end,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Patching only the end below the stored start must fail.
	badEnd := start.AddDate(0, -1, 0)
	if _, err := svc.Update(ctx, created.ID, services.ProjectPatch{EndDate: &badEnd}); !apperr.IsValidation(err) {
		t.Fatalf("err = %v, want validation", err)
	}
}

func TestProjectService_RefreshCaches(t *testing.T) {
	svc := newProjectService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, services.ProjectCreate{Name: uniqueName("Cached")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	sync, err := svc.RefreshCaches(ctx, created.ID, nil, false)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if sync.Status != "completed" || sync.ProjectID != created.ID {
		t.Fatalf("sync = %+v", sync)
	}

	releaseID := int64(3)
	queued, err := svc.RefreshCaches(ctx, created.ID, &releaseID, true)
	if err != nil {
		t.Fatalf("refresh async: %v", err)
	}
	if queued.Status != "queued" || queued.ReleaseID == nil || *queued.ReleaseID != releaseID {
		t.Fatalf("queued = %+v", queued)
	}

	if _, err := svc.RefreshCaches(ctx, 999999, nil, false); !apperr.IsNotFound(err) {
		t.Fatalf("missing project: err = %v, want not found", err)
	}
}

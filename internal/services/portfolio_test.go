package services_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/verityqa/verity-backend/internal/data/repos"
	"github.com/verityqa/verity-backend/internal/data/repos/testutil"
	"github.com/verityqa/verity-backend/internal/pkg/apperr"
	"github.com/verityqa/verity-backend/internal/services"
)

// Service tests run against the shared database with committed writes,
// so every fixture name carries a unique suffix.
func uniqueName(prefix string) string {
	return fmt.Sprintf("%s %s", prefix, uuid.NewString()[:8])
}

func newPortfolioService(t *testing.T) services.PortfolioService {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	return services.NewPortfolioService(db, repos.NewPortfolioRepo(db, log), log)
}

func TestPortfolioService_CreateValidatesName(t *testing.T) {
	svc := newPortfolioService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, services.PortfolioCreate{Name: "x"})
	if !apperr.IsValidation(err) {
		t.Fatalf("err = %v, want validation", err)
	}
}

func TestPortfolioService_DefaultHandoffOnCreate(t *testing.T) {
	svc := newPortfolioService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, services.PortfolioCreate{Name: uniqueName("First default"), IsDefault: true})
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	second, err := svc.Create(ctx, services.PortfolioCreate{Name: uniqueName("Second default"), IsDefault: true})
	if err != nil {
		t.Fatalf("create second: %v", err)
	}
	if !second.IsDefault {
		t.Fatal("second portfolio did not take the default slot")
	}

	reloaded, err := svc.Get(ctx, first.ID)
	if err != nil {
		t.Fatalf("get first: %v", err)
	}
	if reloaded.IsDefault {
		t.Fatal("first portfolio kept the default slot")
	}
}

func TestPortfolioService_DefaultHandoffOnUpdate(t *testing.T) {
	svc := newPortfolioService(t)
	ctx := context.Background()

	holder, err := svc.Create(ctx, services.PortfolioCreate{Name: uniqueName("Holder"), IsDefault: true})
	if err != nil {
		t.Fatalf("create holder: %v", err)
	}
	challenger, err := svc.Create(ctx, services.PortfolioCreate{Name: uniqueName("Challenger")})
	if err != nil {
		t.Fatalf("create challenger: %v", err)
	}

	isDefault := true
	updated, err := svc.Update(ctx, challenger.ID, services.PortfolioPatch{
		IsDefault:        &isDefault,
		ConcurrencyToken: challenger.ConcurrencyToken,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.IsDefault {
		t.Fatal("challenger did not become default")
	}

	reloaded, err := svc.Get(ctx, holder.ID)
	if err != nil {
		t.Fatalf("get holder: %v", err)
	}
	if reloaded.IsDefault {
		t.Fatal("holder kept the default slot")
	}
}

func TestPortfolioService_UpdateRequiresToken(t *testing.T) {
	svc := newPortfolioService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, services.PortfolioCreate{Name: uniqueName("Tokenless")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	name := "Renamed anyway"
	_, err = svc.Update(ctx, created.ID, services.PortfolioPatch{Name: &name})
	if !apperr.IsConflict(err) {
		t.Fatalf("err = %v, want conflict", err)
	}
}

func TestPortfolioService_StaleDefaultHandoffRollsBack(t *testing.T) {
	svc := newPortfolioService(t)
	ctx := context.Background()

	holder, err := svc.Create(ctx, services.PortfolioCreate{Name: uniqueName("Holder"), IsDefault: true})
	if err != nil {
		t.Fatalf("create holder: %v", err)
	}
	challenger, err := svc.Create(ctx, services.PortfolioCreate{Name: uniqueName("Challenger")})
	if err != nil {
		t.Fatalf("create challenger: %v", err)
	}

	// The update clears the holder's flag inside the transaction, then
	// fails the token gate; the clear must not survive the rollback.
	isDefault := true
	_, err = svc.Update(ctx, challenger.ID, services.PortfolioPatch{
		IsDefault:        &isDefault,
		ConcurrencyToken: uuid.New(),
	})
	if !apperr.IsConflict(err) {
		t.Fatalf("err = %v, want conflict", err)
	}

	reloaded, err := svc.Get(ctx, holder.ID)
	if err != nil {
		t.Fatalf("get holder: %v", err)
	}
	if !reloaded.IsDefault {
		t.Fatal("failed update leaked the default clear")
	}
}

func TestPortfolioService_DeleteRequiresFreshToken(t *testing.T) {
	svc := newPortfolioService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, services.PortfolioCreate{Name: uniqueName("Doomed")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Delete(ctx, created.ID, uuid.New()); !apperr.IsConflict(err) {
		t.Fatalf("stale token: err = %v, want conflict", err)
	}

	deleted, err := svc.Delete(ctx, created.ID, created.ConcurrencyToken)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !deleted.IsDeleted {
		t.Fatal("row was not tombstoned")
	}
	if _, err := svc.Get(ctx, created.ID); !apperr.IsNotFound(err) {
		t.Fatalf("deleted portfolio still readable: %v", err)
	}
}

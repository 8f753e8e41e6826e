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

func newAuthFixture(t *testing.T) (services.AuthService, services.UserService) {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	userRepo := repos.NewUserRepo(db, log)
	return services.NewAuthService(userRepo, "test-secret", time.Hour, log),
		services.NewUserService(db, userRepo, log)
}

func TestAuthService_LoginRoundTrip(t *testing.T) {
	auth, usersSvc := newAuthFixture(t)
	ctx := context.Background()

	username, email := uniqueUser()
	created, err := usersSvc.Create(ctx, services.UserCreate{
		Username:   username,
		Email:      email,
		Password:   "correct horse",
		Department: "QA",
		Unit:       "Core",
		FirstName:  "Pat",
		LastName:   "Quinn",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	token, user, err := auth.Login(ctx, username, "correct horse")
	if err != nil {
		t.Fatalf("login by username: %v", err)
	}
	if user.ID != created.ID {
		t.Fatalf("user.ID = %d, want %d", user.ID, created.ID)
	}

	parsedID, err := auth.ParseToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsedID != created.ID {
		t.Fatalf("parsed id = %d, want %d", parsedID, created.ID)
	}

	// Email also works as the login handle.
	if _, _, err := auth.Login(ctx, email, "correct horse"); err != nil {
		t.Fatalf("login by email: %v", err)
	}
}

func TestAuthService_LoginRejectsBadCredentials(t *testing.T) {
	auth, usersSvc := newAuthFixture(t)
	ctx := context.Background()

	username, email := uniqueUser()
	if _, err := usersSvc.Create(ctx, services.UserCreate{
		Username:   username,
		Email:      email,
		Password:   "correct horse",
		Department: "QA",
		Unit:       "Core",
		FirstName:  "Pat",
		LastName:   "Quinn",
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, _, err := auth.Login(ctx, username, "wrong password"); !apperr.IsUnauthorized(err) {
		t.Fatalf("wrong password: err = %v, want unauthorized", err)
	}
	if _, _, err := auth.Login(ctx, "nobody-here", "correct horse"); !apperr.IsUnauthorized(err) {
		t.Fatalf("unknown user: err = %v, want unauthorized", err)
	}
}

func TestAuthService_LoginRejectsLockedAccount(t *testing.T) {
	auth, usersSvc := newAuthFixture(t)
	ctx := context.Background()

	username, email := uniqueUser()
	created, err := usersSvc.Create(ctx, services.UserCreate{
		Username:   username,
		Email:      email,
		Password:   "correct horse",
		Department: "QA",
		Unit:       "Core",
		FirstName:  "Pat",
		LastName:   "Quinn",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	locked := true
	if _, err := usersSvc.Update(ctx, created.ID, services.UserPatch{Locked: &locked}); err != nil {
		t.Fatalf("lock: %v", err)
	}

	if _, _, err := auth.Login(ctx, username, "correct horse"); !apperr.IsUnauthorized(err) {
		t.Fatalf("locked account: err = %v, want unauthorized", err)
	}
}

func TestAuthService_ParseRejectsForeignToken(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	userRepo := repos.NewUserRepo(db, log)
	signer := services.NewAuthService(userRepo, "secret-a", time.Hour, log)
	verifier := services.NewAuthService(userRepo, "secret-b", time.Hour, log)

	ctx := context.Background()
	username, email := uniqueUser()
	usersSvc := services.NewUserService(db, userRepo, log)
	if _, err := usersSvc.Create(ctx, services.UserCreate{
		Username:   username,
		Email:      email,
		Password:   "correct horse",
		Department: "QA",
		Unit:       "Core",
		FirstName:  "Pat",
		LastName:   "Quinn",
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	token, _, err := signer.Login(ctx, username, "correct horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := verifier.ParseToken(token); !apperr.IsUnauthorized(err) {
		t.Fatalf("foreign token: err = %v, want unauthorized", err)
	}
}

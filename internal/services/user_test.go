package services_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/verityqa/verity-backend/internal/data/repos"
	"github.com/verityqa/verity-backend/internal/data/repos/testutil"
	"github.com/verityqa/verity-backend/internal/pkg/apperr"
	"github.com/verityqa/verity-backend/internal/services"
)

func newUserService(t *testing.T) services.UserService {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	return services.NewUserService(db, repos.NewUserRepo(db, log), log)
}

func uniqueUser() (string, string) {
	suffix := uuid.NewString()[:8]
	return "user_" + suffix, fmt.Sprintf("user_%s@example.com", suffix)
}

func TestUserService_CreateNormalizesEmail(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	username, email := uniqueUser()
	created, err := svc.Create(ctx, services.UserCreate{
		Username:   "  " + username + "  ",
		Email:      "  " + strings.ToUpper(email) + "  ",
		Password:   "correct horse",
		Department: "QA",
		Unit:       "Core",
		FirstName:  "Pat",
		LastName:   "Quinn",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Username != username {
		t.Fatalf("username = %q, want %q", created.Username, username)
	}
	if created.Email != email {
		t.Fatalf("email = %q, want %q", created.Email, email)
	}
	if !created.Active || created.Approved || created.Locked {
		t.Fatalf("flags = active:%v approved:%v locked:%v", created.Active, created.Approved, created.Locked)
	}
	if created.HashedPassword == "correct horse" {
		t.Fatal("password stored in the clear")
	}
}

func TestUserService_CreateRejectsDuplicates(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	username, email := uniqueUser()
	base := services.UserCreate{
		Username:   username,
		Email:      email,
		Password:   "correct horse",
		Department: "QA",
		Unit:       "Core",
		FirstName:  "Pat",
		LastName:   "Quinn",
	}
	if _, err := svc.Create(ctx, base); err != nil {
		t.Fatalf("create: %v", err)
	}

	dup := base
	_, otherEmail := uniqueUser()
	dup.Email = otherEmail
	if _, err := svc.Create(ctx, dup); !apperr.IsConflict(err) {
		t.Fatalf("dup username: err = %v, want conflict", err)
	}

	dup = base
	otherUsername, _ := uniqueUser()
	dup.Username = otherUsername
	if _, err := svc.Create(ctx, dup); !apperr.IsConflict(err) {
		t.Fatalf("dup email: err = %v, want conflict", err)
	}
}

func TestUserService_CreateValidation(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	username, email := uniqueUser()
	cases := []services.UserCreate{
		{Username: "", Email: email, Password: "correct horse"},
		{Username: username, Email: "not-an-email", Password: "correct horse"},
		{Username: username, Email: email, Password: "short"},
	}
	for i, in := range cases {
		if _, err := svc.Create(ctx, in); !apperr.IsValidation(err) {
			t.Fatalf("case %d: err = %v, want validation", i, err)
		}
	}
}

func TestUserService_DeleteFreesIdentityForReuse(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	username, email := uniqueUser()
	in := services.UserCreate{
		Username:   username,
		Email:      email,
		Password:   "correct horse",
		Department: "QA",
		Unit:       "Core",
		FirstName:  "Pat",
		LastName:   "Quinn",
	}
	first, err := svc.Create(ctx, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	deleted, err := svc.Delete(ctx, first.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted.Username == username || deleted.Email == email {
		t.Fatal("identity was not tombstoned")
	}

	second, err := svc.Create(ctx, in)
	if err != nil {
		t.Fatalf("re-create: %v", err)
	}
	if second.ID == first.ID {
		t.Fatal("re-create reused the deleted row")
	}

	if _, err := svc.Delete(ctx, first.ID); !apperr.IsNotFound(err) {
		t.Fatalf("second delete: err = %v, want not found", err)
	}
}

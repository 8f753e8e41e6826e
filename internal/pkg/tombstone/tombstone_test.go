package tombstone

import (
	"strings"
	"testing"
)

func TestUsernameKeepsPrefixWithinBudget(t *testing.T) {
	got := Username("alice", 128)
	if !strings.HasPrefix(got, "alice__del__") {
		t.Fatalf("expected preserved prefix, got %q", got)
	}
	if len(got) > 128 {
		t.Fatalf("exceeds budget: %d", len(got))
	}
	if got == Username("alice", 128) {
		t.Fatalf("two tombstones collided")
	}
}

func TestUsernameTruncatesOriginalUnderPressure(t *testing.T) {
	long := strings.Repeat("x", 60)
	got := Username(long, 50)
	if len(got) != 50 {
		t.Fatalf("expected exactly 50 chars, got %d", len(got))
	}
	if !strings.Contains(got, "__del__") {
		t.Fatalf("suffix missing: %q", got)
	}
}

func TestUsernameTinyBudgetTruncatesSuffix(t *testing.T) {
	got := Username("bob", 10)
	if len(got) != 10 {
		t.Fatalf("expected exactly 10 chars, got %d", len(got))
	}
}

func TestEmailPreservesDomain(t *testing.T) {
	got := Email("alice@example.com", 255)
	if !strings.HasSuffix(got, "@example.com") {
		t.Fatalf("domain not preserved: %q", got)
	}
	if !strings.HasPrefix(got, "alice+deleted.") {
		t.Fatalf("local part not preserved: %q", got)
	}
	if len(got) > 255 {
		t.Fatalf("exceeds budget: %d", len(got))
	}
}

func TestEmailTruncatesLocalPart(t *testing.T) {
	local := strings.Repeat("a", 100)
	got := Email(local+"@x.com", 50)
	if len(got) > 50 {
		t.Fatalf("exceeds budget: %d", len(got))
	}
	if !strings.HasSuffix(got, "@x.com") {
		t.Fatalf("domain not preserved: %q", got)
	}
}

func TestEmailSacrificesDomainOnlyWhenForced(t *testing.T) {
	got := Email("a@this-domain-is-really-quite-long.example.org", 20)
	if len(got) > 20 {
		t.Fatalf("exceeds budget: %d", len(got))
	}
}

func TestEmailWithoutAtFallsBackToUsernameShape(t *testing.T) {
	got := Email("not-an-email", 64)
	if !strings.Contains(got, "__del__") {
		t.Fatalf("expected username-style tombstone, got %q", got)
	}
}

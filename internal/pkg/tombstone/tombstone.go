// Package tombstone rewrites unique identity fields of soft-deleted users
// into collision-free values so the originals become reusable while the row
// stays queryable by id.
package tombstone

import (
	"strings"

	"github.com/google/uuid"
)

const (
	usernameSuffix = "__del__"
	emailSuffix    = "+deleted."
	tokenLen       = 8
)

func token() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:tokenLen]
}

// Username mangles a username to "<prefix><usernameSuffix><token>", keeping
// as much of the original as the length budget allows. When the suffix alone
// does not fit, the suffix itself is truncated.
func Username(original string, maxLen int) string {
	return mangle(original, usernameSuffix+token(), maxLen)
}

// Email converts "local@domain" to "<local'><emailSuffix><token>@domain",
// truncating the local part so the whole address fits maxLen. The domain is
// preserved whenever the budget allows; only when suffix+domain alone exceed
// the budget is the address mangled as an opaque string.
func Email(original string, maxLen int) string {
	at := strings.Index(original, "@")
	if at < 0 {
		return Username(original, maxLen)
	}
	local, domain := original[:at], original[at+1:]
	suffix := emailSuffix + token()
	keep := maxLen - (len(suffix) + 1 + len(domain))
	if keep < 0 {
		keep = 0
	}
	if keep < len(local) {
		local = local[:keep]
	}
	out := local + suffix + "@" + domain
	if len(out) > maxLen {
		// Even an empty local part does not fit: give up on the address
		// shape and tombstone the raw string.
		return mangle(original, usernameSuffix+token(), maxLen)
	}
	return out
}

func mangle(original, suffix string, maxLen int) string {
	keep := maxLen - len(suffix)
	if keep < 1 {
		return suffix[:maxLen]
	}
	if keep < len(original) {
		original = original[:keep]
	}
	return original + suffix
}

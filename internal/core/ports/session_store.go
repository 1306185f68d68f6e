package ports

import (
	"context"

	"github.com/opsdeck/admin-console/internal/core/domain"
)

// SessionStore is the durable mirror of the in-memory session. It never acts
// as an independent source of truth: on disagreement the in-memory session
// wins until the next verification.
//
// Absent values are reported as zero values with a nil error. Implementations
// treat an unavailable backing store as "absent" on reads and best-effort on
// writes; only undecodable data surfaces as an error.
type SessionStore interface {
	// Save persists token and user together; callers never observe a state
	// where only one of the two is present on the happy path.
	Save(ctx context.Context, token string, user *domain.User) error
	// Clear removes both entries. Idempotent.
	Clear(ctx context.Context) error
	ReadToken(ctx context.Context) (string, error)
	ReadUser(ctx context.Context) (*domain.User, error)
}

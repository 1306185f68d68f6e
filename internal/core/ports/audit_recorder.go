package ports

import (
	"context"

	"github.com/opsdeck/admin-console/internal/core/domain"
)

// AuditRecorder persists session lifecycle events. Recording is best-effort:
// the session manager logs failures and moves on.
type AuditRecorder interface {
	Record(ctx context.Context, event domain.AuditEvent) error
	// Recent returns up to limit events, newest first.
	Recent(ctx context.Context, limit int) ([]domain.AuditEvent, error)
}

package domain

import "time"

// Audit event kinds, one per session lifecycle transition.
const (
	AuditLogin          = "login"
	AuditLogout         = "logout"
	AuditVerifyOK       = "verify_ok"
	AuditVerifyRejected = "verify_rejected"
)

// AuditEvent records a single session lifecycle transition.
type AuditEvent struct {
	ID     string    `json:"id"`
	Kind   string    `json:"kind"`
	UserID string    `json:"user_id,omitempty"`
	Email  string    `json:"email,omitempty"`
	At     time.Time `json:"at"`
}

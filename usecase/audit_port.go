package usecase

import "context"

// Auth audit event kinds.
const (
	AuthEventLoginFailed    = "login_failed"
	AuthEventLoginSucceeded = "login_succeeded"
	AuthEventUserRegistered = "user_registered"
)

// AuthEvent describes an authentication outcome worth keeping an audit
// trail of. It identifies the account by email only; credential material
// never enters an event.
type AuthEvent struct {
	Kind   string
	Email  string
	Reason string
}

// AuditRecorder abstracts the audit trail so use cases stay storage-agnostic.
type AuditRecorder interface {
	RecordAuthEvent(ctx context.Context, event AuthEvent) error
}

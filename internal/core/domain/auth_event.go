package domain

import "time"

// AuthEventType classifies an entry in the authentication audit trail.
type AuthEventType string

const (
	EventLoginSucceeded AuthEventType = "login_succeeded"
	EventLoginFailed    AuthEventType = "login_failed"
	EventUserRegistered AuthEventType = "user_registered"
	EventAdminPromoted  AuthEventType = "admin_promoted"
	EventAdminDenied    AuthEventType = "admin_denied"
)

// AuthEvent records an authentication decision.
type AuthEvent struct {
	Type      AuthEventType
	Subject   string // e-mail or username the event is about
	Timestamp time.Time
	Detail    string // optional
}

package models

import (
	"time"
)

// Session issued by the auth service on successful login.
// Token is an opaque server-verifiable string; clients never get to pick
// or edit its contents.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

// SessionUser is the identity resolved from a valid session.
type SessionUser struct {
	ID       int64
	Username string
}

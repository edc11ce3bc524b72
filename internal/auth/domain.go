// Package auth establishes the session identity: it verifies bearer
// tokens minted by the external identity service, binds the decoded
// claims to a server-side session and registers sessions in Postgres
// for fleet-wide visibility. Token issuance and password handling stay
// with the issuer.
package auth

import "time"

// SessionRecord mirrors one row of the sessions registry.
type SessionRecord struct {
	ID        string
	UserID    int64
	RoleID    int64
	CreatedAt time.Time
	ExpiresAt time.Time
	IP        string
	UserAgent string
}

// Session value keys for the identity claims bound at login.
const (
	SessionKeyUserID = "user_id"
	SessionKeyRoleID = "rol_id"
)

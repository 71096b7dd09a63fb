package domain

import "time"

// SessionOrigin records which protocol adapter authenticated the session.
type SessionOrigin string

const (
	OriginSOAP SessionOrigin = "soap"
	OriginREST SessionOrigin = "rest"
)

// Valid reports whether o is a known origin.
func (o SessionOrigin) Valid() bool {
	return o == OriginSOAP || o == OriginREST
}

// Session models a stored session record. TokenHash is the SHA-256
// fingerprint of the opaque token handed to the client; the raw token is
// never persisted.
type Session struct {
	ID           string
	AccountID    string
	TokenHash    string
	Origin       SessionOrigin
	IssuedAt     time.Time
	ExpiresAt    time.Time // absolute lifetime cap
	IdleDeadline time.Time // idle expiry, may slide up to ExpiresAt
	LastSeenAt   time.Time
	Revoked      bool
}

// ExpiredAt reports whether the session is past either expiry at the given
// instant. The lazy check at validation time is authoritative; the
// housekeeping sweep only reclaims rows.
func (s *Session) ExpiredAt(now time.Time) bool {
	return now.After(s.ExpiresAt) || now.After(s.IdleDeadline)
}

// IssuedSession pairs a stored session with the raw opaque token. The token
// exists only in this value on its way back to the client.
type IssuedSession struct {
	Session Session
	Token   string
}

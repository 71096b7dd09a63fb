package service

import (
	"context"
	"errors"
	"time"

	"github.com/mrhteriyaki/kirov-server-emulator/internal/server/domain"
	"github.com/mrhteriyaki/kirov-server-emulator/internal/server/store"
	"github.com/mrhteriyaki/kirov-server-emulator/pkg/cryptox"
	"github.com/mrhteriyaki/kirov-server-emulator/pkg/idx"
	"github.com/mrhteriyaki/kirov-server-emulator/pkg/slogx"
)

// SessionRegistry issues, validates and revokes opaque session tokens.
// Expiry is enforced lazily at validation time; the housekeeping sweep only
// reclaims dead rows.
type SessionRegistry struct {
	Store store.Store

	// IdleTTL is the idle timeout; MaxTTL the absolute lifetime cap.
	// Whichever deadline is hit first ends the session.
	IdleTTL time.Duration
	MaxTTL  time.Duration

	// Sliding extends the idle deadline on every touch, never past the
	// absolute cap.
	Sliding bool

	// SingleSession enforces at most one valid session per (account, origin).
	// Issuing revokes the previous one inside the same transaction.
	SingleSession bool

	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time
}

func (r *SessionRegistry) now() time.Time {
	if r.Now != nil {
		return r.Now().UTC()
	}
	return time.Now().UTC()
}

// Issue creates a fresh session for the account. The raw token is returned
// once and never persisted; only its fingerprint is stored.
func (r *SessionRegistry) Issue(ctx context.Context, accountID string, origin domain.SessionOrigin) (domain.IssuedSession, error) {
	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return domain.IssuedSession{}, err
	}

	now := r.now()
	session := domain.Session{
		ID:           idx.New().String(),
		AccountID:    accountID,
		TokenHash:    cryptox.FingerprintToken(token),
		Origin:       origin,
		IssuedAt:     now,
		ExpiresAt:    now.Add(r.MaxTTL),
		IdleDeadline: now.Add(r.IdleTTL),
		LastSeenAt:   now,
	}
	if session.IdleDeadline.After(session.ExpiresAt) {
		session.IdleDeadline = session.ExpiresAt
	}

	err = r.Store.WithTx(ctx, func(tx store.Tx) error {
		if r.SingleSession {
			revoked, err := tx.Sessions().RevokeAccountOriginSessions(ctx, accountID, origin)
			if err != nil {
				return err
			}
			if revoked > 0 {
				slogx.FromContext(ctx).Info("session_displaced",
					"account_id", accountID,
					"origin", string(origin),
					"revoked", revoked,
				)
			}
		}
		return tx.Sessions().CreateSession(ctx, session)
	})
	if err != nil {
		return domain.IssuedSession{}, err
	}

	return domain.IssuedSession{Session: session, Token: token}, nil
}

// Validate resolves a token to its session, applying the lazy expiry check.
// A session past either deadline is invalid even if the sweep has not run.
func (r *SessionRegistry) Validate(ctx context.Context, token string) (domain.Session, error) {
	session, err := r.Store.Sessions().GetSessionByTokenHash(ctx, cryptox.FingerprintToken(token))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Session{}, ErrSessionNotFound
		}
		return domain.Session{}, err
	}

	if session.Revoked {
		return domain.Session{}, ErrSessionRevoked
	}
	if session.ExpiredAt(r.now()) {
		return domain.Session{}, ErrSessionExpired
	}
	return session, nil
}

// Touch refreshes last-seen and, under the sliding policy, extends the idle
// deadline up to the absolute cap. The update is a single atomic statement so
// concurrent touches on one token serialize in the store.
func (r *SessionRegistry) Touch(ctx context.Context, token string) error {
	session, err := r.Validate(ctx, token)
	if err != nil {
		return err
	}

	now := r.now()
	idleDeadline := session.IdleDeadline
	if r.Sliding {
		idleDeadline = now.Add(r.IdleTTL)
		if idleDeadline.After(session.ExpiresAt) {
			idleDeadline = session.ExpiresAt
		}
	}

	err = r.Store.Sessions().TouchSession(ctx, session.TokenHash, now, idleDeadline)
	if errors.Is(err, store.ErrNotFound) {
		// Revoked between validate and touch.
		return ErrSessionRevoked
	}
	return err
}

// Revoke marks the session dead. Revoking an unknown or already-revoked
// token is not an error; logout must be idempotent.
func (r *SessionRegistry) Revoke(ctx context.Context, token string) error {
	return r.Store.Sessions().RevokeSession(ctx, cryptox.FingerprintToken(token))
}

// RevokeAllForAccount revokes every live session the account owns and
// returns the count.
func (r *SessionRegistry) RevokeAllForAccount(ctx context.Context, accountID string) (int64, error) {
	return r.Store.Sessions().RevokeAccountSessions(ctx, accountID)
}

package store

import (
	"context"
	"errors"
	"time"

	"github.com/mrhteriyaki/kirov-server-emulator/internal/server/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today)
// implement it. Sub-repositories keep concerns tidy and let the service layer
// express multi-step operations without knowing the driver.
type Store interface {
	Accounts() Accounts
	Sessions() Sessions

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, committing on nil and rolling
	// back on error. Preferred over Tx for most call sites.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It exposes the same repos plus Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Accounts interface {
	// GetAccountByID returns an account by id.
	GetAccountByID(ctx context.Context, id string) (domain.Account, error)

	// GetAccountByUsername looks up by the case-folded username.
	GetAccountByUsername(ctx context.Context, username string) (domain.Account, error)

	// CreateAccount inserts a new account (id is provided by the app via
	// ULID). Returns ErrAlreadyExists when the username is taken.
	CreateAccount(ctx context.Context, a domain.Account) error

	// UpdatePasswordHash sets the password_hash and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, accountID, newHash string) error

	// UpdateStatus flips the lifecycle status and bumps updated_at.
	UpdateStatus(ctx context.Context, accountID string, status domain.AccountStatus) error
}

type Sessions interface {
	// CreateSession stores a freshly issued session record.
	CreateSession(ctx context.Context, s domain.Session) error

	// GetSessionByTokenHash returns the session for a token fingerprint,
	// revoked or expired included. Expiry policy lives in the registry.
	GetSessionByTokenHash(ctx context.Context, hash string) (domain.Session, error)

	// TouchSession refreshes last_seen_at and the idle deadline in one
	// atomic update, skipping revoked rows. Returns ErrNotFound if no live
	// row matched.
	TouchSession(ctx context.Context, hash string, lastSeen, idleDeadline time.Time) error

	// RevokeSession flips revoked=1. Revoking twice is not an error.
	RevokeSession(ctx context.Context, hash string) error

	// RevokeAccountSessions bulk-revokes every live session owned by the
	// account and returns the number of rows affected.
	RevokeAccountSessions(ctx context.Context, accountID string) (int64, error)

	// RevokeAccountOriginSessions bulk-revokes live sessions owned by the
	// account that were issued through the given origin. Used by the
	// single-session policy.
	RevokeAccountOriginSessions(ctx context.Context, accountID string, origin domain.SessionOrigin) (int64, error)

	// DeleteDeadSessions removes revoked or expired rows. Housekeeping only;
	// validation never depends on it having run.
	DeleteDeadSessions(ctx context.Context, now time.Time) (int64, error)
}

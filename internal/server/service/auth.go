package service

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"github.com/mrhteriyaki/kirov-server-emulator/internal/server/domain"
	"github.com/mrhteriyaki/kirov-server-emulator/internal/server/store"
	"github.com/mrhteriyaki/kirov-server-emulator/pkg/cryptox"
	"github.com/mrhteriyaki/kirov-server-emulator/pkg/idx"
	"github.com/mrhteriyaki/kirov-server-emulator/pkg/slogx"
)

const (
	// MinSecretLength is the weak-secret floor for registration and
	// password changes.
	MinSecretLength = 8

	maxUsernameLength = 32
)

// AccountContext is what a validated token resolves to: the owning account
// and the session that authenticated it.
type AccountContext struct {
	Account domain.Account
	Session domain.Session
}

// AuthService is the single source of authorization truth. Both protocol
// adapters call through it; neither touches the store or registry directly,
// so policy is enforced identically regardless of protocol.
type AuthService struct {
	Store      store.Store
	Registry   *SessionRegistry
	RemoteAuth *RemoteAuthService
}

// Register creates a new account. Usernames are case-insensitive and
// [a-z0-9_.-] after folding; secrets below MinSecretLength are rejected.
func (s *AuthService) Register(ctx context.Context, username, secret, displayName string) (string, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if !validUsername(username) {
		return "", ErrInvalidInput
	}
	if len(secret) < MinSecretLength {
		return "", ErrWeakSecret
	}
	if displayName == "" {
		displayName = username
	}

	hash, err := cryptox.HashPassword(secret)
	if err != nil {
		return "", err
	}

	account := domain.Account{
		ID:           idx.New().String(),
		Username:     username,
		DisplayName:  displayName,
		PasswordHash: hash,
		Status:       domain.AccountActive,
	}

	if err := s.Store.Accounts().CreateAccount(ctx, account); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return "", ErrDuplicateUsername
		}
		return "", err
	}

	slogx.FromContext(ctx).Info("account_registered",
		"account_id", account.ID,
		"username", username,
	)
	return account.ID, nil
}

// Login verifies credentials and issues a session through the registry.
// A wrong password and an unknown username are indistinguishable to the
// caller.
func (s *AuthService) Login(ctx context.Context, username, secret string, origin domain.SessionOrigin) (domain.IssuedSession, error) {
	account, err := s.verify(ctx, username, secret)
	if err != nil {
		return domain.IssuedSession{}, err
	}

	issued, err := s.Registry.Issue(ctx, account.ID, origin)
	if err != nil {
		return domain.IssuedSession{}, err
	}

	slogx.FromContext(ctx).Info("login",
		"account_id", account.ID,
		"session_id", issued.Session.ID,
		"origin", string(origin),
	)
	return issued, nil
}

// verify implements the credential-store check: constant-time password
// comparison, suspended/deleted gating, no retry on failure.
func (s *AuthService) verify(ctx context.Context, username, secret string) (domain.Account, error) {
	account, err := s.Store.Accounts().GetAccountByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Account{}, ErrInvalidCredentials
		}
		return domain.Account{}, err
	}

	if err := cryptox.VerifyPassword(secret, account.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			return domain.Account{}, ErrInvalidCredentials
		}
		return domain.Account{}, err
	}

	// Status gates after the password check so a suspended response never
	// leaks whether the password was right for some other account.
	switch account.Status {
	case domain.AccountSuspended:
		return domain.Account{}, ErrAccountSuspended
	case domain.AccountDeleted:
		return domain.Account{}, ErrInvalidCredentials
	}

	return account, nil
}

// Authenticate resolves a session token to its account, refreshing the
// session's last-seen time.
func (s *AuthService) Authenticate(ctx context.Context, token string) (AccountContext, error) {
	session, err := s.Registry.Validate(ctx, token)
	if err != nil {
		return AccountContext{}, err
	}

	account, err := s.Store.Accounts().GetAccountByID(ctx, session.AccountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return AccountContext{}, ErrSessionNotFound
		}
		return AccountContext{}, err
	}
	if account.Status == domain.AccountSuspended {
		return AccountContext{}, ErrAccountSuspended
	}

	if err := s.Registry.Touch(ctx, token); err != nil {
		return AccountContext{}, err
	}

	return AccountContext{Account: account, Session: session}, nil
}

// Logout revokes the session. Idempotent.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if err := s.Registry.Revoke(ctx, token); err != nil {
		return err
	}
	slogx.FromContext(ctx).Info("logout")
	return nil
}

// ChangePassword rotates the secret after re-verifying the old one.
func (s *AuthService) ChangePassword(ctx context.Context, accountID, oldSecret, newSecret string) error {
	if len(newSecret) < MinSecretLength {
		return ErrWeakSecret
	}

	account, err := s.Store.Accounts().GetAccountByID(ctx, accountID)
	if err != nil {
		return err
	}
	if err := cryptox.VerifyPassword(oldSecret, account.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			return ErrInvalidCredentials
		}
		return err
	}

	hash, err := cryptox.HashPassword(newSecret)
	if err != nil {
		return err
	}
	if err := s.Store.Accounts().UpdatePasswordHash(ctx, accountID, hash); err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("password_changed", "account_id", accountID)
	return nil
}

// SetAccountStatus flips the lifecycle status. Suspension and deletion
// revoke every live session in the same transaction so a suspended account
// cannot keep using an existing token.
func (s *AuthService) SetAccountStatus(ctx context.Context, accountID string, status domain.AccountStatus) error {
	if !status.Valid() {
		return ErrInvalidInput
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Accounts().UpdateStatus(ctx, accountID, status); err != nil {
			return err
		}
		if status == domain.AccountActive {
			return nil
		}
		_, err := tx.Sessions().RevokeAccountSessions(ctx, accountID)
		return err
	})
	if err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("account_status_changed",
		"account_id", accountID,
		"status", string(status),
	)
	return nil
}

func validUsername(username string) bool {
	if username == "" || len(username) > maxUsernameLength {
		return false
	}
	for _, r := range username {
		switch {
		case unicode.IsLower(r), unicode.IsDigit(r):
		case r == '_', r == '.', r == '-':
		default:
			return false
		}
	}
	return true
}

package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/mrhteriyaki/kirov-server-emulator/internal/server/domain"
	"github.com/mrhteriyaki/kirov-server-emulator/internal/server/store"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	st, err := NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func testAccount(id, username string) domain.Account {
	return domain.Account{
		ID:           id,
		Username:     username,
		DisplayName:  username,
		PasswordHash: "$argon2id$dummy",
		Status:       domain.AccountActive,
	}
}

func TestAccountsRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	require.NoError(t, st.Accounts().CreateAccount(ctx, testAccount("a1", "Alice")))

	byID, err := st.Accounts().GetAccountByID(ctx, "a1")
	require.NoError(t, err)
	require.Equal(t, "alice", byID.Username, "usernames are folded on insert")
	require.Equal(t, domain.AccountActive, byID.Status)
	require.False(t, byID.CreatedAt.IsZero())

	byName, err := st.Accounts().GetAccountByUsername(ctx, "ALICE")
	require.NoError(t, err)
	require.Equal(t, byID.ID, byName.ID)

	_, err = st.Accounts().GetAccountByID(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestDuplicateUsernameMapsToAlreadyExists(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	require.NoError(t, st.Accounts().CreateAccount(ctx, testAccount("a1", "alice")))
	err := st.Accounts().CreateAccount(ctx, testAccount("a2", "Alice"))
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestUpdateOnMissingRowIsNotFound(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	require.ErrorIs(t, st.Accounts().UpdatePasswordHash(ctx, "missing", "h"), store.ErrNotFound)
	require.ErrorIs(t, st.Accounts().UpdateStatus(ctx, "missing", domain.AccountSuspended), store.ErrNotFound)
}

func TestSessionsRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	require.NoError(t, st.Accounts().CreateAccount(ctx, testAccount("a1", "alice")))

	now := time.Now().UTC().Truncate(time.Second)
	session := domain.Session{
		ID:           "s1",
		AccountID:    "a1",
		TokenHash:    "hash-1",
		Origin:       domain.OriginSOAP,
		IssuedAt:     now,
		ExpiresAt:    now.Add(12 * time.Hour),
		IdleDeadline: now.Add(30 * time.Minute),
		LastSeenAt:   now,
	}
	require.NoError(t, st.Sessions().CreateSession(ctx, session))

	got, err := st.Sessions().GetSessionByTokenHash(ctx, "hash-1")
	require.NoError(t, err)
	require.Equal(t, "s1", got.ID)
	require.Equal(t, domain.OriginSOAP, got.Origin)
	require.False(t, got.Revoked)
	require.WithinDuration(t, session.IdleDeadline, got.IdleDeadline, time.Second)

	t.Run("duplicate token hash rejected", func(t *testing.T) {
		dup := session
		dup.ID = "s2"
		require.ErrorIs(t, st.Sessions().CreateSession(ctx, dup), store.ErrAlreadyExists)
	})

	t.Run("touch updates deadlines until revoked", func(t *testing.T) {
		later := now.Add(10 * time.Minute)
		require.NoError(t, st.Sessions().TouchSession(ctx, "hash-1", later, later.Add(30*time.Minute)))

		require.NoError(t, st.Sessions().RevokeSession(ctx, "hash-1"))
		err := st.Sessions().TouchSession(ctx, "hash-1", later, later)
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestRevokeScopes(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	require.NoError(t, st.Accounts().CreateAccount(ctx, testAccount("a1", "alice")))

	now := time.Now().UTC()
	mk := func(id, hash string, origin domain.SessionOrigin) {
		require.NoError(t, st.Sessions().CreateSession(ctx, domain.Session{
			ID: id, AccountID: "a1", TokenHash: hash, Origin: origin,
			IssuedAt: now, ExpiresAt: now.Add(time.Hour),
			IdleDeadline: now.Add(time.Hour), LastSeenAt: now,
		}))
	}
	mk("s1", "h1", domain.OriginSOAP)
	mk("s2", "h2", domain.OriginSOAP)
	mk("s3", "h3", domain.OriginREST)

	revoked, err := st.Sessions().RevokeAccountOriginSessions(ctx, "a1", domain.OriginSOAP)
	require.NoError(t, err)
	require.EqualValues(t, 2, revoked)

	rest, err := st.Sessions().GetSessionByTokenHash(ctx, "h3")
	require.NoError(t, err)
	require.False(t, rest.Revoked)

	revoked, err = st.Sessions().RevokeAccountSessions(ctx, "a1")
	require.NoError(t, err)
	require.EqualValues(t, 1, revoked)
}

func TestDeleteDeadSessions(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	require.NoError(t, st.Accounts().CreateAccount(ctx, testAccount("a1", "alice")))

	now := time.Now().UTC()
	sessions := []domain.Session{
		{ID: "live", AccountID: "a1", TokenHash: "h-live", Origin: domain.OriginREST,
			IssuedAt: now, ExpiresAt: now.Add(time.Hour), IdleDeadline: now.Add(time.Hour), LastSeenAt: now},
		{ID: "expired", AccountID: "a1", TokenHash: "h-expired", Origin: domain.OriginREST,
			IssuedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(time.Hour),
			IdleDeadline: now.Add(-time.Hour), LastSeenAt: now.Add(-2 * time.Hour)},
		{ID: "revoked", AccountID: "a1", TokenHash: "h-revoked", Origin: domain.OriginSOAP,
			IssuedAt: now, ExpiresAt: now.Add(time.Hour), IdleDeadline: now.Add(time.Hour),
			LastSeenAt: now, Revoked: true},
	}
	for _, s := range sessions {
		require.NoError(t, st.Sessions().CreateSession(ctx, s))
	}

	deleted, err := st.Sessions().DeleteDeadSessions(ctx, now)
	require.NoError(t, err)
	require.EqualValues(t, 2, deleted)

	_, err = st.Sessions().GetSessionByTokenHash(ctx, "h-live")
	require.NoError(t, err)
	_, err = st.Sessions().GetSessionByTokenHash(ctx, "h-expired")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	sentinel := errors.New("boom")
	err := st.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Accounts().CreateAccount(ctx, testAccount("a1", "alice")); err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	_, err = st.Accounts().GetAccountByID(ctx, "a1")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestWithTxCommits(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	err := st.WithTx(ctx, func(tx store.Tx) error {
		return tx.Accounts().CreateAccount(ctx, testAccount("a1", "alice"))
	})
	require.NoError(t, err)

	_, err = st.Accounts().GetAccountByID(ctx, "a1")
	require.NoError(t, err)
}

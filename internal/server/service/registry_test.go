package service

import (
	"context"
	"testing"
	"time"

	"github.com/mrhteriyaki/kirov-server-emulator/internal/server/domain"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) (*SessionRegistry, *testClock) {
	t.Helper()

	clock := &testClock{now: time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)}
	registry := &SessionRegistry{
		Store:   newTestStore(t),
		IdleTTL: 30 * time.Minute,
		MaxTTL:  2 * time.Hour,
		Sliding: true,
		Now:     clock.Now,
	}
	return registry, clock
}

func seedAccount(t *testing.T, r *SessionRegistry, id string) {
	t.Helper()

	err := r.Store.Accounts().CreateAccount(context.Background(), domain.Account{
		ID:           id,
		Username:     id,
		DisplayName:  id,
		PasswordHash: "x",
		Status:       domain.AccountActive,
	})
	require.NoError(t, err)
}

func TestIssueNeverPersistsRawToken(t *testing.T) {
	ctx := context.Background()
	registry, _ := newTestRegistry(t)
	seedAccount(t, registry, "acct-1")

	issued, err := registry.Issue(ctx, "acct-1", domain.OriginREST)
	require.NoError(t, err)
	require.NotEmpty(t, issued.Token)
	require.NotEqual(t, issued.Token, issued.Session.TokenHash)

	stored, err := registry.Store.Sessions().GetSessionByTokenHash(ctx, issued.Session.TokenHash)
	require.NoError(t, err)
	require.Equal(t, issued.Session.ID, stored.ID)
}

func TestIssueCapsIdleDeadlineAtLifetime(t *testing.T) {
	ctx := context.Background()
	registry, clock := newTestRegistry(t)
	registry.IdleTTL = 4 * time.Hour // longer than the 2h cap
	seedAccount(t, registry, "acct-1")

	issued, err := registry.Issue(ctx, "acct-1", domain.OriginSOAP)
	require.NoError(t, err)
	require.True(t, issued.Session.ExpiresAt.Equal(clock.Now().Add(2*time.Hour)))
	require.True(t, issued.Session.IdleDeadline.Equal(issued.Session.ExpiresAt))
}

func TestSlidingTouchExtendsUpToCap(t *testing.T) {
	ctx := context.Background()
	registry, clock := newTestRegistry(t)
	seedAccount(t, registry, "acct-1")

	issued, err := registry.Issue(ctx, "acct-1", domain.OriginREST)
	require.NoError(t, err)

	clock.Advance(20 * time.Minute)
	require.NoError(t, registry.Touch(ctx, issued.Token))

	session, err := registry.Validate(ctx, issued.Token)
	require.NoError(t, err)
	require.WithinDuration(t, clock.Now().Add(30*time.Minute), session.IdleDeadline, time.Second)

	// Keep touching toward the lifetime cap; the extension clamps to
	// ExpiresAt instead of sliding past it.
	for i := 0; i < 3; i++ {
		clock.Advance(25 * time.Minute)
		require.NoError(t, registry.Touch(ctx, issued.Token))
	}

	session, err = registry.Validate(ctx, issued.Token)
	require.NoError(t, err)
	require.WithinDuration(t, session.ExpiresAt, session.IdleDeadline, time.Second)
}

func TestFixedDeadlineWhenSlidingDisabled(t *testing.T) {
	ctx := context.Background()
	registry, clock := newTestRegistry(t)
	registry.Sliding = false
	seedAccount(t, registry, "acct-1")

	issued, err := registry.Issue(ctx, "acct-1", domain.OriginREST)
	require.NoError(t, err)
	original := issued.Session.IdleDeadline

	clock.Advance(20 * time.Minute)
	require.NoError(t, registry.Touch(ctx, issued.Token))

	session, err := registry.Validate(ctx, issued.Token)
	require.NoError(t, err)
	require.WithinDuration(t, original, session.IdleDeadline, time.Second)

	clock.Advance(11 * time.Minute)
	_, err = registry.Validate(ctx, issued.Token)
	require.ErrorIs(t, err, ErrSessionExpired)
}

func TestValidateUnknownToken(t *testing.T) {
	registry, _ := newTestRegistry(t)

	_, err := registry.Validate(context.Background(), "never-issued")
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRevokeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	registry, _ := newTestRegistry(t)
	seedAccount(t, registry, "acct-1")

	issued, err := registry.Issue(ctx, "acct-1", domain.OriginSOAP)
	require.NoError(t, err)

	require.NoError(t, registry.Revoke(ctx, issued.Token))
	require.NoError(t, registry.Revoke(ctx, issued.Token))
	require.NoError(t, registry.Revoke(ctx, "never-issued"))

	_, err = registry.Validate(ctx, issued.Token)
	require.ErrorIs(t, err, ErrSessionRevoked)
}

func TestRevokeAllForAccount(t *testing.T) {
	ctx := context.Background()
	registry, _ := newTestRegistry(t)
	seedAccount(t, registry, "acct-1")
	seedAccount(t, registry, "acct-2")

	a1, err := registry.Issue(ctx, "acct-1", domain.OriginSOAP)
	require.NoError(t, err)
	a2, err := registry.Issue(ctx, "acct-1", domain.OriginREST)
	require.NoError(t, err)
	other, err := registry.Issue(ctx, "acct-2", domain.OriginREST)
	require.NoError(t, err)

	revoked, err := registry.RevokeAllForAccount(ctx, "acct-1")
	require.NoError(t, err)
	require.EqualValues(t, 2, revoked)

	_, err = registry.Validate(ctx, a1.Token)
	require.ErrorIs(t, err, ErrSessionRevoked)
	_, err = registry.Validate(ctx, a2.Token)
	require.ErrorIs(t, err, ErrSessionRevoked)
	_, err = registry.Validate(ctx, other.Token)
	require.NoError(t, err)
}

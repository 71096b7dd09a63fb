package sqlite

import (
	"context"
	"time"

	"github.com/mrhteriyaki/kirov-server-emulator/internal/server/domain"
)

type sessionsRepo struct {
	q querier
}

const sessionColumns = `id, account_id, token_hash, origin, issued_at, expires_at, idle_deadline, last_seen_at, revoked`

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.Session) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO sessions (`+sessionColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.AccountID, s.TokenHash, string(s.Origin),
		s.IssuedAt, s.ExpiresAt, s.IdleDeadline, s.LastSeenAt, s.Revoked)
	return mapConstraint(err)
}

func (r *sessionsRepo) GetSessionByTokenHash(ctx context.Context, hash string) (domain.Session, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE token_hash = ?`, hash)

	var s domain.Session
	var origin string
	err := row.Scan(&s.ID, &s.AccountID, &s.TokenHash, &origin,
		&s.IssuedAt, &s.ExpiresAt, &s.IdleDeadline, &s.LastSeenAt, &s.Revoked)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}
	s.Origin = domain.SessionOrigin(origin)
	return s, nil
}

func (r *sessionsRepo) TouchSession(ctx context.Context, hash string, lastSeen, idleDeadline time.Time) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE sessions SET last_seen_at = ?, idle_deadline = ?
		 WHERE token_hash = ? AND revoked = 0`,
		lastSeen, idleDeadline, hash)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *sessionsRepo) RevokeSession(ctx context.Context, hash string) error {
	_, err := r.q.ExecContext(ctx,
		`UPDATE sessions SET revoked = 1 WHERE token_hash = ?`, hash)
	return err
}

func (r *sessionsRepo) RevokeAccountSessions(ctx context.Context, accountID string) (int64, error) {
	res, err := r.q.ExecContext(ctx,
		`UPDATE sessions SET revoked = 1 WHERE account_id = ? AND revoked = 0`,
		accountID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *sessionsRepo) RevokeAccountOriginSessions(ctx context.Context, accountID string, origin domain.SessionOrigin) (int64, error) {
	res, err := r.q.ExecContext(ctx,
		`UPDATE sessions SET revoked = 1
		 WHERE account_id = ? AND origin = ? AND revoked = 0`,
		accountID, string(origin))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *sessionsRepo) DeleteDeadSessions(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.q.ExecContext(ctx,
		`DELETE FROM sessions
		 WHERE revoked = 1 OR expires_at < ? OR idle_deadline < ?`,
		now, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

package sqlcommon

import (
	"context"
	"database/sql"
	"time"

	"github.com/nusalapor/backend/internal/auth/domain"
	"github.com/nusalapor/backend/internal/auth/store"
)

const (
	createRefreshToken = `
INSERT INTO refresh_tokens (jti, principal_id, issued_at, expires_at)
VALUES (?, ?, ?, ?)`

	getRefreshToken = `
SELECT jti, principal_id, issued_at, expires_at, blacklisted_at
FROM refresh_tokens WHERE jti = ?`

	blacklistRefreshToken = `
UPDATE refresh_tokens SET blacklisted_at = COALESCE(blacklisted_at, ?) WHERE jti = ?`

	deleteExpiredRefreshTokens = `DELETE FROM refresh_tokens WHERE expires_at <= ?`
)

type refreshTokensRepo struct {
	db      DBTX
	dialect Dialect
}

func (r *refreshTokensRepo) CreateRefreshToken(ctx context.Context, rec domain.RefreshRecord) error {
	_, err := r.db.ExecContext(ctx, r.dialect.Rebind(createRefreshToken),
		rec.JTI, rec.PrincipalID, toUnix(rec.IssuedAt), toUnix(rec.ExpiresAt),
	)
	return mapConflict(r.dialect, err)
}

func (r *refreshTokensRepo) GetRefreshToken(ctx context.Context, jti string) (domain.RefreshRecord, error) {
	var (
		rec                 domain.RefreshRecord
		issuedAt, expiresAt int64
		blacklistedAt       sql.NullInt64
	)

	err := r.db.QueryRowContext(ctx, r.dialect.Rebind(getRefreshToken), jti).
		Scan(&rec.JTI, &rec.PrincipalID, &issuedAt, &expiresAt, &blacklistedAt)
	if err != nil {
		return domain.RefreshRecord{}, mapNotFound(err)
	}

	rec.IssuedAt = fromUnix(issuedAt)
	rec.ExpiresAt = fromUnix(expiresAt)
	rec.BlacklistedAt = mapNullUnix(blacklistedAt)
	return rec, nil
}

func (r *refreshTokensRepo) BlacklistRefreshToken(ctx context.Context, jti string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(blacklistRefreshToken), toUnix(at), jti)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *refreshTokensRepo) DeleteExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(deleteExpiredRefreshTokens), toUnix(now))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

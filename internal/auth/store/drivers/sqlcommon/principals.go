package sqlcommon

import (
	"context"
	"database/sql"
	"time"

	"github.com/nusalapor/backend/internal/auth/domain"
	"github.com/nusalapor/backend/internal/auth/store"
)

const selectPrincipal = `
SELECT p.id, p.email, p.username, p.name, p.phone_encrypted,
       p.password_hash, p.password_salt,
       p.is_active, p.is_staff, p.is_superuser,
       p.created_at, p.updated_at, o.title
FROM principals p
LEFT JOIN officers o ON o.principal_id = p.id`

const (
	getPrincipalByID       = selectPrincipal + ` WHERE p.id = ?`
	getPrincipalByEmail    = selectPrincipal + ` WHERE p.email = ?`
	getPrincipalByUsername = selectPrincipal + ` WHERE p.username = ?`

	createPrincipal = `
INSERT INTO principals (
  id, email, username, name, phone_encrypted, password_hash, password_salt,
  is_active, is_staff, is_superuser, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	createOfficer = `INSERT INTO officers (principal_id, title, created_at) VALUES (?, ?, ?)`

	setStaff = `UPDATE principals SET is_staff = ?, updated_at = ? WHERE id = ?`
)

type principalsRepo struct {
	db      DBTX
	dialect Dialect
}

func (r *principalsRepo) CreatePrincipal(ctx context.Context, p domain.Principal) error {
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}

	_, err := r.db.ExecContext(ctx, r.dialect.Rebind(createPrincipal),
		p.ID, p.Email, p.Username, p.Name, mapStringNull(p.PhoneEncrypted),
		p.PasswordHash, p.PasswordSalt,
		p.Active, p.Staff, p.Superuser,
		toUnix(p.CreatedAt), toUnix(p.UpdatedAt),
	)
	return mapConflict(r.dialect, err)
}

func (r *principalsRepo) GetPrincipalByID(ctx context.Context, id string) (domain.Principal, error) {
	return r.get(ctx, getPrincipalByID, id)
}

func (r *principalsRepo) GetPrincipalByEmail(ctx context.Context, email string) (domain.Principal, error) {
	return r.get(ctx, getPrincipalByEmail, email)
}

func (r *principalsRepo) GetPrincipalByUsername(ctx context.Context, username string) (domain.Principal, error) {
	return r.get(ctx, getPrincipalByUsername, username)
}

func (r *principalsRepo) CreateOfficer(ctx context.Context, principalID, title string) error {
	_, err := r.db.ExecContext(ctx, r.dialect.Rebind(createOfficer), principalID, title, toUnix(time.Now()))
	return mapConflict(r.dialect, err)
}

func (r *principalsRepo) SetStaff(ctx context.Context, principalID string, staff bool) error {
	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(setStaff), staff, toUnix(time.Now()), principalID)
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

func (r *principalsRepo) get(ctx context.Context, query string, arg string) (domain.Principal, error) {
	var (
		p                    domain.Principal
		phone, title         sql.NullString
		createdAt, updatedAt int64
	)

	err := r.db.QueryRowContext(ctx, r.dialect.Rebind(query), arg).Scan(
		&p.ID, &p.Email, &p.Username, &p.Name, &phone,
		&p.PasswordHash, &p.PasswordSalt,
		&p.Active, &p.Staff, &p.Superuser,
		&createdAt, &updatedAt, &title,
	)
	if err != nil {
		return domain.Principal{}, mapNotFound(err)
	}

	p.PhoneEncrypted = phone.String
	p.CreatedAt = fromUnix(createdAt)
	p.UpdatedAt = fromUnix(updatedAt)
	p.Role = domain.PlainRole()
	if title.Valid {
		p.Role = domain.OfficerRole(title.String)
	}
	return p, nil
}

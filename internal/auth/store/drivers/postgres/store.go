// Package postgres is the PostgreSQL store driver, reached through the pgx
// database/sql adapter.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/nusalapor/backend/internal/auth/store/drivers/sqlcommon"
)

const uniqueViolation = "23505"

type Store struct {
	*sqlcommon.Store
}

// Open connects to dsn and pings it before returning.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return New(db), nil
}

// New wraps an existing pool.
func New(db *sql.DB) *Store {
	return &Store{Store: sqlcommon.NewStore(db, dialect{})}
}

type dialect struct {
	sqlcommon.Dollar
}

// ConflictField derives the column from the default constraint name
// "<table>_<column>_key", or "<table>_pkey" for primary keys.
func (dialect) ConflictField(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return "", false
	}

	name := pgErr.ConstraintName
	if pgErr.TableName != "" {
		name = strings.TrimPrefix(name, pgErr.TableName+"_")
	}
	switch {
	case name == "pkey" && pgErr.TableName == "officers":
		return "principal_id", true
	case name == "pkey":
		return "id", true
	}
	return strings.TrimSuffix(name, "_key"), true
}

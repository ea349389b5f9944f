package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nusalapor/backend/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// ConflictError reports which unique column rejected a write. It matches
// ErrAlreadyExists with errors.Is.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("store: %s already exists", e.Field)
}

func (e *ConflictError) Unwrap() error { return ErrAlreadyExists }

// Store is the root data access interface. Concrete drivers (sqlite, postgres)
// implement this. Sub-repositories are exposed as methods so a Tx-scoped
// store hands out the same repos bound to the transaction.
type Store interface {
	Principals() Principals
	RefreshTokens() RefreshTokens

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Principals interface {
	// CreatePrincipal inserts a new principal. Role is ignored; attach an
	// officer role with CreateOfficer. Unique violations come back as
	// *ConflictError.
	CreatePrincipal(ctx context.Context, p domain.Principal) error

	// GetPrincipalByID returns a principal with its role attachment.
	GetPrincipalByID(ctx context.Context, id string) (domain.Principal, error)

	// GetPrincipalByEmail looks up by the normalised (lower-cased) email.
	GetPrincipalByEmail(ctx context.Context, email string) (domain.Principal, error)

	GetPrincipalByUsername(ctx context.Context, username string) (domain.Principal, error)

	// CreateOfficer attaches an officer role. A principal that already has
	// one yields *ConflictError{Field: "principal_id"}.
	CreateOfficer(ctx context.Context, principalID, title string) error

	// SetStaff flips the staff flag and bumps updated_at.
	SetStaff(ctx context.Context, principalID string, staff bool) error
}

type RefreshTokens interface {
	// CreateRefreshToken records an outstanding refresh token.
	CreateRefreshToken(ctx context.Context, r domain.RefreshRecord) error

	// GetRefreshToken returns the ledger entry for jti.
	GetRefreshToken(ctx context.Context, jti string) (domain.RefreshRecord, error)

	// BlacklistRefreshToken marks jti as blacklisted. An already blacklisted
	// token keeps its original timestamp and is not an error.
	BlacklistRefreshToken(ctx context.Context, jti string, at time.Time) error

	// DeleteExpiredRefreshTokens is housekeeping; returns the rows removed.
	DeleteExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error)
}

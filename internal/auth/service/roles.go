package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/nusalapor/backend/internal/auth/domain"
	"github.com/nusalapor/backend/internal/auth/store"
	"github.com/nusalapor/backend/pkg/slogx"
)

// Tier is a capability level checked by the permission gate.
type Tier int

const (
	TierAuthenticated Tier = iota
	TierOfficer
	TierAdmin
)

// Allows reports whether p satisfies t. Admin and officer are independent:
// an admin without an officer attachment does not pass TierOfficer.
func (t Tier) Allows(p domain.Principal) bool {
	if !p.Active {
		return false
	}
	switch t {
	case TierOfficer:
		return p.IsOfficer()
	case TierAdmin:
		return p.IsAdmin()
	default:
		return true
	}
}

type RoleService struct {
	Store       store.Store
	Credentials *Credentials
}

// Resolve loads the principal behind a verified token subject. Unknown and
// inactive principals are ErrNotFound.
func (s *RoleService) Resolve(ctx context.Context, principalID string) (domain.Principal, error) {
	p, err := s.Store.Principals().GetPrincipalByID(ctx, principalID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Principal{}, ErrNotFound
	}
	if err != nil {
		return domain.Principal{}, err
	}
	if !p.Active {
		return domain.Principal{}, ErrNotFound
	}
	return p, nil
}

// AssignOfficer promotes an existing principal to officer and marks them
// staff. Promoting an officer again is ErrAlreadyAssigned.
func (s *RoleService) AssignOfficer(ctx context.Context, principalID, title string) (domain.Principal, error) {
	l := slogx.FromContext(ctx)
	title = strings.TrimSpace(title)

	var promoted domain.Principal
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		p, err := tx.Principals().GetPrincipalByID(ctx, principalID)
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if p.IsOfficer() {
			return ErrAlreadyAssigned
		}

		p.Role = domain.OfficerRole(title)
		if err := tx.Principals().CreateOfficer(ctx, p.ID, p.Role.Title); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrAlreadyAssigned
			}
			return err
		}
		if err := tx.Principals().SetStaff(ctx, p.ID, true); err != nil {
			return err
		}

		p.Staff = true
		promoted = p
		return nil
	})
	if err != nil {
		return domain.Principal{}, err
	}

	l.Info("officer role assigned",
		slog.String("principal_id", promoted.ID),
		slog.String("title", promoted.Role.Title),
	)
	return promoted, nil
}

// CreateOfficer registers a new principal that is an officer from the start.
func (s *RoleService) CreateOfficer(ctx context.Context, in RegisterInput, title string) (domain.Principal, error) {
	l := slogx.FromContext(ctx)

	p, err := s.Credentials.NewPrincipal(in)
	if err != nil {
		return domain.Principal{}, err
	}
	p.Staff = true
	p.Role = domain.OfficerRole(strings.TrimSpace(title))

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := checkAvailable(ctx, tx.Principals(), p); err != nil {
			return err
		}
		if err := tx.Principals().CreatePrincipal(ctx, p); err != nil {
			return mapConflict(err)
		}
		return tx.Principals().CreateOfficer(ctx, p.ID, p.Role.Title)
	})
	if err != nil {
		return domain.Principal{}, err
	}

	l.Info("officer created", slog.String("principal_id", p.ID))
	return p, nil
}

package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/neighborly/neighborly-api/internal/middleware"
	"github.com/neighborly/neighborly-api/internal/pkg/apperr"
)

// Guard performs the checks every callable runs before its own logic.
// Account state is always read fresh from the store.
type Guard struct {
	repo          Repository
	newAccountAge time.Duration
	now           func() time.Time
}

// NewGuard creates the authorization guard
func NewGuard(repo Repository, newAccountAge time.Duration) *Guard {
	return &Guard{repo: repo, newAccountAge: newAccountAge, now: time.Now}
}

// RequireAuth returns the caller's account id or ErrUnauthenticated
func (g *Guard) RequireAuth(ctx context.Context) (uuid.UUID, error) {
	id := middleware.GetUserID(ctx)
	if id == uuid.Nil {
		return uuid.Nil, ErrUnauthenticated
	}
	return id, nil
}

// LoadAccount loads the caller's own account. An authenticated identity with no
// account record fails ErrAccountMissing.
func (g *Guard) LoadAccount(ctx context.Context, id uuid.UUID) (*User, error) {
	u, err := g.LoadUser(ctx, id)
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrAccountMissing
	}
	return u, err
}

// LoadUser loads another account referenced by a request or returns ErrUserNotFound
func (g *Guard) LoadUser(ctx context.Context, id uuid.UUID) (*User, error) {
	u, err := g.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("load account: %w", err))
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// RequireNotBlocked rejects blocked accounts
func RequireNotBlocked(u *User) error {
	if u.IsBlocked {
		return ErrAccountBlocked
	}
	return nil
}

// RequireRole rejects accounts whose role is not in roles
func RequireRole(u *User, roles ...Role) error {
	for _, r := range roles {
		if u.Role == r {
			return nil
		}
	}
	return ErrRoleNotAllowed
}

// Authorize runs requireAuth, loadAccount, requireNotBlocked and, when roles
// are given, requireRole
func (g *Guard) Authorize(ctx context.Context, roles ...Role) (*User, error) {
	id, err := g.RequireAuth(ctx)
	if err != nil {
		return nil, err
	}
	u, err := g.LoadAccount(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := RequireNotBlocked(u); err != nil {
		return nil, err
	}
	if len(roles) > 0 {
		if err := RequireRole(u, roles...); err != nil {
			return nil, err
		}
	}
	return u, nil
}

// IsNewAccount reports whether u is young enough for new-account quotas
func (g *Guard) IsNewAccount(u *User) bool {
	return g.now().Sub(u.CreatedAt) < g.newAccountAge
}

// Package usertest provides an in-memory account store for service tests.
package usertest

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/neighborly/neighborly-api/internal/domain/ratelimit"
	"github.com/neighborly/neighborly-api/internal/domain/user"
	"github.com/neighborly/neighborly-api/internal/middleware"
)

// Repo is an in-memory user.Repository
type Repo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*user.User
}

// NewRepo creates a repo holding users
func NewRepo(users ...*user.User) *Repo {
	r := &Repo{users: make(map[uuid.UUID]*user.User)}
	for _, u := range users {
		r.Put(u)
	}
	return r
}

// Put stores u, replacing any account with the same id
func (r *Repo) Put(u *user.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = u
}

func (r *Repo) GetByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *Repo) ListStrikeDecayCandidates(context.Context, time.Time, *user.Cursor, int) ([]*user.User, error) {
	return nil, nil
}

func (r *Repo) ApplyStrikeDecay(context.Context, []user.StrikeDecay) (int, error) {
	return 0, nil
}

// Guard returns a guard over r with a seven day new-account age
func (r *Repo) Guard() *user.Guard {
	return user.NewGuard(r, 7*24*time.Hour)
}

// Parent returns an established parent account
func Parent(name string) *user.User {
	return &user.User{
		ID:          uuid.New(),
		DisplayName: name,
		Role:        user.RoleParent,
		CreatedAt:   time.Now().Add(-30 * 24 * time.Hour),
	}
}

// Teen returns an established teen account linked to parent when non-nil
func Teen(name string, parent *user.User) *user.User {
	u := &user.User{
		ID:          uuid.New(),
		DisplayName: name,
		Role:        user.RoleTeen,
		CreatedAt:   time.Now().Add(-30 * 24 * time.Hour),
	}
	if parent != nil {
		u.ParentID = uuid.NullUUID{UUID: parent.ID, Valid: true}
	}
	return u
}

// As returns ctx authenticated as u
func As(ctx context.Context, u *user.User) context.Context {
	return middleware.WithUserID(ctx, u.ID)
}

// Limiter is a ratelimit.Enforcer stub that records calls and returns Err
type Limiter struct {
	mu      sync.Mutex
	Err     error
	Actions []string
}

func (l *Limiter) Enforce(_ context.Context, rule ratelimit.Rule, _ uuid.UUID, _ bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Actions = append(l.Actions, rule.Action)
	return l.Err
}

package shortlist

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/neighborly/neighborly-api/internal/domain/contentfilter"
	"github.com/neighborly/neighborly-api/internal/domain/post"
	"github.com/neighborly/neighborly-api/internal/domain/ratelimit"
	"github.com/neighborly/neighborly-api/internal/domain/user"
	"github.com/neighborly/neighborly-api/internal/pkg/apperr"
)

// PostReader loads the shortlisted post
type PostReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*post.Post, error)
}

// BlockChecker reports a block relation in either direction
type BlockChecker interface {
	IsBlocked(ctx context.Context, a, b uuid.UUID) (bool, error)
}

// Service handles shortlist business logic
type Service struct {
	repo    Repository
	posts   PostReader
	guard   *user.Guard
	limiter ratelimit.Enforcer
	filters contentfilter.Provider
	blocks  BlockChecker
	now     func() time.Time
}

// NewService creates shortlist service
func NewService(repo Repository, posts PostReader, guard *user.Guard, limiter ratelimit.Enforcer, filters contentfilter.Provider, blocks BlockChecker) *Service {
	return &Service{
		repo:    repo,
		posts:   posts,
		guard:   guard,
		limiter: limiter,
		filters: filters,
		blocks:  blocks,
		now:     time.Now,
	}
}

// CreateShortlist records a teen's suggestion for their parent
func (s *Service) CreateShortlist(ctx context.Context, req *CreateRequest) (*CreateResult, error) {
	teen, err := s.guard.Authorize(ctx, user.RoleTeen)
	if err != nil {
		return nil, err
	}
	if !teen.ParentID.Valid {
		return nil, ErrNoLinkedParent
	}
	if err := s.limiter.Enforce(ctx, ratelimit.RuleCreateShortlist, teen.ID, s.guard.IsNewAccount(teen)); err != nil {
		return nil, err
	}

	filter, err := s.filters.Filter(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	note, err := filter.Check("note", req.Note, NoteMaxLen)
	if err != nil {
		return nil, err
	}

	p, err := s.posts.GetByID(ctx, req.PostID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if p == nil {
		return nil, post.ErrPostNotFound
	}
	if !p.IsActive {
		return nil, post.ErrPostInactive
	}
	if p.AuthorID != teen.ID {
		blocked, err := s.blocks.IsBlocked(ctx, teen.ID, p.AuthorID)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		if blocked {
			return nil, ErrBlockedRelation
		}
	}

	entry := &Shortlist{
		ID:        uuid.New(),
		TeenID:    teen.ID,
		ParentID:  teen.ParentID.UUID,
		PostID:    p.ID,
		Note:      note,
		CreatedAt: s.now().UTC(),
	}
	saved, created, err := s.repo.CreateOrGet(ctx, entry)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	return &CreateResult{OK: true, ShortlistID: saved.ID, AlreadyShortlisted: !created}, nil
}

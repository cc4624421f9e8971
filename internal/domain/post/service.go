package post

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/neighborly/neighborly-api/internal/domain/contentfilter"
	"github.com/neighborly/neighborly-api/internal/domain/ratelimit"
	"github.com/neighborly/neighborly-api/internal/domain/user"
	"github.com/neighborly/neighborly-api/internal/pkg/apperr"
	"github.com/neighborly/neighborly-api/internal/pkg/logger"
)

// BlockChecker reports a block relation in either direction
type BlockChecker interface {
	IsBlocked(ctx context.Context, a, b uuid.UUID) (bool, error)
}

// ZipcodeChecker gates posting to rolled-out zipcodes
type ZipcodeChecker interface {
	IsZipcodeAllowed(ctx context.Context, zipcode string) (bool, error)
}

// Service handles post business logic
type Service struct {
	repo     Repository
	guard    *user.Guard
	limiter  ratelimit.Enforcer
	filters  contentfilter.Provider
	zipcodes ZipcodeChecker
	blocks   BlockChecker
	now      func() time.Time
}

// NewService creates post service
func NewService(
	repo Repository,
	guard *user.Guard,
	limiter ratelimit.Enforcer,
	filters contentfilter.Provider,
	zipcodes ZipcodeChecker,
	blocks BlockChecker,
) *Service {
	return &Service{
		repo:     repo,
		guard:    guard,
		limiter:  limiter,
		filters:  filters,
		zipcodes: zipcodes,
		blocks:   blocks,
		now:      time.Now,
	}
}

// CreatePost publishes a new listing
func (s *Service) CreatePost(ctx context.Context, req *CreatePostRequest) (*CreatePostResult, error) {
	author, err := s.guard.Authorize(ctx)
	if err != nil {
		return nil, err
	}
	if req.Type == TypeOffer && !author.IsTeen() {
		return nil, ErrOfferRequiresTeen
	}
	if req.Type == TypeRequest && !author.IsParent() {
		return nil, ErrRequestRequiresParent
	}

	priceMin, priceMax, err := validatePrice(req)
	if err != nil {
		return nil, err
	}

	if err := s.limiter.Enforce(ctx, ratelimit.RuleCreatePost, author.ID, s.guard.IsNewAccount(author)); err != nil {
		return nil, err
	}

	filter, err := s.filters.Filter(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	title, err := filter.Check("title", req.Title, TitleMaxLen)
	if err != nil {
		return nil, err
	}
	if title == "" {
		return nil, ErrTitleRequired
	}
	description, err := filter.Check("description", req.Description, DescriptionMaxLen)
	if err != nil {
		return nil, err
	}

	allowed, err := s.zipcodes.IsZipcodeAllowed(ctx, req.Zipcode)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if !allowed {
		return nil, ErrZipcodeNotAllowed
	}

	now := s.now().UTC()
	p := &Post{
		ID:                uuid.New(),
		AuthorID:          author.ID,
		AuthorSnapshot:    author.Snapshot(),
		Type:              req.Type,
		Title:             title,
		Description:       description,
		ServiceType:       req.ServiceType,
		PriceType:         req.PriceType,
		PriceMin:          priceMin,
		PriceMax:          priceMax,
		DeliveryMode:      req.DeliveryMode,
		MeetingPreference: req.MeetingPreference,
		Zipcode:           req.Zipcode,
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, apperr.Internal(err)
	}

	logger.LogInfo(ctx, "Post created", "post_id", p.ID.String(), "type", string(p.Type))
	return &CreatePostResult{OK: true, PostID: p.ID}, nil
}

// validatePrice requires 0 <= min <= max for every price type except free.
// Free posts never store a price.
func validatePrice(req *CreatePostRequest) (sql.NullInt64, sql.NullInt64, error) {
	if req.PriceType == PriceFree {
		return sql.NullInt64{}, sql.NullInt64{}, nil
	}
	if req.PriceMin == nil || req.PriceMax == nil {
		return sql.NullInt64{}, sql.NullInt64{}, ErrPriceRequired
	}
	if *req.PriceMin < 0 || *req.PriceMin > *req.PriceMax {
		return sql.NullInt64{}, sql.NullInt64{}, ErrInvalidPriceRange
	}
	return sql.NullInt64{Int64: int64(*req.PriceMin), Valid: true},
		sql.NullInt64{Int64: int64(*req.PriceMax), Valid: true}, nil
}

// CreateComment adds a comment under an active post
func (s *Service) CreateComment(ctx context.Context, req *CreateCommentRequest) (*CreateCommentResult, error) {
	author, err := s.guard.Authorize(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.limiter.Enforce(ctx, ratelimit.RuleCreateComment, author.ID, s.guard.IsNewAccount(author)); err != nil {
		return nil, err
	}

	filter, err := s.filters.Filter(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	text, err := filter.Check("text", req.Text, CommentMaxLen)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, ErrCommentEmpty
	}

	p, err := s.Get(ctx, req.PostID)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, ErrPostInactive
	}
	if p.AuthorID != author.ID {
		blocked, err := s.blocks.IsBlocked(ctx, author.ID, p.AuthorID)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		if blocked {
			return nil, ErrBlockedRelation
		}
	}

	c := &Comment{
		ID:             uuid.New(),
		PostID:         p.ID,
		AuthorID:       author.ID,
		AuthorSnapshot: author.Snapshot(),
		Text:           text,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.repo.CreateComment(ctx, c); err != nil {
		return nil, apperr.Internal(err)
	}
	return &CreateCommentResult{OK: true, CommentID: c.ID}, nil
}

// Get returns a post or ErrPostNotFound
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Post, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if p == nil {
		return nil, ErrPostNotFound
	}
	return p, nil
}

package booking

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/neighborly/neighborly-api/internal/domain/contentfilter"
	"github.com/neighborly/neighborly-api/internal/domain/post"
	"github.com/neighborly/neighborly-api/internal/domain/ratelimit"
	"github.com/neighborly/neighborly-api/internal/domain/user"
	"github.com/neighborly/neighborly-api/internal/pkg/apperr"
	"github.com/neighborly/neighborly-api/internal/pkg/events"
	"github.com/neighborly/neighborly-api/internal/pkg/logger"
)

// PostReader loads the post a request targets
type PostReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*post.Post, error)
}

// BlockChecker reports a block relation in either direction
type BlockChecker interface {
	IsBlocked(ctx context.Context, a, b uuid.UUID) (bool, error)
}

// Service handles booking business logic
type Service struct {
	repo    Repository
	posts   PostReader
	guard   *user.Guard
	limiter ratelimit.Enforcer
	filters contentfilter.Provider
	blocks  BlockChecker
	events  events.Publisher
	now     func() time.Time
}

// NewService creates booking service
func NewService(
	repo Repository,
	posts PostReader,
	guard *user.Guard,
	limiter ratelimit.Enforcer,
	filters contentfilter.Provider,
	blocks BlockChecker,
	publisher events.Publisher,
) *Service {
	return &Service{
		repo:    repo,
		posts:   posts,
		guard:   guard,
		limiter: limiter,
		filters: filters,
		blocks:  blocks,
		events:  publisher,
		now:     time.Now,
	}
}

// CreateBookingRequest lets a parent request a teen's offer
func (s *Service) CreateBookingRequest(ctx context.Context, req *CreateRequest) (*CreateResult, error) {
	requester, err := s.guard.Authorize(ctx, user.RoleParent)
	if err != nil {
		return nil, err
	}
	if err := s.limiter.Enforce(ctx, ratelimit.RuleCreateBookingRequest, requester.ID, s.guard.IsNewAccount(requester)); err != nil {
		return nil, err
	}

	filter, err := s.filters.Filter(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	message, err := filter.Check("message", req.Message, MessageMaxLen)
	if err != nil {
		return nil, err
	}

	p, err := s.posts.GetByID(ctx, req.PostID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	switch {
	case p == nil:
		return nil, post.ErrPostNotFound
	case !p.IsActive:
		return nil, post.ErrPostInactive
	case !p.IsOffer():
		return nil, ErrPostNotBookable
	case p.AuthorID == requester.ID:
		return nil, ErrCannotBookSelf
	}

	provider, err := s.guard.LoadUser(ctx, p.AuthorID)
	if err != nil {
		return nil, err
	}
	if !provider.IsTeen() {
		return nil, ErrProviderNotTeen
	}
	if provider.IsBlocked {
		return nil, ErrProviderBlocked
	}

	blocked, err := s.blocks.IsBlocked(ctx, requester.ID, provider.ID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if blocked {
		return nil, ErrBlockedRelation
	}

	pending, err := s.repo.HasPending(ctx, p.ID, requester.ID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if pending {
		return nil, ErrDuplicatePending
	}

	now := s.now().UTC()
	br := &Request{
		ID:          uuid.New(),
		PostID:      p.ID,
		RequesterID: requester.ID,
		ProviderID:  provider.ID,
		Status:      StatusPending,
		Message:     message,
		PostSnapshot: PostSnapshot{
			Title:       p.Title,
			ServiceType: p.ServiceType,
			PriceType:   string(p.PriceType),
			AuthorName:  p.AuthorSnapshot.DisplayName,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, br); err != nil {
		if errors.Is(err, ErrDuplicatePending) {
			return nil, ErrDuplicatePending
		}
		return nil, apperr.Internal(err)
	}

	logger.LogInfo(ctx, "Booking request created",
		"booking_request_id", br.ID.String(), "post_id", p.ID.String())

	recipients := []uuid.UUID{provider.ID}
	if provider.ParentID.Valid {
		recipients = append(recipients, provider.ParentID.UUID)
	}
	s.events.Publish(ctx, events.SubjectBookingCreated, requester.ID, recipients, map[string]string{
		"bookingRequestId": br.ID.String(),
		"postId":           p.ID.String(),
	})

	return &CreateResult{OK: true, BookingRequestID: br.ID}, nil
}

// RespondToBookingRequest applies accept, decline, cancel or complete
func (s *Service) RespondToBookingRequest(ctx context.Context, req *RespondRequest) (*RespondResult, error) {
	caller, err := s.guard.Authorize(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.limiter.Enforce(ctx, ratelimit.RuleRespondToBookingRequest, caller.ID, s.guard.IsNewAccount(caller)); err != nil {
		return nil, err
	}

	br, err := s.Get(ctx, req.BookingRequestID)
	if err != nil {
		return nil, err
	}
	actor, ok := br.ActorFor(caller.ID)
	if !ok {
		return nil, ErrNotParticipant
	}

	next, err := NextStatus(br.Status, req.Action, actor)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	var respondedAt sql.NullTime
	if next == StatusAccepted || next == StatusDeclined {
		respondedAt = sql.NullTime{Time: now, Valid: true}
	}

	updated, err := s.repo.UpdateStatus(ctx, br.ID, br.Status, next, respondedAt, now)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if !updated {
		return nil, ErrConcurrentUpdate
	}

	logger.LogInfo(ctx, "Booking request status changed",
		"booking_request_id", br.ID.String(),
		"from", string(br.Status),
		"to", string(next))

	other := br.ProviderID
	if actor == ActorProvider {
		other = br.RequesterID
	}
	s.events.Publish(ctx, events.SubjectBookingStatus, caller.ID, []uuid.UUID{other}, map[string]string{
		"bookingRequestId": br.ID.String(),
		"status":           string(next),
	})

	return &RespondResult{OK: true, Status: next}, nil
}

// Get returns a booking request or ErrRequestNotFound
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Request, error) {
	br, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if br == nil {
		return nil, ErrRequestNotFound
	}
	return br, nil
}

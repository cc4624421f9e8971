package contactshare

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/neighborly/neighborly-api/internal/domain/booking"
	"github.com/neighborly/neighborly-api/internal/domain/conversation"
	"github.com/neighborly/neighborly-api/internal/domain/ratelimit"
	"github.com/neighborly/neighborly-api/internal/domain/user"
	"github.com/neighborly/neighborly-api/internal/pkg/apperr"
	"github.com/neighborly/neighborly-api/internal/pkg/events"
	"github.com/neighborly/neighborly-api/internal/pkg/logger"
)

// BookingReader loads the booking request that gates a share
type BookingReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*booking.Request, error)
}

// ConversationReader finds the conversation system notices are posted to
type ConversationReader interface {
	GetByBookingRequest(ctx context.Context, bookingRequestID uuid.UUID) (*conversation.Conversation, error)
}

// Service handles contact share business logic
type Service struct {
	repo          Repository
	bookings      BookingReader
	conversations ConversationReader
	guard         *user.Guard
	limiter       ratelimit.Enforcer
	events        events.Publisher
	now           func() time.Time
}

// NewService creates contact share service
func NewService(
	repo Repository,
	bookings BookingReader,
	conversations ConversationReader,
	guard *user.Guard,
	limiter ratelimit.Enforcer,
	publisher events.Publisher,
) *Service {
	return &Service{
		repo:          repo,
		bookings:      bookings,
		conversations: conversations,
		guard:         guard,
		limiter:       limiter,
		events:        publisher,
		now:           time.Now,
	}
}

// RequestContactShare discloses the requesting parent's phone or email to the
// provider of an accepted or completed booking. Repeat calls return the
// existing share.
func (s *Service) RequestContactShare(ctx context.Context, req *RequestShareRequest) (*RequestShareResult, error) {
	sharer, err := s.guard.Authorize(ctx, user.RoleParent)
	if err != nil {
		return nil, err
	}
	if err := s.limiter.Enforce(ctx, ratelimit.RuleRequestContactShare, sharer.ID, s.guard.IsNewAccount(sharer)); err != nil {
		return nil, err
	}

	br, err := s.loadBooking(ctx, req.BookingRequestID)
	if err != nil {
		return nil, err
	}
	if br.RequesterID != sharer.ID {
		return nil, ErrOnlyRequester
	}
	if br.Status != booking.StatusAccepted && br.Status != booking.StatusCompleted {
		return nil, ErrBookingNotShareable
	}

	existing, err := s.repo.Find(ctx, br.ID, sharer.ID, req.Type)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if existing != nil {
		return &RequestShareResult{OK: true, ContactShareID: existing.ID, AlreadyShared: true}, nil
	}

	value := contactValue(sharer, req.Type)
	if value == "" {
		return nil, ErrNoContactValue
	}

	now := s.now().UTC()
	share := &Share{
		ID:               uuid.New(),
		BookingRequestID: br.ID,
		FromUserID:       sharer.ID,
		ToUserID:         br.ProviderID,
		Type:             req.Type,
		Value:            value,
		Status:           StatusShared,
		CreatedAt:        now,
	}

	notice, err := s.notice(ctx, br.ID, sharedNotice(sharer.DisplayName, req.Type), now)
	if err != nil {
		return nil, err
	}

	stored, created, err := s.repo.CreateOrGet(ctx, share, notice)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	if created {
		logger.LogInfo(ctx, "Contact shared",
			"contact_share_id", stored.ID.String(),
			"booking_request_id", br.ID.String(),
			"type", string(stored.Type))
		s.events.Publish(ctx, events.SubjectContactShareCreated, sharer.ID, []uuid.UUID{br.ProviderID}, map[string]string{
			"contactShareId":   stored.ID.String(),
			"bookingRequestId": br.ID.String(),
			"type":             string(stored.Type),
		})
	}
	return &RequestShareResult{OK: true, ContactShareID: stored.ID, AlreadyShared: !created}, nil
}

// ApproveContactShare answers a pending share. Only the provider or the
// provider's linked parent may answer.
func (s *Service) ApproveContactShare(ctx context.Context, req *ApproveShareRequest) (*ApproveShareResult, error) {
	caller, err := s.guard.Authorize(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.limiter.Enforce(ctx, ratelimit.RuleApproveContactShare, caller.ID, s.guard.IsNewAccount(caller)); err != nil {
		return nil, err
	}

	share, err := s.repo.GetByID(ctx, req.ContactShareID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if share == nil {
		return nil, ErrShareNotFound
	}

	br, err := s.loadBooking(ctx, share.BookingRequestID)
	if err != nil {
		return nil, err
	}
	if caller.ID != br.ProviderID {
		provider, err := s.guard.LoadUser(ctx, br.ProviderID)
		if err != nil {
			return nil, err
		}
		if !caller.IsParentOf(provider) {
			return nil, ErrNotApprover
		}
	}
	if share.Status != StatusPending {
		return nil, ErrShareNotPending
	}

	now := s.now().UTC()
	next := StatusDeclined
	var notice *conversation.Message
	if *req.Approve {
		next = StatusApproved
		notice, err = s.notice(ctx, br.ID, approvedNotice(caller.DisplayName, share.Type), now)
		if err != nil {
			return nil, err
		}
	}

	ok, err := s.repo.Respond(ctx, share.ID, next, caller.ID, now, notice)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if !ok {
		return nil, ErrShareNotPending
	}

	s.events.Publish(ctx, events.SubjectContactShareResponded, caller.ID, []uuid.UUID{share.FromUserID}, map[string]string{
		"contactShareId": share.ID.String(),
		"status":         string(next),
	})
	return &ApproveShareResult{OK: true, Status: next}, nil
}

func (s *Service) loadBooking(ctx context.Context, id uuid.UUID) (*booking.Request, error) {
	br, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if br == nil {
		return nil, booking.ErrRequestNotFound
	}
	return br, nil
}

// notice builds a system message for the booking's conversation, or nil when
// the conversation has not been opened yet
func (s *Service) notice(ctx context.Context, bookingRequestID uuid.UUID, text string, at time.Time) (*conversation.Message, error) {
	c, err := s.conversations.GetByBookingRequest(ctx, bookingRequestID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if c == nil {
		return nil, nil
	}
	return conversation.NewSystemMessage(c.ID, text, at), nil
}

func contactValue(u *user.User, t Type) string {
	switch t {
	case TypePhone:
		if u.Phone.Valid {
			return u.Phone.String
		}
	case TypeEmail:
		if u.Email.Valid {
			return u.Email.String
		}
	}
	return ""
}

package conversation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/neighborly/neighborly-api/internal/domain/booking"
	"github.com/neighborly/neighborly-api/internal/domain/contentfilter"
	"github.com/neighborly/neighborly-api/internal/domain/ratelimit"
	"github.com/neighborly/neighborly-api/internal/domain/user"
	"github.com/neighborly/neighborly-api/internal/pkg/apperr"
	"github.com/neighborly/neighborly-api/internal/pkg/events"
)

// BookingReader loads the booking request a conversation derives from
type BookingReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*booking.Request, error)
}

// BlockChecker reports a block relation in either direction
type BlockChecker interface {
	IsBlocked(ctx context.Context, a, b uuid.UUID) (bool, error)
}

// Service handles conversation business logic
type Service struct {
	repo     Repository
	bookings BookingReader
	guard    *user.Guard
	limiter  ratelimit.Enforcer
	filters  contentfilter.Provider
	blocks   BlockChecker
	events   events.Publisher
	now      func() time.Time
}

// NewService creates conversation service
func NewService(
	repo Repository,
	bookings BookingReader,
	guard *user.Guard,
	limiter ratelimit.Enforcer,
	filters contentfilter.Provider,
	blocks BlockChecker,
	publisher events.Publisher,
) *Service {
	return &Service{
		repo:     repo,
		bookings: bookings,
		guard:    guard,
		limiter:  limiter,
		filters:  filters,
		blocks:   blocks,
		events:   publisher,
		now:      time.Now,
	}
}

// CreateFromAcceptedRequest opens the conversation of an accepted booking
// request. Calling it again returns the existing conversation.
func (s *Service) CreateFromAcceptedRequest(ctx context.Context, req *CreateFromRequestRequest) (*CreateFromRequestResult, error) {
	caller, err := s.guard.Authorize(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.limiter.Enforce(ctx, ratelimit.RuleCreateConversation, caller.ID, s.guard.IsNewAccount(caller)); err != nil {
		return nil, err
	}

	br, err := s.bookings.GetByID(ctx, req.BookingRequestID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if br == nil {
		return nil, booking.ErrRequestNotFound
	}
	if !br.IsParticipant(caller.ID) {
		return nil, booking.ErrNotParticipant
	}

	existing, err := s.repo.GetByBookingRequest(ctx, br.ID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if existing != nil {
		return &CreateFromRequestResult{OK: true, ConversationID: existing.ID, AlreadyExisted: true}, nil
	}

	if br.Status != booking.StatusAccepted {
		return nil, ErrBookingNotAccepted
	}
	blocked, err := s.blocks.IsBlocked(ctx, br.RequesterID, br.ProviderID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if blocked {
		return nil, ErrBlockedRelation
	}

	now := s.now().UTC()
	c := &Conversation{
		ID:               uuid.New(),
		BookingRequestID: br.ID,
		ParticipantIDs:   participantArray(br.RequesterID, br.ProviderID),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	stored, created, err := s.repo.CreateOrGet(ctx, c)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	if created {
		s.events.Publish(ctx, events.SubjectConversationCreated, caller.ID, stored.Others(caller.ID), map[string]string{
			"conversationId":   stored.ID.String(),
			"bookingRequestId": br.ID.String(),
		})
	}
	return &CreateFromRequestResult{OK: true, ConversationID: stored.ID, AlreadyExisted: !created}, nil
}

// SendMessage posts a participant message
func (s *Service) SendMessage(ctx context.Context, req *SendMessageRequest) (*SendMessageResult, error) {
	sender, err := s.guard.Authorize(ctx)
	if err != nil {
		return nil, err
	}
	if sender.IsChatRestricted {
		return nil, ErrChatRestricted
	}
	if err := s.limiter.Enforce(ctx, ratelimit.RuleSendMessage, sender.ID, s.guard.IsNewAccount(sender)); err != nil {
		return nil, err
	}

	filter, err := s.filters.Filter(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	text, err := filter.Check("text", req.Text, MessageMaxLen)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, ErrMessageEmpty
	}

	c, err := s.repo.GetByID(ctx, req.ConversationID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if c == nil {
		return nil, ErrConversationNotFound
	}
	if !c.HasParticipant(sender.ID) {
		return nil, ErrNotParticipant
	}

	others := c.Others(sender.ID)
	for _, other := range others {
		blocked, err := s.blocks.IsBlocked(ctx, sender.ID, other)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		if blocked {
			return nil, ErrBlockedRelation
		}
	}

	snapshot := sender.Snapshot()
	m := &Message{
		ID:             uuid.New(),
		ConversationID: c.ID,
		SenderID:       uuid.NullUUID{UUID: sender.ID, Valid: true},
		SenderSnapshot: &snapshot,
		Kind:           KindUser,
		Text:           text,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.repo.AppendMessage(ctx, m); err != nil {
		return nil, apperr.Internal(err)
	}

	s.events.Publish(ctx, events.SubjectMessageSent, sender.ID, others, map[string]string{
		"conversationId": c.ID.String(),
		"messageId":      m.ID.String(),
		"preview":        Preview(text),
	})
	return &SendMessageResult{OK: true, MessageID: m.ID}, nil
}

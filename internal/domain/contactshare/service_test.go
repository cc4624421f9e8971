package contactshare

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neighborly/neighborly-api/internal/domain/booking"
	"github.com/neighborly/neighborly-api/internal/domain/conversation"
	"github.com/neighborly/neighborly-api/internal/domain/user"
	"github.com/neighborly/neighborly-api/internal/domain/user/usertest"
	"github.com/neighborly/neighborly-api/internal/pkg/events"
)

type memRepo struct {
	shares  map[uuid.UUID]*Share
	notices []*conversation.Message
}

func (m *memRepo) GetByID(_ context.Context, id uuid.UUID) (*Share, error) {
	if s, ok := m.shares[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (m *memRepo) Find(_ context.Context, br, from uuid.UUID, t Type) (*Share, error) {
	for _, s := range m.shares {
		if s.BookingRequestID == br && s.FromUserID == from && s.Type == t {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memRepo) CreateOrGet(ctx context.Context, s *Share, notice *conversation.Message) (*Share, bool, error) {
	if existing, _ := m.Find(ctx, s.BookingRequestID, s.FromUserID, s.Type); existing != nil {
		return existing, false, nil
	}
	m.shares[s.ID] = s
	if notice != nil {
		m.notices = append(m.notices, notice)
	}
	return s, true, nil
}

func (m *memRepo) Respond(_ context.Context, id uuid.UUID, status Status, by uuid.UUID, at time.Time, notice *conversation.Message) (bool, error) {
	s, ok := m.shares[id]
	if !ok || s.Status != StatusPending {
		return false, nil
	}
	s.Status = status
	s.RespondedBy = uuid.NullUUID{UUID: by, Valid: true}
	s.RespondedAt = sql.NullTime{Time: at, Valid: true}
	if notice != nil {
		m.notices = append(m.notices, notice)
	}
	return true, nil
}

type memBookings map[uuid.UUID]*booking.Request

func (m memBookings) GetByID(_ context.Context, id uuid.UUID) (*booking.Request, error) {
	return m[id], nil
}

type memConversations map[uuid.UUID]*conversation.Conversation

func (m memConversations) GetByBookingRequest(_ context.Context, id uuid.UUID) (*conversation.Conversation, error) {
	return m[id], nil
}

type fixture struct {
	svc     *Service
	repo    *memRepo
	events  *events.Recorder
	parent  *user.User
	teen    *user.User
	teenMom *user.User
	br      *booking.Request
	conv    *conversation.Conversation
}

func newFixture() *fixture {
	f := &fixture{
		repo:    &memRepo{shares: map[uuid.UUID]*Share{}},
		events:  &events.Recorder{},
		parent:  usertest.Parent("Dana"),
		teenMom: usertest.Parent("Lee"),
	}
	f.parent.Phone = sql.NullString{String: "+15551234567", Valid: true}
	f.teen = usertest.Teen("Sam", f.teenMom)
	users := usertest.NewRepo(f.parent, f.teen, f.teenMom)

	f.br = &booking.Request{ID: uuid.New(), RequesterID: f.parent.ID, ProviderID: f.teen.ID, Status: booking.StatusAccepted}
	f.conv = &conversation.Conversation{ID: uuid.New(), BookingRequestID: f.br.ID}

	f.svc = NewService(f.repo,
		memBookings{f.br.ID: f.br},
		memConversations{f.br.ID: f.conv},
		users.Guard(), &usertest.Limiter{}, f.events)
	return f
}

func (f *fixture) share(t Type) (*RequestShareResult, error) {
	return f.svc.RequestContactShare(usertest.As(context.Background(), f.parent), &RequestShareRequest{BookingRequestID: f.br.ID, Type: t})
}

func TestRequestContactShareIsIdempotent(t *testing.T) {
	f := newFixture()

	first, err := f.share(TypePhone)
	require.NoError(t, err)
	assert.False(t, first.AlreadyShared)

	second, err := f.share(TypePhone)
	require.NoError(t, err)
	assert.True(t, second.AlreadyShared)
	assert.Equal(t, first.ContactShareID, second.ContactShareID)

	require.Len(t, f.repo.notices, 1, "system message is posted once")
	notice := f.repo.notices[0]
	assert.Equal(t, conversation.KindSystem, notice.Kind)
	assert.Equal(t, f.conv.ID, notice.ConversationID)
	assert.Equal(t, "Dana shared their phone number", notice.Text)
	assert.Equal(t, []string{events.SubjectContactShareCreated}, f.events.Subjects())

	s := f.repo.shares[first.ContactShareID]
	assert.Equal(t, StatusShared, s.Status)
	assert.Equal(t, "+15551234567", s.Value)
	assert.Equal(t, f.teen.ID, s.ToUserID)
}

func TestRequestContactShareGates(t *testing.T) {
	f := newFixture()

	_, err := f.share(TypeEmail)
	assert.True(t, errors.Is(err, ErrNoContactValue))

	f.br.Status = booking.StatusPending
	_, err = f.share(TypePhone)
	assert.True(t, errors.Is(err, ErrBookingNotShareable))

	f.br.Status = booking.StatusCompleted
	_, err = f.share(TypePhone)
	assert.NoError(t, err)

	_, err = f.svc.RequestContactShare(usertest.As(context.Background(), f.teenMom), &RequestShareRequest{BookingRequestID: f.br.ID, Type: TypePhone})
	assert.True(t, errors.Is(err, ErrOnlyRequester))

	_, err = f.svc.RequestContactShare(usertest.As(context.Background(), f.teen), &RequestShareRequest{BookingRequestID: f.br.ID, Type: TypePhone})
	assert.True(t, errors.Is(err, user.ErrRoleNotAllowed))
}

func seedPending(f *fixture) *Share {
	s := &Share{
		ID:               uuid.New(),
		BookingRequestID: f.br.ID,
		FromUserID:       f.parent.ID,
		ToUserID:         f.teen.ID,
		Type:             TypeEmail,
		Value:            "dana@example.com",
		Status:           StatusPending,
	}
	f.repo.shares[s.ID] = s
	return s
}

func approve(f *fixture, as *user.User, id uuid.UUID, yes bool) (*ApproveShareResult, error) {
	return f.svc.ApproveContactShare(usertest.As(context.Background(), as), &ApproveShareRequest{ContactShareID: id, Approve: &yes})
}

func TestApproveContactShareByProvidersParent(t *testing.T) {
	f := newFixture()
	s := seedPending(f)

	res, err := approve(f, f.teenMom, s.ID, true)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, res.Status)
	assert.Equal(t, f.teenMom.ID, f.repo.shares[s.ID].RespondedBy.UUID)
	require.Len(t, f.repo.notices, 1)
	assert.Equal(t, "Lee approved the email address share", f.repo.notices[0].Text)

	_, err = approve(f, f.teen, s.ID, false)
	assert.True(t, errors.Is(err, ErrShareNotPending))
}

func TestApproveContactShareDeclineHasNoNotice(t *testing.T) {
	f := newFixture()
	s := seedPending(f)

	res, err := approve(f, f.teen, s.ID, false)
	require.NoError(t, err)
	assert.Equal(t, StatusDeclined, res.Status)
	assert.Empty(t, f.repo.notices)
}

func TestApproveContactShareRejectsOthers(t *testing.T) {
	f := newFixture()
	s := seedPending(f)

	_, err := approve(f, f.parent, s.ID, true)
	assert.True(t, errors.Is(err, ErrNotApprover))

	_, err = approve(f, f.teen, uuid.New(), true)
	assert.True(t, errors.Is(err, ErrShareNotFound))
}

package conversation

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neighborly/neighborly-api/internal/domain/booking"
	"github.com/neighborly/neighborly-api/internal/domain/contentfilter"
	"github.com/neighborly/neighborly-api/internal/domain/user"
	"github.com/neighborly/neighborly-api/internal/domain/user/usertest"
	"github.com/neighborly/neighborly-api/internal/pkg/events"
)

type memRepo struct {
	mu            sync.Mutex
	conversations map[uuid.UUID]*Conversation
	messages      []*Message
}

func newMemRepo() *memRepo { return &memRepo{conversations: map[uuid.UUID]*Conversation{}} }

func (m *memRepo) GetByID(_ context.Context, id uuid.UUID) (*Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.conversations[id], nil
}

func (m *memRepo) GetByBookingRequest(_ context.Context, id uuid.UUID) (*Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.conversations {
		if c.BookingRequestID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (m *memRepo) CreateOrGet(_ context.Context, c *Conversation) (*Conversation, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.conversations {
		if existing.BookingRequestID == c.BookingRequestID {
			return existing, false, nil
		}
	}
	m.conversations[c.ID] = c
	return c, true, nil
}

func (m *memRepo) AppendMessage(_ context.Context, msg *Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	c := m.conversations[msg.ConversationID]
	c.MessageCount++
	c.LastMessagePreview = Preview(msg.Text)
	return nil
}

type memBookings map[uuid.UUID]*booking.Request

func (m memBookings) GetByID(_ context.Context, id uuid.UUID) (*booking.Request, error) {
	return m[id], nil
}

type blocks map[[2]uuid.UUID]bool

func (b blocks) IsBlocked(_ context.Context, x, y uuid.UUID) (bool, error) {
	return b[[2]uuid.UUID{x, y}] || b[[2]uuid.UUID{y, x}], nil
}

type fixture struct {
	svc      *Service
	repo     *memRepo
	users    *usertest.Repo
	bookings memBookings
	blocks   blocks
	events   *events.Recorder
	parent   *user.User
	teen     *user.User
	br       *booking.Request
}

func newFixture() *fixture {
	f := &fixture{
		repo:     newMemRepo(),
		bookings: memBookings{},
		blocks:   blocks{},
		events:   &events.Recorder{},
		parent:   usertest.Parent("Dana"),
	}
	f.teen = usertest.Teen("Sam", nil)
	f.users = usertest.NewRepo(f.parent, f.teen)
	f.br = &booking.Request{
		ID:          uuid.New(),
		RequesterID: f.parent.ID,
		ProviderID:  f.teen.ID,
		Status:      booking.StatusAccepted,
	}
	f.bookings[f.br.ID] = f.br
	filters := contentfilter.Static{F: contentfilter.New(contentfilter.Blocklists{})}
	f.svc = NewService(f.repo, f.bookings, f.users.Guard(), &usertest.Limiter{}, filters, f.blocks, f.events)
	return f
}

func (f *fixture) open(t *testing.T) uuid.UUID {
	t.Helper()
	res, err := f.svc.CreateFromAcceptedRequest(usertest.As(context.Background(), f.parent), &CreateFromRequestRequest{BookingRequestID: f.br.ID})
	require.NoError(t, err)
	return res.ConversationID
}

func TestCreateFromAcceptedRequestIsIdempotent(t *testing.T) {
	f := newFixture()
	id := f.open(t)

	res, err := f.svc.CreateFromAcceptedRequest(usertest.As(context.Background(), f.teen), &CreateFromRequestRequest{BookingRequestID: f.br.ID})
	require.NoError(t, err)
	assert.True(t, res.AlreadyExisted)
	assert.Equal(t, id, res.ConversationID)
	assert.Len(t, f.repo.conversations, 1)
	assert.Equal(t, []string{events.SubjectConversationCreated}, f.events.Subjects())

	c := f.repo.conversations[id]
	assert.True(t, c.HasParticipant(f.parent.ID))
	assert.True(t, c.HasParticipant(f.teen.ID))
}

func TestCreateFromAcceptedRequestRequiresAccepted(t *testing.T) {
	f := newFixture()
	f.br.Status = booking.StatusPending

	_, err := f.svc.CreateFromAcceptedRequest(usertest.As(context.Background(), f.parent), &CreateFromRequestRequest{BookingRequestID: f.br.ID})
	assert.True(t, errors.Is(err, ErrBookingNotAccepted))
}

func TestCreateFromAcceptedRequestParticipantsOnly(t *testing.T) {
	f := newFixture()
	stranger := usertest.Parent("Pat")
	f.users.Put(stranger)

	_, err := f.svc.CreateFromAcceptedRequest(usertest.As(context.Background(), stranger), &CreateFromRequestRequest{BookingRequestID: f.br.ID})
	assert.True(t, errors.Is(err, booking.ErrNotParticipant))

	_, err = f.svc.CreateFromAcceptedRequest(usertest.As(context.Background(), f.parent), &CreateFromRequestRequest{BookingRequestID: uuid.New()})
	assert.True(t, errors.Is(err, booking.ErrRequestNotFound))
}

func TestSendMessage(t *testing.T) {
	f := newFixture()
	id := f.open(t)

	long := strings.Repeat("b", 150)
	res, err := f.svc.SendMessage(usertest.As(context.Background(), f.teen), &SendMessageRequest{ConversationID: id, Text: long})
	require.NoError(t, err)

	require.Len(t, f.repo.messages, 1)
	m := f.repo.messages[0]
	assert.Equal(t, res.MessageID, m.ID)
	assert.Equal(t, KindUser, m.Kind)
	require.NotNil(t, m.SenderSnapshot)
	assert.Equal(t, "Sam", m.SenderSnapshot.DisplayName)

	c := f.repo.conversations[id]
	assert.Equal(t, 1, c.MessageCount)
	assert.Len(t, c.LastMessagePreview, PreviewMaxLen)

	last := f.events.Events[len(f.events.Events)-1]
	assert.Equal(t, events.SubjectMessageSent, last.Subject)
	assert.Equal(t, []uuid.UUID{f.parent.ID}, last.Recipients)
}

func TestSendMessageGuards(t *testing.T) {
	f := newFixture()
	id := f.open(t)

	restricted := *f.teen
	restricted.IsChatRestricted = true
	f.users.Put(&restricted)
	_, err := f.svc.SendMessage(usertest.As(context.Background(), f.teen), &SendMessageRequest{ConversationID: id, Text: "hi"})
	assert.True(t, errors.Is(err, ErrChatRestricted))
	f.users.Put(f.teen)

	f.blocks[[2]uuid.UUID{f.parent.ID, f.teen.ID}] = true
	_, err = f.svc.SendMessage(usertest.As(context.Background(), f.teen), &SendMessageRequest{ConversationID: id, Text: "hi"})
	assert.True(t, errors.Is(err, ErrBlockedRelation))

	stranger := usertest.Teen("Jo", nil)
	f.users.Put(stranger)
	_, err = f.svc.SendMessage(usertest.As(context.Background(), stranger), &SendMessageRequest{ConversationID: id, Text: "hi"})
	assert.True(t, errors.Is(err, ErrNotParticipant))

	_, err = f.svc.SendMessage(usertest.As(context.Background(), f.parent), &SendMessageRequest{ConversationID: uuid.New(), Text: "hi"})
	assert.True(t, errors.Is(err, ErrConversationNotFound))
	assert.Empty(t, f.repo.messages)
}

func TestSendMessageRejectsLinks(t *testing.T) {
	f := newFixture()
	id := f.open(t)

	_, err := f.svc.SendMessage(usertest.As(context.Background(), f.parent), &SendMessageRequest{ConversationID: id, Text: "join at zoom.us/j/123"})
	require.Error(t, err)
	assert.Empty(t, f.repo.messages)
}

func TestNewSystemMessageHasNoSender(t *testing.T) {
	m := NewSystemMessage(uuid.New(), "Dana shared a phone number", time.Now())
	assert.Equal(t, KindSystem, m.Kind)
	assert.False(t, m.SenderID.Valid)
	assert.Nil(t, m.SenderSnapshot)
}

// Package events publishes post-commit domain events over NATS. A separate push
// notification service subscribes to these subjects; nothing here waits for it.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/neighborly/neighborly-api/internal/pkg/logger"
)

// Subjects
const (
	SubjectBookingCreated        = "neighborly.booking.created"
	SubjectBookingStatus         = "neighborly.booking.status"
	SubjectConversationCreated   = "neighborly.conversation.created"
	SubjectMessageSent           = "neighborly.message.sent"
	SubjectContactShareCreated   = "neighborly.contact_share.created"
	SubjectContactShareResponded = "neighborly.contact_share.responded"
	SubjectReportCreated         = "neighborly.report.created"
	SubjectUserBlocked           = "neighborly.user.blocked"
)

// Event is the envelope published on every subject.
type Event struct {
	ID         uuid.UUID         `json:"id"`
	Subject    string            `json:"subject"`
	ActorID    uuid.UUID         `json:"actorId"`
	Recipients []uuid.UUID       `json:"recipients,omitempty"`
	Data       map[string]string `json:"data,omitempty"`
	OccurredAt time.Time         `json:"occurredAt"`
}

// Publisher publishes events after the triggering write has committed.
// Publishing never fails the caller; errors are logged.
type Publisher interface {
	Publish(ctx context.Context, subject string, actorID uuid.UUID, recipients []uuid.UUID, data map[string]string)
}

// Config holds NATS connection settings.
type Config struct {
	URL           string
	Name          string
	ReconnectWait time.Duration
	MaxReconnects int
}

// DefaultConfig returns defaults for the given URL.
func DefaultConfig(url string) Config {
	return Config{
		URL:           url,
		Name:          "neighborly-api",
		ReconnectWait: 2 * time.Second,
		MaxReconnects: -1,
	}
}

// NATSPublisher publishes JSON events on a NATS connection.
type NATSPublisher struct {
	conn *nats.Conn
}

// NewNATSPublisher connects to NATS and returns a ready publisher.
func NewNATSPublisher(cfg Config) (*NATSPublisher, error) {
	opts := []nats.Option{
		nats.Name(cfg.Name),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	log.Info().Str("url", nc.ConnectedUrl()).Msg("Connected to NATS")
	return &NATSPublisher{conn: nc}, nil
}

// Publish encodes and publishes one event.
func (p *NATSPublisher) Publish(ctx context.Context, subject string, actorID uuid.UUID, recipients []uuid.UUID, data map[string]string) {
	evt := Event{
		ID:         uuid.New(),
		Subject:    subject,
		ActorID:    actorID,
		Recipients: recipients,
		Data:       data,
		OccurredAt: time.Now().UTC(),
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		logger.LogError(ctx, err, "Failed to encode event", "subject", subject)
		return
	}
	if err := p.conn.Publish(subject, payload); err != nil {
		logger.LogError(ctx, err, "Failed to publish event", "subject", subject)
	}
}

// Close drains pending messages and closes the connection.
func (p *NATSPublisher) Close() {
	if p == nil || p.conn == nil {
		return
	}
	if err := p.conn.Drain(); err != nil {
		log.Error().Err(err).Msg("Error draining NATS connection")
		p.conn.Close()
		return
	}
	log.Info().Msg("NATS connection closed")
}

// Noop discards events. Used when NATS_URL is empty and in tests.
type Noop struct{}

func (Noop) Publish(context.Context, string, uuid.UUID, []uuid.UUID, map[string]string) {}

// Recorder keeps published events in memory
type Recorder struct {
	mu     sync.Mutex
	Events []Event
}

func (r *Recorder) Publish(_ context.Context, subject string, actorID uuid.UUID, recipients []uuid.UUID, data map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, Event{
		ID:         uuid.New(),
		Subject:    subject,
		ActorID:    actorID,
		Recipients: recipients,
		Data:       data,
		OccurredAt: time.Now().UTC(),
	})
}

// Subjects returns the recorded subjects in publish order
func (r *Recorder) Subjects() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.Events))
	for i, e := range r.Events {
		out[i] = e.Subject
	}
	return out
}

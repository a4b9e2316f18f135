// Package events publishes tracker lifecycle events to NATS so downstream
// consumers (reminder mailers, analytics) can react without polling.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/codetrack-dev/codetrack-api/internal/models"
)

// SubjectSyncCompleted carries one SyncCompleted event per finished sync run.
const SubjectSyncCompleted = "codetrack.sync.completed"

// SyncCompleted describes the delta of one finished sync run.
type SyncCompleted struct {
	UserID         uint            `json:"user_id"`
	Platform       models.Platform `json:"platform"`
	NewProblems    int             `json:"new_problems"`
	NewSubmissions int             `json:"new_submissions"`
	SyncedAt       time.Time       `json:"synced_at"`
}

// Publisher emits tracker events. Implementations must tolerate being called
// from the request path: publishing failures are the publisher's problem to
// log, never the caller's to propagate.
type Publisher interface {
	PublishSyncCompleted(ctx context.Context, event SyncCompleted)
}

type natsPublisher struct {
	conn   *nats.Conn
	logger zerolog.Logger
}

// NewNATSPublisher wraps a NATS connection as an event publisher.
func NewNATSPublisher(conn *nats.Conn, logger zerolog.Logger) Publisher {
	return &natsPublisher{
		conn:   conn,
		logger: logger.With().Str("component", "event_publisher").Logger(),
	}
}

func (p *natsPublisher) PublishSyncCompleted(_ context.Context, event SyncCompleted) {
	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error().Err(err).Msg("failed to encode sync event")
		return
	}

	if err := p.conn.Publish(SubjectSyncCompleted, payload); err != nil {
		p.logger.Warn().Err(err).Uint("user_id", event.UserID).Msg("failed to publish sync event")
	}
}

// NopPublisher discards all events. Used when NATS is not configured.
type NopPublisher struct{}

// PublishSyncCompleted drops the event.
func (NopPublisher) PublishSyncCompleted(context.Context, SyncCompleted) {}

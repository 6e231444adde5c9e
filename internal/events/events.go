// Package events publishes portal activity to NATS. Publishing is
// fire-and-forget: failures are logged and never reach the caller.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/stwalsh4118/akmovies/internal/config"
	"github.com/stwalsh4118/akmovies/internal/logger"
)

// Subjects
const (
	SubjectWatchStarted    = "portal.watch.started"
	SubjectBookmarkToggled = "portal.bookmark.toggled"
	SubjectAdminAction     = "portal.admin.action"
	SubjectSearchPerformed = "portal.search.performed"
)

// Event is the envelope published on every portal.* subject
type Event struct {
	EventID    string         `json:"event_id"`
	EventName  string         `json:"event_name"`
	UserID     string         `json:"user_id,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
	Properties map[string]any `json:"properties,omitempty"`
}

// Conn is the part of *nats.Conn the publisher uses
type Conn interface {
	Publish(subject string, data []byte) error
}

// Publisher publishes events. A nil *Publisher, or one built with a nil
// connection, drops every event.
type Publisher struct {
	conn Conn
	now  func() time.Time
}

// NewPublisher creates a publisher on conn
func NewPublisher(conn Conn) *Publisher {
	return &Publisher{conn: conn, now: time.Now}
}

// Publish sends one event on subject
func (p *Publisher) Publish(subject, eventName, userID string, props map[string]any) {
	if p == nil || p.conn == nil {
		return
	}
	ev := Event{
		EventID:    uuid.NewString(),
		EventName:  eventName,
		UserID:     userID,
		OccurredAt: p.now().UTC(),
		Properties: props,
	}
	data, err := json.Marshal(ev)
	if err != nil {
		logger.Log.Warn().Err(err).Str("event", eventName).Msg("Failed to marshal event")
		return
	}
	if err := p.conn.Publish(subject, data); err != nil {
		logger.Log.Warn().Err(err).Str("subject", subject).Msg("Failed to publish event")
	}
}

// Connect dials NATS with the configured reconnect policy. It fails fast
// when the server cannot be reached at startup.
func Connect(cfg config.EventsConfig) (*nats.Conn, error) {
	nc, err := nats.Connect(cfg.NATSURL,
		nats.Name("akmovies"),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.RetryOnFailedConnect(false),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Log.Warn().Err(err).Msg("NATS disconnected")
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Log.Info().Str("url", c.ConnectedUrl()).Msg("NATS reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect %s (max_reconnects=%d, wait=%s): %w",
			cfg.NATSURL, cfg.MaxReconnects, cfg.ReconnectWait, err)
	}
	return nc, nil
}

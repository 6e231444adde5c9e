package events

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/akmovies/internal/config"
)

type recordingConn struct {
	subjects []string
	payloads [][]byte
	err      error
}

func (r *recordingConn) Publish(subject string, data []byte) error {
	r.subjects = append(r.subjects, subject)
	r.payloads = append(r.payloads, data)
	return r.err
}

func TestPublish_Envelope(t *testing.T) {
	conn := &recordingConn{}
	p := NewPublisher(conn)
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return fixed }

	p.Publish(SubjectWatchStarted, "watch_started", "user-1", map[string]any{"doc_id": "movie_550"})

	require.Len(t, conn.payloads, 1)
	assert.Equal(t, SubjectWatchStarted, conn.subjects[0])

	var ev Event
	require.NoError(t, json.Unmarshal(conn.payloads[0], &ev))
	assert.NotEmpty(t, ev.EventID)
	assert.Equal(t, "watch_started", ev.EventName)
	assert.Equal(t, "user-1", ev.UserID)
	assert.True(t, fixed.Equal(ev.OccurredAt))
	assert.Equal(t, "movie_550", ev.Properties["doc_id"])
}

func TestPublish_NilSafe(t *testing.T) {
	var p *Publisher
	assert.NotPanics(t, func() {
		p.Publish(SubjectAdminAction, "add_server", "admin", nil)
	})

	assert.NotPanics(t, func() {
		NewPublisher(nil).Publish(SubjectAdminAction, "add_server", "admin", nil)
	})
}

func TestPublish_ConnErrorIsSwallowed(t *testing.T) {
	conn := &recordingConn{err: errors.New("nats: connection closed")}
	assert.NotPanics(t, func() {
		NewPublisher(conn).Publish(SubjectSearchPerformed, "search", "", nil)
	})
	assert.Len(t, conn.subjects, 1)
}

func TestConnect_Unreachable(t *testing.T) {
	_, err := Connect(config.EventsConfig{
		NATSURL:       "nats://127.0.0.1:19999",
		MaxReconnects: 0,
		ReconnectWait: 10 * time.Millisecond,
	})
	assert.Error(t, err)
}

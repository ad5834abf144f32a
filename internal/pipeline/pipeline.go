// Package pipeline maintains the push socket. The remote side streams JSON
// frames of the form {"type": ..., "content": ...}; each frame is translated
// into the matching PIPELINE:* bus event so reconcilers see push updates
// through the same channel as request completions.
package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/avalune/wisp/internal/api"
	"github.com/avalune/wisp/internal/eventbus"
	"github.com/avalune/wisp/internal/logging"
)

// frameKinds maps the wire frame type to the bus event it becomes. Frames of
// any other type are logged and dropped.
var frameKinds = map[string]eventbus.Kind{
	"friend-online":   eventbus.PipelineFriendOnline,
	"friend-offline":  eventbus.PipelineFriendOffline,
	"friend-location": eventbus.PipelineFriendLocation,
	"friend-update":   eventbus.PipelineFriendUpdate,
	"notification":    eventbus.PipelineNotification,
}

type frame struct {
	Type    string          `json:"type"`
	Content json.RawMessage `json:"content"`
}

// Pipeline dials the push socket and pumps frames onto the bus until its
// context is cancelled. Lost connections are redialed with exponential
// backoff; a successful read resets the backoff.
type Pipeline struct {
	url    string
	dialer *websocket.Dialer
	bus    *eventbus.Bus
	log    logging.Logger

	// backoff bounds, overridable in tests
	minBackoff time.Duration
	maxBackoff time.Duration
}

// New returns a Pipeline for the given websocket URL.
func New(url string, bus *eventbus.Bus, log logging.Logger) *Pipeline {
	return &Pipeline{
		url:        url,
		dialer:     websocket.DefaultDialer,
		bus:        bus,
		log:        log.With("component", "pipeline"),
		minBackoff: time.Second,
		maxBackoff: time.Minute,
	}
}

// Run blocks, maintaining the connection until ctx is cancelled. It only
// returns ctx.Err().
func (p *Pipeline) Run(ctx context.Context) error {
	backoff := p.minBackoff
	for {
		if err := p.connectAndRead(ctx, &backoff); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.log.Warn(ctx, "pipeline connection lost", "err", err, "retry_in", backoff)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > p.maxBackoff {
			backoff = p.maxBackoff
		}
	}
}

func (p *Pipeline) connectAndRead(ctx context.Context, backoff *time.Duration) error {
	conn, _, err := p.dialer.DialContext(ctx, p.url, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	// unblock ReadMessage when ctx is cancelled
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	p.log.Info(ctx, "pipeline connected", "url", p.url)

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		*backoff = p.minBackoff
		p.handle(ctx, message)
	}
}

func (p *Pipeline) handle(ctx context.Context, message []byte) {
	var f frame
	if err := json.Unmarshal(message, &f); err != nil {
		p.log.Warn(ctx, "unreadable pipeline frame", "err", err)
		return
	}
	kind, ok := frameKinds[f.Type]
	if !ok {
		p.log.Debug(ctx, "ignoring pipeline frame", "type", f.Type)
		return
	}

	content := decodeContent(f.Content)
	p.bus.Emit(kind, &api.Envelope{Receipt: uuid.NewString(), JSON: content})
}

// decodeContent unwraps the frame content. Some deployments double-encode it
// as a JSON string holding JSON; both forms are accepted.
func decodeContent(raw json.RawMessage) json.RawMessage {
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return json.RawMessage(s)
		}
	}
	return raw
}

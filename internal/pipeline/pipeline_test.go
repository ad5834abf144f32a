package pipeline

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avalune/wisp/internal/api"
	"github.com/avalune/wisp/internal/eventbus"
	"github.com/avalune/wisp/internal/logging"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// wsServer upgrades every request and feeds the connection to fn.
func wsServer(t *testing.T, fn func(conn *websocket.Conn)) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		fn(conn)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestRun_TranslatesFrames(t *testing.T) {
	srv := wsServer(t, func(conn *websocket.Conn) {
		frames := []string{
			`{"type":"friend-online","content":{"userId":"usr_1","location":"wrld_1:1"}}`,
			`{"type":"friend-location","content":"{\"userId\":\"usr_1\",\"location\":\"wrld_2:2\"}"}`,
			`{"type":"see-you-later","content":{}}`,
			`{"type":"notification","content":{"id":"not_1","type":"friendRequest"}}`,
		}
		for _, f := range frames {
			conn.WriteMessage(websocket.TextMessage, []byte(f))
		}
		// hold the connection open so the client does not reconnect mid-test
		time.Sleep(time.Second)
	})

	bus := eventbus.New(testLogger())
	type got struct {
		kind eventbus.Kind
		json string
	}
	received := make(chan got, 8)
	for _, k := range []eventbus.Kind{
		eventbus.PipelineFriendOnline,
		eventbus.PipelineFriendLocation,
		eventbus.PipelineNotification,
	} {
		kind := k
		bus.On(kind, func(payload any) {
			env := payload.(*api.Envelope)
			received <- got{kind: kind, json: string(env.JSON)}
		})
	}

	p := New(wsURL(srv), bus, testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	expect := func(kind eventbus.Kind, fragment string) {
		t.Helper()
		select {
		case g := <-received:
			assert.Equal(t, kind, g.kind)
			assert.Contains(t, g.json, fragment)
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for %s", kind)
		}
	}

	expect(eventbus.PipelineFriendOnline, `"usr_1"`)
	// double-encoded content arrives decoded
	expect(eventbus.PipelineFriendLocation, `"wrld_2:2"`)
	expect(eventbus.PipelineNotification, `"not_1"`)

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}

func TestRun_ReconnectsAfterDrop(t *testing.T) {
	conns := make(chan struct{}, 4)
	srv := wsServer(t, func(conn *websocket.Conn) {
		conns <- struct{}{}
		conn.WriteMessage(websocket.TextMessage,
			[]byte(`{"type":"friend-online","content":{"userId":"usr_1"}}`))
		// returning closes the connection, forcing a redial
	})

	bus := eventbus.New(testLogger())
	events := make(chan struct{}, 4)
	bus.On(eventbus.PipelineFriendOnline, func(any) { events <- struct{}{} })

	p := New(wsURL(srv), bus, testLogger())
	p.minBackoff = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	for i := 0; i < 2; i++ {
		select {
		case <-events:
		case <-time.After(2 * time.Second):
			t.Fatalf("connection %d never delivered a frame", i+1)
		}
	}
	require.GreaterOrEqual(t, len(conns), 1)

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}

func TestHandle_DropsMalformedFrames(t *testing.T) {
	bus := eventbus.New(testLogger())
	fired := false
	bus.On(eventbus.PipelineFriendOnline, func(any) { fired = true })

	p := New("ws://unused", bus, testLogger())
	p.handle(context.Background(), []byte(`not json`))
	p.handle(context.Background(), []byte(`{"type":"friend-online"`))

	assert.False(t, fired)
}

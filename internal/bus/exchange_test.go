package bus

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/smartgic/ovos-bridge/internal/infrastructure/config"
	"github.com/smartgic/ovos-bridge/internal/infrastructure/logging"
)

// testLogger returns a quiet logger for tests.
func testLogger() *logging.Logger {
	return logging.New(config.LoggingConfig{Level: "error", Format: "text", Output: "stdout"}, "test")
}

// busServer starts a fake assistant bus. For each websocket connection it
// reads the first inbound message and passes it, with the connection, to
// handler. The returned cleanup is registered automatically.
func busServer(t *testing.T, handler func(conn *websocket.Conn, received Message)) *httptest.Server {
	t.Helper()

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		defer conn.Close()

		var received Message
		if err := conn.ReadJSON(&received); err != nil {
			return
		}
		if handler != nil {
			handler(conn, received)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

// wsURI converts an httptest server URL to a websocket URI.
func wsURI(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

// testExchanger creates an Exchanger pointed at srv with short timeouts.
func testExchanger(srv *httptest.Server, recvTimeout time.Duration) *Exchanger {
	return NewExchanger(Config{
		URI:            wsURI(srv),
		ConnectTimeout: 2 * time.Second,
		ReceiveTimeout: recvTimeout,
	}, testLogger())
}

func TestExchange_FireAndForget(t *testing.T) {
	received := make(chan Message, 1)
	srv := busServer(t, func(_ *websocket.Conn, msg Message) {
		received <- msg
	})

	e := testExchanger(srv, 5*time.Second)

	start := time.Now()
	reply, err := e.Exchange(Message{Type: TypeMicMute}, "")
	if err != nil {
		t.Fatalf("Exchange() error = %v", err)
	}
	if reply != nil {
		t.Errorf("Exchange() reply = %+v, want nil for fire-and-forget", reply)
	}

	// Fire-and-forget must not wait on the receive window.
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("fire-and-forget took %v, expected immediate return", elapsed)
	}

	select {
	case msg := <-received:
		if msg.Type != TypeMicMute {
			t.Errorf("server received type %q, want %q", msg.Type, TypeMicMute)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server never received the outbound message")
	}
}

func TestExchange_MatchingReply(t *testing.T) {
	srv := busServer(t, func(conn *websocket.Conn, received Message) {
		if received.Type != TypeInfo {
			return
		}
		conn.WriteJSON(map[string]any{
			"type":    TypeInfoAnswer,
			"data":    map[string]any{"core_version": "0.0.8"},
			"context": map[string]any{"authenticated": true},
		})
	})

	e := testExchanger(srv, 5*time.Second)

	reply, err := e.Exchange(Message{Type: TypeInfo}, TypeInfoAnswer)
	if err != nil {
		t.Fatalf("Exchange() error = %v", err)
	}
	if reply == nil {
		t.Fatal("Exchange() returned nil reply, want matching event")
	}
	if reply.Type != TypeInfoAnswer {
		t.Errorf("reply.Type = %q, want %q", reply.Type, TypeInfoAnswer)
	}
	if !reply.Context.Authenticated {
		t.Error("reply.Context.Authenticated = false, want true")
	}
	if reply.Data["core_version"] != "0.0.8" {
		t.Errorf("reply.Data[core_version] = %v, want 0.0.8", reply.Data["core_version"])
	}
}

func TestExchange_DiscardsUnrelatedTraffic(t *testing.T) {
	srv := busServer(t, func(conn *websocket.Conn, _ Message) {
		// Broadcast noise before the real answer.
		conn.WriteJSON(map[string]any{"type": "speak", "data": map[string]any{"utterance": "hello"}})
		conn.WriteJSON(map[string]any{"type": "recognizer_loop:audio_output_start", "data": map[string]any{}})
		conn.WriteJSON(map[string]any{
			"type":    TypeIsAwakeAnswer,
			"data":    map[string]any{"awake": true},
			"context": map[string]any{"authenticated": true},
		})
	})

	e := testExchanger(srv, 5*time.Second)

	reply, err := e.Exchange(Message{Type: TypeIsAwake}, TypeIsAwakeAnswer)
	if err != nil {
		t.Fatalf("Exchange() error = %v", err)
	}
	if reply == nil {
		t.Fatal("Exchange() returned nil, want the answer after unrelated traffic")
	}
	if reply.Data["awake"] != true {
		t.Errorf("reply.Data[awake] = %v, want true", reply.Data["awake"])
	}
}

func TestExchange_AuthFailureShortCircuit(t *testing.T) {
	srv := busServer(t, func(conn *websocket.Conn, _ Message) {
		// Unauthenticated rejection with no data: must be returned
		// immediately, not waited out for a better duplicate.
		conn.WriteJSON(map[string]any{
			"type":    TypeInfoAnswer,
			"data":    map[string]any{},
			"context": map[string]any{"authenticated": false},
		})
	})

	e := testExchanger(srv, 5*time.Second)

	start := time.Now()
	reply, err := e.Exchange(Message{Type: TypeInfo}, TypeInfoAnswer)
	if err != nil {
		t.Fatalf("Exchange() error = %v", err)
	}
	if reply == nil {
		t.Fatal("Exchange() returned nil, want the unauthenticated reply")
	}
	if reply.Context.Authenticated {
		t.Error("reply.Context.Authenticated = true, want false")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("auth short-circuit took %v, expected immediate return", elapsed)
	}
}

func TestExchange_EmptyAuthenticatedMatchKeepsWaiting(t *testing.T) {
	srv := busServer(t, func(conn *websocket.Conn, _ Message) {
		// Matching type, empty data, authenticated: not a usable answer.
		conn.WriteJSON(map[string]any{
			"type":    TypeInfoAnswer,
			"data":    map[string]any{},
			"context": map[string]any{"authenticated": true},
		})
		// Hold the connection open until the client gives up.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	e := testExchanger(srv, 300*time.Millisecond)

	reply, err := e.Exchange(Message{Type: TypeInfo}, TypeInfoAnswer)
	if err != nil {
		t.Fatalf("Exchange() error = %v", err)
	}
	if reply != nil {
		t.Errorf("Exchange() reply = %+v, want nil (window expires)", reply)
	}
}

func TestExchange_TimeoutReturnsEmptyAndReleasesConnections(t *testing.T) {
	var opened, closed atomic.Int32

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		opened.Add(1)
		defer func() {
			conn.Close()
			closed.Add(1)
		}()

		// Swallow the outbound message, never answer, wait for the
		// client to hang up.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)

	e := testExchanger(srv, 200*time.Millisecond)

	const rounds = 5
	for i := 0; i < rounds; i++ {
		reply, err := e.Exchange(Message{Type: TypeInfo}, TypeInfoAnswer)
		if err != nil {
			t.Fatalf("round %d: Exchange() error = %v", i, err)
		}
		if reply != nil {
			t.Fatalf("round %d: Exchange() reply = %+v, want nil on timeout", i, reply)
		}
	}

	// Every client-side close shows up as a read error server-side.
	deadline := time.Now().Add(2 * time.Second)
	for closed.Load() < rounds && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if got := closed.Load(); got != rounds {
		t.Errorf("closed connections = %d, want %d (connection leak)", got, rounds)
	}
	if got := opened.Load(); got != rounds {
		t.Errorf("opened connections = %d, want %d", got, rounds)
	}
}

func TestExchange_ConnectFailure(t *testing.T) {
	srv := busServer(t, nil)
	uri := wsURI(srv)
	srv.Close()

	e := NewExchanger(Config{
		URI:            uri,
		ConnectTimeout: time.Second,
		ReceiveTimeout: time.Second,
	}, testLogger())

	_, err := e.Exchange(Message{Type: TypeInfo}, TypeInfoAnswer)
	if !errors.Is(err, ErrConnect) {
		t.Errorf("Exchange() error = %v, want ErrConnect", err)
	}
}

func TestExchange_ReceiveFailurePropagates(t *testing.T) {
	srv := busServer(t, func(conn *websocket.Conn, _ Message) {
		// Abrupt close mid-window: the client sees a transport error,
		// not a timeout.
		conn.Close()
	})

	e := testExchanger(srv, 5*time.Second)

	_, err := e.Exchange(Message{Type: TypeInfo}, TypeInfoAnswer)
	if !errors.Is(err, ErrReceive) {
		t.Errorf("Exchange() error = %v, want ErrReceive", err)
	}
}

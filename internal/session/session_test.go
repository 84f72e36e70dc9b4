package session

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cosmossdk.io/log"
	"github.com/gorilla/websocket"

	"companion/internal/wire"
)

func newTestServer(t *testing.T) (*httptest.Server, func()) {
	t.Helper()
	sess := New(log.NewNopLogger())
	mux := http.NewServeMux()
	mux.HandleFunc("/game", sess.ServeGame)
	srv := httptest.NewServer(mux)
	return srv, func() {
		sess.Stop()
		srv.Close()
	}
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/game"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	return conn
}

func send(t *testing.T, conn *websocket.Conn, action string, payload map[string]any) {
	t.Helper()
	msg := map[string]any{"action": action}
	for k, v := range payload {
		msg[k] = v
	}
	b, err := json.Marshal(msg)
	if err != nil {
		t.Fatal(err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
		t.Fatal(err)
	}
}

func recvAction(t *testing.T, conn *websocket.Conn) (string, map[string]any) {
	t.Helper()
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	return m["action"].(string), m
}

// recvUntil reads messages until it finds one with the wanted action,
// skipping the broadcast hello/update traffic that is not under test.
func recvUntil(t *testing.T, conn *websocket.Conn, want string) map[string]any {
	t.Helper()
	for i := 0; i < 10; i++ {
		action, m := recvAction(t, conn)
		if action == want {
			return m
		}
	}
	t.Fatalf("did not see action %q within 10 messages", want)
	return nil
}

// S1: starting a game seats the first connection; a second connection
// attempting to reuse the same name gets rejected.
func TestStartGameThenDuplicateNameRejected(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()

	a := dial(t, srv)
	defer a.Close()
	send(t, a, wire.ActionStartGame, map[string]any{
		"scenario": "Feast for Umordhoth", "expansions": 0,
		"player_name": "A", "player_colour": "red",
	})
	recvUntil(t, a, wire.ActionAck)

	b := dial(t, srv)
	defer b.Close()
	send(t, b, wire.ActionConnect, map[string]any{"player_name": "A", "player_colour": "blue"})
	msg := recvUntil(t, b, wire.ActionError)
	if msg["message"] == "" {
		t.Fatal("expected a non-empty error message")
	}
}

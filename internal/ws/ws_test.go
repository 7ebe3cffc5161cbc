// internal/ws/ws_test.go
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nebrown-cam/rook-game/internal/auth"
	"github.com/nebrown-cam/rook-game/internal/game"
)

func newTestServer(t *testing.T) (*httptest.Server, *game.Manager) {
	t.Setenv("JWT_SECRET", "ws-test-secret")
	m := game.NewManager()
	s := NewServer(m)

	r := chi.NewRouter()
	r.Post("/session", s.HandleSession)
	r.Get("/ws/create", s.HandleCreate)
	r.Get("/ws/join/{code}", s.HandleJoin)

	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return ts, m
}

func mintSession(t *testing.T, ts *httptest.Server, username string) (playerID, token string) {
	t.Helper()
	body := strings.NewReader(`{"username":"` + username + `"}`)
	resp, err := http.Post(ts.URL+"/session", "application/json", body)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out["playerId"], out["token"]
}

func dial(t *testing.T, ctx context.Context, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "") })
	return conn
}

// readUntil drains frames until one of the wanted type arrives.
func readUntil(t *testing.T, ctx context.Context, conn *websocket.Conn, want game.GameEventType) game.GameEvent {
	t.Helper()
	for {
		var ev game.GameEvent
		require.NoError(t, wsjson.Read(ctx, conn, &ev), "waiting for %s", want)
		if ev.Type == want {
			return ev
		}
	}
}

func TestSessionEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	playerID, token := mintSession(t, ts, "alice")
	gotID, username, err := auth.ParseSessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, playerID, gotID.String())
	assert.Equal(t, "alice", username)

	resp, err := http.Post(ts.URL+"/session", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateRequiresToken(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/ws/create")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/ws/create?token=not-a-token")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCreateJoinAndSync(t *testing.T) {
	ts, m := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, hostToken := mintSession(t, ts, "host")
	hostConn := dial(t, ctx, ts.URL+"/ws/create?token="+hostToken)

	sync := readUntil(t, ctx, hostConn, game.EventPrivateSync)
	require.NotNil(t, sync.State)
	code := sync.State.Code
	assert.Len(t, code, 4)
	assert.Equal(t, 1, m.RoomCount())

	_, joinToken := mintSession(t, ts, "guest")
	guestConn := dial(t, ctx, ts.URL+"/ws/join/"+code+"?token="+joinToken)

	guestSync := readUntil(t, ctx, guestConn, game.EventPrivateSync)
	require.NotNil(t, guestSync.State)
	assert.Equal(t, code, guestSync.State.Code)

	// The host sees the guest arrive.
	joined := readUntil(t, ctx, hostConn, game.EventPlayerJoined)
	require.NotNil(t, joined.Seat)
	assert.Equal(t, "guest", joined.Seat.Username)
}

func TestJoinUnknownRoomCloses(t *testing.T) {
	ts, _ := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, token := mintSession(t, ts, "drifter")
	conn := dial(t, ctx, ts.URL+"/ws/join/ZZZZ?token="+token)

	var ev game.GameEvent
	err := wsjson.Read(ctx, conn, &ev)
	require.Error(t, err)
	assert.Equal(t, websocket.StatusPolicyViolation, websocket.CloseStatus(err))
}

func TestRoomRemovedWhenLastConnectionDrops(t *testing.T) {
	ts, m := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, token := mintSession(t, ts, "loner")
	conn := dial(t, ctx, ts.URL+"/ws/create?token="+token)
	readUntil(t, ctx, conn, game.EventPrivateSync)
	require.Equal(t, 1, m.RoomCount())

	conn.Close(websocket.StatusNormalClosure, "")
	assert.Eventually(t, func() bool { return m.RoomCount() == 0 },
		2*time.Second, 10*time.Millisecond)
}

// internal/ws/ws.go
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/nebrown-cam/rook-game/internal/auth"
	"github.com/nebrown-cam/rook-game/internal/game"
	"github.com/nebrown-cam/rook-game/internal/models"
)

const writeTimeout = 5 * time.Second

// Server bridges WebSocket connections to rooms.
type Server struct {
	Manager *game.Manager
}

// NewServer creates the transport layer over a room manager.
func NewServer(m *game.Manager) *Server {
	return &Server{Manager: m}
}

// HandleSession mints a session token for a username. Clients call this
// once, then present the token when opening the WebSocket.
func (s *Server) HandleSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" {
		http.Error(w, "username required", http.StatusBadRequest)
		return
	}

	playerID := uuid.New()
	token, err := auth.CreateSessionToken(playerID, req.Username)
	if err != nil {
		logrus.Errorf("session token for %q: %v", req.Username, err)
		http.Error(w, "cannot create session", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"playerId": playerID.String(),
		"token":    token,
	})
}

// HandleCreate opens a new room and connects the creator as host.
func (s *Server) HandleCreate(w http.ResponseWriter, r *http.Request) {
	player, conn, ok := s.acceptPlayer(w, r)
	if !ok {
		return
	}

	g, err := s.Manager.CreateRoom(player)
	if err != nil {
		logrus.Errorf("create room for %s: %v", player.ID, err)
		conn.Close(websocket.StatusPolicyViolation, err.Error())
		return
	}
	s.attachBroadcasters(g)

	g.Mu.Lock()
	g.HandlePlayerAction(player.ID, models.GameAction{ActionType: "action_sync"})
	g.Mu.Unlock()

	s.readLoop(r.Context(), g, player, conn)
}

// HandleJoin connects a player to an existing room by code.
// The code comes from the URL path, e.g. /ws/join/ABCD.
func (s *Server) HandleJoin(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	player, conn, ok := s.acceptPlayer(w, r)
	if !ok {
		return
	}

	g, err := s.Manager.JoinRoom(code, player)
	if err != nil {
		logrus.Infof("join %s for %s refused: %v", code, player.ID, err)
		conn.Close(websocket.StatusPolicyViolation, err.Error())
		return
	}
	s.attachBroadcasters(g)

	g.Mu.Lock()
	g.HandlePlayerAction(player.ID, models.GameAction{ActionType: "action_sync"})
	g.Mu.Unlock()

	s.readLoop(r.Context(), g, player, conn)
}

// acceptPlayer upgrades the connection and authenticates the token from
// the query string.
func (s *Server) acceptPlayer(w http.ResponseWriter, r *http.Request) (*models.Player, *websocket.Conn, bool) {
	playerID, username, err := auth.ParseSessionToken(r.URL.Query().Get("token"))
	if err != nil {
		http.Error(w, "invalid session token", http.StatusUnauthorized)
		return nil, nil, false
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // game clients are cross-origin
	})
	if err != nil {
		logrus.Errorf("websocket accept: %v", err)
		return nil, nil, false
	}

	player := &models.Player{
		ID:        playerID,
		User:      &models.User{ID: playerID, Username: username},
		Seat:      -1,
		Connected: true,
		Conn:      conn,
	}
	return player, conn, true
}

// attachBroadcasters wires the room's event callbacks to WebSocket
// writes. Idempotent; reconnects reuse the existing callbacks.
func (s *Server) attachBroadcasters(g *game.RookGame) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if g.BroadcastFn != nil {
		return
	}

	g.BroadcastFn = func(ev game.GameEvent) {
		for _, p := range g.Players {
			if p.Connected && p.Conn != nil {
				writeEvent(p.Conn, ev)
			}
		}
	}
	g.BroadcastToPlayerFn = func(playerID uuid.UUID, ev game.GameEvent) {
		for _, p := range g.Players {
			if p.ID == playerID && p.Connected && p.Conn != nil {
				writeEvent(p.Conn, ev)
				return
			}
		}
	}
	g.OnGameEnd = func(code string, winnerTeam int8, scores [2]int16) {
		logrus.Infof("room %s finished: team %d wins %v", code, winnerTeam, scores)
	}
}

// writeEvent sends one event with a bounded write deadline.
func writeEvent(conn *websocket.Conn, ev game.GameEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := wsjson.Write(ctx, conn, ev); err != nil {
		logrus.Debugf("websocket write (%s): %v", ev.Type, err)
	}
}

// readLoop decodes client intents until the connection drops, then
// reports the disconnect to the manager.
func (s *Server) readLoop(ctx context.Context, g *game.RookGame, player *models.Player, conn *websocket.Conn) {
	defer s.Manager.HandleDisconnect(g.Code, player.ID)

	for {
		var action models.GameAction
		if err := wsjson.Read(ctx, conn, &action); err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway || errors.Is(err, context.Canceled) {
				logrus.Debugf("room %s: %s closed connection", g.Code, player.ID)
			} else {
				logrus.Infof("room %s: read from %s failed: %v", g.Code, player.ID, err)
			}
			return
		}

		g.Mu.Lock()
		g.HandlePlayerAction(player.ID, action)
		g.Mu.Unlock()
	}
}

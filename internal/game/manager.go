// internal/game/manager.go
package game

import (
	"crypto/rand"
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/nebrown-cam/rook-game/internal/models"
)

// ErrRoomNotFound is returned for join attempts against unknown codes.
var ErrRoomNotFound = errors.New("room not found")

const (
	roomCodeLength  = 4
	roomCodeLetters = "ABCDEFGHJKLMNPQRSTUVWXYZ" // no I or O, they read like digits
)

// Manager owns every live room, keyed by join code.
type Manager struct {
	mu    sync.Mutex
	rooms map[string]*RookGame
}

// NewManager creates an empty room registry.
func NewManager() *Manager {
	return &Manager{rooms: make(map[string]*RookGame)}
}

// CreateRoom opens a new room with a fresh join code and seats the
// creator as host.
func (m *Manager) CreateRoom(host *models.Player) (*RookGame, error) {
	m.mu.Lock()
	code := m.newCode()
	g := NewRookGame(code)
	m.rooms[code] = g
	m.mu.Unlock()

	g.Mu.Lock()
	err := g.AddPlayer(host)
	g.Mu.Unlock()
	if err != nil {
		m.RemoveRoom(code)
		return nil, err
	}
	log.Printf("Manager: room %s created by %s.", code, host.ID)
	return g, nil
}

// GetRoom looks up a room by its join code. Codes are case-insensitive.
func (m *Manager) GetRoom(code string) (*RookGame, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.rooms[strings.ToUpper(code)]
	return g, ok
}

// JoinRoom adds a player to an existing room.
func (m *Manager) JoinRoom(code string, p *models.Player) (*RookGame, error) {
	g, ok := m.GetRoom(code)
	if !ok {
		return nil, ErrRoomNotFound
	}
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if err := g.AddPlayer(p); err != nil {
		return nil, err
	}
	return g, nil
}

// HandleDisconnect marks the player gone and removes the room once the
// last connection drops.
func (m *Manager) HandleDisconnect(code string, playerID uuid.UUID) {
	g, ok := m.GetRoom(code)
	if !ok {
		return
	}
	g.Mu.Lock()
	g.HandleDisconnect(playerID)
	empty := g.countConnectedPlayers() == 0
	g.Mu.Unlock()

	if empty {
		m.RemoveRoom(code)
	}
}

// RemoveRoom tears down a room's timers and forgets it.
func (m *Manager) RemoveRoom(code string) {
	m.mu.Lock()
	g, ok := m.rooms[code]
	delete(m.rooms, code)
	m.mu.Unlock()
	if !ok {
		return
	}
	g.Mu.Lock()
	g.Teardown()
	g.Mu.Unlock()
	log.Printf("Manager: room %s removed.", code)
}

// RoomCount reports the number of live rooms.
func (m *Manager) RoomCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rooms)
}

// newCode generates an unused join code. Caller holds m.mu.
func (m *Manager) newCode() string {
	buf := make([]byte, roomCodeLength)
	for {
		if _, err := rand.Read(buf); err != nil {
			panic(err)
		}
		code := make([]byte, roomCodeLength)
		for i, b := range buf {
			code[i] = roomCodeLetters[int(b)%len(roomCodeLetters)]
		}
		s := string(code)
		if _, taken := m.rooms[s]; !taken {
			return s
		}
	}
}

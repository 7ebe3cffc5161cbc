// internal/models/models.go
package models

import (
	"github.com/coder/websocket"
	"github.com/google/uuid"
)

// User holds identity information for a connected account.
type User struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

// Player represents one participant in a room. Seat is -1 until the host
// starts the game and seats are assigned.
type Player struct {
	ID        uuid.UUID       `json:"id"`
	User      *User           `json:"user"`
	Seat      int8            `json:"seat"`
	Connected bool            `json:"connected"`
	Conn      *websocket.Conn `json:"-"`
}

// GameAction is the decoded form of a client intent received over the
// WebSocket connection.
type GameAction struct {
	ActionType string                 `json:"action"`
	Payload    map[string]interface{} `json:"payload,omitempty"`
}

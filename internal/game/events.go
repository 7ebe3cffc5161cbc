// internal/game/events.go
package game

import (
	"github.com/google/uuid"
	"github.com/nebrown-cam/rook-game/engine"
)

// GameEventType represents the type of a game-related event broadcast via WebSockets.
type GameEventType string

// Constants defining the various GameEvent types used for WebSocket communication.
const (
	EventRoomState       GameEventType = "room_state"       // Public: lobby roster and host/partner selections.
	EventPlayerJoined    GameEventType = "player_joined"    // Public: a player entered the room.
	EventPlayerLeft      GameEventType = "player_left"      // Public: a player disconnected from the room.
	EventPartnerSelected GameEventType = "partner_selected" // Public: the host chose a partner.
	EventGameStarted     GameEventType = "game_started"     // Public: seats assigned, first round dealt.
	EventRoundDealt      GameEventType = "round_dealt"      // Public: new round started (hand details go privately).
	EventPrivateHand     GameEventType = "private_hand"     // Private: the receiving seat's cards.
	EventBidTurn         GameEventType = "bid_turn"         // Public: whose bid it is, with their legal amounts.
	EventBidPlaced       GameEventType = "bid_placed"       // Public: a seat raised the bid.
	EventBidPassed       GameEventType = "bid_passed"       // Public: a seat passed out of the auction.
	EventBiddingResolved GameEventType = "bidding_resolved" // Public: auction winner and contract amount.
	EventNestAwarded     GameEventType = "nest_awarded"     // Private: nest cards revealed to the auction winner.
	EventTrumpChosen     GameEventType = "trump_chosen"     // Public: declarer fixed the trump color.
	EventDiscardResolved GameEventType = "discard_resolved" // Public: declarer buried the nest, play begins.
	EventTrickTurn       GameEventType = "trick_turn"       // Public: whose play it is.
	EventCardPlayed      GameEventType = "card_played"      // Public: a card hit the table.
	EventTrickResolved   GameEventType = "trick_resolved"   // Public: trick winner and captured counters.
	EventAutoPlayStarted GameEventType = "autoplay_started" // Public: remaining tricks are forced and will run out.
	EventRoundResolved   GameEventType = "round_resolved"   // Public: contract outcome and updated scores.
	EventGameOver        GameEventType = "game_over"        // Public: a team reached the winning score.
	EventGameRestarted   GameEventType = "game_restarted"   // Public: host started a rematch.
	EventActionRejected  GameEventType = "action_rejected"  // Private: the sender's intent was refused.
	EventPrivateSync     GameEventType = "private_sync"     // Private: full state snapshot for one seat.
)

// EventSeat identifies a seat and its occupant within a GameEvent payload.
type EventSeat struct {
	Seat     uint8     `json:"seat"`
	PlayerID uuid.UUID `json:"playerId,omitempty"`
	Username string    `json:"username,omitempty"`
}

// EventCard carries a card identity within a GameEvent payload.
type EventCard struct {
	ID     string `json:"id"` // e.g. "Green05", "ROOK"
	Color  string `json:"color,omitempty"`
	Number uint8  `json:"number,omitempty"`
	Points int16  `json:"points"`
}

// GameEvent is the standard structure for broadcasting game state changes and actions.
type GameEvent struct {
	Type GameEventType `json:"type"`
	Seat *EventSeat    `json:"seat,omitempty"` // The seat initiating or targeted by the event.
	Card *EventCard    `json:"card,omitempty"` // Primary card involved.

	Payload map[string]interface{} `json:"payload,omitempty"` // Additional arbitrary data.

	State *ObfGameState `json:"state,omitempty"` // Full obfuscated state for sync events.
}

// cardEvent builds the payload form of a card.
func cardEvent(c engine.Card) *EventCard {
	if c == engine.NoCard {
		return nil
	}
	ev := &EventCard{
		ID:     c.ID(),
		Color:  engine.ColorName(c.Color()),
		Points: c.Points(),
	}
	if !c.IsRook() {
		ev.Number = c.Number()
	}
	return ev
}

// cardEvents maps a slice of cards to their payload form.
func cardEvents(cards []engine.Card) []*EventCard {
	out := make([]*EventCard, 0, len(cards))
	for _, c := range cards {
		out = append(out, cardEvent(c))
	}
	return out
}

// internal/game/sync_state.go
package game

import (
	"github.com/google/uuid"

	"github.com/nebrown-cam/rook-game/engine"
)

// ObfSeatState represents one seat, obfuscated for a specific observer.
// Only the observer's own hand is revealed; everyone else shows a count.
type ObfSeatState struct {
	Seat          uint8     `json:"seat"`
	PlayerID      uuid.UUID `json:"playerId"`
	Username      string    `json:"username"`
	HandSize      int       `json:"handSize"`
	Connected     bool      `json:"connected"`
	IsCurrentTurn bool      `json:"isCurrentTurn"`
	HasPassed     bool      `json:"hasPassed"`
	TrickPoints   int16     `json:"trickPoints"`
	// Hand is populated only for the observer's own seat.
	Hand []*EventCard `json:"hand,omitempty"`
}

// ObfTrickCard is one card on the table in the open trick.
type ObfTrickCard struct {
	Seat uint8      `json:"seat"`
	Card *EventCard `json:"card"`
}

// ObfGameState is a full table snapshot tailored to one observer. Sent on
// reconnect and on explicit sync requests.
type ObfGameState struct {
	GameID   uuid.UUID `json:"gameId"`
	Code     string    `json:"code"`
	Started  bool      `json:"started"`
	GameOver bool      `json:"gameOver"`

	Phase  string                 `json:"phase"`
	Dealer uint8                  `json:"dealer"`
	Scores [engine.NumTeams]int16 `json:"scores"`

	// Auction.
	BidTurn    uint8   `json:"bidTurn"`
	CurrentBid int16   `json:"currentBid"`
	HighBidder int8    `json:"highBidder"`
	BidOptions []int16 `json:"bidOptions,omitempty"` // only for the observer on their bid turn

	// Exchange and play.
	Trump          string         `json:"trump,omitempty"`
	DeclarerSeat   int8           `json:"declarerSeat"`
	NestSize       int            `json:"nestSize"`
	FaceUpNestCard *EventCard     `json:"faceUpNestCard,omitempty"`
	Trick          []ObfTrickCard `json:"trick,omitempty"`
	TrickLeader    uint8          `json:"trickLeader"`
	CurrentSeat    uint8          `json:"currentSeat"`
	TricksPlayed   uint8          `json:"tricksPlayed"`

	Seats      [engine.NumSeats]ObfSeatState `json:"seats"`
	WinnerTeam int8                          `json:"winnerTeam"`
}

// GetObfuscatedState generates a snapshot of the table tailored to the
// perspective of the requesting player. Assumes lock is HELD by caller.
func (g *RookGame) GetObfuscatedState(forPlayer uuid.UUID) ObfGameState {
	e := &g.Engine
	r := &e.Round

	obf := ObfGameState{
		GameID:       g.ID,
		Code:         g.Code,
		Started:      g.Started,
		GameOver:     g.GameOver,
		Phase:        e.Phase.String(),
		Dealer:       e.Dealer,
		Scores:       e.Scores,
		BidTurn:      r.Bid.Turn,
		CurrentBid:   r.Bid.Amount,
		HighBidder:   r.Bid.HighBidder,
		DeclarerSeat: e.BidWinner(),
		NestSize:     int(r.NestLen),
		TrickLeader:  r.Leader,
		CurrentSeat:  r.Current,
		TricksPlayed: r.TricksPlayed,
		WinnerTeam:   e.Winner,
	}

	if r.TrumpSet {
		obf.Trump = engine.ColorName(r.Trump)
	}
	if face := e.FaceUpNestCard(); face != engine.NoCard {
		obf.FaceUpNestCard = cardEvent(face)
	}
	for i := uint8(0); i < r.TrickLen; i++ {
		obf.Trick = append(obf.Trick, ObfTrickCard{
			Seat: r.Trick[i].Seat,
			Card: cardEvent(r.Trick[i].Card),
		})
	}

	observerSeat, hasSeat := g.seatOf[forPlayer]
	if hasSeat && e.Phase == engine.PhaseBidding && r.Bid.Turn == observerSeat {
		obf.BidOptions = e.Rules.BidOptions(r.Bid.Amount)
	}

	for s := uint8(0); s < engine.NumSeats; s++ {
		ss := ObfSeatState{
			Seat:        s,
			HandSize:    int(r.Hands[s].Len),
			HasPassed:   r.Bid.Passed[s],
			TrickPoints: r.SeatPoints[s],
		}
		if p := g.getPlayerByID(g.seats[s]); p != nil {
			ss.PlayerID = p.ID
			ss.Username = p.User.Username
			ss.Connected = p.Connected
		}
		if e.Phase == engine.PhaseBidding {
			ss.IsCurrentTurn = r.Bid.Turn == s
		} else if e.Phase == engine.PhasePlaying {
			ss.IsCurrentTurn = r.Current == s && !r.TrickDone
		}
		if hasSeat && s == observerSeat {
			ss.Hand = cardEvents(r.Hands[s].Slice())
		}
		obf.Seats[s] = ss
	}

	return obf
}

// sendSyncState sends the current obfuscated game state to a single player.
// Assumes lock is held by caller.
func (g *RookGame) sendSyncState(playerID uuid.UUID) {
	state := g.GetObfuscatedState(playerID)
	g.fireEventToPlayer(playerID, GameEvent{
		Type:  EventPrivateSync,
		State: &state,
	})
}

// broadcastSyncStateToAll sends a tailored snapshot to every connected player.
// Assumes lock is held by caller.
func (g *RookGame) broadcastSyncStateToAll() {
	for _, p := range g.Players {
		if p.Connected {
			g.sendSyncState(p.ID)
		}
	}
}

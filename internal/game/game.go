// internal/game/game.go
package game

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nebrown-cam/rook-game/engine"
	"github.com/nebrown-cam/rook-game/internal/cache"
	"github.com/nebrown-cam/rook-game/internal/database"
	"github.com/nebrown-cam/rook-game/internal/models"
)

// Room-level errors surfaced to clients before a game starts.
var (
	ErrRoomFull        = errors.New("room is full")
	ErrGameStarted     = errors.New("game already in progress")
	ErrNotHost         = errors.New("only the host may do that")
	ErrNeedFourPlayers = errors.New("four players are required to start")
	ErrUnknownPlayer   = errors.New("player is not in this room")
	ErrBadPayload      = errors.New("malformed action payload")
)

// Pacing for the automatic transitions between engine states. The sealed
// trick stays on the table before it is cleared, a finished round stays on
// screen before the next deal, and the forced endgame plays itself out one
// card at a time.
const (
	defaultTrickPause    = 2 * time.Second
	defaultRoundPause    = 5 * time.Second
	defaultAutoPlayDelay = time.Second
	defaultAutoPlayStep  = 500 * time.Millisecond
)

// OnGameEndFunc is executed when a game finishes. It receives the room
// code, the winning team, and the final team scores.
type OnGameEndFunc func(code string, winnerTeam int8, scores [engine.NumTeams]int16)

// RookGame represents one table: the lobby roster, the authoritative
// engine state, and the timers that pace play.
type RookGame struct {
	ID   uuid.UUID // Unique identifier for this game instance.
	Code string    // Join code players use to find the room.

	Players   []*models.Player // Roster in join order.
	HostID    uuid.UUID        // Player who created the room.
	PartnerID uuid.UUID        // Host's chosen partner; Nil until selected.

	Engine engine.GameState           // The authoritative game state.
	seats  [engine.NumSeats]uuid.UUID // Seat index -> player.
	seatOf map[uuid.UUID]uint8        // Player -> seat index.

	Started  bool // Seats assigned and first round dealt.
	GameOver bool
	closed   bool // Teardown ran; stranded timer callbacks must not act.

	// Pacing knobs, overridable in tests.
	TrickPause    time.Duration
	RoundPause    time.Duration
	AutoPlayDelay time.Duration
	AutoPlayStep  time.Duration

	trickTimer     *time.Timer
	roundTimer     *time.Timer
	autoplayTimer  *time.Timer
	autoplayActive bool

	actionIndex int
	lastSeen    map[uuid.UUID]time.Time
	Mu          sync.Mutex // Mutex protecting concurrent access to game state.

	BroadcastFn         func(ev GameEvent)                     // Sends an event to all connected players.
	BroadcastToPlayerFn func(playerID uuid.UUID, ev GameEvent) // Sends an event to a single player.
	OnGameEnd           OnGameEndFunc                          // Callback executed when the game finishes.
}

// NewRookGame creates a room with the given join code and default pacing.
func NewRookGame(code string) *RookGame {
	return &RookGame{
		ID:            uuid.New(),
		Code:          code,
		seatOf:        make(map[uuid.UUID]uint8),
		lastSeen:      make(map[uuid.UUID]time.Time),
		TrickPause:    defaultTrickPause,
		RoundPause:    defaultRoundPause,
		AutoPlayDelay: defaultAutoPlayDelay,
		AutoPlayStep:  defaultAutoPlayStep,
	}
}

// AddPlayer adds a player to the room if there is space, or marks them as
// reconnected. The first player to join becomes the host.
// Assumes lock is held by caller.
func (g *RookGame) AddPlayer(p *models.Player) error {
	for i, pl := range g.Players {
		if pl.ID == p.ID {
			// Player reconnecting.
			g.Players[i].Conn = p.Conn
			g.Players[i].Connected = true
			g.Players[i].User = p.User
			g.lastSeen[p.ID] = time.Now()
			log.Printf("Room %s: player %s (%s) reconnected.", g.Code, p.ID, p.User.Username)
			g.logAction(p.ID, "player_reconnect", map[string]interface{}{"username": p.User.Username})
			g.broadcastRoomState()
			if g.Started {
				g.sendSyncState(p.ID)
			}
			return nil
		}
	}

	if g.Started {
		return ErrGameStarted
	}
	if len(g.Players) >= engine.NumSeats {
		return ErrRoomFull
	}

	p.Seat = -1
	g.Players = append(g.Players, p)
	g.lastSeen[p.ID] = time.Now()
	if len(g.Players) == 1 {
		g.HostID = p.ID
	}
	log.Printf("Room %s: player %s (%s) joined (%d/%d).", g.Code, p.ID, p.User.Username, len(g.Players), engine.NumSeats)
	g.logAction(p.ID, "player_join", map[string]interface{}{"username": p.User.Username})

	g.fireEvent(GameEvent{
		Type: EventPlayerJoined,
		Seat: &EventSeat{PlayerID: p.ID, Username: p.User.Username},
	})
	g.broadcastRoomState()
	return nil
}

// SelectPartner records the host's partner choice. Partners sit across
// from each other once the game starts.
// Assumes lock is held by caller.
func (g *RookGame) SelectPartner(hostID, partnerID uuid.UUID) error {
	if g.Started {
		return ErrGameStarted
	}
	if hostID != g.HostID {
		return ErrNotHost
	}
	if partnerID == hostID || g.getPlayerByID(partnerID) == nil {
		return ErrUnknownPlayer
	}
	g.PartnerID = partnerID
	g.logAction(hostID, "partner_select", map[string]interface{}{"partner": partnerID.String()})
	g.fireEvent(GameEvent{
		Type: EventPartnerSelected,
		Seat: &EventSeat{PlayerID: partnerID},
	})
	g.broadcastRoomState()
	return nil
}

// StartGame assigns seats and deals the first round. Host and partner
// take seats 0 and 2; the remaining players fill 1 and 3 in join order.
// Assumes lock is held by caller.
func (g *RookGame) StartGame(hostID uuid.UUID) error {
	if g.Started {
		return ErrGameStarted
	}
	if hostID != g.HostID {
		return ErrNotHost
	}
	if len(g.Players) != engine.NumSeats {
		return ErrNeedFourPlayers
	}

	// Default the partner to the second joiner when the host never chose.
	if g.PartnerID == uuid.Nil {
		g.PartnerID = g.Players[1].ID
	}

	g.assignSeats()
	g.Started = true

	seed := uint64(time.Now().UnixNano())
	g.Engine = engine.NewGame(seed, engine.DefaultRules())
	g.Engine.DealRound()
	log.Printf("Room %s: game started, seed %d.", g.Code, seed)
	g.logAction(hostID, "game_start", map[string]interface{}{"seed": fmt.Sprintf("%d", seed)})

	g.fireEvent(GameEvent{Type: EventGameStarted, Payload: g.seatingPayload()})
	g.beginRound()
	return nil
}

// assignSeats maps players to engine seats: host 0, partner 2, the rest
// 1 and 3 in join order. Assumes lock is held by caller.
func (g *RookGame) assignSeats() {
	rest := []uint8{1, 3}
	for _, p := range g.Players {
		var seat uint8
		switch p.ID {
		case g.HostID:
			seat = 0
		case g.PartnerID:
			seat = 2
		default:
			seat = rest[0]
			rest = rest[1:]
		}
		p.Seat = int8(seat)
		g.seats[seat] = p.ID
		g.seatOf[p.ID] = seat
	}
}

// seatingPayload describes the seat assignment for broadcast.
// Assumes lock is held by caller.
func (g *RookGame) seatingPayload() map[string]interface{} {
	seating := make([]EventSeat, 0, engine.NumSeats)
	for s := uint8(0); s < engine.NumSeats; s++ {
		if p := g.getPlayerByID(g.seats[s]); p != nil {
			seating = append(seating, EventSeat{Seat: s, PlayerID: p.ID, Username: p.User.Username})
		}
	}
	return map[string]interface{}{"seats": seating}
}

// beginRound announces a fresh deal: public round info, each seat's hand
// privately, and the opening bid turn. Assumes lock is held by caller.
func (g *RookGame) beginRound() {
	e := &g.Engine
	g.persistInitialRoundState()

	payload := map[string]interface{}{
		"dealer":   e.Dealer,
		"scores":   e.Scores,
		"nestSize": e.Round.NestLen,
		"bidOpens": e.Round.Bid.Turn,
	}
	if face := e.FaceUpNestCard(); face != engine.NoCard {
		payload["faceUpNestCard"] = cardEvent(face)
	}
	g.fireEvent(GameEvent{Type: EventRoundDealt, Payload: payload})

	for s := uint8(0); s < engine.NumSeats; s++ {
		g.sendHand(s)
	}
	g.broadcastBidTurn()
}

// sendHand privately sends a seat its current cards.
// Assumes lock is held by caller.
func (g *RookGame) sendHand(seat uint8) {
	pid := g.seats[seat]
	if pid == uuid.Nil {
		return
	}
	g.fireEventToPlayer(pid, GameEvent{
		Type: EventPrivateHand,
		Seat: &EventSeat{Seat: seat},
		Payload: map[string]interface{}{
			"cards": cardEvents(g.Engine.Round.Hands[seat].Slice()),
		},
	})
}

// broadcastBidTurn announces whose bid it is along with their legal
// amounts, so clients can render the bid picker without recomputing
// rules. Assumes lock is held by caller.
func (g *RookGame) broadcastBidTurn() {
	bid := &g.Engine.Round.Bid
	g.fireEvent(GameEvent{
		Type: EventBidTurn,
		Seat: g.eventSeat(bid.Turn),
		Payload: map[string]interface{}{
			"currentBid": bid.Amount,
			"options":    g.Engine.Rules.BidOptions(bid.Amount),
		},
	})
}

// HandlePlayerAction routes an incoming intent from a player. Rejections
// go back to the sender only; successful actions broadcast their effects.
// Assumes lock is held by the caller.
func (g *RookGame) HandlePlayerAction(playerID uuid.UUID, action models.GameAction) {
	player := g.getPlayerByID(playerID)
	if player == nil {
		log.Printf("Room %s: action %s from unknown player %s ignored.", g.Code, action.ActionType, playerID)
		return
	}
	g.lastSeen[playerID] = time.Now()

	// Room-scoped actions work before seats exist.
	switch action.ActionType {
	case "action_select_partner":
		target, err := payloadUUID(action.Payload, "playerId")
		if err == nil {
			err = g.SelectPartner(playerID, target)
		}
		if err != nil {
			g.rejectAction(playerID, action.ActionType, err)
		}
		return
	case "action_start_game":
		if err := g.StartGame(playerID); err != nil {
			g.rejectAction(playerID, action.ActionType, err)
		}
		return
	case "action_restart":
		if err := g.RestartGame(playerID); err != nil {
			g.rejectAction(playerID, action.ActionType, err)
		}
		return
	case "action_sync":
		g.sendSyncState(playerID)
		return
	}

	if !g.Started || g.GameOver {
		g.rejectAction(playerID, action.ActionType, ErrGameStarted)
		return
	}
	seat, ok := g.seatOf[playerID]
	if !ok {
		g.rejectAction(playerID, action.ActionType, ErrUnknownPlayer)
		return
	}
	if g.autoplayActive {
		g.rejectAction(playerID, action.ActionType, fmt.Errorf("%w: playout in progress", engine.ErrWrongPhase))
		return
	}

	var err error
	switch action.ActionType {
	case "action_bid":
		var amount int16
		amount, err = payloadInt16(action.Payload, "amount")
		if err == nil {
			err = g.Engine.PlaceBid(seat, amount)
		}
		if err == nil {
			g.afterBidAction(seat, EventBidPlaced, amount)
		}
	case "action_pass":
		err = g.Engine.PassBid(seat)
		if err == nil {
			g.afterBidAction(seat, EventBidPassed, 0)
		}
	case "action_select_trump":
		var color uint8
		color, err = payloadColor(action.Payload, "color")
		if err == nil {
			err = g.Engine.SelectTrump(seat, color)
		}
		if err == nil {
			g.logAction(playerID, "trump_chosen", map[string]interface{}{"color": engine.ColorName(color)})
			g.fireEvent(GameEvent{
				Type:    EventTrumpChosen,
				Seat:    g.eventSeat(seat),
				Payload: map[string]interface{}{"color": engine.ColorName(color)},
			})
		}
	case "action_discard_nest":
		var cards []engine.Card
		cards, err = payloadCards(action.Payload, "cards")
		if err == nil {
			err = g.Engine.DiscardNest(seat, cards)
		}
		if err == nil {
			g.onDiscardResolved(seat)
		}
	case "action_play_card":
		var card engine.Card
		card, err = payloadCard(action.Payload, "card")
		if err == nil {
			err = g.Engine.PlayCard(seat, card)
		}
		if errors.Is(err, engine.ErrAlreadyPlayed) {
			// Duplicate delivery of the same intent, drop it.
			return
		}
		if err == nil {
			g.onCardPlayed(seat, card)
		}
	default:
		err = fmt.Errorf("%w: unknown action %q", ErrBadPayload, action.ActionType)
	}

	if err != nil {
		g.rejectAction(playerID, action.ActionType, err)
	}
}

// afterBidAction broadcasts the bid or pass and either the resolution or
// the next bid turn. Assumes lock is held by caller.
func (g *RookGame) afterBidAction(seat uint8, evType GameEventType, amount int16) {
	pid := g.seats[seat]
	payload := map[string]interface{}{}
	if evType == EventBidPlaced {
		payload["amount"] = amount
	}
	g.logAction(pid, string(evType), payload)
	g.fireEvent(GameEvent{Type: evType, Seat: g.eventSeat(seat), Payload: payload})

	if g.Engine.Round.Bid.Resolved {
		g.onBiddingResolved()
		return
	}
	g.broadcastBidTurn()
}

// onBiddingResolved announces the auction outcome and privately reveals
// the nest to the winner. Assumes lock is held by caller.
func (g *RookGame) onBiddingResolved() {
	bid := g.Engine.Round.Bid
	winner := g.Engine.Declarer()

	g.logAction(g.seats[winner], "bidding_resolved", map[string]interface{}{
		"amount": bid.Amount,
		"forced": bid.Forced,
	})
	g.fireEvent(GameEvent{
		Type: EventBiddingResolved,
		Seat: g.eventSeat(winner),
		Payload: map[string]interface{}{
			"amount": bid.Amount,
			"forced": bid.Forced,
		},
	})

	// The winner sees the nest cards and their merged hand.
	g.fireEventToPlayer(g.seats[winner], GameEvent{
		Type: EventNestAwarded,
		Seat: &EventSeat{Seat: winner},
		Payload: map[string]interface{}{
			"nest": cardEvents(g.Engine.NestCards()),
		},
	})
	g.sendHand(winner)
}

// onDiscardResolved announces the start of trick play. The discarded
// cards stay hidden from everyone. Assumes lock is held by caller.
func (g *RookGame) onDiscardResolved(seat uint8) {
	g.logAction(g.seats[seat], "discard_resolved", nil)
	g.sendHand(seat)
	g.fireEvent(GameEvent{
		Type:    EventDiscardResolved,
		Seat:    g.eventSeat(seat),
		Payload: map[string]interface{}{"trump": engine.ColorName(g.Engine.Round.Trump)},
	})
	g.broadcastTrickTurn()
}

// onCardPlayed broadcasts the play and, when the trick is sealed,
// schedules its resolution pause. Assumes lock is held by caller.
func (g *RookGame) onCardPlayed(seat uint8, card engine.Card) {
	g.logAction(g.seats[seat], "card_played", map[string]interface{}{"card": card.ID()})
	g.fireEvent(GameEvent{Type: EventCardPlayed, Seat: g.eventSeat(seat), Card: cardEvent(card)})

	if g.Engine.Round.TrickDone {
		g.onTrickSealed(g.TrickPause)
		return
	}
	g.broadcastTrickTurn()
}

// onTrickSealed announces the trick outcome and schedules the advance
// after the display pause. Assumes lock is held by caller.
func (g *RookGame) onTrickSealed(pause time.Duration) {
	lt := g.Engine.Round.LastTrick
	g.fireEvent(GameEvent{
		Type: EventTrickResolved,
		Seat: g.eventSeat(lt.Winner),
		Payload: map[string]interface{}{
			"points":     lt.Points,
			"trick":      lt.Number,
			"isLast":     lt.IsLast,
			"team":       lt.Team,
			"seatPoints": g.Engine.Round.SeatPoints,
		},
	})

	g.stopTimer(&g.trickTimer)
	g.trickTimer = time.AfterFunc(pause, func() {
		g.Mu.Lock()
		defer g.Mu.Unlock()
		g.advanceAfterTrick()
	})
}

// advanceAfterTrick clears the sealed trick or, after the last trick,
// moves to round resolution. Assumes lock is held by caller.
func (g *RookGame) advanceAfterTrick() {
	if g.closed || g.GameOver {
		return
	}
	if g.Engine.Phase == engine.PhasePlaying {
		if err := g.Engine.BeginNextTrick(); err != nil {
			log.Printf("Room %s: clearing trick: %v", g.Code, err)
			return
		}
		if g.autoplayActive {
			g.scheduleAutoPlayStep()
			return
		}
		g.broadcastTrickTurn()
		return
	}
	g.onRoundResolved()
}

// broadcastTrickTurn announces whose play it is, then arms the forced
// playout when the position is mechanical. Assumes lock is held by caller.
func (g *RookGame) broadcastTrickTurn() {
	g.fireEvent(GameEvent{Type: EventTrickTurn, Seat: g.eventSeat(g.Engine.Round.Current)})

	if !g.autoplayActive && g.Engine.AutoPlayEligible() {
		g.startAutoPlay()
	}
}

// onRoundResolved announces the contract outcome, then either finishes
// the game or schedules the next deal. Assumes lock is held by caller.
func (g *RookGame) onRoundResolved() {
	res := g.Engine.LastRound
	g.autoplayActive = false

	g.logAction(uuid.Nil, "round_resolved", map[string]interface{}{
		"made":   res.MadeContract,
		"bid":    res.Bid,
		"points": res.TeamPoints,
	})
	g.fireEvent(GameEvent{
		Type: EventRoundResolved,
		Payload: map[string]interface{}{
			"teamPoints":   res.TeamPoints,
			"declarerTeam": res.DeclarerTeam,
			"bid":          res.Bid,
			"made":         res.MadeContract,
			"scores":       res.Scores,
			"seatPoints":   g.Engine.Round.SeatPoints,
		},
	})

	if g.Engine.Phase == engine.PhaseGameOver {
		g.EndGame()
		return
	}

	g.stopTimer(&g.roundTimer)
	g.roundTimer = time.AfterFunc(g.RoundPause, func() {
		g.Mu.Lock()
		defer g.Mu.Unlock()
		if g.closed || g.GameOver {
			return
		}
		if err := g.Engine.NextRound(); err != nil {
			log.Printf("Room %s: dealing next round: %v", g.Code, err)
			return
		}
		g.beginRound()
	})
}

// EndGame finalizes the game: stops timers, persists the result,
// broadcasts the winner, and triggers the OnGameEnd callback.
// Assumes lock is held by caller.
func (g *RookGame) EndGame() {
	if g.GameOver {
		return
	}
	g.GameOver = true
	g.stopTimers()

	winner := g.Engine.Winner
	scores := g.Engine.Scores
	log.Printf("Room %s: game over, team %d wins %v.", g.Code, winner, scores)
	g.logAction(uuid.Nil, string(EventGameOver), map[string]interface{}{
		"winnerTeam": winner,
		"scores":     scores,
	})
	g.persistFinalGameState()

	g.fireEvent(GameEvent{
		Type: EventGameOver,
		Payload: map[string]interface{}{
			"winnerTeam": winner,
			"scores":     scores,
		},
	})

	if g.OnGameEnd != nil {
		g.OnGameEnd(g.Code, winner, scores)
	}
}

// RestartGame begins a rematch at the same table with zeroed scores.
// Host only, and only once the previous game has finished.
// Assumes lock is held by caller.
func (g *RookGame) RestartGame(playerID uuid.UUID) error {
	if playerID != g.HostID {
		return ErrNotHost
	}
	if !g.Started || !g.GameOver {
		return fmt.Errorf("%w: no finished game to restart", engine.ErrWrongPhase)
	}

	g.GameOver = false
	g.Engine.Restart()
	log.Printf("Room %s: rematch started.", g.Code)
	g.logAction(playerID, string(EventGameRestarted), nil)
	g.fireEvent(GameEvent{Type: EventGameRestarted, Payload: g.seatingPayload()})
	g.beginRound()
	return nil
}

// HandleDisconnect handles a dropped connection. Before the game starts
// the player leaves the roster outright, with the host and partner roles
// reassigned if theirs. Once seats exist, the seat is kept and only the
// connection state changes so the player can rejoin.
// Assumes lock is held by caller.
func (g *RookGame) HandleDisconnect(playerID uuid.UUID) {
	p := g.getPlayerByID(playerID)
	if p == nil || !p.Connected {
		return
	}
	p.Connected = false
	p.Conn = nil
	log.Printf("Room %s: player %s disconnected.", g.Code, playerID)
	g.logAction(playerID, "player_disconnect", nil)

	if !g.Started {
		g.removeFromLobby(playerID)
	} else if g.HostID == playerID {
		// The host role cannot idle on a gone player: restart and
		// partner selection would be locked to them.
		g.reassignHost()
	}

	g.fireEvent(GameEvent{
		Type: EventPlayerLeft,
		Seat: &EventSeat{PlayerID: playerID, Username: p.User.Username},
	})
	g.broadcastRoomState()
	if g.Started {
		g.broadcastSyncStateToAll()
	}
}

// removeFromLobby drops a pre-game player from the roster, promoting
// the next joiner to host and clearing a departed partner choice.
// Assumes lock is held by caller.
func (g *RookGame) removeFromLobby(playerID uuid.UUID) {
	for i, p := range g.Players {
		if p.ID == playerID {
			g.Players = append(g.Players[:i], g.Players[i+1:]...)
			break
		}
	}
	delete(g.lastSeen, playerID)

	if g.PartnerID == playerID {
		g.PartnerID = uuid.Nil
		g.fireEvent(GameEvent{Type: EventPartnerSelected, Seat: nil})
	}
	if g.HostID == playerID {
		g.HostID = uuid.Nil
		if len(g.Players) > 0 {
			g.HostID = g.Players[0].ID
			log.Printf("Room %s: host left, %s promoted.", g.Code, g.HostID)
		}
	}
}

// reassignHost promotes the first connected player in join order. Leaves
// the role in place when nobody is connected; the manager removes such
// rooms anyway. Assumes lock is held by caller.
func (g *RookGame) reassignHost() {
	for _, p := range g.Players {
		if p.Connected {
			g.HostID = p.ID
			log.Printf("Room %s: host left, %s promoted.", g.Code, p.ID)
			return
		}
	}
}

// Teardown cancels all pending timers and marks the room closed. A timer
// callback that already fired and is waiting on the lock sees the closed
// flag and returns without touching the engine. Called when the room is
// removed. Assumes lock is held by caller.
func (g *RookGame) Teardown() {
	g.closed = true
	g.autoplayActive = false
	g.stopTimers()
}

func (g *RookGame) stopTimers() {
	g.stopTimer(&g.trickTimer)
	g.stopTimer(&g.roundTimer)
	g.stopTimer(&g.autoplayTimer)
}

func (g *RookGame) stopTimer(t **time.Timer) {
	if *t != nil {
		(*t).Stop()
		*t = nil
	}
}

// rejectAction reports a refused intent back to the sender only.
// Assumes lock is held by caller.
func (g *RookGame) rejectAction(playerID uuid.UUID, actionType string, err error) {
	log.Printf("Room %s: rejected %s from %s: %v", g.Code, actionType, playerID, err)
	g.fireEventToPlayer(playerID, GameEvent{
		Type: EventActionRejected,
		Payload: map[string]interface{}{
			"action":  actionType,
			"message": err.Error(),
		},
	})
}

// broadcastRoomState sends the lobby roster to everyone.
// Assumes lock is held by caller.
func (g *RookGame) broadcastRoomState() {
	roster := make([]map[string]interface{}, 0, len(g.Players))
	for _, p := range g.Players {
		roster = append(roster, map[string]interface{}{
			"playerId":  p.ID.String(),
			"username":  p.User.Username,
			"seat":      p.Seat,
			"connected": p.Connected,
			"isHost":    p.ID == g.HostID,
			"isPartner": p.ID == g.PartnerID,
		})
	}
	g.fireEvent(GameEvent{
		Type: EventRoomState,
		Payload: map[string]interface{}{
			"code":    g.Code,
			"started": g.Started,
			"players": roster,
		},
	})
}

// eventSeat builds the seat descriptor for the given seat index.
// Assumes lock is held by caller.
func (g *RookGame) eventSeat(seat uint8) *EventSeat {
	ev := &EventSeat{Seat: seat}
	if p := g.getPlayerByID(g.seats[seat]); p != nil {
		ev.PlayerID = p.ID
		ev.Username = p.User.Username
	}
	return ev
}

// fireEvent broadcasts an event to all connected players via the BroadcastFn callback.
// Assumes lock is held by caller.
func (g *RookGame) fireEvent(ev GameEvent) {
	if g.BroadcastFn != nil {
		g.BroadcastFn(ev)
	} else {
		log.Printf("Warning: room %s: BroadcastFn is nil, cannot broadcast event type %s.", g.Code, ev.Type)
	}
}

// fireEventToPlayer sends an event to a specific player if connected.
// Assumes lock is held by caller.
func (g *RookGame) fireEventToPlayer(playerID uuid.UUID, ev GameEvent) {
	if g.BroadcastToPlayerFn == nil {
		log.Printf("Warning: room %s: BroadcastToPlayerFn is nil, cannot send %s to %s.", g.Code, ev.Type, playerID)
		return
	}
	if p := g.getPlayerByID(playerID); p != nil && p.Connected {
		g.BroadcastToPlayerFn(playerID, ev)
	}
}

// getPlayerByID finds a player struct by ID within the room's roster.
// Assumes lock is held by caller.
func (g *RookGame) getPlayerByID(playerID uuid.UUID) *models.Player {
	for _, p := range g.Players {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}

// countConnectedPlayers returns the number of players currently marked as connected.
// Assumes lock is held by caller.
func (g *RookGame) countConnectedPlayers() int {
	count := 0
	for _, p := range g.Players {
		if p.Connected {
			count++
		}
	}
	return count
}

// logAction sends game action details to the historian service via Redis queue.
// Increments the internal action index for ordering.
// Assumes lock is held by caller.
func (g *RookGame) logAction(actorID uuid.UUID, actionType string, payload map[string]interface{}) {
	g.actionIndex++
	if payload == nil {
		payload = make(map[string]interface{})
	}
	record := cache.GameActionRecord{
		GameID:        g.ID,
		ActionIndex:   g.actionIndex,
		ActorUserID:   actorID,
		ActionType:    actionType,
		ActionPayload: payload,
		Timestamp:     time.Now().UnixMilli(),
	}

	go func(rec cache.GameActionRecord) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if cache.Rdb == nil {
			return
		}
		if err := cache.PublishGameAction(ctx, rec); err != nil {
			log.Printf("Error: room %s: failed publishing action %d (%q) to Redis: %v", g.Code, rec.ActionIndex, rec.ActionType, err)
		}
	}(record)
}

// persistInitialRoundState saves the deal for replay and audit.
// Assumes lock is held by caller.
func (g *RookGame) persistInitialRoundState() {
	e := &g.Engine
	snap := map[string]interface{}{
		"dealer": e.Dealer,
		"scores": e.Scores,
		"nest":   cardIDs(e.NestCards()),
		"hands":  map[string][]string{},
	}
	hands := snap["hands"].(map[string][]string)
	for s := uint8(0); s < engine.NumSeats; s++ {
		hands[g.seats[s].String()] = cardIDs(e.Round.Hands[s].Slice())
	}

	if database.DB != nil {
		go database.UpsertInitialRoundState(g.ID, snap)
	}
}

// persistFinalGameState saves the final scores and winner to the database.
// Assumes lock is held by caller.
func (g *RookGame) persistFinalGameState() {
	snapshot := map[string]interface{}{
		"winnerTeam": g.Engine.Winner,
		"scores":     g.Engine.Scores,
		"lastRound":  g.Engine.LastRound,
		"seats":      g.seats,
	}
	if database.DB != nil {
		go database.StoreFinalGameState(context.Background(), g.ID, snapshot)
	}
}

// cardIDs maps cards to their stable string identities.
func cardIDs(cards []engine.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.ID()
	}
	return out
}

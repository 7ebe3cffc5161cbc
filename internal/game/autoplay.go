// internal/game/autoplay.go
package game

import (
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/nebrown-cam/rook-game/engine"
)

// Forced-playout pacing. Once the engine detects that every remaining
// trick is decided (declarer on lead holding only trump, no trump
// outstanding), the table plays itself out: a short announcement delay,
// then one card at each step so spectating clients can follow along.

// startAutoPlay announces the forced playout and schedules its first
// card. Assumes lock is held by caller.
func (g *RookGame) startAutoPlay() {
	g.autoplayActive = true
	log.Printf("Room %s: remaining tricks are forced, starting playout.", g.Code)
	g.logAction(uuid.Nil, string(EventAutoPlayStarted), nil)
	g.fireEvent(GameEvent{Type: EventAutoPlayStarted})

	g.stopTimer(&g.autoplayTimer)
	g.autoplayTimer = time.AfterFunc(g.AutoPlayDelay, func() {
		g.Mu.Lock()
		defer g.Mu.Unlock()
		g.autoPlayStep()
	})
}

// scheduleAutoPlayStep arms the next card of the playout.
// Assumes lock is held by caller.
func (g *RookGame) scheduleAutoPlayStep() {
	g.stopTimer(&g.autoplayTimer)
	g.autoplayTimer = time.AfterFunc(g.AutoPlayStep, func() {
		g.Mu.Lock()
		defer g.Mu.Unlock()
		g.autoPlayStep()
	})
}

// autoPlayStep plays one card of the forced playout. Trick resolution
// reuses the normal sealed-trick path, but with the faster step pause.
// Assumes lock is held by caller.
func (g *RookGame) autoPlayStep() {
	if g.closed || g.GameOver || !g.autoplayActive {
		return
	}
	e := &g.Engine
	if e.Phase != engine.PhasePlaying || e.Round.TrickDone {
		return
	}

	seat := e.Round.Current
	card := e.AutoPlayCard(seat)
	if err := e.PlayCard(seat, card); err != nil {
		// Should not happen in a forced position; stop rather than loop.
		log.Printf("Room %s: playout stopped, seat %d cannot play %s: %v", g.Code, seat, card.ID(), err)
		g.autoplayActive = false
		g.broadcastTrickTurn()
		return
	}

	g.logAction(g.seats[seat], "card_played", map[string]interface{}{"card": card.ID(), "auto": true})
	g.fireEvent(GameEvent{Type: EventCardPlayed, Seat: g.eventSeat(seat), Card: cardEvent(card)})

	if e.Round.TrickDone {
		g.onTrickSealed(g.AutoPlayStep)
		return
	}
	g.scheduleAutoPlayStep()
}

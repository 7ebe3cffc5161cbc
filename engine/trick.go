package engine

import "fmt"

// Sentinel ranks for trick comparison. Trump cards add trumpBoost so any
// trump beats any led-suit card; the ROOK sits above (or below) the whole
// trump range; off-suit non-trump cards can never win.
const (
	rankUnplayable int16 = -1
	trumpBoost     int16 = 100
	rookHighRank   int16 = 200
	rookLowRank    int16 = 100
)

// CanPlay reports whether playing card from hand is legal given the trump
// and led colors. ColorNone for led means no card has been led yet, in
// which case anything goes.
func (r Rules) CanPlay(card Card, hand *Hand, trump, led uint8) bool {
	if led == ColorNone {
		return true
	}

	if card.IsRook() {
		// ROOK follows as the highest trump when trump is led.
		if led == trump {
			return true
		}
		if r.RookFollowsLed {
			// Off-lead ROOK only when the hand cannot follow.
			return !hand.HasColor(led)
		}
		return true
	}

	if card.Color() == led {
		return true
	}
	return !hand.HasColor(led)
}

// TrickRank returns the comparison rank of a card within a trick
// (higher wins). Off-suit non-trump cards rank below everything playable.
func (r Rules) TrickRank(card Card, trump, led uint8) int16 {
	if card.IsRook() {
		if r.RookHighTrump {
			return rookHighRank
		}
		return rookLowRank
	}

	rank := int16(card.Number())
	if r.OnesHigh && card.Number() == 1 {
		rank = 15
	}

	switch card.Color() {
	case trump:
		rank += trumpBoost
	case led:
		// base rank
	default:
		rank = rankUnplayable
	}
	return rank
}

// TrickWinner returns the seat holding the highest-ranked play. Ranks are
// unique within a trick: no two cards share color and number.
func (r Rules) TrickWinner(trick []Play, trump, led uint8) uint8 {
	winner := trick[0].Seat
	best := r.TrickRank(trick[0].Card, trump, led)
	for _, p := range trick[1:] {
		if rank := r.TrickRank(p.Card, trump, led); rank > best {
			best = rank
			winner = p.Seat
		}
	}
	return winner
}

// PlayCard contributes a card to the open trick for the given seat.
// The fourth card seals the trick: the winner is computed, the cards and
// points move to the winning team's pile, and the winner is set to lead.
// The sealed trick stays visible until BeginNextTrick clears it.
func (g *GameState) PlayCard(seat uint8, card Card) error {
	if g.Phase != PhasePlaying {
		return wrongPhase(g.Phase, PhasePlaying)
	}
	r := &g.Round
	if r.TrickDone {
		return fmt.Errorf("%w: trick awaiting clear", ErrWrongPhase)
	}
	for i := uint8(0); i < r.TrickLen; i++ {
		if r.Trick[i].Seat == seat {
			return ErrAlreadyPlayed
		}
	}
	if seat != r.Current {
		return fmt.Errorf("%w: seat %d played on seat %d's turn", ErrIllegalTurn, seat, r.Current)
	}
	h := &r.Hands[seat]
	if !h.Contains(card) {
		return fmt.Errorf("%w: %s", ErrNotInHand, card.ID())
	}

	// The led color for legality: fixed by the first card of the trick,
	// with a led ROOK counting as leading trump.
	led := r.LedColor
	if r.TrickLen == 0 {
		led = card.Color()
		if card.IsRook() {
			led = r.Trump
		}
	}
	if !g.Rules.CanPlay(card, h, r.Trump, r.LedColor) {
		return ErrMustFollowSuit
	}

	h.Remove(card)
	if r.TrickLen == 0 {
		r.LedColor = led
	}
	r.Trick[r.TrickLen] = Play{Card: card, Seat: seat}
	r.TrickLen++

	if r.TrickLen == NumSeats {
		g.resolveTrick()
	} else {
		r.Current = (r.Current + 1) % NumSeats
	}
	return nil
}

// resolveTrick scores the sealed trick and, on the last trick of the
// round, folds the nest into the winning team's pile and ends the round.
func (g *GameState) resolveTrick() {
	r := &g.Round

	winner := g.Rules.TrickWinner(r.Trick[:r.TrickLen], r.Trump, r.LedColor)
	team := TeamOf(winner)

	var points int16
	for i := uint8(0); i < r.TrickLen; i++ {
		points += r.Trick[i].Card.Points()
		r.Piles[team].Add(r.Trick[i].Card)
	}
	r.SeatPoints[winner] += points
	r.TricksPlayed++

	isLast := r.TricksPlayed == g.Rules.CardsPerPlayer
	r.LastTrick = TrickResult{
		Winner: winner,
		Team:   team,
		Points: points,
		Number: r.TricksPlayed,
		IsLast: isLast,
	}

	r.Current = winner
	r.Leader = winner
	r.TrickDone = true

	if isLast {
		// Winner of the last trick takes the nest and its counters.
		for i := uint8(0); i < r.NestLen; i++ {
			r.Piles[team].Add(r.Nest[i])
		}
		g.finishRound()
	}
}

// BeginNextTrick clears the sealed trick so the winner can lead. The
// service calls this after its display pause.
func (g *GameState) BeginNextTrick() error {
	if g.Phase != PhasePlaying {
		return wrongPhase(g.Phase, PhasePlaying)
	}
	if !g.Round.TrickDone {
		return fmt.Errorf("%w: trick still open", ErrWrongPhase)
	}
	g.Round.Trick = [NumSeats]Play{}
	g.Round.TrickLen = 0
	g.Round.LedColor = ColorNone
	g.Round.TrickDone = false
	return nil
}

package engine

import "fmt"

// SelectTrump sets the trump color for the round. Only the bid winner may
// call it, exactly once, with one of the four suit colors.
func (g *GameState) SelectTrump(seat uint8, color uint8) error {
	if g.Phase != PhaseExchange {
		return wrongPhase(g.Phase, PhaseExchange)
	}
	if int8(seat) != g.Round.Bid.HighBidder {
		return fmt.Errorf("%w: only the bid winner selects trump", ErrUnauthorized)
	}
	if g.Round.TrumpSet {
		return ErrAlreadySelected
	}
	if color >= NumColors {
		return fmt.Errorf("%w: %d", ErrInvalidColor, color)
	}
	g.Round.Trump = color
	g.Round.TrumpSet = true
	return nil
}

// DiscardNest removes exactly NestSize cards from the bid winner's hand;
// the discards become the new nest, held face down until the last trick.
// Completing the discard starts trick play with the declarer on lead.
func (g *GameState) DiscardNest(seat uint8, cards []Card) error {
	if g.Phase != PhaseExchange {
		return wrongPhase(g.Phase, PhaseExchange)
	}
	if int8(seat) != g.Round.Bid.HighBidder {
		return fmt.Errorf("%w: only the bid winner discards", ErrUnauthorized)
	}
	if !g.Round.TrumpSet {
		return fmt.Errorf("%w: select trump before discarding", ErrWrongPhase)
	}
	if len(cards) != int(g.Rules.NestSize) {
		return fmt.Errorf("%w: need exactly %d discards, got %d", ErrWrongCount, g.Rules.NestSize, len(cards))
	}

	// Validate the whole set before mutating anything.
	h := &g.Round.Hands[seat]
	seen := map[Card]bool{}
	for _, c := range cards {
		if seen[c] {
			return fmt.Errorf("%w: duplicate discard %s", ErrWrongCount, c.ID())
		}
		seen[c] = true
		if !h.Contains(c) {
			return fmt.Errorf("%w: %s", ErrNotInHand, c.ID())
		}
	}

	for i, c := range cards {
		h.Remove(c)
		g.Round.Nest[i] = c
	}
	g.Round.NestLen = uint8(len(cards))
	g.Round.DiscardDone = true

	// Declarer leads the first trick.
	decl := g.Declarer()
	g.Round.Leader = decl
	g.Round.Current = decl
	g.Round.SeatPoints = [NumSeats]int16{}
	g.Phase = PhasePlaying
	return nil
}

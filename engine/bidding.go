package engine

import "fmt"

// PlaceBid records a bid for the given seat. The amount must be at least
// the minimum next bid (the opening minimum if no bid stands, otherwise
// current + increment) and at most the configured maximum. If three seats
// have already passed, the bid immediately resolves the auction in this
// seat's favor.
func (g *GameState) PlaceBid(seat uint8, amount int16) error {
	if g.Phase != PhaseBidding {
		return wrongPhase(g.Phase, PhaseBidding)
	}
	b := &g.Round.Bid
	if seat != b.Turn {
		return fmt.Errorf("%w: seat %d bid on seat %d's turn", ErrIllegalTurn, seat, b.Turn)
	}
	if b.Passed[seat] {
		return ErrAlreadyPassed
	}
	min := g.Rules.MinNextBid(b.Amount)
	if amount < min || amount > g.Rules.MaxBid {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidAmount, amount, min, g.Rules.MaxBid)
	}

	b.Amount = amount
	b.HighBidder = int8(seat)

	if b.PassCount == NumSeats-1 {
		g.resolveBidding(seat)
		return nil
	}
	g.advanceBidTurn()
	return nil
}

// PassBid marks the seat as passed. When the third seat passes, the
// auction resolves: to the standing high bidder if one exists, otherwise
// the sole remaining seat is force-assigned the minimum opening bid.
func (g *GameState) PassBid(seat uint8) error {
	if g.Phase != PhaseBidding {
		return wrongPhase(g.Phase, PhaseBidding)
	}
	b := &g.Round.Bid
	if seat != b.Turn {
		return fmt.Errorf("%w: seat %d passed on seat %d's turn", ErrIllegalTurn, seat, b.Turn)
	}
	if b.Passed[seat] {
		return ErrAlreadyPassed
	}

	b.Passed[seat] = true
	b.PassCount++

	if b.PassCount == NumSeats-1 {
		if b.HighBidder < 0 {
			// Three passes with no bid: the last seat is stuck with the
			// opening minimum, no choice offered.
			forced := g.soleUnpassedSeat()
			b.Amount = g.Rules.MinOpeningBid
			b.HighBidder = int8(forced)
			b.Forced = true
			g.resolveBidding(forced)
			return nil
		}
		g.resolveBidding(uint8(b.HighBidder))
		return nil
	}
	g.advanceBidTurn()
	return nil
}

// soleUnpassedSeat returns the one seat that has not passed.
func (g *GameState) soleUnpassedSeat() uint8 {
	for s := uint8(0); s < NumSeats; s++ {
		if !g.Round.Bid.Passed[s] {
			return s
		}
	}
	return 0 // unreachable while PassCount < NumSeats
}

// advanceBidTurn moves the bid turn to the next seat that has not passed.
func (g *GameState) advanceBidTurn() {
	b := &g.Round.Bid
	for i := 0; i < NumSeats; i++ {
		b.Turn = (b.Turn + 1) % NumSeats
		if !b.Passed[b.Turn] {
			return
		}
	}
}

// resolveBidding closes the auction and hands the nest to the winner.
func (g *GameState) resolveBidding(winner uint8) {
	g.Round.Bid.Resolved = true
	g.awardNest(winner)
	g.Phase = PhaseExchange
}

// awardNest copies the nest cards into the winner's hand and re-sorts it.
// The nest array keeps its contents for display until the discard
// replaces them.
func (g *GameState) awardNest(winner uint8) {
	h := &g.Round.Hands[winner]
	for i := uint8(0); i < g.Round.NestLen; i++ {
		h.Add(g.Round.Nest[i])
	}
	g.SortHand(h)
	g.Round.NestTaken = true
}

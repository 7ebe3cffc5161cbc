package engine

// isTrumpish reports whether a card counts as trump for endgame
// detection: any card of the trump color, or the ROOK.
func isTrumpish(c Card, trump uint8) bool {
	return c.Color() == trump || c.IsRook()
}

// AutoPlayEligible detects the mechanical endgame: the declarer is on
// lead with nothing but trump (ROOK included) while no other seat holds
// any trump. From that position every remaining trick is forced, so the
// round can be played out without asking anyone.
func (g *GameState) AutoPlayEligible() bool {
	if g.Phase != PhasePlaying {
		return false
	}
	r := &g.Round
	if r.TrickLen != 0 || r.TrickDone {
		return false
	}
	decl := g.Declarer()
	if r.Current != decl {
		return false
	}
	declHand := &r.Hands[decl]
	if declHand.Len == 0 {
		return false
	}
	for i := uint8(0); i < declHand.Len; i++ {
		if !isTrumpish(declHand.Cards[i], r.Trump) {
			return false
		}
	}
	for s := uint8(0); s < NumSeats; s++ {
		if s == decl {
			continue
		}
		h := &r.Hands[s]
		for i := uint8(0); i < h.Len; i++ {
			if isTrumpish(h.Cards[i], r.Trump) {
				return false
			}
		}
	}
	return true
}

// AutoPlayCard selects the card a seat contributes during the mechanical
// playout. The declarer leads their first hand card (all are trump, so
// any is safe); every other seat sheds its lowest card by counter value,
// ties broken by lower number.
func (g *GameState) AutoPlayCard(seat uint8) Card {
	h := &g.Round.Hands[seat]
	if h.Len == 0 {
		return NoCard
	}
	if seat == g.Declarer() {
		return h.Cards[0]
	}

	lowest := h.Cards[0]
	for i := uint8(1); i < h.Len; i++ {
		c := h.Cards[i]
		switch {
		case c.Points() < lowest.Points():
			lowest = c
		case c.Points() == lowest.Points() && c.Number() < lowest.Number():
			lowest = c
		}
	}
	return lowest
}

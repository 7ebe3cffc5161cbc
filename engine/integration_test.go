package engine

import "testing"

// legalCard returns the first card in the seat's hand that may be played
// onto the open trick.
func legalCard(t *testing.T, g *GameState, seat uint8) Card {
	t.Helper()
	h := &g.Round.Hands[seat]
	for i := uint8(0); i < h.Len; i++ {
		if g.Rules.CanPlay(h.Cards[i], h, g.Round.Trump, g.Round.LedColor) {
			return h.Cards[i]
		}
	}
	t.Fatalf("seat %d has no legal card", seat)
	return NoCard
}

// TestFullRound drives a complete round through every phase with real
// dealt hands and checks counter conservation at the end.
func TestFullRound(t *testing.T) {
	g := NewGame(99, DefaultRules())
	g.DealRound()

	// First bidder opens at 100, the other three pass.
	bidder := g.Round.Bid.Turn
	if err := g.PlaceBid(bidder, 100); err != nil {
		t.Fatal(err)
	}
	for i := uint8(1); i < NumSeats; i++ {
		if err := g.PassBid((bidder + i) % NumSeats); err != nil {
			t.Fatal(err)
		}
	}
	if g.Phase != PhaseExchange || g.Declarer() != bidder {
		t.Fatalf("auction: phase %s declarer %d, want exchange/%d", g.Phase, g.Declarer(), bidder)
	}
	if g.Round.Hands[bidder].Len != 15 {
		t.Fatalf("declarer hand = %d, want 15 with the nest", g.Round.Hands[bidder].Len)
	}

	if err := g.SelectTrump(bidder, ColorGreen); err != nil {
		t.Fatal(err)
	}
	discards := append([]Card(nil), g.Round.Hands[bidder].Slice()[:5]...)
	if err := g.DiscardNest(bidder, discards); err != nil {
		t.Fatal(err)
	}
	if g.Round.Hands[bidder].Len != 10 {
		t.Fatalf("declarer hand = %d after discard, want 10", g.Round.Hands[bidder].Len)
	}
	if g.Round.Current != bidder {
		t.Fatalf("lead = %d, want declarer %d", g.Round.Current, bidder)
	}

	tricks := 0
	for g.Phase == PhasePlaying {
		seat := g.Round.Current
		if err := g.PlayCard(seat, legalCard(t, &g, seat)); err != nil {
			t.Fatalf("trick %d seat %d: %v", tricks+1, seat, err)
		}
		if g.Round.TrickDone {
			tricks++
			if g.Phase == PhasePlaying {
				if err := g.BeginNextTrick(); err != nil {
					t.Fatal(err)
				}
			}
		}
	}

	if tricks != 10 {
		t.Fatalf("played %d tricks, want 10", tricks)
	}
	for s := uint8(0); s < NumSeats; s++ {
		if g.Round.Hands[s].Len != 0 {
			t.Errorf("seat %d still holds cards", s)
		}
	}

	// Every counter in the deck ends up in one of the two piles.
	total := g.Round.Piles[0].Points() + g.Round.Piles[1].Points()
	if total != DeckPoints(g.Rules) {
		t.Errorf("pile counters = %d, want %d", total, DeckPoints(g.Rules))
	}
	if g.Round.Piles[0].Len+g.Round.Piles[1].Len != g.Rules.DeckSize() {
		t.Errorf("pile cards = %d, want %d",
			g.Round.Piles[0].Len+g.Round.Piles[1].Len, g.Rules.DeckSize())
	}

	// The round result matches the piles.
	res := g.LastRound
	declTeam := res.DeclarerTeam
	madeWant := res.TeamPoints[declTeam] >= 100
	if res.MadeContract != madeWant {
		t.Errorf("MadeContract = %v with %d points against 100", res.MadeContract, res.TeamPoints[declTeam])
	}
	if g.Phase != PhaseRoundOver && g.Phase != PhaseGameOver {
		t.Errorf("Phase = %s, want scored", g.Phase)
	}
}

// TestMatchToCompletion plays whole rounds until a team reaches the
// winning score, exercising dealer rotation and score accumulation.
func TestMatchToCompletion(t *testing.T) {
	g := NewGame(7, DefaultRules())
	g.DealRound()

	for rounds := 0; g.Phase != PhaseGameOver; rounds++ {
		if rounds > 50 {
			t.Fatal("no winner after 50 rounds")
		}

		// Seat 0 always takes the contract at 100; everyone else passes.
		// When seat 0 bids last in order the three passes force the
		// minimum onto it, which lands in the same place.
		for g.Phase == PhaseBidding {
			turn := g.Round.Bid.Turn
			if turn == 0 && g.Round.Bid.Amount == 0 {
				if err := g.PlaceBid(0, 100); err != nil {
					t.Fatal(err)
				}
				continue
			}
			if err := g.PassBid(turn); err != nil {
				t.Fatal(err)
			}
		}
		bidder := g.Declarer()
		if bidder != 0 {
			t.Fatalf("declarer = %d, want seat 0", bidder)
		}
		if err := g.SelectTrump(bidder, uint8(rounds)%NumColors); err != nil {
			t.Fatal(err)
		}
		discards := append([]Card(nil), g.Round.Hands[bidder].Slice()[:5]...)
		if err := g.DiscardNest(bidder, discards); err != nil {
			t.Fatal(err)
		}

		for g.Phase == PhasePlaying {
			seat := g.Round.Current
			if err := g.PlayCard(seat, legalCard(t, &g, seat)); err != nil {
				t.Fatal(err)
			}
			if g.Round.TrickDone && g.Phase == PhasePlaying {
				if err := g.BeginNextTrick(); err != nil {
					t.Fatal(err)
				}
			}
		}

		if g.Phase == PhaseRoundOver {
			if err := g.NextRound(); err != nil {
				t.Fatal(err)
			}
		}
	}

	if g.Winner < 0 || g.Winner > 1 {
		t.Fatalf("Winner = %d", g.Winner)
	}
	if g.Scores[g.Winner] < g.Rules.ScoreToWin {
		t.Errorf("winning score = %d, below %d", g.Scores[g.Winner], g.Rules.ScoreToWin)
	}
}

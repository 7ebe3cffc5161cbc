package engine

import (
	"errors"
	"testing"
)

// exchangeGame deals and resolves the auction in seat 1's favor at 120.
func exchangeGame(t *testing.T) GameState {
	t.Helper()
	g := NewGame(7, DefaultRules())
	g.DealRound()
	first := g.Round.Bid.Turn
	var bidder uint8
	for i := uint8(0); i < NumSeats; i++ {
		seat := (first + i) % NumSeats
		if i == 0 {
			bidder = seat
			if err := g.PlaceBid(seat, 120); err != nil {
				t.Fatal(err)
			}
			continue
		}
		if err := g.PassBid(seat); err != nil {
			t.Fatal(err)
		}
	}
	if g.Phase != PhaseExchange || g.Declarer() != bidder {
		t.Fatalf("setup: phase %s, winner %d", g.Phase, g.BidWinner())
	}
	return g
}

func TestSelectTrump(t *testing.T) {
	g := exchangeGame(t)
	winner := g.Declarer()
	other := (winner + 1) % NumSeats

	if err := g.SelectTrump(other, ColorRed); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("non-winner trump: err = %v", err)
	}
	if err := g.SelectTrump(winner, ColorRook); !errors.Is(err, ErrInvalidColor) {
		t.Fatalf("invalid color: err = %v", err)
	}
	if err := g.SelectTrump(winner, ColorGreen); err != nil {
		t.Fatal(err)
	}
	if g.Round.Trump != ColorGreen || !g.Round.TrumpSet {
		t.Errorf("trump = %d set=%v, want Green set", g.Round.Trump, g.Round.TrumpSet)
	}
	if err := g.SelectTrump(winner, ColorRed); !errors.Is(err, ErrAlreadySelected) {
		t.Fatalf("second trump: err = %v", err)
	}
}

func TestDiscardNest(t *testing.T) {
	g := exchangeGame(t)
	winner := g.Declarer()
	hand := append([]Card(nil), g.Round.Hands[winner].Slice()...)

	// Trump must come first.
	if err := g.DiscardNest(winner, hand[:5]); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("discard before trump: err = %v", err)
	}
	if err := g.SelectTrump(winner, ColorBlack); err != nil {
		t.Fatal(err)
	}

	if err := g.DiscardNest((winner+2)%NumSeats, hand[:5]); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("partner discard: err = %v", err)
	}
	if err := g.DiscardNest(winner, hand[:4]); !errors.Is(err, ErrWrongCount) {
		t.Fatalf("short discard: err = %v", err)
	}
	dup := []Card{hand[0], hand[0], hand[1], hand[2], hand[3]}
	if err := g.DiscardNest(winner, dup); !errors.Is(err, ErrWrongCount) {
		t.Fatalf("duplicate discard: err = %v", err)
	}
	bad := []Card{hand[0], hand[1], hand[2], hand[3], NewCard(ColorRed, 2)}
	if err := g.DiscardNest(winner, bad); !errors.Is(err, ErrNotInHand) {
		t.Fatalf("foreign discard: err = %v", err)
	}
	if g.Round.Hands[winner].Len != 15 {
		t.Fatal("failed discard mutated the hand")
	}

	if err := g.DiscardNest(winner, hand[:5]); err != nil {
		t.Fatal(err)
	}
	if g.Round.Hands[winner].Len != 10 {
		t.Errorf("hand after discard = %d, want 10", g.Round.Hands[winner].Len)
	}
	if g.Round.NestLen != 5 {
		t.Errorf("nest = %d cards, want 5", g.Round.NestLen)
	}
	for i, c := range hand[:5] {
		if g.Round.Nest[i] != c {
			t.Errorf("nest[%d] = %s, want %s", i, g.Round.Nest[i].ID(), c.ID())
		}
	}
	if g.Phase != PhasePlaying {
		t.Errorf("Phase = %s, want playing", g.Phase)
	}
	decl := g.Declarer()
	if g.Round.Leader != decl || g.Round.Current != decl {
		t.Errorf("lead = %d/%d, want declarer %d", g.Round.Leader, g.Round.Current, decl)
	}
}

// TestFaceUpNestHiddenAfterAward verifies the flipped nest card disappears
// once the auction winner takes the nest.
func TestFaceUpNestHiddenAfterAward(t *testing.T) {
	g := exchangeGame(t)
	if g.FaceUpNestCard() != NoCard {
		t.Error("face-up card still shown after nest award")
	}
}

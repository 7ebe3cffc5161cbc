package engine

import (
	"errors"
	"testing"
)

// dealtGame returns a freshly dealt game with dealer 3, so seat 0 opens
// the bidding.
func dealtGame(t *testing.T) GameState {
	t.Helper()
	g := NewGame(42, DefaultRules())
	g.Dealer = 3
	g.DealRound()
	if g.Round.Bid.Turn != 0 {
		t.Fatalf("opening bidder = %d, want 0", g.Round.Bid.Turn)
	}
	return g
}

// TestBidTurnOrder verifies out-of-turn bids and passes are rejected
// without mutating the auction.
func TestBidTurnOrder(t *testing.T) {
	g := dealtGame(t)

	if err := g.PlaceBid(1, 100); !errors.Is(err, ErrIllegalTurn) {
		t.Fatalf("out-of-turn bid: err = %v, want ErrIllegalTurn", err)
	}
	if err := g.PassBid(2); !errors.Is(err, ErrIllegalTurn) {
		t.Fatalf("out-of-turn pass: err = %v, want ErrIllegalTurn", err)
	}
	if g.Round.Bid.Amount != 0 || g.Round.Bid.PassCount != 0 {
		t.Error("rejected actions mutated the auction")
	}
}

// TestBidAmountBounds verifies opening minimum, increment floor, and max.
func TestBidAmountBounds(t *testing.T) {
	g := dealtGame(t)

	if err := g.PlaceBid(0, 95); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("under opening minimum: err = %v", err)
	}
	if err := g.PlaceBid(0, 185); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("over max: err = %v", err)
	}
	if err := g.PlaceBid(0, 100); err != nil {
		t.Fatalf("opening bid 100: err = %v", err)
	}
	// Next bid must be at least 105.
	if err := g.PlaceBid(1, 100); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("matching bid accepted: err = %v", err)
	}
	if err := g.PlaceBid(1, 105); err != nil {
		t.Fatalf("raise to 105: err = %v", err)
	}
}

// TestBidResolution verifies a bid followed by three passes resolves in
// the bidder's favor and hands over the nest.
func TestBidResolution(t *testing.T) {
	g := dealtGame(t)

	if err := g.PlaceBid(0, 110); err != nil {
		t.Fatal(err)
	}
	for _, seat := range []uint8{1, 2, 3} {
		if err := g.PassBid(seat); err != nil {
			t.Fatalf("pass seat %d: %v", seat, err)
		}
	}

	if !g.Round.Bid.Resolved {
		t.Fatal("auction not resolved after three passes")
	}
	if g.BidWinner() != 0 || g.Round.Bid.Amount != 110 {
		t.Errorf("winner/amount = %d/%d, want 0/110", g.BidWinner(), g.Round.Bid.Amount)
	}
	if g.Phase != PhaseExchange {
		t.Errorf("Phase = %s, want exchange", g.Phase)
	}
	if g.Round.Hands[0].Len != 15 {
		t.Errorf("winner hand = %d cards, want 15 after nest award", g.Round.Hands[0].Len)
	}
	if !g.Round.NestTaken {
		t.Error("NestTaken not set")
	}
}

// TestBidSkipsPassedSeats verifies the turn wraps over seats that passed.
func TestBidSkipsPassedSeats(t *testing.T) {
	g := dealtGame(t)

	if err := g.PassBid(0); err != nil {
		t.Fatal(err)
	}
	if err := g.PlaceBid(1, 100); err != nil {
		t.Fatal(err)
	}
	if err := g.PassBid(2); err != nil {
		t.Fatal(err)
	}
	if err := g.PlaceBid(3, 105); err != nil {
		t.Fatal(err)
	}
	// Seats 0 and 2 have passed; turn must come back to seat 1.
	if g.Round.Bid.Turn != 1 {
		t.Fatalf("turn = %d, want 1", g.Round.Bid.Turn)
	}
	if err := g.PlaceBid(1, 120); err != nil {
		t.Fatal(err)
	}
	if g.Round.Bid.Turn != 3 {
		t.Fatalf("turn = %d, want 3", g.Round.Bid.Turn)
	}
	if err := g.PassBid(3); err != nil {
		t.Fatal(err)
	}

	if !g.Round.Bid.Resolved || g.BidWinner() != 1 || g.Round.Bid.Amount != 120 {
		t.Errorf("resolution = (%v, %d, %d), want (true, 1, 120)",
			g.Round.Bid.Resolved, g.BidWinner(), g.Round.Bid.Amount)
	}
}

// TestForcedBid verifies three opening passes force the last seat into
// the minimum bid without being asked.
func TestForcedBid(t *testing.T) {
	g := dealtGame(t)

	for _, seat := range []uint8{0, 1, 2} {
		if err := g.PassBid(seat); err != nil {
			t.Fatalf("pass seat %d: %v", seat, err)
		}
	}

	b := g.Round.Bid
	if !b.Resolved || !b.Forced {
		t.Fatalf("Resolved/Forced = %v/%v, want true/true", b.Resolved, b.Forced)
	}
	if b.HighBidder != 3 || b.Amount != 100 {
		t.Errorf("forced winner/amount = %d/%d, want 3/100", b.HighBidder, b.Amount)
	}
	if g.Phase != PhaseExchange {
		t.Errorf("Phase = %s, want exchange", g.Phase)
	}
	// The forced seat cannot keep bidding or pass.
	if err := g.PassBid(3); !errors.Is(err, ErrWrongPhase) {
		t.Errorf("post-resolution pass: err = %v, want ErrWrongPhase", err)
	}
}

// TestDoublePass verifies a seat cannot pass twice.
func TestDoublePass(t *testing.T) {
	g := dealtGame(t)

	if err := g.PassBid(0); err != nil {
		t.Fatal(err)
	}
	if err := g.PlaceBid(1, 100); err != nil {
		t.Fatal(err)
	}
	// Turn is on seat 2; seat 0 tries to pass again out of turn.
	if err := g.PassBid(0); !errors.Is(err, ErrIllegalTurn) {
		t.Fatalf("double pass: err = %v, want ErrIllegalTurn", err)
	}
}

// TestBidOptions verifies the recomputed legal bid list.
func TestBidOptions(t *testing.T) {
	r := DefaultRules()

	opts := r.BidOptions(0)
	if len(opts) != 17 {
		t.Fatalf("len(BidOptions(0)) = %d, want 17 (100..180 step 5)", len(opts))
	}
	if opts[0] != 100 || opts[len(opts)-1] != 180 {
		t.Errorf("BidOptions(0) range = [%d, %d], want [100, 180]", opts[0], opts[len(opts)-1])
	}

	opts = r.BidOptions(175)
	if len(opts) != 1 || opts[0] != 180 {
		t.Errorf("BidOptions(175) = %v, want [180]", opts)
	}
	if opts = r.BidOptions(180); opts != nil {
		t.Errorf("BidOptions(180) = %v, want empty", opts)
	}
}

// Package engine implements the authoritative rules for a four-player
// partnership ROOK variant: dealing, the ascending auction, the nest
// exchange, trump selection, and trick play with contract scoring.
//
// The engine is a pure state machine over flat value types. It performs
// no I/O and holds no locks; the service layer serializes access per room.
package engine

import "sort"

const (
	NumSeats    = 4
	NumTeams    = 2
	MaxDeckSize = 57 // 4 colors x 14 ranks + ROOK, upper bound across configs
	MaxHandSize = 16 // cards per player + nest, upper bound
	MaxNestSize = 10
)

// Phase is the coarse round lifecycle state.
type Phase uint8

const (
	PhaseSetup     Phase = iota // no round dealt yet
	PhaseBidding                // auction in progress
	PhaseExchange               // bid winner holds the nest: trump + discard
	PhasePlaying                // trick play
	PhaseRoundOver              // round scored, next deal pending
	PhaseGameOver               // a team reached the winning score
)

// String returns the phase name for logs.
func (p Phase) String() string {
	switch p {
	case PhaseSetup:
		return "setup"
	case PhaseBidding:
		return "bidding"
	case PhaseExchange:
		return "exchange"
	case PhasePlaying:
		return "playing"
	case PhaseRoundOver:
		return "round_over"
	case PhaseGameOver:
		return "game_over"
	}
	return "?"
}

// RoundState aggregates everything that lives from one deal to the next.
type RoundState struct {
	Hands [NumSeats]Hand

	// Nest holds the face-down reserve. After the auction its cards are
	// copied into the winner's hand; the array itself is only replaced
	// when the winner discards, and is finally scored with the last trick.
	Nest    [MaxNestSize]Card
	NestLen uint8

	Bid BidState

	Trump       uint8 // ColorNone until selected
	TrumpSet    bool
	NestTaken   bool
	DiscardDone bool

	Trick        [NumSeats]Play
	TrickLen     uint8
	LedColor     uint8 // ColorNone until the first card of the trick
	Leader       uint8
	Current      uint8
	TricksPlayed uint8
	TrickDone    bool // 4 cards down, waiting for BeginNextTrick
	LastTrick    TrickResult

	Piles      [NumTeams]Pile
	SeatPoints [NumSeats]int16
}

// GameState holds a complete match: persistent team scores, the dealer
// rotation, and the live round.
type GameState struct {
	Rules  Rules
	RNG    uint64
	Phase  Phase
	Dealer uint8
	Scores [NumTeams]int16
	Round  RoundState

	LastRound RoundResult
	Winner    int8 // winning team once PhaseGameOver, else -1
}

// NewGame initializes a match with the given seed and rules.
// No cards are dealt until DealRound.
func NewGame(seed uint64, rules Rules) GameState {
	g := GameState{
		Rules:  rules,
		RNG:    seed,
		Phase:  PhaseSetup,
		Winner: -1,
	}
	if g.RNG == 0 {
		g.RNG = 1 // xorshift can't start at 0
	}
	return g
}

// ---------------------------------------------------------------------------
// xorshift64 RNG — inline, no interface
// ---------------------------------------------------------------------------

func (g *GameState) nextRand() uint64 {
	x := g.RNG
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	g.RNG = x
	return x
}

// randN returns a random number in [0, n).
func (g *GameState) randN(n uint64) uint64 {
	return g.nextRand() % n
}

// ---------------------------------------------------------------------------
// Dealing
// ---------------------------------------------------------------------------

// DealRound shuffles a fresh deck and deals a new round: the nest is
// filled first, then the remainder goes round-robin to the seats starting
// at seat 0. Bidding opens left of the dealer.
func (g *GameState) DealRound() {
	deck := NewDeck(g.Rules)

	// Fisher-Yates shuffle.
	for i := len(deck) - 1; i > 0; i-- {
		j := int(g.randN(uint64(i + 1)))
		deck[i], deck[j] = deck[j], deck[i]
	}

	r := &g.Round
	*r = RoundState{
		Trump:    ColorNone,
		LedColor: ColorNone,
	}
	r.Bid.HighBidder = -1
	r.Bid.Turn = (g.Dealer + 1) % NumSeats

	// Nest off the top first.
	top := len(deck)
	for i := uint8(0); i < g.Rules.NestSize; i++ {
		top--
		r.Nest[i] = deck[top]
	}
	r.NestLen = g.Rules.NestSize

	// Round-robin the rest, one card at a time from seat 0.
	seat := uint8(0)
	for top > 0 {
		top--
		r.Hands[seat].Add(deck[top])
		seat = (seat + 1) % NumSeats
	}

	for s := range r.Hands {
		g.SortHand(&r.Hands[s])
	}

	g.Phase = PhaseBidding
}

// SortHand orders a hand for display: by color (Black, Green, Red,
// Yellow, Rook), then descending within the color with ones first when
// ones are high. Deterministic for a given rules config.
func (g *GameState) SortHand(h *Hand) {
	onesHigh := g.Rules.OnesHigh
	s := h.Slice()
	sort.SliceStable(s, func(a, b int) bool {
		ca, cb := s[a], s[b]
		if ca.Color() != cb.Color() {
			return ca.Color() < cb.Color()
		}
		if onesHigh {
			if ca.Number() == 1 && cb.Number() != 1 {
				return true
			}
			if cb.Number() == 1 && ca.Number() != 1 {
				return false
			}
		}
		return ca.Number() > cb.Number()
	})
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

// BidWinner returns the seat that won the auction, or -1 while it is open.
func (g *GameState) BidWinner() int8 {
	if !g.Round.Bid.Resolved {
		return -1
	}
	return g.Round.Bid.HighBidder
}

// Declarer returns the bid-winning seat. Only meaningful after the
// auction resolves.
func (g *GameState) Declarer() uint8 { return uint8(g.Round.Bid.HighBidder) }

// DeclarerTeam returns the team of the bid winner.
func (g *GameState) DeclarerTeam() uint8 { return g.Declarer() % NumTeams }

// TeamOf returns the team a seat belongs to ({0,2} vs {1,3}).
func TeamOf(seat uint8) uint8 { return seat % NumTeams }

// PartnerOf returns the seat partnered with the given seat.
func PartnerOf(seat uint8) uint8 { return (seat + 2) % NumSeats }

// FaceUpNestCard returns the configured face-up reveal card, or NoCard
// when the rules keep the whole nest hidden or it was already claimed.
func (g *GameState) FaceUpNestCard() Card {
	if !g.Rules.FlipNestCard || g.Round.NestLen == 0 || g.Round.NestTaken {
		return NoCard
	}
	return g.Round.Nest[g.Round.NestLen-1]
}

// NestCards returns the live nest contents as a slice view.
func (g *GameState) NestCards() []Card {
	return g.Round.Nest[:g.Round.NestLen]
}

// IsGameOver reports whether a team has reached the winning score.
func (g *GameState) IsGameOver() bool { return g.Phase == PhaseGameOver }

// ---------------------------------------------------------------------------
// Round / match transitions
// ---------------------------------------------------------------------------

// NextRound rotates the dealer and deals the next round. Only legal once
// the current round has been scored.
func (g *GameState) NextRound() error {
	if g.Phase != PhaseRoundOver {
		return wrongPhase(g.Phase, PhaseRoundOver)
	}
	g.Dealer = (g.Dealer + 1) % NumSeats
	g.DealRound()
	return nil
}

// Restart zeroes the team scores and dealer and deals a fresh first
// round. Used by the host's rematch action after game over.
func (g *GameState) Restart() {
	g.Scores = [NumTeams]int16{}
	g.Dealer = 0
	g.Winner = -1
	g.DealRound()
}

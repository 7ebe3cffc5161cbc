package engine

// Rules holds the configurable parameters for one ROOK variant.
type Rules struct {
	ScoreToWin     int16
	NestSize       uint8
	CardsPerPlayer uint8
	MinOpeningBid  int16
	MaxBid         int16
	BidIncrement   int16
	OnesHigh       bool   // 1 outranks 14 within a color
	HasRook        bool   // include the ROOK bird card
	RemovedRanks   uint16 // bitmask of numeric ranks left out of the deck
	FlipNestCard   bool   // reveal the last nest card face up during bidding
	RookFollowsLed bool   // ROOK must follow the led color when its holder can follow
	RookHighTrump  bool   // ROOK ranks above all trump (false: below all trump)
}

// DefaultRules returns the "Nate's Kentucky ROOK" table rules: a 45-card
// deck (ranks 2-4 removed, ROOK in), 5-card nest, bidding from 100 to 180
// in steps of 5, ones high, ROOK as highest trump.
func DefaultRules() Rules {
	return Rules{
		ScoreToWin:     500,
		NestSize:       5,
		CardsPerPlayer: 10,
		MinOpeningBid:  100,
		MaxBid:         180,
		BidIncrement:   5,
		OnesHigh:       true,
		HasRook:        true,
		RemovedRanks:   1<<2 | 1<<3 | 1<<4,
		FlipNestCard:   true,
		RookFollowsLed: true,
		RookHighTrump:  true,
	}
}

// rankRemoved reports whether the numbered rank is excluded from the deck.
func (r Rules) rankRemoved(n uint8) bool {
	return r.RemovedRanks&(1<<n) != 0
}

// DeckSize returns the total number of cards the configured deck contains.
func (r Rules) DeckSize() uint8 {
	kept := uint8(0)
	for n := uint8(1); n <= 14; n++ {
		if !r.rankRemoved(n) {
			kept++
		}
	}
	size := NumColors * kept
	if r.HasRook {
		size++
	}
	return size
}

// MinNextBid returns the smallest legal bid given the current high bid
// (0 meaning no bid has been placed yet).
func (r Rules) MinNextBid(current int16) int16 {
	if current == 0 {
		return r.MinOpeningBid
	}
	return current + r.BidIncrement
}

// BidOptions returns every legal bid amount above the current high bid.
// Empty once the current bid has reached the maximum.
func (r Rules) BidOptions(current int16) []int16 {
	var opts []int16
	for bid := r.MinNextBid(current); bid <= r.MaxBid; bid += r.BidIncrement {
		opts = append(opts, bid)
	}
	return opts
}

// NewDeck builds the canonical ordered deck for the variant: each color's
// kept ranks in ascending order, ROOK last. Deterministic for a given
// Rules value.
func NewDeck(r Rules) []Card {
	deck := make([]Card, 0, r.DeckSize())
	for color := uint8(0); color < NumColors; color++ {
		for n := uint8(1); n <= 14; n++ {
			if r.rankRemoved(n) {
				continue
			}
			deck = append(deck, NewCard(color, n))
		}
	}
	if r.HasRook {
		deck = append(deck, RookCard)
	}
	return deck
}

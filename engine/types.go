package engine

// Color constants — packed into the upper 4 bits of Card.
const (
	ColorBlack  uint8 = 0
	ColorGreen  uint8 = 1
	ColorRed    uint8 = 2
	ColorYellow uint8 = 3
	ColorRook   uint8 = 4
	ColorNone   uint8 = 0x0F // sentinel: no color led yet / no trump
)

// NumColors is the number of ordinary suit colors (excluding the ROOK).
const NumColors uint8 = 4

// Card is a packed uint8: upper 4 bits = color, lower 4 bits = number.
// The ROOK bird card is ColorRook with number 0.
type Card uint8

// NoCard represents the absence of a card.
const NoCard Card = 0xFF

// NewCard constructs a Card from color and number.
func NewCard(color, number uint8) Card {
	return Card((color << 4) | (number & 0x0F))
}

// RookCard is the single non-suited bird card.
var RookCard = NewCard(ColorRook, 0)

// Color returns the color bits (upper 4).
func (c Card) Color() uint8 { return uint8(c) >> 4 }

// Number returns the number bits (lower 4). The ROOK card has number 0.
func (c Card) Number() uint8 { return uint8(c) & 0x0F }

// IsRook reports whether c is the ROOK bird card.
func (c Card) IsRook() bool { return c.Color() == ColorRook }

// Points returns the counter value of the card.
//   - ROOK → 20
//   - 1 → 15 (ones are the high cards in this variant)
//   - 5 → 5
//   - 10, 14 → 10
//   - everything else → 0
func (c Card) Points() int16 {
	if c == NoCard {
		return 0
	}
	if c.IsRook() {
		return 20
	}
	switch c.Number() {
	case 1:
		return 15
	case 5:
		return 5
	case 10, 14:
		return 10
	}
	return 0
}

// colorNames indexes display names by color constant.
var colorNames = [5]string{"Black", "Green", "Red", "Yellow", "Rook"}

// ColorName returns the display name for a color constant, or "?" if unknown.
func ColorName(color uint8) string {
	if color < uint8(len(colorNames)) {
		return colorNames[color]
	}
	return "?"
}

// ParseColor maps a display name back to its color constant.
func ParseColor(name string) (uint8, bool) {
	for i, n := range colorNames {
		if n == name {
			return uint8(i), true
		}
	}
	return ColorNone, false
}

// ID returns the stable client-facing identity of the card, e.g. "Green05"
// or "ROOK". Matches the asset naming used by the table clients.
func (c Card) ID() string {
	if c == NoCard {
		return "none"
	}
	if c.IsRook() {
		return "ROOK"
	}
	n := c.Number()
	buf := [8]byte{}
	name := colorNames[c.Color()]
	i := copy(buf[:], name)
	buf[i] = '0' + n/10
	buf[i+1] = '0' + n%10
	return string(buf[:i+2])
}

// ParseCardID is the inverse of Card.ID. Returns NoCard, false on malformed input.
func ParseCardID(id string) (Card, bool) {
	if id == "ROOK" {
		return RookCard, true
	}
	if len(id) < 3 {
		return NoCard, false
	}
	name := id[:len(id)-2]
	color, ok := ParseColor(name)
	if !ok || color == ColorRook {
		return NoCard, false
	}
	d1, d2 := id[len(id)-2], id[len(id)-1]
	if d1 < '0' || d1 > '9' || d2 < '0' || d2 > '9' {
		return NoCard, false
	}
	n := (d1-'0')*10 + (d2 - '0')
	if n < 1 || n > 14 {
		return NoCard, false
	}
	return NewCard(color, n), true
}

// Play is one card contributed to the open trick by a seat.
type Play struct {
	Card Card
	Seat uint8
}

// TrickResult records the outcome of the most recently completed trick.
type TrickResult struct {
	Winner  uint8 // seat that took the trick
	Team    uint8 // Winner % 2
	Points  int16 // counter points captured in the trick
	Number  uint8 // 1-based trick number
	IsLast  bool  // true for the final trick of the round
}

// RoundResult records the outcome of a completed round.
type RoundResult struct {
	TeamPoints   [NumTeams]int16 // counters captured by each team (nest included)
	DeclarerTeam uint8
	Bid          int16
	MadeContract bool
	Scores       [NumTeams]int16 // running game scores after applying the contract
}

// BidState tracks the live auction.
type BidState struct {
	Amount     int16   // current highest bid; 0 = no bid yet
	HighBidder int8    // seat of the highest bidder; -1 = none
	Turn       uint8   // seat whose turn it is to bid
	Passed     [NumSeats]bool
	PassCount  uint8
	Resolved   bool
	Forced     bool // winner was force-assigned the minimum opening bid
}

// Hand is one seat's cards with an explicit length counter.
type Hand struct {
	Cards [MaxHandSize]Card
	Len   uint8
}

// Contains reports whether the hand holds the given card identity.
func (h *Hand) Contains(c Card) bool {
	for i := uint8(0); i < h.Len; i++ {
		if h.Cards[i] == c {
			return true
		}
	}
	return false
}

// HasColor reports whether the hand holds any non-ROOK card of the given color.
func (h *Hand) HasColor(color uint8) bool {
	for i := uint8(0); i < h.Len; i++ {
		if h.Cards[i].Color() == color {
			return true
		}
	}
	return false
}

// Add appends a card. Silently ignored when the hand is full.
func (h *Hand) Add(c Card) {
	if h.Len < MaxHandSize {
		h.Cards[h.Len] = c
		h.Len++
	}
}

// Remove deletes the first occurrence of c, preserving order.
// Returns false if the card is not held.
func (h *Hand) Remove(c Card) bool {
	for i := uint8(0); i < h.Len; i++ {
		if h.Cards[i] == c {
			copy(h.Cards[i:h.Len-1], h.Cards[i+1:h.Len])
			h.Len--
			h.Cards[h.Len] = NoCard
			return true
		}
	}
	return false
}

// Slice returns the live cards as a slice view (no copy).
func (h *Hand) Slice() []Card { return h.Cards[:h.Len] }

// Pile accumulates the cards captured by a team during trick play.
type Pile struct {
	Cards [MaxDeckSize]Card
	Len   uint8
}

// Add appends a card to the pile.
func (p *Pile) Add(c Card) {
	if p.Len < MaxDeckSize {
		p.Cards[p.Len] = c
		p.Len++
	}
}

// Points returns the counter total of the pile.
func (p *Pile) Points() int16 {
	var sum int16
	for i := uint8(0); i < p.Len; i++ {
		sum += p.Cards[i].Points()
	}
	return sum
}

package engine

import (
	"strconv"

	"github.com/google/uuid"
)

// Suit identifies a card suit. Jokers carry SuitNone.
type Suit string

const (
	SuitHearts   Suit = "hearts"
	SuitDiamonds Suit = "diamonds"
	SuitClubs    Suit = "clubs"
	SuitSpades   Suit = "spades"
	SuitNone     Suit = "none"
)

// Rank identifies a card rank using its display label.
type Rank string

const (
	RankAce   Rank = "A"
	RankTwo   Rank = "2"
	RankThree Rank = "3"
	RankFour  Rank = "4"
	RankFive  Rank = "5"
	RankSix   Rank = "6"
	RankSeven Rank = "7"
	RankEight Rank = "8"
	RankNine  Rank = "9"
	RankTen   Rank = "10"
	RankJack  Rank = "J"
	RankQueen Rank = "Q"
	RankKing  Rank = "K"
	RankJoker Rank = "JOKER"
)

// StandardSuits lists the four suits in deck-building order.
var StandardSuits = [4]Suit{SuitHearts, SuitDiamonds, SuitClubs, SuitSpades}

// StandardRanks lists the thirteen non-joker ranks in deck-building order.
var StandardRanks = [13]Rank{
	RankAce, RankTwo, RankThree, RankFour, RankFive, RankSix, RankSeven,
	RankEight, RankNine, RankTen, RankJack, RankQueen, RankKing,
}

// Card is a single physical card. Cards are moved between the deck, the
// discard pile, hand slots and the drawn-card holder; they are never copied.
type Card struct {
	ID   uuid.UUID
	Suit Suit
	Rank Rank

	FaceUp          bool // Visible to everyone.
	KnownToOwner    bool // Privately visible to the holder of the hand it sits in.
	KnownToOpponent bool // Privately visible to the other player (8 peek).
}

// IsRed reports whether the card is a heart or a diamond.
func (c *Card) IsRed() bool {
	return c.Suit == SuitHearts || c.Suit == SuitDiamonds
}

// Value returns the point value of the card.
//   - Joker → -1
//   - Queen of hearts/diamonds → 0
//   - Ace → 1
//   - Jack, black Queen, King → 10
//   - Two–Ten → face value
func Value(c *Card) int {
	switch c.Rank {
	case RankJoker:
		return -1
	case RankAce:
		return 1
	case RankQueen:
		if c.IsRed() {
			return 0
		}
		return 10
	case RankJack, RankKing:
		return 10
	}
	n, err := strconv.Atoi(string(c.Rank))
	if err != nil {
		return 0
	}
	return n
}

// CalculateScore sums the values of the non-empty slots in a hand.
func CalculateScore(hand []*Card) int {
	total := 0
	for _, c := range hand {
		if c != nil {
			total += Value(c)
		}
	}
	return total
}

// hide clears every visibility flag; used when a card changes hands blind.
func (c *Card) hide() {
	c.FaceUp = false
	c.KnownToOwner = false
	c.KnownToOpponent = false
}

// reveal turns the card face-up for everyone and drops private flags.
func (c *Card) reveal() {
	c.FaceUp = true
	c.KnownToOwner = false
	c.KnownToOpponent = false
}

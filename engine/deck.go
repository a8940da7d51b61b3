package engine

import (
	"math/rand/v2"

	"github.com/google/uuid"
)

const (
	// DeckSize is 52 standard cards plus two jokers.
	DeckSize = 54
	// HandSize is the number of slots dealt to each player.
	HandSize = 4
)

// NewDeck builds a fresh, unshuffled 54-card deck with every card face-down.
func NewDeck() []*Card {
	deck := make([]*Card, 0, DeckSize)
	for _, s := range StandardSuits {
		for _, r := range StandardRanks {
			deck = append(deck, &Card{ID: uuid.New(), Suit: s, Rank: r})
		}
	}
	for range 2 {
		deck = append(deck, &Card{ID: uuid.New(), Suit: SuitNone, Rank: RankJoker})
	}
	return deck
}

// Shuffle performs an in-place Fisher-Yates shuffle.
func Shuffle(deck []*Card, rng *rand.Rand) {
	for i := len(deck) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		deck[i], deck[j] = deck[j], deck[i]
	}
}

// drawFromDeck pops the top card of the deck; nil when the deck is exhausted.
func (g *Game) drawFromDeck() *Card {
	n := len(g.Deck)
	if n == 0 {
		return nil
	}
	c := g.Deck[n-1]
	g.Deck = g.Deck[:n-1]
	return c
}

// topDiscard returns the top of the discard pile without removing it.
func (g *Game) topDiscard() *Card {
	if len(g.DiscardPile) == 0 {
		return nil
	}
	return g.DiscardPile[len(g.DiscardPile)-1]
}

// pushDiscard places c face-up on top of the discard pile.
func (g *Game) pushDiscard(c *Card) {
	c.reveal()
	g.DiscardPile = append(g.DiscardPile, c)
}

// popDiscard removes and returns the top discard; nil when empty.
func (g *Game) popDiscard() *Card {
	n := len(g.DiscardPile)
	if n == 0 {
		return nil
	}
	c := g.DiscardPile[n-1]
	g.DiscardPile = g.DiscardPile[:n-1]
	return c
}

// collectCards gathers every card the game owns back into a single slice,
// emptying every container. Used before a re-deal.
func (g *Game) collectCards() []*Card {
	all := make([]*Card, 0, DeckSize)
	all = append(all, g.Deck...)
	all = append(all, g.DiscardPile...)
	for _, id := range g.PlayerOrder {
		for _, c := range g.Players[id].Hand {
			if c != nil {
				all = append(all, c)
			}
		}
		g.Players[id].Hand = nil
	}
	if c, _ := g.DrawnCard(); c != nil {
		all = append(all, c)
	}
	g.Deck = nil
	g.DiscardPile = nil
	g.Mode = Idle{}
	for _, c := range all {
		c.hide()
	}
	return all
}

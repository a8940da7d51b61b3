package engine

import (
	"math/rand/v2"
	"testing"

	"github.com/google/uuid"
)

var (
	alice = uuid.MustParse("00000000-0000-0000-0000-00000000000a")
	bob   = uuid.MustParse("00000000-0000-0000-0000-00000000000b")
)

// newLobbyGame returns a deterministic game with both players seated but not ready.
func newLobbyGame(t *testing.T) *Game {
	t.Helper()
	g := NewGame(WithRand(rand.New(rand.NewPCG(7, 11))))
	if _, err := g.Join(alice, "Alice"); err != nil {
		t.Fatalf("join alice: %v", err)
	}
	if _, err := g.Join(bob, "Bob"); err != nil {
		t.Fatalf("join bob: %v", err)
	}
	return g
}

// newPlayingGame returns a dealt game that has left phase1. Alice acts first.
func newPlayingGame(t *testing.T) *Game {
	t.Helper()
	g := newLobbyGame(t)
	if _, err := g.SetReady(alice); err != nil {
		t.Fatalf("ready alice: %v", err)
	}
	if _, err := g.SetReady(bob); err != nil {
		t.Fatalf("ready bob: %v", err)
	}
	if _, err := g.BeginPlay(g.Epoch); err != nil {
		t.Fatalf("begin play: %v", err)
	}
	return g
}

// deckIndexOf finds a card of rank r in the deck.
func deckIndexOf(t *testing.T, g *Game, r Rank) int {
	t.Helper()
	for i, c := range g.Deck {
		if c.Rank == r {
			return i
		}
	}
	t.Fatalf("no %s left in deck", r)
	return -1
}

// placeRank swaps a deck card of rank r into pid's slot idx, keeping the card set intact.
func placeRank(t *testing.T, g *Game, pid uuid.UUID, idx int, r Rank) *Card {
	t.Helper()
	j := deckIndexOf(t, g, r)
	p := g.Players[pid]
	g.Deck[j], p.Hand[idx] = p.Hand[idx], g.Deck[j]
	p.Hand[idx].hide()
	g.Deck[j].hide()
	return p.Hand[idx]
}

// stackDeckTop moves a deck card of rank r to the top of the deck.
func stackDeckTop(t *testing.T, g *Game, r Rank) *Card {
	t.Helper()
	j := deckIndexOf(t, g, r)
	last := len(g.Deck) - 1
	g.Deck[j], g.Deck[last] = g.Deck[last], g.Deck[j]
	return g.Deck[last]
}

// discardRank moves a deck card of rank r onto the discard pile.
func discardRank(t *testing.T, g *Game, r Rank) *Card {
	t.Helper()
	c := stackDeckTop(t, g, r)
	g.Deck = g.Deck[:len(g.Deck)-1]
	g.pushDiscard(c)
	return c
}

// assertCardSet fails unless the game owns exactly the 54 original identities.
func assertCardSet(t *testing.T, g *Game, want map[uuid.UUID]bool) {
	t.Helper()
	all := g.AllCards()
	if len(all) != DeckSize {
		t.Fatalf("game owns %d cards, want %d", len(all), DeckSize)
	}
	seen := make(map[uuid.UUID]bool, DeckSize)
	for _, c := range all {
		if seen[c.ID] {
			t.Fatalf("card %s owned twice", c.ID)
		}
		if !want[c.ID] {
			t.Fatalf("card %s is not part of the original deck", c.ID)
		}
		seen[c.ID] = true
	}
}

func cardIDs(g *Game) map[uuid.UUID]bool {
	ids := make(map[uuid.UUID]bool, DeckSize)
	for _, c := range g.AllCards() {
		ids[c.ID] = true
	}
	return ids
}

func intp(i int) *int { return &i }

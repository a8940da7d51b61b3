package engine

import "testing"

// TestValueTable checks the value of every rank, including suit-dependent Queens.
func TestValueTable(t *testing.T) {
	cases := []struct {
		suit Suit
		rank Rank
		want int
	}{
		{SuitNone, RankJoker, -1},
		{SuitHearts, RankQueen, 0},
		{SuitDiamonds, RankQueen, 0},
		{SuitClubs, RankQueen, 10},
		{SuitSpades, RankQueen, 10},
		{SuitHearts, RankAce, 1},
		{SuitSpades, RankJack, 10},
		{SuitHearts, RankKing, 10},
		{SuitClubs, RankKing, 10},
		{SuitClubs, RankTwo, 2},
		{SuitDiamonds, RankSeven, 7},
		{SuitSpades, RankTen, 10},
	}
	for _, tc := range cases {
		c := &Card{Suit: tc.suit, Rank: tc.rank}
		if got := Value(c); got != tc.want {
			t.Errorf("Value(%s of %s) = %d, want %d", tc.rank, tc.suit, got, tc.want)
		}
	}
}

// TestValueTotalOverDeck verifies every card in a fresh deck has a value in range
// and the whole deck sums to the expected total.
func TestValueTotalOverDeck(t *testing.T) {
	total := 0
	for _, c := range NewDeck() {
		v := Value(c)
		if v < -1 || v > 10 {
			t.Errorf("Value(%s of %s) = %d out of range", c.Rank, c.Suit, v)
		}
		total += v
	}
	// Per suit: A..10 = 55, J = 10, K = 10. Queens: two red at 0, two black at 10.
	// Jokers: -2.
	want := 4*(55+10+10) + 2*10 - 2
	if total != want {
		t.Errorf("deck total = %d, want %d", total, want)
	}
}

// TestCalculateScoreSkipsEmptySlots verifies nil slots contribute nothing.
func TestCalculateScoreSkipsEmptySlots(t *testing.T) {
	hand := []*Card{
		{Suit: SuitHearts, Rank: RankAce},
		nil,
		{Suit: SuitNone, Rank: RankJoker},
		{Suit: SuitClubs, Rank: RankNine},
		{Suit: SuitDiamonds, Rank: RankQueen},
	}
	if got := CalculateScore(hand); got != 9 {
		t.Errorf("CalculateScore = %d, want 9", got)
	}
	if got := CalculateScore(nil); got != 0 {
		t.Errorf("CalculateScore(nil) = %d, want 0", got)
	}
}

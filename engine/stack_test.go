package engine

import (
	"errors"
	"testing"
)

// TestStackSelfMatch covers a matching self-stack of a non-ability rank.
func TestStackSelfMatch(t *testing.T) {
	g := newPlayingGame(t)
	discardRank(t, g, RankSeven)
	mine := placeRank(t, g, bob, 1, RankSeven)
	ids := cardIDs(g)

	if _, err := g.CallStack(bob); err != nil {
		t.Fatalf("call stack: %v", err)
	}
	w, ok := g.StackWindow()
	if !ok || w.Caller != bob || w.TargetRank != RankSeven {
		t.Fatalf("window = %#v", g.Mode)
	}
	if _, err := g.ExecuteStack(bob, StackTarget{TargetPlayer: bob, HandIndex: 1}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if g.topDiscard() != mine || !mine.FaceUp {
		t.Fatalf("stacked card should be face-up on the discard pile")
	}
	if g.Players[bob].HandCount() != 3 || g.Players[bob].Hand[1] != nil {
		t.Fatalf("slot should be emptied in place")
	}
	if _, ok := g.Mode.(Idle); !ok {
		t.Fatalf("mode = %s", g.Mode.Name())
	}
	if g.ActivePlayerID() != alice {
		t.Fatalf("stack out of turn must not skip alice's turn")
	}
	assertCardSet(t, g, ids)
}

// TestStackMismatchPenalty covers a failed stack: one blind penalty card, discard unchanged.
func TestStackMismatchPenalty(t *testing.T) {
	g := newPlayingGame(t)
	discardRank(t, g, RankSeven)
	wrong := placeRank(t, g, alice, 0, RankTwo)
	discards := len(g.DiscardPile)
	ids := cardIDs(g)

	g.CallStack(alice)
	res, err := g.ExecuteStack(alice, StackTarget{TargetPlayer: alice, HandIndex: 0})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got := g.Players[alice].HandCount(); got != 5 {
		t.Fatalf("hand count = %d, want 5", got)
	}
	if len(g.DiscardPile) != discards {
		t.Fatalf("discard pile changed on mismatch")
	}
	if g.Players[alice].Hand[0] != wrong || wrong.FaceUp {
		t.Fatalf("mismatched card must stay hidden in place")
	}
	if len(res.Reveals) != 1 || res.Reveals[0].Kind != RevealStack || res.Reveals[0].To != alice {
		t.Fatalf("reveals = %#v", res.Reveals)
	}
	if _, ok := g.Mode.(Idle); !ok {
		t.Fatalf("window should close")
	}
	assertCardSet(t, g, ids)
}

// TestStackExclusivity verifies a second call while a window is open is rejected.
func TestStackExclusivity(t *testing.T) {
	g := newPlayingGame(t)
	if _, err := g.CallStack(alice); !errors.Is(err, ErrDiscardEmpty) {
		t.Fatalf("stack on empty discard err = %v", err)
	}
	discardRank(t, g, RankSeven)
	g.CallStack(alice)
	before := g.Mode
	if _, err := g.CallStack(bob); !errors.Is(err, ErrWrongMode) {
		t.Fatalf("second call err = %v", err)
	}
	if g.Mode != before {
		t.Fatalf("window changed by rejected call")
	}
	if _, err := g.ExecuteStack(bob, StackTarget{TargetPlayer: bob, HandIndex: 0}); !errors.Is(err, ErrNotCaller) {
		t.Fatalf("non-caller execute err = %v", err)
	}
	if _, err := g.DrawDeck(alice); !errors.Is(err, ErrWrongMode) {
		t.Fatalf("draw during window err = %v", err)
	}
}

// TestStackDuringPlacementKeepsDrawnCard verifies a stack called while the
// active player holds a drawn card hands the card back to them afterwards.
func TestStackDuringPlacementKeepsDrawnCard(t *testing.T) {
	g := newPlayingGame(t)
	discardRank(t, g, RankSeven)
	matched := placeRank(t, g, bob, 1, RankSeven)
	stackDeckTop(t, g, RankTwo)
	ids := cardIDs(g)

	if _, err := g.DrawDeck(alice); err != nil {
		t.Fatalf("draw: %v", err)
	}
	drawn, _ := g.DrawnCard()
	if _, err := g.CallStack(bob); err != nil {
		t.Fatalf("call stack while alice holds a card: %v", err)
	}
	if c, by := g.DrawnCard(); c != drawn || by != alice {
		t.Fatalf("drawn card not visible through the window")
	}
	assertCardSet(t, g, ids)

	if _, err := g.ExecuteStack(bob, StackTarget{TargetPlayer: bob, HandIndex: 1}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if g.topDiscard() != matched {
		t.Fatalf("matched card should be on the discard pile")
	}
	m, ok := g.Mode.(AwaitingPlacement)
	if !ok || m.Card != drawn || m.Player != alice {
		t.Fatalf("mode = %s, want alice's placement restored", g.Mode.Name())
	}
	assertCardSet(t, g, ids)

	if _, err := g.DiscardDrawn(alice); err != nil {
		t.Fatalf("discard after stack: %v", err)
	}
	if g.ActivePlayerID() != bob {
		t.Fatalf("turn should pass to bob")
	}
	assertCardSet(t, g, ids)
}

// TestStackDuringPlacementInheritsThenResumes verifies an inherited ability is
// resolved before the held card's placement continues.
func TestStackDuringPlacementInheritsThenResumes(t *testing.T) {
	g := newPlayingGame(t)
	discardRank(t, g, RankEight)
	placeRank(t, g, bob, 0, RankEight)
	stackDeckTop(t, g, RankTwo)
	ids := cardIDs(g)

	g.DrawDeck(alice)
	drawn, _ := g.DrawnCard()
	g.CallStack(bob)
	if _, err := g.ExecuteStack(bob, StackTarget{TargetPlayer: bob, HandIndex: 0}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	a, ok := g.Mode.(AbilityPending)
	if !ok || a.Ability != AbilityEight || a.Player != bob || a.AdvanceOnDone {
		t.Fatalf("mode = %#v, want bob's inherited 8", g.Mode)
	}
	if c, _ := g.DrawnCard(); c != drawn {
		t.Fatalf("drawn card lost while the ability is pending")
	}
	if _, err := g.DiscardDrawn(alice); !errors.Is(err, ErrWrongMode) {
		t.Fatalf("placement during inherited ability err = %v", err)
	}

	if _, err := g.PlayAbilityTarget(bob, AbilityTarget{Type: AbilityEight, OpponentIndex: intp(2)}); err != nil {
		t.Fatalf("peek: %v", err)
	}
	if m, ok := g.Mode.(AwaitingPlacement); !ok || m.Card != drawn {
		t.Fatalf("mode = %s, want placement resumed", g.Mode.Name())
	}
	if g.ActivePlayerID() != alice {
		t.Fatalf("turn must stay with alice")
	}
	assertCardSet(t, g, ids)
}

// TestForfeitDuringStackWindowKeepsCards verifies scoring a round with a card
// set aside behind a stack window accounts for every card.
func TestForfeitDuringStackWindowKeepsCards(t *testing.T) {
	g := newPlayingGame(t)
	discardRank(t, g, RankSeven)
	ids := cardIDs(g)
	g.DrawDeck(alice)
	g.CallStack(bob)

	if _, err := g.Forfeit(bob); err != nil {
		t.Fatalf("forfeit: %v", err)
	}
	if c, _ := g.DrawnCard(); c != nil {
		t.Fatalf("drawn card should be discarded on scoring")
	}
	assertCardSet(t, g, ids)
}

// TestStackAttritionForInterruptedPlayer verifies a stack that cancels the
// active player's ability still settles that player's end-of-turn attrition.
func TestStackAttritionForInterruptedPlayer(t *testing.T) {
	g := newPlayingGame(t)
	placeRank(t, g, bob, 3, RankKing)
	stackDeckTop(t, g, RankKing)
	g.DrawDeck(alice)
	g.DiscardDrawn(alice)
	for _, c := range g.Players[alice].Hand {
		c.FaceUp = true
	}

	g.CallStack(bob)
	if _, err := g.ExecuteStack(bob, StackTarget{TargetPlayer: bob, HandIndex: 3}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !g.Players[alice].IsFinalTurn {
		t.Fatalf("alice's all face-up hand should be flagged")
	}
	if g.EndTriggeredBy != alice {
		t.Fatalf("endTriggeredBy = %s, want alice", g.EndTriggeredBy)
	}
}

// TestOffensiveStack verifies the caller's card replaces the matched opponent card.
func TestOffensiveStack(t *testing.T) {
	g := newPlayingGame(t)
	discardRank(t, g, RankNine)
	theirs := placeRank(t, g, alice, 2, RankNine)
	give := g.Players[bob].Hand[0]
	give.KnownToOwner = true
	ids := cardIDs(g)

	g.CallStack(bob)
	if _, err := g.ExecuteStack(bob, StackTarget{TargetPlayer: alice, HandIndex: 2}); !errors.Is(err, ErrMissingGive) {
		t.Fatalf("missing give err = %v", err)
	}
	if _, err := g.ExecuteStack(bob, StackTarget{TargetPlayer: alice, HandIndex: 2, GiveIndex: intp(0)}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if g.topDiscard() != theirs {
		t.Fatalf("matched card should be discarded")
	}
	if g.Players[alice].Hand[2] != give || give.FaceUp || give.KnownToOwner {
		t.Fatalf("given card should fill the vacated slot hidden")
	}
	if g.Players[bob].Hand[0] != nil || g.Players[bob].HandCount() != 3 {
		t.Fatalf("bob should have given one card away")
	}
	if g.Players[alice].HandCount() != 4 {
		t.Fatalf("alice hand count = %d", g.Players[alice].HandCount())
	}
	assertCardSet(t, g, ids)
}

// TestStackInterruptsAbilityAndInherits verifies a matched King cancels the
// pending King and hands it to the stacker, who finishes the interrupted turn.
func TestStackInterruptsAbilityAndInherits(t *testing.T) {
	g := newPlayingGame(t)
	stackDeckTop(t, g, RankKing)
	g.DrawDeck(alice)
	placeRank(t, g, bob, 3, RankKing)
	g.DiscardDrawn(alice)

	if _, err := g.CallStack(bob); err != nil {
		t.Fatalf("stack during ability: %v", err)
	}
	if _, ok := g.ActiveAbility(); !ok {
		t.Fatalf("ability should remain visible while window is open")
	}
	if _, err := g.PlayAbilityTarget(alice, AbilityTarget{Type: AbilityKing, MyIndex: intp(0), OpponentIndex: intp(0)}); !errors.Is(err, ErrWrongMode) {
		t.Fatalf("ability input during window err = %v", err)
	}
	if _, err := g.ExecuteStack(bob, StackTarget{TargetPlayer: bob, HandIndex: 3}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	m, ok := g.Mode.(AbilityPending)
	if !ok || m.Player != bob || m.Ability != AbilityKing || !m.AdvanceOnDone {
		t.Fatalf("mode = %#v, want King inherited by bob", g.Mode)
	}
	if g.ActivePlayerID() != alice {
		t.Fatalf("turn must not advance before the inherited ability resolves")
	}
	if _, err := g.PlayAbilityTarget(bob, AbilityTarget{Type: AbilityKing, MyIndex: intp(0), OpponentIndex: intp(0)}); err != nil {
		t.Fatalf("inherited king: %v", err)
	}
	if g.ActivePlayerID() != bob {
		t.Fatalf("alice's interrupted turn should end")
	}
}

// TestStackMismatchResumesAbility verifies a failed stack leaves the ability pending.
func TestStackMismatchResumesAbility(t *testing.T) {
	g := newPlayingGame(t)
	stackDeckTop(t, g, RankEight)
	g.DrawDeck(alice)
	g.DiscardDrawn(alice)
	placeRank(t, g, bob, 0, RankTwo)

	g.CallStack(bob)
	g.ExecuteStack(bob, StackTarget{TargetPlayer: bob, HandIndex: 0})
	m, ok := g.Mode.(AbilityPending)
	if !ok || m.Player != alice || m.Ability != AbilityEight {
		t.Fatalf("mode = %#v, want alice's 8 resumed", g.Mode)
	}
}

// TestStackEmptyHandEndsGame verifies emptying a hand scores immediately,
// overriding any inherited ability.
func TestStackEmptyHandEndsGame(t *testing.T) {
	g := newPlayingGame(t)
	p := g.Players[bob]
	placeRank(t, g, bob, 0, RankSix)
	for i := 1; i < len(p.Hand); i++ {
		g.Deck = append(g.Deck, p.Hand[i])
		p.Hand[i] = nil
	}
	discardRank(t, g, RankSix)

	g.CallStack(bob)
	res, err := g.ExecuteStack(bob, StackTarget{TargetPlayer: bob, HandIndex: 0})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !res.Finished || g.Status != StatusFinished {
		t.Fatalf("game should be scored when a hand empties")
	}
	if _, ok := g.Mode.(Idle); !ok {
		t.Fatalf("no ability may be inherited after the game ends")
	}
}

// TestStackWindowExpiry verifies an unexecuted window closes and stale expiries are ignored.
func TestStackWindowExpiry(t *testing.T) {
	g := newPlayingGame(t)
	discardRank(t, g, RankSeven)
	res, _ := g.CallStack(bob)
	if _, err := g.ExpireStackWindow(res.StackSeq + 1); !errors.Is(err, ErrStale) {
		t.Fatalf("wrong seq err = %v", err)
	}
	if _, err := g.ExpireStackWindow(res.StackSeq); err != nil {
		t.Fatalf("expire: %v", err)
	}
	if _, ok := g.Mode.(Idle); !ok {
		t.Fatalf("mode = %s", g.Mode.Name())
	}
	if _, err := g.ExpireStackWindow(res.StackSeq); !errors.Is(err, ErrStale) {
		t.Fatalf("double expire err = %v", err)
	}
}

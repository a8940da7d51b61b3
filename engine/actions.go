package engine

import "github.com/google/uuid"

// requireTurn checks the common guard for turn actions: playing status, the
// caller is the active player, and the engine is idle.
func (g *Game) requireTurn(id uuid.UUID) (*Player, error) {
	p := g.Players[id]
	if p == nil {
		return nil, ErrUnknownPlayer
	}
	if g.Status != StatusPlaying {
		return nil, ErrWrongStatus
	}
	if g.ActivePlayerID() != id {
		return nil, ErrNotYourTurn
	}
	if _, ok := g.Mode.(Idle); !ok {
		return nil, ErrWrongMode
	}
	return p, nil
}

// DrawDeck draws the top card of the deck into the active player's hand-held slot.
func (g *Game) DrawDeck(id uuid.UUID) (Result, error) {
	var res Result
	if _, err := g.requireTurn(id); err != nil {
		return res, err
	}
	c := g.drawFromDeck()
	if c == nil {
		return res, ErrDeckEmpty
	}
	g.Mode = AwaitingPlacement{Player: id, Card: c}
	res.move(LocDeck, LocDrawn(id))
	return res, nil
}

// DrawDiscard atomically swaps the top discard into hand slot idx. The
// displaced card goes to the discard pile and continues like any discard.
func (g *Game) DrawDiscard(id uuid.UUID, idx int) (Result, error) {
	var res Result
	p, err := g.requireTurn(id)
	if err != nil {
		return res, err
	}
	if idx < 0 || idx >= len(p.Hand) {
		return res, ErrInvalidSlot
	}
	taken := g.popDiscard()
	if taken == nil {
		return res, ErrDiscardEmpty
	}
	displaced := p.Hand[idx]
	p.Hand[idx] = taken
	res.move(LocDiscard, LocHand(id, idx))
	res.note(NoteInfo, "%s took the discard", p.Name)

	if displaced == nil {
		g.finishTurn(id, &res)
		return res, nil
	}
	g.pushDiscard(displaced)
	res.move(LocHand(id, idx), LocDiscard)
	g.afterDiscard(id, displaced, &res)
	return res, nil
}

// SwapDrawn places the drawn card face-down into slot idx; the previous
// occupant goes face-up to the discard pile.
func (g *Game) SwapDrawn(id uuid.UUID, idx int) (Result, error) {
	var res Result
	p, m, err := g.requirePlacement(id)
	if err != nil {
		return res, err
	}
	if idx < 0 || idx >= len(p.Hand) {
		return res, ErrInvalidSlot
	}
	drawn := m.Card
	drawn.hide()
	old := p.Hand[idx]
	p.Hand[idx] = drawn
	g.Mode = Idle{}
	res.move(LocDrawn(id), LocHand(id, idx))

	if old == nil {
		g.finishTurn(id, &res)
		return res, nil
	}
	g.pushDiscard(old)
	res.move(LocHand(id, idx), LocDiscard)
	res.note(NoteInfo, "%s swapped and discarded %s", p.Name, old.Rank)
	g.afterDiscard(id, old, &res)
	return res, nil
}

// DiscardDrawn discards the drawn card directly.
func (g *Game) DiscardDrawn(id uuid.UUID) (Result, error) {
	var res Result
	p, m, err := g.requirePlacement(id)
	if err != nil {
		return res, err
	}
	g.Mode = Idle{}
	g.pushDiscard(m.Card)
	res.move(LocDrawn(id), LocDiscard)
	res.note(NoteInfo, "%s discarded %s", p.Name, m.Card.Rank)
	g.afterDiscard(id, m.Card, &res)
	return res, nil
}

func (g *Game) requirePlacement(id uuid.UUID) (*Player, AwaitingPlacement, error) {
	p := g.Players[id]
	if p == nil {
		return nil, AwaitingPlacement{}, ErrUnknownPlayer
	}
	if g.Status != StatusPlaying {
		return nil, AwaitingPlacement{}, ErrWrongStatus
	}
	m, ok := g.Mode.(AwaitingPlacement)
	if !ok {
		return nil, AwaitingPlacement{}, ErrWrongMode
	}
	if m.Player != id {
		return nil, AwaitingPlacement{}, ErrNotYourTurn
	}
	return p, m, nil
}

// CallIt declares the end of the round. Play continues until the turn comes
// back to the caller, then the game is scored. Calling ends the caller's turn.
func (g *Game) CallIt(id uuid.UUID) (Result, error) {
	var res Result
	p, err := g.requireTurn(id)
	if err != nil {
		return res, err
	}
	if g.EndTriggeredBy != uuid.Nil {
		return res, ErrAlreadyCalled
	}
	g.EndTriggeredBy = id
	res.note(NoteWarning, "%s called it! Last round", p.Name)
	g.advanceTurn(&res)
	return res, nil
}

// afterDiscard is the continuation for every card placed on the discard pile
// by actor: trigger its ability if usable, otherwise finish the turn.
func (g *Game) afterDiscard(actor uuid.UUID, c *Card, res *Result) {
	if ab, ok := abilityFor(c.Rank); ok {
		if g.abilityUsable(ab, actor) {
			g.Mode = AbilityPending{Ability: ab, Player: actor, Phase: PhaseChoose, AdvanceOnDone: true}
			res.note(NoteInfo, "%s may use the %s ability", g.Players[actor].Name, ab)
			return
		}
		res.note(NoteInfo, "%s's %s ability has no valid target", g.Players[actor].Name, ab)
	}
	g.finishTurn(actor, res)
}

// finishTurn runs the attrition check for actor and advances the turn.
func (g *Game) finishTurn(actor uuid.UUID, res *Result) {
	g.Mode = Idle{}
	g.checkAttrition(actor, res)
	if g.Status == StatusFinished {
		return
	}
	g.advanceTurn(res)
}

// advanceTurn moves to the next seat. If that seat ended the round, the game
// is scored instead.
func (g *Game) advanceTurn(res *Result) {
	g.Mode = Idle{}
	g.TurnIndex = (g.TurnIndex + 1) % len(g.PlayerOrder)
	next := g.ActivePlayerID()
	if g.EndTriggeredBy != uuid.Nil && next == g.EndTriggeredBy {
		g.scoreGame(res)
		return
	}
	res.note(NoteInfo, "%s's turn", g.Players[next].Name)
}

// checkAttrition flags a player whose hand is fully face-up or empty. The flag
// is set once per round; the first flagged player ends the round as if they
// had called it, unless someone already did.
func (g *Game) checkAttrition(id uuid.UUID, res *Result) {
	p := g.Players[id]
	if p == nil || p.IsFinalTurn || !p.allFaceUpOrEmpty() {
		return
	}
	p.IsFinalTurn = true
	if g.EndTriggeredBy == uuid.Nil {
		g.EndTriggeredBy = id
	}
	res.note(NoteWarning, "%s has no hidden cards left. Final round", p.Name)
}

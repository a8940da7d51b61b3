package engine

import "github.com/google/uuid"

// StackTarget is the caller's execution of an open stack window.
type StackTarget struct {
	TargetPlayer uuid.UUID
	HandIndex    int
	// GiveIndex is the caller's own slot handed over on an offensive stack.
	GiveIndex *int
}

// CallStack opens a stack window against the rank of the top discard. Any
// seated player may call it during play, out of turn, while a drawn card awaits
// placement or during a pending ability, but not while a window is open.
func (g *Game) CallStack(id uuid.UUID) (Result, error) {
	var res Result
	p := g.Players[id]
	if p == nil {
		return res, ErrUnknownPlayer
	}
	if g.Status != StatusPlaying {
		return res, ErrWrongStatus
	}
	top := g.topDiscard()
	if top == nil {
		return res, ErrDiscardEmpty
	}
	switch g.Mode.(type) {
	case Idle, AwaitingPlacement, AbilityPending:
	default:
		return res, ErrWrongMode
	}
	g.stackSeq++
	g.Mode = StackWindowOpen{Caller: id, TargetRank: top.Rank, Seq: g.stackSeq, Resume: g.Mode}
	res.StackOpened = true
	res.StackSeq = g.stackSeq
	res.note(NoteWarning, "%s called STACK on %s!", p.Name, top.Rank)
	return res, nil
}

// ExecuteStack resolves the caller's open stack window.
func (g *Game) ExecuteStack(id uuid.UUID, t StackTarget) (Result, error) {
	var res Result
	if g.Status != StatusPlaying {
		return res, ErrWrongStatus
	}
	w, ok := g.Mode.(StackWindowOpen)
	if !ok {
		return res, ErrWrongMode
	}
	if w.Caller != id {
		return res, ErrNotCaller
	}
	caller := g.Players[id]
	target := g.Players[t.TargetPlayer]
	if target == nil {
		return res, ErrUnknownPlayer
	}
	chosen, err := slot(target, t.HandIndex)
	if err != nil {
		return res, err
	}
	offensive := target.ID != id
	var give *Card
	if offensive {
		if t.GiveIndex == nil {
			return res, ErrMissingGive
		}
		if give, err = slot(caller, *t.GiveIndex); err != nil {
			return res, err
		}
	}

	if chosen.Rank != w.TargetRank {
		g.stackMismatch(w, caller, target, t.HandIndex, chosen, &res)
		return res, nil
	}

	// Match: the chosen card settles face-up on the discard pile.
	target.Hand[t.HandIndex] = nil
	g.pushDiscard(chosen)
	res.move(LocHand(target.ID, t.HandIndex), LocDiscard)
	if offensive {
		caller.Hand[*t.GiveIndex] = nil
		give.hide()
		target.Hand[t.HandIndex] = give
		res.move(LocHand(id, *t.GiveIndex), LocHand(target.ID, t.HandIndex))
		res.note(NoteSuccess, "%s stacked %s's %s and gave them a card", caller.Name, target.Name, chosen.Rank)
	} else {
		res.note(NoteSuccess, "%s stacked their %s", caller.Name, chosen.Rank)
	}

	// A matched stack cancels an interrupted ability but never a held drawn card.
	resume := w.Resume
	interrupted, wasAbility := resume.(AbilityPending)
	if wasAbility {
		res.note(NoteInfo, "%s's %s ability was interrupted", g.Players[interrupted.Player].Name, interrupted.Ability)
		resume = interrupted.Resume
	}
	placement, holding := resume.(AwaitingPlacement)
	g.Mode = Idle{}
	if holding {
		g.Mode = placement
	}

	for _, pid := range g.PlayerOrder {
		if g.Players[pid].HandCount() == 0 {
			res.note(NoteWarning, "%s has no cards left", g.Players[pid].Name)
			g.scoreGame(&res)
			return res, nil
		}
	}

	// The interrupted player's own action is over; settle their attrition now.
	if wasAbility && interrupted.Player != id {
		g.checkAttrition(interrupted.Player, &res)
	}
	advance := wasAbility && interrupted.AdvanceOnDone
	if ab, ok := abilityFor(chosen.Rank); ok {
		if g.stackAbilityUsable(ab, id) {
			inherited := AbilityPending{Ability: ab, Player: id, Phase: PhaseChoose, AdvanceOnDone: advance}
			if holding {
				inherited.Resume = placement
			}
			g.Mode = inherited
			res.note(NoteInfo, "%s may use the %s ability", caller.Name, ab)
			return res, nil
		}
		res.note(NoteInfo, "%s cannot use the %s ability", caller.Name, ab)
	}

	g.checkAttrition(id, &res)
	if g.Status != StatusFinished && advance {
		g.advanceTurn(&res)
	}
	return res, nil
}

// stackAbilityUsable applies the stacker's capability rule: 8 is always
// inherited, K, J and 6 need the caller to still hold a card (6 a face-down one).
func (g *Game) stackAbilityUsable(ab Ability, caller uuid.UUID) bool {
	if g.Players[caller].HandCount() == 0 {
		return ab == AbilityEight && g.abilityUsable(ab, caller)
	}
	return g.abilityUsable(ab, caller)
}

// stackMismatch reveals the wrong card to the caller only, hands them one
// blind penalty card, and resumes whatever the window interrupted.
func (g *Game) stackMismatch(w StackWindowOpen, caller, target *Player, idx int, chosen *Card, res *Result) {
	res.Reveals = append(res.Reveals, Reveal{To: caller.ID, Kind: RevealStack, Card: *chosen, Owner: target.ID, Index: idx})
	if penalty := g.drawFromDeck(); penalty != nil {
		penalty.hide()
		caller.Hand = append(caller.Hand, penalty)
		res.move(LocDeck, LocHand(caller.ID, len(caller.Hand)-1))
		res.note(NoteWarning, "%s missed the stack and drew a penalty card", caller.Name)
	} else {
		res.note(NoteWarning, "%s missed the stack", caller.Name)
	}
	g.Mode = w.Resume
}

// ExpireStackWindow closes a window the caller never executed. seq must match
// the window it was scheduled for.
func (g *Game) ExpireStackWindow(seq int) (Result, error) {
	var res Result
	w, ok := g.Mode.(StackWindowOpen)
	if !ok || w.Seq != seq || g.Status != StatusPlaying {
		return res, ErrStale
	}
	g.Mode = w.Resume
	res.note(NoteInfo, "%s's stack window closed", g.Players[w.Caller].Name)
	return res, nil
}

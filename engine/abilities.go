package engine

import "github.com/google/uuid"

// AbilityTarget is the holder's selection for a pending ability.
// K uses both indices, J and 6 use MyIndex, 8 uses OpponentIndex.
type AbilityTarget struct {
	Type          Ability
	MyIndex       *int
	OpponentIndex *int
}

// abilityUsable reports whether holder has a legal target for ab.
//   - K, J: both players hold at least one card
//   - 8: the opponent holds at least one card
//   - 6: the holder has at least one face-down card
func (g *Game) abilityUsable(ab Ability, holder uuid.UUID) bool {
	own := g.Players[holder]
	opp := g.Players[g.OpponentOf(holder)]
	if own == nil || opp == nil {
		return false
	}
	switch ab {
	case AbilityKing, AbilityJack:
		return own.HandCount() > 0 && opp.HandCount() > 0
	case AbilityEight:
		return opp.HandCount() > 0
	case AbilitySix:
		return own.faceDownCount() > 0
	}
	return false
}

// PlayAbilityTarget resolves the holder's selection for the pending ability.
func (g *Game) PlayAbilityTarget(id uuid.UUID, t AbilityTarget) (Result, error) {
	var res Result
	if g.Status != StatusPlaying {
		return res, ErrWrongStatus
	}
	m, ok := g.Mode.(AbilityPending)
	if !ok {
		return res, ErrWrongMode
	}
	if m.Player != id || m.Phase != PhaseChoose {
		return res, ErrNotYourTurn
	}
	if t.Type != m.Ability {
		return res, ErrWrongAbility
	}
	holder := g.Players[id]
	oppID := g.OpponentOf(id)
	opp := g.Players[oppID]

	switch m.Ability {
	case AbilityKing:
		if t.MyIndex == nil || t.OpponentIndex == nil {
			return res, ErrInvalidSlot
		}
		mine, err := slot(holder, *t.MyIndex)
		if err != nil {
			return res, err
		}
		theirs, err := slot(opp, *t.OpponentIndex)
		if err != nil {
			return res, err
		}
		g.swapBlind(holder, *t.MyIndex, mine, opp, *t.OpponentIndex, theirs, &res)
		res.note(NoteInfo, "%s swapped a card with %s", holder.Name, opp.Name)
		g.completeAbility(m, &res)

	case AbilityJack:
		if t.MyIndex == nil {
			return res, ErrInvalidSlot
		}
		if _, err := slot(holder, *t.MyIndex); err != nil {
			return res, err
		}
		m.Phase = PhaseOpponentChoose
		m.SelfIndex = *t.MyIndex
		g.Mode = m
		res.note(NoteInfo, "%s must choose a card to swap with %s", opp.Name, holder.Name)

	case AbilityEight:
		if t.OpponentIndex == nil {
			return res, ErrInvalidSlot
		}
		c, err := slot(opp, *t.OpponentIndex)
		if err != nil {
			return res, err
		}
		c.KnownToOpponent = true
		res.Reveals = append(res.Reveals, Reveal{To: id, Kind: RevealAbility, Card: *c, Owner: oppID, Index: *t.OpponentIndex})
		res.Peeks = append(res.Peeks, Peek{CardID: c.ID, Kind: PeekOpponent})
		res.note(NoteInfo, "%s peeked at one of %s's cards", holder.Name, opp.Name)
		g.completeAbility(m, &res)

	case AbilitySix:
		if t.MyIndex == nil {
			return res, ErrInvalidSlot
		}
		c, err := slot(holder, *t.MyIndex)
		if err != nil {
			return res, err
		}
		if c.FaceUp {
			return res, ErrInvalidSlot
		}
		c.KnownToOwner = true
		res.Reveals = append(res.Reveals, Reveal{To: id, Kind: RevealAbility, Card: *c, Owner: id, Index: *t.MyIndex})
		res.Peeks = append(res.Peeks, Peek{CardID: c.ID, Kind: PeekOwner})
		res.note(NoteInfo, "%s peeked at one of their own cards", holder.Name)
		g.completeAbility(m, &res)
	}
	return res, nil
}

// JackRespond is the opponent's forced answer to a Jack: the chosen slot is
// swapped with the slot the holder picked.
func (g *Game) JackRespond(id uuid.UUID, myIndex int) (Result, error) {
	var res Result
	if g.Status != StatusPlaying {
		return res, ErrWrongStatus
	}
	m, ok := g.Mode.(AbilityPending)
	if !ok || m.Ability != AbilityJack || m.Phase != PhaseOpponentChoose {
		return res, ErrWrongMode
	}
	if id != g.OpponentOf(m.Player) {
		return res, ErrNotYourTurn
	}
	responder := g.Players[id]
	holder := g.Players[m.Player]
	theirs, err := slot(responder, myIndex)
	if err != nil {
		return res, err
	}
	mine, err := slot(holder, m.SelfIndex)
	if err != nil {
		return res, err
	}
	g.swapBlind(holder, m.SelfIndex, mine, responder, myIndex, theirs, &res)
	res.note(NoteInfo, "%s and %s swapped cards", holder.Name, responder.Name)
	g.completeAbility(m, &res)
	return res, nil
}

// swapBlind exchanges two hand cards; both end up hidden.
func (g *Game) swapBlind(a *Player, ai int, ac *Card, b *Player, bi int, bc *Card, res *Result) {
	ac.hide()
	bc.hide()
	a.Hand[ai], b.Hand[bi] = bc, ac
	res.move(LocHand(a.ID, ai), LocHand(b.ID, bi))
	res.move(LocHand(b.ID, bi), LocHand(a.ID, ai))
}

// completeAbility clears the pending ability and resumes the turn flow, or the
// placement it interrupted.
func (g *Game) completeAbility(m AbilityPending, res *Result) {
	g.Mode = Idle{}
	if m.Resume != nil {
		g.Mode = m.Resume
	}
	if m.AdvanceOnDone {
		g.finishTurn(m.Player, res)
		return
	}
	g.checkAttrition(m.Player, res)
}

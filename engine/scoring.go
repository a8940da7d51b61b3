package engine

import (
	"slices"

	"github.com/google/uuid"
)

// scoreGame reveals every card, records each player's hand value and
// finishes the game. A drawn card still held goes to the discard pile first.
func (g *Game) scoreGame(res *Result) {
	if c, pid := g.DrawnCard(); c != nil {
		g.pushDiscard(c)
		res.move(LocDrawn(pid), LocDiscard)
	}
	g.Mode = Idle{}
	for _, pid := range g.PlayerOrder {
		p := g.Players[pid]
		for _, c := range p.Hand {
			if c != nil {
				c.reveal()
			}
		}
		p.Score = CalculateScore(p.Hand)
	}
	g.Status = StatusFinished
	res.Finished = true

	winners := g.Winners()
	names := make([]string, 0, len(winners))
	for _, w := range winners {
		names = append(names, g.Players[w].Name)
	}
	switch len(names) {
	case 0:
	case 1:
		res.note(NoteSuccess, "Game over! %s wins", names[0])
	default:
		res.note(NoteSuccess, "Game over! It's a tie")
	}
}

// Forfeit ends an in-progress round immediately and scores it as it stands.
// The forfeiting player cannot win it.
func (g *Game) Forfeit(id uuid.UUID) (Result, error) {
	var res Result
	p := g.Players[id]
	if p == nil {
		return res, ErrUnknownPlayer
	}
	if g.Status != StatusPhase1 && g.Status != StatusPlaying {
		return res, ErrWrongStatus
	}
	res.note(NoteWarning, "%s left the game", p.Name)
	g.Forfeited = id
	g.scoreGame(&res)
	return res, nil
}

// Scores returns each player's recorded score.
func (g *Game) Scores() map[uuid.UUID]int {
	scores := make(map[uuid.UUID]int, len(g.PlayerOrder))
	for _, pid := range g.PlayerOrder {
		scores[pid] = g.Players[pid].Score
	}
	return scores
}

// Winners returns the lowest scorers of a finished game, leaving out a player
// who forfeited. A tie that includes the player who ended the round goes to
// that player alone.
func (g *Game) Winners() []uuid.UUID {
	if g.Status != StatusFinished || len(g.PlayerOrder) == 0 {
		return nil
	}
	best := 0
	var winners []uuid.UUID
	for _, pid := range g.PlayerOrder {
		if pid == g.Forfeited {
			continue
		}
		s := g.Players[pid].Score
		switch {
		case len(winners) == 0 || s < best:
			best = s
			winners = []uuid.UUID{pid}
		case s == best:
			winners = append(winners, pid)
		}
	}
	if len(winners) > 1 && slices.Contains(winners, g.EndTriggeredBy) {
		return []uuid.UUID{g.EndTriggeredBy}
	}
	return winners
}

// internal/game/engine_adapter.go
package game

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/stack/engine"
	"github.com/sirupsen/logrus"
)

// applyResult delivers the side effects of one engine operation and schedules
// the timers it asks for. The state broadcast always goes last so that clients
// see animations and reveals before the state they lead to.
// Assumes lock is held by caller.
func (g *StackGame) applyResult(res engine.Result) {
	epoch := g.Engine.Epoch

	if res.Dealt {
		// A fresh deal invalidates every pending callback.
		g.stopTimers()
		g.log.WithField("round", epoch).Info("cards dealt")
		g.persistInitialGameState()
		g.schedule(g.HouseRules.PhaseOneDuration, "phase1_end", func() (engine.Result, error) {
			return g.Engine.BeginPlay(epoch)
		})
	}

	if len(res.Movements) > 0 {
		g.fireEvent(GameEvent{Type: EventCardAnimation, Data: AnimationData{Movements: res.Movements}})
	}

	for _, rv := range res.Reveals {
		card := rv.Card
		view := revealedCard(&card)
		switch rv.Kind {
		case engine.RevealAbility:
			g.fireEventToPlayer(rv.To, GameEvent{Type: EventAbilityReveal, Data: RevealData{Card: view, Index: rv.Index, Player: rv.Owner}})
		case engine.RevealStack:
			g.fireEventToPlayer(rv.To, GameEvent{Type: EventStackReveal, Data: StackRevealData{Card: view}})
		}
	}

	for _, pk := range res.Peeks {
		peek := pk
		g.scheduleTimer(g.HouseRules.PeekDuration, "peek_end", func() error {
			return g.Engine.ClearPeek(epoch, peek)
		})
	}

	if res.StackOpened && g.HouseRules.StackWindowDuration > 0 {
		seq := res.StackSeq
		g.schedule(g.HouseRules.StackWindowDuration, "stack_window_timeout", func() (engine.Result, error) {
			return g.Engine.ExpireStackWindow(seq)
		})
	}

	for _, n := range res.Notifications {
		g.notify(n)
	}

	if res.Finished {
		g.stopTimers()
		scores := g.Engine.Scores()
		winners := g.Engine.Winners()
		g.log.WithFields(logrus.Fields{"round": epoch, "scores": scores, "winners": winners}).Info("game finished")
		g.logAction(uuid.Nil, string(EventGameEnd), map[string]interface{}{"scores": scores, "winners": winners})
		g.fireEvent(GameEvent{Type: EventGameEnd, Data: GameEndData{Scores: scores, Winners: winners}})
		g.persistFinalGameState()
	}

	g.broadcastState()
}

// scheduleTimer is schedule for callbacks that only mutate state and have no
// further side effects besides a state broadcast.
// Assumes lock is held by caller.
func (g *StackGame) scheduleTimer(d time.Duration, name string, fn func() error) {
	g.schedule(d, name, func() (engine.Result, error) {
		return engine.Result{}, fn()
	})
}

// CardSnapshot is a fully revealed card for archival.
type CardSnapshot struct {
	ID    uuid.UUID `json:"id"`
	Suit  string    `json:"suit"`
	Rank  string    `json:"rank"`
	Value int       `json:"value"`
}

// PlayerSnapshot is one player's hand and score for archival.
type PlayerSnapshot struct {
	ID    uuid.UUID       `json:"id"`
	Name  string          `json:"name"`
	Hand  []*CardSnapshot `json:"hand"`
	Score int             `json:"score"`
}

// GameSnapshot is the unredacted state of one round.
type GameSnapshot struct {
	GameID         uuid.UUID        `json:"gameId"`
	RoomID         string           `json:"roomId"`
	Round          int              `json:"round"`
	Status         string           `json:"status"`
	Players        []PlayerSnapshot `json:"players"`
	Deck           []CardSnapshot   `json:"deck"`
	Discard        []CardSnapshot   `json:"discard"`
	EndTriggeredBy *uuid.UUID       `json:"endTriggeredBy,omitempty"`
	Winners        []uuid.UUID      `json:"winners,omitempty"`
}

func snapshotCard(c *engine.Card) CardSnapshot {
	return CardSnapshot{ID: c.ID, Suit: string(c.Suit), Rank: string(c.Rank), Value: engine.Value(c)}
}

// snapshot copies the complete state of the current round.
// Assumes lock is held by caller.
func (g *StackGame) snapshot() GameSnapshot {
	e := g.Engine
	s := GameSnapshot{
		GameID:  g.ID,
		RoomID:  g.RoomID,
		Round:   e.Epoch,
		Status:  string(e.Status),
		Players: make([]PlayerSnapshot, 0, len(e.PlayerOrder)),
		Deck:    make([]CardSnapshot, 0, len(e.Deck)),
		Discard: make([]CardSnapshot, 0, len(e.DiscardPile)),
		Winners: e.Winners(),
	}
	for _, pid := range e.PlayerOrder {
		p := e.Players[pid]
		ps := PlayerSnapshot{ID: p.ID, Name: p.Name, Score: p.Score, Hand: make([]*CardSnapshot, len(p.Hand))}
		for i, c := range p.Hand {
			if c != nil {
				cs := snapshotCard(c)
				ps.Hand[i] = &cs
			}
		}
		s.Players = append(s.Players, ps)
	}
	for _, c := range e.Deck {
		s.Deck = append(s.Deck, snapshotCard(c))
	}
	for _, c := range e.DiscardPile {
		s.Discard = append(s.Discard, snapshotCard(c))
	}
	if e.EndTriggeredBy != uuid.Nil {
		id := e.EndTriggeredBy
		s.EndTriggeredBy = &id
	}
	return s
}

// persistInitialGameState writes the deal to the archive in the background.
// Assumes lock is held by caller.
func (g *StackGame) persistInitialGameState() {
	if g.Archive == nil {
		return
	}
	snap := g.snapshot()
	archive := g.Archive
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := archive.UpsertInitialGameState(ctx, snap.GameID, snap.Round, snap.RoomID, snap); err != nil {
			g.log.WithError(err).WithField("round", snap.Round).Error("failed to persist initial game state")
		}
	}()
}

// persistFinalGameState writes the scored round to the archive in the background.
// Assumes lock is held by caller.
func (g *StackGame) persistFinalGameState() {
	if g.Archive == nil {
		return
	}
	snap := g.snapshot()
	archive := g.Archive
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := archive.StoreFinalGameState(ctx, snap.GameID, snap.Round, snap.RoomID, snap); err != nil {
			g.log.WithError(err).WithField("round", snap.Round).Error("failed to persist final game state")
		}
	}()
}

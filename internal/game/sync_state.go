// internal/game/sync_state.go
package game

import (
	"github.com/google/uuid"
	"github.com/jason-s-yu/stack/engine"
)

// Sentinels written in place of a card the viewer may not see.
const (
	HiddenCardID = "hidden"
	UnknownRank  = "?"
	UnknownSuit  = "?"
)

// CardView is a card as one viewer is allowed to see it.
type CardView struct {
	ID     string `json:"id"`
	Suit   string `json:"suit"`
	Rank   string `json:"rank"`
	Value  *int   `json:"value,omitempty"`
	FaceUp bool   `json:"faceUp"`
	Hidden bool   `json:"hidden"`
}

// PlayerView is one player's public state plus their hand as the viewer sees it.
// Hand keeps slot positions; emptied slots are null.
type PlayerView struct {
	ID          uuid.UUID   `json:"id"`
	Seat        int         `json:"seat"`
	Name        string      `json:"name"`
	Hand        []*CardView `json:"hand"`
	HandCount   int         `json:"handCount"`
	Score       int         `json:"score"`
	Ready       bool        `json:"ready"`
	IsFinalTurn bool        `json:"isFinalTurn"`
	Connected   bool        `json:"connected"`
}

// AbilityView describes the pending ability.
type AbilityView struct {
	Type   string    `json:"type"`
	Player uuid.UUID `json:"player"`
	Phase  string    `json:"phase"`
}

// StackWindowView describes the stack window.
type StackWindowView struct {
	Active      bool   `json:"active"`
	Caller      string `json:"caller,omitempty"`
	TargetValue string `json:"targetValue,omitempty"`
}

// GameView is the full game state redacted for a single viewer.
type GameView struct {
	GameID          uuid.UUID       `json:"gameId"`
	RoomID          string          `json:"roomId"`
	Viewer          uuid.UUID       `json:"viewer"`
	Status          string          `json:"status"`
	Mode            string          `json:"mode"`
	PlayerOrder     []uuid.UUID     `json:"playerOrder"`
	TurnIndex       int             `json:"turnIndex"`
	CurrentPlayerID string          `json:"currentPlayerId,omitempty"`
	DeckSize        int             `json:"deckSize"`
	DiscardSize     int             `json:"discardSize"`
	DiscardTop      *CardView       `json:"discardTop,omitempty"`
	DrawnCard       *CardView       `json:"drawnCard,omitempty"`
	DrawnBy         string          `json:"drawnBy,omitempty"`
	ActiveAbility   *AbilityView    `json:"activeAbility,omitempty"`
	StackWindow     StackWindowView `json:"stackWindow"`
	EndTriggeredBy  string          `json:"endTriggeredBy,omitempty"`
	Players         []PlayerView    `json:"players"`
}

// Project builds the view of g that viewer is entitled to. It reads g without
// mutating it, and the result shares no memory with g.
func Project(g *engine.Game, viewer uuid.UUID) GameView {
	finished := g.Status == engine.StatusFinished
	v := GameView{
		Viewer:      viewer,
		Status:      string(g.Status),
		Mode:        g.Mode.Name(),
		PlayerOrder: append([]uuid.UUID(nil), g.PlayerOrder...),
		TurnIndex:   g.TurnIndex,
		DeckSize:    len(g.Deck),
		DiscardSize: len(g.DiscardPile),
		Players:     make([]PlayerView, 0, len(g.PlayerOrder)),
	}
	if g.Status == engine.StatusPlaying {
		v.CurrentPlayerID = g.ActivePlayerID().String()
	}
	if n := len(g.DiscardPile); n > 0 {
		v.DiscardTop = revealedCard(g.DiscardPile[n-1])
	}
	if c, by := g.DrawnCard(); c != nil {
		v.DrawnBy = by.String()
		if by == viewer && !finished {
			v.DrawnCard = revealedCard(c)
		} else {
			v.DrawnCard = hiddenCard()
		}
	}
	if a, ok := g.ActiveAbility(); ok {
		v.ActiveAbility = &AbilityView{Type: string(a.Ability), Player: a.Player, Phase: string(a.Phase)}
	}
	if w, ok := g.StackWindow(); ok {
		v.StackWindow = StackWindowView{Active: true, Caller: w.Caller.String(), TargetValue: string(w.TargetRank)}
	}
	if g.EndTriggeredBy != uuid.Nil {
		v.EndTriggeredBy = g.EndTriggeredBy.String()
	}

	_, viewerSeated := g.Players[viewer]
	for _, pid := range g.PlayerOrder {
		p := g.Players[pid]
		pv := PlayerView{
			ID:          p.ID,
			Seat:        p.Seat,
			Name:        p.Name,
			Hand:        make([]*CardView, len(p.Hand)),
			HandCount:   p.HandCount(),
			Score:       p.Score,
			Ready:       p.Ready,
			IsFinalTurn: p.IsFinalTurn,
		}
		for i, c := range p.Hand {
			if c == nil {
				continue
			}
			if canSee(g, c, pid, i, viewer, viewerSeated) {
				pv.Hand[i] = revealedCard(c)
			} else {
				pv.Hand[i] = hiddenCard()
			}
		}
		v.Players = append(v.Players, pv)
	}
	return v
}

// canSee applies the visibility rules for a hand card at slot idx owned by owner.
func canSee(g *engine.Game, c *engine.Card, owner uuid.UUID, idx int, viewer uuid.UUID, viewerSeated bool) bool {
	switch {
	case g.Status == engine.StatusFinished:
		return true
	case c.FaceUp:
		return true
	case !viewerSeated:
		return false
	case viewer == owner && g.Status == engine.StatusPhase1 && (idx == 2 || idx == 3):
		return true
	case viewer == owner:
		return c.KnownToOwner
	default:
		return c.KnownToOpponent
	}
}

func revealedCard(c *engine.Card) *CardView {
	val := engine.Value(c)
	return &CardView{
		ID:     c.ID.String(),
		Suit:   string(c.Suit),
		Rank:   string(c.Rank),
		Value:  &val,
		FaceUp: c.FaceUp,
	}
}

func hiddenCard() *CardView {
	return &CardView{ID: HiddenCardID, Suit: UnknownSuit, Rank: UnknownRank, Hidden: true}
}

// GetGameView returns the current view for forUser, including connection
// flags and room identity.
func (g *StackGame) GetGameView(forUser uuid.UUID) GameView {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.gameView(forUser)
}

// gameView is GetGameView without locking.
// Assumes lock is held by caller.
func (g *StackGame) gameView(forUser uuid.UUID) GameView {
	v := Project(g.Engine, forUser)
	v.GameID = g.ID
	v.RoomID = g.RoomID
	for i := range v.Players {
		v.Players[i].Connected = g.connected[v.Players[i].ID]
	}
	return v
}

// Package engine implements the rules of Stack, a two-player memory and
// card-matching game in the Golf family.
//
// The engine is a pure state machine: it holds no locks, performs no I/O and
// schedules no timers. Every operation validates the current status and mode,
// mutates the Game, and reports side effects through a Result. Callers are
// expected to serialize access to a Game.
package engine

import (
	"math/rand/v2"

	"github.com/google/uuid"
)

// MaxPlayers is the number of seats in a game.
const MaxPlayers = 2

// bottomSlots are the hand slots privately revealed to their owner during phase1.
var bottomSlots = [2]int{2, 3}

// Status is the game lifecycle stage.
type Status string

const (
	StatusLobby    Status = "lobby"
	StatusPhase1   Status = "phase1"
	StatusPlaying  Status = "playing"
	StatusFinished Status = "finished"
)

// Player is one seated participant.
type Player struct {
	ID          uuid.UUID
	Seat        int // 1 or 2.
	Name        string
	Hand        []*Card // nil entries are emptied slots.
	Score       int
	Ready       bool
	IsFinalTurn bool
}

// HandCount returns the number of cards actually held.
func (p *Player) HandCount() int {
	n := 0
	for _, c := range p.Hand {
		if c != nil {
			n++
		}
	}
	return n
}

// faceDownCount returns the number of held cards that are not face-up.
func (p *Player) faceDownCount() int {
	n := 0
	for _, c := range p.Hand {
		if c != nil && !c.FaceUp {
			n++
		}
	}
	return n
}

// allFaceUpOrEmpty reports whether every held card is face-up (vacuously true for an empty hand).
func (p *Player) allFaceUpOrEmpty() bool {
	return p.faceDownCount() == 0
}

// Game is the root aggregate for one room.
type Game struct {
	Status      Status
	Players     map[uuid.UUID]*Player
	PlayerOrder []uuid.UUID
	TurnIndex   int

	Deck        []*Card // Top of deck is the last element.
	DiscardPile []*Card // Top of pile is the last element.

	Mode           Mode
	EndTriggeredBy uuid.UUID // uuid.Nil until someone ends the round.
	Forfeited      uuid.UUID // Player who abandoned the round; never a winner.

	// Epoch increments on every deal; deferred callbacks carry it as their token.
	Epoch int
	// stackSeq numbers stack windows so a window timeout can detect staleness.
	stackSeq int

	rng *rand.Rand
}

// Option configures a Game.
type Option func(*Game)

// WithRand sets the shuffle source, mainly for deterministic tests.
func WithRand(rng *rand.Rand) Option {
	return func(g *Game) { g.rng = rng }
}

// NewGame returns an empty game in the lobby.
func NewGame(opts ...Option) *Game {
	g := &Game{
		Status:  StatusLobby,
		Players: make(map[uuid.UUID]*Player),
		Mode:    Idle{},
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return g
}

// Player returns the seated player with the given id, or nil.
func (g *Game) Player(id uuid.UUID) *Player {
	return g.Players[id]
}

// ActivePlayerID returns the id of the player whose turn it is, or uuid.Nil.
func (g *Game) ActivePlayerID() uuid.UUID {
	if len(g.PlayerOrder) == 0 {
		return uuid.Nil
	}
	return g.PlayerOrder[g.TurnIndex]
}

// OpponentOf returns the other seated player's id, or uuid.Nil.
func (g *Game) OpponentOf(id uuid.UUID) uuid.UUID {
	for _, pid := range g.PlayerOrder {
		if pid != id {
			return pid
		}
	}
	return uuid.Nil
}

// DrawnCard returns the card held by the active player, if any, including one
// set aside while a stack window or an inherited ability is resolved.
func (g *Game) DrawnCard() (*Card, uuid.UUID) {
	if m, ok := heldPlacement(g.Mode); ok {
		return m.Card, m.Player
	}
	return nil, uuid.Nil
}

// ActiveAbility returns the pending ability, looking through an open stack window.
func (g *Game) ActiveAbility() (AbilityPending, bool) {
	switch m := g.Mode.(type) {
	case AbilityPending:
		return m, true
	case StackWindowOpen:
		if a, ok := m.Resume.(AbilityPending); ok {
			return a, true
		}
	}
	return AbilityPending{}, false
}

// StackWindow returns the open stack window, if any.
func (g *Game) StackWindow() (StackWindowOpen, bool) {
	m, ok := g.Mode.(StackWindowOpen)
	return m, ok
}

// Join seats a new player in the lobby. Joining twice returns the existing player.
func (g *Game) Join(id uuid.UUID, name string) (*Player, error) {
	if p, ok := g.Players[id]; ok {
		return p, nil
	}
	if g.Status != StatusLobby {
		return nil, ErrWrongStatus
	}
	if len(g.PlayerOrder) >= MaxPlayers {
		return nil, ErrRoomFull
	}
	p := &Player{ID: id, Seat: len(g.PlayerOrder) + 1, Name: name}
	g.Players[id] = p
	g.PlayerOrder = append(g.PlayerOrder, id)
	return p, nil
}

// SetReady marks a lobby player ready and deals once both seats are ready.
func (g *Game) SetReady(id uuid.UUID) (Result, error) {
	var res Result
	p := g.Players[id]
	if p == nil {
		return res, ErrUnknownPlayer
	}
	if g.Status != StatusLobby {
		return res, ErrWrongStatus
	}
	if p.Ready {
		return res, ErrWrongStatus
	}
	p.Ready = true
	res.note(NoteInfo, "%s is ready", p.Name)

	if len(g.PlayerOrder) < MaxPlayers {
		return res, nil
	}
	for _, pid := range g.PlayerOrder {
		if !g.Players[pid].Ready {
			return res, nil
		}
	}
	if err := g.deal(&res); err != nil {
		return res, err
	}
	return res, nil
}

// PlayAgain resets a finished game in place and deals a new round.
func (g *Game) PlayAgain(id uuid.UUID) (Result, error) {
	var res Result
	if g.Players[id] == nil {
		return res, ErrUnknownPlayer
	}
	if g.Status != StatusFinished {
		return res, ErrWrongStatus
	}
	if err := g.deal(&res); err != nil {
		return res, err
	}
	res.note(NoteInfo, "%s started a new round", g.Players[id].Name)
	return res, nil
}

// deal gathers all 54 cards, shuffles them and deals four to each player,
// entering phase1 with the bottom slots privately known to their owners.
func (g *Game) deal(res *Result) error {
	if len(g.PlayerOrder) != MaxPlayers {
		return ErrNotReadyToDeal
	}
	cards := g.collectCards()
	if len(cards) == 0 {
		cards = NewDeck()
	}
	Shuffle(cards, g.rng)
	g.Deck = cards

	for _, pid := range g.PlayerOrder {
		p := g.Players[pid]
		p.Hand = make([]*Card, 0, HandSize)
		p.Score = 0
		p.IsFinalTurn = false
	}
	for range HandSize {
		for _, pid := range g.PlayerOrder {
			p := g.Players[pid]
			p.Hand = append(p.Hand, g.drawFromDeck())
			res.move(LocDeck, LocHand(pid, len(p.Hand)-1))
		}
	}
	for _, pid := range g.PlayerOrder {
		for _, idx := range bottomSlots {
			g.Players[pid].Hand[idx].KnownToOwner = true
		}
	}

	g.Status = StatusPhase1
	g.TurnIndex = 0
	g.Mode = Idle{}
	g.EndTriggeredBy = uuid.Nil
	g.Forfeited = uuid.Nil
	g.Epoch++
	res.Dealt = true
	res.note(NoteInfo, "Cards dealt. Memorize your bottom two cards")
	return nil
}

// BeginPlay ends the phase1 memorization window. epoch must match the deal it
// was scheduled for; otherwise ErrStale is returned and nothing changes.
func (g *Game) BeginPlay(epoch int) (Result, error) {
	var res Result
	if g.Status != StatusPhase1 || epoch != g.Epoch {
		return res, ErrStale
	}
	for _, pid := range g.PlayerOrder {
		for _, c := range g.Players[pid].Hand {
			if c != nil {
				c.KnownToOwner = false
			}
		}
	}
	g.Status = StatusPlaying
	g.Mode = Idle{}
	res.Started = true
	res.note(NoteInfo, "%s's turn", g.Players[g.ActivePlayerID()].Name)
	return res, nil
}

// ClearPeek ends a timed private peek. It is a no-op (ErrStale) if the game
// was re-dealt since the peek started or the card no longer carries the flag.
func (g *Game) ClearPeek(epoch int, peek Peek) error {
	if epoch != g.Epoch {
		return ErrStale
	}
	c := g.findHandCard(peek.CardID)
	if c == nil {
		return ErrStale
	}
	switch peek.Kind {
	case PeekOwner:
		if !c.KnownToOwner {
			return ErrStale
		}
		c.KnownToOwner = false
	case PeekOpponent:
		if !c.KnownToOpponent {
			return ErrStale
		}
		c.KnownToOpponent = false
	}
	return nil
}

// findHandCard locates a card by id across all hands.
func (g *Game) findHandCard(id uuid.UUID) *Card {
	for _, pid := range g.PlayerOrder {
		for _, c := range g.Players[pid].Hand {
			if c != nil && c.ID == id {
				return c
			}
		}
	}
	return nil
}

// slot returns the card at idx in p's hand, or ErrInvalidSlot if the index is
// out of range or the slot is empty.
func slot(p *Player, idx int) (*Card, error) {
	if idx < 0 || idx >= len(p.Hand) || p.Hand[idx] == nil {
		return nil, ErrInvalidSlot
	}
	return p.Hand[idx], nil
}

// AllCards returns every card the game currently owns, across all containers.
func (g *Game) AllCards() []*Card {
	all := make([]*Card, 0, DeckSize)
	all = append(all, g.Deck...)
	all = append(all, g.DiscardPile...)
	for _, pid := range g.PlayerOrder {
		for _, c := range g.Players[pid].Hand {
			if c != nil {
				all = append(all, c)
			}
		}
	}
	if c, _ := g.DrawnCard(); c != nil {
		all = append(all, c)
	}
	return all
}

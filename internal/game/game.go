// internal/game/game.go
package game

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/stack/engine"
	"github.com/jason-s-yu/stack/internal/cache"
	"github.com/jason-s-yu/stack/internal/models"
	"github.com/sirupsen/logrus"
)

// GameEventType names an outbound websocket event.
type GameEventType string

// Outbound event types.
const (
	EventGameStateUpdate  GameEventType = "game_state_update"  // Private: full redacted state.
	EventGameNotification GameEventType = "game_notification"  // Public: informational message.
	EventCardAnimation    GameEventType = "card_animation"     // Public: card provenance for presentation.
	EventAbilityReveal    GameEventType = "ability_reveal"     // Private: 8 or 6 peek result.
	EventStackReveal      GameEventType = "stack_reveal"       // Private: the card a failed stack exposed.
	EventGameEnd          GameEventType = "game_end"           // Public: final scores and winners.
)

// GameEvent is the envelope for every outbound message.
type GameEvent struct {
	Type GameEventType `json:"type"`
	Data interface{}   `json:"data,omitempty"`
}

// NotificationData is the payload of game_notification.
type NotificationData struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// AnimationData is the payload of card_animation.
type AnimationData struct {
	Movements []engine.Movement `json:"movements"`
}

// RevealData is the payload of ability_reveal.
type RevealData struct {
	Card   *CardView `json:"card"`
	Index  int       `json:"index"`
	Player uuid.UUID `json:"player"`
}

// StackRevealData is the payload of stack_reveal.
type StackRevealData struct {
	Card *CardView `json:"card"`
}

// GameEndData is the payload of game_end.
type GameEndData struct {
	Scores  map[uuid.UUID]int `json:"scores"`
	Winners []uuid.UUID       `json:"winners"`
}

// ActionPublisher receives a record of every accepted action.
type ActionPublisher interface {
	PublishGameAction(ctx context.Context, rec cache.GameActionRecord) error
}

// GameArchive stores the deal and the result of each round.
type GameArchive interface {
	UpsertInitialGameState(ctx context.Context, gameID uuid.UUID, round int, roomID string, snapshot any) error
	StoreFinalGameState(ctx context.Context, gameID uuid.UUID, round int, roomID string, snapshot any) error
}

// StackGame is the runtime for one room: it serializes actions and timer
// callbacks onto a single engine.Game and delivers the results.
type StackGame struct {
	ID     uuid.UUID
	RoomID string

	HouseRules HouseRules
	Engine     *engine.Game

	Mu sync.Mutex // Protects everything below and Engine.

	connected   map[uuid.UUID]bool
	timers      map[*time.Timer]struct{}
	actionIndex int
	closed      bool

	// BroadcastToPlayerFn delivers an event to one player's connection.
	BroadcastToPlayerFn func(playerID uuid.UUID, ev GameEvent)
	// Historian, if set, receives every accepted action asynchronously.
	Historian ActionPublisher
	// Archive, if set, stores the initial deal and final result of each round.
	Archive GameArchive

	log *logrus.Entry
}

// NewStackGame creates the runtime for roomID with an empty lobby.
func NewStackGame(roomID string, rules HouseRules, opts ...engine.Option) *StackGame {
	id := uuid.New()
	return &StackGame{
		ID:         id,
		RoomID:     roomID,
		HouseRules: rules,
		Engine:     engine.NewGame(opts...),
		connected:  make(map[uuid.UUID]bool),
		timers:     make(map[*time.Timer]struct{}),
		log:        logrus.WithFields(logrus.Fields{"game": id, "room": roomID}),
	}
}

// ErrClosed is returned by Join once the room has been removed from the registry.
var ErrClosed = errors.New("room closed")

// Join seats playerID in the lobby, or marks an already seated player
// connected again, and broadcasts the new state.
func (g *StackGame) Join(playerID uuid.UUID, name string) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if g.closed {
		return ErrClosed
	}
	_, seated := g.connected[playerID]
	p, err := g.Engine.Join(playerID, name)
	if err != nil {
		g.log.WithError(err).WithField("player", playerID).Debug("join rejected")
		return err
	}
	wasConnected := g.connected[playerID]
	g.connected[playerID] = true
	g.log.WithFields(logrus.Fields{"player": playerID, "seat": p.Seat}).Info("player joined")
	g.logAction(playerID, models.EventJoinGame, map[string]interface{}{"playerName": name, "seat": p.Seat})
	switch {
	case !seated:
		g.notify(engine.Notification{Message: p.Name + " joined the room", Kind: engine.NoteInfo})
	case !wasConnected:
		g.notify(engine.Notification{Message: p.Name + " reconnected", Kind: engine.NoteInfo})
	}
	g.broadcastState()
	return nil
}

// HasPlayer reports whether playerID holds a seat.
func (g *StackGame) HasPlayer(playerID uuid.UUID) bool {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.Engine.Player(playerID) != nil
}

// HandleMessage applies one inbound event from playerID. Illegal or malformed
// actions are logged and dropped without touching the game.
func (g *StackGame) HandleMessage(playerID uuid.UUID, msg models.ClientMessage) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	entry := g.log.WithFields(logrus.Fields{"player": playerID, "event": msg.Event})
	if g.Engine.Player(playerID) == nil {
		entry.Debug("event from player without a seat ignored")
		return
	}

	res, err := g.dispatch(playerID, msg)
	if err != nil {
		entry.WithError(err).Debug("action ignored")
		return
	}
	g.logAction(playerID, msg.Event, payloadMap(msg))
	g.applyResult(res)
}

// errMalformed marks an undecodable payload.
var errMalformed = errors.New("malformed payload")

// dispatch routes an event to the engine.
// Assumes lock is held by caller.
func (g *StackGame) dispatch(playerID uuid.UUID, msg models.ClientMessage) (engine.Result, error) {
	switch msg.Event {
	case models.EventPlayerReady:
		return g.Engine.SetReady(playerID)
	case models.EventDrawDeck:
		return g.Engine.DrawDeck(playerID)
	case models.EventDrawDiscard:
		idx, err := decodeHandIndex(msg)
		if err != nil {
			return engine.Result{}, err
		}
		return g.Engine.DrawDiscard(playerID, idx)
	case models.EventSwapDrawnCard:
		idx, err := decodeHandIndex(msg)
		if err != nil {
			return engine.Result{}, err
		}
		return g.Engine.SwapDrawn(playerID, idx)
	case models.EventDiscardDrawnCard:
		return g.Engine.DiscardDrawn(playerID)
	case models.EventCallStack:
		return g.Engine.CallStack(playerID)
	case models.EventExecuteStack:
		return g.handleExecuteStack(playerID, msg)
	case models.EventPlayAbilityTarget:
		return g.handleAbilityTarget(playerID, msg)
	case models.EventJackRespond:
		return g.handleJackRespond(playerID, msg)
	case models.EventCallIt:
		return g.Engine.CallIt(playerID)
	case models.EventPlayAgain:
		return g.Engine.PlayAgain(playerID)
	}
	return engine.Result{}, errors.New("unknown event")
}

func decodeHandIndex(msg models.ClientMessage) (int, error) {
	var p models.HandIndexPayload
	if err := msg.Decode(&p); err != nil || p.HandIndex == nil {
		return 0, errMalformed
	}
	return *p.HandIndex, nil
}

// handleExecuteStack decodes and applies an execute_stack event.
// Assumes lock is held by caller.
func (g *StackGame) handleExecuteStack(playerID uuid.UUID, msg models.ClientMessage) (engine.Result, error) {
	var p models.ExecuteStackPayload
	if err := msg.Decode(&p); err != nil || p.HandIndex == nil {
		return engine.Result{}, errMalformed
	}
	target, err := uuid.Parse(p.TargetPlayerID)
	if err != nil {
		return engine.Result{}, errMalformed
	}
	return g.Engine.ExecuteStack(playerID, engine.StackTarget{
		TargetPlayer: target,
		HandIndex:    *p.HandIndex,
		GiveIndex:    p.OffensiveGiveIndex,
	})
}

// HandleDisconnect marks playerID disconnected. Under ForfeitOnDisconnect an
// in-progress round is scored immediately; otherwise the game waits.
func (g *StackGame) HandleDisconnect(playerID uuid.UUID) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	p := g.Engine.Player(playerID)
	if p == nil || !g.connected[playerID] {
		return
	}
	g.connected[playerID] = false
	g.log.WithField("player", playerID).Info("player disconnected")
	g.logAction(playerID, "player_disconnect", nil)
	g.notify(engine.Notification{Message: p.Name + " disconnected", Kind: engine.NoteWarning})

	if g.HouseRules.ForfeitOnDisconnect {
		res, err := g.Engine.Forfeit(playerID)
		if err == nil {
			g.applyResult(res)
			return
		}
	}
	g.broadcastState()
}

// ConnectedCount returns the number of connected players.
func (g *StackGame) ConnectedCount() int {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	n := 0
	for _, ok := range g.connected {
		if ok {
			n++
		}
	}
	return n
}

// schedule runs fn under the game lock after d. fn carries its own state
// token and returns engine.ErrStale when the game has moved on, in which case
// nothing is delivered.
// Assumes lock is held by caller.
func (g *StackGame) schedule(d time.Duration, name string, fn func() (engine.Result, error)) {
	var t *time.Timer
	t = time.AfterFunc(d, func() {
		g.Mu.Lock()
		defer g.Mu.Unlock()
		delete(g.timers, t)
		if g.closed {
			return
		}

		res, err := fn()
		if err != nil {
			g.log.WithError(err).WithField("timer", name).Debug("deferred callback skipped")
			return
		}
		g.logAction(uuid.Nil, name, nil)
		g.applyResult(res)
	})
	g.timers[t] = struct{}{}
}

// stopTimers cancels every pending deferred callback.
// Assumes lock is held by caller.
func (g *StackGame) stopTimers() {
	for t := range g.timers {
		t.Stop()
		delete(g.timers, t)
	}
}

// Close cancels pending timers and refuses further joins.
func (g *StackGame) Close() {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	g.closed = true
	g.stopTimers()
}

// CloseIfIdle closes the game only if nobody is connected, checking and
// closing under one lock so a concurrent Join either counts or fails.
func (g *StackGame) CloseIfIdle() bool {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if g.closed {
		return false
	}
	for _, ok := range g.connected {
		if ok {
			return false
		}
	}
	g.closed = true
	g.stopTimers()
	return true
}

// fireEventToPlayer sends an event to a connected player.
// Assumes lock is held by caller.
func (g *StackGame) fireEventToPlayer(playerID uuid.UUID, ev GameEvent) {
	if g.BroadcastToPlayerFn == nil {
		g.log.WithField("event", ev.Type).Warn("BroadcastToPlayerFn is nil, event dropped")
		return
	}
	if !g.connected[playerID] {
		return
	}
	g.BroadcastToPlayerFn(playerID, ev)
}

// fireEvent sends the same event to every connected player.
// Assumes lock is held by caller.
func (g *StackGame) fireEvent(ev GameEvent) {
	for _, pid := range g.Engine.PlayerOrder {
		g.fireEventToPlayer(pid, ev)
	}
}

// notify broadcasts an informational notification.
// Assumes lock is held by caller.
func (g *StackGame) notify(n engine.Notification) {
	g.fireEvent(GameEvent{Type: EventGameNotification, Data: NotificationData{Message: n.Message, Type: string(n.Kind)}})
}

// broadcastState sends each connected player their own redacted view.
// Assumes lock is held by caller.
func (g *StackGame) broadcastState() {
	for _, pid := range g.Engine.PlayerOrder {
		if !g.connected[pid] {
			continue
		}
		view := g.gameView(pid)
		g.fireEventToPlayer(pid, GameEvent{Type: EventGameStateUpdate, Data: view})
	}
}

// logAction sends an action record to the historian.
// Increments the internal action index for ordering.
// Assumes lock is held by caller.
func (g *StackGame) logAction(actorID uuid.UUID, actionType string, payload map[string]interface{}) {
	g.actionIndex++
	if g.Historian == nil {
		return
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}
	record := cache.GameActionRecord{
		GameID:        g.ID,
		RoomID:        g.RoomID,
		ActionIndex:   g.actionIndex,
		ActorUserID:   actorID,
		ActionType:    actionType,
		ActionPayload: payload,
		Timestamp:     time.Now().UnixMilli(),
	}
	historian := g.Historian
	go func(rec cache.GameActionRecord) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := historian.PublishGameAction(ctx, rec); err != nil {
			g.log.WithError(err).WithFields(logrus.Fields{"index": rec.ActionIndex, "action": rec.ActionType}).Error("failed publishing action")
		}
	}(record)
}

// payloadMap decodes a message payload into a generic map for the historian.
func payloadMap(msg models.ClientMessage) map[string]interface{} {
	out := make(map[string]interface{})
	if len(msg.Data) > 0 {
		_ = json.Unmarshal(msg.Data, &out)
	}
	return out
}

// internal/models/messages.go
package models

import "encoding/json"

// Inbound event names.
const (
	EventJoinGame          = "join_game"
	EventPlayerReady       = "player_ready"
	EventDrawDeck          = "draw_deck"
	EventDrawDiscard       = "draw_discard"
	EventSwapDrawnCard     = "swap_drawn_card"
	EventDiscardDrawnCard  = "discard_drawn_card"
	EventCallStack         = "call_stack"
	EventExecuteStack      = "execute_stack"
	EventPlayAbilityTarget = "play_ability_target"
	EventJackRespond       = "jack_respond"
	EventCallIt            = "call_it"
	EventPlayAgain         = "play_again"
)

// ClientMessage is the envelope every inbound websocket frame decodes into.
// Data is decoded lazily into the payload type matching Event.
type ClientMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// JoinGamePayload requests a seat in a room, creating the room if needed.
type JoinGamePayload struct {
	RoomID     string `json:"roomId"`
	PlayerName string `json:"playerName"`
}

// HandIndexPayload carries a single hand slot (draw_discard, swap_drawn_card).
type HandIndexPayload struct {
	HandIndex *int `json:"handIndex"`
}

// ExecuteStackPayload resolves an open stack window.
type ExecuteStackPayload struct {
	TargetPlayerID     string `json:"targetPlayerId"`
	HandIndex          *int   `json:"handIndex"`
	OffensiveGiveIndex *int   `json:"offensiveGiveIndex,omitempty"`
}

// AbilityTargetData selects the slots for an ability.
type AbilityTargetData struct {
	MyIndex       *int `json:"myIndex,omitempty"`
	OpponentIndex *int `json:"opponentIndex,omitempty"`
}

// PlayAbilityTargetPayload resolves a pending ability.
type PlayAbilityTargetPayload struct {
	Type       string            `json:"type"`
	TargetData AbilityTargetData `json:"targetData"`
}

// JackRespondPayload is the opponent's slot for a Jack swap.
type JackRespondPayload struct {
	MyIndex *int `json:"myIndex"`
}

// Decode unmarshals the message data into v. An absent payload leaves v untouched.
func (m ClientMessage) Decode(v any) error {
	if len(m.Data) == 0 || string(m.Data) == "null" {
		return nil
	}
	return json.Unmarshal(m.Data, v)
}

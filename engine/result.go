package engine

import (
	"fmt"

	"github.com/google/uuid"
)

// NotificationKind classifies a human-readable notification. None of them are errors.
type NotificationKind string

const (
	NoteInfo    NotificationKind = "info"
	NoteSuccess NotificationKind = "success"
	NoteWarning NotificationKind = "warning"
)

// Notification is an informational message for every player in the room.
type Notification struct {
	Message string
	Kind    NotificationKind
}

// Movement describes a card moving between two locations, for presentation only.
type Movement struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Location labels used in movements.
const (
	LocDeck    = "deck"
	LocDiscard = "discard"
)

// LocHand labels a hand slot.
func LocHand(player uuid.UUID, idx int) string {
	return fmt.Sprintf("hand:%s:%d", player, idx)
}

// LocDrawn labels the drawn-card holder of a player.
func LocDrawn(player uuid.UUID) string {
	return "drawn:" + player.String()
}

// RevealKind distinguishes the two private reveal messages.
type RevealKind string

const (
	RevealAbility RevealKind = "ability"
	RevealStack   RevealKind = "stack"
)

// Reveal is a private, one-off disclosure of a card to a single player.
// Card is a copy taken at reveal time.
type Reveal struct {
	To    uuid.UUID
	Kind  RevealKind
	Card  Card
	Owner uuid.UUID
	Index int
}

// PeekKind names which private flag a timed peek set.
type PeekKind string

const (
	PeekOwner    PeekKind = "owner"
	PeekOpponent PeekKind = "opponent"
)

// Peek is a timed private visibility that the caller must clear later with ClearPeek.
type Peek struct {
	CardID uuid.UUID
	Kind   PeekKind
}

// Result collects the side effects of one operation for the room runtime to
// deliver. The engine itself performs no I/O and schedules nothing.
type Result struct {
	Notifications []Notification
	Movements     []Movement
	Reveals       []Reveal
	Peeks         []Peek

	Dealt       bool // Cards were dealt; phase1 began.
	Started     bool // phase1 ended; play began.
	StackOpened bool // A stack window opened; see StackSeq.
	StackSeq    int
	Finished    bool // The game was scored.
}

func (r *Result) note(kind NotificationKind, format string, args ...any) {
	r.Notifications = append(r.Notifications, Notification{Message: fmt.Sprintf(format, args...), Kind: kind})
}

func (r *Result) move(from, to string) {
	r.Movements = append(r.Movements, Movement{From: from, To: to})
}

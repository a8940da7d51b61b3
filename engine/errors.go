package engine

import "errors"

// Errors returned for actions that violate the current state. Callers treat all
// of them as illegal actions: the game is left untouched.
var (
	ErrWrongStatus    = errors.New("action not allowed in current status")
	ErrRoomFull       = errors.New("game already has two players")
	ErrUnknownPlayer  = errors.New("player is not seated in this game")
	ErrNotYourTurn    = errors.New("not the active player")
	ErrWrongMode      = errors.New("action not allowed in current mode")
	ErrInvalidSlot    = errors.New("invalid hand slot")
	ErrDeckEmpty      = errors.New("deck is empty")
	ErrDiscardEmpty   = errors.New("discard pile is empty")
	ErrNotCaller      = errors.New("only the stack caller may execute")
	ErrWrongAbility   = errors.New("ability type does not match pending ability")
	ErrAlreadyCalled  = errors.New("end of round already called")
	ErrMissingGive    = errors.New("offensive stack requires a card to give")
	ErrStale          = errors.New("deferred callback is stale")
	ErrNotReadyToDeal = errors.New("two ready players are required")
)

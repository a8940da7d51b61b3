package engine

import "github.com/google/uuid"

// Mode is the engine's current interaction mode. Exactly one mode is active at
// a time; every operation type-switches on it and rejects the modes it does not
// handle.
type Mode interface {
	// Name is the wire label for the mode.
	Name() string
	isMode()
}

// Idle: the active player may draw, call it, or anyone may call a stack.
type Idle struct{}

// AwaitingPlacement: Player holds Card drawn from the deck and must swap or discard it.
type AwaitingPlacement struct {
	Player uuid.UUID
	Card   *Card
}

// Ability identifies one of the four special-card abilities.
type Ability string

const (
	AbilityKing  Ability = "K"
	AbilityJack  Ability = "J"
	AbilityEight Ability = "8"
	AbilitySix   Ability = "6"
)

// AbilityPhase is the sub-step of a pending ability.
type AbilityPhase string

const (
	// PhaseChoose waits for the holder's target selection.
	PhaseChoose AbilityPhase = "self_choose"
	// PhaseOpponentChoose waits for the opponent's Jack response.
	PhaseOpponentChoose AbilityPhase = "opponent_choose"
)

// AbilityPending: Player must resolve Ability before the game continues.
type AbilityPending struct {
	Ability Ability
	Player  uuid.UUID
	Phase   AbilityPhase
	// SelfIndex is the holder's slot chosen in the first Jack phase.
	SelfIndex int
	// AdvanceOnDone is set when the turn must advance once the ability resolves.
	AdvanceOnDone bool
	// Resume is the placement a stack interrupted before this ability was
	// inherited; nil when the ability came from the turn flow.
	Resume Mode
}

// StackWindowOpen: Caller has declared a stack against TargetRank and must
// execute it. Resume is the mode that was interrupted.
type StackWindowOpen struct {
	Caller     uuid.UUID
	TargetRank Rank
	Seq        int
	Resume     Mode
}

func (Idle) Name() string              { return "idle" }
func (AwaitingPlacement) Name() string { return "awaiting_placement" }
func (AbilityPending) Name() string    { return "ability_pending" }
func (StackWindowOpen) Name() string   { return "stack_window" }

func (Idle) isMode()              {}
func (AwaitingPlacement) isMode() {}
func (AbilityPending) isMode()    {}
func (StackWindowOpen) isMode()   {}

// heldPlacement finds a drawn card awaiting placement in m or in the modes it
// will resume.
func heldPlacement(m Mode) (AwaitingPlacement, bool) {
	for m != nil {
		switch v := m.(type) {
		case AwaitingPlacement:
			return v, true
		case StackWindowOpen:
			m = v.Resume
		case AbilityPending:
			m = v.Resume
		default:
			return AwaitingPlacement{}, false
		}
	}
	return AwaitingPlacement{}, false
}

// abilityFor maps a rank to its ability, if any.
func abilityFor(r Rank) (Ability, bool) {
	switch r {
	case RankKing:
		return AbilityKing, true
	case RankJack:
		return AbilityJack, true
	case RankEight:
		return AbilityEight, true
	case RankSix:
		return AbilitySix, true
	}
	return "", false
}

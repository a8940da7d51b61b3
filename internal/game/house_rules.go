// internal/game/house_rules.go
package game

import "time"

// HouseRules holds the timing and disconnect policy for a room.
type HouseRules struct {
	// PhaseOneDuration is how long players may memorize their bottom cards.
	PhaseOneDuration time.Duration `json:"phaseOneDuration"`
	// PeekDuration is how long an 8 or 6 peek stays privately visible.
	PeekDuration time.Duration `json:"peekDuration"`
	// StackWindowDuration closes an unexecuted stack window (0 => never).
	StackWindowDuration time.Duration `json:"stackWindowDuration"`
	// ForfeitOnDisconnect scores the round as soon as a player disconnects.
	ForfeitOnDisconnect bool `json:"forfeitOnDisconnect"`
}

// DefaultHouseRules returns the standard timings.
func DefaultHouseRules() HouseRules {
	return HouseRules{
		PhaseOneDuration:    10 * time.Second,
		PeekDuration:        5 * time.Second,
		StackWindowDuration: 10 * time.Second,
		ForfeitOnDisconnect: false,
	}
}

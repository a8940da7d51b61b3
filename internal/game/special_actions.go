// internal/game/special_actions.go
package game

import (
	"github.com/google/uuid"
	"github.com/jason-s-yu/stack/engine"
	"github.com/jason-s-yu/stack/internal/models"
)

// handleAbilityTarget decodes a play_ability_target event into the engine's
// target selection. The ability type must name the pending ability.
// Assumes lock is held by caller.
func (g *StackGame) handleAbilityTarget(playerID uuid.UUID, msg models.ClientMessage) (engine.Result, error) {
	var p models.PlayAbilityTargetPayload
	if err := msg.Decode(&p); err != nil || p.Type == "" {
		return engine.Result{}, errMalformed
	}
	return g.Engine.PlayAbilityTarget(playerID, engine.AbilityTarget{
		Type:          engine.Ability(p.Type),
		MyIndex:       p.TargetData.MyIndex,
		OpponentIndex: p.TargetData.OpponentIndex,
	})
}

// handleJackRespond decodes the opponent's slot choice for a Jack swap.
// Assumes lock is held by caller.
func (g *StackGame) handleJackRespond(playerID uuid.UUID, msg models.ClientMessage) (engine.Result, error) {
	var p models.JackRespondPayload
	if err := msg.Decode(&p); err != nil || p.MyIndex == nil {
		return engine.Result{}, errMalformed
	}
	return g.Engine.JackRespond(playerID, *p.MyIndex)
}

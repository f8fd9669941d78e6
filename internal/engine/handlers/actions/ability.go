package actions

import (
	"fmt"

	"tactics-server/internal/domain"
	"tactics-server/internal/engine/handlers"
)

// HandleAbility - осознанная заглушка: способность только описывается
// событием, никакого механического эффекта нет.
func HandleAbility(ctx handlers.Context, action domain.GameAction) handlers.Result {
	caster, ok := ctx.State.Entities[action.CasterID]
	if !ok || !caster.IsAlive {
		return handlers.EmptyResult()
	}

	pos := action.TargetPosition
	return handlers.Result{Events: []domain.GameEvent{{
		Type:        domain.EventAbilityUsed,
		EntityID:    caster.ID,
		Position:    &pos,
		Description: fmt.Sprintf("%s применяет способность «%s» (эффект пока не реализован).", caster.Name, action.AbilityID),
	}}}
}

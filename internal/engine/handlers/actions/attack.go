package actions

import (
	"tactics-server/internal/domain"
	"tactics-server/internal/engine/handlers"
	"tactics-server/internal/systems"
)

// HandleAttack делегирует разрешение атаки боевой системе и вливает
// обновленную карту сущностей обратно в состояние.
func HandleAttack(ctx handlers.Context, action domain.GameAction) handlers.Result {
	st := ctx.State

	entities, events := systems.ResolveAttack(
		st.Entities,
		action.AttackerID,
		action.TargetID,
		action.DamageRoll,
		ctx.Seed,
		ctx.Combat,
	)
	st.Entities = entities

	return handlers.Result{Events: events, SeedConsumed: 1}
}

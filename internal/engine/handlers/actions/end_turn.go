package actions

import (
	"tactics-server/internal/domain"
	"tactics-server/internal/engine/handlers"
)

// HandleEndTurn передает ход дальше и СРАЗУ тикает статус-эффекты новой
// текущей сущности. События обоих переходов попадают в PendingEvents
// состояния, поэтому Result здесь пустой.
func HandleEndTurn(ctx handlers.Context, _ domain.GameAction) handlers.Result {
	*ctx.State = ctx.State.AdvanceTurn()
	*ctx.State = ctx.State.ProcessStartOfTurn()
	return handlers.EmptyResult()
}

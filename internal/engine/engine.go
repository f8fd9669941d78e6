package engine

import (
	"github.com/sirupsen/logrus"

	"tactics-server/internal/domain"
	"tactics-server/internal/engine/handlers"
	"tactics-server/internal/engine/handlers/actions"
	"tactics-server/internal/state"
	"tactics-server/internal/systems"
	"tactics-server/pkg/logger"
)

// Context - все, что нужно для одного симуляционного тика.
// Значение: движок никогда не мутирует переданный Context, только
// возвращает новый.
type Context struct {
	State  state.GameState
	Config Config
	Seed   int64
}

// Реестр хендлеров (идиома таблицы команд, по одному файлу на действие).
var actionHandlers = map[domain.ActionType]handlers.HandlerFunc{
	domain.ActionMove:    actions.HandleMove,
	domain.ActionAttack:  actions.HandleAttack,
	domain.ActionAbility: actions.HandleAbility,
	domain.ActionEndTurn: actions.HandleEndTurn,
}

// ProcessAction применяет ОДНО действие к копии состояния.
// Нелегальное действие (чужой ход, неизвестный тип) - no-op: состояние
// не меняется, фиксируется только лог. Физика здесь НЕ выполняется -
// она часть GameTick.
func ProcessAction(ctx Context, action domain.GameAction) Context {
	st := ctx.State.Clone()

	if !st.IsValidAction(action) {
		logger.Log.WithFields(logrus.Fields{
			"component": "engine",
			"action":    action.Type.String(),
			"actor_id":  action.ActorID(),
		}).Debug("Action rejected: not valid in current state.")
		return ctx
	}

	handler, ok := actionHandlers[action.Type]
	if !ok {
		return ctx
	}

	result := handler(handlers.Context{
		State:    &st,
		CellSize: ctx.Config.CellSize,
		Combat:   ctx.Config.Combat,
		Seed:     ctx.Seed,
	}, action)

	st.PendingEvents = append(st.PendingEvents, result.Events...)

	ctx.State = st
	// Зерно продвигается на каждое разрешение боя: атаки внутри одной
	// пачки независимы, но вся пачка воспроизводима от базового зерна.
	ctx.Seed += result.SeedConsumed
	return ctx
}

// GameTick - единственная авторитетная точка входа на один тик симуляции:
// пачка действий в порядке подачи, затем проверка конца боя, затем РОВНО
// один физический проход, затем инкремент счетчика тиков.
// Возвращает новый контекст и все события этого тика; PendingEvents
// возвращенного состояния уже очищены.
func GameTick(ctx Context, batch []domain.GameAction) (Context, []domain.GameEvent) {
	st := ctx.State.Clone()
	st.PendingEvents = nil // события прошлого тика принадлежат прошлому тику
	ctx.State = st

	for _, action := range batch {
		ctx = ProcessAction(ctx, action)
	}

	st = ctx.State
	if st.IsInCombat {
		if outcome := systems.CombatOutcome(st.Entities); outcome.Over {
			st = st.EndCombat(outcome.Winner)
		}
	}

	entities, physicsEvents := systems.Step(st.Board, st.Entities, ctx.Config.DT, ctx.Config.Physics)
	st.Entities = entities
	st.PendingEvents = append(st.PendingEvents, physicsEvents...)
	st.Tick++

	events := st.PendingEvents
	st.PendingEvents = nil
	ctx.State = st
	return ctx, events
}

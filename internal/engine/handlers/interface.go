package handlers

import (
	"tactics-server/internal/domain"
	"tactics-server/internal/state"
	"tactics-server/internal/systems"
)

// Context передает хендлеру рабочую копию состояния.
// State - это уже склонированный движком снапшот: хендлеры мутируют его
// свободно, чистота сохраняется на границе ProcessAction.
type Context struct {
	State    *state.GameState
	CellSize float64
	Combat   systems.CombatConfig

	// Seed - зерно для этого действия. Движок продвигает его на
	// SeedConsumed после каждого хендлера.
	Seed int64
}

// Result - результат выполнения действия.
// Хендлер НЕ пишет в PendingEvents напрямую, он возвращает события.
type Result struct {
	Events []domain.GameEvent

	// SeedConsumed - сколько разрешений боя потратило зерно.
	SeedConsumed int64
}

// HandlerFunc - контракт для любой команды (MOVE, ATTACK, ABILITY, END_TURN).
type HandlerFunc func(ctx Context, action domain.GameAction) Result

// EmptyResult - пустой успешный ответ (действие стало no-op).
func EmptyResult() Result {
	return Result{}
}

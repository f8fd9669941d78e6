package actions

import (
	"fmt"

	"tactics-server/internal/domain"
	"tactics-server/internal/engine/handlers"
	"tactics-server/internal/systems"
)

// HandleMove перемещает сущность на ОДНУ клетку свежего A*-пути к цели.
// Путь перепланируется на каждое действие - кэша маршрута нет.
// Урон тайла (damageOnEnter) применяется сразу внутри того же действия.
func HandleMove(ctx handlers.Context, action domain.GameAction) handlers.Result {
	st := ctx.State

	e, ok := st.Entities[action.EntityID]
	if !ok || !e.IsAlive {
		return handlers.EmptyResult()
	}

	start := e.GridPos(ctx.CellSize)
	goal := domain.WorldToGrid(action.TargetPosition, ctx.CellSize)

	path := systems.FindPath(st.Board, start, goal, st.Entities, e.ID)
	if len(path) < 2 {
		// Цель недостижима или мы уже на месте: действие становится no-op
		return handlers.EmptyResult()
	}

	next := path[1]
	e.Position = domain.GridToWorld(next, ctx.CellSize)
	st.Entities[e.ID] = e

	pos := e.Position
	events := []domain.GameEvent{{
		Type:        domain.EventEntityMoved,
		EntityID:    e.ID,
		Position:    &pos,
		Description: fmt.Sprintf("%s перемещается.", e.Name),
	}}

	tile, _ := st.Board.TileAt(next)
	if tile.DamageOnEnter > 0 {
		e = e.ApplyDamage(tile.DamageOnEnter)
		st.Entities[e.ID] = e

		events = append(events, domain.GameEvent{
			Type:        domain.EventEntityDamaged,
			EntityID:    e.ID,
			TargetID:    e.ID,
			Value:       float64(tile.DamageOnEnter),
			Description: fmt.Sprintf("%s получает %d урона от поверхности (%s).", e.Name, tile.DamageOnEnter, tile.Terrain),
		})
		if !e.IsAlive {
			events = append(events, domain.GameEvent{
				Type:        domain.EventEntityDied,
				EntityID:    e.ID,
				Description: fmt.Sprintf("%s погибает.", e.Name),
			})
		}
	}

	return handlers.Result{Events: events}
}

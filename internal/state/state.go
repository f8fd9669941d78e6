package state

import (
	"fmt"

	"tactics-server/internal/domain"
	"tactics-server/internal/systems"
)

// GameState - единственный корень истины симуляции.
// Снапшот неизменяем для внешнего мира: каждая операция перехода возвращает
// НОВОЕ состояние, исходное не трогается. Карта Entities эксклюзивно владеет
// каноническими копиями сущностей.
type GameState struct {
	Tick          int                      `json:"tick"`
	Entities      map[string]domain.Entity `json:"entities"`
	Board         domain.Board             `json:"board"`
	Turn          TurnOrder                `json:"turnOrder"`
	IsInCombat    bool                     `json:"isInCombat"`
	PendingEvents []domain.GameEvent       `json:"-"`
}

// NewGameState создает состояние из начального списка сущностей и доски.
func NewGameState(entities []domain.Entity, board domain.Board) GameState {
	m := make(map[string]domain.Entity, len(entities))
	for _, e := range entities {
		m[e.ID] = e.Clone()
	}
	return GameState{
		Entities: m,
		Board:    board,
		Turn:     TurnOrder{Order: initiativeOrder(m, false), RoundNumber: 1},
	}
}

// Clone возвращает глубокую копию состояния.
// Доска разделяется: она неизменяема по построению.
func (s GameState) Clone() GameState {
	entities := make(map[string]domain.Entity, len(s.Entities))
	for id, e := range s.Entities {
		entities[id] = e.Clone()
	}
	s.Entities = entities
	s.Turn = s.Turn.clone()
	if len(s.PendingEvents) > 0 {
		events := make([]domain.GameEvent, len(s.PendingEvents))
		copy(events, s.PendingEvents)
		s.PendingEvents = events
	}
	return s
}

func (s GameState) withEvent(event domain.GameEvent) GameState {
	s.PendingEvents = append(s.PendingEvents, event)
	return s
}

// StartCombat переводит машину состояний в режим боя.
// Инициатива НЕ фиксируется при создании энкаунтера: порядок пересчитывается
// по текущей инициативе ЖИВЫХ сущностей именно в этот момент.
func (s GameState) StartCombat() GameState {
	s = s.Clone()
	s.IsInCombat = true
	s.Turn = TurnOrder{
		Order:        initiativeOrder(s.Entities, true),
		CurrentIndex: 0,
		RoundNumber:  1,
	}
	s = s.withEvent(domain.GameEvent{
		Type:        domain.EventCombatStarted,
		Description: "Бой начинается!",
	})
	if current, ok := s.CurrentTurnEntity(); ok {
		s = s.withEvent(domain.GameEvent{
			Type:        domain.EventTurnStarted,
			EntityID:    current.ID,
			Description: fmt.Sprintf("Ход %s.", current.Name),
		})
	}
	return s
}

// EndCombat деактивирует бой и публикует победителя ("player", "enemy", "draw").
func (s GameState) EndCombat(winner string) GameState {
	s = s.Clone()
	s.IsInCombat = false
	return s.withEvent(domain.GameEvent{
		Type:        domain.EventCombatEnded,
		Description: fmt.Sprintf("Бой окончен. Победитель: %s.", winner),
	})
}

// AdvanceTurn передает ход следующей живой сущности.
// Исчерпание списка оборачивается в новый раунд (round_started).
// Если живых в списке нет вообще, счетчики все равно продвигаются,
// а CurrentTurnEntity после этого вернет false.
func (s GameState) AdvanceTurn() GameState {
	s = s.Clone()
	n := len(s.Turn.Order)
	if n == 0 {
		return s
	}

	// Ход текущей сущности завершен
	if s.Turn.CurrentIndex >= 0 && s.Turn.CurrentIndex < n {
		outgoingID := s.Turn.Order[s.Turn.CurrentIndex]
		if outgoing, ok := s.Entities[outgoingID]; ok {
			s = s.withEvent(domain.GameEvent{
				Type:        domain.EventTurnEnded,
				EntityID:    outgoingID,
				Description: fmt.Sprintf("%s завершает ход.", outgoing.Name),
			})
		}
	}

	candidate := s.Turn.CurrentIndex
	for i := 0; i < n; i++ {
		candidate++
		if candidate >= n {
			candidate = 0
			s.Turn.RoundNumber++
			s = s.withEvent(domain.GameEvent{
				Type:        domain.EventRoundStarted,
				Value:       float64(s.Turn.RoundNumber),
				Description: fmt.Sprintf("Раунд %d.", s.Turn.RoundNumber),
			})
		}
		next, ok := s.Entities[s.Turn.Order[candidate]]
		if ok && next.IsAlive {
			s.Turn.CurrentIndex = candidate
			return s.withEvent(domain.GameEvent{
				Type:        domain.EventTurnStarted,
				EntityID:    next.ID,
				Description: fmt.Sprintf("Ход %s.", next.Name),
			})
		}
	}

	// Живых не осталось: индекс продвинут, текущей сущности нет
	s.Turn.CurrentIndex = candidate
	return s
}

// CurrentTurnEntity возвращает сущность, чей ход сейчас.
// Если сущность под индексом мертва, вперед по списку ищется живая
// (без мутации состояния); false - только когда живых нет вовсе.
func (s GameState) CurrentTurnEntity() (domain.Entity, bool) {
	n := len(s.Turn.Order)
	if n == 0 {
		return domain.Entity{}, false
	}
	for i := 0; i < n; i++ {
		idx := (s.Turn.CurrentIndex + i) % n
		if idx < 0 {
			idx += n
		}
		if e, ok := s.Entities[s.Turn.Order[idx]]; ok && e.IsAlive {
			return e, true
		}
	}
	return domain.Entity{}, false
}

// ProcessStartOfTurn тикает статус-эффекты текущей сущности,
// порождая события урона/лечения/смерти.
func (s GameState) ProcessStartOfTurn() GameState {
	s = s.Clone()
	current, ok := s.CurrentTurnEntity()
	if !ok {
		return s
	}

	updated, damage, healing := current.TickStatusEffects()
	s.Entities[current.ID] = updated

	if damage > 0 {
		s = s.withEvent(domain.GameEvent{
			Type:        domain.EventEntityDamaged,
			EntityID:    current.ID,
			TargetID:    current.ID,
			Value:       float64(damage),
			Description: fmt.Sprintf("%s получает %d урона от эффектов.", current.Name, damage),
		})
	}
	if healing > 0 {
		s = s.withEvent(domain.GameEvent{
			Type:        domain.EventEntityHealed,
			EntityID:    current.ID,
			Value:       float64(healing),
			Description: fmt.Sprintf("%s восстанавливает %d здоровья.", current.Name, healing),
		})
	}
	if !updated.IsAlive {
		s = s.withEvent(domain.GameEvent{
			Type:        domain.EventEntityDied,
			EntityID:    current.ID,
			Description: fmt.Sprintf("%s погибает.", current.Name),
		})
	}
	return s
}

// IsValidAction проверяет легальность действия.
// Вне боя разрешено все (режим свободного исследования); в бою
// move/attack/ability/end_turn доступны только сущности, чей сейчас ход.
func (s GameState) IsValidAction(action domain.GameAction) bool {
	if action.Type == domain.ActionUnknown {
		return false
	}
	if !s.IsInCombat {
		return true
	}
	current, ok := s.CurrentTurnEntity()
	if !ok {
		return false
	}
	return action.ActorID() == current.ID
}

// AddEntity добавляет сущность и пересортировывает порядок ходов по текущей
// инициативе всех живых (не стабильная вставка - полный пересчет).
func (s GameState) AddEntity(e domain.Entity) GameState {
	s = s.Clone()
	s.Entities[e.ID] = e.Clone()
	s = s.resortTurnOrder()
	return s.withEvent(domain.GameEvent{
		Type:        domain.EventEntitySpawned,
		EntityID:    e.ID,
		Position:    &e.Position,
		Description: fmt.Sprintf("%s появляется на поле.", e.Name),
	})
}

// RemoveEntity убирает сущность с поля (не смерть - полное удаление).
func (s GameState) RemoveEntity(id string) GameState {
	e, ok := s.Entities[id]
	if !ok {
		return s
	}
	s = s.Clone()
	delete(s.Entities, id)
	s = s.resortTurnOrder()
	return s.withEvent(domain.GameEvent{
		Type:        domain.EventEntityRemoved,
		EntityID:    id,
		Description: fmt.Sprintf("%s покидает поле.", e.Name),
	})
}

// resortTurnOrder перестраивает Order, стараясь сохранить текущую сущность.
func (s GameState) resortTurnOrder() GameState {
	var currentID string
	if c, ok := s.CurrentTurnEntity(); ok {
		currentID = c.ID
	}
	s.Turn.Order = initiativeOrder(s.Entities, true)
	s.Turn.CurrentIndex = 0
	for i, id := range s.Turn.Order {
		if id == currentID {
			s.Turn.CurrentIndex = i
			break
		}
	}
	return s
}

// ReachableWorldTiles возвращает мировые центры клеток, достижимых сущностью
// в пределах ее бюджета движения (query-поверхность для хостов).
func (s GameState) ReachableWorldTiles(entityID string) []domain.Vec2 {
	e, ok := s.Entities[entityID]
	if !ok || !e.IsAlive {
		return nil
	}
	cells := systems.ReachableTiles(s.Board, e.GridPos(s.Board.CellSize), e.MovementSpeed(), s.Entities, entityID)
	result := make([]domain.Vec2, 0, len(cells))
	for _, cell := range cells {
		result = append(result, domain.GridToWorld(cell, s.Board.CellSize))
	}
	return result
}

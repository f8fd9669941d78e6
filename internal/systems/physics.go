package systems

import (
	"fmt"
	"sort"

	"tactics-server/internal/domain"
)

// PhysicsConfig - параметры одного интеграционного прохода.
type PhysicsConfig struct {
	Substeps    int     // подшагов на тик (устойчивость)
	Restitution float64 // упругость столкновений сущность-сущность
	Friction    float64 // множитель скорости, один раз за полный тик
	WallBounce  float64 // доля отраженной скорости при ударе о край доски
	SleepEps    float64 // скорость ниже порога обнуляется точно
}

// DefaultPhysicsConfig возвращает откалиброванные значения по умолчанию.
func DefaultPhysicsConfig() PhysicsConfig {
	return PhysicsConfig{
		Substeps:    4,
		Restitution: 0.5,
		Friction:    0.9,
		WallBounce:  0.3,
		SleepEps:    0.01,
	}
}

// Collision - эфемерный результат обнаружения за один подшаг.
type Collision struct {
	EntityA     string
	EntityB     string
	Point       domain.Vec2
	Normal      domain.Vec2 // направление A -> B
	Penetration float64
}

// Step выполняет один полный физический проход по тику:
// Substeps x {интеграция позиций -> коллизии сущностей -> стены/террейн},
// затем ОДИН глобальный проход трения на весь тик (не на подшаг).
//
// Детерминизм: порядок разрешения пар задается сортировкой по ID, а не
// порядком итерации карты. Одинаковый вход -> побитово одинаковый выход.
func Step(board domain.Board, entities map[string]domain.Entity, dt float64, cfg PhysicsConfig) (map[string]domain.Entity, []domain.GameEvent) {
	substeps := cfg.Substeps
	if substeps < 1 {
		substeps = 1
	}

	// Рабочие копии в стабильном порядке
	ids := make([]string, 0, len(entities))
	for id := range entities {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	working := make(map[string]domain.Entity, len(entities))
	for _, id := range ids {
		working[id] = entities[id].Clone()
	}

	var events []domain.GameEvent
	collided := make(map[[2]string]bool) // одно событие на пару за тик

	stepDT := dt / float64(substeps)

	for s := 0; s < substeps; s++ {
		// 1. Интеграция позиций (полунеявный Эйлер: скорость уже обновлена
		// импульсами до этого тика)
		for _, id := range ids {
			e := working[id]
			if !e.IsAlive {
				continue
			}
			e.Position = e.Position.Add(e.Velocity.Scale(stepDT))
			working[id] = e
		}

		// 2. Коллизии сущность-сущность по отсортированным парам
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				a, b := working[ids[i]], working[ids[j]]
				if !a.IsAlive || !b.IsAlive {
					continue
				}
				col, ok := detectCollision(a, b)
				if !ok {
					continue
				}
				a, b = resolveCollision(a, b, col, cfg.Restitution)
				working[ids[i]] = a
				working[ids[j]] = b

				key := [2]string{a.ID, b.ID}
				if !collided[key] {
					collided[key] = true
					point := col.Point
					events = append(events, domain.GameEvent{
						Type:        domain.EventCollision,
						EntityID:    a.ID,
						TargetID:    b.ID,
						Position:    &point,
						Description: fmt.Sprintf("%s сталкивается с %s.", a.Name, b.Name),
					})
				}
			}
		}

		// 3. Края доски и заблокированный террейн
		for _, id := range ids {
			e := working[id]
			if !e.IsAlive {
				continue
			}
			working[id] = resolveWallCollision(board, e, cfg.WallBounce)
		}
	}

	// Глобальное трение: один раз за тик
	for _, id := range ids {
		e := working[id]
		e.Velocity = e.Velocity.Scale(cfg.Friction)
		if e.Velocity.Length() < cfg.SleepEps {
			e.Velocity = domain.Vec2{}
		}
		working[id] = e
	}

	return working, events
}

// detectCollision - тест пересечения кругов: distance < radiusA + radiusB.
func detectCollision(a, b domain.Entity) (Collision, bool) {
	delta := b.Position.Sub(a.Position)
	dist := delta.Length()
	sumR := a.Radius + b.Radius
	if dist >= sumR {
		return Collision{}, false
	}

	// Полное совпадение центров: нормаль неопределена, берем фиксированную,
	// чтобы результат не зависел от чего-либо кроме входа
	normal := domain.Vec2{X: 1}
	if dist > 0 {
		normal = delta.Scale(1 / dist)
	}

	return Collision{
		EntityA:     a.ID,
		EntityB:     b.ID,
		Point:       a.Position.Add(normal.Scale(a.Radius - (sumR-dist)/2)),
		Normal:      normal,
		Penetration: sumR - dist,
	}, true
}

// resolveCollision - позиционная коррекция по обратным массам плюс импульс
// вдоль нормали с учетом restitution. Уже разлетающиеся пары (relVel·n > 0)
// импульса не получают, но выталкивание из пересечения происходит всегда.
func resolveCollision(a, b domain.Entity, col Collision, restitution float64) (domain.Entity, domain.Entity) {
	invA := 1 / a.Mass
	invB := 1 / b.Mass
	invSum := invA + invB

	// Тяжелая сущность смещается меньше (обратная пропорция масс)
	a.Position = a.Position.Sub(col.Normal.Scale(col.Penetration * invA / invSum))
	b.Position = b.Position.Add(col.Normal.Scale(col.Penetration * invB / invSum))

	relVel := b.Velocity.Sub(a.Velocity)
	velAlongNormal := relVel.Dot(col.Normal)
	if velAlongNormal > 0 {
		return a, b
	}

	j := -(1 + restitution) * velAlongNormal / invSum
	impulse := col.Normal.Scale(j)
	a.Velocity = a.Velocity.Sub(impulse.Scale(invA))
	b.Velocity = b.Velocity.Add(impulse.Scale(invB))
	return a, b
}

// resolveWallCollision прижимает сущность к границам доски с затухающим
// отскоком и выталкивает из заблокированных тайлов. У террейна, в отличие
// от сущностей, упругого ответа нет: скорость просто обнуляется.
func resolveWallCollision(board domain.Board, e domain.Entity, wallBounce float64) domain.Entity {
	minX, maxX := e.Radius, board.Width()-e.Radius
	minY, maxY := e.Radius, board.Height()-e.Radius

	if e.Position.X < minX {
		e.Position.X = minX
		e.Velocity.X *= -wallBounce
	} else if e.Position.X > maxX {
		e.Position.X = maxX
		e.Velocity.X *= -wallBounce
	}
	if e.Position.Y < minY {
		e.Position.Y = minY
		e.Velocity.Y *= -wallBounce
	} else if e.Position.Y > maxY {
		e.Position.Y = maxY
		e.Velocity.Y *= -wallBounce
	}

	if !board.IsBlocked(e.GridPos(board.CellSize)) {
		return e
	}

	// Въехали в стену: откатываемся против вектора скорости
	dir := e.Velocity.Normalize()
	if dir.Length() == 0 {
		// Скорости нет - направление отката неизвестно, оставляем как есть
		return e
	}
	step := board.CellSize / 4
	for i := 0; i < 8; i++ {
		e.Position = e.Position.Sub(dir.Scale(step))
		if !board.IsBlocked(e.GridPos(board.CellSize)) {
			break
		}
	}
	e.Velocity = domain.Vec2{}
	return e
}

package systems

import (
	"container/heap"

	"tactics-server/internal/domain"
)

// occupiedCells собирает клетки, занятые ЖИВЫМИ сущностями, кроме excludeID.
// Мертвые тела и сам искатель пути проходимы.
func occupiedCells(board domain.Board, entities map[string]domain.Entity, excludeID string) map[domain.GridPos]bool {
	occupied := make(map[domain.GridPos]bool)
	for id, e := range entities {
		if id == excludeID || !e.IsAlive {
			continue
		}
		occupied[e.GridPos(board.CellSize)] = true
	}
	return occupied
}

// pathNode - элемент открытого списка A*.
type pathNode struct {
	pos   domain.GridPos
	gCost float64 // накопленная стоимость движения
	fCost float64 // gCost + эвристика
	order int     // порядок вставки: неявный tie-break
	index int
}

// pathQueue реализует heap.Interface (тот же прием, что очередь ходов движка).
type pathQueue []*pathNode

func (pq pathQueue) Len() int { return len(pq) }

func (pq pathQueue) Less(i, j int) bool {
	if pq[i].fCost != pq[j].fCost {
		return pq[i].fCost < pq[j].fCost
	}
	// При равных f-стоимостях побеждает вставленный раньше
	return pq[i].order < pq[j].order
}

func (pq pathQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *pathQueue) Push(x interface{}) {
	n := len(*pq)
	node := x.(*pathNode)
	node.index = n
	*pq = append(*pq, node)
}

func (pq *pathQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	node.index = -1
	*pq = old[0 : n-1]
	return node
}

// FindPath ищет путь A* по 4-связной сетке с манхэттенской эвристикой.
// g-стоимость - накопленный MovementCost входа в клетку.
// Возвращает nil, если цель заблокирована, занята живой сущностью
// (кроме excludeID) или пути не существует. Путь включает start как path[0].
// Тотальная функция: позиции за границами тоже дают nil, а не панику.
func FindPath(board domain.Board, start, goal domain.GridPos, entities map[string]domain.Entity, excludeID string) []domain.GridPos {
	if !board.InBounds(start) || !board.InBounds(goal) {
		return nil
	}
	if board.IsBlocked(goal) {
		return nil
	}

	occupied := occupiedCells(board, entities, excludeID)
	if occupied[goal] {
		return nil
	}

	if start == goal {
		return []domain.GridPos{start}
	}

	open := make(pathQueue, 0)
	heap.Init(&open)

	inserted := 0
	push := func(pos domain.GridPos, g float64) {
		heap.Push(&open, &pathNode{
			pos:   pos,
			gCost: g,
			fCost: g + float64(pos.ManhattanTo(goal)),
			order: inserted,
		})
		inserted++
	}

	gScore := map[domain.GridPos]float64{start: 0}
	cameFrom := make(map[domain.GridPos]domain.GridPos)
	closed := make(map[domain.GridPos]bool)

	push(start, 0)

	for open.Len() > 0 {
		current := heap.Pop(&open).(*pathNode)
		if current.pos == goal {
			return reconstructPath(cameFrom, goal)
		}
		if closed[current.pos] {
			continue
		}
		closed[current.pos] = true

		// Движение строго 4-связное
		for _, next := range current.pos.Neighbors4() {
			if !board.InBounds(next) || board.IsBlocked(next) || occupied[next] {
				continue
			}
			g := current.gCost + board.CostAt(next)
			if prev, ok := gScore[next]; ok && g >= prev {
				continue
			}
			gScore[next] = g
			cameFrom[next] = current.pos
			push(next, g)
		}
	}

	return nil
}

func reconstructPath(cameFrom map[domain.GridPos]domain.GridPos, goal domain.GridPos) []domain.GridPos {
	path := []domain.GridPos{goal}
	for {
		prev, ok := cameFrom[path[len(path)-1]]
		if !ok {
			break
		}
		path = append(path, prev)
	}
	// Разворачиваем: start должен быть первым
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// ReachableTiles возвращает все клетки, достижимые из start с бюджетом
// maxCost (разлив Дейкстры: стоимости клеток различаются, BFS недостаточно).
// Занятые живыми сущностями клетки исключаются; сама start в результат
// не входит.
func ReachableTiles(board domain.Board, start domain.GridPos, maxCost float64, entities map[string]domain.Entity, excludeID string) []domain.GridPos {
	if !board.InBounds(start) || maxCost <= 0 {
		return nil
	}

	occupied := occupiedCells(board, entities, excludeID)

	open := make(pathQueue, 0)
	heap.Init(&open)

	inserted := 0
	push := func(pos domain.GridPos, g float64) {
		// Эвристика нулевая: чистый Дейкстра
		heap.Push(&open, &pathNode{pos: pos, gCost: g, fCost: g, order: inserted})
		inserted++
	}

	best := map[domain.GridPos]float64{start: 0}
	push(start, 0)

	var result []domain.GridPos

	for open.Len() > 0 {
		current := heap.Pop(&open).(*pathNode)
		if current.gCost > best[current.pos] {
			continue // устаревшая запись
		}
		if current.pos != start {
			result = append(result, current.pos)
		}

		for _, next := range current.pos.Neighbors4() {
			if !board.InBounds(next) || board.IsBlocked(next) || occupied[next] {
				continue
			}
			g := current.gCost + board.CostAt(next)
			if g > maxCost {
				continue
			}
			if prev, ok := best[next]; ok && g >= prev {
				continue
			}
			best[next] = g
			push(next, g)
		}
	}

	return result
}

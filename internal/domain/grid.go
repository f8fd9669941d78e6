package domain

import "math"

// GridPos - целочисленная клетка доски. НЕ путать с Vec2 (мировые координаты).
type GridPos struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Shift возвращает новую позицию со смещением, не меняя текущую.
func (p GridPos) Shift(dRow, dCol int) GridPos {
	return GridPos{Row: p.Row + dRow, Col: p.Col + dCol}
}

// Neighbors4 возвращает ортогональных соседей (порядок фиксирован:
// вверх, вниз, влево, вправо - от него зависит детерминизм поиска).
func (p GridPos) Neighbors4() [4]GridPos {
	return [4]GridPos{
		p.Shift(-1, 0),
		p.Shift(1, 0),
		p.Shift(0, -1),
		p.Shift(0, 1),
	}
}

// Neighbors8 добавляет диагонали (проверки смежности, не поиск пути:
// движение в ядре строго 4-связное).
func (p GridPos) Neighbors8() [8]GridPos {
	return [8]GridPos{
		p.Shift(-1, -1), p.Shift(-1, 0), p.Shift(-1, 1),
		p.Shift(0, -1), p.Shift(0, 1),
		p.Shift(1, -1), p.Shift(1, 0), p.Shift(1, 1),
	}
}

// ManhattanTo - дистанция для эвристики A*.
func (p GridPos) ManhattanTo(o GridPos) int {
	dr := p.Row - o.Row
	if dr < 0 {
		dr = -dr
	}
	dc := p.Col - o.Col
	if dc < 0 {
		dc = -dc
	}
	return dr + dc
}

// GridToWorld возвращает мировую координату ЦЕНТРА клетки.
// Центр клетки выбран, чтобы WorldToGrid(GridToWorld(p)) == p для любой клетки.
func GridToWorld(p GridPos, cellSize float64) Vec2 {
	return Vec2{
		X: (float64(p.Col) + 0.5) * cellSize,
		Y: (float64(p.Row) + 0.5) * cellSize,
	}
}

// WorldToGrid возвращает клетку, которой принадлежит мировая точка.
func WorldToGrid(v Vec2, cellSize float64) GridPos {
	return GridPos{
		Row: int(math.Floor(v.Y / cellSize)),
		Col: int(math.Floor(v.X / cellSize)),
	}
}

package domain

import (
	"encoding/json"
	"fmt"
)

// Board - неизменяемая сетка тайлов.
// Любое "изменение" (WithTile) возвращает новую доску, исходная не трогается.
type Board struct {
	Rows     int
	Cols     int
	CellSize float64
	Tiles    [][]Tile // Tiles[row][col]
}

// NewBoard создает доску, целиком заполненную полом.
func NewBoard(rows, cols int, cellSize float64) Board {
	tiles := make([][]Tile, rows)
	for r := 0; r < rows; r++ {
		tiles[r] = make([]Tile, cols)
		for c := 0; c < cols; c++ {
			tiles[r][c] = NewTile(TerrainFloor)
		}
	}
	return Board{Rows: rows, Cols: cols, CellSize: cellSize, Tiles: tiles}
}

// WithTile возвращает копию доски с замененной клеткой.
// Позиция вне границ игнорируется (возвращается та же доска).
func (b Board) WithTile(p GridPos, t Tile) Board {
	if !b.InBounds(p) {
		return b
	}
	tiles := make([][]Tile, b.Rows)
	for r := 0; r < b.Rows; r++ {
		tiles[r] = make([]Tile, b.Cols)
		copy(tiles[r], b.Tiles[r])
	}
	tiles[p.Row][p.Col] = t
	return Board{Rows: b.Rows, Cols: b.Cols, CellSize: b.CellSize, Tiles: tiles}
}

// WithTerrain - удобный вариант WithTile через фабрику.
func (b Board) WithTerrain(p GridPos, terrain Terrain) Board {
	return b.WithTile(p, NewTile(terrain))
}

func (b Board) InBounds(p GridPos) bool {
	return p.Row >= 0 && p.Row < b.Rows && p.Col >= 0 && p.Col < b.Cols
}

// TileAt возвращает клетку и флаг "в границах".
// Все запросы к доске тотальны: за границами - нулевой тайл и false.
func (b Board) TileAt(p GridPos) (Tile, bool) {
	if !b.InBounds(p) {
		return Tile{}, false
	}
	return b.Tiles[p.Row][p.Col], true
}

// IsBlocked: клетки за границами считаются заблокированными.
func (b Board) IsBlocked(p GridPos) bool {
	t, ok := b.TileAt(p)
	if !ok {
		return true
	}
	return t.Blocked
}

// CostAt возвращает стоимость входа в клетку (+Inf за границами и для стен).
func (b Board) CostAt(p GridPos) float64 {
	t, ok := b.TileAt(p)
	if !ok {
		return NewTile(TerrainWall).MovementCost
	}
	return t.MovementCost
}

// Width и Height - размеры доски в мировых координатах.
func (b Board) Width() float64  { return float64(b.Cols) * b.CellSize }
func (b Board) Height() float64 { return float64(b.Rows) * b.CellSize }

// --- СЕРИАЛИЗАЦИЯ ---
// Характеристики тайла однозначно выводятся из terrain (фабрика NewTile),
// поэтому на проводе живет только матрица terrain. Это еще и спасает от
// +Inf в MovementCost, который JSON не умеет кодировать.

type boardJSON struct {
	Rows     int         `json:"rows"`
	Cols     int         `json:"cols"`
	CellSize float64     `json:"cellSize"`
	Terrain  [][]Terrain `json:"terrain"`
}

func (b Board) MarshalJSON() ([]byte, error) {
	terrain := make([][]Terrain, b.Rows)
	for r := 0; r < b.Rows; r++ {
		terrain[r] = make([]Terrain, b.Cols)
		for c := 0; c < b.Cols; c++ {
			terrain[r][c] = b.Tiles[r][c].Terrain
		}
	}
	return json.Marshal(boardJSON{Rows: b.Rows, Cols: b.Cols, CellSize: b.CellSize, Terrain: terrain})
}

func (b *Board) UnmarshalJSON(data []byte) error {
	var raw boardJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("board: %w", err)
	}
	if len(raw.Terrain) != raw.Rows {
		return fmt.Errorf("board: terrain has %d rows, expected %d", len(raw.Terrain), raw.Rows)
	}
	tiles := make([][]Tile, raw.Rows)
	for r := 0; r < raw.Rows; r++ {
		if len(raw.Terrain[r]) != raw.Cols {
			return fmt.Errorf("board: row %d has %d cols, expected %d", r, len(raw.Terrain[r]), raw.Cols)
		}
		tiles[r] = make([]Tile, raw.Cols)
		for c := 0; c < raw.Cols; c++ {
			tiles[r][c] = NewTile(raw.Terrain[r][c])
		}
	}
	b.Rows = raw.Rows
	b.Cols = raw.Cols
	b.CellSize = raw.CellSize
	b.Tiles = tiles
	return nil
}

package domain

import "math"

// Terrain - тип поверхности клетки.
type Terrain string

const (
	TerrainFloor     Terrain = "floor"
	TerrainWall      Terrain = "wall"
	TerrainWater     Terrain = "water"
	TerrainDifficult Terrain = "difficult"
	TerrainLava      Terrain = "lava"
	TerrainPit       Terrain = "pit"
)

// Tile описывает одну клетку доски.
// Инвариант: Blocked => MovementCost == +Inf; MovementCost никогда не <= 0.
type Tile struct {
	Terrain       Terrain
	Blocked       bool
	MovementCost  float64
	DamageOnEnter int
}

// NewTile - детерминированная фабрика terrain -> характеристики.
// Неизвестный terrain трактуется как пол (тотальная функция, без ошибок).
func NewTile(terrain Terrain) Tile {
	switch terrain {
	case TerrainWall:
		return Tile{Terrain: terrain, Blocked: true, MovementCost: math.Inf(1)}
	case TerrainWater, TerrainDifficult:
		return Tile{Terrain: terrain, MovementCost: 2}
	case TerrainLava:
		return Tile{Terrain: terrain, MovementCost: 1, DamageOnEnter: 10}
	case TerrainPit:
		// DamageOnEnter у ямы недостижим через обычное движение (клетка Blocked).
		// Данные сохранены намеренно - крючок для будущих механик (провал, телепорт).
		return Tile{Terrain: terrain, Blocked: true, MovementCost: math.Inf(1), DamageOnEnter: 100}
	default:
		return Tile{Terrain: TerrainFloor, MovementCost: 1}
	}
}

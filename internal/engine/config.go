package engine

import (
	"time"

	"tactics-server/internal/systems"
)

// Config хранит параметры запуска движка.
type Config struct {
	// Seed - мастер-зерно боя. Вся случайность ядра выводится из него.
	Seed int64

	// DT - длительность одного физического тика в секундах.
	DT float64

	Physics systems.PhysicsConfig
	Combat  systems.CombatConfig

	// CellSize - размер клетки доски в мировых единицах.
	CellSize float64
}

// NewConfig создает конфиг по умолчанию (случайное зерно).
func NewConfig() Config {
	return Config{
		Seed:     time.Now().UnixNano(),
		DT:       1.0 / 60.0,
		Physics:  systems.DefaultPhysicsConfig(),
		Combat:   systems.DefaultCombatConfig(),
		CellSize: 32,
	}
}

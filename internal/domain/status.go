package domain

// StatusEffect - временный эффект на сущности (яд, регенерация, замедление).
// Duration отсчитывается вниз один раз за начало хода владельца.
type StatusEffect struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Duration int    `json:"duration"` // ходов до истечения

	// Опциональная нагрузка. Нулевые значения означают "нет эффекта".
	DamagePerTurn    int     `json:"damagePerTurn,omitempty"`
	HealingPerTurn   int     `json:"healingPerTurn,omitempty"`
	MovementModifier float64 `json:"movementModifier,omitempty"` // множитель скорости (0.5 = slow)
}

package domain

// Faction определяет сторону в бою.
type Faction string

const (
	FactionPlayer  Faction = "player"
	FactionEnemy   Faction = "enemy"
	FactionNeutral Faction = "neutral"
)

// Entity - один участник боя.
// Значение, а не ссылка: все "мутаторы" возвращают копию, канонический
// экземпляр живет только в карте сущностей GameState.
type Entity struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Faction Faction `json:"faction"`

	Position Vec2    `json:"position"`
	Velocity Vec2    `json:"velocity"`
	Mass     float64 `json:"mass"`   // > 0
	Radius   float64 `json:"radius"` // > 0

	HP         int  `json:"hp"`
	MaxHP      int  `json:"maxHp"`
	AC         int  `json:"ac"`
	Initiative int  `json:"initiative"`
	IsAlive    bool `json:"isAlive"`

	StatusEffects []StatusEffect `json:"statusEffects,omitempty"`
}

// Clone возвращает глубокую копию (слайс эффектов не разделяется).
func (e Entity) Clone() Entity {
	if len(e.StatusEffects) > 0 {
		effects := make([]StatusEffect, len(e.StatusEffects))
		copy(effects, e.StatusEffects)
		e.StatusEffects = effects
	}
	return e
}

// ApplyDamage уменьшает HP с клампом в [0, MaxHP] и пересчитывает IsAlive.
// Инвариант IsAlive == (HP > 0) поддерживается каждым мутатором.
func (e Entity) ApplyDamage(amount int) Entity {
	if amount < 0 {
		amount = 0
	}
	e.HP -= amount
	if e.HP < 0 {
		e.HP = 0
	}
	e.IsAlive = e.HP > 0
	return e
}

// ApplyHealing увеличивает HP с клампом в [0, MaxHP].
// Лечение не воскрешает: для мертвой сущности это no-op.
func (e Entity) ApplyHealing(amount int) Entity {
	if !e.IsAlive {
		return e
	}
	if amount < 0 {
		amount = 0
	}
	e.HP += amount
	if e.HP > e.MaxHP {
		e.HP = e.MaxHP
	}
	return e
}

// ApplyKnockback добавляет импульс к скорости: dv = impulse / mass.
// Тяжелые сущности линейно сопротивляются отбрасыванию.
func (e Entity) ApplyKnockback(impulse Vec2) Entity {
	if e.Mass <= 0 {
		return e
	}
	e.Velocity = e.Velocity.Add(impulse.Scale(1 / e.Mass))
	return e
}

// AddStatusEffect добавляет эффект. Эффект с тем же ID заменяется
// (семантика refresh), дубликатов не бывает.
func (e Entity) AddStatusEffect(effect StatusEffect) Entity {
	e = e.Clone()
	for i := range e.StatusEffects {
		if e.StatusEffects[i].ID == effect.ID {
			e.StatusEffects[i] = effect
			return e
		}
	}
	e.StatusEffects = append(e.StatusEffects, effect)
	return e
}

// TickStatusEffects выполняет один срабатывающий в начале хода тик:
// суммирует весь DamagePerTurn/HealingPerTurn в ОДНО применение урона и
// ОДНО лечение, уменьшает Duration и выбрасывает истекшие эффекты.
// Возвращает обновленную сущность и агрегаты - события генерирует вызывающий.
func (e Entity) TickStatusEffects() (Entity, int, int) {
	if len(e.StatusEffects) == 0 {
		return e, 0, 0
	}

	totalDamage := 0
	totalHealing := 0
	remaining := make([]StatusEffect, 0, len(e.StatusEffects))

	for _, effect := range e.StatusEffects {
		totalDamage += effect.DamagePerTurn
		totalHealing += effect.HealingPerTurn

		if effect.Duration > 1 {
			effect.Duration--
			remaining = append(remaining, effect)
		}
		// Duration <= 1: эффект истекает на этом тике
	}

	e.StatusEffects = remaining
	if totalDamage > 0 {
		e = e.ApplyDamage(totalDamage)
	}
	if totalHealing > 0 {
		e = e.ApplyHealing(totalHealing)
	}
	return e, totalDamage, totalHealing
}

// BaseMovementSpeed - базовый бюджет движения (в клетках стоимости 1).
const BaseMovementSpeed = 5.0

// MovementSpeed возвращает базовую скорость, умноженную на ПРОИЗВЕДЕНИЕ всех
// активных модификаторов: несколько замедлений/ускорений складываются
// мультипликативно, не аддитивно.
func (e Entity) MovementSpeed() float64 {
	speed := BaseMovementSpeed
	for _, effect := range e.StatusEffects {
		if effect.MovementModifier > 0 {
			speed *= effect.MovementModifier
		}
	}
	return speed
}

// GridPos возвращает клетку, в которой стоит сущность.
func (e Entity) GridPos(cellSize float64) GridPos {
	return WorldToGrid(e.Position, cellSize)
}

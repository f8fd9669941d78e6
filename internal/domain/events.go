package domain

// EventType - тип игрового события для внешних потребителей
// (нарративный слой, комбат-лог клиента).
type EventType string

const (
	EventEntityMoved   EventType = "entity_moved"
	EventEntityDamaged EventType = "entity_damaged"
	EventEntityHealed  EventType = "entity_healed"
	EventEntityDied    EventType = "entity_died"
	EventEntitySpawned EventType = "entity_spawned"
	EventEntityRemoved EventType = "entity_removed"
	EventCollision     EventType = "entity_collided"
	EventKnockback     EventType = "knockback"
	EventAttackMissed  EventType = "attack_missed"
	EventAbilityUsed   EventType = "ability_used"
	EventTurnStarted   EventType = "turn_started"
	EventTurnEnded     EventType = "turn_ended"
	EventRoundStarted  EventType = "round_started"
	EventCombatStarted EventType = "combat_started"
	EventCombatEnded   EventType = "combat_ended"
)

// GameEvent - неизменяемая запись о том, что произошло за тик.
// События только описывают изменения; движок НИКОГДА не читает их обратно
// для дальнейших мутаций.
type GameEvent struct {
	Type        EventType `json:"type"`
	EntityID    string    `json:"entityId,omitempty"`
	TargetID    string    `json:"targetId,omitempty"`
	Value       float64   `json:"value,omitempty"`
	Position    *Vec2     `json:"position,omitempty"`
	Description string    `json:"description"`
}

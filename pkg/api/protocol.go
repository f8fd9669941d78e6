package api

import (
	"encoding/json"
)

// --- КЛИЕНТ -> СЕРВЕР ---

// ClientCommand это корневой объект для всех сообщений от клиента к серверу.
type ClientCommand struct {
	// Token ID сущности, от имени которой выполняется действие.
	// В первом сообщении (JOIN) может быть пустым - сервер выдаст ID.
	Token string `json:"token,omitempty"`

	// Action название действия: JOIN, START_COMBAT, MOVE, ATTACK,
	// ABILITY, END_TURN.
	Action string `json:"action"`

	// Payload JSON-объект с данными. Структура зависит от Action.
	Payload json.RawMessage `json:"payload"`
}

// --- Payloads ---

// PointPayload - точка в мировых координатах.
type PointPayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// MovePayload используется для MOVE: цель движения в мировых координатах.
type MovePayload struct {
	Target PointPayload `json:"targetPosition"`
}

// AttackPayload используется для ATTACK.
type AttackPayload struct {
	TargetID   string `json:"targetId"`
	DamageRoll string `json:"damageRoll"` // нотация костей: "2d6+2"
}

// AbilityPayload используется для ABILITY.
type AbilityPayload struct {
	AbilityID string       `json:"abilityId"`
	Target    PointPayload `json:"targetPosition"`
	TargetIDs []string     `json:"targetIds,omitempty"`
}

// JoinPayload - контракт спавна: параметры новой сущности.
// Необязательные поля получают значения по умолчанию на сервере.
type JoinPayload struct {
	Name       string       `json:"name"`
	Faction    string       `json:"faction"`
	Position   PointPayload `json:"position"`
	HP         int          `json:"hp"`
	MaxHP      int          `json:"maxHp,omitempty"`
	AC         int          `json:"ac,omitempty"`
	Mass       float64      `json:"mass,omitempty"`
	Radius     float64      `json:"radius,omitempty"`
	Initiative int          `json:"initiative,omitempty"`
}

// --- СЕРВЕР -> КЛИЕНТ ---

// EntityView это DTO для одной сущности на поле.
type EntityView struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Faction string `json:"faction"`

	Position PointPayload `json:"position"`

	HP      int  `json:"hp"`
	MaxHP   int  `json:"maxHp"`
	IsAlive bool `json:"isAlive"`
}

// EventView - одно событие тика для комбат-лога и нарративного слоя.
type EventView struct {
	Type        string        `json:"type"`
	EntityID    string        `json:"entityId,omitempty"`
	TargetID    string        `json:"targetId,omitempty"`
	Value       float64       `json:"value,omitempty"`
	Position    *PointPayload `json:"position,omitempty"`
	Description string        `json:"description"`
}

// BoardMeta содержит размеры доски, чтобы клиент подготовил сетку.
type BoardMeta struct {
	Rows     int     `json:"rows"`
	Cols     int     `json:"cols"`
	CellSize float64 `json:"cellSize"`
}

// ServerResponse это полный "снимок" боя, рассылаемый после каждого тика.
type ServerResponse struct {
	// Type тип сообщения: "JOINED" при подтверждении входа, иначе "UPDATE".
	Type string `json:"type"`

	// Tick текущий тик симуляции.
	Tick int `json:"tick"`

	// MyEntityID ID сущности, которой управляет данный клиент.
	MyEntityID string `json:"myEntityId,omitempty"`

	// ActiveEntityID ID сущности, чей ход сейчас (пусто вне боя).
	ActiveEntityID string `json:"activeEntityId,omitempty"`

	Round      int  `json:"round,omitempty"`
	IsInCombat bool `json:"isInCombat"`

	Board    *BoardMeta   `json:"board,omitempty"`
	Entities []EntityView `json:"entities,omitempty"`

	// Events срез событий, произошедших за последний тик.
	Events []EventView `json:"events,omitempty"`
}

package domain

import "encoding/json"

// ReplayAction - это запись одного действия извне (от игрока или хоста).
type ReplayAction struct {
	Tick    int             `json:"tick"`
	ActorID string          `json:"actorId"` // Кто сделал
	Action  ActionType      `json:"action"`  // Что сделал
	Payload json.RawMessage `json:"payload"` // С какими параметрами
}

// ReplaySession - полная запись боя. Детерминизм ядра гарантирует, что
// повторная симуляция {Seed, Actions} дает побитово тот же результат.
type ReplaySession struct {
	Seed      int64          `json:"seed"`
	Timestamp int64          `json:"timestamp"`
	Actions   []ReplayAction `json:"actions"`
}

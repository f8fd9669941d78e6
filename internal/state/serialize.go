package state

import (
	"encoding/json"
	"fmt"

	"tactics-server/internal/domain"
)

// SerializeState кодирует снапшот в JSON-документ: tick, сущности как
// пары ключ-значение, доска, порядок ходов и флаг боя.
// PendingEvents НАМЕРЕННО не персистятся - события живут один тик.
func SerializeState(s GameState) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("serialize state: %w", err)
	}
	return data, nil
}

// DeserializeState восстанавливает снапшот из JSON.
// PendingEvents всегда пустые после загрузки.
func DeserializeState(data []byte) (GameState, error) {
	var s GameState
	if err := json.Unmarshal(data, &s); err != nil {
		return GameState{}, fmt.Errorf("deserialize state: %w", err)
	}
	if s.Entities == nil {
		s.Entities = map[string]domain.Entity{}
	}
	s.PendingEvents = nil
	return s, nil
}

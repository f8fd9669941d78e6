package api

import (
	"encoding/json"
	"fmt"
)

// DecodePayload распаковывает JSON-payload команды в структуру T
// и, если T реализует Validator, сразу валидирует её.
func DecodePayload[T any](raw json.RawMessage) (T, error) {
	var payload T

	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &payload); err != nil {
			return payload, fmt.Errorf("invalid payload format: %w", err)
		}
	}

	if v, ok := any(payload).(Validator); ok {
		if err := v.Validate(); err != nil {
			return payload, fmt.Errorf("validation failed: %w", err)
		}
	}

	return payload, nil
}

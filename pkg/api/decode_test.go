package api

import (
	"encoding/json"
	"testing"
)

func TestDecodePayload(t *testing.T) {
	raw := json.RawMessage(`{"targetId":"goblin","damageRoll":"2d6+2"}`)

	p, err := DecodePayload[AttackPayload](raw)
	if err != nil {
		t.Fatalf("DecodePayload failed: %v", err)
	}
	if p.TargetID != "goblin" || p.DamageRoll != "2d6+2" {
		t.Errorf("Decoded %+v", p)
	}
}

func TestDecodePayloadRunsValidation(t *testing.T) {
	// targetId обязателен
	if _, err := DecodePayload[AttackPayload](json.RawMessage(`{}`)); err == nil {
		t.Error("Expected validation error for empty targetId")
	}

	if _, err := DecodePayload[AttackPayload](json.RawMessage(`{broken`)); err == nil {
		t.Error("Expected error for malformed JSON")
	}
}

func TestJoinPayloadValidation(t *testing.T) {
	tests := []struct {
		name    string
		payload JoinPayload
		valid   bool
	}{
		{"ok", JoinPayload{Name: "Герой", HP: 20}, true},
		{"ok with max", JoinPayload{Name: "Герой", HP: 20, MaxHP: 30}, true},
		{"missing name", JoinPayload{HP: 20}, false},
		{"zero hp", JoinPayload{Name: "X"}, false},
		{"hp above max", JoinPayload{Name: "X", HP: 30, MaxHP: 20}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.payload.Validate()
			if tt.valid && err != nil {
				t.Errorf("Expected valid, got %v", err)
			}
			if !tt.valid && err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"tactics-server/internal/domain"
)

func TestReplayRoundTrip(t *testing.T) {
	dir := t.TempDir()

	w, err := NewWriter(dir, 42)
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}

	actions := []domain.ReplayAction{
		{Tick: 0, ActorID: "knight", Action: domain.ActionMove, Payload: json.RawMessage(`{"targetPosition":{"x":80,"y":48}}`)},
		{Tick: 1, ActorID: "knight", Action: domain.ActionAttack, Payload: json.RawMessage(`{"targetId":"goblin","damageRoll":"2d6+2"}`)},
		{Tick: 2, ActorID: "knight", Action: domain.ActionEndTurn, Payload: json.RawMessage{}},
	}
	for _, act := range actions {
		if err := w.WriteAction(act); err != nil {
			t.Fatalf("WriteAction failed: %v", err)
		}
	}

	path, err := w.Close()
	if err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	session, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if session.Seed != 42 {
		t.Errorf("Seed = %d, want 42", session.Seed)
	}
	if !reflect.DeepEqual(session.Actions, actions) {
		t.Errorf("Actions round trip mismatch:\n got %+v\nwant %+v", session.Actions, actions)
	}
}

func TestWriterRejectsOversizedFields(t *testing.T) {
	w, err := NewWriter(t.TempDir(), 1)
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}

	longActor := string(bytes.Repeat([]byte("x"), 300))
	if err := w.WriteAction(domain.ReplayAction{ActorID: longActor}); err == nil {
		t.Error("Expected error for oversized actor id")
	}

	hugePayload := json.RawMessage(bytes.Repeat([]byte("a"), 70000))
	if err := w.WriteAction(domain.ReplayAction{ActorID: "a", Payload: hugePayload}); err == nil {
		t.Error("Expected error for oversized payload")
	}
}

func TestWriterDoubleCloseFails(t *testing.T) {
	w, err := NewWriter(t.TempDir(), 1)
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}

	if _, err := w.Close(); err != nil {
		t.Fatalf("First Close failed: %v", err)
	}
	if _, err := w.Close(); err == nil {
		t.Error("Second Close should fail")
	}
	if err := w.WriteAction(domain.ReplayAction{ActorID: "a"}); err == nil {
		t.Error("WriteAction after Close should fail")
	}
}

func TestLoadRejectsForeignFile(t *testing.T) {
	if _, err := Load("/nonexistent/replay.tcrp"); err == nil {
		t.Error("Expected error for missing file")
	}

	// Достаточно длинный файл с чужой сигнатурой
	junk := filepath.Join(t.TempDir(), "junk.tcrp")
	if err := os.WriteFile(junk, bytes.Repeat([]byte("J"), 64), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if _, err := Load(junk); err == nil {
		t.Error("Expected invalid magic error")
	}
}

package engine

import (
	"encoding/json"
	"testing"
	"time"

	"tactics-server/internal/domain"
	"tactics-server/pkg/api"
)

func startedService(seed int64) *GameService {
	cfg := testConfig(seed)
	svc := NewService(cfg, domain.NewBoard(10, 10, cfg.CellSize), nil)
	svc.Start()
	return svc
}

func joinCmd(t *testing.T, name, faction string, row, col, hp, initiative int) api.ClientCommand {
	t.Helper()
	pos := domain.GridToWorld(domain.GridPos{Row: row, Col: col}, 32)
	payload, err := json.Marshal(api.JoinPayload{
		Name:       name,
		Faction:    faction,
		Position:   api.PointPayload{X: pos.X, Y: pos.Y},
		HP:         hp,
		Initiative: initiative,
	})
	if err != nil {
		t.Fatalf("marshal join payload: %v", err)
	}
	return api.ClientCommand{Action: "JOIN", Payload: payload}
}

func TestServiceJoinAssignsID(t *testing.T) {
	svc := startedService(1)

	resp := svc.Execute(joinCmd(t, "Герой", "player", 1, 1, 20, 15))

	if resp.Type != "JOINED" {
		t.Errorf("Type = %s, want JOINED", resp.Type)
	}
	if resp.MyEntityID == "" {
		t.Fatal("Expected assigned entity ID")
	}
	if len(resp.Entities) != 1 || resp.Entities[0].Name != "Герой" {
		t.Errorf("Entities = %v", resp.Entities)
	}
	if resp.Board == nil || resp.Board.Rows != 10 {
		t.Errorf("Board meta = %+v", resp.Board)
	}
}

func TestServiceRejectsInvalidJoin(t *testing.T) {
	svc := startedService(1)

	resp := svc.Execute(api.ClientCommand{Action: "JOIN", Payload: json.RawMessage(`{"name":""}`)})

	if resp.MyEntityID != "" {
		t.Error("Invalid JOIN should not assign an ID")
	}
	if len(resp.Entities) != 0 {
		t.Error("Invalid JOIN should not spawn anything")
	}
}

// Зерно 33: d20 = 20, крит "2d6+2" = 22 - гоблин с 10 HP умирает,
// и сервис объявляет конец боя в том же снимке.
func TestServiceFullCombatFlow(t *testing.T) {
	svc := startedService(33)

	hero := svc.Execute(joinCmd(t, "Герой", "player", 1, 1, 20, 15))
	enemy := svc.Execute(joinCmd(t, "Гоблин", "enemy", 1, 3, 10, 5))

	started := svc.Execute(api.ClientCommand{Action: "START_COMBAT"})
	if !started.IsInCombat {
		t.Fatal("Expected IsInCombat after START_COMBAT")
	}
	if started.ActiveEntityID != hero.MyEntityID {
		t.Errorf("Active = %s, want hero %s", started.ActiveEntityID, hero.MyEntityID)
	}

	attackPayload, _ := json.Marshal(api.AttackPayload{
		TargetID:   enemy.MyEntityID,
		DamageRoll: "2d6+2",
	})
	result := svc.Execute(api.ClientCommand{
		Token:   hero.MyEntityID,
		Action:  "ATTACK",
		Payload: attackPayload,
	})

	if result.IsInCombat {
		t.Error("Combat should be over after the kill")
	}

	var died, ended bool
	for _, ev := range result.Events {
		switch ev.Type {
		case string(domain.EventEntityDied):
			died = true
		case string(domain.EventCombatEnded):
			ended = true
		}
	}
	if !died || !ended {
		t.Errorf("Expected death + combat end events, got %v", result.Events)
	}

	for _, view := range result.Entities {
		if view.ID == enemy.MyEntityID && view.IsAlive {
			t.Error("Enemy should be reported dead in the snapshot")
		}
	}
}

func TestServiceBroadcastsToSubscribers(t *testing.T) {
	svc := startedService(1)

	hero := svc.Execute(joinCmd(t, "Герой", "player", 1, 1, 20, 15))
	updates := svc.Hub.Register(hero.MyEntityID)

	svc.ProcessCommand(api.ClientCommand{Action: "START_COMBAT"})

	select {
	case msg := <-updates:
		if !msg.IsInCombat {
			t.Error("Broadcast snapshot should reflect combat start")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("No broadcast received")
	}
}

func TestServicePlaybackAdvancesTicks(t *testing.T) {
	cfg := testConfig(9)
	svc := NewService(cfg, domain.NewBoard(10, 10, cfg.CellSize), nil)

	session := &domain.ReplaySession{
		Seed: 9,
		Actions: []domain.ReplayAction{
			{Tick: 0, ActorID: "ghost", Action: domain.ActionMove, Payload: json.RawMessage(`{"targetPosition":{"x":80,"y":48}}`)},
			{Tick: 1, ActorID: "ghost", Action: domain.ActionEndTurn, Payload: json.RawMessage(`{}`)},
		},
	}

	svc.Playback(session)

	if got := svc.CurrentState().Tick; got < 2 {
		t.Errorf("Tick = %d, want at least one per replayed action", got)
	}
}

package engine

import (
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"tactics-server/internal/domain"
	"tactics-server/internal/infrastructure/storage"
	"tactics-server/internal/network"
	"tactics-server/internal/state"
	"tactics-server/pkg/api"
	"tactics-server/pkg/logger"
)

// settleTickLimit ограничивает число "пустых" тиков после команды,
// пока физика гасит отдачу и разводит пересечения.
const settleTickLimit = 120

// commandEnvelope несет команду и (опционально) канал для ответа.
// Ответ нужен только JOIN: клиент должен узнать свой ID до подписки на хаб.
type commandEnvelope struct {
	cmd   api.ClientCommand
	reply chan api.ServerResponse
}

// GameService владеет состоянием симуляции. Все изменения проходят
// через один цикл RunGameLoop, поэтому гонок по записи нет.
type GameService struct {
	mu  sync.RWMutex
	ctx Context

	spawner  Spawner
	recorder *storage.Writer

	commandChan chan commandEnvelope
	Hub         *network.Broadcaster
}

func NewService(cfg Config, board domain.Board, recorder *storage.Writer) *GameService {
	return &GameService{
		ctx: Context{
			State:  state.NewGameState(nil, board),
			Config: cfg,
			Seed:   cfg.Seed,
		},
		spawner:     NewSpawner(nil),
		recorder:    recorder,
		commandChan: make(chan commandEnvelope, 100),
		Hub:         network.NewBroadcaster(),
	}
}

func (s *GameService) Start() {
	go s.RunGameLoop()
}

// ProcessCommand ставит команду в очередь без ожидания результата.
func (s *GameService) ProcessCommand(cmd api.ClientCommand) {
	select {
	case s.commandChan <- commandEnvelope{cmd: cmd}:
	default:
		logger.Log.WithFields(logrus.Fields{
			"component": "service",
			"action":    cmd.Action,
		}).Warn("Command queue full, dropping command")
	}
}

// Execute ставит команду в очередь и дожидается снимка после её обработки.
// Используется для JOIN, где клиенту нужен назначенный ID.
func (s *GameService) Execute(cmd api.ClientCommand) api.ServerResponse {
	reply := make(chan api.ServerResponse, 1)
	s.commandChan <- commandEnvelope{cmd: cmd, reply: reply}
	return <-reply
}

// --- ГЛАВНЫЙ ЦИКЛ ---

func (s *GameService) RunGameLoop() {
	logger.Log.WithFields(logrus.Fields{
		"component": "service",
		"seed":      s.ctx.Seed,
	}).Info("Game loop started")

	for env := range s.commandChan {
		resp := s.executeCommand(env.cmd)

		if env.reply != nil {
			env.reply <- resp
		}
		s.Hub.Broadcast(resp)
	}
}

func (s *GameService) executeCommand(cmd api.ClientCommand) api.ServerResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch cmd.Action {
	case "JOIN":
		return s.handleJoin(cmd)

	case "START_COMBAT":
		s.ctx.State = s.ctx.State.StartCombat()
		return s.snapshotLocked("UPDATE", "", s.drainEvents())

	case "MOVE", "ATTACK", "ABILITY", "END_TURN":
		return s.handleGameAction(cmd)

	default:
		logger.Log.WithFields(logrus.Fields{
			"component": "service",
			"action":    cmd.Action,
		}).Warn("Unknown command")
		return s.snapshotLocked("UPDATE", "", nil)
	}
}

func (s *GameService) handleJoin(cmd api.ClientCommand) api.ServerResponse {
	p, err := api.DecodePayload[api.JoinPayload](cmd.Payload)
	if err != nil {
		logger.Log.WithFields(logrus.Fields{
			"component": "service",
			"error":     err,
		}).Warn("Rejecting JOIN")
		return s.snapshotLocked("UPDATE", "", nil)
	}

	entity := s.spawner.Spawn(SpawnParams{
		Name:       p.Name,
		Faction:    domain.Faction(p.Faction),
		Position:   domain.Vec2{X: p.Position.X, Y: p.Position.Y},
		HP:         p.HP,
		MaxHP:      p.MaxHP,
		AC:         p.AC,
		Mass:       p.Mass,
		Radius:     p.Radius,
		Initiative: p.Initiative,
	})

	s.ctx.State = s.ctx.State.AddEntity(entity)

	logger.Log.WithFields(logrus.Fields{
		"component": "service",
		"entity_id": entity.ID,
		"name":      entity.Name,
	}).Info("Entity joined")

	return s.snapshotLocked("JOINED", entity.ID, s.drainEvents())
}

// drainEvents забирает накопленные состоянием события.
func (s *GameService) drainEvents() []domain.GameEvent {
	events := s.ctx.State.PendingEvents
	s.ctx.State.PendingEvents = nil
	return events
}

func (s *GameService) handleGameAction(cmd api.ClientCommand) api.ServerResponse {
	action, err := decodeAction(cmd)
	if err != nil {
		logger.Log.WithFields(logrus.Fields{
			"component": "service",
			"action":    cmd.Action,
			"error":     err,
		}).Warn("Rejecting malformed command")
		return s.snapshotLocked("UPDATE", "", nil)
	}

	if s.recorder != nil {
		if err := s.recorder.WriteAction(domain.ReplayAction{
			Tick:    s.ctx.State.Tick,
			ActorID: cmd.Token,
			Action:  domain.ParseAction(cmd.Action),
			Payload: cmd.Payload,
		}); err != nil {
			logger.Log.WithFields(logrus.Fields{
				"component": "service",
				"error":     err,
			}).Error("Failed to record action")
		}
	}

	var events []domain.GameEvent
	s.ctx, events = GameTick(s.ctx, []domain.GameAction{action})

	// Догоняем физику: отдача и разведение пересечений занимают
	// несколько тиков. Крутим пустые тики, пока все не остановятся.
	for i := 0; i < settleTickLimit && s.anyEntityMoving(); i++ {
		var extra []domain.GameEvent
		s.ctx, extra = GameTick(s.ctx, nil)
		events = append(events, extra...)
	}

	return s.snapshotLocked("UPDATE", "", events)
}

func (s *GameService) anyEntityMoving() bool {
	for _, e := range s.ctx.State.Entities {
		if e.IsAlive && e.Velocity.Length() > s.ctx.Config.Physics.SleepEps {
			return true
		}
	}
	return false
}

// decodeAction переводит сетевую команду во внутреннее действие движка.
func decodeAction(cmd api.ClientCommand) (domain.GameAction, error) {
	switch cmd.Action {
	case "MOVE":
		p, err := api.DecodePayload[api.MovePayload](cmd.Payload)
		if err != nil {
			return domain.GameAction{}, err
		}
		return domain.GameAction{
			Type:           domain.ActionMove,
			EntityID:       cmd.Token,
			TargetPosition: domain.Vec2{X: p.Target.X, Y: p.Target.Y},
		}, nil

	case "ATTACK":
		p, err := api.DecodePayload[api.AttackPayload](cmd.Payload)
		if err != nil {
			return domain.GameAction{}, err
		}
		return domain.GameAction{
			Type:       domain.ActionAttack,
			AttackerID: cmd.Token,
			TargetID:   p.TargetID,
			DamageRoll: p.DamageRoll,
		}, nil

	case "ABILITY":
		p, err := api.DecodePayload[api.AbilityPayload](cmd.Payload)
		if err != nil {
			return domain.GameAction{}, err
		}
		return domain.GameAction{
			Type:           domain.ActionAbility,
			CasterID:       cmd.Token,
			AbilityID:      p.AbilityID,
			TargetPosition: domain.Vec2{X: p.Target.X, Y: p.Target.Y},
			TargetIDs:      p.TargetIDs,
		}, nil

	case "END_TURN":
		return domain.GameAction{
			Type:     domain.ActionEndTurn,
			EntityID: cmd.Token,
		}, nil
	}

	return domain.GameAction{}, errUnknownAction(cmd.Action)
}

type errUnknownAction string

func (e errUnknownAction) Error() string { return "unknown action: " + string(e) }

// --- PLAYBACK ---

// Playback прогоняет записанную сессию через движок. Детерминизм ядра
// гарантирует тот же исход, что и при живой игре с тем же сидом.
// Вызывается ДО Start: цикл команд еще не запущен, гонок нет.
func (s *GameService) Playback(session *domain.ReplaySession) {
	logger.Log.WithFields(logrus.Fields{
		"component": "service",
		"seed":      session.Seed,
		"actions":   len(session.Actions),
	}).Info("Replay playback started")

	for _, act := range session.Actions {
		resp := s.executeCommand(api.ClientCommand{
			Token:   act.ActorID,
			Action:  act.Action.String(),
			Payload: act.Payload,
		})
		logger.Log.WithFields(logrus.Fields{
			"component": "service",
			"tick":      resp.Tick,
			"action":    act.Action.String(),
			"events":    len(resp.Events),
		}).Debug("Replayed action")
	}

	logger.Log.WithFields(logrus.Fields{
		"component": "service",
		"tick":      s.ctx.State.Tick,
	}).Info("Replay playback finished")
}

// --- СНИМКИ ---

// Snapshot возвращает текущее состояние для нового подключения
// и отладочных ручек.
func (s *GameService) Snapshot() api.ServerResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked("UPDATE", "", nil)
}

// CurrentState отдает копию состояния (для /debug/state).
func (s *GameService) CurrentState() state.GameState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ctx.State.Clone()
}

func (s *GameService) snapshotLocked(msgType, myEntityID string, events []domain.GameEvent) api.ServerResponse {
	st := &s.ctx.State

	ids := make([]string, 0, len(st.Entities))
	for id := range st.Entities {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	views := make([]api.EntityView, 0, len(ids))
	for _, id := range ids {
		e := st.Entities[id]
		views = append(views, api.EntityView{
			ID:       e.ID,
			Name:     e.Name,
			Faction:  string(e.Faction),
			Position: api.PointPayload{X: e.Position.X, Y: e.Position.Y},
			HP:       e.HP,
			MaxHP:    e.MaxHP,
			IsAlive:  e.IsAlive,
		})
	}

	eventViews := make([]api.EventView, 0, len(events))
	for _, ev := range events {
		view := api.EventView{
			Type:        string(ev.Type),
			EntityID:    ev.EntityID,
			TargetID:    ev.TargetID,
			Value:       ev.Value,
			Description: ev.Description,
		}
		if ev.Position != nil {
			view.Position = &api.PointPayload{X: ev.Position.X, Y: ev.Position.Y}
		}
		eventViews = append(eventViews, view)
	}

	var activeID string
	if st.IsInCombat {
		if current, ok := st.CurrentTurnEntity(); ok {
			activeID = current.ID
		}
	}

	return api.ServerResponse{
		Type:           msgType,
		Tick:           st.Tick,
		MyEntityID:     myEntityID,
		ActiveEntityID: activeID,
		Round:          st.Turn.RoundNumber,
		IsInCombat:     st.IsInCombat,
		Board: &api.BoardMeta{
			Rows:     st.Board.Rows,
			Cols:     st.Board.Cols,
			CellSize: st.Board.CellSize,
		},
		Entities: views,
		Events:   eventViews,
	}
}

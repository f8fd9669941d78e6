package domain

import "strings"

// ActionType - внутренний числовой идентификатор действия.
type ActionType uint8

const (
	ActionUnknown ActionType = iota
	ActionMove
	ActionAttack
	ActionAbility
	ActionEndTurn
)

// Маппинг для конвертации JSON -> Domain
var actionStringToCmd = map[string]ActionType{
	"MOVE":     ActionMove,
	"ATTACK":   ActionAttack,
	"ABILITY":  ActionAbility,
	"END_TURN": ActionEndTurn,
}

// Маппинг для логов Domain -> String
var actionCmdToString = map[ActionType]string{
	ActionMove:    "MOVE",
	ActionAttack:  "ATTACK",
	ActionAbility: "ABILITY",
	ActionEndTurn: "END_TURN",
}

// ParseAction конвертирует строку из JSON в ActionType.
func ParseAction(s string) ActionType {
	// Нечувствительность к регистру для надежности
	if val, ok := actionStringToCmd[strings.ToUpper(s)]; ok {
		return val
	}
	return ActionUnknown
}

// String реализует интерфейс Stringer (для fmt.Printf и logrus).
func (a ActionType) String() string {
	if val, ok := actionCmdToString[a]; ok {
		return val
	}
	return "UNKNOWN"
}

// GameAction - единственная поверхность мутации ядра.
// Поля заполняются в зависимости от Type (см. контракт в pkg/api).
type GameAction struct {
	Type ActionType

	// MOVE / END_TURN
	EntityID string

	// MOVE / ABILITY: цель в мировых координатах
	TargetPosition Vec2

	// ATTACK
	AttackerID string
	TargetID   string
	DamageRoll string // нотация костей, например "2d6+2"

	// ABILITY
	CasterID  string
	AbilityID string
	TargetIDs []string
}

// ActorID возвращает сущность, выполняющую действие (для проверки хода).
func (a GameAction) ActorID() string {
	switch a.Type {
	case ActionAttack:
		return a.AttackerID
	case ActionAbility:
		return a.CasterID
	default:
		return a.EntityID
	}
}

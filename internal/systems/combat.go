package systems

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"tactics-server/internal/domain"
	"tactics-server/pkg/logger"
)

// CombatConfig - настройки боевой математики.
type CombatConfig struct {
	KnockbackScale float64 // масштаб импульса отбрасывания на единицу урона
}

// DefaultCombatConfig возвращает значения по умолчанию.
func DefaultCombatConfig() CombatConfig {
	return CombatConfig{KnockbackScale: 0.5}
}

// Dice - линейный конгруэнтный генератор, ЕДИНСТВЕННЫЙ источник случайности
// ядра. Одинаковое зерно -> одинаковый поток значений, всегда.
type Dice struct {
	state int64
}

func NewDice(seed int64) *Dice {
	return &Dice{state: seed & 0x7fffffff}
}

// Float возвращает следующее значение потока в [0, 1).
func (d *Dice) Float() float64 {
	d.state = (d.state*1103515245 + 12345) & 0x7fffffff
	return float64(d.state) / float64(1<<31)
}

// Roll бросает одну кость с заданным числом граней.
func (d *Dice) Roll(sides int) int {
	if sides < 1 {
		return 1
	}
	return int(d.Float()*float64(sides)) + 1
}

var diceNotation = regexp.MustCompile(`^(\d+)d(\d+)([+-]\d+)?$`)

// parseNotation разбирает "XdY+Z". Некорректная строка дает дефолт 1d6+0 -
// осознанная политика "бой никогда не падает"; дефолт маскирует ошибки
// авторинга, тесты должны об этом помнить.
func parseNotation(notation string) (count, sides, modifier int) {
	m := diceNotation.FindStringSubmatch(strings.ToLower(strings.TrimSpace(notation)))
	if m == nil {
		return 1, 6, 0
	}
	count, _ = strconv.Atoi(m[1])
	sides, _ = strconv.Atoi(m[2])
	if m[3] != "" {
		modifier, _ = strconv.Atoi(m[3])
	}
	if count < 1 || sides < 1 {
		return 1, 6, 0
	}
	return count, sides, modifier
}

// RollNotation бросает кости по нотации "XdY+Z" из переданного потока.
func RollNotation(d *Dice, notation string) int {
	count, sides, modifier := parseNotation(notation)
	total := modifier
	for i := 0; i < count; i++ {
		total += d.Roll(sides)
	}
	return total
}

// AttackResult - эфемерный результат одного разрешения атаки.
// Не персистентен, живет один вызов.
type AttackResult struct {
	Hit        bool
	Damage     int
	IsCritical bool
	IsFumble   bool
	Knockback  domain.Vec2
}

// attackBonus - производный бонус атакующего (четверть инициативы,
// аналог модификатора ловкости).
func attackBonus(e domain.Entity) int {
	return e.Initiative / 4
}

// CalculateAttack разрешает бросок атаки: 1d20 + бонус против AC защитника.
// Натуральная 20 - всегда попадание и крит (урон x2 после броска),
// натуральная 1 - всегда промах; обе перекрывают числовое сравнение.
// При попадании бросается строка урона и строится вектор отбрасывания
// по оси атакующий -> защитник с масштабом damage * KnockbackScale.
func CalculateAttack(attacker, defender domain.Entity, damageRoll string, seed int64, cfg CombatConfig) AttackResult {
	dice := NewDice(seed)

	d20 := dice.Roll(20)
	isCritical := d20 == 20
	isFumble := d20 == 1
	hit := isCritical || (!isFumble && d20+attackBonus(attacker) >= defender.AC)

	if !hit {
		return AttackResult{IsFumble: isFumble}
	}

	damage := RollNotation(dice, damageRoll)
	if isCritical {
		damage *= 2
	}

	direction := defender.Position.Sub(attacker.Position).Normalize()
	return AttackResult{
		Hit:        true,
		Damage:     damage,
		IsCritical: isCritical,
		Knockback:  direction.Scale(float64(damage) * cfg.KnockbackScale),
	}
}

// ResolveAttack применяет атаку к КОПИИ карты сущностей и возвращает ее
// вместе с событиями. Отсутствующий атакующий/защитник или мертвый
// атакующий - no-op: карта не меняется, событий нет.
func ResolveAttack(entities map[string]domain.Entity, attackerID, defenderID, damageRoll string, seed int64, cfg CombatConfig) (map[string]domain.Entity, []domain.GameEvent) {
	result := cloneEntities(entities)

	attacker, okA := result[attackerID]
	defender, okD := result[defenderID]
	if !okA || !okD || !attacker.IsAlive {
		return result, nil
	}

	combatLogger := logger.Log.WithFields(logrus.Fields{
		"component":   "combat_system",
		"attacker_id": attackerID,
		"defender_id": defenderID,
		"seed":        seed,
	})

	attack := CalculateAttack(attacker, defender, damageRoll, seed, cfg)

	if !attack.Hit {
		combatLogger.WithField("fumble", attack.IsFumble).Debug("Attack missed.")
		description := fmt.Sprintf("%s промахивается по %s.", attacker.Name, defender.Name)
		if attack.IsFumble {
			description = fmt.Sprintf("%s неловко промахивается по %s.", attacker.Name, defender.Name)
		}
		return result, []domain.GameEvent{{
			Type:        domain.EventAttackMissed,
			EntityID:    attackerID,
			TargetID:    defenderID,
			Description: description,
		}}
	}

	hpBefore := defender.HP
	defender = defender.ApplyDamage(attack.Damage)
	defender = defender.ApplyKnockback(attack.Knockback)
	result[defenderID] = defender

	combatLogger.WithFields(logrus.Fields{
		"damage":    attack.Damage,
		"critical":  attack.IsCritical,
		"hp_before": hpBefore,
		"hp_after":  defender.HP,
	}).Info("Attack resolved.")

	description := fmt.Sprintf("%s наносит %d урона по %s.", attacker.Name, attack.Damage, defender.Name)
	if attack.IsCritical {
		description = fmt.Sprintf("%s наносит КРИТИЧЕСКИЕ %d урона по %s!", attacker.Name, attack.Damage, defender.Name)
	}

	events := []domain.GameEvent{
		{
			Type:        domain.EventEntityDamaged,
			EntityID:    attackerID,
			TargetID:    defenderID,
			Value:       float64(attack.Damage),
			Description: description,
		},
		{
			Type:        domain.EventKnockback,
			EntityID:    defenderID,
			Value:       attack.Knockback.Length(),
			Description: fmt.Sprintf("%s отбрасывает назад.", defender.Name),
		},
	}

	if !defender.IsAlive {
		events = append(events, domain.GameEvent{
			Type:        domain.EventEntityDied,
			EntityID:    defenderID,
			Description: fmt.Sprintf("%s погибает.", defender.Name),
		})
	}

	return result, events
}

// ResolveAreaAttack применяет ResolveAttack последовательно к каждой живой
// враждебной сущности в радиусе от центра. Зерно увеличивается на единицу
// на каждую цель: броски независимы, но воспроизводимы от базового зерна.
// Порядок целей фиксирован сортировкой по ID.
func ResolveAreaAttack(entities map[string]domain.Entity, attackerID string, center domain.Vec2, radius float64, damageRoll string, seed int64, cfg CombatConfig) (map[string]domain.Entity, []domain.GameEvent) {
	result := cloneEntities(entities)

	attacker, ok := result[attackerID]
	if !ok || !attacker.IsAlive {
		return result, nil
	}

	var targets []string
	for id, e := range result {
		if id == attackerID || !e.IsAlive {
			continue
		}
		// Враждебность: чужая фракция, нейтралы не задеваются
		if e.Faction == attacker.Faction || e.Faction == domain.FactionNeutral {
			continue
		}
		if e.Position.DistanceTo(center) <= radius {
			targets = append(targets, id)
		}
	}
	sort.Strings(targets)

	var events []domain.GameEvent
	for i, targetID := range targets {
		var targetEvents []domain.GameEvent
		result, targetEvents = ResolveAttack(result, attackerID, targetID, damageRoll, seed+int64(i), cfg)
		events = append(events, targetEvents...)
	}

	return result, events
}

// Outcome - результат терминальной проверки боя.
type Outcome struct {
	Over   bool
	Winner string // "player", "enemy" или "draw"
}

// CombatOutcome - единственное условие окончания боя: ноль живых врагов при
// хотя бы одном живом игроке (и симметрично). Обе стороны мертвы - ничья.
// Никаких лимитов раундов или таймаутов на этом уровне нет.
func CombatOutcome(entities map[string]domain.Entity) Outcome {
	livingPlayers, livingEnemies := 0, 0
	for _, e := range entities {
		if !e.IsAlive {
			continue
		}
		switch e.Faction {
		case domain.FactionPlayer:
			livingPlayers++
		case domain.FactionEnemy:
			livingEnemies++
		}
	}

	switch {
	case livingPlayers == 0 && livingEnemies == 0:
		return Outcome{Over: true, Winner: "draw"}
	case livingEnemies == 0 && livingPlayers > 0:
		return Outcome{Over: true, Winner: string(domain.FactionPlayer)}
	case livingPlayers == 0 && livingEnemies > 0:
		return Outcome{Over: true, Winner: string(domain.FactionEnemy)}
	default:
		return Outcome{}
	}
}

func cloneEntities(entities map[string]domain.Entity) map[string]domain.Entity {
	result := make(map[string]domain.Entity, len(entities))
	for id, e := range entities {
		result[id] = e.Clone()
	}
	return result
}

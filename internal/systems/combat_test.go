package systems

import (
	"testing"

	"tactics-server/internal/domain"
)

func combatant(id string, faction domain.Faction, hp int) domain.Entity {
	return domain.Entity{
		ID:         id,
		Name:       id,
		Faction:    faction,
		Position:   domain.Vec2{X: 100, Y: 100},
		Mass:       1,
		Radius:     10,
		HP:         hp,
		MaxHP:      hp,
		AC:         10,
		Initiative: 10,
		IsAlive:    hp > 0,
	}
}

func TestDiceIsReproducible(t *testing.T) {
	d1 := NewDice(42)
	d2 := NewDice(42)

	for i := 0; i < 100; i++ {
		a, b := d1.Roll(20), d2.Roll(20)
		if a != b {
			t.Fatalf("Roll %d diverged: %d vs %d", i, a, b)
		}
		if a < 1 || a > 20 {
			t.Fatalf("Roll %d out of [1, 20]: %d", i, a)
		}
	}
}

func TestDiceKnownStream(t *testing.T) {
	// Контрольные значения LCG: зерно фиксирует весь поток
	d := NewDice(42)
	expected := []int{12}
	for _, want := range expected {
		if got := d.Roll(20); got != want {
			t.Fatalf("Roll(20) = %d, want %d", got, want)
		}
	}
	if got := d.Roll(6); got != 4 {
		t.Errorf("Roll(6) = %d, want 4", got)
	}
	if got := d.Roll(6); got != 3 {
		t.Errorf("Roll(6) = %d, want 3", got)
	}
}

func TestRollNotation(t *testing.T) {
	// "2d6+2" из зерна 42: d20 не бросается, сразу 4+3+2
	total := RollNotation(NewDice(42), "2d6+2")
	// Первый бросок потока на 6 гранях отличается от Roll(20)
	d := NewDice(42)
	want := d.Roll(6) + d.Roll(6) + 2
	if total != want {
		t.Errorf("RollNotation = %d, want %d", total, want)
	}
}

func TestRollNotationMalformedFallsBackToDefault(t *testing.T) {
	// Некорректная нотация дает 1d6+0, бой не падает
	for _, notation := range []string{"", "garbage", "0d6", "2d0", "d20", "2d6+"} {
		got := RollNotation(NewDice(99), notation)
		want := NewDice(99).Roll(6)
		if got != want {
			t.Errorf("RollNotation(%q) = %d, want default 1d6 = %d", notation, got, want)
		}
	}
}

func TestCalculateAttackNatural20(t *testing.T) {
	// Зерно 33: d20 = 20 (крит), затем 2d6 = 6, 3
	attacker := combatant("a", domain.FactionPlayer, 20)
	defender := combatant("d", domain.FactionEnemy, 30)
	defender.AC = 99 // крит пробивает любой AC
	defender.Position = domain.Vec2{X: 120, Y: 100}

	result := CalculateAttack(attacker, defender, "2d6+2", 33, DefaultCombatConfig())

	if !result.Hit || !result.IsCritical {
		t.Fatalf("Expected critical hit, got %+v", result)
	}
	// (6 + 3 + 2) * 2 = 22
	if result.Damage != 22 {
		t.Errorf("Crit damage = %d, want 22", result.Damage)
	}
	// Отбрасывание вдоль оси атаки, масштаб damage * 0.5
	if result.Knockback.X != 11 || result.Knockback.Y != 0 {
		t.Errorf("Knockback = %v, want {11 0}", result.Knockback)
	}
}

func TestCalculateAttackNatural1(t *testing.T) {
	// Зерно 0: d20 = 1 (фамбл), промах даже по AC 0
	attacker := combatant("a", domain.FactionPlayer, 20)
	attacker.Initiative = 100
	defender := combatant("d", domain.FactionEnemy, 30)
	defender.AC = 0

	result := CalculateAttack(attacker, defender, "2d6+2", 0, DefaultCombatConfig())

	if result.Hit {
		t.Fatal("Natural 1 must always miss")
	}
	if !result.IsFumble {
		t.Error("Expected fumble flag")
	}
	if result.Damage != 0 {
		t.Errorf("Miss dealt %d damage", result.Damage)
	}
}

func TestCalculateAttackBonusVsAC(t *testing.T) {
	// Зерно 123: d20 = 5. Инициатива 12 дает бонус +3: 8 >= AC 8 попадает,
	// AC 9 - нет.
	attacker := combatant("a", domain.FactionPlayer, 20)
	attacker.Initiative = 12
	defender := combatant("d", domain.FactionEnemy, 30)

	defender.AC = 8
	if hit := CalculateAttack(attacker, defender, "1d6", 123, DefaultCombatConfig()); !hit.Hit {
		t.Error("Expected hit: 5 + 3 >= 8")
	}

	defender.AC = 9
	if hit := CalculateAttack(attacker, defender, "1d6", 123, DefaultCombatConfig()); hit.Hit {
		t.Error("Expected miss: 5 + 3 < 9")
	}
}

func TestResolveAttackAppliesDamageAndKnockback(t *testing.T) {
	// Зерно 99: d20 = 18 против AC 10 - попадание
	attacker := combatant("a", domain.FactionPlayer, 20)
	defender := combatant("d", domain.FactionEnemy, 30)
	defender.Position = domain.Vec2{X: 120, Y: 100}

	entities := map[string]domain.Entity{"a": attacker, "d": defender}
	result, events := ResolveAttack(entities, "a", "d", "2d6+2", 99, DefaultCombatConfig())

	// Зерно 99: 2d6 = 2, 5 -> урон 9
	hurt := result["d"]
	if hurt.HP != 21 {
		t.Errorf("Defender HP = %d, want 21", hurt.HP)
	}
	if hurt.Velocity.X <= 0 {
		t.Errorf("Defender should be knocked along +X, velocity %v", hurt.Velocity)
	}

	// Исходная карта не тронута
	if entities["d"].HP != 30 {
		t.Error("ResolveAttack mutated the input map")
	}

	if len(events) != 2 {
		t.Fatalf("Expected damage + knockback events, got %d", len(events))
	}
	if events[0].Type != domain.EventEntityDamaged || events[1].Type != domain.EventKnockback {
		t.Errorf("Unexpected event types: %v, %v", events[0].Type, events[1].Type)
	}
}

func TestResolveAttackKill(t *testing.T) {
	attacker := combatant("a", domain.FactionPlayer, 20)
	defender := combatant("d", domain.FactionEnemy, 5)
	defender.Position = domain.Vec2{X: 120, Y: 100}

	entities := map[string]domain.Entity{"a": attacker, "d": defender}
	result, events := ResolveAttack(entities, "a", "d", "2d6+2", 99, DefaultCombatConfig())

	if result["d"].IsAlive {
		t.Error("Defender should be dead")
	}

	var died bool
	for _, ev := range events {
		if ev.Type == domain.EventEntityDied {
			died = true
		}
	}
	if !died {
		t.Error("Expected entity_died event")
	}
}

func TestResolveAttackNoopCases(t *testing.T) {
	attacker := combatant("a", domain.FactionPlayer, 20)
	defender := combatant("d", domain.FactionEnemy, 30)
	entities := map[string]domain.Entity{"a": attacker, "d": defender}

	// Несуществующий защитник
	result, events := ResolveAttack(entities, "a", "ghost", "1d6", 99, DefaultCombatConfig())
	if events != nil {
		t.Error("Expected no events for missing defender")
	}
	if result["d"].HP != 30 {
		t.Error("Defender changed in a no-op resolution")
	}

	// Мертвый атакующий
	dead := attacker.ApplyDamage(100)
	entities["a"] = dead
	_, events = ResolveAttack(entities, "a", "d", "1d6", 99, DefaultCombatConfig())
	if events != nil {
		t.Error("Dead attacker should not attack")
	}
}

func TestResolveAttackMissEvent(t *testing.T) {
	// Зерно 123: d20 = 5, бонус 10/4 = 2, 7 < AC 10 - промах
	attacker := combatant("a", domain.FactionPlayer, 20)
	defender := combatant("d", domain.FactionEnemy, 30)

	result, events := ResolveAttack(map[string]domain.Entity{"a": attacker, "d": defender}, "a", "d", "2d6+2", 123, DefaultCombatConfig())

	if result["d"].HP != 30 {
		t.Error("Miss changed defender HP")
	}
	if len(events) != 1 || events[0].Type != domain.EventAttackMissed {
		t.Fatalf("Expected single attack_missed event, got %v", events)
	}
}

func TestResolveAreaAttackTargetSelection(t *testing.T) {
	attacker := combatant("a", domain.FactionPlayer, 20)
	near := combatant("e1", domain.FactionEnemy, 30)
	near.Position = domain.Vec2{X: 110, Y: 100}
	far := combatant("e2", domain.FactionEnemy, 30)
	far.Position = domain.Vec2{X: 400, Y: 400}
	friend := combatant("p2", domain.FactionPlayer, 30)
	friend.Position = domain.Vec2{X: 105, Y: 100}
	bystander := combatant("n1", domain.FactionNeutral, 30)
	bystander.Position = domain.Vec2{X: 102, Y: 100}

	entities := map[string]domain.Entity{
		"a": attacker, "e1": near, "e2": far, "p2": friend, "n1": bystander,
	}

	result, _ := ResolveAreaAttack(entities, "a", domain.Vec2{X: 100, Y: 100}, 50, "2d6+2", 99, DefaultCombatConfig())

	if result["e1"].HP == 30 {
		t.Error("In-radius enemy was not hit")
	}
	if result["e2"].HP != 30 {
		t.Error("Out-of-radius enemy was hit")
	}
	if result["p2"].HP != 30 {
		t.Error("Ally was hit by area attack")
	}
	if result["n1"].HP != 30 {
		t.Error("Neutral was hit by area attack")
	}
}

func TestResolveAreaAttackSeedPerTarget(t *testing.T) {
	// Два прогона с одним зерном дают побитово тот же результат
	build := func() map[string]domain.Entity {
		attacker := combatant("a", domain.FactionPlayer, 20)
		e1 := combatant("e1", domain.FactionEnemy, 30)
		e1.Position = domain.Vec2{X: 110, Y: 100}
		e2 := combatant("e2", domain.FactionEnemy, 30)
		e2.Position = domain.Vec2{X: 90, Y: 100}
		return map[string]domain.Entity{"a": attacker, "e1": e1, "e2": e2}
	}

	first, _ := ResolveAreaAttack(build(), "a", domain.Vec2{X: 100, Y: 100}, 50, "1d6", 42, DefaultCombatConfig())
	second, _ := ResolveAreaAttack(build(), "a", domain.Vec2{X: 100, Y: 100}, 50, "1d6", 42, DefaultCombatConfig())

	if first["e1"].HP != second["e1"].HP || first["e2"].HP != second["e2"].HP {
		t.Error("Area attack is not reproducible from the base seed")
	}

	// Цели получают РАЗНЫЕ зерна (base, base+1): совпадение обоих бросков
	// с одним и тем же зерном было бы ошибкой инкремента
	perTarget1, _ := ResolveAttack(build(), "a", "e1", "1d6", 42, DefaultCombatConfig())
	perTarget2, _ := ResolveAttack(build(), "a", "e2", "1d6", 43, DefaultCombatConfig())
	if first["e1"].HP != perTarget1["e1"].HP {
		t.Error("First target should use the base seed")
	}
	if first["e2"].HP != perTarget2["e2"].HP {
		t.Error("Second target should use base seed + 1")
	}
}

func TestCombatOutcome(t *testing.T) {
	alivePlayer := combatant("p", domain.FactionPlayer, 10)
	deadPlayer := alivePlayer.ApplyDamage(100)
	aliveEnemy := combatant("e", domain.FactionEnemy, 10)
	deadEnemy := aliveEnemy.ApplyDamage(100)
	neutral := combatant("n", domain.FactionNeutral, 10)

	tests := []struct {
		name     string
		entities map[string]domain.Entity
		over     bool
		winner   string
	}{
		{"ongoing", map[string]domain.Entity{"p": alivePlayer, "e": aliveEnemy}, false, ""},
		{"player wins", map[string]domain.Entity{"p": alivePlayer, "e": deadEnemy}, true, "player"},
		{"enemy wins", map[string]domain.Entity{"p": deadPlayer, "e": aliveEnemy}, true, "enemy"},
		{"draw", map[string]domain.Entity{"p": deadPlayer, "e": deadEnemy}, true, "draw"},
		{"neutrals do not keep combat alive", map[string]domain.Entity{"p": alivePlayer, "e": deadEnemy, "n": neutral}, true, "player"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := CombatOutcome(tt.entities)
			if outcome.Over != tt.over {
				t.Errorf("Over = %v, want %v", outcome.Over, tt.over)
			}
			if outcome.Winner != tt.winner {
				t.Errorf("Winner = %q, want %q", outcome.Winner, tt.winner)
			}
		})
	}
}

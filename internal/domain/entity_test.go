package domain

import (
	"testing"

	"pgregory.net/rapid"
)

func testEntity() Entity {
	return Entity{
		ID:      "e1",
		Name:    "Ork",
		Faction: FactionEnemy,
		Mass:    1,
		Radius:  12,
		HP:      20,
		MaxHP:   20,
		AC:      12,
		IsAlive: true,
	}
}

func TestApplyDamageClampsAndKills(t *testing.T) {
	e := testEntity()

	e = e.ApplyDamage(5)
	if e.HP != 15 || !e.IsAlive {
		t.Errorf("Expected HP 15 alive, got HP %d alive=%v", e.HP, e.IsAlive)
	}

	e = e.ApplyDamage(100)
	if e.HP != 0 {
		t.Errorf("Expected HP clamped to 0, got %d", e.HP)
	}
	if e.IsAlive {
		t.Error("Expected IsDead after overkill damage")
	}

	// Отрицательный урон не лечит
	e2 := testEntity().ApplyDamage(-5)
	if e2.HP != 20 {
		t.Errorf("Negative damage changed HP to %d", e2.HP)
	}
}

func TestApplyHealingClampsAndDoesNotResurrect(t *testing.T) {
	e := testEntity().ApplyDamage(10)

	e = e.ApplyHealing(100)
	if e.HP != 20 {
		t.Errorf("Expected HP clamped to MaxHP 20, got %d", e.HP)
	}

	dead := testEntity().ApplyDamage(100)
	dead = dead.ApplyHealing(50)
	if dead.IsAlive || dead.HP != 0 {
		t.Errorf("Healing resurrected a corpse: HP %d alive=%v", dead.HP, dead.IsAlive)
	}
}

func TestHPInvariantUnderRandomSequence(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		e := testEntity()
		steps := rapid.IntRange(1, 50).Draw(t, "steps")

		for i := 0; i < steps; i++ {
			amount := rapid.IntRange(-10, 30).Draw(t, "amount")
			if rapid.Bool().Draw(t, "heal") {
				e = e.ApplyHealing(amount)
			} else {
				e = e.ApplyDamage(amount)
			}

			if e.HP < 0 || e.HP > e.MaxHP {
				t.Fatalf("HP %d out of [0, %d]", e.HP, e.MaxHP)
			}
			if e.IsAlive != (e.HP > 0) {
				t.Fatalf("IsAlive=%v with HP %d", e.IsAlive, e.HP)
			}
		}
	})
}

func TestApplyKnockbackScalesByMass(t *testing.T) {
	light := testEntity()
	heavy := testEntity()
	heavy.Mass = 2

	impulse := Vec2{X: 4, Y: 0}

	light = light.ApplyKnockback(impulse)
	heavy = heavy.ApplyKnockback(impulse)

	if light.Velocity.X != 4 {
		t.Errorf("Light entity dv = %f, want 4", light.Velocity.X)
	}
	if heavy.Velocity.X != 2 {
		t.Errorf("Heavy entity dv = %f, want 2", heavy.Velocity.X)
	}

	// Нулевая масса - защита от деления на ноль
	broken := testEntity()
	broken.Mass = 0
	broken = broken.ApplyKnockback(impulse)
	if broken.Velocity != (Vec2{}) {
		t.Errorf("Zero-mass entity gained velocity %v", broken.Velocity)
	}
}

func TestCloneDoesNotShareStatusEffects(t *testing.T) {
	e := testEntity().AddStatusEffect(StatusEffect{ID: "poison", Duration: 3, DamagePerTurn: 2})

	clone := e.Clone()
	clone.StatusEffects[0].Duration = 99

	if e.StatusEffects[0].Duration != 3 {
		t.Error("Clone shares StatusEffects slice with original")
	}
}

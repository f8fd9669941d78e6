package engine

import (
	"github.com/google/uuid"

	"tactics-server/internal/domain"
)

// IDGenerator выдает уникальные ID сущностей. Генератор ВНЕДРЯЕТСЯ хостом:
// глобальный счетчик модуля небезопасен между независимыми инстансами
// симуляции и тестовыми прогонами.
type IDGenerator func() string

// UUIDGenerator - генератор по умолчанию на базе UUID v4.
func UUIDGenerator() string {
	return uuid.NewString()
}

// SpawnParams - контракт спавна: внешний вызывающий (нарративный слой)
// поставляет параметры, ядро выдает готовую сущность.
type SpawnParams struct {
	Name       string         `json:"name"`
	Faction    domain.Faction `json:"faction"`
	Position   domain.Vec2    `json:"position"`
	HP         int            `json:"hp"`
	MaxHP      int            `json:"maxHp,omitempty"`
	AC         int            `json:"ac,omitempty"`
	Mass       float64        `json:"mass,omitempty"`
	Radius     float64        `json:"radius,omitempty"`
	Initiative int            `json:"initiative,omitempty"`
}

// Spawner создает сущности с внедренным генератором ID.
type Spawner struct {
	NewID IDGenerator
}

func NewSpawner(gen IDGenerator) Spawner {
	if gen == nil {
		gen = UUIDGenerator
	}
	return Spawner{NewID: gen}
}

// Spawn заполняет пропущенные параметры значениями по умолчанию и
// возвращает сущность с процессно-уникальным ID.
func (sp Spawner) Spawn(p SpawnParams) domain.Entity {
	maxHP := p.MaxHP
	if maxHP <= 0 {
		maxHP = p.HP
	}
	hp := p.HP
	if hp > maxHP {
		hp = maxHP
	}

	ac := p.AC
	if ac <= 0 {
		ac = 10
	}
	mass := p.Mass
	if mass <= 0 {
		mass = 1
	}
	radius := p.Radius
	if radius <= 0 {
		radius = 12
	}
	initiative := p.Initiative
	if initiative <= 0 {
		initiative = 10
	}

	faction := p.Faction
	if faction == "" {
		faction = domain.FactionNeutral
	}

	return domain.Entity{
		ID:         sp.NewID(),
		Name:       p.Name,
		Faction:    faction,
		Position:   p.Position,
		Mass:       mass,
		Radius:     radius,
		HP:         hp,
		MaxHP:      maxHP,
		AC:         ac,
		Initiative: initiative,
		IsAlive:    hp > 0,
	}
}

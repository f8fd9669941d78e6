package api

import "errors"

// Validator - интерфейс, который могут реализовать DTO
type Validator interface {
	Validate() error
}

func (p MovePayload) Validate() error {
	if p.Target.X < 0 || p.Target.Y < 0 {
		return errors.New("target position out of world bounds")
	}
	return nil
}

func (p AttackPayload) Validate() error {
	if p.TargetID == "" {
		return errors.New("targetId is required")
	}
	return nil
}

func (p AbilityPayload) Validate() error {
	if p.AbilityID == "" {
		return errors.New("abilityId is required")
	}
	return nil
}

func (p JoinPayload) Validate() error {
	if p.Name == "" {
		return errors.New("name is required")
	}
	if p.HP <= 0 {
		return errors.New("hp must be positive")
	}
	if p.MaxHP < 0 || p.HP > p.MaxHP && p.MaxHP != 0 {
		return errors.New("hp cannot exceed maxHp")
	}
	return nil
}

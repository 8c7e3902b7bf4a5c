package api

import "errors"

// Validator — интерфейс, который могут реализовать DTO канала.
// Входящие сообщения недоверенные: перед применением их проверяет
// принимающая сторона.
type Validator interface {
	Validate() error
}

func (p CombatActionPayload) Validate() error {
	if p.CombatID == "" {
		return errors.New("combatId is required")
	}
	if p.TargetIndex < 0 {
		return errors.New("targetIndex cannot be negative")
	}
	if p.Damage < 0 {
		return errors.New("damage cannot be negative")
	}
	return nil
}

func (p CombatStartPayload) Validate() error {
	if p.CombatID == "" {
		return errors.New("combatId is required")
	}
	if len(p.Enemies) == 0 {
		return errors.New("combat needs at least one enemy")
	}
	return nil
}

func (p ChatPayload) Validate() error {
	if p.Message == "" {
		return errors.New("empty chat message")
	}
	return nil
}

// Package stats считает эффективные характеристики персонажа:
// база + бонусы экипировки + активные модификаторы боя.
// Все функции чистые, состояние не трогают.
package stats

import (
	"github.com/HonungsGrabb/rpg-together/internal/content"
	"github.com/HonungsGrabb/rpg-together/internal/domain"
)

// equipmentBonus суммирует бонус по характеристике со всех заполненных слотов.
func equipmentBonus(c *domain.Character, s domain.Stat) int {
	total := 0
	for _, ref := range c.EquippedRefs() {
		it := c.ResolveItem(ref, content.LookupItem)
		if it == nil {
			continue
		}
		switch s {
		case domain.StatHP:
			total += it.Bonuses.HP
		case domain.StatMana:
			total += it.Bonuses.Mana
		default:
			total += it.Bonuses.Get(s)
		}
	}
	return total
}

// modifierBonus суммирует дельты активных бафов/дебафов по характеристике.
// Вне боя модификаторов нет — вызывающий передает nil.
func modifierBonus(mods []domain.TimedEffect, s domain.Stat) int {
	total := 0
	for _, m := range mods {
		if m.Stat == s {
			total += m.Amount
		}
	}
	return total
}

// Effective возвращает действующее значение характеристики.
// mods — активные боевые модификаторы персонажа (nil вне боя).
func Effective(c *domain.Character, s domain.Stat, mods []domain.TimedEffect) int {
	return c.Base.Get(s) + equipmentBonus(c, s) + modifierBonus(mods, s)
}

// MaxHP — максимум здоровья с учетом уровня и экипировки.
func MaxHP(c *domain.Character) int {
	return c.BaseMaxHP + equipmentBonus(c, domain.StatHP)
}

// MaxMana — максимум маны с учетом уровня и экипировки.
func MaxMana(c *domain.Character) int {
	return c.BaseMaxMana + equipmentBonus(c, domain.StatMana)
}

// WeaponDamage суммирует урон оружия и левой руки. Это отдельное от
// характеристик слагаемое: входит только в сырой урон атаки.
func WeaponDamage(c *domain.Character) (physical, magical int) {
	for _, slot := range []domain.Slot{domain.SlotWeapon, domain.SlotOffhand} {
		ref, ok := c.Equipment[slot]
		if !ok || ref.IsEmpty() {
			continue
		}
		if it := c.ResolveItem(ref, content.LookupItem); it != nil {
			physical += it.Bonuses.Damage
			magical += it.Bonuses.MagicDamage
		}
	}
	return physical, magical
}

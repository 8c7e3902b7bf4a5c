// Package inventory реализует операции над инвентарем и экипировкой.
// Все отказы — проверяемые условия: состояние не меняется, наружу
// уходит ошибка, которую слой игры пишет в лог.
package inventory

import (
	"errors"
	"fmt"

	"github.com/HonungsGrabb/rpg-together/internal/content"
	"github.com/HonungsGrabb/rpg-together/internal/domain"
	"github.com/HonungsGrabb/rpg-together/internal/stats"
)

var (
	ErrInventoryFull  = errors.New("инвентарь полон")
	ErrBadIndex       = errors.New("нет такого предмета")
	ErrLevelTooLow    = errors.New("не хватает уровня")
	ErrWrongClass     = errors.New("недоступно вашему классу")
	ErrAlreadyKnown   = errors.New("заклинание уже изучено")
	ErrNotEquippable  = errors.New("этот предмет нельзя надеть")
	ErrNotUsable      = errors.New("этот предмет нельзя использовать")
	ErrSlotEmpty      = errors.New("слот пуст")
	ErrUnknownItem    = errors.New("предмет не найден в таблицах")
)

// resolveAt возвращает запись предмета по индексу инвентаря.
func resolveAt(c *domain.Character, index int) (domain.ItemRef, *domain.Item, error) {
	if index < 0 || index >= len(c.Inventory) {
		return domain.ItemRef{}, nil, ErrBadIndex
	}
	ref := c.Inventory[index]
	it := c.ResolveItem(ref, content.LookupItem)
	if it == nil {
		return ref, nil, ErrUnknownItem
	}
	return ref, it, nil
}

// removeAt вынимает ссылку из инвентаря со сдвигом.
func removeAt(c *domain.Character, index int) {
	c.Inventory = append(c.Inventory[:index], c.Inventory[index+1:]...)
}

// AddItem кладет предмет в инвентарь. Сгенерированные записи
// регистрируются в хранилище персонажа.
func AddItem(c *domain.Character, ref domain.ItemRef) error {
	if c.InventoryFull() {
		return ErrInventoryFull
	}
	if ref.Generated != nil {
		if c.Generated == nil {
			c.Generated = make(map[string]*domain.Item)
		}
		c.Generated[ref.Generated.ID] = ref.Generated
	}
	c.Inventory = append(c.Inventory, ref)
	return nil
}

// slotFor подбирает слот назначения. Кольца занимают первый свободный
// из двух, при обоих занятых вытесняется первое.
func slotFor(c *domain.Character, category string) (domain.Slot, error) {
	switch category {
	case domain.ItemCategoryWeapon:
		return domain.SlotWeapon, nil
	case domain.ItemCategoryOffhand:
		return domain.SlotOffhand, nil
	case domain.ItemCategoryHelmet:
		return domain.SlotHelmet, nil
	case domain.ItemCategoryChest:
		return domain.SlotChest, nil
	case domain.ItemCategoryLeggings:
		return domain.SlotLeggings, nil
	case domain.ItemCategoryBoots:
		return domain.SlotBoots, nil
	case domain.ItemCategoryAmulet:
		return domain.SlotAmulet, nil
	case domain.ItemCategoryRing:
		if ref, ok := c.Equipment[domain.SlotRing1]; !ok || ref.IsEmpty() {
			return domain.SlotRing1, nil
		}
		if ref, ok := c.Equipment[domain.SlotRing2]; !ok || ref.IsEmpty() {
			return domain.SlotRing2, nil
		}
		return domain.SlotRing1, nil
	}
	return "", ErrNotEquippable
}

// Equip надевает предмет из инвентаря. Вытесненный предмет возвращается
// в освободившуюся ячейку, поэтому операция никогда не теряет вещи.
func Equip(c *domain.Character, index int) (string, error) {
	ref, it, err := resolveAt(c, index)
	if err != nil {
		return "", err
	}
	if it.MinLevel > c.Level {
		return "", fmt.Errorf("%w: %s требует уровень %d", ErrLevelTooLow, it.Name, it.MinLevel)
	}

	slot, err := slotFor(c, it.Category)
	if err != nil {
		return "", err
	}

	old, hadOld := c.Equipment[slot]
	removeAt(c, index)
	c.Equipment[slot] = ref

	msg := fmt.Sprintf("Вы надеваете %s.", it.Name)
	if hadOld && !old.IsEmpty() {
		c.Inventory = append(c.Inventory, old)
		if oldItem := c.ResolveItem(old, content.LookupItem); oldItem != nil {
			msg = fmt.Sprintf("Вы снимаете %s и надеваете %s.", oldItem.Name, it.Name)
		}
	}

	// Максимумы могли уменьшиться при смене экипировки.
	c.ClampVitals(stats.MaxHP(c), stats.MaxMana(c))
	return msg, nil
}

// Unequip снимает предмет в инвентарь. При полном инвентаре — отказ.
func Unequip(c *domain.Character, slot domain.Slot) (string, error) {
	ref, ok := c.Equipment[slot]
	if !ok || ref.IsEmpty() {
		return "", ErrSlotEmpty
	}
	if c.InventoryFull() {
		return "", ErrInventoryFull
	}

	delete(c.Equipment, slot)
	c.Inventory = append(c.Inventory, ref)
	c.ClampVitals(stats.MaxHP(c), stats.MaxMana(c))

	it := c.ResolveItem(ref, content.LookupItem)
	if it == nil {
		return "Вы снимаете предмет.", nil
	}
	return fmt.Sprintf("Вы снимаете %s.", it.Name), nil
}

// UseItem применяет расходник (лечение/мана с прижимом к максимуму)
// или изучает свиток.
func UseItem(c *domain.Character, index int) (string, error) {
	_, it, err := resolveAt(c, index)
	if err != nil {
		return "", err
	}

	switch it.Category {
	case domain.ItemCategoryConsumable:
		if it.Effect == nil {
			return "", ErrNotUsable
		}
		healed, restored := 0, 0
		if it.Effect.Heal > 0 {
			before := c.HP
			c.HP += it.Effect.Heal
			c.ClampVitals(stats.MaxHP(c), stats.MaxMana(c))
			healed = c.HP - before
		}
		if it.Effect.Mana > 0 {
			before := c.Mana
			c.Mana += it.Effect.Mana
			c.ClampVitals(stats.MaxHP(c), stats.MaxMana(c))
			restored = c.Mana - before
		}
		removeAt(c, index)
		switch {
		case healed > 0 && restored > 0:
			return fmt.Sprintf("%s: +%d HP, +%d маны.", it.Name, healed, restored), nil
		case restored > 0:
			return fmt.Sprintf("%s: +%d маны.", it.Name, restored), nil
		default:
			return fmt.Sprintf("%s: +%d HP.", it.Name, healed), nil
		}

	case domain.ItemCategoryScroll:
		return LearnSpell(c, index)
	}
	return "", ErrNotUsable
}

// LearnSpell изучает заклинание со свитка. Отказы: мало уровня, чужой
// класс, уже изучено. Свиток расходуется только при успехе.
func LearnSpell(c *domain.Character, index int) (string, error) {
	_, it, err := resolveAt(c, index)
	if err != nil {
		return "", err
	}
	if it.Category != domain.ItemCategoryScroll || it.TeachesSpell == "" {
		return "", ErrNotUsable
	}

	spell := content.LookupSpell(it.TeachesSpell)
	if spell == nil {
		return "", ErrUnknownItem
	}
	if c.Level < spell.MinLevel {
		return "", fmt.Errorf("%w: %s требует уровень %d", ErrLevelTooLow, spell.Name, spell.MinLevel)
	}
	if spell.Class != "" && spell.Class != c.Class {
		return "", fmt.Errorf("%w: %s", ErrWrongClass, spell.Name)
	}
	if c.Knows(spell.ID) {
		return "", ErrAlreadyKnown
	}

	removeAt(c, index)
	if c.KnownSpells == nil {
		c.KnownSpells = make(map[string]bool)
	}
	c.KnownSpells[spell.ID] = true
	return fmt.Sprintf("Вы изучаете заклинание %s!", spell.Name), nil
}

// DropItem выбрасывает предмет без условий. У сгенерированного предмета
// удаляется и его запись из хранилища персонажа.
func DropItem(c *domain.Character, index int) (string, error) {
	ref, it, err := resolveAt(c, index)
	if err != nil && !errors.Is(err, ErrUnknownItem) {
		return "", err
	}

	removeAt(c, index)
	if ref.Generated != nil {
		delete(c.Generated, ref.Generated.ID)
	} else if _, ok := c.Generated[ref.ID]; ok {
		delete(c.Generated, ref.ID)
	}

	if it == nil {
		return "Вы выбрасываете предмет.", nil
	}
	return fmt.Sprintf("Вы выбрасываете %s.", it.Name), nil
}

package stats

import (
	"testing"

	"github.com/HonungsGrabb/rpg-together/internal/content"
	"github.com/HonungsGrabb/rpg-together/internal/domain"
)

func baseCharacter(t *testing.T) *domain.Character {
	t.Helper()
	c, err := content.NewCharacter("Tester", "human", "warrior")
	if err != nil {
		t.Fatalf("create character: %v", err)
	}
	// Чистый лист: без стартового оружия, чтобы считать с нуля.
	c.Equipment = make(map[domain.Slot]domain.ItemRef)
	return c
}

func TestEffectiveSumsBaseEquipmentAndModifiers(t *testing.T) {
	c := baseCharacter(t)
	base := c.Base.Defense

	// Iron Helm: +3 Defense.
	c.Equipment[domain.SlotHelmet] = domain.StaticRef("iron_helm")
	helm := content.LookupItem("iron_helm")
	if helm == nil {
		t.Fatal("iron_helm missing from tables")
	}

	mods := []domain.TimedEffect{{Stat: domain.StatDefense, Amount: 3, Turns: 2}}
	got := Effective(c, domain.StatDefense, mods)
	want := base + helm.Bonuses.Defense + 3
	if got != want {
		t.Errorf("Effective defense = %d, want %d", got, want)
	}
}

func TestEffectiveIgnoresOtherStatsModifiers(t *testing.T) {
	c := baseCharacter(t)
	mods := []domain.TimedEffect{{Stat: domain.StatAttack, Amount: 5, Turns: 2}}
	if got := Effective(c, domain.StatSpeed, mods); got != c.Base.Speed {
		t.Errorf("speed picked up an attack modifier: %d", got)
	}
}

func TestMaxHPIncludesEquipmentBonus(t *testing.T) {
	c := baseCharacter(t)
	before := MaxHP(c)

	// Ruby Amulet: +HP bonus.
	c.Equipment[domain.SlotAmulet] = domain.StaticRef("ruby_amulet")
	amulet := content.LookupItem("ruby_amulet")
	if amulet == nil || amulet.Bonuses.HP == 0 {
		t.Fatal("ruby_amulet should grant HP")
	}
	if got := MaxHP(c); got != before+amulet.Bonuses.HP {
		t.Errorf("MaxHP = %d, want %d", got, before+amulet.Bonuses.HP)
	}
}

func TestWeaponDamageSumsBothHands(t *testing.T) {
	c := baseCharacter(t)
	c.Equipment[domain.SlotWeapon] = domain.StaticRef("iron_sword")
	c.Equipment[domain.SlotOffhand] = domain.StaticRef("spell_orb")

	sword := content.LookupItem("iron_sword")
	orb := content.LookupItem("spell_orb")

	phys, magic := WeaponDamage(c)
	if phys != sword.Bonuses.Damage+orb.Bonuses.Damage {
		t.Errorf("physical weapon damage = %d", phys)
	}
	if magic != sword.Bonuses.MagicDamage+orb.Bonuses.MagicDamage {
		t.Errorf("magic weapon damage = %d", magic)
	}
}

func TestGeneratedItemCountsTowardStats(t *testing.T) {
	c := baseCharacter(t)
	gen := &domain.Item{
		ID: "gen_test", Name: "Test Band", Category: domain.ItemCategoryRing,
		Bonuses: domain.ItemBonuses{Attributes: domain.Attributes{Attack: 4}},
	}
	c.Generated = map[string]*domain.Item{gen.ID: gen}
	c.Equipment[domain.SlotRing1] = domain.GeneratedRef(gen)

	if got := Effective(c, domain.StatAttack, nil); got != c.Base.Attack+4 {
		t.Errorf("generated ring ignored: attack = %d", got)
	}
}

package content

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/HonungsGrabb/rpg-together/internal/domain"
)

func TestNewCharacterAppliesRaceAndClass(t *testing.T) {
	c, err := NewCharacter("Боромир", "human", "warrior")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	race, class := Races["human"], Classes["warrior"]
	if c.BaseMaxHP != 100+race.HP+class.HP {
		t.Errorf("max HP = %d", c.BaseMaxHP)
	}
	if c.BaseMaxMana != 50+race.Mana+class.Mana {
		t.Errorf("max mana = %d", c.BaseMaxMana)
	}
	if c.HP != c.BaseMaxHP || c.Mana != c.BaseMaxMana {
		t.Error("vitals not filled on creation")
	}
	want := domain.Attributes{Attack: 8, Magic: 8, Defense: 5, Resist: 5, Speed: 5}
	want.Add(race.Bonuses)
	want.Add(class.Bonuses)
	if c.Base != want {
		t.Errorf("attributes = %+v, want %+v", c.Base, want)
	}
	if c.Level != 1 || c.XPToLevel != 100 {
		t.Errorf("level=%d xpToLevel=%d", c.Level, c.XPToLevel)
	}
	if ref := c.Equipment[domain.SlotWeapon]; ref.ID != class.StartingWeapon {
		t.Errorf("starting weapon = %q, want %q", ref.ID, class.StartingWeapon)
	}
}

func TestNewCharacterRejectsUnknownRaceAndClass(t *testing.T) {
	if _, err := NewCharacter("X", "vampire", "warrior"); err == nil {
		t.Error("expected error for unknown race")
	}
	if _, err := NewCharacter("X", "human", "necromancer"); err == nil {
		t.Error("expected error for unknown class")
	}
}

func TestRollEnemyForAreaRespectsFloorRange(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		tpl := RollEnemyForArea(rng, 3)
		if tpl.MinFloor > 3 || tpl.MaxFloor < 3 {
			t.Fatalf("%s rolled outside its range [%d,%d]", tpl.ID, tpl.MinFloor, tpl.MaxFloor)
		}
	}
}

func TestRollEnemyForAreaFallsBackToDeepest(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	tpl := RollEnemyForArea(rng, 1000)
	if tpl == nil {
		t.Fatal("no fallback template")
	}
	for _, e := range Enemies {
		if e.MaxFloor > tpl.MaxFloor {
			t.Errorf("fallback %s is not the deepest (found %s)", tpl.ID, e.ID)
		}
	}
}

func TestScaleEnemyGrowsWithDepth(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	tpl := Enemies["rat"]

	shallow := ScaleEnemy(rng, tpl, tpl.MinFloor)
	if shallow.HP != tpl.HP || shallow.Attack != tpl.Attack {
		t.Errorf("base floor must not scale: hp=%d attack=%d", shallow.HP, shallow.Attack)
	}

	// +10% за этаж: на MinFloor+5 множитель 1.5.
	deep := ScaleEnemy(rng, tpl, tpl.MinFloor+5)
	if deep.HP != int(float64(tpl.HP)*1.5) {
		t.Errorf("deep HP = %d, want %d", deep.HP, int(float64(tpl.HP)*1.5))
	}
	if deep.MaxHP != deep.HP {
		t.Error("spawned enemy must start at full HP")
	}
}

func TestScaleEnemyNeverShrinks(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	tpl := Enemies["goblin"] // MinFloor 3
	e := ScaleEnemy(rng, tpl, 1)
	if e.HP < tpl.HP || e.Attack < tpl.Attack {
		t.Errorf("scale dropped below template: hp=%d attack=%d", e.HP, e.Attack)
	}
}

func TestScaleEnemyGoldWithinRange(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	tpl := Enemies["rat"]
	for i := 0; i < 200; i++ {
		e := ScaleEnemy(rng, tpl, tpl.MinFloor)
		if e.Gold < tpl.GoldMin || e.Gold > tpl.GoldMax {
			t.Fatalf("gold %d outside [%d,%d]", e.Gold, tpl.GoldMin, tpl.GoldMax)
		}
	}
}

func TestLootTierBoundaries(t *testing.T) {
	cases := []struct{ difficulty, tier int }{
		{1, 1}, {4, 1}, {5, 2}, {9, 2}, {10, 3}, {42, 3},
	}
	for _, tc := range cases {
		if got := lootTier(tc.difficulty); got != tc.tier {
			t.Errorf("lootTier(%d) = %d, want %d", tc.difficulty, got, tc.tier)
		}
	}
}

func TestRollLootChestAlwaysDrops(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		ref := RollLoot(rng, 1, true)
		if ref.IsEmpty() {
			t.Fatal("chest produced no loot")
		}
		if ref.Generated == nil {
			if LookupItem(ref.ID) == nil {
				t.Fatalf("chest dropped unknown item %q", ref.ID)
			}
		}
	}
}

func TestRollLootCombatSometimesEmpty(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	empty, dropped := 0, 0
	for i := 0; i < 500; i++ {
		if RollLoot(rng, 1, false).IsEmpty() {
			empty++
		} else {
			dropped++
		}
	}
	if empty == 0 || dropped == 0 {
		t.Errorf("combat loot should be a coin flip at 30%%: empty=%d dropped=%d", empty, dropped)
	}
}

func TestGenerateItemShape(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		it := GenerateItem(rng, 10)
		if !strings.HasPrefix(it.ID, "gen_") {
			t.Fatalf("generated id %q lacks gen_ prefix", it.ID)
		}
		if it.Name == "" || it.Category == "" {
			t.Fatalf("incomplete item: %+v", it)
		}
		if it.Tier != lootTier(10) {
			t.Errorf("tier = %d", it.Tier)
		}
		if it.Category == domain.ItemCategoryWeapon && it.Bonuses.Damage == 0 {
			t.Error("generated weapon without damage")
		}
	}
}

func TestGenerateItemIDsUnique(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateItem(rng, 5).ID
		if seen[id] {
			t.Fatalf("duplicate generated id %q", id)
		}
		seen[id] = true
	}
}

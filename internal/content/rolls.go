package content

import (
	"fmt"
	"math/rand"

	"github.com/HonungsGrabb/rpg-together/internal/domain"
)

// NewCharacter собирает персонажа из дефолтной базы и бонусов расы/класса,
// выдает стартовое оружие. Неизвестные раса/класс — ошибка создания.
func NewCharacter(name, raceID, classID string) (*domain.Character, error) {
	race, ok := Races[raceID]
	if !ok {
		return nil, fmt.Errorf("неизвестная раса: %s", raceID)
	}
	class, ok := Classes[classID]
	if !ok {
		return nil, fmt.Errorf("неизвестный класс: %s", classID)
	}

	base := domain.Attributes{Attack: 8, Magic: 8, Defense: 5, Resist: 5, Speed: 5}
	base.Add(race.Bonuses)
	base.Add(class.Bonuses)

	c := &domain.Character{
		Name:        name,
		Race:        raceID,
		Class:       classID,
		Level:       1,
		XPToLevel:   100,
		BaseMaxHP:   100 + race.HP + class.HP,
		BaseMaxMana: 50 + race.Mana + class.Mana,
		Base:        base,
		Equipment:   make(map[domain.Slot]domain.ItemRef),
		KnownSpells: make(map[string]bool),
		Generated:   make(map[string]*domain.Item),
	}
	c.HP = c.BaseMaxHP
	c.Mana = c.BaseMaxMana

	if class.StartingWeapon != "" {
		c.Equipment[domain.SlotWeapon] = domain.StaticRef(class.StartingWeapon)
	}
	return c, nil
}

// RollEnemyForArea выбирает шаблон врага под сложность зоны (этаж подземелья
// или удаленность клетки мира). Если подходящих нет — самый глубокий.
func RollEnemyForArea(rng *rand.Rand, difficulty int) *domain.EnemyTemplate {
	var pool []*domain.EnemyTemplate
	for _, e := range Enemies {
		if difficulty >= e.MinFloor && difficulty <= e.MaxFloor {
			pool = append(pool, e)
		}
	}
	if len(pool) == 0 {
		var deepest *domain.EnemyTemplate
		for _, e := range Enemies {
			if deepest == nil || e.MaxFloor > deepest.MaxFloor {
				deepest = e
			}
		}
		return deepest
	}
	return pool[rng.Intn(len(pool))]
}

// ScaleEnemy превращает шаблон в боевой экземпляр, масштабируя
// характеристики глубиной: +10% за каждый этаж сверх минимального.
// Золото бросается при спавне.
func ScaleEnemy(rng *rand.Rand, tpl *domain.EnemyTemplate, difficulty int) *domain.Enemy {
	scale := 1.0 + float64(difficulty-tpl.MinFloor)*0.1
	if scale < 1.0 {
		scale = 1.0
	}

	gold := tpl.GoldMin
	if tpl.GoldMax > tpl.GoldMin {
		gold += rng.Intn(tpl.GoldMax - tpl.GoldMin + 1)
	}

	hp := int(float64(tpl.HP) * scale)
	return &domain.Enemy{
		TemplateID: tpl.ID,
		Name:       tpl.Name,
		HP:         hp,
		MaxHP:      hp,
		Attack:     int(float64(tpl.Attack) * scale),
		Magic:      int(float64(tpl.Magic) * scale),
		Defense:    int(float64(tpl.Defense) * scale),
		Resist:     int(float64(tpl.Resist) * scale),
		Speed:      tpl.Speed,
		XP:         int(float64(tpl.XP) * scale),
		Gold:       int(float64(gold) * scale),
	}
}

// lootTier выбирает тир пула по сложности зоны.
func lootTier(difficulty int) int {
	switch {
	case difficulty >= 10:
		return 3
	case difficulty >= 5:
		return 2
	default:
		return 1
	}
}

// RollLoot бросает дроп после победы или открытия сундука.
// Обычный бой: 30% шанс. Сундук дает предмет всегда, и изредка —
// сгенерированный, которого нет в статической таблице.
func RollLoot(rng *rand.Rand, difficulty int, isChest bool) domain.ItemRef {
	if !isChest && rng.Float64() > 0.3 {
		return domain.ItemRef{}
	}

	if isChest && rng.Float64() < 0.15 {
		return domain.GeneratedRef(GenerateItem(rng, difficulty))
	}

	table := LootTables[lootTier(difficulty)]
	return domain.StaticRef(table[rng.Intn(len(table))])
}

// Основы для генерации процедурных предметов.
var generatedBases = []struct {
	Name     string
	Category string
}{
	{"Blade", domain.ItemCategoryWeapon},
	{"Helm", domain.ItemCategoryHelmet},
	{"Cuirass", domain.ItemCategoryChest},
	{"Band", domain.ItemCategoryRing},
	{"Talisman", domain.ItemCategoryAmulet},
}

var generatedPrefixes = []string{"Cursed", "Gleaming", "Ancient", "Warped", "Runed"}

// GenerateItem создает уникальный предмет под сложность зоны.
// Запись хранится у нашедшего персонажа, а не в статической таблице.
func GenerateItem(rng *rand.Rand, difficulty int) *domain.Item {
	base := generatedBases[rng.Intn(len(generatedBases))]
	prefix := generatedPrefixes[rng.Intn(len(generatedPrefixes))]

	budget := 3 + difficulty/2 + rng.Intn(3)
	b := domain.ItemBonuses{}
	for i := 0; i < budget; i++ {
		switch rng.Intn(5) {
		case 0:
			b.Attack++
		case 1:
			b.Magic++
		case 2:
			b.Defense++
		case 3:
			b.Resist++
		case 4:
			b.HP += 3
		}
	}
	if base.Category == domain.ItemCategoryWeapon {
		b.Damage = 2 + difficulty/3
	}

	return &domain.Item{
		ID:       "gen_" + randomSuffix(rng),
		Name:     prefix + " " + base.Name,
		Category: base.Category,
		Bonuses:  b,
		MinLevel: 1 + difficulty/3,
		Tier:     lootTier(difficulty),
	}
}

const suffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

func randomSuffix(rng *rand.Rand) string {
	buf := make([]byte, 10)
	for i := range buf {
		buf[i] = suffixAlphabet[rng.Intn(len(suffixAlphabet))]
	}
	return string(buf)
}

package content

import "github.com/HonungsGrabb/rpg-together/internal/domain"

// Статический контент игры: расы, классы, предметы, заклинания, враги.
// Таблицы неизменяемы на рантайме, код обращается к ним только на чтение.

// RaceTemplate — бонусы расы при создании персонажа.
type RaceTemplate struct {
	ID      string
	Name    string
	Bonuses domain.Attributes
	HP      int
	Mana    int
}

// ClassTemplate — бонусы класса и стартовое оружие.
type ClassTemplate struct {
	ID             string
	Name           string
	Bonuses        domain.Attributes
	HP             int
	Mana           int
	StartingWeapon string
}

var Races = map[string]RaceTemplate{
	"human": {ID: "human", Name: "Human", HP: 10, Mana: 10,
		Bonuses: domain.Attributes{Attack: 2, Magic: 2, Defense: 2, Resist: 2, Speed: 2}},
	"elf": {ID: "elf", Name: "Elf", HP: 0, Mana: 20,
		Bonuses: domain.Attributes{Attack: 3, Magic: 4, Defense: 1, Resist: 2, Speed: 4}},
	"dwarf": {ID: "dwarf", Name: "Dwarf", HP: 25, Mana: 0,
		Bonuses: domain.Attributes{Attack: 2, Magic: 0, Defense: 4, Resist: 3, Speed: 0}},
	"orc": {ID: "orc", Name: "Orc", HP: 15, Mana: 0,
		Bonuses: domain.Attributes{Attack: 5, Magic: 0, Defense: 2, Resist: 1, Speed: 1}},
	"undead": {ID: "undead", Name: "Undead", HP: 20, Mana: 10,
		Bonuses: domain.Attributes{Attack: 2, Magic: 3, Defense: 5, Resist: 4, Speed: -2}},
}

var Classes = map[string]ClassTemplate{
	"warrior": {ID: "warrior", Name: "Warrior", HP: 30, Mana: 0, StartingWeapon: "rusty_sword",
		Bonuses: domain.Attributes{Attack: 4, Magic: 0, Defense: 4, Resist: 1, Speed: 0}},
	"mage": {ID: "mage", Name: "Mage", HP: 0, Mana: 40, StartingWeapon: "wooden_staff",
		Bonuses: domain.Attributes{Attack: 0, Magic: 6, Defense: 1, Resist: 4, Speed: 2}},
	"hunter": {ID: "hunter", Name: "Hunter", HP: 10, Mana: 15, StartingWeapon: "shortbow",
		Bonuses: domain.Attributes{Attack: 5, Magic: 1, Defense: 2, Resist: 1, Speed: 4}},
}

func attrs(atk, mag, def, res, spd int) domain.ItemBonuses {
	return domain.ItemBonuses{Attributes: domain.Attributes{
		Attack: atk, Magic: mag, Defense: def, Resist: res, Speed: spd,
	}}
}

var Items = map[string]*domain.Item{
	// --- Оружие ---
	"rusty_sword": {ID: "rusty_sword", Name: "Rusty Sword", Category: domain.ItemCategoryWeapon,
		Tier: 1, MinLevel: 1, Bonuses: domain.ItemBonuses{Attributes: domain.Attributes{Attack: 3}, Damage: 2}},
	"iron_sword": {ID: "iron_sword", Name: "Iron Sword", Category: domain.ItemCategoryWeapon,
		Tier: 2, MinLevel: 3, Bonuses: domain.ItemBonuses{Attributes: domain.Attributes{Attack: 6}, Damage: 4}},
	"steel_sword": {ID: "steel_sword", Name: "Steel Sword", Category: domain.ItemCategoryWeapon,
		Tier: 3, MinLevel: 6, Bonuses: domain.ItemBonuses{Attributes: domain.Attributes{Attack: 10}, Damage: 7}},
	"rusty_dagger": {ID: "rusty_dagger", Name: "Rusty Dagger", Category: domain.ItemCategoryWeapon,
		Tier: 1, MinLevel: 1, Bonuses: domain.ItemBonuses{Attributes: domain.Attributes{Attack: 2, Speed: 2}, Damage: 2}},
	"iron_dagger": {ID: "iron_dagger", Name: "Iron Dagger", Category: domain.ItemCategoryWeapon,
		Tier: 2, MinLevel: 3, Bonuses: domain.ItemBonuses{Attributes: domain.Attributes{Attack: 4, Speed: 3}, Damage: 3}},
	"shortbow": {ID: "shortbow", Name: "Shortbow", Category: domain.ItemCategoryWeapon,
		Tier: 1, MinLevel: 1, Bonuses: domain.ItemBonuses{Attributes: domain.Attributes{Attack: 4, Speed: 1}, Damage: 3}},
	"longbow": {ID: "longbow", Name: "Longbow", Category: domain.ItemCategoryWeapon,
		Tier: 2, MinLevel: 3, Bonuses: domain.ItemBonuses{Attributes: domain.Attributes{Attack: 7, Speed: 1}, Damage: 5}},
	"wooden_staff": {ID: "wooden_staff", Name: "Wooden Staff", Category: domain.ItemCategoryWeapon,
		Tier: 1, MinLevel: 1, Bonuses: domain.ItemBonuses{Attributes: domain.Attributes{Magic: 5}, MagicDamage: 3}},
	"arcane_staff": {ID: "arcane_staff", Name: "Arcane Staff", Category: domain.ItemCategoryWeapon,
		Tier: 2, MinLevel: 3, Bonuses: domain.ItemBonuses{Attributes: domain.Attributes{Magic: 9}, MagicDamage: 6}},

	// --- Левая рука ---
	"wooden_shield": {ID: "wooden_shield", Name: "Wooden Shield", Category: domain.ItemCategoryOffhand,
		Tier: 1, MinLevel: 1, Bonuses: attrs(0, 0, 3, 1, 0)},
	"iron_shield": {ID: "iron_shield", Name: "Iron Shield", Category: domain.ItemCategoryOffhand,
		Tier: 2, MinLevel: 4, Bonuses: domain.ItemBonuses{Attributes: domain.Attributes{Defense: 6, Resist: 2}, HP: 10}},
	"spell_orb": {ID: "spell_orb", Name: "Spell Orb", Category: domain.ItemCategoryOffhand,
		Tier: 2, MinLevel: 4, Bonuses: domain.ItemBonuses{Attributes: domain.Attributes{Magic: 4, Resist: 3}, Mana: 15, MagicDamage: 2}},

	// --- Шлемы ---
	"leather_cap": {ID: "leather_cap", Name: "Leather Cap", Category: domain.ItemCategoryHelmet,
		Tier: 1, MinLevel: 1, Bonuses: attrs(0, 0, 1, 0, 0)},
	"iron_helm": {ID: "iron_helm", Name: "Iron Helm", Category: domain.ItemCategoryHelmet,
		Tier: 2, MinLevel: 3, Bonuses: domain.ItemBonuses{Attributes: domain.Attributes{Defense: 3}, HP: 5}},
	"steel_helm": {ID: "steel_helm", Name: "Steel Helm", Category: domain.ItemCategoryHelmet,
		Tier: 3, MinLevel: 6, Bonuses: domain.ItemBonuses{Attributes: domain.Attributes{Defense: 5}, HP: 10}},

	// --- Нагрудники ---
	"cloth_shirt": {ID: "cloth_shirt", Name: "Cloth Shirt", Category: domain.ItemCategoryChest,
		Tier: 1, MinLevel: 1, Bonuses: attrs(0, 0, 1, 0, 0)},
	"leather_armor": {ID: "leather_armor", Name: "Leather Armor", Category: domain.ItemCategoryChest,
		Tier: 2, MinLevel: 3, Bonuses: domain.ItemBonuses{Attributes: domain.Attributes{Defense: 3}, HP: 5}},
	"chainmail": {ID: "chainmail", Name: "Chainmail", Category: domain.ItemCategoryChest,
		Tier: 3, MinLevel: 6, Bonuses: domain.ItemBonuses{Attributes: domain.Attributes{Defense: 6, Resist: 1}, HP: 15}},

	// --- Поножи ---
	"cloth_pants": {ID: "cloth_pants", Name: "Cloth Pants", Category: domain.ItemCategoryLeggings,
		Tier: 1, MinLevel: 1, Bonuses: attrs(0, 0, 1, 0, 0)},
	"leather_leggings": {ID: "leather_leggings", Name: "Leather Leggings", Category: domain.ItemCategoryLeggings,
		Tier: 2, MinLevel: 3, Bonuses: attrs(0, 0, 2, 0, 1)},
	"iron_leggings": {ID: "iron_leggings", Name: "Iron Leggings", Category: domain.ItemCategoryLeggings,
		Tier: 3, MinLevel: 6, Bonuses: domain.ItemBonuses{Attributes: domain.Attributes{Defense: 4}, HP: 5}},

	// --- Обувь ---
	"sandals": {ID: "sandals", Name: "Sandals", Category: domain.ItemCategoryBoots,
		Tier: 1, MinLevel: 1, Bonuses: attrs(0, 0, 0, 0, 1)},
	"leather_boots": {ID: "leather_boots", Name: "Leather Boots", Category: domain.ItemCategoryBoots,
		Tier: 2, MinLevel: 3, Bonuses: attrs(0, 0, 1, 0, 2)},
	"iron_boots": {ID: "iron_boots", Name: "Iron Boots", Category: domain.ItemCategoryBoots,
		Tier: 3, MinLevel: 6, Bonuses: attrs(0, 0, 3, 0, 1)},

	// --- Украшения ---
	"bone_amulet": {ID: "bone_amulet", Name: "Bone Amulet", Category: domain.ItemCategoryAmulet,
		Tier: 2, MinLevel: 3, Bonuses: domain.ItemBonuses{Attributes: domain.Attributes{Resist: 3}, Mana: 10}},
	"ruby_amulet": {ID: "ruby_amulet", Name: "Ruby Amulet", Category: domain.ItemCategoryAmulet,
		Tier: 3, MinLevel: 7, Bonuses: domain.ItemBonuses{Attributes: domain.Attributes{Magic: 3, Resist: 4}, HP: 10, Mana: 15}},
	"copper_ring": {ID: "copper_ring", Name: "Copper Ring", Category: domain.ItemCategoryRing,
		Tier: 1, MinLevel: 1, Bonuses: attrs(1, 1, 0, 0, 0)},
	"silver_ring": {ID: "silver_ring", Name: "Silver Ring", Category: domain.ItemCategoryRing,
		Tier: 2, MinLevel: 4, Bonuses: attrs(2, 2, 0, 1, 0)},
	"gold_ring": {ID: "gold_ring", Name: "Gold Ring", Category: domain.ItemCategoryRing,
		Tier: 3, MinLevel: 7, Bonuses: attrs(3, 3, 1, 1, 1)},

	// --- Расходники ---
	"health_potion": {ID: "health_potion", Name: "Health Potion", Category: domain.ItemCategoryConsumable,
		Tier: 1, Effect: &domain.ConsumableEffect{Heal: 30}},
	"large_health_potion": {ID: "large_health_potion", Name: "Large Health Potion", Category: domain.ItemCategoryConsumable,
		Tier: 2, Effect: &domain.ConsumableEffect{Heal: 60}},
	"mana_potion": {ID: "mana_potion", Name: "Mana Potion", Category: domain.ItemCategoryConsumable,
		Tier: 1, Effect: &domain.ConsumableEffect{Mana: 25}},
	"elixir": {ID: "elixir", Name: "Elixir", Category: domain.ItemCategoryConsumable,
		Tier: 3, Effect: &domain.ConsumableEffect{Heal: 50, Mana: 50}},

	// --- Свитки ---
	"scroll_firebolt": {ID: "scroll_firebolt", Name: "Scroll of Firebolt", Category: domain.ItemCategoryScroll,
		Tier: 1, TeachesSpell: "firebolt"},
	"scroll_poison_cloud": {ID: "scroll_poison_cloud", Name: "Scroll of Poison Cloud", Category: domain.ItemCategoryScroll,
		Tier: 2, TeachesSpell: "poison_cloud"},
	"scroll_war_cry": {ID: "scroll_war_cry", Name: "Scroll of War Cry", Category: domain.ItemCategoryScroll,
		Tier: 2, TeachesSpell: "war_cry"},
	"scroll_multi_shot": {ID: "scroll_multi_shot", Name: "Scroll of Multi Shot", Category: domain.ItemCategoryScroll,
		Tier: 2, TeachesSpell: "multi_shot"},
	"scroll_minor_heal": {ID: "scroll_minor_heal", Name: "Scroll of Minor Heal", Category: domain.ItemCategoryScroll,
		Tier: 1, TeachesSpell: "minor_heal"},
}

var Spells = map[string]*domain.Spell{
	"minor_heal": {ID: "minor_heal", Name: "Minor Heal", Class: "", ManaCost: 8, MinLevel: 1,
		DamageType: domain.DamageNone, Heal: 20, HealScale: 0.5},

	"firebolt": {ID: "firebolt", Name: "Firebolt", Class: "mage", ManaCost: 10, MinLevel: 2,
		DamageType: domain.DamageMagical, Damage: 8, DamageScale: 0.8},
	"frost_shackles": {ID: "frost_shackles", Name: "Frost Shackles", Class: "mage", ManaCost: 12, MinLevel: 4,
		DamageType: domain.DamageMagical, Damage: 4, DamageScale: 0.4,
		Debuff: &domain.TimedEffect{Stat: domain.StatSpeed, Amount: -3, Turns: 3}},
	"poison_cloud": {ID: "poison_cloud", Name: "Poison Cloud", Class: "mage", ManaCost: 15, MinLevel: 5,
		DamageType: domain.DamageMagical, DOT: &domain.DOTEffect{Damage: 6, Turns: 3}},

	"power_strike": {ID: "power_strike", Name: "Power Strike", Class: "warrior", ManaCost: 6, MinLevel: 2,
		DamageType: domain.DamagePhysical, Damage: 6, DamageScale: 0.6},
	"war_cry": {ID: "war_cry", Name: "War Cry", Class: "warrior", ManaCost: 10, MinLevel: 3,
		DamageType: domain.DamageNone,
		Buff: &domain.TimedEffect{Stat: domain.StatAttack, Amount: 5, Turns: 3}},
	"shield_bash": {ID: "shield_bash", Name: "Shield Bash", Class: "warrior", ManaCost: 8, MinLevel: 5,
		DamageType: domain.DamagePhysical, Damage: 4, DamageScale: 0.3,
		Debuff: &domain.TimedEffect{Stat: domain.StatDefense, Amount: -4, Turns: 2}},

	"multi_shot": {ID: "multi_shot", Name: "Multi Shot", Class: "hunter", ManaCost: 12, MinLevel: 3,
		DamageType: domain.DamagePhysical, Damage: 3, DamageScale: 0.4, Hits: 3},
	"serpent_sting": {ID: "serpent_sting", Name: "Serpent Sting", Class: "hunter", ManaCost: 10, MinLevel: 4,
		DamageType: domain.DamagePhysical, Damage: 2, DamageScale: 0.3,
		DOT: &domain.DOTEffect{Damage: 5, Turns: 3}},
}

var Enemies = map[string]*domain.EnemyTemplate{
	"rat":      {ID: "rat", Name: "Giant Rat", HP: 15, Attack: 3, Defense: 1, Resist: 0, Speed: 3, XP: 10, GoldMin: 2, GoldMax: 8, MinFloor: 1, MaxFloor: 5},
	"bat":      {ID: "bat", Name: "Cave Bat", HP: 12, Attack: 4, Defense: 0, Resist: 0, Speed: 5, XP: 12, GoldMin: 3, GoldMax: 10, MinFloor: 1, MaxFloor: 6},
	"slime":    {ID: "slime", Name: "Slime", HP: 20, Attack: 2, Defense: 2, Resist: 3, Speed: 1, XP: 8, GoldMin: 1, GoldMax: 5, MinFloor: 1, MaxFloor: 4},
	"goblin":   {ID: "goblin", Name: "Goblin", HP: 25, Attack: 6, Defense: 2, Resist: 1, Speed: 3, XP: 20, GoldMin: 8, GoldMax: 20, MinFloor: 3, MaxFloor: 8},
	"skeleton": {ID: "skeleton", Name: "Skeleton", HP: 22, Attack: 7, Defense: 3, Resist: 2, Speed: 2, XP: 25, GoldMin: 10, GoldMax: 25, MinFloor: 3, MaxFloor: 10},
	"spider":   {ID: "spider", Name: "Giant Spider", HP: 28, Attack: 8, Defense: 2, Resist: 1, Speed: 4, XP: 22, GoldMin: 5, GoldMax: 18, MinFloor: 4, MaxFloor: 9},
	"orc_grunt": {ID: "orc_grunt", Name: "Orc Grunt", HP: 40, Attack: 10, Defense: 5, Resist: 2, Speed: 2, XP: 35, GoldMin: 15, GoldMax: 35, MinFloor: 6, MaxFloor: 12},
	"zombie":   {ID: "zombie", Name: "Zombie", HP: 50, Attack: 8, Defense: 6, Resist: 4, Speed: 1, XP: 30, GoldMin: 10, GoldMax: 30, MinFloor: 5, MaxFloor: 11},
	"ghost":    {ID: "ghost", Name: "Ghost", HP: 30, Attack: 12, Magic: 10, Defense: 8, Resist: 8, Speed: 4, XP: 40, GoldMin: 20, GoldMax: 40, MinFloor: 7, MaxFloor: 15},
	"troll":    {ID: "troll", Name: "Troll", HP: 80, Attack: 15, Defense: 8, Resist: 3, Speed: 1, XP: 60, GoldMin: 30, GoldMax: 60, MinFloor: 10, MaxFloor: 20},
	"dark_knight": {ID: "dark_knight", Name: "Dark Knight", HP: 70, Attack: 18, Defense: 12, Resist: 6, Speed: 3, XP: 75, GoldMin: 40, GoldMax: 80, MinFloor: 12, MaxFloor: 25},
	"demon":    {ID: "demon", Name: "Demon", HP: 100, Attack: 22, Magic: 15, Defense: 10, Resist: 10, Speed: 4, XP: 100, GoldMin: 50, GoldMax: 100, MinFloor: 15, MaxFloor: 99},
}

// LootTables — пулы лута по тирам. Тир выбирается этажом/сложностью.
var LootTables = map[int][]string{
	1: {"leather_cap", "cloth_shirt", "cloth_pants", "sandals", "rusty_dagger", "wooden_shield",
		"copper_ring", "health_potion", "mana_potion", "scroll_firebolt", "scroll_minor_heal"},
	2: {"iron_helm", "leather_armor", "leather_leggings", "leather_boots", "iron_sword", "iron_dagger",
		"longbow", "arcane_staff", "iron_shield", "spell_orb", "bone_amulet", "silver_ring",
		"health_potion", "large_health_potion", "scroll_war_cry", "scroll_multi_shot"},
	3: {"steel_helm", "chainmail", "iron_leggings", "iron_boots", "steel_sword", "ruby_amulet",
		"gold_ring", "large_health_potion", "elixir", "scroll_poison_cloud"},
}

// LookupItem возвращает статический шаблон предмета или nil.
func LookupItem(id string) *domain.Item {
	return Items[id]
}

// LookupSpell возвращает шаблон заклинания или nil.
func LookupSpell(id string) *domain.Spell {
	return Spells[id]
}

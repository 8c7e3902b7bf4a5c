package domain

// Категории предметов. Категория определяет слот экипировки
// либо помечает предмет как расходник/свиток.
const (
	ItemCategoryWeapon     = "weapon"
	ItemCategoryOffhand    = "offhand"
	ItemCategoryHelmet     = "helmet"
	ItemCategoryChest      = "chest"
	ItemCategoryLeggings   = "leggings"
	ItemCategoryBoots      = "boots"
	ItemCategoryAmulet     = "amulet"
	ItemCategoryRing       = "ring"
	ItemCategoryConsumable = "consumable"
	ItemCategoryScroll     = "scroll"
)

// Slot — слот экипировки.
type Slot string

const (
	SlotWeapon   Slot = "weapon"
	SlotOffhand  Slot = "offhand"
	SlotHelmet   Slot = "helmet"
	SlotChest    Slot = "chest"
	SlotLeggings Slot = "leggings"
	SlotBoots    Slot = "boots"
	SlotAmulet   Slot = "amulet"
	SlotRing1    Slot = "ring1"
	SlotRing2    Slot = "ring2"
)

// EquipmentSlots — фиксированный порядок слотов для обхода экипировки.
var EquipmentSlots = []Slot{
	SlotWeapon, SlotOffhand, SlotHelmet, SlotChest,
	SlotLeggings, SlotBoots, SlotAmulet, SlotRing1, SlotRing2,
}

// ItemBonuses — плоские бонусы предмета. Damage/MagicDamage суммируются
// отдельно от характеристик и входят только в сырой урон атаки.
type ItemBonuses struct {
	Attributes  `json:",inline"`
	HP          int `json:"hp,omitempty"`
	Mana        int `json:"mana,omitempty"`
	Damage      int `json:"damage,omitempty"`
	MagicDamage int `json:"magicDamage,omitempty"`
}

// ConsumableEffect — эффект расходника.
type ConsumableEffect struct {
	Heal int `json:"heal,omitempty"`
	Mana int `json:"mana,omitempty"`
}

// Item — шаблон предмета. Статические предметы живут в таблице контента,
// сгенерированные — в Character.Generated.
type Item struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Category string      `json:"category"`
	Bonuses  ItemBonuses `json:"bonuses"`
	MinLevel int         `json:"minLevel,omitempty"`
	Tier     int         `json:"tier,omitempty"`

	// Для расходников.
	Effect *ConsumableEffect `json:"effect,omitempty"`
	// Для свитков: ID изучаемого заклинания.
	TeachesSpell string `json:"teachesSpell,omitempty"`
}

// ItemRef — ссылка на предмет в инвентаре или слоте экипировки.
// Либо ID статического шаблона, либо полная запись сгенерированного
// предмета. Пустой ID и nil Generated означают пустой слот.
type ItemRef struct {
	ID        string `json:"id,omitempty"`
	Generated *Item  `json:"generated,omitempty"`
}

// IsEmpty сообщает, что ссылка никуда не указывает.
func (r ItemRef) IsEmpty() bool {
	return r.ID == "" && r.Generated == nil
}

// Resolve возвращает запись предмета через функцию поиска статических
// шаблонов. Сгенерированные предметы несут запись с собой.
func (r ItemRef) Resolve(lookup func(string) *Item) *Item {
	if r.Generated != nil {
		return r.Generated
	}
	if r.ID == "" {
		return nil
	}
	return lookup(r.ID)
}

// StaticRef — ссылка на предмет из статической таблицы.
func StaticRef(id string) ItemRef {
	return ItemRef{ID: id}
}

// GeneratedRef — ссылка на процедурно сгенерированный предмет.
func GeneratedRef(it *Item) ItemRef {
	return ItemRef{ID: it.ID, Generated: it}
}

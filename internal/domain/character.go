package domain

// InventoryCapacity — жесткий предел размера инвентаря.
const InventoryCapacity = 20

// LifetimeStats — накопительная статистика персонажа.
type LifetimeStats struct {
	EnemiesKilled   int `json:"enemiesKilled"`
	DungeonsCleared int `json:"dungeonsCleared"`
	FloorsExplored  int `json:"floorsExplored"`
	GoldEarned      int `json:"goldEarned"`
}

// Location — позиция персонажа: клетка мира либо этаж подземелья.
type Location struct {
	WorldX       int  `json:"worldX"`
	WorldY       int  `json:"worldY"`
	PosX         int  `json:"posX"`
	PosY         int  `json:"posY"`
	InDungeon    bool `json:"inDungeon"`
	DungeonFloor int  `json:"dungeonFloor,omitempty"`
}

// Character — один персонаж на слот сохранения.
// BaseMaxHP/BaseMaxMana растут с уровнем; реальные максимумы считает
// internal/stats с учетом экипировки.
type Character struct {
	Name  string `json:"name"`
	Race  string `json:"race"`
	Class string `json:"class"`

	Level     int `json:"level"`
	XP        int `json:"xp"`
	XPToLevel int `json:"xpToLevel"`

	HP          int `json:"hp"`
	Mana        int `json:"mana"`
	BaseMaxHP   int `json:"baseMaxHp"`
	BaseMaxMana int `json:"baseMaxMana"`

	Base Attributes `json:"base"`
	Gold int        `json:"gold"`

	Location Location `json:"location"`

	Equipment map[Slot]ItemRef `json:"equipment"`
	Inventory []ItemRef        `json:"inventory"`

	KnownSpells map[string]bool `json:"knownSpells"`
	// Generated — записи процедурных предметов, найденных этим персонажем.
	// Статической таблице они не принадлежат и сохраняются вместе с ним.
	Generated map[string]*Item `json:"generated,omitempty"`

	Stats LifetimeStats `json:"stats"`
}

// EquippedRefs возвращает непустые ссылки экипировки в порядке слотов.
func (c *Character) EquippedRefs() []ItemRef {
	var refs []ItemRef
	for _, slot := range EquipmentSlots {
		if ref, ok := c.Equipment[slot]; ok && !ref.IsEmpty() {
			refs = append(refs, ref)
		}
	}
	return refs
}

// InventoryFull сообщает, что класть больше некуда.
func (c *Character) InventoryFull() bool {
	return len(c.Inventory) >= InventoryCapacity
}

// Knows проверяет, изучено ли заклинание.
func (c *Character) Knows(spellID string) bool {
	return c.KnownSpells[spellID]
}

// ApplyDamage уменьшает HP, пол — ноль. Возвращает true при смерти.
func (c *Character) ApplyDamage(amount int) bool {
	if amount < 0 {
		amount = 0
	}
	c.HP -= amount
	if c.HP <= 0 {
		c.HP = 0
		return true
	}
	return false
}

// ClampVitals прижимает текущие HP/ману к переданным максимумам.
// Инвариант: текущие значения никогда не превышают расчетный максимум.
func (c *Character) ClampVitals(maxHP, maxMana int) {
	if c.HP > maxHP {
		c.HP = maxHP
	}
	if c.HP < 0 {
		c.HP = 0
	}
	if c.Mana > maxMana {
		c.Mana = maxMana
	}
	if c.Mana < 0 {
		c.Mana = 0
	}
}

// AddGold начисляет золото и ведет накопительный счетчик.
func (c *Character) AddGold(amount int) {
	if amount <= 0 {
		return
	}
	c.Gold += amount
	c.Stats.GoldEarned += amount
}

// Clone возвращает глубокую копию. Снимок, уходящий в другую горутину
// (отложенное сохранение), не должен делить карты и срезы с живым
// персонажем.
func (c *Character) Clone() *Character {
	d := *c
	d.Equipment = make(map[Slot]ItemRef, len(c.Equipment))
	for k, v := range c.Equipment {
		d.Equipment[k] = v
	}
	d.Inventory = append([]ItemRef(nil), c.Inventory...)
	d.KnownSpells = make(map[string]bool, len(c.KnownSpells))
	for k, v := range c.KnownSpells {
		d.KnownSpells[k] = v
	}
	if c.Generated != nil {
		d.Generated = make(map[string]*Item, len(c.Generated))
		for k, v := range c.Generated {
			it := *v
			d.Generated[k] = &it
		}
	}
	return &d
}

// ResolveItem ищет предмет сперва среди сгенерированных записей персонажа,
// затем через переданную таблицу статических шаблонов.
func (c *Character) ResolveItem(ref ItemRef, lookup func(string) *Item) *Item {
	if ref.Generated != nil {
		return ref.Generated
	}
	if it, ok := c.Generated[ref.ID]; ok {
		return it
	}
	return ref.Resolve(lookup)
}

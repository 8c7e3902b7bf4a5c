package domain

// Stat — имя характеристики, по которому суммируются бонусы
// экипировки и временные модификаторы боя.
type Stat string

const (
	StatAttack  Stat = "attack"  // физическая сила
	StatMagic   Stat = "magic"   // магическая сила
	StatDefense Stat = "defense" // защита
	StatResist  Stat = "resist"  // сопротивление магии
	StatSpeed   Stat = "speed"   // скорость
	StatHP      Stat = "hp"      // бонус к максимуму HP
	StatMana    Stat = "mana"    // бонус к максимуму маны
)

// Attributes — пять базовых характеристик персонажа.
type Attributes struct {
	Attack  int `json:"attack"`
	Magic   int `json:"magic"`
	Defense int `json:"defense"`
	Resist  int `json:"resist"`
	Speed   int `json:"speed"`
}

// Get возвращает значение по имени. Неизвестные имена дают 0.
func (a Attributes) Get(s Stat) int {
	switch s {
	case StatAttack:
		return a.Attack
	case StatMagic:
		return a.Magic
	case StatDefense:
		return a.Defense
	case StatResist:
		return a.Resist
	case StatSpeed:
		return a.Speed
	}
	return 0
}

// Add прибавляет другой набор характеристик (бонусы расы/класса/уровня).
func (a *Attributes) Add(b Attributes) {
	a.Attack += b.Attack
	a.Magic += b.Magic
	a.Defense += b.Defense
	a.Resist += b.Resist
	a.Speed += b.Speed
}

package domain

// DamageType определяет, от какой силы масштабируется заклинание.
type DamageType string

const (
	DamagePhysical DamageType = "physical"
	DamageMagical  DamageType = "magical"
	DamageNone     DamageType = "none"
)

// TimedEffect — временный модификатор характеристики.
// Turns декрементируется в конце каждого завершенного раунда боя.
type TimedEffect struct {
	Stat   Stat `json:"stat"`
	Amount int  `json:"amount"`
	Turns  int  `json:"turns"`
}

// DOTEffect — периодический урон по конкретному врагу.
type DOTEffect struct {
	Damage int `json:"damage"`
	Turns  int `json:"turns"`
}

// Spell — шаблон заклинания. Эффекты комбинируются: одно заклинание
// может одновременно бить, лечить и вешать дебафф.
type Spell struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Class    string `json:"class"` // "" — доступно любому классу
	ManaCost int    `json:"manaCost"`
	MinLevel int    `json:"minLevel"`

	DamageType  DamageType `json:"damageType"`
	Damage      int        `json:"damage,omitempty"`
	DamageScale float64    `json:"damageScale,omitempty"` // доля силы, добавляемая к урону
	Hits        int        `json:"hits,omitempty"`        // 0 и 1 — один удар

	Heal      int     `json:"heal,omitempty"`
	HealScale float64 `json:"healScale,omitempty"`

	Buff   *TimedEffect `json:"buff,omitempty"`   // на себя
	Debuff *TimedEffect `json:"debuff,omitempty"` // на цель
	DOT    *DOTEffect   `json:"dot,omitempty"`    // на цель
}

// HitCount возвращает число ударов заклинания (минимум 1 для бьющих).
func (s *Spell) HitCount() int {
	if s.Hits > 1 {
		return s.Hits
	}
	return 1
}

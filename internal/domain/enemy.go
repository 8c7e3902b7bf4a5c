package domain

// EnemyTemplate — статическое описание врага до масштабирования.
// GoldMin/GoldMax — диапазон, из которого золото бросается при спавне.
type EnemyTemplate struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	HP       int    `json:"hp"`
	Attack   int    `json:"attack"`
	Magic    int    `json:"magic"`
	Defense  int    `json:"defense"`
	Resist   int    `json:"resist"`
	Speed    int    `json:"speed"`
	XP       int    `json:"xp"`
	GoldMin  int    `json:"goldMin"`
	GoldMax  int    `json:"goldMax"`
	MinFloor int    `json:"minFloor"`
	MaxFloor int    `json:"maxFloor"`
}

// Enemy — боевой экземпляр. Живет ровно один бой (или один тайл до боя),
// постоянной идентичности между боями у врагов нет.
type Enemy struct {
	TemplateID string `json:"templateId"`
	Name       string `json:"name"`
	HP         int    `json:"hp"`
	MaxHP      int    `json:"maxHp"`
	Attack     int    `json:"attack"`
	Magic      int    `json:"magic"`
	Defense    int    `json:"defense"`
	Resist     int    `json:"resist"`
	Speed      int    `json:"speed"`
	XP         int    `json:"xp"`
	Gold       int    `json:"gold"` // брошено при спавне
}

// Alive сообщает, жив ли враг.
func (e *Enemy) Alive() bool {
	return e.HP > 0
}

// TakeDamage наносит урон и возвращает true, если враг погиб от этого удара.
// HP не опускается ниже нуля.
func (e *Enemy) TakeDamage(amount int) bool {
	if !e.Alive() {
		return false
	}
	if amount < 0 {
		amount = 0
	}
	e.HP -= amount
	if e.HP <= 0 {
		e.HP = 0
		return true
	}
	return false
}

// LowerHP монотонно опускает HP к reported, никогда не поднимая его.
// Используется при сведении состояния совместного боя: сообщение,
// пришедшее с опозданием, не должно "воскрешать" врага.
func (e *Enemy) LowerHP(reported int) bool {
	if reported < 0 {
		reported = 0
	}
	if reported >= e.HP {
		return false
	}
	e.HP = reported
	return e.HP == 0
}

// Clone возвращает независимую копию для снапшотов совместного боя.
func (e *Enemy) Clone() *Enemy {
	c := *e
	return &c
}

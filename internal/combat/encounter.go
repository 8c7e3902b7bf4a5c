// Package combat реализует машину состояний боя: раунды, бафы/дебафы,
// периодический урон, побег, награды. Игрок всегда действует первым,
// затем все выжившие враги контратакуют в том же раунде.
package combat

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/HonungsGrabb/rpg-together/internal/domain"
	"github.com/HonungsGrabb/rpg-together/internal/inventory"
	"github.com/HonungsGrabb/rpg-together/internal/progression"
	"github.com/HonungsGrabb/rpg-together/internal/stats"
	"github.com/HonungsGrabb/rpg-together/pkg/logger"
	"github.com/sirupsen/logrus"
)

// State — состояние боя.
type State string

const (
	StateActive  State = "ACTIVE"
	StateVictory State = "VICTORY"
	StateDefeat  State = "DEFEAT"
	StateFled    State = "FLED"
)

var (
	ErrNotActive        = errors.New("бой не идет")
	ErrInvalidTarget    = errors.New("неверная цель")
	ErrUnknownSpell     = errors.New("неизвестное заклинание")
	ErrSpellNotLearned  = errors.New("заклинание не изучено")
	ErrInsufficientMana = errors.New("не хватает маны")
)

// Config — параметры движка боя.
type Config struct {
	// ItemUseCostsTurn: тратит ли использование предмета полный раунд
	// (враги контратакуют, таймеры тикают).
	ItemUseCostsTurn bool
}

// Kill — награда за одно убийство. Начисляется немедленно, не в конце боя.
type Kill struct {
	EnemyIndex int
	Name       string
	XP         int
	Gold       int
	Levels     int
	ByDOT      bool
}

// Result — итог одного действия игрока (и последовавшего раунда).
type Result struct {
	Action      string // "attack", "spell", "item", "flee"
	SpellID     string
	TargetIndex int
	Damage      int // урон по цели действием игрока
	TargetHP    int // HP цели после действия
	DamageTaken int // суммарный урон контратак по игроку
	Fled        bool
	Kills       []Kill
	State       State
	Log         []string
}

// Encounter — один бой от входа до развязки. Владеет локальными копиями
// врагов; в совместном бою каждый клиент мутирует свою копию и сводит
// их через сообщения (ApplyExternalDamage).
type Encounter struct {
	State   State
	Enemies []*domain.Enemy
	Target  int
	Round   int

	// Бафы на игрока и подвешенные на врагов эффекты (по индексу врага).
	Buffs   []domain.TimedEffect
	debuffs [][]domain.TimedEffect
	dots    [][]domain.DOTEffect

	char     *domain.Character
	cfg      Config
	rng      *rand.Rand
	rewarded []bool // защелка наград: по одному разу на врага
	resolveSpell func(string) *domain.Spell
}

// New начинает бой. Снимок врагов принадлежит бою целиком.
func New(c *domain.Character, enemies []*domain.Enemy, cfg Config, rng *rand.Rand, resolveSpell func(string) *domain.Spell) *Encounter {
	e := &Encounter{
		State:        StateActive,
		Enemies:      enemies,
		char:         c,
		cfg:          cfg,
		rng:          rng,
		debuffs:      make([][]domain.TimedEffect, len(enemies)),
		dots:         make([][]domain.DOTEffect, len(enemies)),
		rewarded:     make([]bool, len(enemies)),
		resolveSpell: resolveSpell,
	}
	e.advanceTarget()
	return e
}

// Character возвращает владельца боя.
func (e *Encounter) Character() *domain.Character { return e.char }

// Active сообщает, продолжается ли бой.
func (e *Encounter) Active() bool { return e.State == StateActive }

// SetTarget переводит фокус на живого врага. Неверный индекс игнорируется.
func (e *Encounter) SetTarget(index int) {
	if index < 0 || index >= len(e.Enemies) || !e.Enemies[index].Alive() {
		return
	}
	e.Target = index
}

// advanceTarget переводит цель на первого живого врага по возрастанию
// индекса, если текущая цель мертва.
func (e *Encounter) advanceTarget() {
	if e.Target >= 0 && e.Target < len(e.Enemies) && e.Enemies[e.Target].Alive() {
		return
	}
	for i, en := range e.Enemies {
		if en.Alive() {
			e.Target = i
			return
		}
	}
}

// enemyStat — действующее значение характеристики врага с учетом
// дебафов. Не опускается ниже нуля.
func (e *Encounter) enemyStat(index int, s domain.Stat) int {
	en := e.Enemies[index]
	v := 0
	switch s {
	case domain.StatAttack:
		v = en.Attack
	case domain.StatMagic:
		v = en.Magic
	case domain.StatDefense:
		v = en.Defense
	case domain.StatResist:
		v = en.Resist
	case domain.StatSpeed:
		v = en.Speed
	}
	for _, m := range e.debuffs[index] {
		if m.Stat == s {
			v += m.Amount
		}
	}
	if v < 0 {
		v = 0
	}
	return v
}

// AliveCount — число живых врагов.
func (e *Encounter) AliveCount() int {
	n := 0
	for _, en := range e.Enemies {
		if en.Alive() {
			n++
		}
	}
	return n
}

// Attack — удар оружием по текущей цели.
func (e *Encounter) Attack() (*Result, error) {
	if !e.Active() {
		return nil, ErrNotActive
	}
	e.advanceTarget()
	target := e.Enemies[e.Target]
	if !target.Alive() {
		return nil, ErrInvalidTarget
	}

	res := &Result{Action: "attack", TargetIndex: e.Target}

	weaponPhys, _ := stats.WeaponDamage(e.char)
	raw := stats.Effective(e.char, domain.StatAttack, e.Buffs) + weaponPhys
	dmg := PhysicalDamage(e.rng, raw, e.enemyStat(e.Target, domain.StatDefense))

	killed := target.TakeDamage(dmg)
	res.Damage = dmg
	res.TargetHP = target.HP
	res.Log = append(res.Log, fmt.Sprintf("Вы наносите %d урона по %s.", dmg, target.Name))
	if killed {
		e.awardKill(e.Target, false, res)
	}

	e.finishRound(res)
	return res, nil
}

// Cast — применение заклинания. Нехватка маны не тратит ход: бой
// остается в том же раунде, наружу уходит ошибка.
func (e *Encounter) Cast(spellID string) (*Result, error) {
	if !e.Active() {
		return nil, ErrNotActive
	}
	spell := e.resolveSpell(spellID)
	if spell == nil {
		return nil, ErrUnknownSpell
	}
	if !e.char.Knows(spellID) {
		return nil, ErrSpellNotLearned
	}
	if e.char.Mana < spell.ManaCost {
		return nil, fmt.Errorf("%w: нужно %d", ErrInsufficientMana, spell.ManaCost)
	}

	e.advanceTarget()
	target := e.Enemies[e.Target]
	if !target.Alive() {
		return nil, ErrInvalidTarget
	}

	e.char.Mana -= spell.ManaCost
	res := &Result{Action: "spell", SpellID: spellID, TargetIndex: e.Target}

	// Урон: плоская часть + доля соответствующей силы, по ударам.
	if spell.DamageType != domain.DamageNone && (spell.Damage > 0 || spell.DamageScale > 0) {
		weaponPhys, weaponMagic := stats.WeaponDamage(e.char)
		var raw, mitigation int
		if spell.DamageType == domain.DamageMagical {
			power := stats.Effective(e.char, domain.StatMagic, e.Buffs)
			raw = spell.Damage + int(float64(power)*spell.DamageScale) + weaponMagic
			mitigation = e.enemyStat(e.Target, domain.StatResist)
		} else {
			power := stats.Effective(e.char, domain.StatAttack, e.Buffs)
			raw = spell.Damage + int(float64(power)*spell.DamageScale) + weaponPhys
			mitigation = e.enemyStat(e.Target, domain.StatDefense)
		}

		for hit := 0; hit < spell.HitCount() && target.Alive(); hit++ {
			dmg := 0
			if spell.DamageType == domain.DamageMagical {
				dmg = MagicDamage(e.rng, raw, mitigation)
			} else {
				dmg = PhysicalDamage(e.rng, raw, mitigation)
			}
			res.Damage += dmg
			if target.TakeDamage(dmg) {
				e.awardKill(e.Target, false, res)
			}
		}
		res.TargetHP = target.HP
		res.Log = append(res.Log, fmt.Sprintf("%s наносит %d урона по %s.", spell.Name, res.Damage, target.Name))
	}

	if spell.Heal > 0 || spell.HealScale > 0 {
		power := stats.Effective(e.char, domain.StatMagic, e.Buffs)
		heal := spell.Heal + int(float64(power)*spell.HealScale)
		before := e.char.HP
		e.char.HP += heal
		e.char.ClampVitals(stats.MaxHP(e.char), stats.MaxMana(e.char))
		res.Log = append(res.Log, fmt.Sprintf("%s восстанавливает %d HP.", spell.Name, e.char.HP-before))
	}

	if spell.Buff != nil {
		e.Buffs = append(e.Buffs, *spell.Buff)
		res.Log = append(res.Log, fmt.Sprintf("Эффект %s: %+d к %s на %d х.", spell.Name, spell.Buff.Amount, spell.Buff.Stat, spell.Buff.Turns))
	}
	if spell.Debuff != nil && target.Alive() {
		e.debuffs[e.Target] = append(e.debuffs[e.Target], *spell.Debuff)
		res.Log = append(res.Log, fmt.Sprintf("%s ослабляет %s: %+d к %s.", spell.Name, target.Name, spell.Debuff.Amount, spell.Debuff.Stat))
	}
	if spell.DOT != nil && target.Alive() {
		e.dots[e.Target] = append(e.dots[e.Target], *spell.DOT)
		res.Log = append(res.Log, fmt.Sprintf("%s отравляет %s (%d урона, %d х.).", spell.Name, target.Name, spell.DOT.Damage, spell.DOT.Turns))
	}

	e.finishRound(res)
	return res, nil
}

// UseItem применяет предмет в бою. По умолчанию раунд не тратится;
// поведение переключается конфигом и применяется одинаково всегда.
func (e *Encounter) UseItem(index int) (*Result, error) {
	if !e.Active() {
		return nil, ErrNotActive
	}
	msg, err := inventory.UseItem(e.char, index)
	if err != nil {
		return nil, err
	}
	res := &Result{Action: "item", TargetIndex: e.Target, Log: []string{msg}}
	if e.cfg.ItemUseCostsTurn {
		e.finishRound(res)
	} else {
		res.State = e.State
	}
	return res, nil
}

// Flee — попытка побега. Неудача дарит врагам свободный раунд контратак.
func (e *Encounter) Flee() (*Result, error) {
	if !e.Active() {
		return nil, ErrNotActive
	}

	res := &Result{Action: "flee", TargetIndex: e.Target}

	speed := float64(stats.Effective(e.char, domain.StatSpeed, e.Buffs))
	sum, alive := 0, 0
	for i, en := range e.Enemies {
		if en.Alive() {
			sum += e.enemyStat(i, domain.StatSpeed)
			alive++
		}
	}
	avg := 0.0
	if alive > 0 {
		avg = float64(sum) / float64(alive)
	}

	if e.rng.Float64() < FleeChance(speed, avg) {
		res.Fled = true
		res.Log = append(res.Log, "Вы сбегаете из боя.")
		e.resolve(StateFled)
		res.State = e.State
		return res, nil
	}

	res.Log = append(res.Log, "Сбежать не удалось!")
	e.finishRound(res)
	return res, nil
}

// ExternalOutcome — результат применения чужого сообщения об уроне.
type ExternalOutcome struct {
	EnemyIndex int
	EnemyHP    int
	Applied    bool
	Kills      []Kill
	State      State
}

// ApplyExternalDamage сводит локальное HP врага к отчету соратника.
// Путь обходит обычный расчет раунда: контратак и тиков не происходит.
// Сведение монотонно — HP врага никогда не поднимается, поэтому
// дубликаты и перестановки сообщений не откатывают прогресс.
// Убийство, увиденное этим клиентом впервые, дает его персонажу полную
// награду (по дизайну каждый участник получает полный опыт и золото).
func (e *Encounter) ApplyExternalDamage(enemyIndex, damage, reportedHP int) (*ExternalOutcome, error) {
	if !e.Active() {
		return nil, ErrNotActive
	}
	if enemyIndex < 0 || enemyIndex >= len(e.Enemies) {
		return nil, ErrInvalidTarget
	}
	en := e.Enemies[enemyIndex]

	out := &ExternalOutcome{EnemyIndex: enemyIndex}

	next := en.HP - damage
	if reportedHP >= 0 && reportedHP < next {
		next = reportedHP
	}
	if next < en.HP {
		wasAlive := en.Alive()
		en.LowerHP(next)
		out.Applied = true
		if wasAlive && !en.Alive() {
			res := &Result{}
			e.awardKill(enemyIndex, false, res)
			out.Kills = res.Kills
		}
	}
	out.EnemyHP = en.HP

	if e.AliveCount() == 0 {
		e.resolve(StateVictory)
	} else if e.Target == enemyIndex {
		e.advanceTarget()
	}
	out.State = e.State
	return out, nil
}

// EndExternally завершает бой по сообщению соратника. Награды не
// начисляются: считаются только убийства, уже проведенные через
// сообщения об уроне.
func (e *Encounter) EndExternally(victory bool) {
	if !e.Active() {
		return
	}
	if victory {
		e.resolve(StateVictory)
	} else {
		e.resolve(StateFled)
	}
}

// awardKill начисляет награду за врага ровно один раз (защелка).
func (e *Encounter) awardKill(index int, byDOT bool, res *Result) {
	if e.rewarded[index] {
		return
	}
	e.rewarded[index] = true

	en := e.Enemies[index]
	levels := progression.AwardExperience(e.char, en.XP)
	e.char.AddGold(en.Gold)
	e.char.Stats.EnemiesKilled++

	res.Kills = append(res.Kills, Kill{
		EnemyIndex: index, Name: en.Name, XP: en.XP, Gold: en.Gold,
		Levels: levels, ByDOT: byDOT,
	})
	res.Log = append(res.Log, fmt.Sprintf("%s повержен! +%d XP, +%d золота.", en.Name, en.XP, en.Gold))

	if logger.Log != nil {
		logger.Log.WithFields(logrus.Fields{
			"component": "combat",
			"enemy":     en.TemplateID,
			"xp":        en.XP,
			"gold":      en.Gold,
			"by_dot":    byDOT,
		}).Debug("Enemy defeated")
	}
}

// finishRound доигрывает раунд после действия игрока: контратаки всех
// выживших, тики периодического урона, декремент таймеров, развязка.
func (e *Encounter) finishRound(res *Result) {
	defer func() { res.State = e.State }()

	if e.AliveCount() == 0 {
		e.resolve(StateVictory)
		return
	}

	// Контратака каждого живого врага в том же раунде.
	playerDef := stats.Effective(e.char, domain.StatDefense, e.Buffs)
	playerRes := stats.Effective(e.char, domain.StatResist, e.Buffs)
	for i, en := range e.Enemies {
		if !en.Alive() {
			continue
		}
		var dmg int
		if e.enemyStat(i, domain.StatMagic) > e.enemyStat(i, domain.StatAttack) {
			dmg = MagicDamage(e.rng, e.enemyStat(i, domain.StatMagic), playerRes)
		} else {
			dmg = PhysicalDamage(e.rng, e.enemyStat(i, domain.StatAttack), playerDef)
		}
		res.DamageTaken += dmg
		res.Log = append(res.Log, fmt.Sprintf("%s бьет вас на %d урона.", en.Name, dmg))
		if e.char.ApplyDamage(dmg) {
			res.Log = append(res.Log, "Вы погибаете...")
			e.resolve(StateDefeat)
			return
		}
	}

	// Конец раунда: периодический урон по всем врагам с активными
	// эффектами, независимо от текущей цели.
	for i, en := range e.Enemies {
		if !en.Alive() || len(e.dots[i]) == 0 {
			continue
		}
		total := 0
		for _, d := range e.dots[i] {
			total += d.Damage
		}
		killed := en.TakeDamage(total)
		res.Log = append(res.Log, fmt.Sprintf("%s получает %d урона от эффектов.", en.Name, total))
		if killed {
			e.awardKill(i, true, res)
		}
	}

	e.tickTimers()
	e.Round++

	if e.AliveCount() == 0 {
		e.resolve(StateVictory)
		return
	}
	e.advanceTarget()
}

// tickTimers декрементирует счетчики бафов/дебафов/DOT и убирает
// истекшие. Эффект с turns=n действует ровно n завершенных раундов.
func (e *Encounter) tickTimers() {
	e.Buffs = tickEffects(e.Buffs)
	for i := range e.debuffs {
		e.debuffs[i] = tickEffects(e.debuffs[i])
	}
	for i := range e.dots {
		kept := e.dots[i][:0]
		for _, d := range e.dots[i] {
			d.Turns--
			if d.Turns > 0 {
				kept = append(kept, d)
			}
		}
		e.dots[i] = kept
	}
}

func tickEffects(effects []domain.TimedEffect) []domain.TimedEffect {
	kept := effects[:0]
	for _, m := range effects {
		m.Turns--
		if m.Turns > 0 {
			kept = append(kept, m)
		}
	}
	return kept
}

// resolve закрывает бой. Никакие боевые модификаторы не переживают
// развязку — следующий бой начинается с чистого состояния.
func (e *Encounter) resolve(s State) {
	e.State = s
	e.Buffs = nil
	for i := range e.debuffs {
		e.debuffs[i] = nil
	}
	for i := range e.dots {
		e.dots[i] = nil
	}
}

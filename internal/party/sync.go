package party

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/HonungsGrabb/rpg-together/internal/combat"
	"github.com/HonungsGrabb/rpg-together/internal/domain"
	"github.com/HonungsGrabb/rpg-together/internal/stats"
	"github.com/HonungsGrabb/rpg-together/pkg/api"
	"github.com/HonungsGrabb/rpg-together/pkg/logger"
)

// EncounterTTL — сколько совместный бой ждет сообщений, прежде чем
// считаться брошенным (инициатор отключился, не доведя до развязки).
const EncounterTTL = 90 * time.Second

// StaleAfter — порог, после которого чужой игрок без обновлений
// выбрасывается из кэша позиций.
const StaleAfter = 120 * time.Second

// ChatHistory — сколько последних сообщений чата держится в памяти.
const ChatHistory = 50

// Publisher отправляет событие в широковещательный канал зоны.
// Отправка best-effort: ошибка значит лишь "не ушло отсюда",
// о доставке остальным никто не знает.
type Publisher interface {
	Publish(event string, payload any) error
}

// RemotePlayer — последнее известное состояние чужого персонажа.
// Это кэш для отрисовки, не авторитетные данные.
type RemotePlayer struct {
	UserID       string
	Name         string
	Race         string
	Class        string
	Level        int
	WorldX       int
	WorldY       int
	X            int
	Y            int
	InDungeon    bool
	DungeonFloor int
	LastSeen     time.Time
}

// ChatEntry — строка журнала чата.
type ChatEntry struct {
	Name      string
	Message   string
	Timestamp time.Time
	Own       bool
}

// Coordinator сшивает локальный бой с группой: исходящие действия
// превращает в сообщения, входящие сообщения применяет к своим копиям.
// Сервера-арбитра нет, каждый клиент доверяет отчетам соратников и
// сводит состояние монотонно.
type Coordinator struct {
	userID string
	char   *domain.Character
	pub    Publisher
	rng    *rand.Rand
	cfg    combat.Config

	party   *Party
	invite  *api.PartyInvitePayload // последнее входящее приглашение
	others  map[string]*RemotePlayer
	chat    []ChatEntry

	enc         *combat.Encounter
	combatID    string
	sharedFight bool
	lastTraffic time.Time

	resolveSpell func(string) *domain.Spell

	// OnNotice получает строки для журнала игрока (убийства соратников,
	// системные сообщения группы). Может быть nil.
	OnNotice func(text string)
}

// NewCoordinator создает координатора для одного клиента.
func NewCoordinator(userID string, char *domain.Character, pub Publisher, rng *rand.Rand, cfg combat.Config, resolveSpell func(string) *domain.Spell) *Coordinator {
	return &Coordinator{
		userID:       userID,
		char:         char,
		pub:          pub,
		rng:          rng,
		cfg:          cfg,
		others:       make(map[string]*RemotePlayer),
		resolveSpell: resolveSpell,
	}
}

// Party возвращает текущую группу (nil — игрок не в группе).
func (co *Coordinator) Party() *Party { return co.party }

// Encounter возвращает активный бой (nil — боя нет).
func (co *Coordinator) Encounter() *combat.Encounter { return co.enc }

// CombatID возвращает идентификатор совместного боя.
func (co *Coordinator) CombatID() string { return co.combatID }

// Others — снимок кэша чужих игроков.
func (co *Coordinator) Others() []RemotePlayer {
	out := make([]RemotePlayer, 0, len(co.others))
	for _, p := range co.others {
		out = append(out, *p)
	}
	return out
}

// Chat — снимок журнала чата.
func (co *Coordinator) Chat() []ChatEntry {
	out := make([]ChatEntry, len(co.chat))
	copy(out, co.chat)
	return out
}

func (co *Coordinator) notice(text string) {
	if co.OnNotice != nil {
		co.OnNotice(text)
	}
}

func (co *Coordinator) publish(event string, payload any) {
	if co.pub == nil {
		return
	}
	if err := co.pub.Publish(event, payload); err != nil {
		logger.Log.WithFields(logrus.Fields{
			"component": "party",
			"event":     event,
		}).WithError(err).Warn("Broadcast failed")
	}
}

// --- Присутствие ---

// AnnounceJoin объявляет о входе в зону.
func (co *Coordinator) AnnounceJoin() {
	loc := co.char.Location
	co.publish(api.EventPlayerJoin, api.PlayerJoinPayload{
		UserID: co.userID, Name: co.char.Name, Race: co.char.Race,
		Class: co.char.Class, Level: co.char.Level,
		WorldX: loc.WorldX, WorldY: loc.WorldY, InDungeon: loc.InDungeon,
	})
}

// AnnounceLeave объявляет о выходе.
func (co *Coordinator) AnnounceLeave() {
	co.publish(api.EventPlayerLeave, api.PlayerLeavePayload{UserID: co.userID})
}

// AnnounceMove рассылает новую позицию после каждого шага.
func (co *Coordinator) AnnounceMove() {
	loc := co.char.Location
	co.publish(api.EventPlayerMove, api.PlayerMovePayload{
		UserID: co.userID, Name: co.char.Name, Race: co.char.Race,
		Class: co.char.Class, Level: co.char.Level,
		WorldX: loc.WorldX, WorldY: loc.WorldY, X: loc.PosX, Y: loc.PosY,
		InDungeon: loc.InDungeon, DungeonFloor: loc.DungeonFloor,
	})
}

// Say отправляет сообщение в чат зоны и пишет его в свой журнал.
func (co *Coordinator) Say(message string) error {
	p := api.ChatPayload{
		UserID: co.userID, PlayerName: co.char.Name, Message: message,
		WorldX: co.char.Location.WorldX, WorldY: co.char.Location.WorldY,
		Timestamp: time.Now().UnixMilli(),
	}
	if err := p.Validate(); err != nil {
		return err
	}
	co.appendChat(ChatEntry{Name: co.char.Name, Message: message, Timestamp: time.Now(), Own: true})
	co.publish(api.EventChat, p)
	return nil
}

func (co *Coordinator) appendChat(e ChatEntry) {
	co.chat = append(co.chat, e)
	if len(co.chat) > ChatHistory {
		co.chat = co.chat[len(co.chat)-ChatHistory:]
	}
}

// --- Группа ---

func (co *Coordinator) memberInfo() api.PartyMemberInfo {
	return api.PartyMemberInfo{
		UserID: co.userID, Name: co.char.Name, Level: co.char.Level,
		HP: co.char.HP, MaxHP: stats.MaxHP(co.char), Online: true,
	}
}

// Invite зовет игрока в группу. Если группы нет, она создается на месте
// с приглашающим в роли лидера.
func (co *Coordinator) Invite(toUserID, toName string) error {
	if co.party == nil {
		co.party = NewParty(uuid.NewString(), co.memberInfo())
	}
	if co.party.LeaderID() != co.userID {
		return fmt.Errorf("приглашать может только лидер группы")
	}
	if co.party.Size() >= MaxMembers {
		return fmt.Errorf("группа заполнена")
	}
	co.publish(api.EventPartyInvite, api.PartyInvitePayload{
		PartyID: co.party.ID(), FromUserID: co.userID,
		FromName: co.char.Name, ToUserID: toUserID,
	})
	co.notice(fmt.Sprintf("Приглашение отправлено игроку %s.", toName))
	return nil
}

// Respond отвечает на последнее входящее приглашение.
func (co *Coordinator) Respond(accept bool) error {
	if co.invite == nil {
		return fmt.Errorf("нет активного приглашения")
	}
	inv := *co.invite
	co.invite = nil
	co.publish(api.EventPartyResponse, api.PartyResponsePayload{
		PartyID: inv.PartyID, UserID: co.userID,
		Name: co.char.Name, Accepted: accept,
	})
	if accept {
		// Состав придет следующим party-update от лидера.
		co.party = NewParty(inv.PartyID, api.PartyMemberInfo{
			UserID: inv.FromUserID, Name: inv.FromName, Online: true,
		})
		co.party.Add(co.memberInfo())
	}
	return nil
}

// LeaveParty выводит игрока из группы и уведомляет остальных.
func (co *Coordinator) LeaveParty() {
	if co.party == nil {
		return
	}
	id := co.party.ID()
	co.party.Remove(co.userID)
	snap := co.party.Snapshot()
	snap.PartyID = id
	co.party = nil
	co.publish(api.EventPartyUpdate, snap)
	co.notice("Вы покидаете группу.")
}

// --- Совместный бой ---

// StartCombat открывает бой и, если игрок в группе, делает его видимым
// соратникам. Снимки врагов уходят значениями: копии у участников
// расходятся и сводятся сообщениями об уроне.
func (co *Coordinator) StartCombat(enemies []*domain.Enemy) *combat.Encounter {
	co.enc = combat.New(co.char, enemies, co.cfg, co.rng, co.resolveSpell)
	co.combatID = uuid.NewString()
	co.sharedFight = co.party != nil && co.party.Size() > 1
	co.lastTraffic = time.Now()

	if co.sharedFight {
		snaps := make([]api.EnemySnapshot, len(enemies))
		for i, en := range enemies {
			snaps[i] = snapshotEnemy(en)
		}
		loc := co.char.Location
		co.publish(api.EventCombatStart, api.CombatStartPayload{
			CombatID: co.combatID, UserID: co.userID, Enemies: snaps,
			WorldX: loc.WorldX, WorldY: loc.WorldY,
			InDungeon: loc.InDungeon, DungeonFloor: loc.DungeonFloor,
		})
	}
	return co.enc
}

// AfterAction публикует итог локального действия. Урон уходит с
// результирующим HP цели, чтобы получатели сводили, а не пересчитывали.
// Развязку объявляет тот, кто первым до нее довел бой.
func (co *Coordinator) AfterAction(res *combat.Result) {
	if res == nil {
		return
	}
	if co.sharedFight && res.Damage > 0 {
		co.publish(api.EventCombatAction, api.CombatActionPayload{
			CombatID: co.combatID, UserID: co.userID, Name: co.char.Name,
			Action: res.Action, TargetIndex: res.TargetIndex,
			Damage: res.Damage, ResultingHP: res.TargetHP,
		})
	}
	if res.State == combat.StateVictory && co.sharedFight {
		co.publish(api.EventCombatEnd, api.CombatEndPayload{
			CombatID: co.combatID, UserID: co.userID, Victory: true,
		})
	}
	if res.State != combat.StateActive {
		co.clearCombat()
	} else {
		co.lastTraffic = time.Now()
	}
}

func (co *Coordinator) clearCombat() {
	co.enc = nil
	co.combatID = ""
	co.sharedFight = false
}

func snapshotEnemy(en *domain.Enemy) api.EnemySnapshot {
	return api.EnemySnapshot{
		TemplateID: en.TemplateID, Name: en.Name, HP: en.HP, MaxHP: en.MaxHP,
		Attack: en.Attack, Magic: en.Magic, Defense: en.Defense,
		Resist: en.Resist, Speed: en.Speed, XP: en.XP, Gold: en.Gold,
	}
}

func enemyFromSnapshot(s api.EnemySnapshot) *domain.Enemy {
	return &domain.Enemy{
		TemplateID: s.TemplateID, Name: s.Name, HP: s.HP, MaxHP: s.MaxHP,
		Attack: s.Attack, Magic: s.Magic, Defense: s.Defense,
		Resist: s.Resist, Speed: s.Speed, XP: s.XP, Gold: s.Gold,
	}
}

// --- Входящие сообщения ---

// HandleEnvelope применяет одно сообщение канала. Свои собственные
// сообщения (эхо) отбрасываются. Неизвестные события игнорируются:
// старые клиенты должны переживать новые виды сообщений.
func (co *Coordinator) HandleEnvelope(env api.Envelope) {
	switch env.Event {
	case api.EventPlayerMove:
		var p api.PlayerMovePayload
		if co.decode(env, &p) && p.UserID != co.userID {
			co.handleMove(p)
		}
	case api.EventPlayerJoin:
		var p api.PlayerJoinPayload
		if co.decode(env, &p) && p.UserID != co.userID {
			co.handleJoin(p)
		}
	case api.EventPlayerLeave:
		var p api.PlayerLeavePayload
		if co.decode(env, &p) && p.UserID != co.userID {
			co.handleLeave(p)
		}
	case api.EventChat:
		var p api.ChatPayload
		if co.decode(env, &p) && p.Validate() == nil && p.UserID != co.userID {
			co.appendChat(ChatEntry{
				Name: p.PlayerName, Message: p.Message,
				Timestamp: time.UnixMilli(p.Timestamp),
			})
		}
	case api.EventPartyInvite:
		var p api.PartyInvitePayload
		if co.decode(env, &p) && p.ToUserID == co.userID {
			co.invite = &p
			co.notice(fmt.Sprintf("%s приглашает вас в группу.", p.FromName))
		}
	case api.EventPartyResponse:
		var p api.PartyResponsePayload
		if co.decode(env, &p) {
			co.handlePartyResponse(p)
		}
	case api.EventPartyUpdate:
		var p api.PartyUpdatePayload
		if co.decode(env, &p) {
			co.handlePartyUpdate(p)
		}
	case api.EventCombatStart:
		var p api.CombatStartPayload
		if co.decode(env, &p) && p.Validate() == nil && p.UserID != co.userID {
			co.handleCombatStart(p)
		}
	case api.EventCombatAction:
		var p api.CombatActionPayload
		if co.decode(env, &p) && p.Validate() == nil && p.UserID != co.userID {
			co.handleCombatAction(p)
		}
	case api.EventCombatEnd:
		var p api.CombatEndPayload
		if co.decode(env, &p) && p.UserID != co.userID {
			co.handleCombatEnd(p)
		}
	default:
		logger.Log.WithFields(logrus.Fields{
			"component": "party",
			"event":     env.Event,
		}).Debug("Unknown broadcast event ignored")
	}
}

func (co *Coordinator) decode(env api.Envelope, dst any) bool {
	if err := json.Unmarshal(env.Payload, dst); err != nil {
		logger.Log.WithFields(logrus.Fields{
			"component": "party",
			"event":     env.Event,
		}).WithError(err).Warn("Malformed broadcast payload")
		return false
	}
	return true
}

func (co *Coordinator) handleMove(p api.PlayerMovePayload) {
	rp, ok := co.others[p.UserID]
	if !ok {
		rp = &RemotePlayer{UserID: p.UserID}
		co.others[p.UserID] = rp
	}
	rp.Name, rp.Race, rp.Class, rp.Level = p.Name, p.Race, p.Class, p.Level
	rp.WorldX, rp.WorldY, rp.X, rp.Y = p.WorldX, p.WorldY, p.X, p.Y
	rp.InDungeon, rp.DungeonFloor = p.InDungeon, p.DungeonFloor
	rp.LastSeen = time.Now()
}

func (co *Coordinator) handleJoin(p api.PlayerJoinPayload) {
	co.others[p.UserID] = &RemotePlayer{
		UserID: p.UserID, Name: p.Name, Race: p.Race, Class: p.Class,
		Level: p.Level, WorldX: p.WorldX, WorldY: p.WorldY,
		InDungeon: p.InDungeon, LastSeen: time.Now(),
	}
	co.notice(fmt.Sprintf("%s входит в мир.", p.Name))
}

func (co *Coordinator) handleLeave(p api.PlayerLeavePayload) {
	if rp, ok := co.others[p.UserID]; ok {
		co.notice(fmt.Sprintf("%s покидает мир.", rp.Name))
		delete(co.others, p.UserID)
	}
	if co.party != nil && co.party.Has(p.UserID) {
		if co.party.Remove(p.UserID) {
			co.party = nil
			return
		}
		// Новый состав рассылает лидер, чтобы не поднимать шторм
		// одинаковых сообщений от каждого участника.
		if co.party.LeaderID() == co.userID {
			co.publish(api.EventPartyUpdate, co.party.Snapshot())
		}
	}
}

func (co *Coordinator) handlePartyResponse(p api.PartyResponsePayload) {
	if co.party == nil || co.party.ID() != p.PartyID || co.party.LeaderID() != co.userID {
		return
	}
	if !p.Accepted {
		co.notice(fmt.Sprintf("%s отклоняет приглашение.", p.Name))
		return
	}
	level, hp, maxHP := 1, 0, 0
	if rp, ok := co.others[p.UserID]; ok {
		level = rp.Level
	}
	if !co.party.Add(api.PartyMemberInfo{
		UserID: p.UserID, Name: p.Name, Level: level, HP: hp, MaxHP: maxHP,
	}) {
		return
	}
	co.notice(fmt.Sprintf("%s вступает в группу.", p.Name))
	co.publish(api.EventPartyUpdate, co.party.Snapshot())
}

func (co *Coordinator) handlePartyUpdate(p api.PartyUpdatePayload) {
	if co.party == nil || co.party.ID() != p.PartyID {
		return
	}
	stillIn := false
	for _, m := range p.Members {
		if m.UserID == co.userID {
			stillIn = true
			break
		}
	}
	if !stillIn {
		co.party = nil
		co.notice("Вас исключили из группы.")
		return
	}
	co.party.Apply(p)
}

// handleCombatStart воссоздает бой инициатора из снимков. Участник
// получает собственные копии врагов и с этого момента ведет бой сам,
// сводя HP по чужим отчетам.
func (co *Coordinator) handleCombatStart(p api.CombatStartPayload) {
	if co.party == nil || !co.party.Has(p.UserID) {
		return
	}
	if co.enc != nil && co.enc.Active() {
		return // свой бой важнее чужого
	}
	enemies := make([]*domain.Enemy, len(p.Enemies))
	for i, s := range p.Enemies {
		enemies[i] = enemyFromSnapshot(s)
	}
	co.enc = combat.New(co.char, enemies, co.cfg, co.rng, co.resolveSpell)
	co.combatID = p.CombatID
	co.sharedFight = true
	co.lastTraffic = time.Now()

	co.publish(api.EventCombatJoin, api.CombatJoinPayload{
		CombatID: p.CombatID, UserID: co.userID, Name: co.char.Name,
	})
	co.notice("Ваша группа вступает в бой!")
}

func (co *Coordinator) handleCombatAction(p api.CombatActionPayload) {
	if co.enc == nil || p.CombatID != co.combatID {
		return
	}
	out, err := co.enc.ApplyExternalDamage(p.TargetIndex, p.Damage, p.ResultingHP)
	if err != nil {
		return
	}
	co.lastTraffic = time.Now()
	if out.Applied {
		co.notice(fmt.Sprintf("%s наносит %d урона.", p.Name, p.Damage))
	}
	for _, k := range out.Kills {
		co.notice(fmt.Sprintf("%s повержен! +%d XP, +%d золота.", k.Name, k.XP, k.Gold))
	}
	if out.State != combat.StateActive {
		co.clearCombat()
	}
}

func (co *Coordinator) handleCombatEnd(p api.CombatEndPayload) {
	if co.enc == nil || p.CombatID != co.combatID {
		return
	}
	co.enc.EndExternally(p.Victory)
	if p.Victory {
		co.notice("Бой выигран вашей группой!")
	}
	co.clearCombat()
}

// --- Обслуживание ---

// Tick выполняет периодическую уборку: бросает бой, по которому давно
// нет ни своих действий, ни чужих сообщений, и чистит кэш пропавших
// игроков. Вызывается слоем игры примерно раз в секунду.
func (co *Coordinator) Tick(now time.Time) {
	if co.enc != nil && co.enc.Active() && co.sharedFight &&
		now.Sub(co.lastTraffic) > EncounterTTL {
		co.enc.EndExternally(false)
		co.clearCombat()
		co.notice("Бой затих, и вы отступаете.")
		logger.Log.WithField("component", "party").Info("Shared encounter abandoned by TTL")
	}
	for id, rp := range co.others {
		if now.Sub(rp.LastSeen) > StaleAfter {
			delete(co.others, id)
		}
	}
}

package api

import "encoding/json"

// Виды событий широковещательного канала. Доставка best-effort:
// сообщение может не прийти вовсе, прийти с опозданием или не по
// порядку. Ядро обязано переживать любое подмножество потерь.
const (
	EventPlayerMove    = "player-move"
	EventPlayerJoin    = "player-join"
	EventPlayerLeave   = "player-leave"
	EventChat          = "chat"
	EventPartyInvite   = "party-invite"
	EventPartyResponse = "party-invite-response"
	EventPartyUpdate   = "party-update"
	EventCombatStart   = "combat-start"
	EventCombatJoin    = "combat-join"
	EventCombatAction  = "combat-action"
	EventCombatEnd     = "combat-end"
)

// Envelope — единица обмена в канале.
type Envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// --- Перемещение и присутствие ---

// PlayerMovePayload — игрок сменил клетку. Получатель обновляет только
// свой кэш чужих позиций, собственный персонаж не трогается.
type PlayerMovePayload struct {
	UserID       string `json:"userId"`
	Name         string `json:"name"`
	Race         string `json:"race"`
	Class        string `json:"class"`
	Level        int    `json:"level"`
	WorldX       int    `json:"worldX"`
	WorldY       int    `json:"worldY"`
	X            int    `json:"x"`
	Y            int    `json:"y"`
	InDungeon    bool   `json:"inDungeon"`
	DungeonFloor int    `json:"dungeonFloor,omitempty"`
}

// PlayerJoinPayload — игрок появился в зоне.
type PlayerJoinPayload struct {
	UserID    string `json:"userId"`
	Name      string `json:"name"`
	Race      string `json:"race"`
	Class     string `json:"class"`
	Level     int    `json:"level"`
	WorldX    int    `json:"worldX"`
	WorldY    int    `json:"worldY"`
	InDungeon bool   `json:"inDungeon"`
}

// PlayerLeavePayload — игрок вышел.
type PlayerLeavePayload struct {
	UserID string `json:"userId"`
}

// ChatPayload — сообщение чата зоны.
type ChatPayload struct {
	UserID     string `json:"userId"`
	PlayerName string `json:"playerName"`
	Message    string `json:"message"`
	WorldX     int    `json:"worldX"`
	WorldY     int    `json:"worldY"`
	Timestamp  int64  `json:"timestamp"`
}

// --- Группа ---

// PartyInvitePayload — приглашение в группу.
type PartyInvitePayload struct {
	PartyID    string `json:"partyId"`
	FromUserID string `json:"fromUserId"`
	FromName   string `json:"fromName"`
	ToUserID   string `json:"toUserId"`
}

// PartyResponsePayload — ответ на приглашение.
type PartyResponsePayload struct {
	PartyID  string `json:"partyId"`
	UserID   string `json:"userId"`
	Name     string `json:"name"`
	Accepted bool   `json:"accepted"`
}

// PartyMemberInfo — участник в составе группы.
type PartyMemberInfo struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Level  int    `json:"level"`
	HP     int    `json:"hp"`
	MaxHP  int    `json:"maxHp"`
	Online bool   `json:"online"`
}

// PartyUpdatePayload — полный состав группы после изменения.
type PartyUpdatePayload struct {
	PartyID  string            `json:"partyId"`
	LeaderID string            `json:"leaderId"`
	Members  []PartyMemberInfo `json:"members"`
}

// --- Совместный бой ---

// EnemySnapshot — снимок врага для воссоздания боя у присоединившихся.
// Передаются значения, не живые ссылки: копии у участников расходятся
// и сводятся сообщениями об уроне.
type EnemySnapshot struct {
	TemplateID string `json:"templateId"`
	Name       string `json:"name"`
	HP         int    `json:"hp"`
	MaxHP      int    `json:"maxHp"`
	Attack     int    `json:"attack"`
	Magic      int    `json:"magic,omitempty"`
	Defense    int    `json:"defense"`
	Resist     int    `json:"resist"`
	Speed      int    `json:"speed"`
	XP         int    `json:"xp"`
	Gold       int    `json:"gold"`
}

// CombatStartPayload — инициатор открыл видимый группе бой.
type CombatStartPayload struct {
	CombatID     string          `json:"combatId"`
	UserID       string          `json:"userId"`
	Enemies      []EnemySnapshot `json:"enemies"`
	WorldX       int             `json:"worldX"`
	WorldY       int             `json:"worldY"`
	InDungeon    bool            `json:"inDungeon"`
	DungeonFloor int             `json:"dungeonFloor,omitempty"`
}

// CombatJoinPayload — участник вошел в уже идущий бой.
type CombatJoinPayload struct {
	CombatID string `json:"combatId"`
	UserID   string `json:"userId"`
	Name     string `json:"name"`
}

// CombatActionPayload — нанесенный участником урон. Получатели сводят
// свое HP врага к ResultingHP, не пересчитывая урон заново.
type CombatActionPayload struct {
	CombatID    string `json:"combatId"`
	UserID      string `json:"userId"`
	Name        string `json:"name"`
	Action      string `json:"action"` // attack | spell
	TargetIndex int    `json:"targetIndex"`
	Damage      int    `json:"damage"`
	ResultingHP int    `json:"resultingEnemyHp"`
}

// CombatEndPayload — бой завершен тем, кто первым довел его до развязки.
type CombatEndPayload struct {
	CombatID string `json:"combatId"`
	UserID   string `json:"userId"`
	Victory  bool   `json:"victory"`
}

package api

// ClientCommand — команда игрока, пришедшая по вебсокету.
// Поля заполняются по необходимости конкретного действия.
type ClientCommand struct {
	Action string `json:"action"`
	Token  string `json:"token,omitempty"`

	// Персонаж
	Slot  int    `json:"slot,omitempty"`
	Name  string `json:"name,omitempty"`
	Race  string `json:"race,omitempty"`
	Class string `json:"class,omitempty"`

	// Перемещение
	DX int `json:"dx,omitempty"`
	DY int `json:"dy,omitempty"`

	// Бой
	SpellID     string `json:"spellId,omitempty"`
	TargetIndex int    `json:"targetIndex,omitempty"`

	// Инвентарь и магазин
	Index  int    `json:"index,omitempty"`
	ItemSlot string `json:"itemSlot,omitempty"`
	ItemID string `json:"itemId,omitempty"`

	// Общение и группа
	Message  string `json:"message,omitempty"`
	ToUserID string `json:"toUserId,omitempty"`
	ToName   string `json:"toName,omitempty"`
	Accept   bool   `json:"accept,omitempty"`
}

// Виды ответов сервера клиенту.
const (
	ResponseState = "state"
	ResponseLog   = "log"
	ResponseError = "error"
	ResponseChat  = "chat"
)

// ServerResponse — ответ или push-сообщение клиенту.
type ServerResponse struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
	Payload any    `json:"payload,omitempty"`
}

package persist

import (
	"context"
	"errors"
	"time"

	"github.com/HonungsGrabb/rpg-together/internal/domain"
)

// ErrNotFound — в запрошенном слоте нет сохранения.
var ErrNotFound = errors.New("сохранение не найдено")

// SlotInfo — карточка слота для экрана выбора персонажа.
type SlotInfo struct {
	Slot      int
	Name      string
	Level     int
	UpdatedAt time.Time
}

// CharacterStore хранит персонажей по паре (пользователь, слот).
type CharacterStore interface {
	Load(ctx context.Context, userID string, slot int) (*domain.Character, error)
	Save(ctx context.Context, userID string, slot int, c *domain.Character) error
	Delete(ctx context.Context, userID string, slot int) error
	List(ctx context.Context, userID string) ([]SlotInfo, error)
}

// PresenceRow — строка таблицы присутствия.
type PresenceRow struct {
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
	HP           int
	MaxHP        int
	LastSeen     time.Time
}

// PresenceStore — таблица "кто сейчас в мире". Запись обновляется
// периодическим сердцебиением; выборка отсекает молчащих дольше cutoff.
type PresenceStore interface {
	Heartbeat(ctx context.Context, row PresenceRow) error
	ListOnline(ctx context.Context, cutoff time.Duration) ([]PresenceRow, error)
	Remove(ctx context.Context, userID string) error
}

// Package party связывает локальный бой с группой: переводит действия
// в сообщения канала и применяет чужие сообщения к своему состоянию,
// не допуская двойного начисления наград.
package party

import (
	"sync"

	"github.com/HonungsGrabb/rpg-together/pkg/api"
)

// MaxMembers — мягкий предел размера группы.
const MaxMembers = 4

// Party — небольшая группа персонажей во главе с лидером.
// Потокобезопасна: методы берут внутренний мьютекс, так как сообщения
// канала приходят из горутины чтения, а действия игрока — из своей.
type Party struct {
	mu       sync.RWMutex
	id       string
	leaderID string
	members  []api.PartyMemberInfo
}

// NewParty создает группу с лидером-основателем.
func NewParty(id string, leader api.PartyMemberInfo) *Party {
	leader.Online = true
	return &Party{
		id:       id,
		leaderID: leader.UserID,
		members:  []api.PartyMemberInfo{leader},
	}
}

// ID возвращает идентификатор группы.
func (p *Party) ID() string { return p.id }

// LeaderID возвращает текущего лидера.
func (p *Party) LeaderID() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.leaderID
}

// Size — число участников.
func (p *Party) Size() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.members)
}

// Has проверяет членство.
func (p *Party) Has(userID string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, m := range p.members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// Add добавляет участника. Возврат false — группа заполнена или
// участник уже в ней.
func (p *Party) Add(m api.PartyMemberInfo) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.members) >= MaxMembers {
		return false
	}
	for _, ex := range p.members {
		if ex.UserID == m.UserID {
			return false
		}
	}
	m.Online = true
	p.members = append(p.members, m)
	return true
}

// Remove убирает участника. Если ушел лидер, лидерство переходит
// первому оставшемуся. Возврат true — группа опустела и распускается.
func (p *Party) Remove(userID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, m := range p.members {
		if m.UserID == userID {
			p.members = append(p.members[:i], p.members[i+1:]...)
			break
		}
	}
	if len(p.members) == 0 {
		return true
	}
	if p.leaderID == userID {
		p.leaderID = p.members[0].UserID
	}
	return false
}

// Update обновляет карточку участника (уровень, HP, присутствие).
func (p *Party) Update(m api.PartyMemberInfo) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.members {
		if p.members[i].UserID == m.UserID {
			p.members[i] = m
			return
		}
	}
}

// Apply замещает состав снапшотом из party-update.
func (p *Party) Apply(payload api.PartyUpdatePayload) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.leaderID = payload.LeaderID
	p.members = append(p.members[:0], payload.Members...)
}

// Snapshot собирает состав для отправки в канал.
func (p *Party) Snapshot() api.PartyUpdatePayload {
	p.mu.RLock()
	defer p.mu.RUnlock()
	members := make([]api.PartyMemberInfo, len(p.members))
	copy(members, p.members)
	return api.PartyUpdatePayload{PartyID: p.id, LeaderID: p.leaderID, Members: members}
}

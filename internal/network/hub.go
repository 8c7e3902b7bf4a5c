package network

import (
	"encoding/json"
	"sync"

	"github.com/HonungsGrabb/rpg-together/pkg/api"
)

// Hub — широковещательный канал зоны. Ничего не знает об игре:
// принимает конверт от одного подписчика и раздает остальным.
// Доставка best-effort: полный буфер получателя роняет сообщение,
// а не блокирует отправителя.
type Hub struct {
	mu sync.RWMutex
	// Мапа: UserID -> личный канал
	subscribers map[string]chan api.Envelope
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]chan api.Envelope),
	}
}

// Register создает личный канал для игрока
func (h *Hub) Register(userID string) chan api.Envelope {
	h.mu.Lock()
	defer h.mu.Unlock()

	// Если канал был, закрываем
	if old, ok := h.subscribers[userID]; ok {
		close(old)
	}

	ch := make(chan api.Envelope, 100)
	h.subscribers[userID] = ch
	return ch
}

// Unregister удаляет подписчика
func (h *Hub) Unregister(userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ch, ok := h.subscribers[userID]; ok {
		close(ch)
		delete(h.subscribers, userID)
	}
}

// SendTo отправляет конверт конкретному игроку (Unicast)
func (h *Hub) SendTo(userID string, env api.Envelope) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if ch, ok := h.subscribers[userID]; ok {
		select {
		case ch <- env:
		default:
		}
	}
}

// Broadcast раздает конверт всем, кроме отправителя. Отправитель уже
// применил действие локально, эхо ему не нужно.
func (h *Hub) Broadcast(senderID string, env api.Envelope) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, ch := range h.subscribers {
		if id == senderID {
			continue
		}
		select {
		case ch <- env:
		default:
		}
	}
}

// HasSubscriber проверяет, подключен ли игрок
func (h *Hub) HasSubscriber(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.subscribers[userID]
	return ok
}

// SubscriberCount возвращает количество активных подписчиков.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Publisher привязывает отправителя к хабу и упаковывает полезную
// нагрузку в конверт. Реализует интерфейс публикации слоя группы.
type Publisher struct {
	hub    *Hub
	userID string
}

func (h *Hub) PublisherFor(userID string) *Publisher {
	return &Publisher{hub: h, userID: userID}
}

func (p *Publisher) Publish(event string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	p.hub.Broadcast(p.userID, api.Envelope{Event: event, Payload: raw})
	return nil
}

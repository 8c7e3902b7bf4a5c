package persist

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/HonungsGrabb/rpg-together/internal/domain"
)

type slotKey struct {
	userID string
	slot   int
}

// MemoryCharacterStore — хранение в памяти для разработки и тестов.
// Персонажи копируются через JSON, чтобы хранилище не делило мутируемое
// состояние с вызывающим кодом.
type MemoryCharacterStore struct {
	mu      sync.RWMutex
	records map[slotKey][]byte
	names   map[slotKey]SlotInfo
}

func NewMemoryCharacterStore() *MemoryCharacterStore {
	return &MemoryCharacterStore{
		records: make(map[slotKey][]byte),
		names:   make(map[slotKey]SlotInfo),
	}
}

func (s *MemoryCharacterStore) Load(_ context.Context, userID string, slot int) (*domain.Character, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.records[slotKey{userID, slot}]
	if !ok {
		return nil, ErrNotFound
	}
	var c domain.Character
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *MemoryCharacterStore) Save(_ context.Context, userID string, slot int, c *domain.Character) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := slotKey{userID, slot}
	s.records[key] = data
	s.names[key] = SlotInfo{Slot: slot, Name: c.Name, Level: c.Level, UpdatedAt: time.Now()}
	return nil
}

func (s *MemoryCharacterStore) Delete(_ context.Context, userID string, slot int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := slotKey{userID, slot}
	if _, ok := s.records[key]; !ok {
		return ErrNotFound
	}
	delete(s.records, key)
	delete(s.names, key)
	return nil
}

func (s *MemoryCharacterStore) List(_ context.Context, userID string) ([]SlotInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []SlotInfo
	for key, info := range s.names {
		if key.userID == userID {
			out = append(out, info)
		}
	}
	return out, nil
}

// MemoryPresenceStore — присутствие в памяти, для одного процесса.
type MemoryPresenceStore struct {
	mu   sync.RWMutex
	rows map[string]PresenceRow
}

func NewMemoryPresenceStore() *MemoryPresenceStore {
	return &MemoryPresenceStore{rows: make(map[string]PresenceRow)}
}

func (s *MemoryPresenceStore) Heartbeat(_ context.Context, row PresenceRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row.LastSeen = time.Now()
	s.rows[row.UserID] = row
	return nil
}

func (s *MemoryPresenceStore) ListOnline(_ context.Context, cutoff time.Duration) ([]PresenceRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	deadline := time.Now().Add(-cutoff)
	var out []PresenceRow
	for _, r := range s.rows {
		if r.LastSeen.After(deadline) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *MemoryPresenceStore) Remove(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, userID)
	return nil
}

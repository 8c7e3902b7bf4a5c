package persist

import (
	"context"
	"sync"
	"time"

	"github.com/HonungsGrabb/rpg-together/pkg/logger"
)

// Saver сливает частые запросы на сохранение в редкие записи.
// Каждая мутация персонажа зовет Request; реальная запись происходит
// не чаще одного раза за окно слияния. Потерять можно максимум окно
// прогресса, зато база не получает запись на каждый шаг.
type Saver struct {
	save     func(ctx context.Context) error
	debounce time.Duration

	mu      sync.Mutex
	pending bool
	timer   *time.Timer
	closed  bool
}

// NewSaver создает слияющий сохранятель. save вызывается из фоновой
// горутины и должен сам позаботиться о снимке состояния.
func NewSaver(save func(ctx context.Context) error, debounce time.Duration) *Saver {
	if debounce <= 0 {
		debounce = 2 * time.Second
	}
	return &Saver{save: save, debounce: debounce}
}

// Request помечает состояние грязным. Несколько запросов в одном окне
// дают одну запись.
func (s *Saver) Request() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.pending {
		return
	}
	s.pending = true
	s.timer = time.AfterFunc(s.debounce, s.fire)
}

func (s *Saver) fire() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.pending = false
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.save(ctx); err != nil {
		logger.Log.WithField("component", "persist").WithError(err).Warn("Deferred save failed")
	}
}

// Flush немедленно записывает, если есть несохраненные изменения,
// и используется при выходе игрока.
func (s *Saver) Flush(ctx context.Context) error {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
	}
	hadPending := s.pending
	s.pending = false
	s.mu.Unlock()

	if !hadPending {
		return nil
	}
	return s.save(ctx)
}

// Close останавливает сохранятель, предварительно дописав хвост.
func (s *Saver) Close(ctx context.Context) error {
	err := s.Flush(ctx)
	s.mu.Lock()
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
	}
	s.mu.Unlock()
	return err
}

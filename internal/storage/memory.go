package storage

import (
	"context"
	"sync"
)

// Memory — слоты в памяти процесса. Для тестов и драйвера "memory".
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Slot(profile, name string) Slot {
	return &memorySlot{m: m, key: name + ":" + profile}
}

func (m *Memory) Ping(ctx context.Context) error { return nil }

// Put кладёт сырые байты напрямую, минуя корзину
func (m *Memory) Put(profile, name string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[name+":"+profile] = append([]byte(nil), data...)
}

// Get возвращает сырые байты слота
func (m *Memory) Get(profile, name string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.data[name+":"+profile]
	return b, ok
}

type memorySlot struct {
	m   *Memory
	key string
}

func (s *memorySlot) Load(ctx context.Context) ([]byte, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	b, ok := s.m.data[s.key]
	if !ok {
		return nil, ErrEmpty
	}
	return append([]byte(nil), b...), nil
}

func (s *memorySlot) Save(ctx context.Context, data []byte) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	s.m.data[s.key] = append([]byte(nil), data...)
	return nil
}

func (s *memorySlot) Erase(ctx context.Context) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	delete(s.m.data, s.key)
	return nil
}

package localstore

import (
	"context"
	"sync"
)

// Memory keeps every session in process memory.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]map[string]string
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[string]map[string]string)}
}

func (m *Memory) GetSession(_ context.Context, sessionID, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.entries[sessionID][key]
	return value, ok, nil
}

func (m *Memory) SetSession(_ context.Context, sessionID, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.entries[sessionID]
	if !ok {
		session = make(map[string]string)
		m.entries[sessionID] = session
	}
	session[key] = value
	return nil
}

func (m *Memory) RemoveSession(_ context.Context, sessionID, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries[sessionID], key)
	return nil
}

package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Memory is an in-process Gateway for tests and throwaway runs. Values are
// stored encoded so callers never share memory with the store.
type Memory struct {
	mu    sync.RWMutex
	slots map[string][]byte
	saves map[string]int
}

func NewMemory() *Memory {
	return &Memory{
		slots: make(map[string][]byte),
		saves: make(map[string]int),
	}
}

func (m *Memory) Load(_ context.Context, key string, dest any) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	raw, ok := m.slots[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return true, fmt.Errorf("decode slot %s: %w", key, err)
	}
	return true, nil
}

func (m *Memory) Save(_ context.Context, key string, value any) error {
	if key == "" {
		return ErrInvalidSlot
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode slot %s: %w", key, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[key] = raw
	m.saves[key]++
	return nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots = make(map[string][]byte)
	return nil
}

// Raw returns the stored bytes of a slot.
func (m *Memory) Raw(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	raw, ok := m.slots[key]
	if !ok {
		return nil, false
	}
	out := make([]byte, len(raw))
	copy(out, raw)
	return out, true
}

// Saves reports how many times a slot has been written.
func (m *Memory) Saves(key string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves[key]
}

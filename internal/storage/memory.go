package storage

import (
	"fmt"
	"sync"
)

// Memory keeps values in a map. A positive Quota caps the total stored bytes.
type Memory struct {
	mu     sync.RWMutex
	values map[string][]byte
	quota  int
}

func NewMemory(quota int) *Memory {
	return &Memory{values: make(map[string][]byte), quota: quota}
}

func (m *Memory) Get(key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *Memory) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.quota > 0 {
		total := len(key) + len(value)
		for k, v := range m.values {
			if k != key {
				total += len(k) + len(v)
			}
		}
		if total > m.quota {
			return fmt.Errorf("set %q (%d bytes): %w", key, len(value), ErrQuotaExceeded)
		}
	}
	m.values[key] = append([]byte(nil), value...)
	return nil
}

func (m *Memory) Close() error {
	return nil
}

package kv

import (
	"context"
	"encoding/json"
	"sync"
)

// Memory is an in-process Store used by tests. FailNext* flags make the next
// matching call fail with ErrUnavailable so rollback paths can be exercised.
type Memory struct {
	mu      sync.Mutex
	entries map[string]map[string]json.RawMessage

	FailNextSet bool
	FailNextGet bool
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[string]map[string]json.RawMessage)}
}

func (m *Memory) Get(_ context.Context, scope, key string) (json.RawMessage, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailNextGet {
		m.FailNextGet = false
		return nil, false, ErrUnavailable
	}
	raw, ok := m.entries[scope][key]
	return raw, ok, nil
}

func (m *Memory) Set(_ context.Context, scope, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailNextSet {
		m.FailNextSet = false
		return ErrUnavailable
	}
	if m.entries[scope] == nil {
		m.entries[scope] = make(map[string]json.RawMessage)
	}
	m.entries[scope][key] = raw
	return nil
}

func (m *Memory) Remove(_ context.Context, scope, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries[scope], key)
	return nil
}

func (m *Memory) MultiRemove(ctx context.Context, scope string, keys []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.entries[scope], key)
	}
	return nil
}

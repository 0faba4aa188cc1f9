package securestore

import (
	"context"
	"sort"
	"sync"
)

// MemoryPrimitive is an in-process primitive with an optional item size cap.
type MemoryPrimitive struct {
	mu      sync.Mutex
	maxItem int
	items   map[string]string
}

var _ Primitive = (*MemoryPrimitive)(nil)

// NewMemoryPrimitive builds a primitive rejecting values longer than maxItem bytes (0 = unlimited).
func NewMemoryPrimitive(maxItem int) *MemoryPrimitive {
	return &MemoryPrimitive{maxItem: maxItem, items: map[string]string{}}
}

func (m *MemoryPrimitive) Get(key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[key]
	if !ok {
		return "", ErrItemNotFound
	}
	return v, nil
}

func (m *MemoryPrimitive) Set(key, value string) error {
	if m.maxItem > 0 && len(value) > m.maxItem {
		return ErrValueTooLarge
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

func (m *MemoryPrimitive) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

// Keys lists the stored keys in order.
func (m *MemoryPrimitive) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.items))
	for k := range m.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MemoryKV is an in-process KVStore.
type MemoryKV struct {
	mu    sync.Mutex
	items map[string]string
}

var _ KVStore = (*MemoryKV)(nil)

// NewMemoryKV builds an empty store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{items: map[string]string{}}
}

func (m *MemoryKV) Available() bool { return m != nil }

func (m *MemoryKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *MemoryKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

func (m *MemoryKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

package store

import (
	"sort"
	"sync"
)

// MemStore is an in-memory store for tests and ephemeral runs.
type MemStore struct {
	mu    sync.RWMutex
	data  map[string]string
	quota int64
}

// NewMemStore creates an empty in-memory store.
func NewMemStore(quota int64) *MemStore {
	if quota <= 0 {
		quota = DefaultQuotaBytes
	}
	return &MemStore{
		data:  make(map[string]string),
		quota: quota,
	}
}

// Get implements Store.
func (m *MemStore) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

// Set implements Store.
func (m *MemStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var used int64
	for k, v := range m.data {
		if k == key {
			continue
		}
		used += int64(len(v))
	}
	requested := used + int64(len(value))
	if requested > m.quota {
		return &QuotaExceededError{Key: key, Requested: requested, Quota: m.quota}
	}

	m.data[key] = value
	return nil
}

// Delete implements Store.
func (m *MemStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Keys implements Store.
func (m *MemStore) Keys() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Usage implements Store.
func (m *MemStore) Usage() (int64, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var used int64
	for _, v := range m.data {
		used += int64(len(v))
	}
	return used, m.quota, nil
}

// Close implements Store.
func (m *MemStore) Close() error {
	return nil
}

package store

import (
	"fmt"
	"os"
	"sync"
)

// MockStore is an in-memory ByteStore for tests. ReadFunc and WriteFunc,
// when set, replace the default map-backed behaviour.
type MockStore struct {
	ReadFunc  func(name string) ([]byte, error)
	WriteFunc func(name string, data []byte) error

	mu     sync.Mutex
	files  map[string][]byte
	Reads  []string
	Writes []string
}

// NewMockStore creates a mock store preloaded with files
func NewMockStore(files map[string][]byte) *MockStore {
	m := &MockStore{files: make(map[string][]byte)}
	for k, v := range files {
		m.files[k] = v
	}
	return m
}

// Read implements ByteStore
func (m *MockStore) Read(name string) ([]byte, error) {
	m.mu.Lock()
	m.Reads = append(m.Reads, name)
	m.mu.Unlock()

	if m.ReadFunc != nil {
		return m.ReadFunc(name)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[name]
	if !ok {
		return nil, fmt.Errorf("failed to read %s: %w", name, os.ErrNotExist)
	}
	return data, nil
}

// Write implements ByteStore
func (m *MockStore) Write(name string, data []byte) error {
	m.mu.Lock()
	m.Writes = append(m.Writes, name)
	m.mu.Unlock()

	if m.WriteFunc != nil {
		return m.WriteFunc(name, data)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.files == nil {
		m.files = make(map[string][]byte)
	}
	m.files[name] = append([]byte(nil), data...)
	return nil
}

// Package mocks holds in-memory stand-ins for tests.
package mocks

import (
	"io/fs"
	"sync"
)

var ErrNotFound = fs.ErrNotExist

// MockFileSystem keeps files in a map. Error fails every call; the other
// hooks fail or corrupt a single kind of call.
type MockFileSystem struct {
	mu sync.Mutex

	Files       map[string][]byte
	Error       error
	WriteError  error
	RenameError error
	ReadError   error

	// Corrupt, when set, rewrites data on its way to disk.
	Corrupt func(data []byte) []byte

	Writes  int
	Removed []string
}

func NewMockFileSystem() *MockFileSystem {
	return &MockFileSystem{Files: make(map[string][]byte)}
}

// Truncate drops the last n bytes of every write.
func Truncate(n int) func([]byte) []byte {
	return func(data []byte) []byte {
		if n > len(data) {
			return nil
		}
		return data[:len(data)-n]
	}
}

func (m *MockFileSystem) ReadFile(name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Error != nil {
		return nil, m.Error
	}
	if m.ReadError != nil {
		return nil, m.ReadError
	}
	data, ok := m.Files[name]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte{}, data...), nil
}

func (m *MockFileSystem) WriteFile(name string, data []byte, perm uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Error != nil {
		return m.Error
	}
	if m.WriteError != nil {
		return m.WriteError
	}
	stored := append([]byte{}, data...)
	if m.Corrupt != nil {
		stored = m.Corrupt(stored)
	}
	m.Files[name] = stored
	m.Writes++
	return nil
}

func (m *MockFileSystem) Rename(from, to string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Error != nil {
		return m.Error
	}
	if m.RenameError != nil {
		return m.RenameError
	}
	data, ok := m.Files[from]
	if !ok {
		return ErrNotFound
	}
	m.Files[to] = data
	delete(m.Files, from)
	return nil
}

func (m *MockFileSystem) Remove(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Error != nil {
		return m.Error
	}
	delete(m.Files, name)
	m.Removed = append(m.Removed, name)
	return nil
}

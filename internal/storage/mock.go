package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/jwebster45206/ai-dungeon-master/pkg/dungeon"
	"github.com/jwebster45206/ai-dungeon-master/pkg/save"
)

// MockStorage is an in-memory Storage for testing. It keeps the encoded
// document so loads go through the real codec.
type MockStorage struct {
	mu        sync.RWMutex
	data      []byte
	pingError error
	saveError error
	loadError error

	SaveCalls int
	LoadCalls int
}

// Ensure MockStorage implements Storage interface
var _ Storage = (*MockStorage)(nil)

// NewMockStorage creates a new mock storage
func NewMockStorage() *MockStorage {
	return &MockStorage{}
}

// SetPingError configures the mock to fail on ping with the given error
func (m *MockStorage) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

// SetSaveError makes SaveGame fail
func (m *MockStorage) SetSaveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveError = err
}

// SetLoadError makes LoadGame fail
func (m *MockStorage) SetLoadError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadError = err
}

// SetRaw replaces the stored document, e.g. with corrupt bytes
func (m *MockStorage) SetRaw(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
}

// Raw returns the stored document
func (m *MockStorage) Raw() []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]byte(nil), m.data...)
}

func (m *MockStorage) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

func (m *MockStorage) Close() error { return nil }

func (m *MockStorage) SaveGame(ctx context.Context, st *save.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls++
	if m.saveError != nil {
		return m.saveError
	}
	data, err := save.Encode(st)
	if err != nil {
		return err
	}
	m.data = data
	return nil
}

func (m *MockStorage) LoadGame(ctx context.Context, opts ...dungeon.Option) (*save.State, error) {
	m.mu.Lock()
	m.LoadCalls++
	loadErr, data := m.loadError, m.data
	m.mu.Unlock()

	if loadErr != nil {
		return nil, loadErr
	}
	if data == nil {
		return nil, fmt.Errorf("%w: mock", save.ErrNoSavedState)
	}
	return save.Decode(data, opts...)
}

func (m *MockStorage) DeleteGame(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = nil
	return nil
}

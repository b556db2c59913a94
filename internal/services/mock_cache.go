package services

import (
	"context"
	"time"
)

// MockCache is a mock implementation of Cache for testing. Without hooks it
// behaves like an empty cache that accepts every write.
type MockCache struct {
	SetFunc func(ctx context.Context, key string, value string, expiration time.Duration) error
	GetFunc func(ctx context.Context, key string) (string, error)

	// Track calls for testing
	SetCalls   []SetCall
	GetCalls   []string
	DelCalls   [][]string
	CloseCalls int
}

type SetCall struct {
	Key        string
	Value      string
	Expiration time.Duration
}

// Ensure MockCache implements Cache interface
var _ Cache = (*MockCache)(nil)

// NewMockCache creates a new mock cache
func NewMockCache() *MockCache {
	return &MockCache{
		SetCalls: make([]SetCall, 0),
		GetCalls: make([]string, 0),
		DelCalls: make([][]string, 0),
	}
}

func (m *MockCache) Ping(ctx context.Context) error { return nil }

// Set mocks cache set
func (m *MockCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	m.SetCalls = append(m.SetCalls, SetCall{Key: key, Value: value, Expiration: expiration})
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, expiration)
	}
	return nil
}

// Get mocks cache get
func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	m.GetCalls = append(m.GetCalls, key)
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	return "", nil
}

// Del mocks cache delete
func (m *MockCache) Del(ctx context.Context, keys ...string) error {
	m.DelCalls = append(m.DelCalls, keys)
	return nil
}

// Close mocks cache close
func (m *MockCache) Close() error {
	m.CloseCalls++
	return nil
}

package cache

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockCache is a mock implementation of Cache using testify/mock.
type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetExtraction(ctx context.Context, key string) (*Extraction, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Extraction), args.Error(1)
}

func (m *MockCache) SetExtraction(ctx context.Context, key string, ext *Extraction, ttl time.Duration) error {
	args := m.Called(ctx, key, ext, ttl)
	return args.Error(0)
}

func (m *MockCache) Close() error {
	args := m.Called()
	return args.Error(0)
}

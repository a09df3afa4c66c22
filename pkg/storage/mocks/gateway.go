package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// Gateway is a mock implementation of the storage.Gateway interface.
type Gateway struct {
	mock.Mock
}

func (m *Gateway) Load(ctx context.Context, scope, key string) ([]byte, error) {
	args := m.Called(ctx, scope, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *Gateway) Save(ctx context.Context, scope, key string, blob []byte) error {
	args := m.Called(ctx, scope, key, blob)
	return args.Error(0)
}

// Package mockstorage provides a testify mock of the session key-value
// storage. It is used to simulate storage failures that the real backends
// cannot produce on demand.
package mockstorage

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// StorageMock implements storage.Storage.
type StorageMock struct {
	mock.Mock
}

func (m *StorageMock) Get(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *StorageMock) Set(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *StorageMock) Remove(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

func (m *StorageMock) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *StorageMock) Close() error {
	args := m.Called()
	return args.Error(0)
}

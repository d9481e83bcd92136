// Package storage declares the durable key-value contract the client
// session is persisted through.
package storage

import (
	"context"
	"errors"
)

// ErrClosed is returned by backends used after Close.
var ErrClosed = errors.New("storage is closed")

type Storage interface {
	// Get returns the value stored under key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)

	Set(ctx context.Context, key, value string) error

	// Remove deletes the given keys; absent keys are ignored.
	Remove(ctx context.Context, keys ...string) error

	Ping(ctx context.Context) error

	Close() error
}

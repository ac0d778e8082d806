package store

import (
	"context"
	"errors"
)

// ErrUnknownBackend is returned when the configured backend name does
// not match any implementation.
var ErrUnknownBackend = errors.New("unknown store backend")

// KV is the opaque key-value boundary the session layer persists
// through: read a value by key at startup, write a value by key on
// every mutation. Values are opaque serialized strings.
type KV interface {
	// Get returns the value for key. The second result is false when the
	// key has never been written.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

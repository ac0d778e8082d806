package store

import "fmt"

// Open picks a backend by name: sqlite (default), redis, or memory.
func Open(backend, sqlitePath, redisURL string) (KV, error) {
	switch backend {
	case "sqlite":
		return OpenSQLite(sqlitePath)
	case "redis":
		return OpenRedis(redisURL)
	case "memory":
		return NewMemoryKV(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

// Package store persists serialized documents under string keys. The
// backends mirror a browser's key/value storage: a value is replaced as a
// whole on every save.
package store

import (
	"context"
	"errors"
	"fmt"

	"notemap/config"
)

// ErrNotFound is returned by Load when nothing is stored under a key.
var ErrNotFound = errors.New("not found")

// Store is a key/value persistence backend.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
	Close() error
}

// Open returns the backend selected by cfg.
func Open(cfg config.StoreConfig) (Store, error) {
	switch cfg.Backend {
	case "memory":
		return NewMemoryStore(), nil
	case "file":
		return NewFileStore(cfg.Path)
	case "sqlite":
		return OpenSQLite(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

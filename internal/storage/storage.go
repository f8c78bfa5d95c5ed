// Package storage provides synchronous key-value backends for persisting the
// editor state.
package storage

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrQuotaExceeded is returned when a write does not fit the backend quota.
	ErrQuotaExceeded = errors.New("storage quota exceeded")

	// ErrUnknownBackend is returned by Open for an unsupported backend name.
	ErrUnknownBackend = errors.New("unknown storage backend")

	// ErrInvalidKey is returned for keys a backend cannot store.
	ErrInvalidKey = errors.New("invalid storage key")
)

// KV is a synchronous key-value store.
type KV interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(key string) (value []byte, ok bool, err error)
	Set(key string, value []byte) error
	Close() error
}

const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Open returns the backend named by backend. path is a directory for the
// file backend and a database file for sqlite; memory ignores it.
func Open(backend, path string) (KV, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case BackendMemory, "":
		return NewMemory(0), nil
	case BackendFile:
		return NewFile(path)
	case BackendSQLite:
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

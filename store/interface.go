package store

import "errors"

// DefaultKey is the storage key the task list lives under.
const DefaultKey = "todos"

// ErrNotFound is returned by a KV when nothing is stored under the key.
var ErrNotFound = errors.New("no value stored under key")

// KV is a named-blob storage backend, the local equivalent of a browser's
// key/value storage. It knows nothing about tasks.
type KV interface {
	// Get returns the bytes stored under key, or ErrNotFound.
	Get(key string) ([]byte, error)

	// Set overwrites the value stored under key.
	Set(key string, value []byte) error

	// Close releases any resources held by the backend, such as database
	// connections or lock files.
	Close() error
}

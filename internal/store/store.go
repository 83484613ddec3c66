// Package store provides the key-value storage backends the persistence
// layer writes to.
package store

import "fmt"

// Persisted key layout. The engine is the sole writer of these keys.
const (
	// KeyState holds the versioned serialized state payload.
	KeyState = "todo.state"
	// KeyVersion holds the payload version of the last successful write.
	KeyVersion = "todo.state.version"
	// KeyBackup holds the previous good payload.
	KeyBackup = "todo.state.backup"
	// KeyLastSync holds the timestamp of the last successful write.
	KeyLastSync = "todo.sync.last"
	// KeySyncCount counts successful writes.
	KeySyncCount = "todo.sync.count"
	// KeyErrorCount counts writes that exhausted their retries.
	KeyErrorCount = "todo.sync.errors"
)

// Store is a flat string key-value space with a usage estimate. It mirrors
// an origin-scoped web storage area: small, quota-bound, and shared by
// every key the application persists.
type Store interface {
	// Get returns the value for key and whether it exists.
	Get(key string) (string, bool, error)
	// Set writes the value for key. It returns *QuotaExceededError when
	// the write would push usage past the quota.
	Set(key, value string) error
	// Delete removes a key. Deleting a missing key is not an error.
	Delete(key string) error
	// Keys lists every stored key.
	Keys() ([]string, error)
	// Usage returns estimated used bytes and the quota in bytes. Figures
	// are best-effort estimates, not guarantees.
	Usage() (used, quota int64, err error)
	// Close releases backend resources.
	Close() error
}

// QuotaExceededError is returned by Set when the backend rejects a write
// for space.
type QuotaExceededError struct {
	Key       string
	Requested int64
	Quota     int64
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("quota exceeded writing %q: %d bytes requested, quota %d", e.Key, e.Requested, e.Quota)
}

// Backend selects a store implementation.
type Backend string

const (
	BackendFile   Backend = "file"
	BackendSQLite Backend = "sqlite"
	BackendMemory Backend = "memory"
)

// Open creates a store for the given backend. dir is the state directory
// for file and sqlite backends; quota is the byte quota (0 means the
// default).
func Open(backend Backend, dir string, quota int64) (Store, error) {
	switch backend {
	case BackendFile, "":
		return NewFileStore(dir, quota)
	case BackendSQLite:
		return NewSQLiteStore(dir, quota)
	case BackendMemory:
		return NewMemStore(quota), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}

package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultQuotaBytes matches the usual per-origin web storage allowance.
const DefaultQuotaBytes = 5 * 1024 * 1024

// FileStore keeps one file per key in a state directory.
type FileStore struct {
	dir   string
	quota int64
}

// NewFileStore creates the state directory if needed.
func NewFileStore(dir string, quota int64) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("file store dir is empty")
	}
	if quota <= 0 {
		quota = DefaultQuotaBytes
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &FileStore{dir: dir, quota: quota}, nil
}

// Dir returns the state directory path.
func (f *FileStore) Dir() string {
	return f.dir
}

func (f *FileStore) path(key string) string {
	return filepath.Join(f.dir, keyToFilename(key))
}

// Get implements Store.
func (f *FileStore) Get(key string) (string, bool, error) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read %q: %w", key, err)
	}
	return string(data), true, nil
}

// Set implements Store. The quota check accounts for the value being
// replaced, so overwrites of a large key with a smaller value always fit.
func (f *FileStore) Set(key, value string) error {
	used, _, err := f.Usage()
	if err != nil {
		return err
	}
	var existing int64
	if info, err := os.Stat(f.path(key)); err == nil {
		existing = info.Size()
	}
	requested := used - existing + int64(len(value))
	if requested > f.quota {
		return &QuotaExceededError{Key: key, Requested: requested, Quota: f.quota}
	}

	if err := os.WriteFile(f.path(key), []byte(value), 0644); err != nil {
		return fmt.Errorf("write %q: %w", key, err)
	}
	return nil
}

// Delete implements Store.
func (f *FileStore) Delete(key string) error {
	if err := os.Remove(f.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

// Keys implements Store.
func (f *FileStore) Keys() ([]string, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, fmt.Errorf("read state dir: %w", err)
	}
	var keys []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".kv") {
			continue
		}
		keys = append(keys, filenameToKey(entry.Name()))
	}
	return keys, nil
}

// Usage implements Store. Used bytes are the sum of value sizes; the
// figure is an estimate and ignores filesystem overhead.
func (f *FileStore) Usage() (int64, int64, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return 0, f.quota, fmt.Errorf("read state dir: %w", err)
	}
	var used int64
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".kv") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		used += info.Size()
	}
	return used, f.quota, nil
}

// Close implements Store.
func (f *FileStore) Close() error {
	return nil
}

// keyToFilename maps a key to a safe filename. Keys only use dots and
// word characters, so the mapping stays reversible.
func keyToFilename(key string) string {
	var b strings.Builder
	for i := 0; i < len(key); i++ {
		c := key[i]
		valid := (c >= 'A' && c <= 'Z') ||
			(c >= 'a' && c <= 'z') ||
			(c >= '0' && c <= '9') ||
			c == '.' || c == '-'
		if valid {
			b.WriteByte(c)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String() + ".kv"
}

func filenameToKey(name string) string {
	return strings.TrimSuffix(name, ".kv")
}

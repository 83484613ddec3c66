package persist

import (
	"strconv"
	"time"

	"github.com/avelinec/todostash/internal/store"
)

// Metadata tracks process-wide sync counters. It is owned by the engine
// and persisted alongside the state, never ambient globals.
type Metadata struct {
	LastSync   time.Time `json:"last_sync"`
	SyncCount  int64     `json:"sync_count"`
	ErrorCount int64     `json:"error_count"`
}

// loadMetadata reads persisted counters, tolerating absent or unparsable
// values.
func loadMetadata(st store.Store) Metadata {
	var meta Metadata
	if v, ok, err := st.Get(store.KeyLastSync); err == nil && ok {
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			meta.LastSync = t
		}
	}
	if v, ok, err := st.Get(store.KeySyncCount); err == nil && ok {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			meta.SyncCount = n
		}
	}
	if v, ok, err := st.Get(store.KeyErrorCount); err == nil && ok {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			meta.ErrorCount = n
		}
	}
	return meta
}

// persistMetadata writes the counters back. Metadata writes are
// best-effort; a failed counter update never fails a save.
func (e *Engine) persistMetadata() {
	if !e.meta.LastSync.IsZero() {
		if err := e.st.Set(store.KeyLastSync, e.meta.LastSync.Format(time.RFC3339Nano)); err != nil {
			e.logger.Debug("last-sync write failed", "error", err)
		}
	}
	if err := e.st.Set(store.KeySyncCount, strconv.FormatInt(e.meta.SyncCount, 10)); err != nil {
		e.logger.Debug("sync-count write failed", "error", err)
	}
	if err := e.st.Set(store.KeyErrorCount, strconv.FormatInt(e.meta.ErrorCount, 10)); err != nil {
		e.logger.Debug("error-count write failed", "error", err)
	}
}

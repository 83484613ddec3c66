package persist

import (
	"github.com/charmbracelet/log"

	"github.com/avelinec/todostash/internal/codec"
	"github.com/avelinec/todostash/internal/store"
	"github.com/avelinec/todostash/internal/task"
)

// Source reports where a loaded state came from.
type Source string

const (
	SourcePrimary Source = "primary"
	SourceBackup  Source = "backup"
	SourceDefault Source = "default"
)

// Recovery is the read path: primary payload, then backup, then the
// default empty state. It never raises past this boundary.
type Recovery struct {
	st           store.Store
	logger       *log.Logger
	autoRecovery bool
}

// NewRecovery creates a recovery reader. autoRecovery enables the backup
// fallback; without it a bad primary degrades straight to the default.
func NewRecovery(st store.Store, logger *log.Logger, autoRecovery bool) *Recovery {
	if logger == nil {
		logger = log.Default()
	}
	return &Recovery{st: st, logger: logger, autoRecovery: autoRecovery}
}

// LoadState always returns a usable state and the source it came from.
func (r *Recovery) LoadState() (task.State, Source) {
	if s, ok := r.tryDecode(store.KeyState); ok {
		return s, SourcePrimary
	}

	if r.autoRecovery {
		if s, ok := r.tryDecode(store.KeyBackup); ok {
			r.logger.Warn("primary state unusable, recovered from backup")
			return s, SourceBackup
		}
	}

	r.logger.Warn("no usable state, starting from default")
	return task.NewState(), SourceDefault
}

func (r *Recovery) tryDecode(key string) (task.State, bool) {
	payload, ok, err := r.st.Get(key)
	if err != nil {
		r.logger.Warn("state read failed", "key", key, "error", err)
		return task.State{}, false
	}
	if !ok {
		return task.State{}, false
	}
	s, err := codec.Decode(payload)
	if err != nil {
		r.logger.Warn("state decode failed", "key", key, "error", err)
		return task.State{}, false
	}
	return s, true
}

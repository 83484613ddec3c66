// Package persist implements the write and read paths between the task
// state and the underlying store: debounced saves, backup and recovery,
// sync metadata, and quota monitoring.
package persist

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/avelinec/todostash/internal/bus"
	"github.com/avelinec/todostash/internal/codec"
	"github.com/avelinec/todostash/internal/store"
	"github.com/avelinec/todostash/internal/task"
)

// PersistenceFailure indicates a write that exhausted its retries. The
// in-memory state is not rolled back; the failure is surfaced so callers
// can warn the user.
type PersistenceFailure struct {
	Attempts int
	Err      error
}

func (e *PersistenceFailure) Error() string {
	return fmt.Sprintf("persistence failed after %d attempts: %v", e.Attempts, e.Err)
}

// Unwrap returns the underlying error.
func (e *PersistenceFailure) Unwrap() error {
	return e.Err
}

// Options tunes the engine. Zero values fall back to the defaults below.
type Options struct {
	Debounce   time.Duration
	MaxRetries int
	RetryDelay time.Duration
	AutoBackup bool
	// OnResult, if set, is called after every completed write attempt
	// chain with the outcome. Called from the engine's write path, never
	// concurrently with itself.
	OnResult func(error)
}

// Engine defaults.
const (
	DefaultDebounce   = 500 * time.Millisecond
	DefaultMaxRetries = 3
	DefaultRetryDelay = 250 * time.Millisecond
)

// Engine is the sole writer of the persisted key space. Saves are
// debounced and coalesced latest-wins; writes never overlap.
type Engine struct {
	st      store.Store
	bus     *bus.Bus
	logger  *log.Logger
	monitor *QuotaMonitor
	opts    Options

	mu         sync.Mutex
	timer      *time.Timer
	pending    *task.State
	pendingGen uint64
	gen        uint64
	closed     bool

	// writeMu serializes writes. A save scheduled while a write is in
	// flight waits for it to settle.
	writeMu sync.Mutex
	meta    Metadata
}

// NewEngine creates an engine over the given store. The bus and monitor
// are optional; a nil logger falls back to the default.
func NewEngine(st store.Store, b *bus.Bus, monitor *QuotaMonitor, logger *log.Logger, opts Options) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = DefaultMaxRetries
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = DefaultRetryDelay
	}
	return &Engine{
		st:      st,
		bus:     b,
		logger:  logger,
		monitor: monitor,
		opts:    opts,
		meta:    loadMetadata(st),
	}
}

// ScheduleSave coalesces rapid state changes into a single write. If a
// save is already pending, the timer resets and only the most recent
// state is written.
func (e *Engine) ScheduleSave(s task.State) {
	snapshot := s.Clone()

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.pending = &snapshot
	e.pendingGen = e.gen
	if e.timer != nil {
		e.timer.Stop()
	}
	e.timer = time.AfterFunc(e.opts.Debounce, e.fire)
}

// fire runs when the debounce window elapses.
func (e *Engine) fire() {
	e.mu.Lock()
	pending := e.pending
	gen := e.pendingGen
	e.pending = nil
	e.timer = nil
	closed := e.closed
	e.mu.Unlock()

	if pending == nil || closed {
		return
	}
	if err := e.write(*pending, gen); err != nil {
		// Already counted and logged; the scheduling context never
		// sees a panic from the timer goroutine.
		e.logger.Warn("debounced save failed", "error", err)
	}
}

// FlushNow cancels any pending debounced save and writes state
// synchronously. Used on critical paths such as shutdown and import.
func (e *Engine) FlushNow(s task.State) error {
	e.CancelPending()
	e.mu.Lock()
	gen := e.gen
	e.mu.Unlock()
	return e.write(s.Clone(), gen)
}

// Clear drops pending work and removes every persisted key. It waits for
// an in-flight write to settle first, and writes scheduled before the
// clear abort instead of re-persisting the old state afterward.
func (e *Engine) Clear() error {
	e.mu.Lock()
	e.gen++
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.pending = nil
	e.mu.Unlock()

	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	keys, err := e.st.Keys()
	if err != nil {
		return fmt.Errorf("list keys: %w", err)
	}
	for _, key := range keys {
		if err := e.st.Delete(key); err != nil {
			return fmt.Errorf("clear state: %w", err)
		}
	}
	e.meta = Metadata{}
	return nil
}

// CancelPending drops a not-yet-flushed debounced save, if any.
func (e *Engine) CancelPending() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.pending = nil
}

// Close cancels pending work and waits for any in-flight write.
func (e *Engine) Close() {
	e.mu.Lock()
	e.closed = true
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.pending = nil
	e.mu.Unlock()

	// Wait for an in-flight write to settle.
	e.writeMu.Lock()
	e.writeMu.Unlock() //nolint:staticcheck // barrier, not a critical section
}

// write runs the full write algorithm: encode, backup, store with
// retries, then metadata bookkeeping. gen is the clear generation the
// state was captured under; a write that queued behind a clear is stale
// and must not resurrect the cleared key space.
func (e *Engine) write(s task.State, gen uint64) error {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	e.mu.Lock()
	stale := gen != e.gen
	e.mu.Unlock()
	if stale {
		e.logger.Debug("write superseded by clear, dropped")
		return nil
	}

	payload, err := codec.Encode(s)
	if err != nil {
		return e.fail(0, fmt.Errorf("encode state: %w", err))
	}

	e.warnOnQuota()

	if e.opts.AutoBackup {
		// The backup slot always holds the previous good payload, not
		// the oldest one.
		if prev, ok, err := e.st.Get(store.KeyState); err == nil && ok {
			if err := e.st.Set(store.KeyBackup, prev); err != nil {
				e.logger.Warn("backup copy failed", "error", err)
			}
		}
	}

	var lastErr error
	for attempt := 1; attempt <= e.opts.MaxRetries; attempt++ {
		lastErr = e.st.Set(store.KeyState, payload)
		if lastErr == nil {
			break
		}
		e.logger.Warn("state write failed", "attempt", attempt, "error", lastErr)
		if attempt < e.opts.MaxRetries {
			time.Sleep(e.opts.RetryDelay)
		}
	}
	if lastErr != nil {
		return e.fail(e.opts.MaxRetries, lastErr)
	}

	if err := e.st.Set(store.KeyVersion, fmt.Sprintf("%d", codec.StorageVersion)); err != nil {
		e.logger.Warn("version write failed", "error", err)
	}

	e.meta.LastSync = time.Now().UTC()
	e.meta.SyncCount++
	e.persistMetadata()

	if e.bus != nil {
		e.bus.Publish(bus.TopicStateSaved, s)
	}
	if e.opts.OnResult != nil {
		e.opts.OnResult(nil)
	}
	e.logger.Debug("state saved", "tasks", len(s.Tasks), "lists", len(s.Lists), "sync_count", e.meta.SyncCount)
	return nil
}

// fail records an exhausted write and reports it without throwing out of
// the scheduling context.
func (e *Engine) fail(attempts int, err error) error {
	e.meta.ErrorCount++
	e.persistMetadata()

	failure := &PersistenceFailure{Attempts: attempts, Err: err}
	if e.bus != nil {
		e.bus.Publish(bus.TopicSaveFailed, failure)
	}
	if e.opts.OnResult != nil {
		e.opts.OnResult(failure)
	}
	e.logger.Error("persistence failure", "attempts", attempts, "error", err)
	return failure
}

// warnOnQuota publishes quota events before a write is attempted. It
// never blocks the write.
func (e *Engine) warnOnQuota() {
	if e.monitor == nil || e.bus == nil {
		return
	}
	usage, err := e.monitor.CheckUsage()
	if err != nil {
		return
	}
	switch usage.Level {
	case LevelCritical:
		e.bus.Publish(bus.TopicQuotaCritical, usage)
	case LevelWarning:
		e.bus.Publish(bus.TopicQuotaWarning, usage)
	}
}

// Metadata returns a copy of the engine's sync metadata.
func (e *Engine) Metadata() Metadata {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()
	return e.meta
}

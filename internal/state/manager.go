// Package state exposes the single interface the rest of the application
// uses to read, mutate, and subscribe to task state.
package state

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/avelinec/todostash/internal/bus"
	"github.com/avelinec/todostash/internal/persist"
	"github.com/avelinec/todostash/internal/store"
	"github.com/avelinec/todostash/internal/task"
)

// Options configures the manager.
type Options struct {
	Engine       persist.Options
	AutoRecovery bool
	AutoCleanup  bool
	Sweep        task.SweepPolicy
	// Quota thresholds, as percentages. Zero means default.
	WarningPercent  float64
	CriticalPercent float64
	// Backend name, for diagnostics only.
	Backend string
}

// Diagnostics reports where state came from and how persistence is doing.
type Diagnostics struct {
	Source    persist.Source   `json:"source"`
	Backend   string           `json:"backend"`
	Metadata  persist.Metadata `json:"metadata"`
	Usage     persist.Usage    `json:"usage"`
	TaskCount int              `json:"task_count"`
	ListCount int              `json:"list_count"`
	LastSweep task.SweepResult `json:"last_sweep"`
}

// Manager is the state access facade. All mutations flow through it and
// are persisted by a single engine, so there is no multi-writer
// arbitration on the key space.
type Manager struct {
	st      store.Store
	engine  *persist.Engine
	monitor *persist.QuotaMonitor
	bus     *bus.Bus
	logger  *log.Logger
	opts    Options

	mu        sync.Mutex
	state     task.State
	source    persist.Source
	lastSweep task.SweepResult
}

// New loads state through the recovery path and wires up the engine.
// Cleanup runs opportunistically here, on load, when enabled.
func New(st store.Store, b *bus.Bus, logger *log.Logger, opts Options) *Manager {
	if logger == nil {
		logger = log.Default()
	}
	if b == nil {
		b = bus.New()
	}

	monitor := persist.NewQuotaMonitor(st, opts.WarningPercent, opts.CriticalPercent)
	recovery := persist.NewRecovery(st, logger, opts.AutoRecovery)
	loaded, source := recovery.LoadState()

	m := &Manager{
		st:      st,
		engine:  persist.NewEngine(st, b, monitor, logger, opts.Engine),
		monitor: monitor,
		bus:     b,
		logger:  logger,
		opts:    opts,
		state:   loaded,
		source:  source,
	}

	if source != persist.SourcePrimary {
		b.Publish(bus.TopicStateRecovered, source)
	}

	if opts.AutoCleanup {
		swept, res := task.Sweep(m.state, nowUTC(), opts.Sweep)
		if res.Removed > 0 || res.Archived > 0 {
			logger.Info("sweep on load", "removed", res.Removed, "archived", res.Archived)
			m.state = swept
			m.lastSweep = res
			m.engine.ScheduleSave(m.state)
		}
	}

	return m
}

// Get returns a deep copy of the current state.
func (m *Manager) Get() task.State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Clone()
}

// Update applies a mutation and schedules a debounced save. Later updates
// supersede not-yet-flushed earlier ones.
func (m *Manager) Update(mutate func(*task.State)) {
	m.mu.Lock()
	mutate(&m.state)
	snapshot := m.state.Clone()
	m.mu.Unlock()

	m.bus.Publish(bus.TopicStateChanged, snapshot)
	m.engine.ScheduleSave(snapshot)
}

// Subscribe registers for events matching the topic prefix.
func (m *Manager) Subscribe(topicPrefix string) *bus.Subscription {
	return m.bus.Subscribe(topicPrefix)
}

// Unsubscribe removes a subscription.
func (m *Manager) Unsubscribe(sub *bus.Subscription) {
	m.bus.Unsubscribe(sub)
}

// Flush writes the current state immediately, bypassing the debounce.
func (m *Manager) Flush() error {
	m.mu.Lock()
	snapshot := m.state.Clone()
	m.mu.Unlock()
	return m.engine.FlushNow(snapshot)
}

// Clear resets to the default empty state and removes every persisted
// key. Key removal goes through the engine so it serializes with any
// in-flight write; a save scheduled before the clear cannot resurrect
// the cleared key space.
func (m *Manager) Clear() error {
	m.mu.Lock()
	m.state = task.NewState()
	m.source = persist.SourceDefault
	m.mu.Unlock()

	if err := m.engine.Clear(); err != nil {
		return err
	}

	m.bus.Publish(bus.TopicStateCleared, nil)
	m.logger.Info("state cleared")
	return nil
}

// Diagnostics reports recovery source, sync metadata, and quota usage.
func (m *Manager) Diagnostics() Diagnostics {
	m.mu.Lock()
	source := m.source
	taskCount := len(m.state.Tasks)
	listCount := len(m.state.Lists)
	lastSweep := m.lastSweep
	m.mu.Unlock()

	usage, err := m.monitor.CheckUsage()
	if err != nil {
		m.logger.Warn("usage check failed", "error", err)
	}

	return Diagnostics{
		Source:    source,
		Backend:   m.opts.Backend,
		Metadata:  m.engine.Metadata(),
		Usage:     usage,
		TaskCount: taskCount,
		ListCount: listCount,
		LastSweep: lastSweep,
	}
}

// CheckUsage reports estimated storage usage.
func (m *Manager) CheckUsage() (persist.Usage, error) {
	return m.monitor.CheckUsage()
}

// Sweep runs the cleanup pass now and persists the result.
func (m *Manager) Sweep() task.SweepResult {
	m.mu.Lock()
	swept, res := task.Sweep(m.state, nowUTC(), m.opts.Sweep)
	m.state = swept
	m.lastSweep = res
	snapshot := m.state.Clone()
	m.mu.Unlock()

	if res.Removed > 0 || res.Archived > 0 {
		m.bus.Publish(bus.TopicStateChanged, snapshot)
		m.engine.ScheduleSave(snapshot)
	}
	return res
}

// ExportJSON serializes the full state as plain human-readable JSON,
// independent of the internal version envelope.
func (m *Manager) ExportJSON() (string, error) {
	snapshot := m.Get()
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal export: %w", err)
	}
	return string(data) + "\n", nil
}

// ImportJSON validates and replaces the current state. A malformed
// payload fails with a *task.ValidationError and leaves the in-memory
// state unchanged; a bad import must never silently corrupt existing
// data. Merging is the caller's decision; import replaces.
func (m *Manager) ImportJSON(text string) error {
	imported, err := task.ParseImport([]byte(text))
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.state = imported
	snapshot := m.state.Clone()
	m.mu.Unlock()

	m.bus.Publish(bus.TopicStateChanged, snapshot)
	return m.engine.FlushNow(snapshot)
}

// WatchExternal starts a watcher for writes to the state directory made
// outside this process and republishes them on the bus. Only file-backed
// stores support it.
func (m *Manager) WatchExternal(ctx context.Context) error {
	fs, ok := m.st.(*store.FileStore)
	if !ok {
		return fmt.Errorf("external watch requires the file backend")
	}
	w := store.NewWatcher(fs, m.logger)
	if err := w.Start(ctx); err != nil {
		return err
	}
	go func() {
		for ev := range w.Events() {
			m.bus.Publish(bus.TopicExternalChange, ev)
		}
	}()
	return nil
}

// Close flushes nothing; callers flush explicitly before shutdown. It
// cancels pending saves and waits for in-flight writes.
func (m *Manager) Close() {
	m.engine.Close()
}

func nowUTC() time.Time {
	return time.Now().UTC()
}

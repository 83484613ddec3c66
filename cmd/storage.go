package cmd

import (
	"fmt"
	"strings"

	"github.com/avelinec/todostash/internal/bus"
	"github.com/avelinec/todostash/internal/config"
	"github.com/avelinec/todostash/internal/logging"
	"github.com/avelinec/todostash/internal/persist"
	"github.com/avelinec/todostash/internal/state"
	"github.com/avelinec/todostash/internal/store"
	"github.com/avelinec/todostash/internal/task"
)

// openManager wires the storage stack from config. The returned close
// function waits for in-flight writes and releases the store.
func openManager(cfg *config.Config) (*state.Manager, func(), error) {
	st, err := store.Open(store.Backend(cfg.Backend), cfg.StateDir, cfg.QuotaBytes)
	if err != nil {
		return nil, nil, fmt.Errorf("opening store: %w", err)
	}

	logger := logging.FromConfig(cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller)
	b := bus.New()

	mgr := state.New(st, b, logger, state.Options{
		Engine: persist.Options{
			Debounce:   cfg.Debounce(),
			MaxRetries: cfg.MaxRetries,
			RetryDelay: cfg.RetryDelay(),
			AutoBackup: cfg.AutoBackup,
		},
		AutoRecovery: cfg.AutoRecovery,
		AutoCleanup:  cfg.AutoCleanup,
		Sweep: task.SweepPolicy{
			RetentionDays: cfg.RetentionDays,
			ArchiveDays:   cfg.ArchiveDays,
		},
		WarningPercent:  cfg.QuotaWarningPercent,
		CriticalPercent: cfg.QuotaCriticalPercent,
		Backend:         cfg.Backend,
	})

	closeAll := func() {
		mgr.Close()
		if err := st.Close(); err != nil {
			logger.Warn("store close failed", "error", err)
		}
	}
	return mgr, closeAll, nil
}

// findTask resolves an ID argument, accepting a unique ID prefix or an
// exact title match.
func findTask(s task.State, arg string) (*task.Task, error) {
	var matches []*task.Task
	for i := range s.Tasks {
		t := &s.Tasks[i]
		if t.ID == arg || t.Title == arg {
			return t, nil
		}
		if strings.HasPrefix(t.ID, arg) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no task matches %q", arg)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%q is ambiguous (%d matches)", arg, len(matches))
	}
}

// findList resolves a list by name or ID.
func findList(s task.State, arg string) (*task.TaskList, error) {
	for i := range s.Lists {
		l := &s.Lists[i]
		if l.ID == arg || l.Name == arg {
			return l, nil
		}
	}
	return nil, fmt.Errorf("no list matches %q", arg)
}

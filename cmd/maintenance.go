package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/avelinec/todostash/internal/config"
	"github.com/avelinec/todostash/internal/stashdir"
	"github.com/avelinec/todostash/internal/ui"
)

func sweepCommand(cfg *config.Config, args []string) error {
	mgr, closeAll, err := openManager(cfg)
	if err != nil {
		return err
	}
	defer closeAll()

	res := mgr.Sweep()
	if err := mgr.Flush(); err != nil {
		return err
	}

	fmt.Printf("sweep: %d removed, %d archived\n", res.Removed, res.Archived)
	return nil
}

func statusCommand(cfg *config.Config, args []string) error {
	mgr, closeAll, err := openManager(cfg)
	if err != nil {
		return err
	}
	defer closeAll()

	diag := mgr.Diagnostics()

	fmt.Printf("backend:     %s\n", diag.Backend)
	fmt.Printf("state dir:   %s\n", cfg.StateDir)
	fmt.Printf("loaded from: %s\n", diag.Source)
	fmt.Printf("tasks:       %d (lists: %d)\n", diag.TaskCount, diag.ListCount)
	if diag.Metadata.LastSync.IsZero() {
		fmt.Printf("last sync:   never\n")
	} else {
		fmt.Printf("last sync:   %s\n", diag.Metadata.LastSync.Format(time.RFC3339))
	}
	fmt.Printf("syncs:       %d\n", diag.Metadata.SyncCount)
	fmt.Printf("errors:      %d\n", diag.Metadata.ErrorCount)
	fmt.Printf("storage:     %d / %d bytes (%.1f%%) [%s]\n",
		diag.Usage.UsedBytes,
		diag.Usage.UsedBytes+diag.Usage.AvailableBytes,
		diag.Usage.PercentUsed,
		diag.Usage.Level)
	return nil
}

func clearCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todostash clear", flag.ContinueOnError)
	yes := fs.Bool("yes", false, "Confirm clearing all state")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !*yes {
		return fmt.Errorf("clear removes every task and persisted key; pass -yes to confirm")
	}

	mgr, closeAll, err := openManager(cfg)
	if err != nil {
		return err
	}
	defer closeAll()

	if err := mgr.Clear(); err != nil {
		return err
	}
	fmt.Println("state cleared")
	return nil
}

func tuiCommand(ctx context.Context, cfg *config.Config, args []string) error {
	mgr, closeAll, err := openManager(cfg)
	if err != nil {
		return err
	}
	defer closeAll()

	// Surface writes made by other processes while the TUI is open.
	if cfg.Backend == "file" {
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		if err := mgr.WatchExternal(watchCtx); err != nil {
			return err
		}
	}

	if err := ui.RunTUI(ctx, mgr); err != nil {
		return err
	}
	return mgr.Flush()
}

func initCommand(cfg *config.Config, args []string) error {
	path := stashdir.ConfigPath()
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(config.ExampleConfig()), 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

// Package cmd implements the CLI command structure for todostash.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/avelinec/todostash/internal/config"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Run executes the todostash CLI.
func Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("todostash", flag.ContinueOnError)
	fs.Usage = func() {
		printUsage(fs, os.Stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cfg, err := config.Load(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, os.Stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	// Default to ls when invoked with no subcommand.
	subcommand := "ls"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "add":
		return addCommand(cfg, remainingArgs)
	case "ls":
		return lsCommand(cfg, remainingArgs)
	case "done":
		return doneCommand(cfg, remainingArgs)
	case "rm":
		return rmCommand(cfg, remainingArgs)
	case "lists":
		return listsCommand(cfg, remainingArgs)
	case "mklist":
		return mklistCommand(cfg, remainingArgs)
	case "rmlist":
		return rmlistCommand(cfg, remainingArgs)
	case "sweep":
		return sweepCommand(cfg, remainingArgs)
	case "export":
		return exportCommand(cfg, remainingArgs)
	case "import":
		return importCommand(cfg, remainingArgs)
	case "status":
		return statusCommand(cfg, remainingArgs)
	case "clear":
		return clearCommand(cfg, remainingArgs)
	case "tui":
		return tuiCommand(ctx, cfg, remainingArgs)
	case "init":
		return initCommand(cfg, remainingArgs)
	case "version":
		return versionCommand()
	case "help":
		printUsage(fs, os.Stdout)
		return nil
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, os.Stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

func versionCommand() error {
	fmt.Printf("todostash %s\n", Version)
	return nil
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprint(w, `todostash - a local-first to-do list

Usage:
  todostash [flags] <command> [args]

Commands:
  add [flags] <title>   Add a task
  ls [flags]            List tasks (default command)
  done <id>             Mark a task done (id may be a unique prefix)
  rm <id>               Remove a task
  lists                 List task lists
  mklist <name>         Create a task list
  rmlist <name>         Remove a task list (tasks survive)
  sweep                 Archive/remove aged completed tasks now
  export [-o file]      Export state as plain JSON
  import <file>         Validate and import state (replaces current)
  status                Show storage diagnostics and quota
  clear -yes            Reset to empty state and remove persisted keys
  tui                   Interactive terminal UI
  init                  Write an example config file
  version               Show version

Flags:
`)
	fs.SetOutput(w)
	fs.PrintDefaults()
}

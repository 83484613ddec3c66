package cmd

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/avelinec/todostash/internal/config"
	"github.com/avelinec/todostash/internal/task"
)

func exportCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todostash export", flag.ContinueOnError)
	out := fs.String("o", "", "Output file (default stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	mgr, closeAll, err := openManager(cfg)
	if err != nil {
		return err
	}
	defer closeAll()

	doc, err := mgr.ExportJSON()
	if err != nil {
		return err
	}

	if *out == "" {
		fmt.Print(doc)
		return nil
	}
	if err := os.WriteFile(*out, []byte(doc), 0644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	fmt.Printf("exported to %s\n", *out)
	return nil
}

// importCommand replaces the current state with a validated export file.
// Import is the one operation that propagates a hard error: a bad file
// must not silently corrupt existing data.
func importCommand(cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: todostash import <file>")
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read import file: %w", err)
	}

	mgr, closeAll, err := openManager(cfg)
	if err != nil {
		return err
	}
	defer closeAll()

	if err := mgr.ImportJSON(string(data)); err != nil {
		var verr *task.ValidationError
		if errors.As(err, &verr) {
			return fmt.Errorf("import rejected: %w", verr)
		}
		return err
	}

	s := mgr.Get()
	fmt.Printf("imported %d tasks, %d lists\n", len(s.Tasks), len(s.Lists))
	return nil
}

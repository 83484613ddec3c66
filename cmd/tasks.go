package cmd

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/avelinec/todostash/internal/config"
	"github.com/avelinec/todostash/internal/task"
)

// addCommand creates a task and flushes immediately; a CLI invocation is
// its own "page unload".
func addCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todostash add", flag.ContinueOnError)
	due := fs.String("due", "", "Due date (2006-01-02)")
	list := fs.String("list", "", "List name or ID")
	if err := fs.Parse(args); err != nil {
		return err
	}
	title := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if title == "" {
		return fmt.Errorf("usage: todostash add [-due date] [-list name] <title>")
	}

	var dueDate *time.Time
	if *due != "" {
		d, err := time.Parse("2006-01-02", *due)
		if err != nil {
			return fmt.Errorf("invalid due date %q: %w", *due, err)
		}
		d = d.UTC()
		dueDate = &d
	}

	mgr, closeAll, err := openManager(cfg)
	if err != nil {
		return err
	}
	defer closeAll()

	t := task.NewTask(title)
	t.DueDate = dueDate

	if *list != "" {
		l, err := findList(mgr.Get(), *list)
		if err != nil {
			return err
		}
		t.ListID = l.ID
	}

	mgr.Update(func(s *task.State) {
		s.AddTask(t)
	})
	if err := mgr.Flush(); err != nil {
		return err
	}

	fmt.Printf("added %s  %s\n", shortID(t.ID), t.Title)
	return nil
}

func lsCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todostash ls", flag.ContinueOnError)
	all := fs.Bool("all", false, "Include done and archived tasks")
	done := fs.Bool("done", false, "Show only done tasks")
	archived := fs.Bool("archived", false, "Show only archived tasks")
	list := fs.String("list", "", "Filter by list name or ID")
	if err := fs.Parse(args); err != nil {
		return err
	}

	mgr, closeAll, err := openManager(cfg)
	if err != nil {
		return err
	}
	defer closeAll()

	s := mgr.Get()

	var listID string
	if *list != "" {
		l, err := findList(s, *list)
		if err != nil {
			return err
		}
		listID = l.ID
	}

	shown := 0
	for _, t := range s.Tasks {
		switch {
		case *archived:
			if !t.Archived {
				continue
			}
		case *done:
			if !t.Done || t.Archived {
				continue
			}
		case *all:
		default:
			if t.Done || t.Archived {
				continue
			}
		}
		if listID != "" && t.ListID != listID {
			continue
		}
		printTask(s, t)
		shown++
	}
	if shown == 0 {
		fmt.Println("no tasks")
	}
	return nil
}

func doneCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todostash done", flag.ContinueOnError)
	undo := fs.Bool("undo", false, "Mark the task as not done")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: todostash done [-undo] <id>")
	}

	mgr, closeAll, err := openManager(cfg)
	if err != nil {
		return err
	}
	defer closeAll()

	t, err := findTask(mgr.Get(), fs.Arg(0))
	if err != nil {
		return err
	}

	var updateErr error
	mgr.Update(func(s *task.State) {
		updateErr = s.SetDone(t.ID, !*undo)
	})
	if updateErr != nil {
		return updateErr
	}
	if err := mgr.Flush(); err != nil {
		return err
	}

	if *undo {
		fmt.Printf("reopened %s  %s\n", shortID(t.ID), t.Title)
	} else {
		fmt.Printf("done %s  %s\n", shortID(t.ID), t.Title)
	}
	return nil
}

func rmCommand(cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: todostash rm <id>")
	}

	mgr, closeAll, err := openManager(cfg)
	if err != nil {
		return err
	}
	defer closeAll()

	t, err := findTask(mgr.Get(), args[0])
	if err != nil {
		return err
	}

	var updateErr error
	mgr.Update(func(s *task.State) {
		updateErr = s.RemoveTask(t.ID)
	})
	if updateErr != nil {
		return updateErr
	}
	if err := mgr.Flush(); err != nil {
		return err
	}

	fmt.Printf("removed %s  %s\n", shortID(t.ID), t.Title)
	return nil
}

func printTask(s task.State, t task.Task) {
	icon := " "
	switch {
	case t.Archived:
		icon = "~"
	case t.Done:
		icon = "x"
	}
	line := fmt.Sprintf("[%s] %s  %s", icon, shortID(t.ID), t.Title)
	if t.ListID != "" {
		if l := s.GetList(t.ListID); l != nil {
			line += "  @" + l.Name
		}
	}
	if t.DueDate != nil {
		line += "  due " + t.DueDate.Format("2006-01-02")
	}
	fmt.Println(line)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

package cmd

import (
	"fmt"
	"sort"

	"github.com/avelinec/todostash/internal/config"
	"github.com/avelinec/todostash/internal/task"
)

func listsCommand(cfg *config.Config, args []string) error {
	mgr, closeAll, err := openManager(cfg)
	if err != nil {
		return err
	}
	defer closeAll()

	s := mgr.Get()
	if len(s.Lists) == 0 {
		fmt.Println("no lists")
		return nil
	}

	lists := make([]task.TaskList, len(s.Lists))
	copy(lists, s.Lists)
	sort.Slice(lists, func(i, j int) bool {
		return lists[i].Position < lists[j].Position
	})

	for _, l := range lists {
		count := 0
		for _, t := range s.Tasks {
			if t.ListID == l.ID && !t.Done && !t.Archived {
				count++
			}
		}
		fmt.Printf("%s  %s (%d open)\n", shortID(l.ID), l.Name, count)
	}
	return nil
}

func mklistCommand(cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: todostash mklist <name>")
	}
	name := args[0]

	mgr, closeAll, err := openManager(cfg)
	if err != nil {
		return err
	}
	defer closeAll()

	if _, err := findList(mgr.Get(), name); err == nil {
		return fmt.Errorf("list %q already exists", name)
	}

	var l task.TaskList
	mgr.Update(func(s *task.State) {
		l = task.NewList(name, len(s.Lists))
		s.AddList(l)
	})
	if err := mgr.Flush(); err != nil {
		return err
	}

	fmt.Printf("created list %s  %s\n", shortID(l.ID), l.Name)
	return nil
}

func rmlistCommand(cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: todostash rmlist <name>")
	}

	mgr, closeAll, err := openManager(cfg)
	if err != nil {
		return err
	}
	defer closeAll()

	l, err := findList(mgr.Get(), args[0])
	if err != nil {
		return err
	}

	var updateErr error
	mgr.Update(func(s *task.State) {
		updateErr = s.RemoveList(l.ID)
	})
	if updateErr != nil {
		return updateErr
	}
	if err := mgr.Flush(); err != nil {
		return err
	}

	fmt.Printf("removed list %s (its tasks were kept)\n", l.Name)
	return nil
}

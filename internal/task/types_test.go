package task

import (
	"testing"
	"time"
)

func TestNewTask(t *testing.T) {
	a := NewTask("Buy milk")
	b := NewTask("Buy milk")

	if a.ID == "" || b.ID == "" {
		t.Fatal("NewTask produced empty ID")
	}
	if a.ID == b.ID {
		t.Error("NewTask produced duplicate IDs")
	}
	if a.CreatedAt == nil || a.UpdatedAt == nil {
		t.Error("NewTask left timestamps unset")
	}
	if a.Done {
		t.Error("new task should not be done")
	}
}

func TestAddUpdateRemoveTask(t *testing.T) {
	s := NewState()
	s.AddTask(Task{ID: "t1", Title: "First"})
	s.AddTask(Task{ID: "t2", Title: "Second"})

	if len(s.Tasks) != 2 {
		t.Fatalf("tasks: got %d, want 2", len(s.Tasks))
	}
	if s.Tasks[0].CreatedAt == nil {
		t.Error("AddTask did not fill created_at")
	}

	if err := s.UpdateTask("t1", func(task *Task) {
		task.Title = "First edited"
	}); err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}
	if got := s.GetTask("t1").Title; got != "First edited" {
		t.Errorf("title: got %q", got)
	}

	if err := s.UpdateTask("missing", func(*Task) {}); err == nil {
		t.Error("UpdateTask on missing ID should fail")
	}

	if err := s.RemoveTask("t1"); err != nil {
		t.Fatalf("RemoveTask failed: %v", err)
	}
	if s.GetTask("t1") != nil {
		t.Error("task t1 still present after removal")
	}
	if err := s.RemoveTask("t1"); err == nil {
		t.Error("RemoveTask on missing ID should fail")
	}
}

func TestSetDone(t *testing.T) {
	s := NewState()
	s.AddTask(Task{ID: "t1", Title: "First"})

	if err := s.SetDone("t1", true); err != nil {
		t.Fatalf("SetDone failed: %v", err)
	}
	got := s.GetTask("t1")
	if !got.Done || got.DoneAt == nil {
		t.Errorf("after SetDone: done=%v done_at=%v", got.Done, got.DoneAt)
	}

	if err := s.SetDone("t1", false); err != nil {
		t.Fatalf("SetDone(false) failed: %v", err)
	}
	got = s.GetTask("t1")
	if got.Done || got.DoneAt != nil {
		t.Errorf("after undo: done=%v done_at=%v", got.Done, got.DoneAt)
	}
}

func TestRemoveListKeepsTasks(t *testing.T) {
	s := NewState()
	s.AddList(TaskList{ID: "l1", Name: "Groceries"})
	s.AddTask(Task{ID: "t1", Title: "Milk", ListID: "l1"})
	s.AddTask(Task{ID: "t2", Title: "Other"})

	if err := s.RemoveList("l1"); err != nil {
		t.Fatalf("RemoveList failed: %v", err)
	}
	if len(s.Lists) != 0 {
		t.Errorf("lists: got %d, want 0", len(s.Lists))
	}
	if len(s.Tasks) != 2 {
		t.Fatalf("tasks should survive list removal, got %d", len(s.Tasks))
	}
	if got := s.GetTask("t1").ListID; got != "" {
		t.Errorf("dangling list reference %q", got)
	}

	if err := s.RemoveList("l1"); err == nil {
		t.Error("RemoveList on missing ID should fail")
	}
}

func TestCloneIsolation(t *testing.T) {
	now := time.Now().UTC()
	s := NewState()
	s.AddTask(Task{ID: "t1", Title: "Original", DoneAt: &now})
	s.AddList(TaskList{ID: "l1", Name: "A"})

	clone := s.Clone()
	clone.Tasks[0].Title = "Mutated"
	*clone.Tasks[0].DoneAt = now.Add(time.Hour)
	clone.Lists[0].Name = "B"

	if s.Tasks[0].Title != "Original" {
		t.Error("clone shares task slice with original")
	}
	if !s.Tasks[0].DoneAt.Equal(now) {
		t.Error("clone shares timestamp pointer with original")
	}
	if s.Lists[0].Name != "A" {
		t.Error("clone shares list slice with original")
	}
}

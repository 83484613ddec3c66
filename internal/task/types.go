// Package task defines the to-do data model and operations on it.
package task

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Task is a single to-do item.
type Task struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Done      bool       `json:"done"`
	Archived  bool       `json:"archived,omitempty"`
	DueDate   *time.Time `json:"due_date,omitempty"`
	ListID    string     `json:"list_id,omitempty"`
	DoneAt    *time.Time `json:"done_at,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// IsZero returns true if the task is empty (has no ID).
func (t *Task) IsZero() bool {
	return t.ID == ""
}

// TaskList groups tasks under a named list.
type TaskList struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position int    `json:"position"`
}

// State is the aggregate root: every task and list, persisted as one unit.
type State struct {
	Tasks []Task     `json:"tasks"`
	Lists []TaskList `json:"lists"`
}

// NewState returns an empty state with non-nil slices, so that an empty
// state and a freshly decoded empty payload compare equal.
func NewState() State {
	return State{
		Tasks: []Task{},
		Lists: []TaskList{},
	}
}

// NewTask creates a task with a fresh ID and timestamps.
func NewTask(title string) Task {
	now := time.Now().UTC()
	return Task{
		ID:        uuid.NewString(),
		Title:     title,
		CreatedAt: &now,
		UpdatedAt: &now,
	}
}

// NewList creates a list with a fresh ID, positioned after existing lists.
func NewList(name string, position int) TaskList {
	return TaskList{
		ID:       uuid.NewString(),
		Name:     name,
		Position: position,
	}
}

// Clone returns a deep copy of the state. Callers receive copies so that
// mutations never leak across the facade boundary.
func (s State) Clone() State {
	out := State{
		Tasks: make([]Task, len(s.Tasks)),
		Lists: make([]TaskList, len(s.Lists)),
	}
	copy(out.Lists, s.Lists)
	for i, t := range s.Tasks {
		out.Tasks[i] = t
		out.Tasks[i].DueDate = copyTime(t.DueDate)
		out.Tasks[i].DoneAt = copyTime(t.DoneAt)
		out.Tasks[i].CreatedAt = copyTime(t.CreatedAt)
		out.Tasks[i].UpdatedAt = copyTime(t.UpdatedAt)
	}
	return out
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// GetTask returns a task by ID, or nil if not found.
func (s *State) GetTask(id string) *Task {
	for i := range s.Tasks {
		if s.Tasks[i].ID == id {
			return &s.Tasks[i]
		}
	}
	return nil
}

// GetList returns a list by ID, or nil if not found.
func (s *State) GetList(id string) *TaskList {
	for i := range s.Lists {
		if s.Lists[i].ID == id {
			return &s.Lists[i]
		}
	}
	return nil
}

// AddTask appends a task, filling in timestamps if missing.
func (s *State) AddTask(t Task) {
	now := time.Now().UTC()
	if t.CreatedAt == nil {
		t.CreatedAt = &now
	}
	t.UpdatedAt = &now
	s.Tasks = append(s.Tasks, t)
}

// UpdateTask updates an existing task by ID.
func (s *State) UpdateTask(id string, updater func(*Task)) error {
	for i := range s.Tasks {
		if s.Tasks[i].ID == id {
			updater(&s.Tasks[i])
			now := time.Now().UTC()
			s.Tasks[i].UpdatedAt = &now
			return nil
		}
	}
	return fmt.Errorf("task %q not found", id)
}

// RemoveTask deletes a task by ID.
func (s *State) RemoveTask(id string) error {
	for i := range s.Tasks {
		if s.Tasks[i].ID == id {
			s.Tasks = append(s.Tasks[:i], s.Tasks[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("task %q not found", id)
}

// SetDone marks a task done or not done, maintaining the completion timestamp.
func (s *State) SetDone(id string, done bool) error {
	return s.UpdateTask(id, func(t *Task) {
		t.Done = done
		if done {
			now := time.Now().UTC()
			t.DoneAt = &now
		} else {
			t.DoneAt = nil
		}
	})
}

// AddList appends a list.
func (s *State) AddList(l TaskList) {
	s.Lists = append(s.Lists, l)
}

// RemoveList deletes a list and clears the list reference on its tasks.
// Tasks are referenced by lists, not owned; they survive list removal.
func (s *State) RemoveList(id string) error {
	for i := range s.Lists {
		if s.Lists[i].ID == id {
			s.Lists = append(s.Lists[:i], s.Lists[i+1:]...)
			for j := range s.Tasks {
				if s.Tasks[j].ListID == id {
					s.Tasks[j].ListID = ""
				}
			}
			return nil
		}
	}
	return fmt.Errorf("list %q not found", id)
}

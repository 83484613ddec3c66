// Package codec serializes state to and from the versioned storage payload.
package codec

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/avelinec/todostash/internal/task"
)

// StorageVersion is the current payload version. Older known versions are
// migrated forward on decode; unknown versions are treated as corrupt.
const StorageVersion = 3

// CorruptError indicates a payload that fails structural or version
// validation and cannot be decoded.
type CorruptError struct {
	Reason string
	Err    error
}

func (e *CorruptError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("corrupt payload: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("corrupt payload: %s", e.Reason)
}

// Unwrap returns the underlying error.
func (e *CorruptError) Unwrap() error {
	return e.Err
}

// envelope is the versioned wrapper around serialized state.
type envelope struct {
	Version int             `json:"version"`
	State   json.RawMessage `json:"state"`
	SavedAt time.Time       `json:"saved_at"`
}

// Encode serializes state into a payload string embedding StorageVersion.
func Encode(s task.State) (string, error) {
	stateData, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("marshal state: %w", err)
	}
	data, err := json.Marshal(envelope{
		Version: StorageVersion,
		State:   stateData,
		SavedAt: time.Now().UTC(),
	})
	if err != nil {
		return "", fmt.Errorf("marshal envelope: %w", err)
	}
	return string(data), nil
}

// Decode parses a payload string back into state. Payloads at an older
// known version are migrated forward; anything else fails with a
// *CorruptError.
func Decode(payload string) (task.State, error) {
	var env envelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		return task.State{}, &CorruptError{Reason: "malformed envelope", Err: err}
	}
	if len(env.State) == 0 {
		return task.State{}, &CorruptError{Reason: "missing state"}
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(env.State, &doc); err != nil {
		return task.State{}, &CorruptError{Reason: "malformed state", Err: err}
	}

	doc, err := migrate(doc, env.Version)
	if err != nil {
		return task.State{}, err
	}

	if err := validateShape(doc); err != nil {
		return task.State{}, err
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return task.State{}, &CorruptError{Reason: "remarshal state", Err: err}
	}
	var s task.State
	if err := json.Unmarshal(data, &s); err != nil {
		return task.State{}, &CorruptError{Reason: "decode state", Err: err}
	}
	if s.Tasks == nil {
		s.Tasks = []task.Task{}
	}
	if s.Lists == nil {
		s.Lists = []task.TaskList{}
	}
	return s, nil
}

// validateShape checks the structural invariants of a current-version
// state document before it is trusted.
func validateShape(doc map[string]interface{}) error {
	tasks, ok := doc["tasks"].([]interface{})
	if !ok {
		return &CorruptError{Reason: "tasks is not an array"}
	}
	for i, item := range tasks {
		t, ok := item.(map[string]interface{})
		if !ok {
			return &CorruptError{Reason: fmt.Sprintf("tasks[%d] is not an object", i)}
		}
		if id, _ := t["id"].(string); id == "" {
			return &CorruptError{Reason: fmt.Sprintf("tasks[%d] missing id", i)}
		}
		if title, _ := t["title"].(string); title == "" {
			return &CorruptError{Reason: fmt.Sprintf("tasks[%d] missing title", i)}
		}
	}
	if _, ok := doc["lists"].([]interface{}); !ok {
		return &CorruptError{Reason: "lists is not an array"}
	}
	return nil
}

package task

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed state.schema.json
var stateSchema string

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // JSON path to the error location
	Err  error  // Underlying error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ParseImport parses and validates an exported state document. It is the
// entry point for user-supplied payloads, so malformed input fails with a
// *ValidationError instead of being silently coerced.
func ParseImport(data []byte) (State, error) {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return State{}, &ValidationError{Err: fmt.Errorf("parse import: %w", err)}
	}

	if err := validateDocument(raw); err != nil {
		return State{}, err
	}

	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return State{}, &ValidationError{Err: fmt.Errorf("decode import: %w", err)}
	}
	if s.Tasks == nil {
		s.Tasks = []Task{}
	}
	if s.Lists == nil {
		s.Lists = []TaskList{}
	}
	return s, nil
}

// validateDocument runs JSON Schema validation with minimal structural
// checks as a fallback if the embedded schema fails to compile.
func validateDocument(raw interface{}) error {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource("state.schema.json", strings.NewReader(stateSchema)); err != nil {
		return validateMinimal(raw)
	}
	schema, err := compiler.Compile("state.schema.json")
	if err != nil {
		return validateMinimal(raw)
	}

	if err := schema.Validate(raw); err != nil {
		return firstSchemaError(err)
	}
	return nil
}

// validateMinimal checks the document shape without a schema.
func validateMinimal(raw interface{}) error {
	obj, ok := raw.(map[string]interface{})
	if !ok {
		return &ValidationError{Err: fmt.Errorf("expected an object")}
	}

	tasks, ok := obj["tasks"]
	if !ok {
		return &ValidationError{Path: "tasks", Err: fmt.Errorf("missing required field")}
	}
	taskItems, ok := tasks.([]interface{})
	if !ok {
		return &ValidationError{Path: "tasks", Err: fmt.Errorf("must be an array")}
	}
	for i, item := range taskItems {
		path := fmt.Sprintf("tasks[%d]", i)
		t, ok := item.(map[string]interface{})
		if !ok {
			return &ValidationError{Path: path, Err: fmt.Errorf("must be an object")}
		}
		if str, _ := t["id"].(string); str == "" {
			return &ValidationError{Path: path + ".id", Err: fmt.Errorf("missing required field")}
		}
		if str, _ := t["title"].(string); str == "" {
			return &ValidationError{Path: path + ".title", Err: fmt.Errorf("missing required field")}
		}
	}

	lists, ok := obj["lists"]
	if !ok {
		return &ValidationError{Path: "lists", Err: fmt.Errorf("missing required field")}
	}
	listItems, ok := lists.([]interface{})
	if !ok {
		return &ValidationError{Path: "lists", Err: fmt.Errorf("must be an array")}
	}
	for i, item := range listItems {
		path := fmt.Sprintf("lists[%d]", i)
		l, ok := item.(map[string]interface{})
		if !ok {
			return &ValidationError{Path: path, Err: fmt.Errorf("must be an object")}
		}
		if str, _ := l["id"].(string); str == "" {
			return &ValidationError{Path: path + ".id", Err: fmt.Errorf("missing required field")}
		}
		if str, _ := l["name"].(string); str == "" {
			return &ValidationError{Path: path + ".name", Err: fmt.Errorf("missing required field")}
		}
	}

	return nil
}

// firstSchemaError converts a jsonschema error tree into a ValidationError
// pointing at the deepest failing location.
func firstSchemaError(err error) error {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return &ValidationError{Err: err}
	}
	leaf := ve
	for len(leaf.Causes) > 0 {
		leaf = leaf.Causes[0]
	}
	return &ValidationError{
		Path: jsonPointerToPath(leaf.InstanceLocation),
		Err:  fmt.Errorf("%s", leaf.Message),
	}
}

func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	parts := strings.Split(ptr, "/")
	path := ""
	for _, part := range parts {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			path += fmt.Sprintf("[%d]", idx)
			continue
		}
		if path == "" {
			path = part
		} else {
			path += "." + part
		}
	}
	return path
}

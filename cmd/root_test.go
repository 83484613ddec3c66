package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/avelinec/todostash/internal/codec"
	"github.com/avelinec/todostash/internal/store"
	"github.com/avelinec/todostash/internal/task"
)

// testEnv isolates home and points the state directory at a temp dir so
// CLI runs never touch the host's stash.
func testEnv(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	stateDir := t.TempDir()
	t.Setenv("TODOSTASH_STATE_DIR", stateDir)
	t.Setenv("TODOSTASH_BACKEND", "file")
	t.Setenv("TODOSTASH_LOG_LEVEL", "error")
	return stateDir
}

func run(t *testing.T, args ...string) error {
	t.Helper()
	return Run(context.Background(), args)
}

func loadPersisted(t *testing.T, stateDir string) task.State {
	t.Helper()
	st, err := store.NewFileStore(stateDir, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	payload, ok, err := st.Get(store.KeyState)
	if err != nil || !ok {
		t.Fatalf("no persisted state: ok=%v err=%v", ok, err)
	}
	s, err := codec.Decode(payload)
	if err != nil {
		t.Fatalf("decode persisted state: %v", err)
	}
	return s
}

func TestRunAddAndDone(t *testing.T) {
	stateDir := testEnv(t)

	if err := run(t, "add", "Buy milk"); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := run(t, "add", "-due", "2026-12-24", "Wrap presents"); err != nil {
		t.Fatalf("add with due date failed: %v", err)
	}

	s := loadPersisted(t, stateDir)
	if len(s.Tasks) != 2 {
		t.Fatalf("tasks: got %d, want 2", len(s.Tasks))
	}

	if err := run(t, "done", "Buy milk"); err != nil {
		t.Fatalf("done failed: %v", err)
	}
	s = loadPersisted(t, stateDir)
	for _, tk := range s.Tasks {
		if tk.Title == "Buy milk" && (!tk.Done || tk.DoneAt == nil) {
			t.Errorf("task not marked done: %+v", tk)
		}
	}
}

func TestRunRm(t *testing.T) {
	stateDir := testEnv(t)

	if err := run(t, "add", "Doomed"); err != nil {
		t.Fatal(err)
	}
	if err := run(t, "rm", "Doomed"); err != nil {
		t.Fatalf("rm failed: %v", err)
	}
	if s := loadPersisted(t, stateDir); len(s.Tasks) != 0 {
		t.Errorf("tasks after rm: %+v", s.Tasks)
	}

	if err := run(t, "rm", "Doomed"); err == nil {
		t.Error("removing a missing task should fail")
	}
}

func TestRunLists(t *testing.T) {
	stateDir := testEnv(t)

	if err := run(t, "mklist", "Groceries"); err != nil {
		t.Fatalf("mklist failed: %v", err)
	}
	if err := run(t, "add", "-list", "Groceries", "Milk"); err != nil {
		t.Fatalf("add to list failed: %v", err)
	}

	s := loadPersisted(t, stateDir)
	if len(s.Lists) != 1 || s.Lists[0].Name != "Groceries" {
		t.Fatalf("lists: %+v", s.Lists)
	}
	if s.Tasks[0].ListID != s.Lists[0].ID {
		t.Errorf("task not assigned to list: %+v", s.Tasks[0])
	}

	if err := run(t, "rmlist", "Groceries"); err != nil {
		t.Fatalf("rmlist failed: %v", err)
	}
	s = loadPersisted(t, stateDir)
	if len(s.Lists) != 0 {
		t.Errorf("lists after rmlist: %+v", s.Lists)
	}
	if len(s.Tasks) != 1 || s.Tasks[0].ListID != "" {
		t.Errorf("task should survive with cleared list: %+v", s.Tasks)
	}
}

func TestRunExportImportRoundTrip(t *testing.T) {
	stateDir := testEnv(t)

	if err := run(t, "add", "Portable"); err != nil {
		t.Fatal(err)
	}

	exportPath := filepath.Join(t.TempDir(), "export.json")
	if err := run(t, "export", "-o", exportPath); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if err := run(t, "clear", "-yes"); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if err := run(t, "import", exportPath); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	s := loadPersisted(t, stateDir)
	if len(s.Tasks) != 1 || s.Tasks[0].Title != "Portable" {
		t.Errorf("round trip lost data: %+v", s.Tasks)
	}
}

func TestRunImportRejectsBadFile(t *testing.T) {
	testEnv(t)

	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`{"tasks":[{"title":"no id"}],"lists":[]}`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := run(t, "import", path); err == nil {
		t.Error("invalid import should fail")
	}
}

func TestRunClearRequiresConfirmation(t *testing.T) {
	testEnv(t)
	if err := run(t, "clear"); err == nil {
		t.Error("clear without -yes should fail")
	}
}

func TestRunVersionAndHelp(t *testing.T) {
	testEnv(t)
	for _, args := range [][]string{
		{"version"}, {"-version"}, {"-v"},
		{"help"}, {"-help"}, {"-h"},
	} {
		if err := run(t, args...); err != nil {
			t.Errorf("run(%v): %v", args, err)
		}
	}
}

func TestRunUnknownCommand(t *testing.T) {
	testEnv(t)
	err := run(t, "frobnicate")
	if err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Errorf("err: %v", err)
	}
}

func TestFindTask(t *testing.T) {
	s := task.State{
		Tasks: []task.Task{
			{ID: "abc12345", Title: "First"},
			{ID: "abd67890", Title: "Second"},
		},
	}

	if got, err := findTask(s, "abc12345"); err != nil || got.Title != "First" {
		t.Errorf("exact ID: %v %v", got, err)
	}
	if got, err := findTask(s, "Second"); err != nil || got.ID != "abd67890" {
		t.Errorf("exact title: %v %v", got, err)
	}
	if got, err := findTask(s, "abc"); err != nil || got.Title != "First" {
		t.Errorf("unique prefix: %v %v", got, err)
	}
	if _, err := findTask(s, "ab"); err == nil {
		t.Error("ambiguous prefix should fail")
	}
	if _, err := findTask(s, "zzz"); err == nil {
		t.Error("no match should fail")
	}
}

func TestFindList(t *testing.T) {
	s := task.State{
		Lists: []task.TaskList{{ID: "l1", Name: "Work"}},
	}
	if got, err := findList(s, "Work"); err != nil || got.ID != "l1" {
		t.Errorf("by name: %v %v", got, err)
	}
	if got, err := findList(s, "l1"); err != nil || got.Name != "Work" {
		t.Errorf("by ID: %v %v", got, err)
	}
	if _, err := findList(s, "Home"); err == nil {
		t.Error("no match should fail")
	}
}

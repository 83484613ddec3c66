package persist

import (
	"testing"

	"github.com/avelinec/todostash/internal/codec"
	"github.com/avelinec/todostash/internal/store"
)

func seedPayload(t *testing.T, st store.Store, key, title string) {
	t.Helper()
	payload, err := codec.Encode(stateWithTask(title))
	if err != nil {
		t.Fatal(err)
	}
	if err := st.Set(key, payload); err != nil {
		t.Fatal(err)
	}
}

func TestLoadStateFromPrimary(t *testing.T) {
	st := store.NewMemStore(0)
	seedPayload(t, st, store.KeyState, "primary task")
	seedPayload(t, st, store.KeyBackup, "backup task")

	s, source := NewRecovery(st, nil, true).LoadState()
	if source != SourcePrimary {
		t.Errorf("source: got %q, want primary", source)
	}
	if len(s.Tasks) != 1 || s.Tasks[0].Title != "primary task" {
		t.Errorf("state: %+v", s.Tasks)
	}
}

func TestLoadStateFallsBackToBackup(t *testing.T) {
	st := store.NewMemStore(0)
	if err := st.Set(store.KeyState, "{corrupt"); err != nil {
		t.Fatal(err)
	}
	seedPayload(t, st, store.KeyBackup, "backup task")

	s, source := NewRecovery(st, nil, true).LoadState()
	if source != SourceBackup {
		t.Errorf("source: got %q, want backup", source)
	}
	if len(s.Tasks) != 1 || s.Tasks[0].Title != "backup task" {
		t.Errorf("state: %+v", s.Tasks)
	}
}

func TestLoadStateSkipsBackupWhenDisabled(t *testing.T) {
	st := store.NewMemStore(0)
	if err := st.Set(store.KeyState, "{corrupt"); err != nil {
		t.Fatal(err)
	}
	seedPayload(t, st, store.KeyBackup, "backup task")

	s, source := NewRecovery(st, nil, false).LoadState()
	if source != SourceDefault {
		t.Errorf("source: got %q, want default", source)
	}
	if len(s.Tasks) != 0 {
		t.Errorf("state should be empty, got %+v", s.Tasks)
	}
}

func TestLoadStateDefaultWhenEmpty(t *testing.T) {
	tests := []struct {
		name string
		seed func(st store.Store)
	}{
		{"nothing stored", func(store.Store) {}},
		{"both corrupt", func(st store.Store) {
			st.Set(store.KeyState, "{corrupt")
			st.Set(store.KeyBackup, `{"version":99,"state":{"tasks":[],"lists":[]}}`)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := store.NewMemStore(0)
			tt.seed(st)

			s, source := NewRecovery(st, nil, true).LoadState()
			if source != SourceDefault {
				t.Errorf("source: got %q, want default", source)
			}
			if s.Tasks == nil || s.Lists == nil {
				t.Error("default state must have non-nil slices")
			}
			if len(s.Tasks) != 0 || len(s.Lists) != 0 {
				t.Errorf("default state not empty: %+v", s)
			}
		})
	}
}

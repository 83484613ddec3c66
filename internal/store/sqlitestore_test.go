package store

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestSQLiteStoreRoundTrip(t *testing.T) {
	st, err := NewSQLiteStore(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	defer st.Close()

	if _, ok, err := st.Get(KeyState); err != nil || ok {
		t.Fatalf("Get on empty store: ok=%v err=%v", ok, err)
	}

	if err := st.Set(KeyState, "payload"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := st.Set(KeyVersion, "3"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := st.Set(KeyState, "payload-v2"); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	v, ok, err := st.Get(KeyState)
	if err != nil || !ok || v != "payload-v2" {
		t.Fatalf("Get: %q ok=%v err=%v", v, ok, err)
	}

	keys, err := st.Keys()
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	want := []string{KeyState, KeyVersion}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("keys: got %v, want %v", keys, want)
	}

	used, quota, err := st.Usage()
	if err != nil {
		t.Fatalf("Usage failed: %v", err)
	}
	if used != int64(len("payload-v2")+len("3")) {
		t.Errorf("used: got %d", used)
	}
	if quota != DefaultQuotaBytes {
		t.Errorf("quota: got %d", quota)
	}

	if err := st.Delete(KeyVersion); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok, _ := st.Get(KeyVersion); ok {
		t.Error("key survived Delete")
	}
}

func TestSQLiteStoreQuota(t *testing.T) {
	st, err := NewSQLiteStore(t.TempDir(), 10)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	err = st.Set(KeyState, strings.Repeat("x", 11))
	var qe *QuotaExceededError
	if !errors.As(err, &qe) {
		t.Fatalf("expected QuotaExceededError, got %v", err)
	}

	if err := st.Set(KeyState, strings.Repeat("x", 10)); err != nil {
		t.Fatalf("write at quota failed: %v", err)
	}
	if err := st.Set(KeyState, "tiny"); err != nil {
		t.Fatalf("shrinking overwrite failed: %v", err)
	}
}

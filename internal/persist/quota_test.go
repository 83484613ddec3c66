package persist

import (
	"strings"
	"testing"

	"github.com/avelinec/todostash/internal/store"
)

func TestCheckUsageLevels(t *testing.T) {
	tests := []struct {
		name      string
		usedBytes int
		wantLevel Level
	}{
		{"empty", 0, LevelOK},
		{"below warning", 79, LevelOK},
		{"at warning threshold", 80, LevelWarning},
		{"between thresholds", 94, LevelWarning},
		{"at critical threshold", 95, LevelCritical},
		{"full", 100, LevelCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := store.NewMemStore(100)
			if tt.usedBytes > 0 {
				if err := st.Set("todo.filler", strings.Repeat("x", tt.usedBytes)); err != nil {
					t.Fatal(err)
				}
			}

			usage, err := NewQuotaMonitor(st, 0, 0).CheckUsage()
			if err != nil {
				t.Fatalf("CheckUsage failed: %v", err)
			}
			if usage.Level != tt.wantLevel {
				t.Errorf("level: got %q, want %q (%.1f%%)", usage.Level, tt.wantLevel, usage.PercentUsed)
			}
			if usage.UsedBytes != int64(tt.usedBytes) {
				t.Errorf("used: got %d, want %d", usage.UsedBytes, tt.usedBytes)
			}
			if usage.AvailableBytes != int64(100-tt.usedBytes) {
				t.Errorf("available: got %d", usage.AvailableBytes)
			}
		})
	}
}

func TestCheckUsageCustomThresholds(t *testing.T) {
	st := store.NewMemStore(100)
	if err := st.Set("todo.filler", strings.Repeat("x", 50)); err != nil {
		t.Fatal(err)
	}

	usage, err := NewQuotaMonitor(st, 40, 60).CheckUsage()
	if err != nil {
		t.Fatal(err)
	}
	if usage.Level != LevelWarning {
		t.Errorf("level: got %q, want warning at 50%% with a 40%% threshold", usage.Level)
	}
}

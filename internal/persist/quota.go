package persist

import "github.com/avelinec/todostash/internal/store"

// Level classifies storage usage against the warning thresholds.
type Level string

const (
	LevelOK       Level = "ok"
	LevelWarning  Level = "warning"
	LevelCritical Level = "critical"
)

// Usage is a best-effort estimate of storage consumption. Quota figures
// are estimates, not guarantees.
type Usage struct {
	UsedBytes      int64   `json:"used_bytes"`
	AvailableBytes int64   `json:"available_bytes"`
	PercentUsed    float64 `json:"percent_used"`
	Level          Level   `json:"level"`
}

// Default thresholds, as percentages of the estimated quota.
const (
	DefaultWarningPercent  = 80
	DefaultCriticalPercent = 95
)

// QuotaMonitor estimates used and available space and classifies it.
// It warns; it never blocks writes.
type QuotaMonitor struct {
	st              store.Store
	warningPercent  float64
	criticalPercent float64
}

// NewQuotaMonitor creates a monitor with the given thresholds. Zero
// thresholds fall back to the defaults.
func NewQuotaMonitor(st store.Store, warningPercent, criticalPercent float64) *QuotaMonitor {
	if warningPercent <= 0 {
		warningPercent = DefaultWarningPercent
	}
	if criticalPercent <= 0 {
		criticalPercent = DefaultCriticalPercent
	}
	return &QuotaMonitor{
		st:              st,
		warningPercent:  warningPercent,
		criticalPercent: criticalPercent,
	}
}

// CheckUsage reports estimated usage and its level.
func (m *QuotaMonitor) CheckUsage() (Usage, error) {
	used, quota, err := m.st.Usage()
	if err != nil {
		return Usage{}, err
	}

	usage := Usage{
		UsedBytes:      used,
		AvailableBytes: quota - used,
		Level:          LevelOK,
	}
	if usage.AvailableBytes < 0 {
		usage.AvailableBytes = 0
	}
	if quota > 0 {
		usage.PercentUsed = float64(used) / float64(quota) * 100
	}
	switch {
	case usage.PercentUsed >= m.criticalPercent:
		usage.Level = LevelCritical
	case usage.PercentUsed >= m.warningPercent:
		usage.Level = LevelWarning
	}
	return usage, nil
}

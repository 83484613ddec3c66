package task

import "time"

// SweepPolicy controls the opportunistic cleanup pass over completed tasks.
type SweepPolicy struct {
	// RetentionDays removes completed tasks older than this many days.
	RetentionDays int
	// ArchiveDays archives (never deletes) completed tasks older than this.
	ArchiveDays int
}

// SweepResult reports what a sweep did.
type SweepResult struct {
	Removed  int
	Archived int
}

// Sweep returns a copy of state with aged completed tasks removed or
// archived. A task completed strictly more than ArchiveDays before now is
// archived; one strictly more than RetentionDays before now is removed.
// The archive check wins when both thresholds pass, so very old tasks are
// preserved in archived form rather than dropped. Tasks completed exactly
// at a boundary are untouched (boundaries are exclusive).
func Sweep(s State, now time.Time, policy SweepPolicy) (State, SweepResult) {
	out := NewState()
	out.Lists = append(out.Lists, s.Lists...)

	var res SweepResult
	retention := time.Duration(policy.RetentionDays) * 24 * time.Hour
	archive := time.Duration(policy.ArchiveDays) * 24 * time.Hour

	for _, t := range s.Tasks {
		if !t.Done || t.DoneAt == nil || t.Archived {
			out.Tasks = append(out.Tasks, t)
			continue
		}
		age := now.Sub(*t.DoneAt)
		switch {
		case policy.ArchiveDays > 0 && age > archive:
			t.Archived = true
			res.Archived++
			out.Tasks = append(out.Tasks, t)
		case policy.RetentionDays > 0 && age > retention:
			res.Removed++
		default:
			out.Tasks = append(out.Tasks, t)
		}
	}
	return out, res
}

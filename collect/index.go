package collect

import (
	"cmp"
	"slices"
	"time"

	"hplcollect/record"
)

// Sort the entries by suite, group and run (byte-wise, stable) and stamp the index.  The input slice
// is not modified.
func BuildIndex(entries []record.IndexEntry, now time.Time) *record.Index {
	runs := slices.Clone(entries)
	if runs == nil {
		runs = make([]record.IndexEntry, 0)
	}
	slices.SortStableFunc(runs, func(a, b record.IndexEntry) int {
		if c := cmp.Compare(a.Suite, b.Suite); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Group, b.Group); c != 0 {
			return c
		}
		return cmp.Compare(a.Run, b.Run)
	})
	return &record.Index{
		GeneratedAt: record.Timestamp(now),
		Runs:        runs,
	}
}

package availability

import (
	"sort"

	"bookflow/models"
)

// Merge collapses a possibly unsorted, possibly overlapping set of busy
// intervals into a minimal sorted set. Adjacent intervals are merged too
// (a.end >= b.start), so the result is the conservative union.
func Merge(busy []models.BusyInterval) []models.BusyInterval {
	if len(busy) == 0 {
		return nil
	}

	sorted := make([]models.BusyInterval, 0, len(busy))
	for _, b := range busy {
		if b.End.After(b.Start) {
			sorted = append(sorted, b)
		}
	}
	if len(sorted) == 0 {
		return nil
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start.Before(sorted[j].Start) })

	merged := []models.BusyInterval{sorted[0]}
	for _, b := range sorted[1:] {
		last := &merged[len(merged)-1]
		if !last.End.Before(b.Start) {
			if b.End.After(last.End) {
				last.End = b.End
			}
			continue
		}
		merged = append(merged, b)
	}
	return merged
}

// overlapsAny reports whether [start, end) intersects any merged interval.
// Intervals must be sorted and non-overlapping, as produced by Merge.
func overlapsAny(merged []models.BusyInterval, slot models.TimeSlot) bool {
	// First interval ending after the slot start is the only candidate.
	i := sort.Search(len(merged), func(i int) bool {
		return merged[i].End.After(slot.Start)
	})
	return i < len(merged) && merged[i].Start.Before(slot.End)
}

package shift

import (
	"sort"
	"time"
)

// ResampleHourly collapses an unordered list of timestamps to one sample
// per hour mark. The hourly grid runs from the earliest input's hour
// floor through the latest input; each mark picks the input nearest to it
// by absolute distance, first seen wins on an exact tie, and the selected
// samples are deduplicated and returned in ascending order. Empty input
// yields an empty result.
func ResampleHourly(samples []time.Time) []time.Time {
	if len(samples) == 0 {
		return nil
	}
	sorted := make([]time.Time, len(samples))
	copy(sorted, samples)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	first := sorted[0]
	start := time.Date(first.Year(), first.Month(), first.Day(), first.Hour(), 0, 0, 0, first.Location())
	end := sorted[len(sorted)-1]

	seen := map[int64]struct{}{}
	var picked []time.Time
	for target := start; !target.After(end); target = target.Add(time.Hour) {
		nearest := sorted[0]
		bestDiff := absDuration(sorted[0].Sub(target))
		for _, s := range sorted[1:] {
			if d := absDuration(s.Sub(target)); d < bestDiff {
				nearest, bestDiff = s, d
			}
		}
		if _, dup := seen[nearest.UnixNano()]; !dup {
			seen[nearest.UnixNano()] = struct{}{}
			picked = append(picked, nearest)
		}
	}
	sort.Slice(picked, func(i, j int) bool { return picked[i].Before(picked[j]) })
	return picked
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

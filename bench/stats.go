package bench

import (
	"math"
	"sort"
	"time"
)

// ComputeStats folds the attempts of one query into a Result. ok is false
// when no attempt succeeded; such queries are left out of the report.
func ComputeStats(def QueryDef, results []QueryResult) (Result, bool) {
	stats := Result{
		Name:        def.Name,
		Description: def.Description,
		Query:       def.Query,
		Category:    def.Category,
		Suggestions: SuggestionsFor(def),
	}

	var durations []time.Duration
	var rows int
	for _, r := range results {
		if r.Err != nil {
			stats.Errors++
			continue
		}
		durations = append(durations, r.Duration)
		rows += r.Rows
	}

	if len(durations) == 0 {
		return stats, false
	}

	sorted := append([]time.Duration(nil), durations...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var sum time.Duration
	for _, d := range durations {
		sum += d
	}

	stats.Iterations = len(durations)
	stats.AvgTime = sum / time.Duration(len(durations))
	stats.MinTime = sorted[0]
	stats.MaxTime = sorted[len(sorted)-1]
	stats.StdDev = StdDev(durations)
	stats.P50 = pct(sorted, 50)
	stats.P95 = pct(sorted, 95)
	stats.RowCount = float64(rows) / float64(len(durations))

	return stats, true
}

// StdDev is the sample standard deviation, zero below two samples.
func StdDev(durations []time.Duration) time.Duration {
	n := len(durations)
	if n < 2 {
		return 0
	}

	var mean float64
	for _, d := range durations {
		mean += d.Seconds()
	}
	mean /= float64(n)

	var sq float64
	for _, d := range durations {
		diff := d.Seconds() - mean
		sq += diff * diff
	}
	return time.Duration(math.Sqrt(sq/float64(n-1)) * float64(time.Second))
}

func pct(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(math.Ceil(p/100*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

package bench

import "time"

const (
	BandSlow   = "slow"
	BandMedium = "medium"
	BandFast   = "fast"

	SlowThreshold   = time.Second
	MediumThreshold = 100 * time.Millisecond
)

// Band classifies an average latency: slow above 1s, medium above 100ms.
func Band(avg time.Duration) string {
	switch {
	case avg > SlowThreshold:
		return BandSlow
	case avg > MediumThreshold:
		return BandMedium
	default:
		return BandFast
	}
}

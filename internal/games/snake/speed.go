package snake

import "time"

// Interval maps a cumulative score to a tick interval:
// max(floor, initial - score*step). Negative scores count as zero.
func Interval(initial time.Duration, score int, step, floor time.Duration) time.Duration {
	if score < 0 {
		score = 0
	}
	reduction := time.Duration(score) * step
	// Guard against overflow for absurd scores.
	if step > 0 && reduction/step != time.Duration(score) {
		return floor
	}
	if initial-reduction < floor {
		return floor
	}
	return initial - reduction
}

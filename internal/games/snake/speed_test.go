package snake

import (
	"testing"
	"time"
)

func TestInterval(t *testing.T) {
	ms := time.Millisecond
	tests := []struct {
		name    string
		initial time.Duration
		score   int
		step    time.Duration
		floor   time.Duration
		want    time.Duration
	}{
		{"score zero", 150 * ms, 0, 3 * ms, 50 * ms, 150 * ms},
		{"linear", 150 * ms, 10, 3 * ms, 50 * ms, 120 * ms},
		{"reaches floor", 150 * ms, 1000, 3 * ms, 50 * ms, 50 * ms},
		{"zero step", 150 * ms, 40, 0, 50 * ms, 150 * ms},
		{"negative score", 150 * ms, -5, 3 * ms, 50 * ms, 150 * ms},
		{"overflow", 150 * ms, 1 << 62, time.Hour, 50 * ms, 50 * ms},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Interval(tc.initial, tc.score, tc.step, tc.floor); got != tc.want {
				t.Errorf("Interval() = %v, expected %v", got, tc.want)
			}
		})
	}
}

func TestIntervalMonotoneAndBounded(t *testing.T) {
	ms := time.Millisecond
	for _, initial := range []time.Duration{50 * ms, 100 * ms, 200 * ms} {
		for _, step := range []time.Duration{0, 1 * ms, 4 * ms, 25 * ms} {
			for _, floor := range []time.Duration{10 * ms, 50 * ms} {
				prev := Interval(initial, 0, step, floor)
				for score := 0; score <= 300; score++ {
					got := Interval(initial, score, step, floor)
					if got < floor {
						t.Fatalf("Interval(%v, %d, %v, %v) = %v below floor", initial, score, step, floor, got)
					}
					if got > prev {
						t.Fatalf("Interval increased from %v to %v at score %d", prev, got, score)
					}
					prev = got
				}
			}
		}
	}
}

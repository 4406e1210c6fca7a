package timeparse

import (
	"testing"
	"time"
)

func TestResolve(t *testing.T) {
	// Wednesday 10:00 local time.
	now := time.Date(2025, 6, 11, 10, 0, 0, 0, time.UTC)

	testCases := []struct {
		name   string
		phrase string
		want   time.Time
	}{
		{"tomorrow default time", "tomorrow", time.Date(2025, 6, 12, 9, 0, 0, 0, time.UTC)},
		{"tomorrow explicit pm", "tomorrow at 6pm", time.Date(2025, 6, 12, 18, 0, 0, 0, time.UTC)},
		{"tonight", "tonight", time.Date(2025, 6, 11, 20, 0, 0, 0, time.UTC)},
		{"today with time", "today 5pm", time.Date(2025, 6, 11, 17, 0, 0, 0, time.UTC)},
		{"24h clock", "18:30", time.Date(2025, 6, 11, 18, 30, 0, 0, time.UTC)},
		{"12am becomes midnight", "tomorrow 12am", time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC)},
		{"noon pm stays noon", "12pm", time.Date(2025, 6, 11, 12, 0, 0, 0, time.UTC)},
		{"past time rolls to next day", "6am", time.Date(2025, 6, 12, 6, 0, 0, 0, time.UTC)},
		{"no time info defaults before now rolls over", "", time.Date(2025, 6, 12, 9, 0, 0, 0, time.UTC)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Resolve(tc.phrase, now)
			if !got.Equal(tc.want) {
				t.Errorf("Resolve(%q) = %v, want %v", tc.phrase, got, tc.want)
			}
		})
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	now := time.Date(2025, 6, 11, 10, 0, 0, 0, time.UTC)
	first := Resolve("tomorrow at 6pm", now)
	second := Resolve("tomorrow at 6pm", now)
	if !first.Equal(second) {
		t.Errorf("same phrase at same now resolved differently: %v vs %v", first, second)
	}
}

package feed

import (
	"testing"
	"time"
)

func TestRelativeAge(t *testing.T) {
	now := time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		elapsed time.Duration
		want    string
	}{
		{name: "zero elapsed", elapsed: 0, want: "just now"},
		{name: "last second below a minute", elapsed: 59 * time.Second, want: "just now"},
		{name: "exactly one minute", elapsed: 60 * time.Second, want: "1m ago"},
		{name: "minutes are floored", elapsed: 90 * time.Second, want: "1m ago"},
		{name: "last second below an hour", elapsed: 3599 * time.Second, want: "59m ago"},
		{name: "exactly one hour", elapsed: 3600 * time.Second, want: "1h ago"},
		{name: "last second below a day", elapsed: 86399 * time.Second, want: "23h ago"},
		{name: "exactly one day", elapsed: 86400 * time.Second, want: "1d ago"},
		{name: "last second below a week", elapsed: 604799 * time.Second, want: "6d ago"},
		{name: "exactly one week falls back to the date", elapsed: 604800 * time.Second, want: "Mar 8, 2025"},
		{name: "old post renders its creation date", elapsed: 30 * 24 * time.Hour, want: "Feb 13, 2025"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			post := Post{CreatedAt: now.Add(-tt.elapsed)}

			if got := RelativeAge(post, now); got != tt.want {
				t.Errorf("RelativeAge(elapsed=%s) = %q, want %q", tt.elapsed, got, tt.want)
			}
		})
	}
}

func TestRelativeAgeSubSecondTruncation(t *testing.T) {
	now := time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)

	// 59.9 elapsed seconds still floors to 59 and stays in the first bucket.
	post := Post{CreatedAt: now.Add(-59*time.Second - 900*time.Millisecond)}

	if got := RelativeAge(post, now); got != "just now" {
		t.Errorf("RelativeAge(59.9s) = %q, want %q", got, "just now")
	}
}

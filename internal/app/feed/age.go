/*
Package feed contains the core logic for assembling the live post feed.

This file defines the relative age formatting used next to each post.
*/
package feed

import (
	"fmt"
	"time"
)

const (
	secondsPerMinute = 60
	secondsPerHour   = 3600
	secondsPerDay    = 86400
	secondsPerWeek   = 604800
)

// absoluteDateLayout formats ages of a week or more as a calendar date.
const absoluteDateLayout = "Jan 2, 2006"

// RelativeAge buckets the elapsed time since the post was created into a short
// human-readable label. Buckets use integer floor division and are inclusive of
// their lower bound: exactly 60 elapsed seconds reads "1m ago", not "just now".
// Ages of a week or more render as an absolute calendar date.
func RelativeAge(post Post, now time.Time) string {
	seconds := int64(now.Sub(post.CreatedAt) / time.Second)

	switch {
	case seconds < secondsPerMinute:
		return "just now"
	case seconds < secondsPerHour:
		return fmt.Sprintf("%dm ago", seconds/secondsPerMinute)
	case seconds < secondsPerDay:
		return fmt.Sprintf("%dh ago", seconds/secondsPerHour)
	case seconds < secondsPerWeek:
		return fmt.Sprintf("%dd ago", seconds/secondsPerDay)
	default:
		return post.CreatedAt.Format(absoluteDateLayout)
	}
}

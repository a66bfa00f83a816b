package utils

import (
	"fmt"
	"time"
)

const (
	minute = 60
	hour   = 3600
	day    = 86400
	month  = 2592000
	year   = 31536000
)

// TimeAgo renders the elapsed time between t and now as a short label:
// "Just Now", "5m", "3h", "2d", "4mo" or "1y".
func TimeAgo(now, t time.Time) string {
	seconds := int64(now.Sub(t).Seconds())

	switch {
	case seconds < minute:
		return "Just Now"
	case seconds < hour:
		return fmt.Sprintf("%dm", seconds/minute)
	case seconds < day:
		return fmt.Sprintf("%dh", seconds/hour)
	case seconds < month:
		return fmt.Sprintf("%dd", seconds/day)
	case seconds < year:
		return fmt.Sprintf("%dmo", seconds/month)
	default:
		return fmt.Sprintf("%dy", seconds/year)
	}
}

func TimeAgoString(t time.Time) string {
	return TimeAgo(time.Now(), t)
}

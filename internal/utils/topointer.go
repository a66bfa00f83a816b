package utils

import "time"

func TimeToPointer(t time.Time) *time.Time {
	return &t
}

package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeAgo(t *testing.T) {
	now := time.Date(2024, 11, 21, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		ago  time.Duration
		want string
	}{
		{"future", -time.Minute, "Just Now"},
		{"seconds", 59 * time.Second, "Just Now"},
		{"minutes", 5 * time.Minute, "5m"},
		{"hours", 3*time.Hour + 59*time.Minute, "3h"},
		{"days", 48 * time.Hour, "2d"},
		{"months", 65 * 24 * time.Hour, "2mo"},
		{"years", 800 * 24 * time.Hour, "2y"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TimeAgo(now, now.Add(-tt.ago)))
		})
	}
}

func TestCompositeKey(t *testing.T) {
	assert.Equal(t, CompositeKey("u1", "d1", "deal"), CompositeKey("u1", "d1", "deal"))
	assert.NotEqual(t, CompositeKey("u1", "d1", "deal"), CompositeKey("u1", "d1", "comment"))
	assert.NotEqual(t, CompositeKey("u1_d1", "deal"), CompositeKey("u1", "d1_deal"))
	assert.NotEqual(t, CompositeKey("a/b", "c"), CompositeKey("a", "b/c"))
	assert.NotEqual(t, CompositeKey("u1/d1", "deal"), CompositeKey("u1", "d1", "deal"))
	assert.NotEqual(t, CompositeKey("1:a", ""), CompositeKey("", "1:a"))
	assert.Len(t, CompositeKey("a"), 64)
}

package rabbitmq

import (
	"testing"
	"time"
)

func TestDelayMillis(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name      string
		expiresAt time.Time
		want      int64
	}{
		{name: "future", expiresAt: now.Add(24 * time.Hour), want: 86400000},
		{name: "now", expiresAt: now, want: 0},
		{name: "past clamps to zero", expiresAt: now.Add(-time.Minute), want: 0},
	}
	for _, tt := range tests {
		if got := delayMillis(tt.expiresAt, now); got != tt.want {
			t.Errorf("%s: delayMillis() = %d, want %d", tt.name, got, tt.want)
		}
	}
}

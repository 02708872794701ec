package uiutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFriendlyRelativeTime(t *testing.T) {
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{-time.Hour, "just now"},
		{30 * time.Second, "just now"},
		{time.Minute, "1 minute ago"},
		{45 * time.Minute, "45 minutes ago"},
		{time.Hour, "1 hour ago"},
		{5 * time.Hour, "5 hours ago"},
		{3 * 24 * time.Hour, "3 days ago"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FriendlyRelativeTime(now.Add(-tt.ago), now), "ago=%s", tt.ago)
	}

	old := now.Add(-30 * 24 * time.Hour)
	assert.Equal(t, FormatFriendlyDateTime(old), FriendlyRelativeTime(old, now))
}

func TestFormatFriendlyDateTime(t *testing.T) {
	assert.Empty(t, FormatFriendlyDateTime(time.Time{}))
	ts := time.Date(2026, 3, 4, 15, 5, 0, 0, time.Local)
	assert.Equal(t, "Mar 4, 2026 3:05 PM", FormatFriendlyDateTime(ts))
}

func TestFormatAPIDate(t *testing.T) {
	cases := map[string]string{
		"":                            "-",
		"  ":                          "-",
		"2026-01-15":                  "Jan 15, 2026",
		"2026-01-15 08:30:00":         "Jan 15, 2026",
		"2026-01-15T08:30:00Z":        "Jan 15, 2026",
		"2026-01-15T08:30:00.000000Z": "Jan 15, 2026",
		" soon ":                      "soon",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatAPIDate(in), "FormatAPIDate(%q)", in)
	}
}

func TestTruncateWithEllipsis(t *testing.T) {
	assert.Equal(t, "hello", TruncateWithEllipsis("hello", 10))
	assert.Equal(t, "hello", TruncateWithEllipsis("hello", 0))
	assert.Equal(t, "…", TruncateWithEllipsis("hello", 1))
	assert.Equal(t, "hel…", TruncateWithEllipsis("hello", 4))
	assert.Equal(t, "héé…", TruncateWithEllipsis("hééllo", 4))
}

package render

import (
	"testing"
	"time"
)

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		elapsed int64
		want    string
	}{
		{0, "0s"},
		{1, "1s"},
		{59, "59s"},
		{60, "1m"},
		{119, "1m"},
		{3599, "59m"},
		{3600, "1h"},
		{7199, "1h"},
		{86399, "23h"},
		{86400, "1d"},
		{172799, "1d"},
		{10 * 86400, "10d"},
		{-5, "0s"},
	}

	for _, tt := range tests {
		if got := FormatSeconds(tt.elapsed); got != tt.want {
			t.Errorf("FormatSeconds(%d) = %q, want %q", tt.elapsed, got, tt.want)
		}
	}
}

func TestFormatSecondsNeverZeroAboveSeconds(t *testing.T) {
	for e := int64(60); e < 3*86400; e += 37 {
		got := FormatSeconds(e)
		if got[0] == '0' {
			t.Fatalf("FormatSeconds(%d) = %q renders a zero unit", e, got)
		}
	}
}

func TestFormatElapsedTruncates(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	if got := FormatElapsed(now.Add(-1999*time.Millisecond), now); got != "1s" {
		t.Errorf("got %q, want 1s", got)
	}
	if got := FormatElapsed(now.Add(-90*time.Minute), now); got != "1h" {
		t.Errorf("got %q, want 1h", got)
	}
}

package fsntfs

import (
	"testing"
	"time"
)

func TestFiletimeToTime(t *testing.T) {
	cases := []struct {
		ft   uint64
		want time.Time
	}{
		{0, time.Time{}},
		{116444736000000000, time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)},
		{125911584000000000, time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, c := range cases {
		got := FiletimeToTime(c.ft)
		if !got.Equal(c.want) {
			t.Fatalf("FiletimeToTime(%d) = %v, want %v", c.ft, got, c.want)
		}
	}
}

func TestFiletimeRoundTrip(t *testing.T) {
	times := []time.Time{
		time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2003, 6, 15, 12, 30, 45, 100, time.UTC),
	}
	for _, want := range times {
		got := FiletimeToTime(TimeToFiletime(want))
		// FILETIME resolution is 100ns; sub-tick nanoseconds truncate.
		if got.Sub(want) >= 100 || want.Sub(got) >= 100 {
			t.Fatalf("round trip %v -> %v", want, got)
		}
	}
}

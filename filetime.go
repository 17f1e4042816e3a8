package fsntfs

import "time"

// filetimeEpochDiff is the count of 100ns intervals between the FILETIME
// epoch (1601-01-01) and the Unix epoch (1970-01-01).
const filetimeEpochDiff = 116444736000000000

// FiletimeToTime converts a Windows FILETIME value, as the native getters
// report timestamps, to a UTC time.Time. Zero maps to the zero time.
func FiletimeToTime(ft uint64) time.Time {
	if ft == 0 {
		return time.Time{}
	}
	return time.Unix(0, (int64(ft)-filetimeEpochDiff)*100).UTC()
}

// TimeToFiletime converts a time.Time to a FILETIME value. The zero time
// maps to zero. Built from Unix seconds rather than UnixNano, which would
// overflow for dates near the FILETIME epoch.
func TimeToFiletime(t time.Time) uint64 {
	if t.IsZero() {
		return 0
	}
	return uint64(t.Unix()*10_000_000 + int64(t.Nanosecond())/100 + filetimeEpochDiff)
}

package util

import (
	"strconv"
	"time"
)

const dateLayout = "2006-01-02"

// ParseTime tries RFC3339, a bare date, and unix seconds. Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, true
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
		return time.Unix(ts, 0), true
	}
	return time.Time{}, false
}

// ParseTimeDefault parses time or returns default if empty/invalid.
func ParseTimeDefault(s string, def time.Time) time.Time {
	if t, ok := ParseTime(s); ok {
		return t
	}
	return def
}

// FormatDate renders t as a bare UTC date.
func FormatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

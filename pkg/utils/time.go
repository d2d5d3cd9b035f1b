package utils

import "time"

// NowRFC3339 returns the current time in RFC3339 format
func NowRFC3339() string {
	return time.Now().Format(time.RFC3339)
}

// ParseRFC3339 parses a time string in RFC3339 format
func ParseRFC3339(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// DayKey returns the YYYY-MM-DD bucket for a timestamp, in UTC
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

package utils

import (
	"strings"
	"time"
)

const (
	LayoutDate     = "2006-01-02"
	LayoutClock    = "15:04"
	layoutDateTime = "2006-01-02 15:04:05"
)

// NowUTC returns current time in UTC, truncated to seconds to match DATETIME.
func NowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// ParseDate parses YYYY-MM-DD in local timezone.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(LayoutDate, strings.TrimSpace(s), time.Local)
}

// ParseClock parses HH:MM.
func ParseClock(s string) (time.Time, error) {
	return time.Parse(LayoutClock, strings.TrimSpace(s))
}

// IsDate / IsClock validate the schedule date and time strings.
func IsDate(s string) bool {
	_, err := ParseDate(s)
	return err == nil
}

func IsClock(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) != 5 {
		return false
	}
	_, err := ParseClock(s)
	return err == nil
}

// CombineDateClock builds the local departure instant of a schedule.
func CombineDateClock(date, clock string) (time.Time, error) {
	return time.ParseInLocation(LayoutDate+" "+LayoutClock, strings.TrimSpace(date)+" "+strings.TrimSpace(clock), time.Local)
}

// ParseFlexibleTime accepts RFC3339, "YYYY-MM-DD HH:MM[:SS]" or YYYY-MM-DD.
func ParseFlexibleTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range []string{layoutDateTime, "2006-01-02T15:04", "2006-01-02 15:04"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return ParseDate(s)
}

// FormatDate formats time to YYYY-MM-DD in local timezone.
func FormatDate(t time.Time) string {
	return t.In(time.Local).Format(LayoutDate)
}

// FormatDateTime formats time to "YYYY-MM-DD HH:MM:SS" in local timezone.
func FormatDateTime(t time.Time) string {
	return t.In(time.Local).Format(layoutDateTime)
}

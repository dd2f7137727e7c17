package utils

import (
	"fmt"
	"strings"
	"time"
)

const (
	layoutDate = "2006-01-02"
	layoutTime = "15:04"
)

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// CombineDateTime joins a YYYY-MM-DD date and an HH:MM clock into one UTC
// instant, the format schedule forms submit start/end fields in.
func CombineDateTime(date, clock string) (time.Time, error) {
	d := strings.TrimSpace(date)
	c := strings.TrimSpace(clock)
	if d == "" || c == "" {
		return time.Time{}, fmt.Errorf("date and time are both required")
	}
	return time.Parse(layoutDate+"T"+layoutTime, d+"T"+c)
}

// FormatDateTime formats time to "YYYY-MM-DD HH:MM" in local timezone.
func FormatDateTime(t time.Time) string {
	return t.In(time.Local).Format(layoutDate + " " + layoutTime)
}

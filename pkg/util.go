package pkg

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD calendar date as UTC midnight.
func ParseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD: %w", s, err)
	}
	return d, nil
}

// ParseDateRange parses both ends of an inclusive date range.
func ParseDateRange(from, to string) (time.Time, time.Time, error) {
	fromDate, err := ParseDate(from)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	toDate, err := ParseDate(to)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return fromDate, toDate, nil
}

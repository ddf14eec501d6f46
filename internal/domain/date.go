package domain

import (
	"fmt"
	"time"
)

// dateLayout is the wire format for calendar dates ("YYYY-MM-DD").
const dateLayout = "2006-01-02"

// Date is a calendar date with no time component, stored in ISO form.
// ISO dates compare correctly as strings, so Date values can be sorted
// and used as map keys directly.
type Date string

// DateOf returns the Date of t in t's own location.
func DateOf(t time.Time) Date {
	return Date(t.Format(dateLayout))
}

// ParseDate parses "YYYY-MM-DD".
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return "", fmt.Errorf("parse date %q: %w", s, err)
	}
	return DateOf(t), nil
}

func (d Date) String() string { return string(d) }

func (d Date) IsValid() bool {
	_, err := time.Parse(dateLayout, string(d))
	return err == nil
}

// Time returns midnight of the date in the given location.
func (d Date) Time(loc *time.Location) time.Time {
	t, err := time.ParseInLocation(dateLayout, string(d), loc)
	if err != nil {
		return time.Time{}
	}
	return t
}

// AddDays returns the date n days later (negative n goes back).
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time(time.UTC).AddDate(0, 0, n))
}

// Before reports whether d is earlier than other.
func (d Date) Before(other Date) bool { return d < other }

// DaysUntil returns the number of whole days from d to other.
func (d Date) DaysUntil(other Date) int {
	return int(other.Time(time.UTC).Sub(d.Time(time.UTC)) / (24 * time.Hour))
}

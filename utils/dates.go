// utils/dates.go
package utils

import (
	"errors"
	"strings"
	"time"

	"github.com/jinzhu/now"
)

const DateLayout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")

func BeginningOfDay(t time.Time) time.Time {
	return now.With(t).BeginningOfDay()
}

// DateOnly returns the calendar date of t as midnight UTC, the form stored in date columns.
func DateOnly(t time.Time) time.Time {
	d := BeginningOfDay(t)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

// Today is the current calendar date in loc.
func Today(clock time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return DateOnly(clock.In(loc))
}

// ParseDate accepts YYYY-MM-DD or an RFC 3339 timestamp and keeps only the date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidDate
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return DateOnly(t), nil
	}
	return time.Time{}, ErrInvalidDate
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DaysBetween counts calendar days from start to end.
func DaysBetween(start, end time.Time) int {
	return int(DateOnly(end).Sub(DateOnly(start)).Hours() / 24)
}

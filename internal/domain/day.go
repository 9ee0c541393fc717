package domain

import (
	"fmt"
	"strings"
	"time"
)

// DayLayout is the storage and wire layout for a calendar day.
const DayLayout = "2006-01-02"

// Day is a calendar date rendered as YYYY-MM-DD. Lexical order equals
// chronological order, so stored values can be compared as strings.
type Day string

// DayOf returns the calendar day of t in loc. A nil loc means UTC.
func DayOf(t time.Time, loc *time.Location) Day {
	if loc == nil {
		loc = time.UTC
	}
	return Day(t.In(loc).Format(DayLayout))
}

// ParseDay normalizes a schedule value to a calendar day.
//
// Accepted inputs are a bare date (2024-05-01) or an RFC 3339 timestamp
// (2024-05-01T22:30:00Z). Timestamps are converted into loc before the date is
// taken, so the same instant always lands on the same day for a deployment.
func ParseDay(s string, loc *time.Location) (Day, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", NewValidationError("addedToMyDayAt", "cannot be empty", ErrInvalidFormat)
	}

	if d, err := time.Parse(DayLayout, s); err == nil {
		return Day(d.Format(DayLayout)), nil
	}

	ts, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return "", NewValidationError(
			"addedToMyDayAt",
			fmt.Sprintf("must be a date (%s) or RFC 3339 timestamp", DayLayout),
			ErrInvalidFormat,
		)
	}
	return DayOf(ts, loc), nil
}

// Valid reports whether d is a well-formed calendar day.
func (d Day) Valid() bool {
	_, err := time.Parse(DayLayout, string(d))
	return err == nil
}

// String implements fmt.Stringer.
func (d Day) String() string {
	return string(d)
}

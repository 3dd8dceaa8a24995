package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format of every date the scheduler stores
const DateLayout = "2006-01-02"

// LocalDate is a calendar date without time of day or zone.
// The zero value means "no date".
type LocalDate struct {
	t time.Time
}

// NewLocalDate builds a date from its components; out-of-range values are normalized
// the way time.Date does it (March 32 is April 1).
func NewLocalDate(year int, month time.Month, day int) LocalDate {
	return LocalDate{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar date of t in t's own location
func DateOf(t time.Time) LocalDate {
	y, m, d := t.Date()
	return NewLocalDate(y, m, d)
}

// ParseLocalDate accepts YYYY-MM-DD and, for older records, full RFC 3339 timestamps.
// Timestamps keep the date as written, without converting zones.
func ParseLocalDate(s string) (LocalDate, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return LocalDate{}, nil
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return DateOf(t), nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return DateOf(t), nil
	}
	if len(s) > len(DateLayout) && (s[len(DateLayout)] == 'T' || s[len(DateLayout)] == ' ') {
		if t, err := time.Parse(DateLayout, s[:len(DateLayout)]); err == nil {
			return DateOf(t), nil
		}
	}
	return LocalDate{}, fmt.Errorf("invalid date %q", s)
}

// IsZero reports whether d is the zero date
func (d LocalDate) IsZero() bool {
	return d.t.IsZero()
}

func (d LocalDate) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(DateLayout)
}

// AddDays moves d by n calendar days
func (d LocalDate) AddDays(n int) LocalDate {
	y, m, day := d.t.Date()
	return NewLocalDate(y, m, day+n)
}

// Before reports whether d is strictly earlier than o
func (d LocalDate) Before(o LocalDate) bool {
	return d.t.Before(o.t)
}

// After reports whether d is strictly later than o
func (d LocalDate) After(o LocalDate) bool {
	return d.t.After(o.t)
}

// Equal reports whether d and o are the same day
func (d LocalDate) Equal(o LocalDate) bool {
	return d.t.Equal(o.t)
}

// Compare returns -1, 0 or +1. The zero date sorts before every real date.
func (d LocalDate) Compare(o LocalDate) int {
	switch {
	case d.Before(o):
		return -1
	case d.After(o):
		return 1
	}
	return 0
}

func (d LocalDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *LocalDate) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = LocalDate{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	parsed, err := ParseLocalDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

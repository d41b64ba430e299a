// Package chrono defines the instant representation and the calendar
// abstraction used by the formatting engine. The engine never does
// calendar arithmetic itself; it asks a Chronology to move between
// instants and broken-out field values.
package chrono

import (
	"fmt"
	"time"
)

// Instant is a point on the timeline, counted in nanoseconds since the
// Unix epoch. It carries no calendar or zone semantics of its own.
type Instant int64

// At converts a time.Time to an Instant.
func At(t time.Time) Instant {
	return Instant(t.UnixNano())
}

// Time returns the instant as a time.Time in UTC.
func (i Instant) Time() time.Time {
	return time.Unix(0, int64(i)).UTC()
}

// Before reports whether i is earlier than other.
func (i Instant) Before(other Instant) bool { return i < other }

// After reports whether i is later than other.
func (i Instant) After(other Instant) bool { return i > other }

// String renders the instant in RFC 3339 form, for diagnostics only.
func (i Instant) String() string {
	return i.Time().Format(time.RFC3339Nano)
}

// Fields is the broken-out calendar view of an instant in some zone.
// Weekday is derived output only; InstantOf ignores it.
type Fields struct {
	Year    int
	Month   int
	Day     int
	Hour    int
	Minute  int
	Second  int
	Nano    int
	Weekday time.Weekday
}

// Chronology answers the two calendar questions the engine needs:
// what fields does an instant have in a zone, and which instant do a
// set of fields in a zone denote. Implementations must be stateless
// and safe for concurrent use.
type Chronology interface {
	FieldsOf(i Instant, loc *time.Location) Fields
	InstantOf(f Fields, loc *time.Location) (Instant, error)
}

// ISO is the proleptic Gregorian chronology backed by package time.
var ISO Chronology = isoChronology{}

type isoChronology struct{}

func (isoChronology) FieldsOf(i Instant, loc *time.Location) Fields {
	t := time.Unix(0, int64(i)).In(loc)
	year, month, day := t.Date()
	hour, min, sec := t.Clock()
	return Fields{
		Year:    year,
		Month:   int(month),
		Day:     day,
		Hour:    hour,
		Minute:  min,
		Second:  sec,
		Nano:    t.Nanosecond(),
		Weekday: t.Weekday(),
	}
}

// minYear/maxYear bound the years whose nanosecond count fits in an
// int64. Outside this range the Instant representation overflows.
const (
	minYear = 1678
	maxYear = 2261
)

func (isoChronology) InstantOf(f Fields, loc *time.Location) (Instant, error) {
	if f.Year < minYear || f.Year > maxYear {
		return 0, &InvalidFieldsError{Field: "year", Value: f.Year,
			Msg: fmt.Sprintf("must be in %d..%d", minYear, maxYear)}
	}
	if f.Month < 1 || f.Month > 12 {
		return 0, &InvalidFieldsError{Field: "month", Value: f.Month, Msg: "must be in 1..12"}
	}
	if max := daysIn(f.Year, f.Month); f.Day < 1 || f.Day > max {
		return 0, &InvalidFieldsError{Field: "day", Value: f.Day,
			Msg: fmt.Sprintf("must be in 1..%d for %04d-%02d", max, f.Year, f.Month)}
	}
	if f.Hour < 0 || f.Hour > 23 {
		return 0, &InvalidFieldsError{Field: "hour", Value: f.Hour, Msg: "must be in 0..23"}
	}
	if f.Minute < 0 || f.Minute > 59 {
		return 0, &InvalidFieldsError{Field: "minute", Value: f.Minute, Msg: "must be in 0..59"}
	}
	if f.Second < 0 || f.Second > 59 {
		return 0, &InvalidFieldsError{Field: "second", Value: f.Second, Msg: "must be in 0..59"}
	}
	if f.Nano < 0 || f.Nano > 999999999 {
		return 0, &InvalidFieldsError{Field: "nano", Value: f.Nano, Msg: "must be in 0..999999999"}
	}
	t := time.Date(f.Year, time.Month(f.Month), f.Day, f.Hour, f.Minute, f.Second, f.Nano, loc)
	return Instant(t.UnixNano()), nil
}

func daysIn(year, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	default:
		if isLeap(year) {
			return 29
		}
		return 28
	}
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// InvalidFieldsError reports a field combination that denotes no valid
// calendar instant.
type InvalidFieldsError struct {
	Field string
	Value int
	Msg   string
}

func (e *InvalidFieldsError) Error() string {
	return fmt.Sprintf("chrono: invalid %s %d: %s", e.Field, e.Value, e.Msg)
}

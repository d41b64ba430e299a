package format

import (
	"strings"
	"time"

	"github.com/chronofmt/chronofmt/pkg/chrono"
	"github.com/chronofmt/chronofmt/pkg/pattern"
)

// Parse recovers the instant a text denotes under the formatter's
// plans. Plans are tried in order; the first full match wins. Input
// left over after a plan completes is a *TrailingInputError, and field
// combinations the chronology rejects surface as
// *chrono.InvalidFieldsError.
func (f *Formatter) Parse(text string) (chrono.Instant, error) {
	var firstErr error
	for _, plan := range f.plans {
		i, _, err := f.parsePlan(plan, text, false)
		if err == nil {
			return i, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return 0, firstErr
}

// ParsePrefix parses a leading portion of text and returns the number
// of bytes consumed. Trailing input is not an error. When several
// plans match, the longest consumed prefix wins.
func (f *Formatter) ParsePrefix(text string) (chrono.Instant, int, error) {
	var (
		best    chrono.Instant
		bestLen = -1
	)
	var firstErr error
	for _, plan := range f.plans {
		i, n, err := f.parsePlan(plan, text, true)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if n > bestLen {
			best, bestLen = i, n
		}
	}
	if bestLen < 0 {
		return 0, 0, firstErr
	}
	return best, bestLen, nil
}

// field presence flags
const (
	haveYear = 1 << iota
	haveMonth
	haveDay
	haveHour
	haveClockHour
	haveMinute
	haveSecond
	haveNano
	haveMeridiem
	haveOffset
)

// collected accumulates field values while a plan executes.
type collected struct {
	have      uint16
	year      int
	shortYear bool
	month     int
	day       int
	hour      int
	clockHour int
	minute    int
	second    int
	nano      int
	pm        bool
	offset    int
}

func (f *Formatter) parsePlan(plan pattern.Plan, text string, prefix bool) (chrono.Instant, int, error) {
	var c collected
	prog := plan.Instructions()
	pos := 0

	for k, in := range prog {
		switch {
		case in.Field == pattern.FieldLiteral:
			if !strings.HasPrefix(text[pos:], in.Literal) {
				return 0, 0, &ParseError{Text: text, Pos: pos, Expected: quoted(in.Literal)}
			}
			pos += len(in.Literal)

		case in.ConsumesDigits():
			// Greedy digit run, clamped to the declared width when the
			// next instruction also reads digits (e.g. yyyyMMdd).
			max := in.MaxDigits()
			if k+1 < len(prog) && prog[k+1].ConsumesDigits() && in.Count < max {
				max = in.Count
			}
			v, n := readDigits(text[pos:], max)
			if n == 0 {
				return 0, 0, &ParseError{Text: text, Pos: pos, Expected: in.Field.String() + " digits"}
			}
			pos += n
			c.set(in, v, n)

		case in.Field == pattern.FieldMonth:
			m, n := f.names.LookupMonth(text[pos:])
			if n == 0 {
				return 0, 0, &ParseError{Text: text, Pos: pos, Expected: "month name"}
			}
			c.month = m
			c.have |= haveMonth
			pos += n

		case in.Field == pattern.FieldWeekday:
			// Matched for position only; the weekday never participates
			// in instant resolution.
			_, n := f.names.LookupWeekday(text[pos:])
			if n == 0 {
				return 0, 0, &ParseError{Text: text, Pos: pos, Expected: "weekday name"}
			}
			pos += n

		case in.Field == pattern.FieldMeridiem:
			pm, n := f.names.LookupMeridiem(text[pos:])
			if n == 0 {
				return 0, 0, &ParseError{Text: text, Pos: pos, Expected: "meridiem marker"}
			}
			c.pm = pm
			c.have |= haveMeridiem
			pos += n

		case in.Field == pattern.FieldZoneOffset:
			off, n := readOffset(text[pos:])
			if n == 0 {
				return 0, 0, &ParseError{Text: text, Pos: pos, Expected: "zone offset"}
			}
			c.offset = off
			c.have |= haveOffset
			pos += n
		}
	}

	if !prefix && pos != len(text) {
		return 0, 0, &TrailingInputError{ParseError{Text: text, Pos: pos, Expected: "end of input"}}
	}

	i, err := f.resolve(&c)
	if err != nil {
		return 0, 0, err
	}
	return i, pos, nil
}

func (c *collected) set(in pattern.Instruction, v, digits int) {
	switch in.Field {
	case pattern.FieldYear:
		c.year = v
		c.shortYear = in.Count == 2
		c.have |= haveYear
	case pattern.FieldMonth:
		c.month = v
		c.have |= haveMonth
	case pattern.FieldDay:
		c.day = v
		c.have |= haveDay
	case pattern.FieldHour:
		c.hour = v
		c.have |= haveHour
	case pattern.FieldClockHour:
		c.clockHour = v
		c.have |= haveClockHour
	case pattern.FieldMinute:
		c.minute = v
		c.have |= haveMinute
	case pattern.FieldSecond:
		c.second = v
		c.have |= haveSecond
	case pattern.FieldFraction:
		for i := digits; i < 9; i++ {
			v *= 10
		}
		c.nano = v
		c.have |= haveNano
	}
}

// resolve turns collected fields into an instant. Missing date fields
// default to the epoch date, missing time fields to midnight.
func (f *Formatter) resolve(c *collected) (chrono.Instant, error) {
	fields := chrono.Fields{Year: 1970, Month: 1, Day: 1}

	if c.have&haveYear != 0 {
		fields.Year = c.year
		if c.shortYear {
			fields.Year = f.resolvePivot(c.year)
		}
	}
	if c.have&haveMonth != 0 {
		fields.Month = c.month
	}
	if c.have&haveDay != 0 {
		fields.Day = c.day
	}
	if c.have&haveHour != 0 {
		fields.Hour = c.hour
	}
	if c.have&haveClockHour != 0 {
		if c.clockHour < 1 || c.clockHour > 12 {
			return 0, &chrono.InvalidFieldsError{Field: "clock-hour", Value: c.clockHour, Msg: "must be in 1..12"}
		}
		fields.Hour = c.clockHour % 12
		if c.have&haveMeridiem != 0 && c.pm {
			fields.Hour += 12
		}
	}
	if c.have&haveMinute != 0 {
		fields.Minute = c.minute
	}
	if c.have&haveSecond != 0 {
		fields.Second = c.second
	}
	if c.have&haveNano != 0 {
		fields.Nano = c.nano
	}

	loc := f.zone
	if c.have&haveOffset != 0 {
		if c.offset == 0 {
			loc = time.UTC
		} else {
			loc = time.FixedZone("", c.offset)
		}
	}
	return f.chron.InstantOf(fields, loc)
}

// resolvePivot maps a two-digit year into the 100-year window ending
// at the pivot year: with pivot 2050, 49 is 2049, 50 is 2050 and 51 is
// 1951. A zero pivot means the current year.
func (f *Formatter) resolvePivot(yy int) int {
	pivot := f.pivot
	if pivot == 0 {
		pivot = time.Now().Year()
	}
	base := pivot - 99
	return base + mod(yy-base, 100)
}

func mod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}

// readDigits parses up to max leading decimal digits of s.
func readDigits(s string, max int) (v, n int) {
	for n < len(s) && n < max && s[n] >= '0' && s[n] <= '9' {
		v = v*10 + int(s[n]-'0')
		n++
	}
	return v, n
}

// readOffset parses a zone offset: Z, +HH:MM, -HH:MM, +HHMM or -HHMM.
// It returns the offset in seconds and the bytes consumed, 0 on
// mismatch.
func readOffset(s string) (offset, n int) {
	if len(s) == 0 {
		return 0, 0
	}
	if s[0] == 'Z' || s[0] == 'z' {
		return 0, 1
	}
	if s[0] != '+' && s[0] != '-' {
		return 0, 0
	}
	h, hn := readDigits(s[1:], 2)
	if hn != 2 {
		return 0, 0
	}
	rest := s[1+hn:]
	sep := 0
	if len(rest) > 0 && rest[0] == ':' {
		sep = 1
		rest = rest[1:]
	}
	m, mn := readDigits(rest, 2)
	if mn != 2 {
		return 0, 0
	}
	offset = h*3600 + m*60
	if s[0] == '-' {
		offset = -offset
	}
	return offset, 1 + hn + sep + mn
}

func quoted(s string) string {
	return "literal " + `"` + s + `"`
}

// Package pattern compiles layout pattern strings into executable
// plans. A plan is an ordered list of instructions, each either a
// literal text run or a field directive; the printing and parsing
// engines in pkg/format execute the same plan in opposite directions.
//
// Directive letters follow the common year/month/day convention:
//
//	y  year            yy = two-digit pivot year, yyyy = zero-padded
//	M  month           M/MM numeric, MMM abbreviated, MMMM full name
//	d  day of month
//	E  weekday name    E..EEE abbreviated, EEEE full
//	H  hour (0-23)
//	h  clock hour (1-12)
//	m  minute
//	s  second
//	S  fraction        repeat count = digit count
//	a  meridiem marker (AM/PM)
//	Z  zone offset     Z for UTC, otherwise +HH:MM
//
// A single quote opens a literal run ended by the matching quote; two
// adjacent quotes emit one literal quote character. Any other
// non-letter character is literal text. Unknown letters fail
// compilation.
package pattern

import "fmt"

// Field identifies the semantic field a directive renders or parses.
type Field uint8

const (
	FieldLiteral Field = iota
	FieldYear
	FieldMonth
	FieldDay
	FieldWeekday
	FieldHour
	FieldClockHour
	FieldMinute
	FieldSecond
	FieldFraction
	FieldMeridiem
	FieldZoneOffset
)

// String returns the field name.
func (f Field) String() string {
	switch f {
	case FieldLiteral:
		return "literal"
	case FieldYear:
		return "year"
	case FieldMonth:
		return "month"
	case FieldDay:
		return "day"
	case FieldWeekday:
		return "weekday"
	case FieldHour:
		return "hour"
	case FieldClockHour:
		return "clock-hour"
	case FieldMinute:
		return "minute"
	case FieldSecond:
		return "second"
	case FieldFraction:
		return "fraction"
	case FieldMeridiem:
		return "meridiem"
	case FieldZoneOffset:
		return "zone-offset"
	default:
		return "unknown"
	}
}

// directives maps pattern letters to fields. Letters absent here are
// compile-time errors outside a quoted run.
var directives = map[byte]Field{
	'y': FieldYear,
	'M': FieldMonth,
	'd': FieldDay,
	'E': FieldWeekday,
	'H': FieldHour,
	'h': FieldClockHour,
	'm': FieldMinute,
	's': FieldSecond,
	'S': FieldFraction,
	'a': FieldMeridiem,
	'Z': FieldZoneOffset,
}

// Instruction is one step of a compiled plan. For FieldLiteral only
// Literal is meaningful; for directives, Count is the letter repeat
// count that selects width and rendering mode.
type Instruction struct {
	Field   Field
	Count   int
	Literal string
}

// ConsumesDigits reports whether the instruction reads decimal digits
// from the input when parsing. Month directives switch to name mode at
// three or more repeats.
func (in Instruction) ConsumesDigits() bool {
	switch in.Field {
	case FieldYear, FieldDay, FieldHour, FieldClockHour, FieldMinute, FieldSecond, FieldFraction:
		return true
	case FieldMonth:
		return in.Count <= 2
	default:
		return false
	}
}

// MaxDigits is the greedy upper bound on digits the instruction may
// consume when parsing. A two-digit year is exactly two; a longer year
// directive accepts up to nine digits so large years survive a round
// trip.
func (in Instruction) MaxDigits() int {
	switch in.Field {
	case FieldYear:
		if in.Count == 2 {
			return 2
		}
		return 9
	case FieldFraction:
		return in.Count
	default:
		return 2
	}
}

// Plan is an immutable compiled pattern.
type Plan struct {
	pattern string
	prog    []Instruction
}

// Pattern returns the pattern string the plan was compiled from.
func (p Plan) Pattern() string { return p.pattern }

// Instructions returns the instruction sequence. Callers must not
// modify the returned slice.
func (p Plan) Instructions() []Instruction { return p.prog }

// Equal reports structural equality of two plans.
func (p Plan) Equal(other Plan) bool {
	if len(p.prog) != len(other.prog) {
		return false
	}
	for i := range p.prog {
		if p.prog[i] != other.prog[i] {
			return false
		}
	}
	return true
}

// PatternError reports a malformed pattern. Pos is the byte offset of
// the offending character.
type PatternError struct {
	Pattern string
	Pos     int
	Msg     string
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("pattern: %s at position %d in %q", e.Msg, e.Pos, e.Pattern)
}

// Compile turns a pattern string into a Plan. Compilation is
// all-or-nothing: any unknown letter or unterminated quote fails the
// whole call.
func Compile(pat string) (Plan, error) {
	var prog []Instruction
	lit := func(s string) {
		if s == "" {
			return
		}
		if n := len(prog); n > 0 && prog[n-1].Field == FieldLiteral {
			prog[n-1].Literal += s
			return
		}
		prog = append(prog, Instruction{Field: FieldLiteral, Literal: s})
	}

	for i := 0; i < len(pat); {
		c := pat[i]
		switch {
		case c == '\'':
			text, next, err := scanQuoted(pat, i)
			if err != nil {
				return Plan{}, err
			}
			lit(text)
			i = next
		case isLetter(c):
			field, ok := directives[c]
			if !ok {
				return Plan{}, &PatternError{Pattern: pat, Pos: i,
					Msg: fmt.Sprintf("unknown directive letter %q", c)}
			}
			count := 1
			for i+count < len(pat) && pat[i+count] == c {
				count++
			}
			if field == FieldFraction && count > 9 {
				return Plan{}, &PatternError{Pattern: pat, Pos: i,
					Msg: "fraction directive longer than 9 digits"}
			}
			prog = append(prog, Instruction{Field: field, Count: count})
			i += count
		default:
			j := i
			for j < len(pat) && !isLetter(pat[j]) && pat[j] != '\'' {
				j++
			}
			lit(pat[i:j])
			i = j
		}
	}
	return Plan{pattern: pat, prog: prog}, nil
}

// MustCompile is Compile for patterns known good at build time.
func MustCompile(pat string) Plan {
	p, err := Compile(pat)
	if err != nil {
		panic(err)
	}
	return p
}

// scanQuoted consumes a quoted literal run starting at the opening
// quote. An empty run ('') emits a single quote character; so does a
// doubled quote inside a run.
func scanQuoted(pat string, start int) (text string, next int, err error) {
	var out []byte
	i := start + 1
	for {
		if i >= len(pat) {
			return "", 0, &PatternError{Pattern: pat, Pos: start, Msg: "unterminated quote"}
		}
		if pat[i] == '\'' {
			if i+1 < len(pat) && pat[i+1] == '\'' {
				out = append(out, '\'')
				i += 2
				continue
			}
			i++
			break
		}
		out = append(out, pat[i])
		i++
	}
	if len(out) == 0 {
		out = []byte{'\''}
	}
	return string(out), i, nil
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

package format

import (
	"time"

	"github.com/chronofmt/chronofmt/pkg/chrono"
	"github.com/chronofmt/chronofmt/pkg/pattern"
)

// Print renders the instant through the formatter's first plan. It is
// total: any instant representable by the chronology renders without
// error.
func (f *Formatter) Print(i chrono.Instant) string {
	fields := f.chron.FieldsOf(i, f.zone)
	_, offset := time.Unix(0, int64(i)).In(f.zone).Zone()

	out := make([]byte, 0, len(f.Pattern())+8)
	for _, in := range f.plans[0].Instructions() {
		out = f.printInstruction(out, in, fields, offset)
	}
	return string(out)
}

// AppendPrint is Print into a caller-supplied buffer.
func (f *Formatter) AppendPrint(dst []byte, i chrono.Instant) []byte {
	fields := f.chron.FieldsOf(i, f.zone)
	_, offset := time.Unix(0, int64(i)).In(f.zone).Zone()
	for _, in := range f.plans[0].Instructions() {
		dst = f.printInstruction(dst, in, fields, offset)
	}
	return dst
}

func (f *Formatter) printInstruction(b []byte, in pattern.Instruction, fields chrono.Fields, offset int) []byte {
	switch in.Field {
	case pattern.FieldLiteral:
		return append(b, in.Literal...)
	case pattern.FieldYear:
		y := fields.Year
		if in.Count == 2 {
			y = abs(y) % 100
		}
		return appendPadded(b, y, in.Count)
	case pattern.FieldMonth:
		switch {
		case in.Count <= 2:
			return appendPadded(b, fields.Month, in.Count)
		case in.Count == 3:
			return append(b, f.names.Month(fields.Month, true)...)
		default:
			return append(b, f.names.Month(fields.Month, false)...)
		}
	case pattern.FieldDay:
		return appendPadded(b, fields.Day, in.Count)
	case pattern.FieldWeekday:
		return append(b, f.names.Weekday(fields.Weekday, in.Count <= 3)...)
	case pattern.FieldHour:
		return appendPadded(b, fields.Hour, in.Count)
	case pattern.FieldClockHour:
		h := fields.Hour % 12
		if h == 0 {
			h = 12
		}
		return appendPadded(b, h, in.Count)
	case pattern.FieldMinute:
		return appendPadded(b, fields.Minute, in.Count)
	case pattern.FieldSecond:
		return appendPadded(b, fields.Second, in.Count)
	case pattern.FieldFraction:
		// Top Count digits of the 9-digit nanosecond value.
		div := 1
		for i := 0; i < 9-in.Count; i++ {
			div *= 10
		}
		return appendPadded(b, fields.Nano/div, in.Count)
	case pattern.FieldMeridiem:
		return append(b, f.names.Meridiem(fields.Hour >= 12)...)
	case pattern.FieldZoneOffset:
		return appendOffset(b, offset)
	default:
		return b
	}
}

// appendPadded writes v zero-padded to at least width digits.
func appendPadded(b []byte, v, width int) []byte {
	if v < 0 {
		b = append(b, '-')
		v = -v
	}
	digits := 1
	for p := 10; p <= v; p *= 10 {
		digits++
	}
	for i := digits; i < width; i++ {
		b = append(b, '0')
	}
	var buf [10]byte
	pos := len(buf)
	for {
		pos--
		buf[pos] = byte('0' + v%10)
		v /= 10
		if v == 0 {
			break
		}
	}
	return append(b, buf[pos:]...)
}

// appendOffset renders a zone offset in seconds: Z for zero, otherwise
// a signed hours:minutes pair.
func appendOffset(b []byte, offset int) []byte {
	if offset == 0 {
		return append(b, 'Z')
	}
	sign := byte('+')
	if offset < 0 {
		sign = '-'
		offset = -offset
	}
	b = append(b, sign)
	b = appendPadded(b, offset/3600, 2)
	b = append(b, ':')
	return appendPadded(b, (offset/60)%60, 2)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

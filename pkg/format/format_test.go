package format

import (
	"errors"
	"testing"
	"time"

	"github.com/chronofmt/chronofmt/pkg/chrono"
)

func at(t *testing.T, y, mo, d, h, mi, s, ns int) chrono.Instant {
	t.Helper()
	return chrono.At(time.Date(y, time.Month(mo), d, h, mi, s, ns, time.UTC))
}

func TestPrint(t *testing.T) {
	i := at(t, 2010, 3, 11, 17, 55, 36, 123000000)

	tests := []struct {
		pattern string
		want    string
	}{
		{"yyyy-MM-dd", "2010-03-11"},
		{"yyyyMMdd", "20100311"},
		{"yyyy-MM-dd'T'HH:mm:ss.SSSZ", "2010-03-11T17:55:36.123Z"},
		{"yyyy/M/d", "2010/3/11"},
		{"yy-MM-dd", "10-03-11"},
		{"MMM d, yyyy", "Mar 11, 2010"},
		{"MMMM d", "March 11"},
		{"EEE, dd MMM yyyy HH:mm:ss 'GMT'", "Thu, 11 Mar 2010 17:55:36 GMT"},
		{"EEEE", "Thursday"},
		{"hh:mm a", "05:55 PM"},
		{"HH:mm:ss.SSSSSS", "17:55:36.123000"},
		{"'at' HH 'o''clock'", "at 17 o'clock"},
	}

	for _, tt := range tests {
		f := MustNew(tt.pattern)
		if got := f.Print(i); got != tt.want {
			t.Errorf("Print(%q) = %q, want %q", tt.pattern, got, tt.want)
		}
	}
}

func TestPrint_ZoneOffset(t *testing.T) {
	i := at(t, 2010, 3, 11, 12, 0, 0, 0)
	f := MustNew("yyyy-MM-dd'T'HH:mm:ssZ")

	if got := f.Print(i); got != "2010-03-11T12:00:00Z" {
		t.Errorf("UTC print = %q", got)
	}

	east := f.WithZone(time.FixedZone("UTC+5:30", 5*3600+30*60))
	if got := east.Print(i); got != "2010-03-11T17:30:00+05:30" {
		t.Errorf("offset print = %q", got)
	}

	west := f.WithZone(time.FixedZone("UTC-7", -7*3600))
	if got := west.Print(i); got != "2010-03-11T05:00:00-07:00" {
		t.Errorf("negative offset print = %q", got)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		pattern string
		text    string
		want    chrono.Instant
	}{
		{"yyyy-MM-dd", "2010-03-11", at(t, 2010, 3, 11, 0, 0, 0, 0)},
		{"yyyyMMdd", "20100311", at(t, 2010, 3, 11, 0, 0, 0, 0)},
		{"yyyy-MM-dd'T'HH:mm:ss.SSSZ", "2010-03-11T17:55:36.123Z", at(t, 2010, 3, 11, 17, 55, 36, 123000000)},
		{"yyyy-MM-dd'T'HH:mm:ssZ", "2010-03-11T12:00:00+02:00", at(t, 2010, 3, 11, 10, 0, 0, 0)},
		{"yyyy-MM-dd'T'HH:mm:ssZ", "2010-03-11T12:00:00-0700", at(t, 2010, 3, 11, 19, 0, 0, 0)},
		{"yyyy/M/d", "2010/3/4", at(t, 2010, 3, 4, 0, 0, 0, 0)},
		{"MMM d, yyyy", "Mar 11, 2010", at(t, 2010, 3, 11, 0, 0, 0, 0)},
		{"MMMM d, yyyy", "march 11, 2010", at(t, 2010, 3, 11, 0, 0, 0, 0)},
		{"EEE, dd MMM yyyy HH:mm:ss 'GMT'", "Thu, 11 Mar 2010 17:55:36 GMT", at(t, 2010, 3, 11, 17, 55, 36, 0)},
		{"hh:mm a", "05:55 PM", at(t, 1970, 1, 1, 17, 55, 0, 0)},
		{"hh:mm a", "12:01 AM", at(t, 1970, 1, 1, 0, 1, 0, 0)},
		{"hh:mm a", "12:01 PM", at(t, 1970, 1, 1, 12, 1, 0, 0)},
		{"HH:mm", "09:30", at(t, 1970, 1, 1, 9, 30, 0, 0)},
	}

	for _, tt := range tests {
		f := MustNew(tt.pattern)
		got, err := f.Parse(tt.text)
		if err != nil {
			t.Errorf("Parse(%q, %q): %v", tt.pattern, tt.text, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q, %q) = %v, want %v", tt.pattern, tt.text, got, tt.want)
		}
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		pattern string
		text    string
		pos     int
	}{
		{"yyyy-MM-dd", "2010/03/11", 4},
		{"yyyy-MM-dd", "2010-xx-11", 5},
		{"MMM d", "Foo 1", 0},
		{"HH:mm a", "09:30 noon", 6},
		{"yyyy-MM-dd'T'HH:mm:ssZ", "2010-03-11T12:00:00*", 19},
	}

	for _, tt := range tests {
		f := MustNew(tt.pattern)
		_, err := f.Parse(tt.text)
		if err == nil {
			t.Errorf("Parse(%q, %q): expected error", tt.pattern, tt.text)
			continue
		}
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Errorf("Parse(%q, %q): error type %T, want *ParseError", tt.pattern, tt.text, err)
			continue
		}
		if pe.Pos != tt.pos {
			t.Errorf("Parse(%q, %q): position %d, want %d", tt.pattern, tt.text, pe.Pos, tt.pos)
		}
	}
}

func TestParse_TrailingInput(t *testing.T) {
	f := MustNew("yyyy-MM-dd'T'HH:mm:ss.SSSZ")

	_, err := f.Parse("2010-03-11T00:00:00.000Zxyz")
	if err == nil {
		t.Fatal("expected trailing input error")
	}
	var te *TrailingInputError
	if !errors.As(err, &te) {
		t.Fatalf("error type %T, want *TrailingInputError", err)
	}
	if te.Pos != 24 {
		t.Errorf("trailing input position = %d, want 24", te.Pos)
	}
	// Trailing input is still a parse failure to errors.As.
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Error("*TrailingInputError does not unwrap to *ParseError")
	}
}

func TestParse_InvalidFields(t *testing.T) {
	tests := []struct {
		pattern string
		text    string
		field   string
	}{
		{"yyyy-MM-dd", "2010-04-31", "day"},   // April has 30 days
		{"yyyy-MM-dd", "2010-13-01", "month"},
		{"yyyy-MM-dd", "2021-02-29", "day"},
		{"HH:mm", "25:00", "hour"},
		{"hh:mm a", "13:00 PM", "clock-hour"},
	}

	for _, tt := range tests {
		f := MustNew(tt.pattern)
		_, err := f.Parse(tt.text)
		if err == nil {
			t.Errorf("Parse(%q, %q): expected error", tt.pattern, tt.text)
			continue
		}
		var ife *chrono.InvalidFieldsError
		if !errors.As(err, &ife) {
			t.Errorf("Parse(%q, %q): error type %T, want *InvalidFieldsError", tt.pattern, tt.text, err)
			continue
		}
		if ife.Field != tt.field {
			t.Errorf("Parse(%q, %q): field %q, want %q", tt.pattern, tt.text, ife.Field, tt.field)
		}
	}
}

func TestParse_PivotYear(t *testing.T) {
	f := MustNew("yy-MM-dd").WithPivotYear(2050)

	tests := []struct {
		text string
		year int
	}{
		{"49-01-01", 2049},
		{"50-01-01", 2050},
		{"51-01-01", 1951},
		{"00-01-01", 2000},
		{"99-01-01", 1999},
	}

	for _, tt := range tests {
		got, err := f.Parse(tt.text)
		if err != nil {
			t.Errorf("Parse(%q): %v", tt.text, err)
			continue
		}
		if y := got.Time().Year(); y != tt.year {
			t.Errorf("Parse(%q) year = %d, want %d", tt.text, y, tt.year)
		}
	}
}

func TestParse_PivotYearDefaultsToCurrent(t *testing.T) {
	f := MustNew("yy")
	got, err := f.Parse("03")
	if err != nil {
		t.Fatal(err)
	}
	year := got.Time().Year()
	now := time.Now().Year()
	if year > now || year <= now-100 {
		t.Errorf("year %d outside the 100-year window ending at %d", year, now)
	}
	if year%100 != 3 {
		t.Errorf("year %d does not end in 03", year)
	}
}

func TestLiteralEscapeFidelity(t *testing.T) {
	// The quoted y must stay literal text even though y is a directive
	// letter.
	f := MustNew("yyyy'y'MM")
	i := at(t, 2010, 3, 1, 0, 0, 0, 0)

	text := f.Print(i)
	if text != "2010y03" {
		t.Fatalf("print = %q, want %q", text, "2010y03")
	}
	got, err := f.Parse(text)
	if err != nil {
		t.Fatalf("re-parse: %v", err)
	}
	if got != i {
		t.Errorf("round trip through escaped literal = %v, want %v", got, i)
	}
}

func TestModifiers_Immutable(t *testing.T) {
	base := MustNew("yyyy-MM-dd HH:mm")
	zone := time.FixedZone("UTC+3", 3*3600)

	a := base.WithZone(zone).WithPivotYear(2050)
	b := base.WithPivotYear(2050).WithZone(zone)

	if base.Zone() != time.UTC {
		t.Error("WithZone mutated the receiver")
	}
	if base.pivot != 0 {
		t.Error("WithPivotYear mutated the receiver")
	}

	i := at(t, 2010, 3, 11, 12, 0, 0, 0)
	if a.Print(i) != b.Print(i) {
		t.Error("modifier order changed the result")
	}
}

func TestFirstOf(t *testing.T) {
	f := FirstOf(
		MustNew("yyyy-MM-dd'T'HH:mm:ss"),
		MustNew("yyyy-MM-dd"),
	)

	full, err := f.Parse("2010-03-11T17:55:36")
	if err != nil {
		t.Fatalf("full parse: %v", err)
	}
	if full != at(t, 2010, 3, 11, 17, 55, 36, 0) {
		t.Errorf("full = %v", full)
	}

	dateOnly, err := f.Parse("2010-03-11")
	if err != nil {
		t.Fatalf("date-only parse: %v", err)
	}
	if dateOnly != at(t, 2010, 3, 11, 0, 0, 0, 0) {
		t.Errorf("date-only = %v", dateOnly)
	}

	if _, err := f.Parse("17:55:36"); err == nil {
		t.Error("time-only text should not match either alternative")
	}
}

func TestParsePrefix(t *testing.T) {
	f := MustNew("yyyy-MM-dd")

	i, n, err := f.ParsePrefix("2010-03-11 rest of line")
	if err != nil {
		t.Fatal(err)
	}
	if n != 10 {
		t.Errorf("consumed %d bytes, want 10", n)
	}
	if i != at(t, 2010, 3, 11, 0, 0, 0, 0) {
		t.Errorf("instant = %v", i)
	}
}

func TestRoundTrip_LargeSample(t *testing.T) {
	patterns := []struct {
		pattern string
		millis  bool // pattern preserves milliseconds
	}{
		{"yyyy-MM-dd'T'HH:mm:ss.SSSZ", true},
		{"yyyyMMdd'T'HHmmss.SSSZ", true},
		{"EEE, dd MMM yyyy HH:mm:ss 'GMT'", false},
		{"yyyy-MM-dd HH:mm:ss", false},
	}
	start := time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)

	for _, pc := range patterns {
		pat := pc.pattern
		f := MustNew(pat)
		for k := 0; k < 200; k++ {
			// Irregular stride so fields all move between samples.
			sample := start.Add(time.Duration(k) * (26*time.Hour + 13*time.Minute + 7*time.Second))
			if pc.millis {
				sample = sample.Add(time.Duration(k%1000) * time.Millisecond)
			}
			want := chrono.At(sample)
			got, err := f.Parse(f.Print(want))
			if err != nil {
				t.Fatalf("%q round trip at %v: %v", pat, want, err)
			}
			if got != want {
				t.Fatalf("%q round trip: got %v, want %v", pat, got, want)
			}
		}
	}
}

// Package format holds the Formatter and the two engines that execute
// a compiled plan: the printer (instant to text) and the parser (text
// to instant). Formatters are immutable; every modifier returns a new
// value, so a Formatter may be shared freely across goroutines.
package format

import (
	"time"

	"github.com/chronofmt/chronofmt/pkg/chrono"
	"github.com/chronofmt/chronofmt/pkg/locale"
	"github.com/chronofmt/chronofmt/pkg/pattern"
)

// Formatter bundles one or more compiled plans with the context needed
// to execute them: zone, locale table, chronology and pivot year.
// Printing always uses the first plan; parsing tries plans in order.
//
// A zero pivot year means "the current year at parse time".
type Formatter struct {
	plans []pattern.Plan
	zone  *time.Location
	names locale.Table
	chron chrono.Chronology
	pivot int
}

// New compiles a pattern into a Formatter bound to UTC, the English
// name table and the ISO chronology.
func New(pat string) (*Formatter, error) {
	plan, err := pattern.Compile(pat)
	if err != nil {
		return nil, err
	}
	return fromPlans(plan), nil
}

// MustNew is New for patterns known good at build time.
func MustNew(pat string) *Formatter {
	f, err := New(pat)
	if err != nil {
		panic(err)
	}
	return f
}

// FirstOf builds a parse-oriented Formatter that tries each argument's
// plans in order and succeeds on the first match. Printing uses only
// the first plan, which usually makes the result unsuitable for
// printing; callers decide that per use.
//
// Zone, locale, chronology and pivot are taken from the first
// argument.
func FirstOf(fs ...*Formatter) *Formatter {
	if len(fs) == 0 {
		panic("format: FirstOf needs at least one formatter")
	}
	out := *fs[0]
	plans := make([]pattern.Plan, 0, len(fs))
	for _, f := range fs {
		plans = append(plans, f.plans...)
	}
	out.plans = plans
	return &out
}

func fromPlans(plans ...pattern.Plan) *Formatter {
	return &Formatter{
		plans: plans,
		zone:  time.UTC,
		names: locale.EN,
		chron: chrono.ISO,
	}
}

// Pattern returns the pattern of the first plan.
func (f *Formatter) Pattern() string { return f.plans[0].Pattern() }

// Zone returns the formatter's zone.
func (f *Formatter) Zone() *time.Location { return f.zone }

// WithZone returns a copy bound to loc.
func (f *Formatter) WithZone(loc *time.Location) *Formatter {
	out := *f
	out.zone = loc
	return &out
}

// WithLocale returns a copy using the given name table.
func (f *Formatter) WithLocale(t locale.Table) *Formatter {
	out := *f
	out.names = t
	return &out
}

// WithChronology returns a copy using the given chronology.
func (f *Formatter) WithChronology(c chrono.Chronology) *Formatter {
	out := *f
	out.chron = c
	return &out
}

// WithPivotYear returns a copy whose two-digit years resolve into the
// 100-year window ending at year.
func (f *Formatter) WithPivotYear(year int) *Formatter {
	out := *f
	out.pivot = year
	return &out
}

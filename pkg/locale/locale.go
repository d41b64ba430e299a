// Package locale supplies the name tables the formatting engine uses
// for month, weekday and meridiem text. Locales affect rendering only;
// they never change field semantics.
package locale

import (
	"strings"
	"time"
)

// Table provides localized names and their reverse lookups. Lookup
// methods match case-insensitively at the start of s and return the
// number of bytes matched, preferring the longest candidate; a zero
// length means no candidate matched.
type Table interface {
	Month(m int, abbrev bool) string
	Weekday(d time.Weekday, abbrev bool) string
	Meridiem(pm bool) string

	LookupMonth(s string) (m int, n int)
	LookupWeekday(s string) (d time.Weekday, n int)
	LookupMeridiem(s string) (pm bool, n int)
}

// EN is the built-in English table.
var EN Table = enTable{}

var (
	enLongMonths = [...]string{
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	}
	enShortMonths = [...]string{
		"Jan", "Feb", "Mar", "Apr", "May", "Jun",
		"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
	}
	enLongDays = [...]string{
		"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
	}
	enShortDays = [...]string{
		"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat",
	}
	enMeridiems = [...]string{"AM", "PM"}
)

type enTable struct{}

func (enTable) Month(m int, abbrev bool) string {
	if m < 1 || m > 12 {
		return ""
	}
	if abbrev {
		return enShortMonths[m-1]
	}
	return enLongMonths[m-1]
}

func (enTable) Weekday(d time.Weekday, abbrev bool) string {
	if d < time.Sunday || d > time.Saturday {
		return ""
	}
	if abbrev {
		return enShortDays[d]
	}
	return enLongDays[d]
}

func (enTable) Meridiem(pm bool) string {
	if pm {
		return enMeridiems[1]
	}
	return enMeridiems[0]
}

func (enTable) LookupMonth(s string) (int, int) {
	best, n := -1, 0
	for i := range enLongMonths {
		if l := matchFold(s, enLongMonths[i]); l > n {
			best, n = i+1, l
		}
		if l := matchFold(s, enShortMonths[i]); l > n {
			best, n = i+1, l
		}
	}
	if best < 0 {
		return 0, 0
	}
	return best, n
}

func (enTable) LookupWeekday(s string) (time.Weekday, int) {
	best, n := -1, 0
	for i := range enLongDays {
		if l := matchFold(s, enLongDays[i]); l > n {
			best, n = i, l
		}
		if l := matchFold(s, enShortDays[i]); l > n {
			best, n = i, l
		}
	}
	if best < 0 {
		return 0, 0
	}
	return time.Weekday(best), n
}

func (enTable) LookupMeridiem(s string) (bool, int) {
	if matchFold(s, enMeridiems[1]) == 2 {
		return true, 2
	}
	if matchFold(s, enMeridiems[0]) == 2 {
		return false, 2
	}
	return false, 0
}

// matchFold reports the length of name if s starts with name under
// ASCII case folding, else 0.
func matchFold(s, name string) int {
	if len(s) < len(name) {
		return 0
	}
	if strings.EqualFold(s[:len(name)], name) {
		return len(name)
	}
	return 0
}

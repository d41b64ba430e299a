// Package registry provides the catalog of named built-in formatters
// and the best-effort resolver that parses text of unknown layout.
// The built-in catalog is constructed once and never mutated, so every
// function here is safe for concurrent use.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/chronofmt/chronofmt/pkg/chrono"
	"github.com/chronofmt/chronofmt/pkg/format"
)

// Entry is one named formatter with its capability flags. Entries
// whose layout is ambiguous for printing (alternative plans glued
// together with FirstOf) are parse-only.
type Entry struct {
	Name      string
	Formatter *format.Formatter
	CanPrint  bool
	CanParse  bool
}

// Info is the public listing form of an entry.
type Info struct {
	Name     string
	CanPrint bool
	CanParse bool
}

// Catalog is an ordered, immutable set of entries. The zero value is
// unusable; start from Default.
type Catalog struct {
	entries []Entry
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the built-in catalog: the ISO-8601 family plus the
// RFC 1123 wire layout, every entry bound to UTC.
func Default() *Catalog {
	defaultOnce.Do(func() {
		defaultCatalog = newCatalog(builtinEntries())
	})
	return defaultCatalog
}

func builtinEntries() []Entry {
	both := func(name, pat string) Entry {
		return Entry{Name: name, Formatter: format.MustNew(pat), CanPrint: true, CanParse: true}
	}

	entries := []Entry{
		both("basic-date", "yyyyMMdd"),
		both("basic-date-time", "yyyyMMdd'T'HHmmss.SSSZ"),
		both("basic-date-time-no-ms", "yyyyMMdd'T'HHmmssZ"),
		both("date", "yyyy-MM-dd"),
		both("date-hour-minute", "yyyy-MM-dd'T'HH:mm"),
		both("date-hour-minute-second", "yyyy-MM-dd'T'HH:mm:ss"),
		both("date-hour-minute-second-ms", "yyyy-MM-dd'T'HH:mm:ss.SSS"),
		both("date-time", "yyyy-MM-dd'T'HH:mm:ss.SSSZ"),
		both("date-time-no-ms", "yyyy-MM-dd'T'HH:mm:ssZ"),
		both("hour-minute-second", "HH:mm:ss"),
		both("mysql", "yyyy-MM-dd HH:mm:ss"),
		both("rfc1123", "EEE, dd MMM yyyy HH:mm:ss 'GMT'"),
		both("year-month", "yyyy-MM"),
		both("year-month-day-slash", "yyyy/MM/dd"),
	}

	// Incomplete layout: accepts input that may or may not carry a
	// time part, ambiguous to print.
	optional := format.FirstOf(
		format.MustNew("yyyy-MM-dd'T'HH:mm:ss.SSSZ"),
		format.MustNew("yyyy-MM-dd'T'HH:mm:ssZ"),
		format.MustNew("yyyy-MM-dd'T'HH:mm:ss"),
		format.MustNew("yyyy-MM-dd"),
	)
	entries = append(entries, Entry{Name: "date-optional-time", Formatter: optional, CanParse: true})

	return entries
}

func newCatalog(entries []Entry) *Catalog {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	return &Catalog{entries: sorted}
}

// With returns a new catalog extended by the given entry; an entry
// with an existing name replaces it. The receiver is unchanged.
func (c *Catalog) With(e Entry) *Catalog {
	entries := make([]Entry, 0, len(c.entries)+1)
	for _, have := range c.entries {
		if have.Name != e.Name {
			entries = append(entries, have)
		}
	}
	entries = append(entries, e)
	return newCatalog(entries)
}

// List returns every entry's name and capabilities in lexicographic
// name order.
func (c *Catalog) List() []Info {
	out := make([]Info, len(c.entries))
	for i, e := range c.entries {
		out[i] = Info{Name: e.Name, CanPrint: e.CanPrint, CanParse: e.CanParse}
	}
	return out
}

// Lookup returns the named entry.
func (c *Catalog) Lookup(name string) (Entry, bool) {
	for _, e := range c.entries {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// ParseAny tries every parse-capable entry in lexicographic name order
// and returns the first success. The order is fixed on purpose:
// overlapping layouts can accept the same text with different results,
// and only a stable order keeps the outcome deterministic.
// Per-candidate failures are discarded.
func (c *Catalog) ParseAny(text string) (chrono.Instant, error) {
	tried := 0
	for _, e := range c.entries {
		if !e.CanParse {
			continue
		}
		tried++
		if i, err := e.Formatter.Parse(text); err == nil {
			return i, nil
		}
	}
	return 0, &NoMatchError{Text: text, Tried: tried}
}

// ParsePrefixAny finds the entry whose plan consumes the longest
// leading prefix of text, breaking ties by name order. Used by stream
// scanning, where text continues past the timestamp.
func (c *Catalog) ParsePrefixAny(text string) (chrono.Instant, int, error) {
	var (
		best    chrono.Instant
		bestLen = -1
		tried   int
	)
	for _, e := range c.entries {
		if !e.CanParse {
			continue
		}
		tried++
		i, n, err := e.Formatter.ParsePrefix(text)
		if err != nil {
			continue
		}
		if n > bestLen {
			best, bestLen = i, n
		}
	}
	if bestLen < 0 {
		return 0, 0, &NoMatchError{Text: text, Tried: tried}
	}
	return best, bestLen, nil
}

// PrintAs renders the instant with the named print-capable entry.
func (c *Catalog) PrintAs(name string, i chrono.Instant) (string, error) {
	e, ok := c.Lookup(name)
	if !ok {
		return "", fmt.Errorf("registry: unknown layout %q", name)
	}
	if !e.CanPrint {
		return "", fmt.Errorf("registry: layout %q is parse-only", name)
	}
	return e.Formatter.Print(i), nil
}

// List lists the default catalog.
func List() []Info { return Default().List() }

// Lookup finds an entry in the default catalog.
func Lookup(name string) (Entry, bool) { return Default().Lookup(name) }

// ParseAny resolves text against the default catalog.
func ParseAny(text string) (chrono.Instant, error) { return Default().ParseAny(text) }

// PrintAs prints with a named entry of the default catalog.
func PrintAs(name string, i chrono.Instant) (string, error) { return Default().PrintAs(name, i) }

// NoMatchError reports that no parse-capable entry accepted the text.
// It deliberately carries no per-candidate detail; callers who need
// diagnostics should parse with an explicit formatter.
type NoMatchError struct {
	Text  string
	Tried int
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("registry: no layout matched %q (%d layouts tried)", e.Text, e.Tried)
}

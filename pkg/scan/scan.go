// Package scan rewrites timestamps in line-oriented text streams. Each
// line that starts with a recognizable timestamp gets it re-printed in
// a target layout; everything else passes through untouched.
package scan

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"github.com/chronofmt/chronofmt/pkg/format"
	"github.com/chronofmt/chronofmt/pkg/registry"
)

// Stats counts what a scan did.
type Stats struct {
	Lines     int
	Rewritten int
}

// Scanner normalizes timestamps against a catalog. Safe for concurrent
// use: both the catalog and the output formatter are immutable.
type Scanner struct {
	catalog *registry.Catalog
	out     *format.Formatter
	workers int
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithCatalog sets the catalog used for detection. Defaults to the
// built-in catalog.
func WithCatalog(c *registry.Catalog) Option {
	return func(s *Scanner) { s.catalog = c }
}

// WithWorkers sets the number of parallel workers for ScanFile.
func WithWorkers(n int) Option {
	return func(s *Scanner) {
		if n > 0 {
			s.workers = n
		}
	}
}

// New creates a Scanner that rewrites detected timestamps with out.
func New(out *format.Formatter, opts ...Option) *Scanner {
	s := &Scanner{
		catalog: registry.Default(),
		out:     out,
		workers: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Line rewrites a single line. The second return reports whether a
// timestamp was found and rewritten.
func (s *Scanner) Line(line string) (string, bool) {
	i, n, err := s.catalog.ParsePrefixAny(line)
	if err != nil {
		return line, false
	}
	return s.out.Print(i) + line[n:], true
}

// Scan processes r line by line, writing rewritten lines to w.
func (s *Scanner) Scan(ctx context.Context, r io.Reader, w io.Writer) (Stats, error) {
	var stats Stats
	br := bufio.NewReader(r)
	bw := bufio.NewWriter(w)

	for {
		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		default:
		}

		line, err := br.ReadBytes('\n')
		if len(line) > 0 {
			trimmed := bytes.TrimRight(line, "\n")
			out, rewritten := s.Line(string(trimmed))
			stats.Lines++
			if rewritten {
				stats.Rewritten++
			}
			if _, werr := bw.WriteString(out + "\n"); werr != nil {
				return stats, werr
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return stats, err
		}
	}
	return stats, bw.Flush()
}

// batchSize is the number of lines a worker takes at once. Large
// enough to amortize channel traffic, small enough to keep workers
// busy on medium files.
const batchSize = 512

type batch struct {
	index int
	lines []string
	stats Stats
}

// ScanFile processes path with the configured worker count, preserving
// line order in the output. When progress is true a byte progress bar
// is drawn to stderr.
func (s *Scanner) ScanFile(ctx context.Context, path string, w io.Writer, progress bool) (Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return Stats{}, err
	}
	defer f.Close()

	var r io.Reader = f
	if progress {
		info, err := f.Stat()
		if err == nil {
			bar := progressbar.DefaultBytes(info.Size(), "scanning")
			r = io.TeeReader(f, bar)
		}
	}

	if s.workers <= 1 {
		return s.Scan(ctx, r, w)
	}
	return s.scanParallel(ctx, r, w)
}

// scanParallel fans batches out to workers and reassembles them in
// input order before writing.
func (s *Scanner) scanParallel(ctx context.Context, r io.Reader, w io.Writer) (Stats, error) {
	g, ctx := errgroup.WithContext(ctx)

	jobs := make(chan *batch, s.workers)
	done := make(chan *batch, s.workers)

	// Producer: read lines into indexed batches.
	g.Go(func() error {
		defer close(jobs)
		br := bufio.NewReader(r)
		index := 0
		cur := &batch{index: index}
		flush := func() error {
			if len(cur.lines) == 0 {
				return nil
			}
			select {
			case jobs <- cur:
			case <-ctx.Done():
				return ctx.Err()
			}
			index++
			cur = &batch{index: index}
			return nil
		}
		for {
			line, err := br.ReadString('\n')
			if len(line) > 0 {
				cur.lines = append(cur.lines, strings.TrimRight(line, "\n"))
				if len(cur.lines) >= batchSize {
					if ferr := flush(); ferr != nil {
						return ferr
					}
				}
			}
			if err == io.EOF {
				return flush()
			}
			if err != nil {
				return err
			}
		}
	})

	// Workers: rewrite batches in place.
	workers := make(chan struct{}, s.workers)
	g.Go(func() error {
		var inner errgroup.Group
		for b := range jobs {
			b := b
			workers <- struct{}{}
			inner.Go(func() error {
				defer func() { <-workers }()
				for i, line := range b.lines {
					out, rewritten := s.Line(line)
					b.lines[i] = out
					b.stats.Lines++
					if rewritten {
						b.stats.Rewritten++
					}
				}
				select {
				case done <- b:
					return nil
				case <-ctx.Done():
					return ctx.Err()
				}
			})
		}
		err := inner.Wait()
		close(done)
		return err
	})

	// Collector: write batches back in index order.
	var stats Stats
	g.Go(func() error {
		bw := bufio.NewWriter(w)
		pending := make(map[int]*batch)
		next := 0
		for b := range done {
			pending[b.index] = b
			for {
				ready, ok := pending[next]
				if !ok {
					break
				}
				delete(pending, next)
				for _, line := range ready.lines {
					if _, err := bw.WriteString(line + "\n"); err != nil {
						return err
					}
				}
				stats.Lines += ready.stats.Lines
				stats.Rewritten += ready.stats.Rewritten
				next++
			}
		}
		if len(pending) > 0 {
			return fmt.Errorf("scan: %d batches never drained", len(pending))
		}
		return bw.Flush()
	})

	if err := g.Wait(); err != nil {
		return stats, err
	}
	return stats, nil
}

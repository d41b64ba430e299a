package scan

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chronofmt/chronofmt/pkg/format"
)

func newTestScanner(t *testing.T, opts ...Option) *Scanner {
	t.Helper()
	return New(format.MustNew("yyyy-MM-dd'T'HH:mm:ss.SSSZ"), opts...)
}

func TestLine(t *testing.T) {
	s := newTestScanner(t)

	tests := []struct {
		in        string
		want      string
		rewritten bool
	}{
		{
			"2010-03-11 17:55:36 GET /index.html 200",
			"2010-03-11T17:55:36.000Z GET /index.html 200",
			true,
		},
		{
			"20100311T175536.123Z worker started",
			"2010-03-11T17:55:36.123Z worker started",
			true,
		},
		{
			"plain message with no timestamp",
			"plain message with no timestamp",
			false,
		},
		{"", "", false},
	}

	for _, tt := range tests {
		got, rewritten := s.Line(tt.in)
		if got != tt.want || rewritten != tt.rewritten {
			t.Errorf("Line(%q) = (%q, %v), want (%q, %v)", tt.in, got, rewritten, tt.want, tt.rewritten)
		}
	}
}

func TestScan(t *testing.T) {
	s := newTestScanner(t)
	in := strings.Join([]string{
		"2010-03-11 08:00:00 start",
		"no timestamp here",
		"2010-03-11 08:00:01 stop",
	}, "\n") + "\n"

	var out bytes.Buffer
	stats, err := s.Scan(context.Background(), strings.NewReader(in), &out)
	if err != nil {
		t.Fatal(err)
	}

	want := strings.Join([]string{
		"2010-03-11T08:00:00.000Z start",
		"no timestamp here",
		"2010-03-11T08:00:01.000Z stop",
	}, "\n") + "\n"
	if out.String() != want {
		t.Errorf("output:\n%s\nwant:\n%s", out.String(), want)
	}
	if stats.Lines != 3 || stats.Rewritten != 2 {
		t.Errorf("stats = %+v, want {Lines:3 Rewritten:2}", stats)
	}
}

func TestScanFile_ParallelPreservesOrder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")

	var in strings.Builder
	const lines = 2000
	for k := 0; k < lines; k++ {
		fmt.Fprintf(&in, "2010-03-11 08:00:%02d line %04d\n", k%60, k)
	}
	if err := os.WriteFile(path, []byte(in.String()), 0o644); err != nil {
		t.Fatal(err)
	}

	s := newTestScanner(t, WithWorkers(4))
	var out bytes.Buffer
	stats, err := s.ScanFile(context.Background(), path, &out, false)
	if err != nil {
		t.Fatal(err)
	}

	if stats.Lines != lines || stats.Rewritten != lines {
		t.Fatalf("stats = %+v, want all %d lines rewritten", stats, lines)
	}
	got := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(got) != lines {
		t.Fatalf("output has %d lines, want %d", len(got), lines)
	}
	for k, line := range got {
		wantSuffix := fmt.Sprintf("line %04d", k)
		if !strings.HasSuffix(line, wantSuffix) {
			t.Fatalf("line %d out of order: %q", k, line)
		}
		if !strings.HasPrefix(line, "2010-03-11T08:00:") {
			t.Fatalf("line %d not rewritten: %q", k, line)
		}
	}
}

func TestScan_Canceled(t *testing.T) {
	s := newTestScanner(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Scan(ctx, strings.NewReader("2010-03-11 08:00:00 x\n"), &bytes.Buffer{})
	if err == nil {
		t.Error("expected error from canceled context")
	}
}

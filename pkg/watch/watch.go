// Package watch follows a growing file and hands appended lines to a
// callback. It backs the CLI's follow mode, where timestamps are
// normalized as log lines arrive.
package watch

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Follower tails one file. It remembers the byte offset it has handed
// out so a burst of write events never replays lines.
type Follower struct {
	path     string
	offset   int64
	debounce time.Duration

	// OnLine receives each appended line without its newline.
	OnLine func(line string) error

	// OnError receives read errors that do not stop the follow loop.
	OnError func(err error)
}

// NewFollower creates a follower for path, starting at the current end
// of file so only new lines are reported.
func NewFollower(path string) (*Follower, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve path: %w", err)
	}
	stat, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("watch: stat: %w", err)
	}
	return &Follower{
		path:     abs,
		offset:   stat.Size(),
		debounce: 200 * time.Millisecond,
	}, nil
}

// Run follows the file until the context is canceled.
func (f *Follower) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: create watcher: %w", err)
	}
	defer watcher.Close()

	// Watching the directory is more reliable than watching the file
	// itself across editors and log rotation.
	if err := watcher.Add(filepath.Dir(f.path)); err != nil {
		return fmt.Errorf("watch: add directory: %w", err)
	}

	var timer *time.Timer
	drain := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || abs != f.path {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(f.debounce, func() {
				select {
				case drain <- struct{}{}:
				default:
				}
			})

		case <-drain:
			if err := f.drainAppended(); err != nil {
				if f.OnError != nil {
					f.OnError(err)
				}
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if f.OnError != nil {
				f.OnError(err)
			}
		}
	}
}

// drainAppended reads from the remembered offset to the current end of
// file and reports complete lines. A truncated file restarts from the
// beginning.
func (f *Follower) drainAppended() error {
	file, err := os.Open(f.path)
	if err != nil {
		return err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return err
	}
	if stat.Size() < f.offset {
		f.offset = 0
	}
	if _, err := file.Seek(f.offset, io.SeekStart); err != nil {
		return err
	}

	br := bufio.NewReader(file)
	for {
		line, err := br.ReadString('\n')
		if err == io.EOF {
			// Keep the partial line for the next event.
			return nil
		}
		if err != nil {
			return err
		}
		f.offset += int64(len(line))
		if f.OnLine != nil {
			if cerr := f.OnLine(strings.TrimRight(line, "\n")); cerr != nil {
				return cerr
			}
		}
	}
}

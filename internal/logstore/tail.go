package logstore

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultInterval is the polling period of Tail.
const DefaultInterval = 100 * time.Millisecond

type tailConfig struct {
	interval time.Duration
	notify   bool
	buffer   int
	offset   *int64
}

// TailOption configures Tail.
type TailOption func(*tailConfig)

// WithInterval overrides the polling period.
func WithInterval(d time.Duration) TailOption {
	return func(c *tailConfig) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithNotify toggles filesystem notifications. Polling always runs; events
// only wake the loop early.
func WithNotify(enabled bool) TailOption {
	return func(c *tailConfig) {
		c.notify = enabled
	}
}

// WithOffset starts following at offset instead of the end of the file. The
// offset must sit just past a newline, as Snapshot.Offset does.
func WithOffset(offset int64) TailOption {
	return func(c *tailConfig) {
		c.offset = &offset
	}
}

// Tail follows the log file at path and emits every complete line appended
// after the file is first observed, with the service prefix stripped. It
// waits for the file to appear, and a truncated file is read again from the
// start. The channel is closed once ctx is done.
func Tail(ctx context.Context, path string, opts ...TailOption) <-chan string {
	cfg := tailConfig{interval: DefaultInterval, notify: true, buffer: 64}
	for _, opt := range opts {
		opt(&cfg)
	}

	out := make(chan string, cfg.buffer)
	go func() {
		defer close(out)

		var wake <-chan struct{}
		if cfg.notify {
			ch, stop := watchFile(path)
			defer stop()
			wake = ch
		}

		ticker := time.NewTicker(cfg.interval)
		defer ticker.Stop()

		cursor := &tailCursor{path: path}
		if cfg.offset != nil {
			cursor.started = true
			cursor.offset = *cfg.offset
		}
		for {
			for _, line := range cursor.poll() {
				select {
				case out <- StripPrefix(line):
				case <-ctx.Done():
					return
				}
			}
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			case <-wake:
			}
		}
	}()
	return out
}

// tailCursor tracks the read offset of a followed file. The offset only ever
// points just past a newline, so a partial trailing line is re-read once its
// newline arrives, and an offset that no longer follows a newline means the
// file was truncated and rewritten.
type tailCursor struct {
	path    string
	started bool
	offset  int64
}

func (c *tailCursor) poll() []string {
	f, err := os.Open(c.path)
	if err != nil {
		return nil
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil
	}
	size := info.Size()

	if !c.started {
		c.started = true
		c.offset = lastLineEnd(f, size)
		return nil
	}
	if size < c.offset || !afterNewline(f, c.offset) {
		c.offset = 0
	}
	if size == c.offset {
		return nil
	}

	buf := make([]byte, size-c.offset)
	n, err := f.ReadAt(buf, c.offset)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil
	}
	buf = buf[:n]

	last := strings.LastIndexByte(string(buf), '\n')
	if last < 0 {
		return nil
	}
	c.offset += int64(last + 1)

	chunk := string(buf[:last])
	lines := strings.Split(chunk, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// afterNewline reports whether offset is the start of the file or directly
// follows a newline.
func afterNewline(f *os.File, offset int64) bool {
	if offset == 0 {
		return true
	}
	b := make([]byte, 1)
	if _, err := f.ReadAt(b, offset-1); err != nil {
		return false
	}
	return b[0] == '\n'
}

// lastLineEnd returns the offset just past the last newline before size, or 0.
func lastLineEnd(f *os.File, size int64) int64 {
	const chunk = 4096
	buf := make([]byte, chunk)
	for end := size; end > 0; {
		start := end - chunk
		if start < 0 {
			start = 0
		}
		n, err := f.ReadAt(buf[:end-start], start)
		if err != nil && !errors.Is(err, io.EOF) {
			return 0
		}
		if i := strings.LastIndexByte(string(buf[:n]), '\n'); i >= 0 {
			return start + int64(i) + 1
		}
		end = start
	}
	return 0
}

// watchFile returns a channel that receives a value whenever the file at path
// is written, created or truncated. The parent directory is watched so the
// file may not exist yet. A nil channel is returned when notifications are
// unavailable or the directory does not exist, leaving polling alone.
func watchFile(path string) (<-chan struct{}, func()) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Debug("file notifications unavailable", "path", path, "err", err)
		return nil, func() {}
	}
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		log.Debug("watch log directory", "dir", dir, "err", err)
		_ = watcher.Close()
		return nil, func() {}
	}

	wake := make(chan struct{}, 1)
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		target := filepath.Clean(path)
		for {
			select {
			case <-done:
				return
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(evt.Name) != target {
					continue
				}
				select {
				case wake <- struct{}{}:
				default:
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Debug("log watcher error", "path", path, "err", err)
			}
		}
	}()

	stop := func() {
		close(done)
		_ = watcher.Close()
		wg.Wait()
	}
	return wake, stop
}

// Target names a service log file to follow.
type Target struct {
	Service string
	Path    string
	// Offset, when set, is where following starts; nil means the end of
	// the file when it is first observed.
	Offset *int64
}

// Line is one followed line with its prefix stripped.
type Line struct {
	Service string
	Text    string
}

// TailAll follows every target concurrently and merges their lines into one
// channel. All tails stop together when ctx is done, after which the channel
// is closed.
func TailAll(ctx context.Context, targets []Target, opts ...TailOption) <-chan Line {
	out := make(chan Line, 64)
	var wg sync.WaitGroup
	for _, target := range targets {
		target := target
		targetOpts := opts
		if target.Offset != nil {
			targetOpts = append(append([]TailOption(nil), opts...), WithOffset(*target.Offset))
		}
		lines := Tail(ctx, target.Path, targetOpts...)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for line := range lines {
				select {
				case out <- Line{Service: target.Service, Text: line}:
				case <-ctx.Done():
				}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

package logstore

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

// LastLines returns at most n lines from the end of the log file, oldest
// first, with the service prefix stripped. found is false when the file does
// not exist yet.
func LastLines(path string, n int) (lines []string, found bool, err error) {
	snap, err := readLast(path, n, true)
	return snap.Lines, snap.Found, err
}

// Snapshot is the end of a log file as seen by a follower.
type Snapshot struct {
	// Lines holds at most n complete lines, prefix stripped. A trailing
	// unterminated line is left for the follower.
	Lines []string
	Found bool
	// Offset sits just past the last complete line; following from it
	// neither repeats nor skips a line.
	Offset int64
}

// ReadSnapshot reads the last n complete lines of the log file and the offset
// from which Tail should continue.
func ReadSnapshot(path string, n int) (Snapshot, error) {
	return readLast(path, n, false)
}

func readLast(path string, n int, partial bool) (Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Snapshot{}, nil
		}
		return Snapshot{}, fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	snap := Snapshot{Found: true}
	ring := lineRing{limit: n}
	reader := bufio.NewReader(f)
	for {
		line, readErr := reader.ReadString('\n')
		complete := strings.HasSuffix(line, "\n")
		if complete {
			snap.Offset += int64(len(line))
		}
		if line != "" && (complete || partial) {
			line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
			ring.push(StripPrefix(line))
		}
		if readErr != nil {
			break
		}
	}
	snap.Lines = ring.lines()
	return snap, nil
}

// lineRing keeps the last limit lines pushed.
type lineRing struct {
	limit int
	buf   []string
	head  int
}

func (r *lineRing) push(line string) {
	if r.limit <= 0 {
		return
	}
	if len(r.buf) < r.limit {
		r.buf = append(r.buf, line)
		return
	}
	r.buf[r.head] = line
	r.head = (r.head + 1) % r.limit
}

func (r *lineRing) lines() []string {
	if len(r.buf) == 0 {
		return nil
	}
	out := make([]string, 0, len(r.buf))
	out = append(out, r.buf[r.head:]...)
	return append(out, r.buf[:r.head]...)
}

// StripPrefix removes a leading "[...]" tag and the whitespace after it.
// Lines without a complete tag are returned unchanged.
func StripPrefix(line string) string {
	if !strings.HasPrefix(line, "[") {
		return line
	}
	end := strings.IndexByte(line, ']')
	if end < 0 {
		return line
	}
	return strings.TrimLeft(line[end+1:], " \t")
}

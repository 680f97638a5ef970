// Package backfill implements the single thin CLI command: given
// pre-parsed events produced by the (out-of-scope) classic ingest
// adapter, stream them into a Primary role and persist a resumable
// cursor so a restarted run continues rather than replays.
package backfill

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// cursorFileName is the resumable byte-offset marker written under the
// run's cache directory, one line: the byte offset into EventsPath of
// the next unread event.
const cursorFileName = "backfill.cursor"

// cursor tracks how far into an events file a run has progressed.
type cursor struct {
	path string
}

func newCursor(cacheDir string) *cursor {
	return &cursor{path: filepath.Join(cacheDir, cursorFileName)}
}

// Load returns the last-saved offset, or 0 if no cursor exists yet.
func (c *cursor) Load() (int64, error) {
	data, err := os.ReadFile(c.path)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading cursor %s: %w", c.path, err)
	}
	offset, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing cursor %s: %w", c.path, err)
	}
	return offset, nil
}

// Save records offset as the next byte to resume from.
func (c *cursor) Save(offset int64) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return err
	}
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(strconv.FormatInt(offset, 10)), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, c.path)
}

// Reset discards a saved cursor so the next run starts from byte 0.
func (c *cursor) Reset() error {
	err := os.Remove(c.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// offsetReader wraps a *bufio.Scanner over f, tracking the byte offset
// just past the most recently returned line so the caller can persist a
// resume point after each successfully-applied event.
type offsetReader struct {
	scanner *bufio.Scanner
	offset  int64
}

func newOffsetReader(f *os.File) *offsetReader {
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	return &offsetReader{scanner: scanner}
}

// Next returns the next non-empty line and the byte offset immediately
// following it, or ok=false at EOF.
func (r *offsetReader) Next() (line string, offsetAfter int64, ok bool, err error) {
	for r.scanner.Scan() {
		text := r.scanner.Text()
		r.offset += int64(len(text)) + 1 // +1 for the newline consumed by Scan
		if strings.TrimSpace(text) == "" {
			continue
		}
		return text, r.offset, true, nil
	}
	if err := r.scanner.Err(); err != nil {
		return "", 0, false, err
	}
	return "", 0, false, nil
}

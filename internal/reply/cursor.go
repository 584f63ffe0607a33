package reply

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Cursor persists the id of the last mention that was actually replied to,
// one plain-text file per reply stream. A missing or unreadable file means
// "no prior state": the worst outcome of losing it is a duplicate reply,
// so reads never fail hard.
type Cursor struct {
	path string
}

// NewCursor creates a cursor backed by the given file.
func NewCursor(path string) *Cursor {
	return &Cursor{path: path}
}

// Load returns the persisted mention id, or 0 when no state exists.
func (c *Cursor) Load() int64 {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return 0
	}
	id, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		slog.Warn("Cursor file unreadable, starting from scratch", "path", c.path, "err", err)
		return 0
	}
	return id
}

// Save overwrites the cursor with id.
func (c *Cursor) Save(id int64) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("create cursor dir: %w", err)
	}
	if err := os.WriteFile(c.path, []byte(strconv.FormatInt(id, 10)+"\n"), 0o644); err != nil {
		return fmt.Errorf("write cursor: %w", err)
	}
	return nil
}

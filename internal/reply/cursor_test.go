package reply

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCursorAbsentFile(t *testing.T) {
	c := NewCursor(filepath.Join(t.TempDir(), "missing.txt"))
	if got := c.Load(); got != 0 {
		t.Errorf("Load() = %d, want 0", got)
	}
}

func TestCursorRoundTrip(t *testing.T) {
	c := NewCursor(filepath.Join(t.TempDir(), "replied.txt"))
	if err := c.Save(1234567890123456789); err != nil {
		t.Fatal(err)
	}
	if got := c.Load(); got != 1234567890123456789 {
		t.Errorf("Load() = %d", got)
	}
}

func TestCursorCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "replied.txt")
	os.WriteFile(path, []byte("not a number\n"), 0o644)
	c := NewCursor(path)
	if got := c.Load(); got != 0 {
		t.Errorf("Load() = %d, want 0 for corrupt file", got)
	}
}

func TestCursorCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "replied.txt")
	c := NewCursor(path)
	if err := c.Save(5); err != nil {
		t.Fatal(err)
	}
	if got := c.Load(); got != 5 {
		t.Errorf("Load() = %d, want 5", got)
	}
}

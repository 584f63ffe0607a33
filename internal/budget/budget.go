// Package budget tracks how many AI-assisted replies remain in the current
// calendar month. The counter lives in a small JSON file and rolls over
// lazily: every read and write compares the stored month against the clock,
// so no background timer is involved.
package budget

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Store is one monthly token counter backed by a file. It assumes a single
// writer per process; concurrent processes sharing one file are undefined.
type Store struct {
	path  string
	limit int

	now func() time.Time // test hook
}

type state struct {
	Month      string `json:"month"`
	TokensLeft int    `json:"tokensLeft"`
}

// NewStore creates a store at path with the given monthly limit.
func NewStore(path string, monthlyLimit int) *Store {
	return &Store{path: path, limit: monthlyLimit, now: time.Now}
}

// Limit returns the configured monthly limit.
func (s *Store) Limit() int { return s.limit }

// Get returns the tokens left this month, resetting the counter first if
// the calendar month has rolled over since the last mutation.
func (s *Store) Get() (int, error) {
	st := s.load()
	if st.Month != s.month() {
		st = state{Month: s.month(), TokensLeft: s.limit}
		if err := s.save(st); err != nil {
			return 0, err
		}
	}
	return st.TokensLeft, nil
}

// Consume takes n tokens if available and reports whether it succeeded.
// On false the stored state is untouched.
func (s *Store) Consume(n int) (bool, error) {
	st := s.load()
	if st.Month != s.month() {
		st = state{Month: s.month(), TokensLeft: s.limit}
	}
	if st.TokensLeft < n {
		return false, nil
	}
	st.TokensLeft -= n
	if err := s.save(st); err != nil {
		return false, err
	}
	return true, nil
}

// Refill force-resets the counter to the full monthly limit.
func (s *Store) Refill() error {
	return s.save(state{Month: s.month(), TokensLeft: s.limit})
}

func (s *Store) month() string {
	return s.now().Format("2006-01")
}

// load treats a missing or corrupt file as an expired month so the next
// save starts fresh. Losing this file only risks extra AI replies, never
// lost data.
func (s *Store) load() state {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return state{}
	}
	var st state
	if err := json.Unmarshal(data, &st); err != nil {
		slog.Warn("Token budget file unreadable, starting fresh", "path", s.path, "err", err)
		return state{}
	}
	if st.TokensLeft < 0 {
		st.TokensLeft = 0
	}
	if st.TokensLeft > s.limit {
		st.TokensLeft = s.limit
	}
	return st
}

// save overwrites the whole record atomically (temp file + rename).
func (s *Store) save(st state) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create budget dir: %w", err)
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal budget: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write budget: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace budget: %w", err)
	}
	return nil
}

// Package history keeps an append-only local log of everything actually
// sent, posts and replies alike. It is an audit trail for the operator,
// not a delivery guarantee: write failures are reported to the caller,
// who logs and moves on.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Entry kinds.
const (
	KindPost  = "post"
	KindReply = "reply"
)

// Entry is one sent tweet.
type Entry struct {
	ID        int64
	Kind      string
	Text      string
	TweetID   string
	InReplyTo int64 // 0 for plain posts
	CreatedAt time.Time
}

// Store is a sqlite-backed history log.
type Store struct {
	db *sql.DB
}

// Open opens (and if needed creates) the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS posts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			kind TEXT NOT NULL,
			text TEXT NOT NULL,
			tweet_id TEXT NOT NULL,
			in_reply_to INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create history table: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordPost logs a plain tweet.
func (s *Store) RecordPost(text, tweetID string) error {
	return s.record(KindPost, text, tweetID, 0)
}

// RecordReply logs a mention reply.
func (s *Store) RecordReply(text, tweetID string, inReplyTo int64) error {
	return s.record(KindReply, text, tweetID, inReplyTo)
}

func (s *Store) record(kind, text, tweetID string, inReplyTo int64) error {
	_, err := s.db.Exec(`
		INSERT INTO posts (kind, text, tweet_id, in_reply_to, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, kind, text, tweetID, inReplyTo, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("record %s: %w", kind, err)
	}
	return nil
}

// Recent returns the newest n entries, newest first.
func (s *Store) Recent(n int) ([]Entry, error) {
	rows, err := s.db.Query(`
		SELECT id, kind, text, tweet_id, in_reply_to, created_at
		FROM posts ORDER BY id DESC LIMIT ?
	`, n)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var createdAt int64
		if err := rows.Scan(&e.ID, &e.Kind, &e.Text, &e.TweetID, &e.InReplyTo, &createdAt); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		e.CreatedAt = time.Unix(createdAt, 0)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Package reply polls the mention feed and replies to each new mention
// exactly once per local bookkeeping. The cursor advances per mention, not
// per cycle, so a crash mid-batch never re-replies to mentions that were
// already answered.
package reply

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sashimi-app/sashimi/internal/ai"
	"github.com/sashimi-app/sashimi/internal/budget"
	"github.com/sashimi-app/sashimi/internal/xapi"
)

// ErrBudgetExhausted terminates the AI engine when the monthly token
// budget hits zero. Continuing would silently exceed the budget, so this
// is the one fire-time error that propagates out of Run.
var ErrBudgetExhausted = errors.New("monthly AI reply budget exhausted")

// Transport is the slice of the X API the engine needs.
type Transport interface {
	Mentions(ctx context.Context, sinceID int64) ([]xapi.Mention, error)
	Reply(ctx context.Context, text string, inReplyTo int64) (string, error)
}

// Recorder receives a copy of every reply actually sent. Optional;
// recording failures are logged and never block the engine.
type Recorder interface {
	RecordReply(text, tweetID string, inReplyTo int64) error
}

// Mode selects how reply text is produced.
type Mode int

const (
	// ModeFixed replies with one configured message, verbatim.
	ModeFixed Mode = iota
	// ModeAI generates a reply per mention, budgeted per calendar month.
	ModeAI
)

func (m Mode) String() string {
	if m == ModeAI {
		return "ai"
	}
	return "fixed"
}

// Config assembles an Engine. Transport and Cursor are required; Budget is
// required in AI mode. A nil Generator in AI mode falls back to the
// keyword template for every mention without consuming tokens.
type Config struct {
	Transport       Transport
	Cursor          *Cursor
	Mode            Mode
	FixedMessage    string
	Generator       ai.Generator
	Budget          *budget.Store
	IntervalMinutes int
	History         Recorder
}

// Engine is one auto-reply stream. Run it on its own goroutine; two
// engines with separate cursor files (fixed vs AI) may run concurrently.
type Engine struct {
	transport Transport
	cursor    *Cursor
	mode      Mode
	fixed     string
	gen       ai.Generator
	budget    *budget.Store
	interval  time.Duration
	history   Recorder

	lastID int64
}

// NewEngine builds an engine with the cursor loaded from disk.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.Transport == nil {
		return nil, fmt.Errorf("reply: transport is required")
	}
	if cfg.Cursor == nil {
		return nil, fmt.Errorf("reply: cursor is required")
	}
	if cfg.Mode == ModeFixed && cfg.FixedMessage == "" {
		return nil, fmt.Errorf("reply: fixed mode requires a message")
	}
	if cfg.Mode == ModeAI && cfg.Budget == nil {
		return nil, fmt.Errorf("reply: ai mode requires a token budget")
	}

	minutes := cfg.IntervalMinutes
	if minutes < 1 {
		minutes = 1
	}

	return &Engine{
		transport: cfg.Transport,
		cursor:    cfg.Cursor,
		mode:      cfg.Mode,
		fixed:     cfg.FixedMessage,
		gen:       cfg.Generator,
		budget:    cfg.Budget,
		interval:  time.Duration(minutes) * time.Minute,
		history:   cfg.History,
		lastID:    cfg.Cursor.Load(),
	}, nil
}

// Run polls until ctx is cancelled or, in AI mode, the token budget runs
// out. The between-cycle sleep is interruptible, so stop requests take
// effect promptly rather than after a full interval.
func (e *Engine) Run(ctx context.Context) error {
	slog.Info("Auto-reply engine started",
		"mode", e.mode, "interval", e.interval, "cursor", e.lastID)

	for {
		if err := e.cycle(ctx); err != nil {
			if errors.Is(err, ErrBudgetExhausted) {
				slog.Error("Auto-reply engine stopped: token budget exhausted")
				return err
			}
			if ctx.Err() != nil {
				slog.Info("Auto-reply engine stopped")
				return ctx.Err()
			}
		}

		select {
		case <-ctx.Done():
			slog.Info("Auto-reply engine stopped")
			return ctx.Err()
		case <-time.After(e.interval):
		}
	}
}

// cycle fetches mentions newer than the cursor and processes them
// oldest-first, so the cursor only ever advances monotonically.
func (e *Engine) cycle(ctx context.Context) error {
	mentions, err := e.transport.Mentions(ctx, e.lastID)
	if err != nil {
		slog.Warn("Fetching mentions failed", "kind", xapi.KindOf(err), "err", err)
		return nil
	}
	if len(mentions) == 0 {
		slog.Debug("No new mentions", "cursor", e.lastID)
		return nil
	}

	// The feed is newest-first; walk it backwards.
	for i := len(mentions) - 1; i >= 0; i-- {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		m := mentions[i]

		if m.AuthorHandle == "" {
			slog.Warn("Mention has no author handle, skipping", "mention", m.ID)
			continue
		}

		text, err := e.replyText(ctx, m)
		if err != nil {
			return err
		}

		full := "@" + m.AuthorHandle + " " + text
		tweetID, err := e.transport.Reply(ctx, full, m.ID)
		if err != nil {
			// Left behind the cursor, this mention is retried next cycle.
			slog.Warn("Reply failed",
				"mention", m.ID, "author", m.AuthorHandle,
				"kind", xapi.KindOf(err), "err", err)
			continue
		}

		// Reply is out; advance the cursor before touching the next
		// mention so a crash here cannot cause a duplicate.
		e.lastID = m.ID
		if err := e.cursor.Save(m.ID); err != nil {
			slog.Warn("Cursor write failed", "mention", m.ID, "err", err)
		}
		if e.history != nil {
			if err := e.history.RecordReply(full, tweetID, m.ID); err != nil {
				slog.Warn("History write failed", "err", err)
			}
		}
		slog.Info("Replied to mention",
			"mention", m.ID, "author", m.AuthorHandle, "tweet", tweetID)
	}
	return nil
}

func (e *Engine) replyText(ctx context.Context, m xapi.Mention) (string, error) {
	if e.mode == ModeFixed {
		return e.fixed, nil
	}

	left, err := e.budget.Get()
	if err != nil {
		slog.Warn("Token budget unreadable, using template reply", "err", err)
		return ai.TemplateReply(m.Text), nil
	}
	if left <= 0 {
		return "", ErrBudgetExhausted
	}

	if e.gen == nil {
		return ai.TemplateReply(m.Text), nil
	}

	generated, err := e.gen.GenerateReply(ctx, m.AuthorHandle, m.Text)
	if err != nil {
		slog.Warn("AI generation failed, using template reply", "mention", m.ID, "err", err)
		return ai.TemplateReply(m.Text), nil
	}

	ok, err := e.budget.Consume(1)
	if err != nil {
		slog.Warn("Token budget write failed", "err", err)
		return generated, nil
	}
	if !ok {
		// Lost a race against another consumer of the same file.
		return "", ErrBudgetExhausted
	}
	return generated, nil
}

package reply

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/sashimi-app/sashimi/internal/budget"
	"github.com/sashimi-app/sashimi/internal/xapi"
)

type sentReply struct {
	text      string
	inReplyTo int64
}

// fakeTransport serves a fixed newest-first feed and records replies.
type fakeTransport struct {
	feed     []xapi.Mention
	replies  []sentReply
	failIDs  map[int64]error
	fetchErr error
}

func (f *fakeTransport) Mentions(_ context.Context, sinceID int64) ([]xapi.Mention, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	var out []xapi.Mention
	for _, m := range f.feed {
		if m.ID > sinceID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeTransport) Reply(_ context.Context, text string, inReplyTo int64) (string, error) {
	if err := f.failIDs[inReplyTo]; err != nil {
		return "", err
	}
	f.replies = append(f.replies, sentReply{text, inReplyTo})
	return "reply-id", nil
}

func testCursor(t *testing.T) *Cursor {
	t.Helper()
	return NewCursor(filepath.Join(t.TempDir(), "replied.txt"))
}

func fixedEngine(t *testing.T, tr *fakeTransport, c *Cursor) *Engine {
	t.Helper()
	e, err := NewEngine(Config{
		Transport:    tr,
		Cursor:       c,
		Mode:         ModeFixed,
		FixedMessage: "Thanks!",
	})
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func TestCycleRepliesOldestFirst(t *testing.T) {
	tr := &fakeTransport{feed: []xapi.Mention{
		{ID: 7, AuthorHandle: "carol", Text: "newest"},
		{ID: 5, AuthorHandle: "bob", Text: "middle"},
		{ID: 3, AuthorHandle: "alice", Text: "oldest"},
	}}
	c := testCursor(t)
	e := fixedEngine(t, tr, c)

	if err := e.cycle(context.Background()); err != nil {
		t.Fatal(err)
	}

	want := []sentReply{
		{"@alice Thanks!", 3},
		{"@bob Thanks!", 5},
		{"@carol Thanks!", 7},
	}
	if len(tr.replies) != len(want) {
		t.Fatalf("replies = %v", tr.replies)
	}
	for i := range want {
		if tr.replies[i] != want[i] {
			t.Errorf("replies[%d] = %v, want %v", i, tr.replies[i], want[i])
		}
	}
	if got := c.Load(); got != 7 {
		t.Errorf("persisted cursor = %d, want 7", got)
	}
}

func TestCursorSurvivesMidBatchFailure(t *testing.T) {
	tr := &fakeTransport{
		feed: []xapi.Mention{
			{ID: 7, AuthorHandle: "carol", Text: "newest"},
			{ID: 5, AuthorHandle: "bob", Text: "middle"},
		},
		failIDs: map[int64]error{7: &xapi.Error{Kind: xapi.KindRateLimited, StatusCode: 429}},
	}
	c := testCursor(t)
	e := fixedEngine(t, tr, c)

	if err := e.cycle(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := c.Load(); got != 5 {
		t.Fatalf("cursor = %d, want 5 (last reply actually sent)", got)
	}

	// A restarted engine picks up at since_id=5 and only replies to 7.
	tr.failIDs = nil
	e2 := fixedEngine(t, tr, c)
	if err := e2.cycle(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(tr.replies) != 2 {
		t.Fatalf("replies = %v, want exactly one reply per mention", tr.replies)
	}
	if tr.replies[1].inReplyTo != 7 {
		t.Errorf("second run replied to %d, want 7", tr.replies[1].inReplyTo)
	}
	if got := c.Load(); got != 7 {
		t.Errorf("cursor = %d, want 7", got)
	}
}

func TestSkipsMentionWithoutAuthor(t *testing.T) {
	tr := &fakeTransport{feed: []xapi.Mention{
		{ID: 7, AuthorHandle: "carol", Text: "fine"},
		{ID: 5, AuthorHandle: "", Text: "anonymous"},
	}}
	c := testCursor(t)
	e := fixedEngine(t, tr, c)

	if err := e.cycle(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(tr.replies) != 1 || tr.replies[0].inReplyTo != 7 {
		t.Errorf("replies = %v, want only mention 7", tr.replies)
	}
}

func TestFetchFailureRetriesNextCycle(t *testing.T) {
	tr := &fakeTransport{fetchErr: &xapi.Error{Kind: xapi.KindTransport}}
	e := fixedEngine(t, tr, testCursor(t))
	if err := e.cycle(context.Background()); err != nil {
		t.Fatalf("fetch failure must not kill the engine: %v", err)
	}
}

type staticGen struct {
	reply string
	err   error
}

func (g *staticGen) GenerateReply(context.Context, string, string) (string, error) {
	return g.reply, g.err
}

func aiEngine(t *testing.T, tr *fakeTransport, c *Cursor, b *budget.Store, gen *staticGen) *Engine {
	t.Helper()
	e, err := NewEngine(Config{
		Transport: tr,
		Cursor:    c,
		Mode:      ModeAI,
		Generator: gen,
		Budget:    b,
	})
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func TestAIModeConsumesOneTokenPerReply(t *testing.T) {
	tr := &fakeTransport{feed: []xapi.Mention{
		{ID: 7, AuthorHandle: "carol", Text: "c"},
		{ID: 5, AuthorHandle: "bob", Text: "b"},
		{ID: 3, AuthorHandle: "alice", Text: "a"},
	}}
	c := testCursor(t)
	b := budget.NewStore(filepath.Join(t.TempDir(), "tokens.json"), 2)
	e := aiEngine(t, tr, c, b, &staticGen{reply: "Generated!"})

	err := e.cycle(context.Background())
	if !errors.Is(err, ErrBudgetExhausted) {
		t.Fatalf("err = %v, want ErrBudgetExhausted", err)
	}
	if len(tr.replies) != 2 {
		t.Fatalf("replies = %v, want 2 before exhaustion", tr.replies)
	}
	if tr.replies[0].text != "@alice Generated!" {
		t.Errorf("replies[0] = %v", tr.replies[0])
	}
	// Cursor sits at the last mention actually replied to.
	if got := c.Load(); got != 5 {
		t.Errorf("cursor = %d, want 5", got)
	}
}

func TestAIModeExhaustedBudgetStopsImmediately(t *testing.T) {
	tr := &fakeTransport{feed: []xapi.Mention{
		{ID: 3, AuthorHandle: "alice", Text: "a"},
	}}
	b := budget.NewStore(filepath.Join(t.TempDir(), "tokens.json"), 1)
	b.Consume(1)
	e := aiEngine(t, tr, testCursor(t), b, &staticGen{reply: "x"})

	if err := e.cycle(context.Background()); !errors.Is(err, ErrBudgetExhausted) {
		t.Fatalf("err = %v, want ErrBudgetExhausted", err)
	}
	if len(tr.replies) != 0 {
		t.Errorf("replies = %v, want none", tr.replies)
	}
}

func TestAIGenerationFailureFallsBackToTemplate(t *testing.T) {
	tr := &fakeTransport{feed: []xapi.Mention{
		{ID: 3, AuthorHandle: "alice", Text: "thanks for everything"},
	}}
	b := budget.NewStore(filepath.Join(t.TempDir(), "tokens.json"), 5)
	e := aiEngine(t, tr, testCursor(t), b, &staticGen{err: errors.New("model down")})

	if err := e.cycle(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(tr.replies) != 1 {
		t.Fatalf("replies = %v", tr.replies)
	}
	if tr.replies[0].text != "@alice You're very welcome! Glad I could help!" {
		t.Errorf("reply = %q, want template fallback", tr.replies[0].text)
	}
	// A fallback reply must not burn a token.
	if left, _ := b.Get(); left != 5 {
		t.Errorf("tokens left = %d, want 5", left)
	}
}

func TestRunStopsPromptlyOnCancel(t *testing.T) {
	tr := &fakeTransport{}
	e := fixedEngine(t, tr, testCursor(t))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop during its sleep")
	}
}

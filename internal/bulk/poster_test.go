package bulk

import (
	"context"
	"errors"
	"testing"
	"time"
)

type countingPoster struct {
	posts  []string
	failOn map[string]error
	sleeps []time.Duration
}

func (c *countingPoster) post(_ context.Context, text string) (string, error) {
	if err := c.failOn[text]; err != nil {
		return "", err
	}
	c.posts = append(c.posts, text)
	return "id-" + text, nil
}

func newTestPoster(c *countingPoster) *Poster {
	p := NewPoster(c.post)
	p.sleep = func(d time.Duration) { c.sleeps = append(c.sleeps, d) }
	return p
}

func TestPostSequentialOrderAndSpacing(t *testing.T) {
	c := &countingPoster{}
	p := newTestPoster(c)

	if err := p.PostSequential(context.Background(), []string{"A", "B", "C"}, time.Minute); err != nil {
		t.Fatal(err)
	}
	if len(c.posts) != 3 || c.posts[0] != "A" || c.posts[2] != "C" {
		t.Errorf("posts = %v", c.posts)
	}
	// Sleeps happen between posts only, never after the last.
	if len(c.sleeps) != 2 {
		t.Errorf("sleeps = %v, want 2", c.sleeps)
	}
}

func TestPostSequentialZeroDelayNoSleeps(t *testing.T) {
	c := &countingPoster{}
	p := newTestPoster(c)

	p.PostSequential(context.Background(), []string{"A", "B", "C"}, 0)
	if len(c.sleeps) != 0 {
		t.Errorf("sleeps = %v, want none", c.sleeps)
	}
	if len(c.posts) != 3 {
		t.Errorf("posts = %v, want all 3", c.posts)
	}
}

func TestPostSequentialFailureContinues(t *testing.T) {
	c := &countingPoster{failOn: map[string]error{"B": errors.New("boom")}}
	p := newTestPoster(c)

	if err := p.PostSequential(context.Background(), []string{"A", "B", "C"}, 0); err != nil {
		t.Fatal(err)
	}
	if len(c.posts) != 2 || c.posts[0] != "A" || c.posts[1] != "C" {
		t.Errorf("posts = %v, want A and C despite B failing", c.posts)
	}
}

func TestPostSequentialEmptyIsNoOp(t *testing.T) {
	c := &countingPoster{}
	p := newTestPoster(c)

	if err := p.PostSequential(context.Background(), nil, time.Minute); err != nil {
		t.Fatal(err)
	}
	if len(c.posts) != 0 || len(c.sleeps) != 0 {
		t.Error("empty input must post and sleep nothing")
	}
}

func TestPostSequentialHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := &countingPoster{}
	p := newTestPoster(c)
	if err := p.PostSequential(ctx, []string{"A"}, 0); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

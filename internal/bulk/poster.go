// Package bulk posts lists of messages read from a file, either back to
// back with a fixed spacing or handed off to the scheduler as a batch of
// timers. One bad message never aborts the rest of the list.
package bulk

import (
	"context"
	"log/slog"
	"time"

	"github.com/sashimi-app/sashimi/internal/schedule"
	"github.com/sashimi-app/sashimi/internal/xapi"
)

// Poster posts message lists through a schedule.PostFunc.
type Poster struct {
	post  schedule.PostFunc
	sleep func(time.Duration) // test hook, defaults to time.Sleep
}

// NewPoster creates a bulk poster.
func NewPoster(post schedule.PostFunc) *Poster {
	return &Poster{post: post, sleep: time.Sleep}
}

// PostSequential posts each message in order on the calling goroutine,
// sleeping delay between posts but not after the last one. Per-item
// failures are logged with their error kind and the remaining items are
// still attempted. An empty list is a no-op.
func (p *Poster) PostSequential(ctx context.Context, messages []string, delay time.Duration) error {
	if len(messages) == 0 {
		slog.Info("Bulk post: no messages")
		return nil
	}

	slog.Info("Bulk post started", "count", len(messages), "delay", delay)
	for i, msg := range messages {
		if err := ctx.Err(); err != nil {
			return err
		}

		id, err := p.post(ctx, msg)
		if err != nil {
			slog.Warn("Bulk item failed",
				"item", i+1, "of", len(messages),
				"kind", xapi.KindOf(err), "err", err)
		} else {
			slog.Info("Bulk item sent", "item", i+1, "of", len(messages), "id", id)
		}

		if i < len(messages)-1 && delay > 0 {
			p.sleep(delay)
		}
	}
	return nil
}

// ScheduleWithFrequency schedules messages[i] at i*every from now and
// returns the handles. An empty list is a no-op returning no handles.
func (p *Poster) ScheduleWithFrequency(s *schedule.Scheduler, messages []string, every time.Duration) []*schedule.Handle {
	if len(messages) == 0 {
		slog.Info("Bulk schedule: no messages")
		return nil
	}
	return s.Bulk(messages, every)
}

// Package schedule runs deferred tweet posts as fire-and-forget timers.
// Validation failures are returned to the caller before anything is
// scheduled; failures at fire time are logged and never propagate, since
// the scheduling call has long since returned.
package schedule

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/sashimi-app/sashimi/internal/xapi"
)

// PostFunc posts one message and returns the posted tweet id.
type PostFunc func(ctx context.Context, text string) (string, error)

// Scheduler owns pending one-shot posts.
type Scheduler struct {
	post PostFunc
}

// NewScheduler creates a scheduler that posts through the given function.
func NewScheduler(post PostFunc) *Scheduler {
	return &Scheduler{post: post}
}

// Handle is a cancelable pending post. Once fired it never re-fires, and
// canceling it becomes a no-op.
type Handle struct {
	mu    sync.Mutex
	timer *time.Timer
	state handleState
	done  chan struct{}
}

type handleState int

const (
	statePending handleState = iota
	stateFired
	stateCanceled
)

// Cancel stops the post if it has not fired yet. Reports whether the
// cancellation took effect.
func (h *Handle) Cancel() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state != statePending {
		return false
	}
	h.state = stateCanceled
	h.timer.Stop()
	close(h.done)
	return true
}

// Done returns a channel closed once the post has either fired (and the
// post attempt finished) or been canceled.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Fired reports whether the post has already run.
func (h *Handle) Fired() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state == stateFired
}

// Once schedules message to post after the given delay. The label is the
// human-readable fire time from the delay calculator; it is logged
// immediately so the operator sees when the post will go out.
func (s *Scheduler) Once(message string, after time.Duration, label string) *Handle {
	slog.Info("Tweet scheduled", "at", label, "in", after.Round(time.Second))

	h := &Handle{done: make(chan struct{})}
	h.timer = time.AfterFunc(after, func() {
		h.mu.Lock()
		if h.state != statePending {
			h.mu.Unlock()
			return
		}
		h.state = stateFired
		h.mu.Unlock()
		defer close(h.done)

		id, err := s.post(context.Background(), message)
		if err != nil {
			slog.Error("Scheduled tweet failed", "kind", xapi.KindOf(err), "err", err)
			return
		}
		slog.Info("Scheduled tweet sent", "id", id)
	})
	return h
}

// OnceAfterMinutes schedules message now+minutes from now.
func (s *Scheduler) OnceAfterMinutes(message string, minutes int) (*Handle, error) {
	delay, label, err := FromMinutes(minutes)
	if err != nil {
		return nil, err
	}
	return s.Once(message, delay, label), nil
}

// OnceAtClockTime schedules message for today at HH:MM, or tomorrow if the
// time has already passed.
func (s *Scheduler) OnceAtClockTime(message, hhmm string) (*Handle, error) {
	delay, label, err := FromClockTime(hhmm)
	if err != nil {
		return nil, err
	}
	return s.Once(message, delay, label), nil
}

// AtMonthDay schedules message for a specific calendar day and time.
func (s *Scheduler) AtMonthDay(message string, year, month, day int, hhmm string) (*Handle, error) {
	delay, label, err := ToMonthDayTime(year, month, day, hhmm)
	if err != nil {
		return nil, err
	}
	return s.Once(message, delay, label), nil
}

// Bulk schedules messages[i] at i*every from now and returns a handle per
// message so the whole batch can be canceled.
func (s *Scheduler) Bulk(messages []string, every time.Duration) []*Handle {
	now := time.Now()
	handles := make([]*Handle, 0, len(messages))
	for i, msg := range messages {
		offset := time.Duration(i) * every
		handles = append(handles, s.Once(msg, offset, now.Add(offset).Format("15:04:05")))
	}
	return handles
}
